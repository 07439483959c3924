package adenv

import (
	"encoding/json"
	"fmt"
	"os"
	"path"
	"strconv"

	"github.com/zeu5/keyword-rl/types"
	"go.uber.org/zap"
)

// SelectionDataSet counts how often each keyword (and "none") was selected
type SelectionDataSet struct {
	Counts map[string]int `json:"counts"`
	Total  int            `json:"total"`
}

// SelectionAnalyzer counts keyword selections across the training episodes
type SelectionAnalyzer struct {
	keywords []string
	dataSet  *SelectionDataSet
}

var _ types.Analyzer = &SelectionAnalyzer{}

// NewSelectionAnalyzer maps action indices back to the given keywords
func NewSelectionAnalyzer(keywords []string) *SelectionAnalyzer {
	s := &SelectionAnalyzer{keywords: keywords}
	s.Reset()
	return s
}

func (s *SelectionAnalyzer) Analyze(_ int, _ int, _ int, _ string, t *types.Trace) {
	for i := 0; i < t.Len(); i++ {
		_, a, _, ok := t.Get(i)
		if !ok {
			continue
		}
		action, ok := a.(OneHot)
		if !ok {
			continue
		}
		name := NoneHash
		if idx := action.Index(); idx >= 0 && idx < len(s.keywords) {
			name = s.keywords[idx]
		}
		s.dataSet.Counts[name] += 1
		s.dataSet.Total += 1
	}
}

func (s *SelectionAnalyzer) DataSet() types.DataSet {
	return s.dataSet
}

func (s *SelectionAnalyzer) Reset() {
	s.dataSet = &SelectionDataSet{
		Counts: make(map[string]int),
	}
}

// SelectionComparator writes the selection counts of each experiment as JSON.
// Write failures are logged and do not stop the comparison.
func SelectionComparator(savePath string, logger *zap.Logger) types.Comparator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if _, err := os.Stat(savePath); err != nil {
		os.MkdirAll(savePath, os.ModePerm)
	}
	return func(run int, names []string, ds []types.DataSet) {
		for i := 0; i < len(names); i++ {
			dataSet, ok := ds[i].(*SelectionDataSet)
			if !ok {
				continue
			}
			bs, err := json.Marshal(dataSet)
			if err != nil {
				logger.Warn("failed to encode selections", zap.String("experiment", names[i]), zap.Error(err))
				continue
			}
			selectionsFile := path.Join(savePath, strconv.Itoa(run)+"_"+names[i]+"_selections.json")
			if err := os.WriteFile(selectionsFile, bs, 0644); err != nil {
				logger.Warn("failed to record selections", zap.String("file", selectionsFile), zap.Error(err))
			}
			fmt.Printf("Experiment %s: %d selections, %d none\n", names[i], dataSet.Total, dataSet.Counts[NoneHash])
		}
	}
}
