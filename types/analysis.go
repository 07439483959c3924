package types

import (
	"os"
	"path"
	"strconv"

	"go.uber.org/zap"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// RewardDataSet holds the training and evaluation returns of one experiment
type RewardDataSet struct {
	EpisodeRewards []float64
	EvalSteps      []int
	EvalRewards    []float64
}

// RewardAnalyzer records the return of every training episode and every evaluation
type RewardAnalyzer struct {
	dataSet *RewardDataSet
}

var _ EvaluationAnalyzer = &RewardAnalyzer{}

func NewRewardAnalyzer() *RewardAnalyzer {
	r := &RewardAnalyzer{}
	r.Reset()
	return r
}

func (r *RewardAnalyzer) Analyze(_ int, _ int, _ int, _ string, t *Trace) {
	r.dataSet.EpisodeRewards = append(r.dataSet.EpisodeRewards, t.TotalReward())
}

func (r *RewardAnalyzer) AnalyzeEvaluation(_ string, ev Evaluation) {
	r.dataSet.EvalSteps = append(r.dataSet.EvalSteps, ev.TotalSteps)
	r.dataSet.EvalRewards = append(r.dataSet.EvalRewards, ev.Reward)
}

func (r *RewardAnalyzer) DataSet() DataSet {
	return r.dataSet
}

func (r *RewardAnalyzer) Reset() {
	r.dataSet = &RewardDataSet{
		EpisodeRewards: make([]float64, 0),
		EvalSteps:      make([]int, 0),
		EvalRewards:    make([]float64, 0),
	}
}

// RewardPlotComparator plots episode returns and evaluation returns of all
// experiments of a run into plotPath
func RewardPlotComparator(plotPath string, logger *zap.Logger) Comparator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if _, err := os.Stat(plotPath); err != nil {
		os.MkdirAll(plotPath, os.ModePerm)
	}
	return func(run int, names []string, ds []DataSet) {
		episodes := plot.New()
		episodes.Title.Text = "Training reward"
		episodes.X.Label.Text = "Episode"
		episodes.Y.Label.Text = "Total reward"

		evals := plot.New()
		evals.Title.Text = "Test reward"
		evals.X.Label.Text = "Training steps"
		evals.Y.Label.Text = "Total reward"

		for i := 0; i < len(names); i++ {
			dataSet, ok := ds[i].(*RewardDataSet)
			if !ok {
				continue
			}
			points := make(plotter.XYs, len(dataSet.EpisodeRewards))
			for j, v := range dataSet.EpisodeRewards {
				points[j] = plotter.XY{X: float64(j), Y: v}
			}
			if line, err := plotter.NewLine(points); err == nil {
				line.Color = plotutil.Color(i)
				episodes.Add(line)
				episodes.Legend.Add(names[i], line)
			}

			evalPoints := make(plotter.XYs, len(dataSet.EvalRewards))
			for j, v := range dataSet.EvalRewards {
				evalPoints[j] = plotter.XY{X: float64(dataSet.EvalSteps[j]), Y: v}
			}
			if line, err := plotter.NewLine(evalPoints); err == nil {
				line.Color = plotutil.Color(i)
				evals.Add(line)
				evals.Legend.Add(names[i], line)
			}
		}
		for name, p := range map[string]*plot.Plot{"train": episodes, "test": evals} {
			plotFile := path.Join(plotPath, strconv.Itoa(run)+"_"+name+"_reward.png")
			if err := p.Save(8*vg.Inch, 8*vg.Inch, plotFile); err != nil {
				logger.Warn("failed to save reward plot", zap.String("file", plotFile), zap.Error(err))
			}
		}
	}
}
