package adenv

import (
	"fmt"
	"math"
)

// Split holds block-aligned train and test partitions of a dataset
type Split struct {
	Train Dataset
	Test  Dataset

	K           int
	TrainBlocks int
	TestBlocks  int
}

// TrainRows is the number of rows in the train partition
func (s *Split) TrainRows() int {
	return len(s.Train)
}

// TestRows is the number of rows in the test partition
func (s *Split) TestRows() int {
	return len(s.Test)
}

// SplitByRatio cuts the dataset at round(len*ratio/K)*K rows so that both
// halves contain whole blocks only. The block count is rounded half to even.
func SplitByRatio(d Dataset, trainRatio float64) (*Split, error) {
	if !(trainRatio > 0 && trainRatio < 1) {
		return nil, fmt.Errorf("%w: train ratio %v not in (0, 1)", ErrConfiguration, trainRatio)
	}
	indexer, err := NewIndexer(d)
	if err != nil {
		return nil, err
	}
	k := indexer.K()
	cut := int(math.RoundToEven(float64(len(d))*trainRatio/float64(k))) * k

	split := &Split{
		Train:       d[:cut:cut],
		Test:        d[cut:],
		K:           k,
		TrainBlocks: cut / k,
		TestBlocks:  (len(d) - cut) / k,
	}
	if split.TrainBlocks == 0 || split.TestBlocks == 0 {
		return nil, fmt.Errorf("%w: split at ratio %v leaves %d train and %d test blocks",
			ErrConfiguration, trainRatio, split.TrainBlocks, split.TestBlocks)
	}
	return split, nil
}
