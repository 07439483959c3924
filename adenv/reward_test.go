package adenv

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func scoredBlock(spend, ctr []float64) Block {
	block := make(Block, len(spend))
	for i := range spend {
		block[i] = KeywordMetrics{Keyword: keywordNames(len(spend))[i], AdSpend: spend[i], PaidCTR: ctr[i]}
	}
	return block
}

func TestRewardWorkedExample(t *testing.T) {
	block := scoredBlock([]float64{6000, 100, 50}, []float64{0.05, 0.20, 0.30})

	assert.Equal(t, 3.0, Reward(NewOneHot(4, 0), block, 0))
	assert.Equal(t, 0.0, Reward(NewOneHot(4, 3), block, 3))
}

func TestRewardContributions(t *testing.T) {
	block := scoredBlock([]float64{6000, 100, 9000}, []float64{0.05, 0.20, 0.10})

	tests := []struct {
		name     string
		idx      int
		expected float64
	}{
		// spend>5000 selected +1, ctr 0.20 +1, ctr 0.10 -1
		{"select first", 0, 1},
		// ctr 0.05 -1, spend 100 selected -1, ctr 0.10 -1
		{"select low spend", 1, -3},
		// ctr 0.05 -1, ctr 0.20 +1, spend 9000 selected +1
		{"select last", 2, 1},
		{"select none", 3, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Reward(NewOneHot(4, tc.idx), block, tc.idx))
		})
	}
}

func TestRewardThresholdsAreStrict(t *testing.T) {
	block := scoredBlock([]float64{SpendThreshold, 0}, []float64{0, CTRThreshold})
	assert.Equal(t, -2.0, Reward(NewOneHot(3, 0), block, 0))
}

func TestRewardNoneIgnoresBlock(t *testing.T) {
	block := scoredBlock([]float64{1, 2}, []float64{0.9, 0.9})
	assert.Equal(t, 0.0, Reward(make(OneHot, 3), block, 2))
}
