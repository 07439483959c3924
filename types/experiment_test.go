package types

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capture struct {
	names    []string
	datasets []DataSet
}

func (c *capture) comparator() Comparator {
	return func(_ int, names []string, ds []DataSet) {
		c.names = append(c.names, names...)
		c.datasets = append(c.datasets, ds...)
	}
}

func TestComparisonWithEvaluation(t *testing.T) {
	dir := t.TempDir()
	cmp := NewComparison(&ComparisonConfig{
		Runs:         1,
		TotalSteps:   20,
		Horizon:      100,
		EvalEvery:    10,
		MaxTestSteps: 100,
		RecordPath:   dir,
		RecordTraces: true,
	})
	c := &capture{}
	cmp.AddAnalysis("Reward", NewRewardAnalyzer(), c.comparator())

	policy := &countingPolicy{}
	exp := NewExperiment("count", policy, &countEnv{limit: 5}, &countEnv{limit: 3})
	cmp.AddExperiment(exp)
	cmp.Run(context.Background())

	require.Equal(t, []string{"count"}, c.names)
	ds, ok := c.datasets[0].(*RewardDataSet)
	require.True(t, ok)
	// four training episodes of five steps, rewarded by the episode number
	assert.Equal(t, []float64{5, 10, 15, 20}, ds.EpisodeRewards)
	assert.Equal(t, []int{10, 20}, ds.EvalSteps)
	assert.Equal(t, []float64{3, 6}, ds.EvalRewards)

	// evaluations never update the policy
	assert.Equal(t, 20, policy.updates)
	assert.Equal(t, 4, policy.iterations)
	assert.Equal(t, 1, policy.resets)

	require.NotNil(t, exp.Best)
	assert.Equal(t, 20, exp.Best.TotalSteps)
	assert.Equal(t, 6.0, exp.Best.Reward)
	assert.Len(t, exp.Evaluations, 2)

	bs, err := os.ReadFile(filepath.Join(dir, "count_0_best.json"))
	require.NoError(t, err)
	best := Evaluation{}
	require.NoError(t, json.Unmarshal(bs, &best))
	assert.Equal(t, *exp.Best, best)

	assert.FileExists(t, filepath.Join(dir, "comparison_config.json"))
	assert.FileExists(t, filepath.Join(dir, "traces", "count_0.jsonl"))
}

func TestExperimentWithoutEvaluation(t *testing.T) {
	cmp := NewComparison(&ComparisonConfig{
		TotalSteps: 12,
		Horizon:    4,
		EvalEvery:  5,
	})
	c := &capture{}
	cmp.AddAnalysis("Reward", NewRewardAnalyzer(), c.comparator())
	exp := NewExperiment("no-eval", &countingPolicy{}, &countEnv{limit: 10}, nil)
	cmp.AddExperiment(exp)
	cmp.Run(context.Background())

	ds := c.datasets[0].(*RewardDataSet)
	// the horizon cuts every episode at four steps
	assert.Equal(t, []float64{4, 8, 12}, ds.EpisodeRewards)
	assert.Empty(t, ds.EvalRewards)
	assert.Nil(t, exp.Best)
}

func TestExperimentAbortsOnConsecutiveErrors(t *testing.T) {
	cmp := NewComparison(&ComparisonConfig{
		TotalSteps:             100,
		Horizon:                10,
		ConsecutiveErrorsAbort: 2,
	})
	c := &capture{}
	cmp.AddAnalysis("Reward", NewRewardAnalyzer(), c.comparator())
	env := &countEnv{limit: 5, failAt: 1}
	cmp.AddExperiment(NewExperiment("failing", &countingPolicy{}, env, nil))
	cmp.Run(context.Background())

	assert.Equal(t, 2, env.resets)
	ds := c.datasets[0].(*RewardDataSet)
	assert.Len(t, ds.EpisodeRewards, 2)
}

func TestComparisonRuns(t *testing.T) {
	cmp := NewComparison(&ComparisonConfig{
		Runs:       3,
		TotalSteps: 5,
		Horizon:    5,
	})
	c := &capture{}
	cmp.AddAnalysis("Reward", NewRewardAnalyzer(), c.comparator())
	policy := &countingPolicy{}
	cmp.AddExperiment(NewExperiment("a", policy, &countEnv{limit: 5}, nil))
	cmp.AddExperiment(NewExperiment("b", NewSeededRandomPolicy(2), &countEnv{limit: 5}, nil))
	cmp.Run(context.Background())

	assert.Equal(t, []string{"a", "b", "a", "b", "a", "b"}, c.names)
	assert.Equal(t, 3, policy.resets)
	// analyzers are reset between experiments
	for _, d := range c.datasets {
		assert.Len(t, d.(*RewardDataSet).EpisodeRewards, 1)
	}
}
