package adenv

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeu5/keyword-rl/types"
)

const adSpendColumn = 7

func newTestEnvironment(t *testing.T, k, steps int, opts ...Option) *Environment {
	t.Helper()
	env, err := NewEnvironment(organized(t, k, steps), opts...)
	require.NoError(t, err)
	return env
}

func TestEnvironmentReset(t *testing.T) {
	env := newTestEnvironment(t, 3, 10, WithInitialCash(500))

	ts, err := env.Reset()
	require.NoError(t, err)

	obs := ts.Observation()
	assert.Equal(t, 0, ts.StepCount())
	assert.False(t, ts.Done())
	assert.False(t, ts.Terminated())
	assert.False(t, ts.Truncated())
	assert.Equal(t, []bool{false, false, false}, obs.Holdings)
	assert.Equal(t, 500.0, obs.Cash)
	rows, cols := obs.Features.Dims()
	assert.Equal(t, 3, rows)
	assert.Equal(t, 12, cols)
	assert.Equal(t, 1000.0, obs.Features.At(0, adSpendColumn))
}

func TestEnvironmentIntrospection(t *testing.T) {
	env := newTestEnvironment(t, 4, 10)
	assert.Equal(t, 4, env.NumKeywords())
	assert.Equal(t, 5, env.ActionSize())
	assert.Equal(t, 12, env.NumFeatures())
	assert.Equal(t, 10, env.TotalBlocks())
	assert.Equal(t, 8, env.TerminalStep())
	assert.Equal(t, keywordNames(4), env.Keywords())
}

func TestEnvironmentStep(t *testing.T) {
	env := newTestEnvironment(t, 3, 10)

	ts, err := env.Step(NewOneHot(4, 1))
	require.NoError(t, err)

	obs := ts.Observation()
	assert.Equal(t, 1, ts.StepCount())
	// selected spend is below the threshold and no unselected CTR is above it
	assert.Equal(t, -3.0, ts.Reward())
	assert.Equal(t, []bool{false, true, false}, obs.Holdings)
	assert.Equal(t, DefaultInitialCash, obs.Cash)
	assert.Equal(t, 1001.0, obs.Features.At(0, adSpendColumn))
	assert.False(t, ts.Done())
}

func TestEnvironmentHoldingsAreReplaced(t *testing.T) {
	env := newTestEnvironment(t, 3, 10)

	first, err := env.Step(NewOneHot(4, 0))
	require.NoError(t, err)
	second, err := env.Step(NewOneHot(4, 2))
	require.NoError(t, err)
	third, err := env.Step(NewOneHot(4, 3))
	require.NoError(t, err)

	assert.Equal(t, []bool{true, false, false}, first.Observation().Holdings)
	assert.Equal(t, []bool{false, false, true}, second.Observation().Holdings)
	assert.Equal(t, []bool{false, false, false}, third.Observation().Holdings)
	assert.Equal(t, 0.0, third.Reward())
}

func TestEnvironmentAllFalseActionSelectsNone(t *testing.T) {
	env := newTestEnvironment(t, 3, 10)

	ts, err := env.Step(make(OneHot, 4))
	require.NoError(t, err)
	assert.Equal(t, 0.0, ts.Reward())
	assert.Equal(t, -1, ts.Observation().Held())
}

func TestEnvironmentInvalidAction(t *testing.T) {
	env := newTestEnvironment(t, 3, 10)

	for _, action := range []OneHot{
		{true, false, false},
		{true, false, false, false, false},
		{true, true, false, false},
	} {
		_, err := env.Step(action)
		assert.ErrorIs(t, err, ErrInvalidAction)
	}

	// a rejected action leaves the state untouched
	ts, err := env.Step(NewOneHot(4, 3))
	require.NoError(t, err)
	assert.Equal(t, 1, ts.StepCount())
}

func TestEnvironmentTermination(t *testing.T) {
	env := newTestEnvironment(t, 2, 10)
	none := NewOneHot(3, 2)

	for s := 1; s <= 8; s++ {
		ts, err := env.Step(none)
		require.NoError(t, err)
		assert.Equal(t, s, ts.StepCount())
		assert.Equal(t, s == 8, ts.Terminated(), "step %d", s)
		assert.Equal(t, s == 8, ts.Done())
		assert.False(t, ts.Truncated())
	}

	_, err := env.Step(none)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)

	ts, err := env.Reset()
	require.NoError(t, err)
	assert.Equal(t, 0, ts.StepCount())
	_, err = env.Step(none)
	assert.NoError(t, err)
}

func TestEnvironmentCustomMargin(t *testing.T) {
	env := newTestEnvironment(t, 2, 5, WithTerminationMargin(1))
	assert.Equal(t, 4, env.TerminalStep())

	var ts *TimeStep
	var err error
	for i := 0; i < 4; i++ {
		ts, err = env.Step(NewOneHot(3, 0))
		require.NoError(t, err)
	}
	assert.True(t, ts.Terminated())
	// the observation after the last step is the final block
	assert.Equal(t, 1004.0, ts.Observation().Features.At(1, adSpendColumn))
}

func TestEnvironmentConfiguration(t *testing.T) {
	_, err := NewEnvironment(organized(t, 2, 2))
	assert.ErrorIs(t, err, ErrConfiguration)

	_, err = NewEnvironment(organized(t, 2, 10), WithTerminationMargin(0))
	assert.ErrorIs(t, err, ErrConfiguration)

	d := organized(t, 2, 10)
	_, err = NewEnvironment(d[:7])
	assert.ErrorIs(t, err, ErrBlockAlignment)
}

func TestObservationsDoNotAlias(t *testing.T) {
	env := newTestEnvironment(t, 2, 10)

	first, err := env.Step(NewOneHot(3, 0))
	require.NoError(t, err)
	held := first.Observation().Holdings
	held[1] = true

	second, err := env.Step(NewOneHot(3, 2))
	require.NoError(t, err)
	assert.Equal(t, []bool{false, false}, second.Observation().Holdings)
	assert.Equal(t, []bool{true, true}, first.Observation().Holdings)
}

func TestTimeStepActions(t *testing.T) {
	env := newTestEnvironment(t, 2, 4)

	ts, err := env.Reset()
	require.NoError(t, err)
	actions := ts.Actions()
	require.Len(t, actions, 3)
	assert.Equal(t, "0", actions[0].Hash())
	assert.Equal(t, "1", actions[1].Hash())
	assert.Equal(t, NoneHash, actions[2].Hash())

	for !ts.Terminal() {
		ts, err = env.Step(NewOneHot(3, 0))
		require.NoError(t, err)
	}
	assert.Empty(t, ts.Actions())
}

func TestEnvironmentWithAgent(t *testing.T) {
	env := newTestEnvironment(t, 3, 12)
	agent := types.NewAgent(&types.AgentConfig{
		Horizon:     100,
		Policy:      types.NewSeededRandomPolicy(7),
		Environment: env.RL(),
	})

	for episode := 0; episode < 3; episode++ {
		eCtx := types.NewEpisodeContext(context.Background(), 0, episode, 100, 0)
		agent.RunEpisode(eCtx)
		require.NoError(t, eCtx.Err)
		assert.True(t, eCtx.Terminal)
		assert.Equal(t, env.TerminalStep(), eCtx.Timesteps)
		assert.Equal(t, env.TerminalStep(), eCtx.Trace.Len())
	}
}

func TestEnvironmentWithConstantNonePolicy(t *testing.T) {
	env := newTestEnvironment(t, 3, 12)
	agent := types.NewAgent(&types.AgentConfig{
		Horizon:     5,
		Policy:      types.NewConstantPolicy(NoneHash),
		Environment: env.RL(),
	})

	eCtx := types.NewEpisodeContext(context.Background(), 0, 0, 5, 0)
	agent.Evaluate(eCtx)
	require.NoError(t, eCtx.Err)
	assert.False(t, eCtx.Terminal)
	assert.Equal(t, 5, eCtx.Timesteps)
	assert.Equal(t, 0.0, eCtx.Trace.TotalReward())
}
