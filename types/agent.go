package types

import (
	"fmt"
	"time"
)

type AgentConfig struct {
	Horizon     int
	Policy      Policy
	Environment Environment
}

// RL Agent configured with the corresponding
// policy and environment
type Agent struct {
	config      *AgentConfig
	policy      Policy
	environment Environment
}

// Instantiates a new Agent
func NewAgent(config *AgentConfig) *Agent {
	return &Agent{
		config:      config,
		policy:      config.Policy,
		environment: config.Environment,
	}
}

// RunEpisode runs a single episode, updating the policy along the way.
// The trace, timesteps and errors are recorded in the episode context.
func (a *Agent) RunEpisode(eCtx *EpisodeContext) {
	a.run(eCtx, true)
}

// Evaluate runs a single episode without updating the policy
func (a *Agent) Evaluate(eCtx *EpisodeContext) {
	a.run(eCtx, false)
}

func (a *Agent) run(eCtx *EpisodeContext, learn bool) {
	start := time.Now()
	defer func() {
		eCtx.RunDuration = time.Since(start)
	}()
	defer func() {
		if r := recover(); r != nil {
			eCtx.SetError(fmt.Errorf("episode %d: %v", eCtx.Episode, r))
		}
	}()

	state, err := a.environment.Reset(eCtx)
	if err != nil {
		eCtx.SetError(err)
		return
	}

	for i := 0; i < eCtx.Horizon; i++ {
		select {
		case <-eCtx.Context.Done():
			return
		default:
		}

		actions := state.Actions()
		if state.Terminal() || len(actions) == 0 {
			eCtx.Terminal = true
			break
		}
		nextAction, ok := a.policy.NextAction(i, state, actions)
		if !ok {
			break
		}
		nextState, err := a.environment.Step(nextAction, NewStepContext(i, eCtx))
		if err != nil {
			eCtx.SetError(err)
			return
		}
		if learn {
			a.policy.Update(i, state, nextAction, nextState)
		}

		eCtx.Trace.Append(i, state, nextAction, nextState)
		eCtx.Timesteps += 1
		state = nextState
	}
	if state.Terminal() {
		eCtx.Terminal = true
	}
	if learn {
		a.policy.UpdateIteration(eCtx.Episode, eCtx.Trace)
	}
}
