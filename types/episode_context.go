package types

import (
	"context"
	"time"
)

// EpisodeContext wraps static and dynamic information of the episode
// Static: info about the episode
// Dynamic: info collected during the episode - trace, error
type EpisodeContext struct {
	// Context used when running to stop if required
	Context context.Context
	// Run number
	Run int
	// Episode number
	Episode int
	// Horizon of the episode
	Horizon int
	// Start time step of the episode
	StartTimeStep int

	// Trace including the steps taken in this episode
	Trace *Trace
	// Timesteps executed in the episode
	Timesteps int
	// Err is set when the episode ended with an error
	Err error
	// Terminal is set when the episode ended in a terminal state before the horizon
	Terminal bool
	// RunDuration of the episode
	RunDuration time.Duration
}

// NewEpisodeContext creates a new episode context
func NewEpisodeContext(ctx context.Context, run, episode, horizon, startTimeStep int) *EpisodeContext {
	return &EpisodeContext{
		Context:       ctx,
		Run:           run,
		Episode:       episode,
		Horizon:       horizon,
		StartTimeStep: startTimeStep,
		Trace:         NewTrace(),
	}
}

func (e *EpisodeContext) SetError(err error) {
	e.Err = err
}

func (e *EpisodeContext) IsError() bool {
	return e.Err != nil
}

// StepContext is passed to the environment on every step
type StepContext struct {
	Step int
	*EpisodeContext
}

func NewStepContext(step int, eCtx *EpisodeContext) *StepContext {
	return &StepContext{
		Step:           step,
		EpisodeContext: eCtx,
	}
}
