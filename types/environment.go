package types

// Environment explored by an agent, one episode at a time
type Environment interface {
	// Reset called at the start of each episode, returns the initial state
	Reset(*EpisodeContext) (State, error)
	// Step through with the specified action and return the resulting state.
	// Errors when the transition is disallowed.
	Step(Action, *StepContext) (State, error)
}

// State of the environment that policies observe
type State interface {
	// Indexed by the Hash
	// Should be deterministic
	Hash() string
	// Actions possible from the state, empty when the state is terminal
	Actions() []Action
	// Reward obtained on the transition into this state
	Reward() float64
	// Terminal is true when no further step is accepted
	Terminal() bool
}

// And Action that a policy can take
type Action interface {
	// Index of the action
	// Should be deterministic
	Hash() string
}
