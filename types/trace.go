package types

import "gonum.org/v1/gonum/floats"

// Trace of an episode as triplets (state, action, nextState) with the reward
// of each transition
type Trace struct {
	states     []State
	actions    []Action
	nextStates []State
	rewards    []float64
}

func NewTrace() *Trace {
	return &Trace{
		states:     make([]State, 0),
		actions:    make([]Action, 0),
		nextStates: make([]State, 0),
		rewards:    make([]float64, 0),
	}
}

func (t *Trace) Append(step int, state State, action Action, nextState State) {
	t.states = append(t.states, state)
	t.actions = append(t.actions, action)
	t.nextStates = append(t.nextStates, nextState)
	t.rewards = append(t.rewards, nextState.Reward())
}

func (t *Trace) Len() int {
	return len(t.states)
}

func (t *Trace) Get(i int) (State, Action, State, bool) {
	if i < 0 || i >= len(t.states) {
		return nil, nil, nil, false
	}
	return t.states[i], t.actions[i], t.nextStates[i], true
}

// Reward of the i-th transition
func (t *Trace) Reward(i int) (float64, bool) {
	if i < 0 || i >= len(t.rewards) {
		return 0, false
	}
	return t.rewards[i], true
}

// TotalReward is the undiscounted return of the trace
func (t *Trace) TotalReward() float64 {
	return floats.Sum(t.rewards)
}

func (t *Trace) Last() (State, Action, State, bool) {
	if len(t.states) < 1 {
		return nil, nil, nil, false
	}
	lastIndex := len(t.states) - 1
	return t.states[lastIndex], t.actions[lastIndex], t.nextStates[lastIndex], true
}

func (t *Trace) GetPrefix(i int) (*Trace, bool) {
	if i > len(t.states) {
		return nil, false
	}
	return &Trace{
		states:     t.states[0:i],
		actions:    t.actions[0:i],
		nextStates: t.nextStates[0:i],
		rewards:    t.rewards[0:i],
	}, true
}

// Hashes of the actions taken, used when recording traces
func (t *Trace) ActionHashes() []string {
	out := make([]string, len(t.actions))
	for i, a := range t.actions {
		out[i] = a.Hash()
	}
	return out
}

// Rewards of every transition in order
func (t *Trace) Rewards() []float64 {
	out := make([]float64, len(t.rewards))
	copy(out, t.rewards)
	return out
}
