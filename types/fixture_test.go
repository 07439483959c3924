package types

import (
	"errors"
	"strconv"
)

type countAction string

func (c countAction) Hash() string {
	return string(c)
}

type countState struct {
	n      int
	limit  int
	reward float64
}

var _ State = &countState{}

func (c *countState) Hash() string {
	return strconv.Itoa(c.n)
}

func (c *countState) Actions() []Action {
	if c.Terminal() {
		return []Action{}
	}
	return []Action{countAction("next")}
}

func (c *countState) Reward() float64 {
	return c.reward
}

func (c *countState) Terminal() bool {
	return c.n >= c.limit
}

var errStep = errors.New("step failed")

// countEnv terminates after limit steps. Every step is rewarded with the
// number of resets so far, so later episodes earn more.
type countEnv struct {
	limit  int
	failAt int
	resets int
	n      int
}

var _ Environment = &countEnv{}

func (c *countEnv) Reset(_ *EpisodeContext) (State, error) {
	c.resets += 1
	c.n = 0
	return &countState{n: 0, limit: c.limit}, nil
}

func (c *countEnv) Step(_ Action, _ *StepContext) (State, error) {
	c.n += 1
	if c.failAt > 0 && c.n >= c.failAt {
		return nil, errStep
	}
	return &countState{n: c.n, limit: c.limit, reward: float64(c.resets)}, nil
}

// countingPolicy takes the first action and counts its updates
type countingPolicy struct {
	updates    int
	iterations int
	resets     int
	panics     bool
}

var _ Policy = &countingPolicy{}

func (c *countingPolicy) UpdateIteration(_ int, _ *Trace) {
	c.iterations += 1
}

func (c *countingPolicy) NextAction(_ int, _ State, actions []Action) (Action, bool) {
	if c.panics {
		panic("no action")
	}
	if len(actions) == 0 {
		return nil, false
	}
	return actions[0], true
}

func (c *countingPolicy) Update(_ int, _ State, _ Action, _ State) {
	c.updates += 1
}

func (c *countingPolicy) Reset() {
	c.resets += 1
}
