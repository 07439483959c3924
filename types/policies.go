package types

import (
	"time"

	"golang.org/x/exp/rand"
)

type Policy interface {
	UpdateIteration(int, *Trace)
	NextAction(int, State, []Action) (Action, bool)
	Update(int, State, Action, State)
	Reset()
}

// RandomPolicy picks uniformly among the available actions
type RandomPolicy struct {
	rand *rand.Rand
}

var _ Policy = &RandomPolicy{}

func NewRandomPolicy() *RandomPolicy {
	return NewSeededRandomPolicy(uint64(time.Now().UnixNano()))
}

func NewSeededRandomPolicy(seed uint64) *RandomPolicy {
	return &RandomPolicy{
		rand: rand.New(rand.NewSource(seed)),
	}
}

func (r *RandomPolicy) Reset() {

}

func (r *RandomPolicy) UpdateIteration(_ int, _ *Trace) {

}

func (r *RandomPolicy) NextAction(step int, state State, actions []Action) (Action, bool) {
	if len(actions) == 0 {
		return nil, false
	}
	i := r.rand.Intn(len(actions))
	return actions[i], true
}

func (r *RandomPolicy) Update(_ int, _ State, _ Action, _ State) {}

// ConstantPolicy always picks the action with the given hash
type ConstantPolicy struct {
	hash string
}

var _ Policy = &ConstantPolicy{}

func NewConstantPolicy(actionHash string) *ConstantPolicy {
	return &ConstantPolicy{hash: actionHash}
}

func (c *ConstantPolicy) Reset() {}

func (c *ConstantPolicy) UpdateIteration(_ int, _ *Trace) {}

func (c *ConstantPolicy) NextAction(_ int, _ State, actions []Action) (Action, bool) {
	for _, a := range actions {
		if a.Hash() == c.hash {
			return a, true
		}
	}
	return nil, false
}

func (c *ConstantPolicy) Update(_ int, _ State, _ Action, _ State) {}
