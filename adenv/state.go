package adenv

import (
	"fmt"
	"strconv"

	"github.com/zeu5/keyword-rl/types"
	"gonum.org/v1/gonum/mat"
)

// NoneHash is the hash of the action that selects no keyword
const NoneHash = "none"

// OneHot encodes the choice of at most one keyword. Index K means "select none".
type OneHot []bool

var _ types.Action = OneHot{}

// NewOneHot returns a vector of the given size with idx set.
// idx outside [0, size) yields the all-false vector.
func NewOneHot(size, idx int) OneHot {
	a := make(OneHot, size)
	if idx >= 0 && idx < size {
		a[idx] = true
	}
	return a
}

// Validate checks that the vector has length size and at most one true entry
func (a OneHot) Validate(size int) error {
	if len(a) != size {
		return fmt.Errorf("%w: length %d, expected %d", ErrInvalidAction, len(a), size)
	}
	count := 0
	for _, v := range a {
		if v {
			count += 1
		}
	}
	if count > 1 {
		return fmt.Errorf("%w: %d entries selected", ErrInvalidAction, count)
	}
	return nil
}

// Index of the first true entry, or len(a)-1 (select none) if there is none
func (a OneHot) Index() int {
	for i, v := range a {
		if v {
			return i
		}
	}
	return len(a) - 1
}

func (a OneHot) Hash() string {
	idx := a.Index()
	if idx == len(a)-1 {
		return NoneHash
	}
	return strconv.Itoa(idx)
}

// Observation is what the agent sees after reset and after every step
type Observation struct {
	// K x NumFeatures matrix of the current block
	Features *mat.Dense
	Cash     float64
	// Keyword selected on the last step, all false after reset
	Holdings []bool
}

// Held returns the index of the held keyword or -1
func (o Observation) Held() int {
	for i, h := range o.Holdings {
		if h {
			return i
		}
	}
	return -1
}

// FeatureRows returns the feature matrix as row slices
func (o Observation) FeatureRows() [][]float64 {
	rows, _ := o.Features.Dims()
	out := make([][]float64, rows)
	for i := 0; i < rows; i++ {
		out[i] = mat.Row(nil, i, o.Features)
	}
	return out
}

func newObservation(block Block, cash float64, holdings []bool) Observation {
	data := make([]float64, 0, len(block)*NumFeatures)
	for _, r := range block {
		data = append(data, r.Features()...)
	}
	h := make([]bool, len(holdings))
	copy(h, holdings)
	return Observation{
		Features: mat.NewDense(len(block), NumFeatures, data),
		Cash:     cash,
		Holdings: h,
	}
}

// TimeStep is the bundle returned by Reset and Step
type TimeStep struct {
	observation Observation
	reward      float64
	terminated  bool
	truncated   bool
	stepCount   int
}

var _ types.State = &TimeStep{}

func (t *TimeStep) Observation() Observation {
	return t.observation
}

func (t *TimeStep) Reward() float64 {
	return t.reward
}

func (t *TimeStep) Done() bool {
	return t.terminated || t.truncated
}

func (t *TimeStep) Terminated() bool {
	return t.terminated
}

// Truncated is reserved and always false
func (t *TimeStep) Truncated() bool {
	return t.truncated
}

func (t *TimeStep) StepCount() int {
	return t.stepCount
}

func (t *TimeStep) Terminal() bool {
	return t.Done()
}

func (t *TimeStep) Hash() string {
	return fmt.Sprintf("step=%d,held=%d", t.stepCount, t.observation.Held())
}

// Actions lists the K+1 one-hot actions, none once the episode is done
func (t *TimeStep) Actions() []types.Action {
	if t.Done() {
		return []types.Action{}
	}
	size := len(t.observation.Holdings) + 1
	actions := make([]types.Action, size)
	for i := 0; i < size; i++ {
		actions[i] = NewOneHot(size, i)
	}
	return actions
}
