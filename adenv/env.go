package adenv

import (
	"fmt"

	"github.com/zeu5/keyword-rl/types"
	"go.uber.org/zap"
)

const (
	// DefaultInitialCash is the cash reported in every observation
	DefaultInitialCash = 100000.0
	// DefaultTerminationMargin is the number of blocks left unplayed at the end
	// of the dataset, so that the observation after the last step always exists
	DefaultTerminationMargin = 2
)

// Option configures an Environment
type Option func(*Environment)

func WithInitialCash(cash float64) Option {
	return func(e *Environment) {
		e.initialCash = cash
	}
}

func WithTerminationMargin(margin int) Option {
	return func(e *Environment) {
		e.margin = margin
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(e *Environment) {
		e.logger = logger
	}
}

// Environment steps through the blocks of a dataset. At every step the agent
// selects at most one keyword and is scored against the current block.
// An Environment must not be stepped from more than one goroutine at a time.
type Environment struct {
	indexer     *Indexer
	initialCash float64
	margin      int
	logger      *zap.Logger

	step       int
	holdings   []bool
	cash       float64
	terminated bool
}

// NewEnvironment builds an environment over its own Indexer of d and resets it
func NewEnvironment(d Dataset, opts ...Option) (*Environment, error) {
	indexer, err := NewIndexer(d)
	if err != nil {
		return nil, err
	}
	e := &Environment{
		indexer:     indexer,
		initialCash: DefaultInitialCash,
		margin:      DefaultTerminationMargin,
		logger:      zap.NewNop(),
	}
	for _, o := range opts {
		o(e)
	}
	if e.margin < 1 {
		return nil, fmt.Errorf("%w: termination margin %d must be at least 1", ErrConfiguration, e.margin)
	}
	if indexer.NumBlocks() <= e.margin {
		return nil, fmt.Errorf("%w: %d blocks, need more than the termination margin %d",
			ErrConfiguration, indexer.NumBlocks(), e.margin)
	}
	if _, err := e.Reset(); err != nil {
		return nil, err
	}
	return e, nil
}

// NumKeywords is K
func (e *Environment) NumKeywords() int {
	return e.indexer.K()
}

// NumFeatures is the width of a feature row
func (e *Environment) NumFeatures() int {
	return NumFeatures
}

// ActionSize is K+1
func (e *Environment) ActionSize() int {
	return e.indexer.K() + 1
}

// TotalBlocks in the underlying dataset
func (e *Environment) TotalBlocks() int {
	return e.indexer.NumBlocks()
}

// TerminalStep is the step count at which an episode terminates
func (e *Environment) TerminalStep() int {
	return e.indexer.NumBlocks() - e.margin
}

// Keywords in action order
func (e *Environment) Keywords() []string {
	return e.indexer.Keywords()
}

// Reset starts a new episode at block 0 with no holdings
func (e *Environment) Reset() (*TimeStep, error) {
	block, err := e.indexer.Block(0)
	if err != nil {
		return nil, err
	}
	e.step = 0
	e.holdings = make([]bool, e.indexer.K())
	e.cash = e.initialCash
	e.terminated = false

	e.logger.Debug("reset", zap.Int("step", e.step))
	return &TimeStep{
		observation: newObservation(block, e.cash, e.holdings),
		stepCount:   e.step,
	}, nil
}

// Step applies the action to the current block and advances one block
func (e *Environment) Step(action OneHot) (*TimeStep, error) {
	if e.terminated {
		return nil, fmt.Errorf("%w: episode terminated at step %d, reset required", ErrIndexOutOfRange, e.step)
	}
	k := e.indexer.K()
	if err := action.Validate(k + 1); err != nil {
		return nil, err
	}
	idx := action.Index()

	current, err := e.indexer.Block(e.step)
	if err != nil {
		return nil, err
	}
	nextStep := e.step + 1
	next, err := e.indexer.Block(nextStep)
	if err != nil {
		return nil, err
	}

	// holdings are replaced, never merged with the previous step
	holdings := make([]bool, k)
	if idx < k {
		holdings[idx] = true
	}
	reward := Reward(action, current, idx)

	e.holdings = holdings
	e.step = nextStep
	e.terminated = e.step >= e.TerminalStep()

	e.logger.Debug("step",
		zap.Int("step", e.step),
		zap.Int("action", idx),
		zap.Float64("reward", reward))
	return &TimeStep{
		observation: newObservation(next, e.cash, e.holdings),
		reward:      reward,
		terminated:  e.terminated,
		truncated:   false,
		stepCount:   e.step,
	}, nil
}

// RL adapts the environment to the generic agent interfaces
func (e *Environment) RL() types.Environment {
	return &rlEnvironment{env: e}
}

type rlEnvironment struct {
	env *Environment
}

var _ types.Environment = &rlEnvironment{}

func (r *rlEnvironment) Reset(_ *types.EpisodeContext) (types.State, error) {
	ts, err := r.env.Reset()
	if err != nil {
		return nil, err
	}
	return ts, nil
}

func (r *rlEnvironment) Step(a types.Action, _ *types.StepContext) (types.State, error) {
	action, ok := a.(OneHot)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected action type %T", ErrInvalidAction, a)
	}
	ts, err := r.env.Step(action)
	if err != nil {
		return nil, err
	}
	return ts, nil
}
