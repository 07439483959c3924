package types

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path"
	"strconv"

	"github.com/zeu5/keyword-rl/util"
	"go.uber.org/zap"
)

type experimentRunConfig struct {
	// execution configuration
	CurrentRun int
	TotalSteps int
	Horizon    int
	Analyzers  []Analyzer
	Context    context.Context
	Logger     *zap.Logger

	// periodic evaluation
	EvalEvery    int
	MaxTestSteps int

	// thresholds to abort the experiment
	ConsecutiveErrorsAbort int

	// record flags
	RecordTraces bool
	RecordPath   string

	//misc
	LongestExpNameLen int
}

// Evaluation is the outcome of one evaluation episode on the test environment
type Evaluation struct {
	Run        int     `json:"run"`
	TotalSteps int     `json:"total_steps"`
	Steps      int     `json:"steps"`
	Reward     float64 `json:"test_reward"`
}

// Experiment encapsulates a policy trained on one environment and
// periodically evaluated on another
type Experiment struct {
	Name            string
	policy          Policy
	environment     Environment
	evalEnvironment Environment

	// Best evaluation of the last run, nil if none was performed
	Best *Evaluation
	// Evaluations of the last run in order
	Evaluations []Evaluation
}

// NewExperiment creates a new experiment instance. evalEnvironment may be nil
// to disable periodic evaluation.
func NewExperiment(name string, policy Policy, environment Environment, evalEnvironment Environment) *Experiment {
	return &Experiment{
		Name:            name,
		policy:          policy,
		environment:     environment,
		evalEnvironment: evalEnvironment,
		Evaluations:     make([]Evaluation, 0),
	}
}

type recordedTrace struct {
	Run     int       `json:"run"`
	Episode int       `json:"episode"`
	Actions []string  `json:"actions"`
	Rewards []float64 `json:"rewards"`
}

func (e *Experiment) recordTrace(rConfig *experimentRunConfig, eCtx *EpisodeContext) {
	tracesFile := path.Join(rConfig.RecordPath, "traces", e.Name+"_"+strconv.Itoa(rConfig.CurrentRun)+".jsonl")
	bs, err := json.Marshal(recordedTrace{
		Run:     rConfig.CurrentRun,
		Episode: eCtx.Episode,
		Actions: eCtx.Trace.ActionHashes(),
		Rewards: eCtx.Trace.Rewards(),
	})
	if err != nil {
		rConfig.Logger.Warn("failed to encode trace", zap.Error(err))
		return
	}
	if err := util.AppendToFile(tracesFile, string(bs)); err != nil {
		rConfig.Logger.Warn("failed to record trace", zap.String("file", tracesFile), zap.Error(err))
	}
}

// Run the experiment until the specified number of timesteps is executed.
// Every EvalEvery timesteps the policy is evaluated on the evaluation environment.
func (e *Experiment) Run(rConfig *experimentRunConfig) {
	select {
	case <-rConfig.Context.Done():
		return
	default:
	}

	if rConfig.RecordTraces {
		tracesFolder := path.Join(rConfig.RecordPath, "traces")
		if _, err := os.Stat(tracesFolder); err != nil {
			os.MkdirAll(tracesFolder, os.ModePerm)
		}
	}

	e.Best = nil
	e.Evaluations = make([]Evaluation, 0)

	totalWithError := 0 // episodes ended with an error
	consecutiveErrors := 0
	totalTerminal := 0 // episodes ended in a terminal state
	totalEpisodes := 0 // total episodes executed
	executedTimesteps := 0
	nextEvaluation := rConfig.EvalEvery

	agent := NewAgent(&AgentConfig{
		Horizon:     rConfig.Horizon,
		Policy:      e.policy,
		Environment: e.environment,
	})

	// paddings
	TSPadding := len(strconv.Itoa(rConfig.TotalSteps))
	NamePadding := rConfig.LongestExpNameLen

	for executedTimesteps < rConfig.TotalSteps {
		select {
		case <-rConfig.Context.Done():
			return
		default:
		}

		horizon := rConfig.Horizon
		if remaining := rConfig.TotalSteps - executedTimesteps; remaining < horizon {
			horizon = remaining
		}
		eCtx := NewEpisodeContext(rConfig.Context, rConfig.CurrentRun, totalEpisodes, horizon, executedTimesteps)
		agent.RunEpisode(eCtx)

		startingTimesteps := executedTimesteps
		executedTimesteps += eCtx.Timesteps
		totalEpisodes += 1

		if eCtx.Err != nil {
			totalWithError += 1
			consecutiveErrors += 1
			rConfig.Logger.Warn("episode ended with an error",
				zap.String("experiment", e.Name),
				zap.Int("episode", eCtx.Episode),
				zap.Error(eCtx.Err))
		} else {
			consecutiveErrors = 0
			if eCtx.Terminal {
				totalTerminal += 1
			}
		}

		if rConfig.RecordTraces {
			e.recordTrace(rConfig, eCtx)
		}

		// analyze the trace, even if the episode ended with an error
		for _, a := range rConfig.Analyzers {
			a.Analyze(rConfig.CurrentRun, totalEpisodes, startingTimesteps, e.Name, eCtx.Trace)
		}

		if e.evalEnvironment != nil && rConfig.EvalEvery > 0 && executedTimesteps >= nextEvaluation {
			for nextEvaluation <= executedTimesteps {
				nextEvaluation += rConfig.EvalEvery
			}
			e.evaluate(rConfig, executedTimesteps)
		}

		if consecutiveErrors >= rConfig.ConsecutiveErrorsAbort {
			fmt.Printf("\n Aborting experiment %s : %d consecutive errors\n", e.Name, consecutiveErrors)
			break
		}
		// an episode that cannot make progress would spin forever
		if eCtx.Timesteps == 0 && eCtx.Err == nil {
			fmt.Printf("\n Aborting experiment %s : episode without steps\n", e.Name)
			break
		}

		// terminal execution display
		best := "-"
		if e.Best != nil {
			best = strconv.FormatFloat(e.Best.Reward, 'f', 1, 64)
		}
		fmt.Printf("\rExp:%*s, TSteps:%*d/%d || Eps:%d, Terminal:%d, Err:%d || Best test reward:%s",
			NamePadding, e.Name, TSPadding, executedTimesteps, rConfig.TotalSteps,
			totalEpisodes, totalTerminal, totalWithError, best)
	}
	fmt.Println("")
}

// run one evaluation episode on the evaluation environment and keep the best one
func (e *Experiment) evaluate(rConfig *experimentRunConfig, totalSteps int) {
	agent := NewAgent(&AgentConfig{
		Horizon:     rConfig.MaxTestSteps,
		Policy:      e.policy,
		Environment: e.evalEnvironment,
	})
	eCtx := NewEpisodeContext(rConfig.Context, rConfig.CurrentRun, 0, rConfig.MaxTestSteps, 0)
	agent.Evaluate(eCtx)
	if eCtx.Err != nil {
		rConfig.Logger.Warn("evaluation ended with an error", zap.String("experiment", e.Name), zap.Error(eCtx.Err))
		return
	}

	ev := Evaluation{
		Run:        rConfig.CurrentRun,
		TotalSteps: totalSteps,
		Steps:      eCtx.Timesteps,
		Reward:     eCtx.Trace.TotalReward(),
	}
	e.Evaluations = append(e.Evaluations, ev)
	for _, a := range rConfig.Analyzers {
		if ea, ok := a.(EvaluationAnalyzer); ok {
			ea.AnalyzeEvaluation(e.Name, ev)
		}
	}

	if e.Best != nil && ev.Reward <= e.Best.Reward {
		return
	}
	e.Best = &ev
	rConfig.Logger.Info("new best test reward",
		zap.String("experiment", e.Name),
		zap.Int("total_steps", totalSteps),
		zap.Float64("test_reward", ev.Reward))
	if rConfig.RecordPath != "" {
		bestFile := path.Join(rConfig.RecordPath, e.Name+"_"+strconv.Itoa(rConfig.CurrentRun)+"_best.json")
		if err := util.WriteJSON(bestFile, ev); err != nil {
			rConfig.Logger.Warn("failed to record best evaluation", zap.Error(err))
		}
	}
}

// Reset cleans the policy state between runs
func (e *Experiment) Reset() {
	e.policy.Reset()
}

// Generic Dataset that contains information after processing the traces
type DataSet interface{}

// Analyzer compresses the information in the traces to a DataSet
type Analyzer interface {
	// Run, episode, starting timestep, experiment, trace
	Analyze(int, int, int, string, *Trace)
	// Resulting dataset
	DataSet() DataSet
	// Reset the analyzer
	Reset()
}

// EvaluationAnalyzer is an Analyzer that also receives evaluation results
type EvaluationAnalyzer interface {
	Analyzer
	AnalyzeEvaluation(string, Evaluation)
}

// Comparator differentiates between different datasets with associated names
// run, experiment names, datasets
type Comparator func(int, []string, []DataSet)

func NoopComparator() Comparator {
	return func(_ int, _ []string, _ []DataSet) {}
}

// ComparisonConfig contains the configuration for the comparison
type ComparisonConfig struct {
	Runs       int // number of runs
	TotalSteps int // training timesteps per run
	Horizon    int // maximum steps of a training episode

	EvalEvery    int // training timesteps between evaluations
	MaxTestSteps int // maximum steps of an evaluation episode

	RecordPath   string // path to store the results
	RecordTraces bool

	// threshold to abort an experiment
	ConsecutiveErrorsAbort int

	Logger *zap.Logger
}

// record the configuration of the comparison
func (c *Comparison) recordConfig() error {
	cfg := c.cConfig
	out := make(map[string]interface{})
	out["runs"] = cfg.Runs
	out["total_steps"] = cfg.TotalSteps
	out["horizon"] = cfg.Horizon
	out["eval_every"] = cfg.EvalEvery
	out["max_test_steps"] = cfg.MaxTestSteps
	out["record_traces"] = cfg.RecordTraces

	experiments := make([]string, 0)
	for _, e := range c.Experiments {
		experiments = append(experiments, e.Name)
	}
	out["experiments"] = experiments

	analyzers := make([]string, 0)
	for name := range c.analyzers {
		analyzers = append(analyzers, name)
	}
	out["analyzers"] = analyzers

	return util.WriteJSON(path.Join(cfg.RecordPath, "comparison_config.json"), out)
}

// Comparison contains the different experiments to compare
// The traces obtained from the experiments are analyzed
// The analyzed datasets are then compared
type Comparison struct {
	Experiments []*Experiment
	analyzers   map[string]Analyzer
	comparators map[string]Comparator
	cConfig     *ComparisonConfig
}

// NewComparison creates a comparison instance
func NewComparison(config *ComparisonConfig) *Comparison {
	if config.Logger == nil {
		config.Logger = zap.NewNop()
	}
	if config.Runs < 1 {
		config.Runs = 1
	}
	if config.ConsecutiveErrorsAbort < 1 {
		config.ConsecutiveErrorsAbort = 10
	}
	if config.RecordPath != "" {
		os.MkdirAll(config.RecordPath, 0777)
	}

	return &Comparison{
		Experiments: make([]*Experiment, 0),
		analyzers:   make(map[string]Analyzer),
		comparators: make(map[string]Comparator),
		cConfig:     config,
	}
}

// AddAnalysis adds an analyzer and comparator to the comparison
func (c *Comparison) AddAnalysis(name string, analyzer Analyzer, comparator Comparator) {
	c.analyzers[name] = analyzer
	c.comparators[name] = comparator
}

// Add experiments to compare
func (c *Comparison) AddExperiment(e *Experiment) {
	c.Experiments = append(c.Experiments, e)
}

// Run the comparison
func (c *Comparison) Run(ctx context.Context) {
	if c.cConfig.RecordPath != "" {
		if err := c.recordConfig(); err != nil {
			c.cConfig.Logger.Warn("failed to record comparison config", zap.Error(err))
		}
	}

	longestNameLen := 0
	for _, e := range c.Experiments {
		if len(e.Name) > longestNameLen {
			longestNameLen = len(e.Name)
		}
	}

	for run := 0; run < c.cConfig.Runs; run++ {
		c.cConfig.Logger.Info("starting run", zap.Int("run", run+1), zap.Int("runs", c.cConfig.Runs))
		datasets := make(map[string][]DataSet)

		for name := range c.analyzers {
			datasets[name] = make([]DataSet, len(c.Experiments))
		}

		names := make([]string, len(c.Experiments))
		for i, e := range c.Experiments {
			select {
			case <-ctx.Done():
				return
			default:
			}
			e.Run(c.prepareRunConfig(ctx, run, longestNameLen))
			for name, a := range c.analyzers {
				datasets[name][i] = a.DataSet()
				a.Reset()
			}
			names[i] = e.Name
			e.Reset()
		}
		for name, comp := range c.comparators {
			comp(run, names, datasets[name])
		}
	}
}

// prepare the run configuration for the experiment
func (c *Comparison) prepareRunConfig(ctx context.Context, run int, longestExpNameLen int) *experimentRunConfig {
	rCfg := &experimentRunConfig{
		CurrentRun:             run,
		TotalSteps:             c.cConfig.TotalSteps,
		Horizon:                c.cConfig.Horizon,
		Analyzers:              make([]Analyzer, 0),
		Context:                ctx,
		Logger:                 c.cConfig.Logger,
		EvalEvery:              c.cConfig.EvalEvery,
		MaxTestSteps:           c.cConfig.MaxTestSteps,
		ConsecutiveErrorsAbort: c.cConfig.ConsecutiveErrorsAbort,
		RecordTraces:           c.cConfig.RecordTraces,
		RecordPath:             c.cConfig.RecordPath,

		LongestExpNameLen: longestExpNameLen,
	}

	for _, a := range c.analyzers {
		rCfg.Analyzers = append(rCfg.Analyzers, a)
	}
	return rCfg
}
