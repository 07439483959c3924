package benchmarks

import (
	"context"
	"path"

	"github.com/spf13/cobra"
	"github.com/zeu5/keyword-rl/adenv"
	"github.com/zeu5/keyword-rl/config"
	"github.com/zeu5/keyword-rl/types"
	"github.com/zeu5/keyword-rl/util"
	"go.uber.org/zap"
)

// Train compares the baseline policies on the train partition, evaluating
// them periodically on the test partition
func Train(ctx context.Context, c *config.Config, split *adenv.Split, logger *zap.Logger) error {
	opts := envOptions(c, logger)
	newEnv := func(d adenv.Dataset) (types.Environment, []string, error) {
		env, err := adenv.NewEnvironment(d, opts...)
		if err != nil {
			return nil, nil, err
		}
		return env.RL(), env.Keywords(), nil
	}

	cmp := types.NewComparison(&types.ComparisonConfig{
		Runs:                   c.Experiment.Runs,
		TotalSteps:             c.Experiment.TotalSteps,
		Horizon:                c.Experiment.Horizon,
		EvalEvery:              c.Experiment.EvalEvery,
		MaxTestSteps:           c.Experiment.MaxTestSteps,
		RecordPath:             c.Experiment.SavePath,
		RecordTraces:           c.Experiment.RecordTraces,
		ConsecutiveErrorsAbort: c.Experiment.ConsecutiveErrorsAbort,
		Logger:                 logger,
	})

	_, keywords, err := newEnv(split.Train)
	if err != nil {
		return err
	}
	cmp.AddAnalysis("Reward", types.NewRewardAnalyzer(), types.RewardPlotComparator(c.Experiment.SavePath, logger))
	cmp.AddAnalysis("Selections", adenv.NewSelectionAnalyzer(keywords), adenv.SelectionComparator(c.Experiment.SavePath, logger))

	policies := []struct {
		name   string
		policy types.Policy
	}{
		{"Random", types.NewRandomPolicy()},
		{"None", types.NewConstantPolicy(adenv.NoneHash)},
	}
	for _, p := range policies {
		trainEnv, _, err := newEnv(split.Train)
		if err != nil {
			return err
		}
		testEnv, _, err := newEnv(split.Test)
		if err != nil {
			return err
		}
		cmp.AddExperiment(types.NewExperiment(p.name, p.policy, trainEnv, testEnv))
	}

	if err := util.WriteJSON(path.Join(c.Experiment.SavePath, "config.json"), c); err != nil {
		logger.Warn("failed to record configuration", zap.Error(err))
	}

	cmp.Run(ctx)

	for _, e := range cmp.Experiments {
		if e.Best == nil {
			continue
		}
		logger.Info("best test reward",
			zap.String("experiment", e.Name),
			zap.Int("total_steps", e.Best.TotalSteps),
			zap.Float64("test_reward", e.Best.Reward))
	}
	return nil
}

func TrainCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "train",
		Short: "Run the baseline policies with periodic evaluation on the test partition",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logger, err := newLogger(c)
			if err != nil {
				return err
			}
			defer logger.Sync()

			ctx, stop := interruptContext()
			defer stop()

			d, err := loadDataset(ctx, c, logger)
			if err != nil {
				return err
			}
			split, err := splitDataset(d, c, logger)
			if err != nil {
				return err
			}
			return Train(ctx, c, split, logger)
		},
	}
}
