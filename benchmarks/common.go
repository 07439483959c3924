package benchmarks

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/zeu5/keyword-rl/adenv"
	"github.com/zeu5/keyword-rl/config"
	"github.com/zeu5/keyword-rl/datastore"
	"github.com/zeu5/keyword-rl/util"
	"go.uber.org/zap"
)

// loadConfig reads the configuration file and applies the flags set on the command line
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	c, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()
	if flags.Changed("data") {
		c.Data.Path = dataPath
	}
	if flags.Changed("train-ratio") {
		c.Data.TrainRatio = trainRatio
	}
	if flags.Changed("save") {
		c.Experiment.SavePath = saveFile
	}
	if flags.Changed("runs") {
		c.Experiment.Runs = runs
	}
	if flags.Changed("steps") {
		c.Experiment.TotalSteps = totalSteps
	}
	if flags.Changed("horizon") {
		c.Experiment.Horizon = horizon
	}
	if flags.Changed("log-level") {
		c.Log.Level = logLevel
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func newLogger(c *config.Config) (*zap.Logger, error) {
	return util.NewLogger(c.Log.Level, c.Log.Development)
}

// loadDataset returns the organized dataset of the configured input file
func loadDataset(ctx context.Context, c *config.Config, logger *zap.Logger) (adenv.Dataset, error) {
	if err := c.RequireData(); err != nil {
		return nil, err
	}
	var cache datastore.Cache
	if c.Redis.Enabled {
		rc := datastore.NewRedisCache(&datastore.RedisCacheConfig{
			Addr:     c.Redis.Addr,
			Password: c.Redis.Password,
			DB:       c.Redis.DB,
			Prefix:   c.Redis.Prefix,
			TTL:      c.Redis.TTL,
		})
		defer rc.Close()
		if err := rc.Ping(ctx); err != nil {
			logger.Warn("redis unavailable, organizing without cache", zap.String("addr", c.Redis.Addr), zap.Error(err))
		} else {
			cache = rc
		}
	}
	return datastore.NewLoader(cache, c.Data.MaxSteps, logger).Load(ctx, c.Data.Path, c.Data.Organized)
}

// splitDataset splits d by the configured ratio and logs the partition sizes
func splitDataset(d adenv.Dataset, c *config.Config, logger *zap.Logger) (*adenv.Split, error) {
	split, err := adenv.SplitByRatio(d, c.Data.TrainRatio)
	if err != nil {
		return nil, err
	}
	logger.Info("dataset split",
		zap.Int("keywords", split.K),
		zap.Int("train_rows", split.TrainRows()),
		zap.Int("train_blocks", split.TrainBlocks),
		zap.Int("test_rows", split.TestRows()),
		zap.Int("test_blocks", split.TestBlocks))
	return split, nil
}

func envOptions(c *config.Config, logger *zap.Logger) []adenv.Option {
	return []adenv.Option{
		adenv.WithInitialCash(c.Environment.InitialCash),
		adenv.WithTerminationMargin(c.Environment.TerminationMargin),
		adenv.WithLogger(logger),
	}
}

// interruptContext is cancelled on an interrupt from the os or when stop is called
func interruptContext() (context.Context, func()) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)

	doneCh := make(chan struct{})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		select {
		case <-sigCh:
		case <-doneCh:
		}
		signal.Stop(sigCh)
		cancel()
	}()
	return ctx, func() { close(doneCh) }
}
