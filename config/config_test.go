package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(contents), 0644))
	return p
}

func TestLoadDefaults(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "", c.Data.Path)
	assert.False(t, c.Data.Organized)
	assert.Equal(t, 5000, c.Data.MaxSteps)
	assert.Equal(t, 0.8, c.Data.TrainRatio)
	assert.Equal(t, 100000.0, c.Environment.InitialCash)
	assert.Equal(t, 2, c.Environment.TerminationMargin)
	assert.Equal(t, 10000, c.Experiment.TotalSteps)
	assert.Equal(t, 1000, c.Experiment.Horizon)
	assert.Equal(t, 1, c.Experiment.Runs)
	assert.Equal(t, 1000, c.Experiment.EvalEvery)
	assert.Equal(t, 100, c.Experiment.MaxTestSteps)
	assert.Equal(t, 5, c.Experiment.ConsecutiveErrorsAbort)
	assert.Equal(t, "results", c.Experiment.SavePath)
	assert.Equal(t, ":8080", c.Server.Addr)
	assert.Equal(t, 30*time.Minute, c.Server.SessionTTL)
	assert.False(t, c.Redis.Enabled)
	assert.Equal(t, "127.0.0.1:6379", c.Redis.Addr)
	assert.Equal(t, 24*time.Hour, c.Redis.TTL)
	assert.Equal(t, "keyword-rl", c.Redis.Prefix)
	assert.Equal(t, "info", c.Log.Level)

	assert.Equal(t, c, Default())
	assert.Error(t, c.RequireData())
}

func TestLoadFile(t *testing.T) {
	p := writeConfig(t, `
data:
  path: data/ads.csv
  train_ratio: 0.5
environment:
  termination_margin: 3
experiment:
  runs: 4
redis:
  enabled: true
  ttl: 1h
log:
  level: debug
`)
	c, err := Load(p)
	require.NoError(t, err)

	assert.Equal(t, "data/ads.csv", c.Data.Path)
	assert.Equal(t, 0.5, c.Data.TrainRatio)
	assert.Equal(t, 5000, c.Data.MaxSteps)
	assert.Equal(t, 3, c.Environment.TerminationMargin)
	assert.Equal(t, 4, c.Experiment.Runs)
	assert.Equal(t, 1000, c.Experiment.Horizon)
	assert.True(t, c.Redis.Enabled)
	assert.Equal(t, time.Hour, c.Redis.TTL)
	assert.Equal(t, "debug", c.Log.Level)
	assert.NoError(t, c.RequireData())
}

func TestLoadExplicitZeroValues(t *testing.T) {
	p := writeConfig(t, `
data:
  organized: false
environment:
  initial_cash: 0
experiment:
  eval_every: 0
  record_traces: false
redis:
  db: 0
server:
  session_ttl: 0s
`)
	c, err := Load(p)
	require.NoError(t, err)

	assert.Equal(t, 0.0, c.Environment.InitialCash)
	assert.Equal(t, 0, c.Experiment.EvalEvery)
	assert.Equal(t, time.Duration(0), c.Server.SessionTTL)
	// fields absent from the file keep their defaults
	assert.Equal(t, 2, c.Environment.TerminationMargin)
	assert.Equal(t, 1000, c.Experiment.Horizon)
	assert.Equal(t, 5000, c.Data.MaxSteps)

	_, err = Load(writeConfig(t, "environment:\n  termination_margin: 0\n"))
	assert.ErrorContains(t, err, "environment.terminationmargin must be greater than or equal to 1")
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name     string
		contents string
		message  string
	}{
		{"ratio too large", "data:\n  train_ratio: 1.5\n", "data.trainratio must be less than 1"},
		{"negative ratio", "data:\n  train_ratio: -0.1\n", "data.trainratio must be greater than 0"},
		{"negative margin", "environment:\n  termination_margin: -1\n", "environment.terminationmargin"},
		{"unknown level", "log:\n  level: verbose\n", "log.level must be one of"},
		{"malformed", "data: [", "parse config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.contents))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "read config")
}

func TestValidateAfterOverride(t *testing.T) {
	c := Default()
	c.Data.TrainRatio = 1
	assert.Error(t, c.Validate())
	c.Data.TrainRatio = 0.3
	assert.NoError(t, c.Validate())
}
