package util

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendToFileCreatesFolder(t *testing.T) {
	p := filepath.Join(t.TempDir(), "traces", "exp_0.jsonl")

	require.NoError(t, AppendToFile(p, "a"))
	require.NoError(t, AppendToFile(p, "b", "c"))

	bs, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, "a\nb\nc\n", string(bs))
}

func TestWriteJSON(t *testing.T) {
	p := filepath.Join(t.TempDir(), "out", "best.json")

	require.NoError(t, WriteJSON(p, map[string]int{"total_steps": 1000}))
	bs, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"total_steps": 1000}`, string(bs))
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger("debug", true)
	require.NoError(t, err)
	assert.NotNil(t, logger)

	_, err = NewLogger("loud", false)
	assert.Error(t, err)
}
