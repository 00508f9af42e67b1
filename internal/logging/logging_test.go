package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/abhisek/hayer/internal/config"
)

func TestNew_ConsoleLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(config.LogConfig{Level: "warn"}, &buf)
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown", zap.String("exercise_id", "e1"))
	_ = logger.Sync()

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "e1")
}

func TestNew_FileSinkWritesJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hayer.log")
	logger, err := New(config.LogConfig{Level: "debug", File: path, MaxSizeMB: 1}, nil)
	require.NoError(t, err)

	logger.Debug("graded", zap.String("kind", "true_false"))
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	line := strings.TrimSpace(string(data))

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(line), &entry))
	assert.Equal(t, "graded", entry["msg"])
	assert.Equal(t, "true_false", entry["kind"])
	assert.Equal(t, "DEBUG", entry["level"])
}

func TestNew_NoSinks(t *testing.T) {
	logger, err := New(config.LogConfig{}, nil)
	require.NoError(t, err)
	assert.NotNil(t, logger)
	logger.Info("dropped")
}

func TestNew_BadLevel(t *testing.T) {
	_, err := New(config.LogConfig{Level: "loud"}, nil)
	assert.Error(t, err)
}
