package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewLogger_Development(t *testing.T) {
	logger := NewLogger("development")
	require.NotNil(t, logger)

	logger.Info("test message")
}

func TestNewLogger_Production(t *testing.T) {
	logger := NewLogger("production")
	require.NotNil(t, logger)

	logger.Info("test message")
}

func TestNewLogger_InvalidLogLevelFallsBack(t *testing.T) {
	t.Setenv("LOG_LEVEL", "not-a-level")

	logger := NewLogger("development")
	require.NotNil(t, logger)
	assert.True(t, logger.Core().Enabled(zap.DebugLevel))
}

func TestNewLogger_LogLevelOverride(t *testing.T) {
	t.Setenv("LOG_LEVEL", "warn")

	logger := NewLogger("production")
	require.NotNil(t, logger)
	assert.False(t, logger.Core().Enabled(zap.InfoLevel))
	assert.True(t, logger.Core().Enabled(zap.WarnLevel))
}

func TestSet(t *testing.T) {
	original := Get()
	defer Set(original)

	nop := zap.NewNop()
	Set(nop)

	assert.Equal(t, nop, Get())
}
