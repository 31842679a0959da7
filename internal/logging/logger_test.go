package logging

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPicksHandlerByEnvironment(t *testing.T) {
	dev := New("development", "debug")
	require.NotNil(t, dev)
	assert.IsType(t, &slog.TextHandler{}, dev.Handler())
	assert.True(t, dev.Enabled(context.Background(), slog.LevelDebug))

	prod := New("production", "info")
	require.NotNil(t, prod)
	assert.IsType(t, &slog.JSONHandler{}, prod.Handler())
	assert.False(t, prod.Enabled(context.Background(), slog.LevelDebug))
}

func TestNewInvalidLevelDefaultsToInfo(t *testing.T) {
	logger := New("production", "chatty")
	assert.False(t, logger.Enabled(context.Background(), slog.LevelDebug))
	assert.True(t, logger.Enabled(context.Background(), slog.LevelInfo))
}
