/*
Copyright © 2025 Stackup Authors
SPDX-License-Identifier: Apache-2.0
*/
package logging

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name  string
		level string
		want  slog.Level
	}{
		{name: "debug", level: "debug", want: slog.LevelDebug},
		{name: "info", level: "info", want: slog.LevelInfo},
		{name: "warn", level: "warn", want: slog.LevelWarn},
		{name: "warning alias", level: "WARNING", want: slog.LevelWarn},
		{name: "error", level: "error", want: slog.LevelError},
		{name: "empty defaults to info", level: "", want: slog.LevelInfo},
		{name: "unknown defaults to info", level: "verbose", want: slog.LevelInfo},
		{name: "whitespace tolerated", level: "  Debug ", want: slog.LevelDebug},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.level))
		})
	}
}

func TestNewStructuredLogger(t *testing.T) {
	logger := NewStructuredLogger("stackup", "v0.0.1-test", "debug")
	assert.NotNil(t, logger)
	assert.True(t, logger.Enabled(t.Context(), slog.LevelDebug))
}

func TestNewStructuredLoggerLevelFiltering(t *testing.T) {
	logger := NewStructuredLogger("stackup", "v0.0.1-test", "error")
	assert.False(t, logger.Enabled(t.Context(), slog.LevelInfo))
	assert.True(t, logger.Enabled(t.Context(), slog.LevelError))
}
