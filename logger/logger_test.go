package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestInitialize(t *testing.T) {
	tests := []struct {
		name       string
		verbosity  int
		jsonOutput bool
	}{
		{name: "console default", verbosity: 0, jsonOutput: false},
		{name: "console debug", verbosity: 2, jsonOutput: false},
		{name: "json info", verbosity: 1, jsonOutput: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Logger = nil
			JSONOutput = false

			err := Initialize(tt.verbosity, tt.jsonOutput)
			require.NoError(t, err)
			require.NotNil(t, Logger)
			assert.Equal(t, tt.jsonOutput, JSONOutput)
			assert.Equal(t, tt.verbosity, Verbosity)

			Cleanup()
			Logger = nil
		})
	}
}

func TestHelpersTolerateNilLogger(t *testing.T) {
	Logger = nil
	defer func() { Logger = nil }()

	assert.NotPanics(t, func() {
		Infow("info", FieldNode, "Fill")
		Warnw("warn")
		Errorw("error")
		Debugw("debug")
		Cleanup()
	})
}

func TestVerbosityToLevel(t *testing.T) {
	tests := []struct {
		verbosity int
		want      zapcore.Level
	}{
		{-1, zapcore.WarnLevel},
		{VerbosityUser, zapcore.WarnLevel},
		{VerbosityInfo, zapcore.InfoLevel},
		{VerbosityDebug, zapcore.DebugLevel},
		{VerbosityTrace, zapcore.DebugLevel},
		{9, zapcore.DebugLevel},
	}

	for _, tt := range tests {
		t.Run(LevelName(tt.verbosity), func(t *testing.T) {
			assert.Equal(t, tt.want, VerbosityToLevel(tt.verbosity))
		})
	}
}

func TestShouldOutput(t *testing.T) {
	assert.True(t, ShouldOutput(VerbosityUser, OutputResults))
	assert.False(t, ShouldOutput(VerbosityUser, OutputProgress))
	assert.True(t, ShouldOutput(VerbosityInfo, OutputProgress))
	assert.False(t, ShouldOutput(VerbosityInfo, OutputOrdering))
	assert.True(t, ShouldOutput(VerbosityDebug, OutputOrdering))
	assert.True(t, ShouldOutput(VerbosityTrace, OutputDataDump))
	assert.False(t, ShouldOutput(VerbosityTrace-1, OutputCategory(999)))
}

func TestCategoryName(t *testing.T) {
	assert.Equal(t, "ordering", CategoryName(OutputOrdering))
	assert.Equal(t, "unknown", CategoryName(OutputCategory(999)))
}
