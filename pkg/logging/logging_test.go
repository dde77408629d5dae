package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"INFO", zapcore.InfoLevel},
		{" Warn ", zapcore.WarnLevel},
		{"warning", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"", zapcore.InfoLevel},
		{"verbose", zapcore.InfoLevel},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, ParseLevel(tt.input), "ParseLevel(%q)", tt.input)
	}
}

func TestNew_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "walletwatch.log")

	logger, err := New("debug", path)
	require.NoError(t, err)
	logger.Named("test").Info("hello")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)
	assert.Contains(t, string(data), `"logger":"test"`)
}

func TestForTerminal_NoFileIsNop(t *testing.T) {
	logger, err := ForTerminal("info", "")
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.ErrorLevel))
}
