package logutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestConfig_getLevel(t *testing.T) {
	tests := []struct {
		name    string
		level   string
		want    zap.AtomicLevel
		wantErr bool
	}{
		{name: "default", level: "", want: zap.NewAtomicLevelAt(zap.InfoLevel)},
		{name: "debug", level: "debug", want: zap.NewAtomicLevelAt(zap.DebugLevel)},
		{name: "error", level: "error", want: zap.NewAtomicLevelAt(zap.ErrorLevel)},
		{name: "invalid", level: "loud", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Level: tt.level}
			got, err := cfg.getLevel()
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want.Level(), got.Level())
		})
	}
}

func TestNew_unsupportedFormat(t *testing.T) {
	_, err := New(Config{Format: "xml"})
	require.Error(t, err)
}

func TestNew_fileSink(t *testing.T) {
	name := filepath.Join(t.TempDir(), "bench.log")
	logger, err := New(Config{Level: "info", Format: "json", Filename: name, MaxSize: 1})
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("round finished", zap.Int("received", 4))
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(name)
	require.NoError(t, err)
	require.Contains(t, string(data), `"msg":"round finished"`)
	require.Contains(t, string(data), `"received":4`)
	require.NotContains(t, string(data), "hidden")
}
