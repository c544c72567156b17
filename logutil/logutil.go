/*
@Author: Lzww
@LastEditTime: 2025-9-19 21:12:50
@Description: zap logger construction with optional file rotation
@Language: Go 1.23.4
*/

package logutil

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config controls the logger. An empty Filename logs to stderr.
type Config struct {
	Level      string `toml:"level"`
	Format     string `toml:"format"`
	Filename   string `toml:"filename"`
	MaxSize    int    `toml:"max-size"`
	MaxDays    int    `toml:"max-days"`
	MaxBackups int    `toml:"max-backups"`
}

func DefaultConfig() Config {
	return Config{
		Level:  "info",
		Format: "console",
	}
}

func (cfg *Config) getLevel() (zap.AtomicLevel, error) {
	if cfg.Level == "" {
		return zap.NewAtomicLevelAt(zap.InfoLevel), nil
	}
	level, err := zap.ParseAtomicLevel(cfg.Level)
	if err != nil {
		return level, errors.Wrapf(err, "log level %q", cfg.Level)
	}
	return level, nil
}

func (cfg *Config) getEncoder() (zapcore.Encoder, error) {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	switch strings.ToLower(cfg.Format) {
	case "", "console":
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		return zapcore.NewConsoleEncoder(encCfg), nil
	case "json":
		return zapcore.NewJSONEncoder(encCfg), nil
	}
	return nil, errors.Errorf("unsupported log format %q", cfg.Format)
}

func (cfg *Config) getSyncer() zapcore.WriteSyncer {
	if cfg.Filename == "" {
		return zapcore.Lock(os.Stderr)
	}
	return zapcore.AddSync(&lumberjack.Logger{
		Filename:   cfg.Filename,
		MaxSize:    cfg.MaxSize,
		MaxAge:     cfg.MaxDays,
		MaxBackups: cfg.MaxBackups,
		LocalTime:  true,
	})
}

// New builds a logger from cfg.
func New(cfg Config, opts ...zap.Option) (*zap.Logger, error) {
	level, err := cfg.getLevel()
	if err != nil {
		return nil, err
	}
	enc, err := cfg.getEncoder()
	if err != nil {
		return nil, err
	}

	core := zapcore.NewCore(enc, cfg.getSyncer(), level)
	opts = append([]zap.Option{zap.AddCaller(), zap.AddStacktrace(zapcore.FatalLevel)}, opts...)
	return zap.New(core, opts...), nil
}
