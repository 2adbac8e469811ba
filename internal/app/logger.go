package app

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"service-bidding/internal/config"
	"service-bidding/internal/logx"
)

// NewLogger builds the configured log backend writing JSON to stdout.
func NewLogger(cfg *config.Config) (logx.Logger, error) {
	level := strings.ToLower(strings.TrimSpace(cfg.Log.Level))
	if level == "" {
		level = "info"
	}

	switch cfg.Log.Backend {
	case "zap":
		lvl, err := zapcore.ParseLevel(level)
		if err != nil {
			return nil, fmt.Errorf("log level: %w", err)
		}
		zcfg := zap.NewProductionConfig()
		zcfg.Level = zap.NewAtomicLevelAt(lvl)
		zcfg.EncoderConfig.TimeKey = "time"
		zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		l, err := zcfg.Build()
		if err != nil {
			return nil, fmt.Errorf("build zap logger: %w", err)
		}
		return logx.NewZapAdapter(l), nil
	case "", "slog":
		var lvl slog.Level
		if err := lvl.UnmarshalText([]byte(level)); err != nil {
			return nil, fmt.Errorf("log level: %w", err)
		}
		base := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
		return logx.NewSlogAdapter(base), nil
	default:
		return nil, fmt.Errorf("unknown log backend %q", cfg.Log.Backend)
	}
}
