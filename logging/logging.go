// Package logging 基于 zap 构建结构化日志，支持 lumberjack 日志轮转
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config 日志配置
type Config struct {
	Level      string `yaml:"level"`        // debug, info, warn, error
	Format     string `yaml:"format"`       // json 或 console
	File       string `yaml:"file"`         // 为空时输出到 stderr
	MaxSizeMB  int    `yaml:"max_size_mb"`  // 单个日志文件上限
	MaxBackups int    `yaml:"max_backups"`  // 保留的旧文件数
	MaxAgeDays int    `yaml:"max_age_days"` // 旧文件保留天数
}

// DefaultConfig returns console logging at info level
func DefaultConfig() Config {
	return Config{
		Level:      "info",
		Format:     "console",
		MaxSizeMB:  100,
		MaxBackups: 5,
		MaxAgeDays: 30,
	}
}

// New builds a logger from cfg. The returned closer releases the log file
// and must be called after the last write; it is a no-op for stderr.
func New(cfg Config) (*zap.Logger, io.Closer, error) {
	level, err := zapcore.ParseLevel(strings.ToLower(defaultString(cfg.Level, "info")))
	if err != nil {
		return nil, nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	switch defaultString(cfg.Format, "console") {
	case "json":
		encoder = zapcore.NewJSONEncoder(encCfg)
	case "console":
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encCfg)
	default:
		return nil, nil, fmt.Errorf("invalid log format %q", cfg.Format)
	}

	var (
		sink   zapcore.WriteSyncer
		closer io.Closer = nopCloser{}
	)
	if cfg.File == "" {
		sink = zapcore.Lock(os.Stderr)
	} else {
		rotator := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   true,
		}
		sink = zapcore.AddSync(rotator)
		closer = rotator
	}

	core := zapcore.NewCore(encoder, sink, level)
	return zap.New(core, zap.AddCaller()), closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func defaultString(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
