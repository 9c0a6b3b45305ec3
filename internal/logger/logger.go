package logger

import (
	"fmt"
	"os"

	"github.com/odo-atelier/budget-api/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// NewLogger builds the application logger. Production, or logging.format
// "json", writes JSON to stdout; anything else gets the colored console
// encoder. With logging.file set, a rotating JSON file receives the same entries.
func NewLogger(cfg *config.LoggingConfig, appCfg *config.AppConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}
	enabled := zap.NewAtomicLevelAt(level)

	jsonOutput := cfg.Format == "json" || appCfg.Environment == "production"
	cores := []zapcore.Core{
		zapcore.NewCore(stdoutEncoder(jsonOutput), zapcore.Lock(os.Stdout), enabled),
	}
	if cfg.File != "" {
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(jsonEncoderConfig()),
			zapcore.AddSync(rotatingFile(cfg)),
			enabled,
		))
	}

	opts := []zap.Option{
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
		zap.ErrorOutput(zapcore.Lock(os.Stderr)),
	}
	if !jsonOutput {
		opts = append(opts, zap.Development())
	}

	return zap.New(zapcore.NewTee(cores...), opts...).With(
		zap.String("app", appCfg.Name),
		zap.String("environment", appCfg.Environment),
	), nil
}

func jsonEncoderConfig() zapcore.EncoderConfig {
	enc := zap.NewProductionEncoderConfig()
	enc.TimeKey = "time"
	enc.EncodeTime = zapcore.ISO8601TimeEncoder
	return enc
}

func stdoutEncoder(jsonOutput bool) zapcore.Encoder {
	if jsonOutput {
		return zapcore.NewJSONEncoder(jsonEncoderConfig())
	}
	enc := zap.NewDevelopmentEncoderConfig()
	enc.EncodeLevel = zapcore.CapitalColorLevelEncoder
	enc.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
	return zapcore.NewConsoleEncoder(enc)
}

func rotatingFile(cfg *config.LoggingConfig) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   true,
	}
}

// WithRequest tags a logger with the request line and correlation id
func WithRequest(logger *zap.Logger, method, path, requestID string) *zap.Logger {
	return logger.With(
		zap.String("method", method),
		zap.String("path", path),
		zap.String("request_id", requestID),
	)
}
