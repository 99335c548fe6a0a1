package telemetry

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"officegw/internal/domain"
)

type SinkOptions struct {
	// Path of the rotating log file. Empty disables the file sink.
	Path        string
	Development bool
	// Silent disables the console core (MCP_SILENT_MODE). The agent owns
	// stdout, so the console core always writes to stderr.
	Silent bool
}

// NewSink builds the zap logger backing the observability core's file and
// console output. The file sink is an append-only rotating JSON writer.
func NewSink(opts SinkOptions) *zap.Logger {
	level := zapcore.InfoLevel
	if opts.Development {
		level = zapcore.DebugLevel
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "timestamp"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var cores []zapcore.Core
	if opts.Path != "" {
		writer := &lumberjack.Logger{
			Filename:   opts.Path,
			MaxSize:    domain.LogFileMaxSizeMB,
			MaxBackups: domain.LogFileMaxBackups,
		}
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(encoderCfg),
			zapcore.AddSync(writer),
			level,
		))
	}
	if !opts.Silent {
		cores = append(cores, zapcore.NewCore(
			zapcore.NewConsoleEncoder(encoderCfg),
			zapcore.Lock(os.Stderr),
			level,
		))
	}
	if len(cores) == 0 {
		return zap.NewNop()
	}
	return zap.New(zapcore.NewTee(cores...))
}
