// Package logger provides the process-wide logging functions.
package logger

import (
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type logfFunc func(template string, args ...interface{})

var (
	Debugf logfFunc
	Infof  logfFunc
	Warnf  logfFunc
	Errorf logfFunc

	mu            sync.Mutex
	defaultLogger *zap.SugaredLogger
)

func init() {
	setup(false)
}

// Init reconfigures the default logger. With debug true the lowest
// level drops to debug.
func Init(debug bool) {
	setup(debug)
}

func setup(debug bool) {
	mu.Lock()
	defer mu.Unlock()

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		MessageKey:     "message",
		CallerKey:      "caller",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalColorLevelEncoder,
		EncodeTime:     zapcore.TimeEncoderOfLayout(time.RFC3339),
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	lowestLevel := zap.InfoLevel
	if debug {
		lowestLevel = zap.DebugLevel
	}

	stderrSyncer := zapcore.AddSync(os.Stderr)
	stderrCore := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), stderrSyncer, lowestLevel)
	defaultLogger = zap.New(stderrCore, zap.AddCaller()).Sugar()

	Debugf = defaultLogger.Debugf
	Infof = defaultLogger.Infof
	Warnf = defaultLogger.Warnf
	Errorf = defaultLogger.Errorf
}

// Close flushes any buffered log entries.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	_ = defaultLogger.Sync()
}
