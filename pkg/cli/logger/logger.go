package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	mu      sync.RWMutex
	logger  = zap.NewNop()
	logFile *lumberjack.Logger
)

// Options controls where log output goes.
type Options struct {
	File  string // log file path; the TUI owns the terminal so logs never go to stdout
	Level string // debug, info, warn, error
}

// Init replaces the no-op logger with a JSON file logger.
// Until Init is called every log call is discarded.
func Init(opts Options) error {
	if opts.File == "" {
		opts.File = filepath.Join("tmp", "sitescrape.log")
	}

	level := zapcore.InfoLevel
	if opts.Level != "" {
		if err := level.UnmarshalText([]byte(opts.Level)); err != nil {
			return fmt.Errorf("invalid log level %q: %w", opts.Level, err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(opts.File), 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	file := &lumberjack.Logger{
		Filename:   opts.File,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), zapcore.AddSync(file), level)

	mu.Lock()
	defer mu.Unlock()
	if logFile != nil {
		logFile.Close()
	}
	logger = zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))
	logFile = file
	return nil
}

// L returns the current structured logger.
func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// Log writes a log message
func Log(format string, v ...interface{}) {
	L().Sugar().Infof(format, v...)
}

// Debug writes a debug message
func Debug(format string, v ...interface{}) {
	L().Sugar().Debugf(format, v...)
}

// LogError writes an error log message
func LogError(err error, format string, v ...interface{}) {
	L().Error(fmt.Sprintf(format, v...), zap.Error(err))
}

// CloseLog flushes and closes the log file
func CloseLog() {
	mu.Lock()
	defer mu.Unlock()
	_ = logger.Sync()
	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
	logger = zap.NewNop()
}
