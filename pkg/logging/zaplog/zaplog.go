package zaplog

import (
	"os"

	"github.com/michaelmohamed/pm5/pkg/errors"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is a zap-backed sprintf-style logger. Its methods match the
// logging.LogFuncs fields so a Logger can back the logging facade
// directly.
type Logger struct {
	zap   *zap.Logger
	sugar *zap.SugaredLogger
}

// NewLogger builds a console logger writing to stderr at the given
// level ("debug", "info", "warn", "error").
func NewLogger(levelName string) (*Logger, error) {
	level, err := zapcore.ParseLevel(levelName)
	if err != nil {
		return nil, errors.NewValidationError("invalid log level", err).WithContext("level", levelName)
	}

	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.Lock(os.Stderr),
		level,
	)

	logger := zap.New(core)
	return &Logger{
		zap:   logger,
		sugar: logger.Sugar(),
	}, nil
}

// Sync flushes buffered log entries. Call before process exit.
func (l *Logger) Sync() error {
	return l.zap.Sync()
}

func (l *Logger) LogLevelf(level int, format string, args ...interface{}) {
	switch level {
	case 0:
		l.sugar.Debugf(format, args...)
	case 1:
		l.sugar.Infof(format, args...)
	case 2:
		l.sugar.Warnf(format, args...)
	case 3:
		l.sugar.Errorf(format, args...)
	default:
		l.sugar.Infof(format, args...)
	}
}

func (l *Logger) Debugf(format string, args ...interface{}) {
	l.sugar.Debugf(format, args...)
}

func (l *Logger) Infof(format string, args ...interface{}) {
	l.sugar.Infof(format, args...)
}

func (l *Logger) Warnf(format string, args ...interface{}) {
	l.sugar.Warnf(format, args...)
}

func (l *Logger) Errorf(format string, args ...interface{}) {
	l.sugar.Errorf(format, args...)
}
