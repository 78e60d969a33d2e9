package logging

// Logger is the logging interface used throughout the supervisor.
type Logger interface {
	LogLevelf(level int, format string, args ...interface{})
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// LogFuncs carries the backend functions a Logger delegates to.
// Nil entries are treated as no-ops, so callers can silence
// individual levels by leaving them unset.
type LogFuncs struct {
	LogLevelf func(level int, format string, args ...interface{})
	Debugf    func(format string, args ...interface{})
	Infof     func(format string, args ...interface{})
	Warnf     func(format string, args ...interface{})
	Errorf    func(format string, args ...interface{})
}

// NewLogger returns a Logger that prepends prefix to every message
// and delegates to funcs.
func NewLogger(prefix string, funcs LogFuncs) Logger {
	return &prefixLogger{
		prefix: prefix,
		funcs:  funcs,
	}
}

type prefixLogger struct {
	prefix string
	funcs  LogFuncs
}

func (l *prefixLogger) LogLevelf(level int, format string, args ...interface{}) {
	if l.funcs.LogLevelf == nil {
		return
	}
	l.funcs.LogLevelf(level, l.prefix+format, args...)
}

func (l *prefixLogger) Debugf(format string, args ...interface{}) {
	if l.funcs.Debugf == nil {
		return
	}
	l.funcs.Debugf(l.prefix+format, args...)
}

func (l *prefixLogger) Infof(format string, args ...interface{}) {
	if l.funcs.Infof == nil {
		return
	}
	l.funcs.Infof(l.prefix+format, args...)
}

func (l *prefixLogger) Warnf(format string, args ...interface{}) {
	if l.funcs.Warnf == nil {
		return
	}
	l.funcs.Warnf(l.prefix+format, args...)
}

func (l *prefixLogger) Errorf(format string, args ...interface{}) {
	if l.funcs.Errorf == nil {
		return
	}
	l.funcs.Errorf(l.prefix+format, args...)
}
