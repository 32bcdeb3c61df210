package logger

import (
	"io"
	"os"
	"sort"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogLevel represents the severity level of a log message
type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
	FATAL
)

// String returns the string representation of the log level
func (l LogLevel) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	case FATAL:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

func (l LogLevel) zapLevel() zapcore.Level {
	switch l {
	case DEBUG:
		return zapcore.DebugLevel
	case WARN:
		return zapcore.WarnLevel
	case ERROR:
		return zapcore.ErrorLevel
	case FATAL:
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}

// LogFormat represents the output format for logs
type LogFormat int

const (
	JSONFormat LogFormat = iota
	TextFormat
)

// Config holds logger configuration
type Config struct {
	Level     LogLevel
	Format    LogFormat
	Output    io.Writer
	Component string
}

// Logger is a structured logger with an optional component name attached to every entry
type Logger struct {
	base      *zap.Logger
	zap       *zap.Logger
	level     zap.AtomicLevel
	component string
}

// New creates a new logger with the given configuration
func New(config Config) *Logger {
	if config.Output == nil {
		config.Output = os.Stdout
	}

	level := zap.NewAtomicLevelAt(config.Level.zapLevel())
	core := zapcore.NewCore(newEncoder(config.Format), zapcore.AddSync(config.Output), level)
	// write() sits between the caller and zap
	base := zap.New(core, zap.AddCaller(), zap.AddCallerSkip(2))

	return newWithComponent(base, level, config.Component)
}

// NewDefault creates a logger with default configuration
func NewDefault() *Logger {
	return New(Config{
		Level:  INFO,
		Format: JSONFormat,
		Output: os.Stdout,
	})
}

// NewNop returns a logger that discards everything
func NewNop() *Logger {
	return newWithComponent(zap.NewNop(), zap.NewAtomicLevel(), "")
}

func newWithComponent(base *zap.Logger, level zap.AtomicLevel, component string) *Logger {
	z := base
	if component != "" {
		z = base.With(zap.String("component", component))
	}
	return &Logger{
		base:      base,
		zap:       z,
		level:     level,
		component: component,
	}
}

func newEncoder(format LogFormat) zapcore.Encoder {
	cfg := zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		MessageKey:     "message",
		CallerKey:      "caller",
		NameKey:        "logger",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
	if format == TextFormat {
		return zapcore.NewConsoleEncoder(cfg)
	}
	return zapcore.NewJSONEncoder(cfg)
}

// WithComponent creates a new logger with the specified component name.
// The level is shared with the parent.
func (l *Logger) WithComponent(component string) *Logger {
	return newWithComponent(l.base, l.level, component)
}

// Component returns the component name attached to this logger
func (l *Logger) Component() string {
	return l.component
}

// SetLevel sets the minimum log level
func (l *Logger) SetLevel(level LogLevel) {
	l.level.SetLevel(level.zapLevel())
}

// Sync flushes buffered entries
func (l *Logger) Sync() error {
	return l.zap.Sync()
}

func (l *Logger) write(level LogLevel, message string, fields map[string]interface{}, err error) {
	zfields := make([]zap.Field, 0, len(fields)+1)

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		zfields = append(zfields, zap.Any(k, fields[k]))
	}
	if err != nil {
		zfields = append(zfields, zap.Error(err))
	}

	switch level {
	case DEBUG:
		l.zap.Debug(message, zfields...)
	case INFO:
		l.zap.Info(message, zfields...)
	case WARN:
		l.zap.Warn(message, zfields...)
	case ERROR:
		l.zap.Error(message, zfields...)
	case FATAL:
		l.zap.Fatal(message, zfields...)
	}
}

func firstFields(fields []map[string]interface{}) map[string]interface{} {
	if len(fields) > 0 {
		return fields[0]
	}
	return nil
}

// Debug logs a debug message
func (l *Logger) Debug(message string, fields ...map[string]interface{}) {
	l.write(DEBUG, message, firstFields(fields), nil)
}

// Info logs an info message
func (l *Logger) Info(message string, fields ...map[string]interface{}) {
	l.write(INFO, message, firstFields(fields), nil)
}

// Warn logs a warning message
func (l *Logger) Warn(message string, fields ...map[string]interface{}) {
	l.write(WARN, message, firstFields(fields), nil)
}

// Error logs an error message
func (l *Logger) Error(message string, err error, fields ...map[string]interface{}) {
	l.write(ERROR, message, firstFields(fields), err)
}

// Fatal logs a fatal message and exits the program
func (l *Logger) Fatal(message string, err error, fields ...map[string]interface{}) {
	l.write(FATAL, message, firstFields(fields), err)
}
