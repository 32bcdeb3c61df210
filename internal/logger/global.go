package logger

import (
	"os"
	"strings"
)

var (
	// Global logger instance
	globalLogger *Logger
)

func init() {
	level := INFO
	format := JSONFormat

	if levelStr := os.Getenv("LOG_LEVEL"); levelStr != "" {
		if parsed := ParseLevel(levelStr); parsed != -1 {
			level = parsed
		}
	}
	if formatStr := os.Getenv("LOG_FORMAT"); formatStr != "" {
		if parsed := ParseFormat(formatStr); parsed != -1 {
			format = parsed
		}
	}

	globalLogger = New(Config{Level: level, Format: format, Output: os.Stdout})
}

// ParseLevel parses a log level string, returning -1 when unknown
func ParseLevel(level string) LogLevel {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return DEBUG
	case "INFO":
		return INFO
	case "WARN", "WARNING":
		return WARN
	case "ERROR":
		return ERROR
	case "FATAL":
		return FATAL
	default:
		return -1
	}
}

// ParseFormat parses a log format string, returning -1 when unknown
func ParseFormat(format string) LogFormat {
	switch strings.ToLower(format) {
	case "json":
		return JSONFormat
	case "text", "console":
		return TextFormat
	default:
		return -1
	}
}

// Configure rebuilds the global logger from textual settings. Unknown values keep the defaults.
func Configure(level, format string) *Logger {
	cfg := Config{Level: INFO, Format: JSONFormat, Output: os.Stdout}
	if parsed := ParseLevel(level); parsed != -1 {
		cfg.Level = parsed
	}
	if parsed := ParseFormat(format); parsed != -1 {
		cfg.Format = parsed
	}
	globalLogger = New(cfg)
	return globalLogger
}

// GetGlobalLogger returns the global logger instance
func GetGlobalLogger() *Logger {
	return globalLogger
}

// SetGlobalLogger sets the global logger instance
func SetGlobalLogger(logger *Logger) {
	globalLogger = logger
}

// Debug logs a debug message using the global logger
func Debug(message string, fields ...map[string]interface{}) {
	globalLogger.write(DEBUG, message, firstFields(fields), nil)
}

// Info logs an info message using the global logger
func Info(message string, fields ...map[string]interface{}) {
	globalLogger.write(INFO, message, firstFields(fields), nil)
}

// Warn logs a warning message using the global logger
func Warn(message string, fields ...map[string]interface{}) {
	globalLogger.write(WARN, message, firstFields(fields), nil)
}

// Error logs an error message using the global logger
func Error(message string, err error, fields ...map[string]interface{}) {
	globalLogger.write(ERROR, message, firstFields(fields), err)
}

// Fatal logs a fatal message using the global logger and exits
func Fatal(message string, err error, fields ...map[string]interface{}) {
	globalLogger.write(FATAL, message, firstFields(fields), err)
}
