package utils

import (
	"fmt"
	"io"
	"log"
	"strings"
	"time"
)

// Logger defines a simple interface for logging.
// Probe output itself goes through report.Reporter; the logger only carries lifecycle messages.
type Logger interface {
	Debugf(format string, v ...interface{})
	Infof(format string, v ...interface{})
	Warnf(format string, v ...interface{})
	Errorf(format string, v ...interface{})
	Fatalf(format string, v ...interface{})
}

// defaultLogger is a basic implementation of the Logger interface.
type defaultLogger struct {
	debugLogger *log.Logger
	infoLogger  *log.Logger
	warnLogger  *log.Logger
	errorLogger *log.Logger
	fatalLogger *log.Logger
	logLevel    LogLevel
	noColor     bool
	silent      bool
}

// LogLevel defines the verbosity of the logger.
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorDim    = "\033[2m"
)

func colorize(s string, color string, noColor bool) string {
	if noColor {
		return s
	}
	return color + s + colorReset
}

// NewLogger creates a logger over explicit writers. Silent discards everything below ERROR.
func NewLogger(out io.Writer, errOut io.Writer, level LogLevel, noColor bool, silent bool) Logger {
	if silent {
		out = io.Discard
	}

	return &defaultLogger{
		debugLogger: log.New(out, "", 0),
		infoLogger:  log.New(out, "", 0),
		warnLogger:  log.New(out, "", 0),
		errorLogger: log.New(errOut, "", 0),
		fatalLogger: log.New(errOut, "", 0),
		logLevel:    level,
		noColor:     noColor,
		silent:      silent,
	}
}

func (l *defaultLogger) prefix(levelStr string, levelColor string) string {
	currentTime := time.Now().Format("15:04:05")
	return fmt.Sprintf("%s [%s] ",
		colorize(fmt.Sprintf("[%s]", currentTime), colorDim, l.noColor),
		colorize(levelStr, levelColor, l.noColor),
	)
}

func (l *defaultLogger) Debugf(format string, v ...interface{}) {
	if l.logLevel <= LevelDebug {
		l.debugLogger.Print(l.prefix("DEBUG", colorBlue) + fmt.Sprintf(format, v...))
	}
}

func (l *defaultLogger) Infof(format string, v ...interface{}) {
	if l.logLevel <= LevelInfo {
		l.infoLogger.Print(l.prefix("INFO", colorGreen) + fmt.Sprintf(format, v...))
	}
}

func (l *defaultLogger) Warnf(format string, v ...interface{}) {
	if l.logLevel <= LevelWarn {
		l.warnLogger.Print(l.prefix("WARN", colorYellow) + fmt.Sprintf(format, v...))
	}
}

func (l *defaultLogger) Errorf(format string, v ...interface{}) {
	if l.logLevel <= LevelError {
		l.errorLogger.Print(l.prefix("ERROR", colorRed) + fmt.Sprintf(format, v...))
	}
}

func (l *defaultLogger) Fatalf(format string, v ...interface{}) {
	l.fatalLogger.Fatal(l.prefix("FATAL", colorRed) + fmt.Sprintf(format, v...))
}

// StringToLogLevel converts a log level string to LogLevel type.
// Defaults to LevelInfo if the string is unrecognized.
func StringToLogLevel(levelStr string) LogLevel {
	switch strings.ToLower(levelStr) {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	case "fatal":
		return LevelFatal
	default:
		return LevelInfo
	}
}

// NoOpLogger is a logger that does nothing, useful in tests and helpers
// where a logger might not always be provided.
type NoOpLogger struct{}

func (l *NoOpLogger) Debugf(format string, args ...interface{}) {}
func (l *NoOpLogger) Infof(format string, args ...interface{})  {}
func (l *NoOpLogger) Warnf(format string, args ...interface{})  {}
func (l *NoOpLogger) Errorf(format string, args ...interface{}) {}
func (l *NoOpLogger) Fatalf(format string, args ...interface{}) {}
