// Package logger provides the application-level leveled logger. The
// datastore layer carries its own zap logger; everything else in the bot
// logs through this package.
package logger

import (
	"io"
	"log"
	"os"
)

// Logger defines the leveled logging interface used across the bot.
type Logger interface {
	Debug(args ...interface{})
	Debugf(format string, args ...interface{})
	Info(args ...interface{})
	Infof(format string, args ...interface{})
	Warn(args ...interface{})
	Warnf(format string, args ...interface{})
	Error(args ...interface{})
	Errorf(format string, args ...interface{})
	Fatal(args ...interface{})
	Fatalf(format string, args ...interface{})
}

type levelLogger struct {
	debug *log.Logger
	info  *log.Logger
	warn  *log.Logger
	err   *log.Logger
	fatal *log.Logger
}

const stdFlags = log.Ldate | log.Ltime | log.Lshortfile

// New creates a Logger at the given level. Levels are "debug", "info",
// "warn", "error" and "fatal"; anything below the level is discarded.
func New(level string) Logger {
	debugOut, infoOut, warnOut := io.Discard, io.Discard, io.Discard
	errOut := io.Discard

	switch level {
	case "debug":
		debugOut = os.Stdout
		fallthrough
	case "info", "":
		infoOut = os.Stdout
		fallthrough
	case "warn":
		warnOut = os.Stderr
		fallthrough
	case "error":
		errOut = os.Stderr
	case "fatal":
		// only the fatal logger stays active
	}

	return &levelLogger{
		debug: log.New(debugOut, "DEBUG: ", stdFlags),
		info:  log.New(infoOut, "INFO:  ", stdFlags),
		warn:  log.New(warnOut, "WARN:  ", stdFlags),
		err:   log.New(errOut, "ERROR: ", stdFlags),
		fatal: log.New(os.Stderr, "FATAL: ", stdFlags),
	}
}

func (l *levelLogger) Debug(args ...interface{})                 { l.debug.Println(args...) }
func (l *levelLogger) Debugf(format string, args ...interface{}) { l.debug.Printf(format, args...) }
func (l *levelLogger) Info(args ...interface{})                  { l.info.Println(args...) }
func (l *levelLogger) Infof(format string, args ...interface{})  { l.info.Printf(format, args...) }
func (l *levelLogger) Warn(args ...interface{})                  { l.warn.Println(args...) }
func (l *levelLogger) Warnf(format string, args ...interface{})  { l.warn.Printf(format, args...) }
func (l *levelLogger) Error(args ...interface{})                 { l.err.Println(args...) }
func (l *levelLogger) Errorf(format string, args ...interface{}) { l.err.Printf(format, args...) }
func (l *levelLogger) Fatal(args ...interface{})                 { l.fatal.Fatalln(args...) }
func (l *levelLogger) Fatalf(format string, args ...interface{}) { l.fatal.Fatalf(format, args...) }

// std is the global logger, defaulting to the info level.
var std = New("info")

// SetGlobalLevel reconfigures the global logger's level.
func SetGlobalLevel(level string) {
	std = New(level)
}

// Debug logs a debug message using the global logger.
func Debug(args ...interface{}) { std.Debug(args...) }

// Debugf logs a debug message with formatting.
func Debugf(format string, args ...interface{}) { std.Debugf(format, args...) }

// Info logs an informational message using the global logger.
func Info(args ...interface{}) { std.Info(args...) }

// Infof logs an informational message with formatting.
func Infof(format string, args ...interface{}) { std.Infof(format, args...) }

// Warn logs a warning message.
func Warn(args ...interface{}) { std.Warn(args...) }

// Warnf logs a warning message with formatting.
func Warnf(format string, args ...interface{}) { std.Warnf(format, args...) }

// Error logs an error message.
func Error(args ...interface{}) { std.Error(args...) }

// Errorf logs an error message with formatting.
func Errorf(format string, args ...interface{}) { std.Errorf(format, args...) }

// Fatal logs a fatal error message and exits.
func Fatal(args ...interface{}) { std.Fatal(args...) }

// Fatalf logs a fatal error message with formatting and exits.
func Fatalf(format string, args ...interface{}) { std.Fatalf(format, args...) }
