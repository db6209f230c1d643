// SPDX-License-Identifier: MIT

// Package log provides a small leveled logger for the application layers.
// The detector itself never logs; it returns errors as values.
package log

import (
	"fmt"
	stdlog "log"
	"os"
	"strings"
	"sync/atomic"
)

// Level is the severity of a log message.
type Level uint32

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel converts a string (case-insensitive) to a Level. The second
// return value reports whether the string was recognized; unrecognized
// strings map to LevelInfo.
func ParseLevel(s string) (Level, bool) {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return LevelDebug, true
	case "INFO":
		return LevelInfo, true
	case "WARN", "WARNING":
		return LevelWarn, true
	case "ERROR":
		return LevelError, true
	default:
		return LevelInfo, false
	}
}

var currentLevel atomic.Uint32

var logger = stdlog.New(os.Stderr, "", stdlog.Ldate|stdlog.Ltime|stdlog.Lmicroseconds)

func init() {
	SetLevel(LevelInfo)
}

// SetLevel sets the global logging level.
func SetLevel(level Level) {
	currentLevel.Store(uint32(level))
}

// GetLevel returns the current global logging level.
func GetLevel() Level {
	return Level(currentLevel.Load())
}

func emit(level Level, format string, v ...any) {
	if level < GetLevel() {
		return
	}
	logger.Printf("%-5s %s", level, fmt.Sprintf(format, v...))
}

// Debugf logs a formatted debug message.
func Debugf(format string, v ...any) { emit(LevelDebug, format, v...) }

// Infof logs a formatted info message.
func Infof(format string, v ...any) { emit(LevelInfo, format, v...) }

// Warnf logs a formatted warning message.
func Warnf(format string, v ...any) { emit(LevelWarn, format, v...) }

// Errorf logs a formatted error message.
func Errorf(format string, v ...any) { emit(LevelError, format, v...) }

// Fatalf logs a formatted message and exits. Fatal messages are emitted
// regardless of the current level.
func Fatalf(format string, v ...any) {
	logger.Fatalf("%-5s %s", "FATAL", fmt.Sprintf(format, v...))
}
