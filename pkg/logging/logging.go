package logging

import (
	"fmt"
	"log"
	"strings"
	"sync/atomic"
)

// Level is a log severity threshold
type Level int32

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

var current atomic.Int32

func init() {
	current.Store(int32(LevelInfo))
}

// ParseLevel maps a config/flag value to a Level
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "info", "":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	}
	return LevelInfo, fmt.Errorf("unknown log level %q", s)
}

// SetLevel sets the process-wide threshold
func SetLevel(l Level) {
	current.Store(int32(l))
}

// GetLevel returns the process-wide threshold
func GetLevel() Level {
	return Level(current.Load())
}

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
	}
	return fmt.Sprintf("LEVEL(%d)", int32(l))
}

func logf(l Level, format string, args ...any) {
	if l < GetLevel() {
		return
	}
	log.Printf("["+l.String()+"] "+format, args...)
}

// Debugf logs at debug level
func Debugf(format string, args ...any) {
	logf(LevelDebug, format, args...)
}

// Infof logs at info level
func Infof(format string, args ...any) {
	logf(LevelInfo, format, args...)
}

// Warnf logs at warn level
func Warnf(format string, args ...any) {
	logf(LevelWarn, format, args...)
}

// Errorf logs at error level
func Errorf(format string, args ...any) {
	logf(LevelError, format, args...)
}
