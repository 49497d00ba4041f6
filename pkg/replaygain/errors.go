package replaygain

import (
	"errors"
	"fmt"
	"time"
)

// Common errors
var (
	ErrToolNotFound    = errors.New("replay gain tool not found")
	ErrToolExecution   = errors.New("replay gain tool failed")
	ErrParse           = errors.New("replay gain output could not be parsed")
	ErrTimeout         = errors.New("replay gain analysis timed out")
	ErrEmptyFilePath   = errors.New("file path is empty")
	ErrUnknownProfile  = errors.New("unknown tool profile")
	ErrNoReportMatched = errors.New("no gain report line found")
	ErrEmptyOutput     = errors.New("tool produced no output")
)

// ToolNotFoundError is returned when the configured executable cannot be launched.
type ToolNotFoundError struct {
	Executable string
	Err        error
}

func (e *ToolNotFoundError) Error() string {
	return fmt.Sprintf("%v: %s: %v", ErrToolNotFound, e.Executable, e.Err)
}

func (e *ToolNotFoundError) Is(target error) bool {
	return target == ErrToolNotFound
}

func (e *ToolNotFoundError) Unwrap() error {
	return e.Err
}

// ToolExecutionError is returned when the tool ran but exited non-zero. Missing
// input files, corrupt containers and unsupported formats all land here; the
// tool's stderr is the only thing telling them apart.
type ToolExecutionError struct {
	File     string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *ToolExecutionError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("%v for %s: exit code %d (stderr: %s)", ErrToolExecution, e.File, e.ExitCode, e.Stderr)
	}
	return fmt.Sprintf("%v for %s: exit code %d", ErrToolExecution, e.File, e.ExitCode)
}

func (e *ToolExecutionError) Is(target error) bool {
	return target == ErrToolExecution
}

func (e *ToolExecutionError) Unwrap() error {
	return e.Err
}

// ParseError is returned when the tool succeeded but its report held no usable
// gain value. RawOutput is kept verbatim for diagnosing tool output changes.
type ParseError struct {
	File      string
	RawOutput string
	Err       error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%v for %s: %v", ErrParse, e.File, e.Err)
}

func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// TimeoutError is returned when the tool outlived its deadline and was killed.
type TimeoutError struct {
	File    string
	Timeout time.Duration
	Stderr  string
}

func (e *TimeoutError) Error() string {
	if e.Timeout > 0 {
		return fmt.Sprintf("%v for %s after %s", ErrTimeout, e.File, e.Timeout)
	}
	return fmt.Sprintf("%v for %s", ErrTimeout, e.File)
}

func (e *TimeoutError) Is(target error) bool {
	return target == ErrTimeout
}

// newParseError wraps a parser failure with the output that caused it
func newParseError(file, output string, err error) *ParseError {
	return &ParseError{
		File:      file,
		RawOutput: output,
		Err:       err,
	}
}
