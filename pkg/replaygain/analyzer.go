package replaygain

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/killallgit/rgain-analyzer/pkg/logging"
)

// defaultWaitDelay bounds how long Wait keeps draining pipes after the child
// is killed, so a grandchild holding stdout open cannot hang the caller.
const defaultWaitDelay = 2 * time.Second

// Request is one analysis call. Executable, when set, overrides the
// locator for this call only and touches no shared state.
type Request struct {
	FilePath   string
	Metadata   Metadata
	Executable string
}

// Analyzer runs the external tool against one file per call
type Analyzer struct {
	profile   Profile
	locator   *Locator
	timeout   time.Duration
	waitDelay time.Duration
}

// Option configures an Analyzer
type Option func(*Analyzer)

// WithProfile selects the tool profile (arguments, report stream, parser)
func WithProfile(p Profile) Option {
	return func(a *Analyzer) {
		if p.Args != nil && p.Parser != nil {
			a.profile = p
		}
	}
}

// WithLocator makes the analyzer resolve its executable through l
func WithLocator(l *Locator) Option {
	return func(a *Analyzer) {
		if l != nil {
			a.locator = l
		}
	}
}

// WithExecutable gives the analyzer its own locator pointing at ref
func WithExecutable(ref string) Option {
	return func(a *Analyzer) {
		if ref != "" {
			a.locator = NewLocator(ref)
		}
	}
}

// WithTimeout bounds each invocation; zero means no limit beyond the caller's context
func WithTimeout(timeout time.Duration) Option {
	return func(a *Analyzer) {
		if timeout >= 0 {
			a.timeout = timeout
		}
	}
}

// New creates an Analyzer. Without WithLocator/WithExecutable the python-rgain
// profiles share DefaultLocator and other profiles get a locator of their own.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{
		profile:   DefaultProfile(),
		waitDelay: defaultWaitDelay,
	}
	for _, opt := range opts {
		opt(a)
	}

	if a.locator == nil {
		if a.profile.Executable == DefaultExecutable {
			a.locator = DefaultLocator
		} else {
			a.locator = NewLocator(a.profile.Executable)
		}
	}
	return a
}

// Profile returns the active tool profile
func (a *Analyzer) Profile() Profile {
	return a.profile
}

// Locator returns the locator the analyzer resolves through
func (a *Analyzer) Locator() *Locator {
	return a.locator
}

// Timeout returns the per-invocation limit
func (a *Analyzer) Timeout() time.Duration {
	return a.timeout
}

// Analyze runs the tool on filePath and returns a copy of metadata with
// replay_gain set. On any failure metadata is returned untouched with the error.
func (a *Analyzer) Analyze(ctx context.Context, filePath string, metadata Metadata) (Metadata, error) {
	return a.Run(ctx, Request{FilePath: filePath, Metadata: metadata})
}

// Run is Analyze with an explicit request
func (a *Analyzer) Run(ctx context.Context, req Request) (Metadata, error) {
	if req.FilePath == "" {
		return req.Metadata, ErrEmptyFilePath
	}

	executable := req.Executable
	if executable == "" {
		executable = a.locator.Resolve()
	}

	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	output, err := a.invoke(ctx, executable, req.FilePath)
	if err != nil {
		return req.Metadata, err
	}

	gain, err := a.profile.Parser.Parse(output, req.FilePath)
	if err != nil {
		return req.Metadata, newParseError(req.FilePath, output, err)
	}

	logging.Debugf("%s reported %.2f dB for %s", executable, gain, req.FilePath)
	return req.Metadata.withReplayGain(gain), nil
}

// invoke spawns the tool once and returns the report stream
func (a *Analyzer) invoke(ctx context.Context, executable, filePath string) (string, error) {
	args := a.profile.Args(filePath)
	logging.Debugf("Running %s %s", executable, strings.Join(args, " "))

	cmd := exec.CommandContext(ctx, executable, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = a.waitDelay

	if err := cmd.Start(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			return "", a.contextError(ctx, filePath, "")
		}
		return "", &ToolNotFoundError{Executable: executable, Err: err}
	}

	waitErr := cmd.Wait()
	if waitErr != nil && ctx.Err() != nil {
		return "", a.contextError(ctx, filePath, stderr.String())
	}

	if waitErr != nil && !errors.Is(waitErr, exec.ErrWaitDelay) {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		return "", &ToolExecutionError{
			File:     filePath,
			ExitCode: exitCode,
			Stderr:   strings.TrimSpace(stderr.String()),
			Err:      waitErr,
		}
	}

	if a.profile.Stream == StreamStderr {
		return stderr.String(), nil
	}
	return stdout.String(), nil
}

// contextError classifies a killed invocation
func (a *Analyzer) contextError(ctx context.Context, filePath, stderr string) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &TimeoutError{
			File:    filePath,
			Timeout: a.timeout,
			Stderr:  strings.TrimSpace(stderr),
		}
	}
	return fmt.Errorf("analysis of %s cancelled: %w", filePath, ctx.Err())
}
