package replaygain

import "sync"

// DefaultExecutable is the python-rgain command used when nothing else is configured
const DefaultExecutable = "replaygain"

// DefaultLocator is the process-wide tool reference. Prefer Request.Executable
// or an Analyzer-owned Locator over mutating this.
var DefaultLocator = NewLocator(DefaultExecutable)

// Locator holds the executable reference used for every invocation.
// Existence is never checked here: a missing name on PATH and a missing
// absolute path both surface as ToolNotFoundError when the process is launched.
type Locator struct {
	mu    sync.RWMutex
	scope sync.Mutex
	ref   string
}

// NewLocator creates a locator pointing at ref
func NewLocator(ref string) *Locator {
	return &Locator{ref: ref}
}

// Resolve returns the current reference
func (l *Locator) Resolve() string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.ref
}

// Override replaces the reference and returns the previous one for Restore.
// The caller owns restoring it; nothing is scoped automatically.
func (l *Locator) Override(ref string) string {
	l.mu.Lock()
	defer l.mu.Unlock()
	previous := l.ref
	l.ref = ref
	return previous
}

// Restore puts back a reference previously returned by Override
func (l *Locator) Restore(previous string) {
	l.mu.Lock()
	l.ref = previous
	l.mu.Unlock()
}

// Scoped overrides the reference for the duration of fn and restores it
// afterwards, even if fn panics. Concurrent Scoped calls are serialized for
// the whole override->invoke->restore span.
func (l *Locator) Scoped(ref string, fn func() error) error {
	l.scope.Lock()
	defer l.scope.Unlock()

	previous := l.Override(ref)
	defer l.Restore(previous)

	return fn()
}
