// Package scratch manages the dedicated directory for transient synthesis
// output files: collision-free allocation, tracking, and deletion with
// bounded retries.
package scratch

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// Retry policy for Release. Deletion can hit transient locks when a playback
// process holds the file open slightly past its own exit, so each attempt
// waits a little longer than the previous one. The whole budget stays under
// a second.
const (
	releaseAttempts  = 3
	releaseBaseDelay = 100 * time.Millisecond
)

// Dir is a process-local scratch directory for transient audio files. Every
// allocated path is unique within a run and tracked until released.
type Dir struct {
	path string

	mu      sync.Mutex
	tracked map[string]struct{}

	// Test hooks
	attempts int
	delay    time.Duration
	sleep    func(time.Duration)
	remove   func(string) error
}

// New creates (if needed) and validates the scratch directory at path.
// The returned error wraps the caller's storage sentinel when the directory
// cannot be created or is not writable.
func New(path string) (*Dir, error) {
	if path == "" {
		return nil, fmt.Errorf("scratch directory path must not be empty")
	}

	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create scratch directory %s: %w", path, err)
	}

	// Probe writability up front so synthesis fails fast instead of half-way
	// through.
	probe, err := os.CreateTemp(path, "probe-*")
	if err != nil {
		return nil, fmt.Errorf("scratch directory %s is not writable: %w", path, err)
	}
	probe.Close()
	_ = os.Remove(probe.Name())

	return &Dir{
		path:     path,
		tracked:  make(map[string]struct{}),
		attempts: releaseAttempts,
		delay:    releaseBaseDelay,
		sleep:    time.Sleep,
		remove:   os.Remove,
	}, nil
}

// Path returns the scratch directory location.
func (d *Dir) Path() string {
	return d.path
}

// Allocate produces a path inside the scratch directory guaranteed not to
// collide with any currently-tracked path. The file itself is not created;
// the synthesis backend writes it.
func (d *Dir) Allocate(ext string) string {
	ext = strings.TrimPrefix(ext, ".")

	d.mu.Lock()
	defer d.mu.Unlock()

	for {
		name := fmt.Sprintf("ttskit-%s.%s", uuid.NewString(), ext)
		path := filepath.Join(d.path, name)
		if _, taken := d.tracked[path]; taken {
			continue
		}
		d.tracked[path] = struct{}{}
		log.Debug("allocated scratch file", "path", path)
		return path
	}
}

// Tracked reports whether path is currently tracked by the manager.
func (d *Dir) Tracked(path string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.tracked[path]
	return ok
}

// Release attempts deletion of the file at path with a bounded retry policy.
// If every attempt fails the file is left on disk and a warning is logged;
// cleanup failure is never fatal to the caller's primary operation. Releasing
// a path that does not exist, or was never allocated, is a tolerated no-op.
func (d *Dir) Release(path string) {
	d.mu.Lock()
	delete(d.tracked, path)
	d.mu.Unlock()

	for attempt := 1; attempt <= d.attempts; attempt++ {
		err := d.remove(path)
		if err == nil || os.IsNotExist(err) {
			log.Debug("released scratch file", "path", path, "attempt", attempt)
			return
		}

		if attempt < d.attempts {
			log.Debug("scratch file still busy, will retry",
				"path", path, "attempt", attempt, "error", err)
			// Wait a bit longer each time.
			d.sleep(d.delay * time.Duration(attempt))
		}
	}

	log.Warn("could not delete scratch file, leaving it on disk", "path", path)
}

// Purge removes every file in the scratch directory, tracked or not.
// Best-effort: individual failures are logged and skipped.
func (d *Dir) Purge() {
	entries, err := os.ReadDir(d.path)
	if err != nil {
		log.Warn("could not read scratch directory", "path", d.path, "error", err)
		return
	}

	d.mu.Lock()
	d.tracked = make(map[string]struct{})
	d.mu.Unlock()

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(d.path, entry.Name())
		if err := d.remove(path); err != nil {
			log.Warn("could not delete scratch file during purge", "path", path, "error", err)
		}
	}
}
