package scratch

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func newTestDir(t *testing.T) *Dir {
	t.Helper()

	d, err := New(filepath.Join(t.TempDir(), "scratch"))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	// No real sleeping in tests.
	d.sleep = func(time.Duration) {}

	return d
}

// TestNewCreatesDirectory tests that New creates the scratch directory.
func TestNewCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "scratch")

	d, err := New(path)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	info, err := os.Stat(d.Path())
	if err != nil {
		t.Fatalf("scratch directory was not created: %v", err)
	}
	if !info.IsDir() {
		t.Error("scratch path is not a directory")
	}
}

// TestNewEmptyPath tests that an empty path is rejected.
func TestNewEmptyPath(t *testing.T) {
	if _, err := New(""); err == nil {
		t.Error("expected error for empty path")
	}
}

// TestAllocateUniquePaths tests that allocated paths are pairwise distinct
// within a run.
func TestAllocateUniquePaths(t *testing.T) {
	d := newTestDir(t)

	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		path := d.Allocate(".mp3")
		if seen[path] {
			t.Fatalf("duplicate path allocated: %s", path)
		}
		seen[path] = true

		if !d.Tracked(path) {
			t.Fatalf("allocated path not tracked: %s", path)
		}
	}
}

// TestAllocateExtension tests extension normalization.
func TestAllocateExtension(t *testing.T) {
	d := newTestDir(t)

	tests := []struct {
		ext  string
		want string
	}{
		{".mp3", ".mp3"},
		{"mp3", ".mp3"},
		{"wav", ".wav"},
	}

	for _, tt := range tests {
		path := d.Allocate(tt.ext)
		if !strings.HasSuffix(path, tt.want) {
			t.Errorf("Allocate(%q) = %s, want suffix %s", tt.ext, path, tt.want)
		}
		if filepath.Dir(path) != d.Path() {
			t.Errorf("Allocate(%q) = %s, not inside scratch dir", tt.ext, path)
		}
	}
}

// TestReleaseDeletesFile tests the happy path.
func TestReleaseDeletesFile(t *testing.T) {
	d := newTestDir(t)

	path := d.Allocate("wav")
	if err := os.WriteFile(path, []byte("audio"), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	d.Release(path)

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("file still present after Release: %v", err)
	}
	if d.Tracked(path) {
		t.Error("path still tracked after Release")
	}
}

// TestReleaseNonExistentPath tests that releasing a missing file does not
// panic, retry, or report an error.
func TestReleaseNonExistentPath(t *testing.T) {
	d := newTestDir(t)

	slept := false
	d.sleep = func(time.Duration) { slept = true }

	d.Release(filepath.Join(d.Path(), "never-created.mp3"))

	if slept {
		t.Error("Release retried for a non-existent path")
	}
}

// TestReleaseRetriesTransientLock tests that a file "locked" for fewer
// attempts than the retry budget is eventually deleted.
func TestReleaseRetriesTransientLock(t *testing.T) {
	d := newTestDir(t)

	path := d.Allocate("mp3")
	if err := os.WriteFile(path, []byte("audio"), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	// Simulated holder: fail the first two attempts, then let the real
	// delete through.
	calls := 0
	d.remove = func(p string) error {
		calls++
		if calls <= 2 {
			return errors.New("file is busy")
		}
		return os.Remove(p)
	}

	d.Release(path)

	if calls != 3 {
		t.Errorf("expected 3 delete attempts, got %d", calls)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("file still present after retried Release")
	}
}

// TestReleaseExhaustsBudget tests that a file locked for the entire budget
// is left on disk without an error escaping.
func TestReleaseExhaustsBudget(t *testing.T) {
	d := newTestDir(t)

	path := d.Allocate("mp3")
	if err := os.WriteFile(path, []byte("audio"), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	calls := 0
	d.remove = func(string) error {
		calls++
		return errors.New("file is busy")
	}

	d.Release(path)

	if calls != releaseAttempts {
		t.Errorf("expected %d delete attempts, got %d", releaseAttempts, calls)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("file should remain on disk after exhausted budget: %v", err)
	}
}

// TestReleaseDelayIncreases tests the linearly increasing backoff.
func TestReleaseDelayIncreases(t *testing.T) {
	d := newTestDir(t)

	var delays []time.Duration
	d.sleep = func(dur time.Duration) { delays = append(delays, dur) }
	d.remove = func(string) error { return errors.New("file is busy") }

	d.Release(d.Allocate("mp3"))

	// Sleeps happen between attempts, so one fewer than the attempt count.
	if len(delays) != releaseAttempts-1 {
		t.Fatalf("expected %d sleeps, got %d", releaseAttempts-1, len(delays))
	}
	for i := 1; i < len(delays); i++ {
		if delays[i] <= delays[i-1] {
			t.Errorf("delay %d (%v) not greater than delay %d (%v)",
				i, delays[i], i-1, delays[i-1])
		}
	}
}

// TestPurge tests that Purge removes tracked and untracked files alike.
func TestPurge(t *testing.T) {
	d := newTestDir(t)

	tracked := d.Allocate("wav")
	if err := os.WriteFile(tracked, []byte("a"), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	stray := filepath.Join(d.Path(), "stray.mp3")
	if err := os.WriteFile(stray, []byte("b"), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	d.Purge()

	entries, err := os.ReadDir(d.Path())
	if err != nil {
		t.Fatalf("read dir failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected empty scratch dir after Purge, found %d entries", len(entries))
	}
	if d.Tracked(tracked) {
		t.Error("path still tracked after Purge")
	}
}
