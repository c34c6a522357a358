package audio

import (
	"context"
	"sync"
)

// MockPlayer implements playback without touching a sound device, for tests.
type MockPlayer struct {
	mu sync.Mutex

	// Behavior knobs
	Fail        error // returned by Play when non-nil
	Unavailable bool  // makes Available report false

	// Recorded state
	Played []string // every path passed to Play
}

// NewMockPlayer creates a mock player.
func NewMockPlayer() *MockPlayer {
	return &MockPlayer{}
}

// Available reports the configured availability.
func (p *MockPlayer) Available() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return !p.Unavailable
}

// Play records the path and returns the configured error.
func (p *MockPlayer) Play(_ context.Context, path string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.Fail != nil {
		return p.Fail
	}
	p.Played = append(p.Played, path)
	return nil
}
