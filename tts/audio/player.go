//go:build !nocgo
// +build !nocgo

package audio

import (
	"bytes"
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/ebitengine/oto/v3"
)

// OtoPlayer plays audio through the oto sound-device abstraction. The oto
// context is created lazily on first use and shared for the life of the
// process (oto allows only one context per process). When either ffmpeg or
// the sound device is unavailable, playback falls through to the
// command-line player.
type OtoPlayer struct {
	mu       sync.Mutex
	context  *oto.Context
	initErr  error
	initDone bool

	fallback *CommandPlayer
}

// NewPlayer creates the default player for this build: oto with a
// command-line fallback.
func NewPlayer() *OtoPlayer {
	return &OtoPlayer{
		fallback: NewCommandPlayer(),
	}
}

// Available reports whether some playback path exists. The oto path cannot
// be probed without initializing a sound device, so this is optimistic when
// the fallback is missing.
func (p *OtoPlayer) Available() bool {
	p.mu.Lock()
	probed := p.initDone
	failed := p.initErr != nil
	p.mu.Unlock()

	if probed && failed {
		return p.fallback.Available()
	}
	return true
}

// Play decodes the file at path and plays it through oto, blocking until
// playback completes or ctx is cancelled.
func (p *OtoPlayer) Play(ctx context.Context, path string) error {
	pcm, err := DecodeToPCM(ctx, path)
	if err != nil {
		log.Debug("PCM decode unavailable, using command player", "error", err)
		return p.fallback.Play(ctx, path)
	}

	octx, err := p.otoContext()
	if err != nil {
		log.Debug("oto context unavailable, using command player", "error", err)
		return p.fallback.Play(ctx, path)
	}

	player := octx.NewPlayer(bytes.NewReader(pcm))
	player.Play()

	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()

	for player.IsPlaying() {
		select {
		case <-ctx.Done():
			_ = player.Close()
			return fmt.Errorf("playback cancelled: %w", ctx.Err())
		case <-ticker.C:
		}
	}

	if err := player.Close(); err != nil {
		return fmt.Errorf("failed to close audio player: %w", err)
	}
	return nil
}

// otoContext returns the shared oto context, initializing it on first call.
func (p *OtoPlayer) otoContext() (*oto.Context, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initDone {
		return p.context, p.initErr
	}
	p.initDone = true

	options := &oto.NewContextOptions{
		SampleRate:   SampleRate,
		ChannelCount: Channels,
		Format:       oto.FormatSignedInt16LE,
	}

	// Platform-specific buffer size adjustments.
	switch runtime.GOOS {
	case "darwin":
		// macOS benefits from larger buffers
		options.BufferSize = 100 * time.Millisecond
	default:
		options.BufferSize = 50 * time.Millisecond
	}

	octx, ready, err := oto.NewContext(options)
	if err != nil {
		p.initErr = fmt.Errorf("failed to create audio context: %w", err)
		return nil, p.initErr
	}
	<-ready

	log.Debug("audio context initialized", "sample_rate", SampleRate, "channels", Channels)
	p.context = octx
	return p.context, nil
}
