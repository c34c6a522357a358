// Package mock provides a fake TTS engine for testing.
package mock

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/dgnsrekt/ttskit/tts"
)

// Engine implements the tts.Engine interface without any backend. It writes
// a fixed payload to the output path and records every call so tests can
// assert on interactions.
type Engine struct {
	mu sync.Mutex

	// Behavior knobs
	FailSynthesis error       // returned by Synthesize when non-nil
	VoiceList     []tts.Voice // returned by Voices
	Format        tts.Format  // output format; defaults to wav
	Payload       []byte      // bytes written by Synthesize

	// Recorded state
	voice      string
	rate       int
	volume     float64
	closed     bool
	SpokenText []string // every text passed to Synthesize
	OutPaths   []string // every path passed to Synthesize
}

// New creates a mock engine with one voice and a small WAV-ish payload.
func New() *Engine {
	return &Engine{
		VoiceList: []tts.Voice{
			{ID: "mock-voice-1", Name: "Mock Voice", Language: "en-US", Gender: "neutral"},
		},
		Format:  tts.FormatWAV,
		Payload: []byte("RIFF mock audio"),
		rate:    150,
		volume:  1.0,
	}
}

// Name returns the registry name of the engine.
func (e *Engine) Name() string { return "mock" }

// Configure accepts the union of both real engines' keys so fakes can stand
// in for either.
func (e *Engine) Configure(opts tts.Options) error {
	return tts.ValidateOptions(opts, "rate", "volume", "voice", "lang", "tld", "slow")
}

// Synthesize writes the configured payload to outPath.
func (e *Engine) Synthesize(_ context.Context, text string, outPath string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return tts.ErrEngineClosed
	}
	if e.FailSynthesis != nil {
		return e.FailSynthesis
	}

	e.SpokenText = append(e.SpokenText, text)
	e.OutPaths = append(e.OutPaths, outPath)

	if err := os.WriteFile(outPath, e.Payload, 0o644); err != nil {
		return fmt.Errorf("%w: %v", tts.ErrSynthesisFailed, err)
	}
	return nil
}

// Voices returns the configured voice list.
func (e *Engine) Voices() ([]tts.Voice, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.VoiceList, nil
}

// SetVoice records the voice.
func (e *Engine) SetVoice(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.voice = id
	return nil
}

// SetRate records the rate.
func (e *Engine) SetRate(wpm int) error {
	if err := tts.ValidateRate(wpm); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rate = wpm
	return nil
}

// SetVolume records the volume.
func (e *Engine) SetVolume(level float64) error {
	if err := tts.ValidateVolume(level); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.volume = level
	return nil
}

// Voice returns the recorded voice.
func (e *Engine) Voice() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.voice
}

// Rate returns the recorded rate.
func (e *Engine) Rate() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rate
}

// Volume returns the recorded volume.
func (e *Engine) Volume() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.volume
}

// OutputFormat returns the configured format.
func (e *Engine) OutputFormat() tts.Format {
	if e.Format == "" {
		return tts.FormatWAV
	}
	return e.Format
}

// Capabilities reports full support.
func (e *Engine) Capabilities() tts.Capabilities {
	return tts.Capabilities{
		SupportsRate:   true,
		SupportsVolume: true,
		SupportsVoices: true,
		OutputFormats:  []tts.Format{e.OutputFormat()},
	}
}

// Validate always succeeds.
func (e *Engine) Validate() error { return nil }

// Close marks the engine closed.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
	return nil
}

// Ensure Engine implements the Engine interface
var _ tts.Engine = (*Engine)(nil)
