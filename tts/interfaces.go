package tts

import "context"

// Engine defines the interface for text-to-speech backends. The facade never
// talks to a synthesizer directly; every backend — offline or cloud — is
// adapted to this capability set.
//
// Capabilities a backend does not offer return ErrUnsupportedOperation
// rather than silently succeeding.
type Engine interface {
	// Name returns the registry name of the engine (e.g. "espeak", "gtts").
	Name() string

	// Configure applies a set of engine options. Unknown keys are rejected
	// with ErrUnknownOption; recognized keys are validated before any state
	// changes.
	Configure(opts Options) error

	// Synthesize converts text to audio and writes it to outPath in the
	// engine's native output format. Backend failures are wrapped in
	// ErrSynthesisFailed. Synthesis is never retried at this layer.
	Synthesize(ctx context.Context, text string, outPath string) error

	// Voices returns the voices the backend can enumerate.
	Voices() ([]Voice, error)

	// SetVoice selects the active voice for synthesis.
	SetVoice(id string) error

	// SetRate sets the speaking rate in words per minute.
	SetRate(wpm int) error

	// SetVolume sets the output volume, from 0.0 to 1.0.
	SetVolume(level float64) error

	// OutputFormat returns the audio container format the engine produces.
	OutputFormat() Format

	// Capabilities describes what the engine supports.
	Capabilities() Capabilities

	// Validate checks that the backend is usable (binary present, etc.).
	Validate() error

	// Close releases any resources held by the engine.
	Close() error
}

// Player defines the interface for audio playback. Playback is a synchronous
// external call: Play blocks until the audio has finished or failed.
type Player interface {
	// Play plays the audio file at path from start to finish.
	Play(ctx context.Context, path string) error

	// Available reports whether the playback mechanism can be used on this
	// system.
	Available() bool
}

// Options is a set of engine configuration options keyed by name. Each
// engine validates it against its own closed set of recognized keys.
type Options map[string]any

// Voice describes a selectable synthetic voice.
type Voice struct {
	ID       string // Voice identifier, as understood by the backend
	Name     string // Human-readable name
	Language string // Language code (e.g., "en-US")
	Gender   string // Voice gender, if the backend reports one
}

// Format identifies an audio container format.
type Format string

// Audio container formats produced by the supported backends.
const (
	FormatMP3  Format = "mp3"
	FormatWAV  Format = "wav"
	FormatOGG  Format = "ogg"
	FormatAIFF Format = "aiff"
)

// Capabilities describes what an engine can do.
type Capabilities struct {
	SupportsRate    bool     // SetRate is meaningful
	SupportsVolume  bool     // SetVolume is meaningful
	SupportsVoices  bool     // Voices/SetVoice are meaningful
	OutputFormats   []Format // Formats the engine can produce
	MaxTextLength   int      // Maximum text length per synthesis call (0 = unlimited)
	RequiresNetwork bool     // Needs internet connection
}

// SupportsFormat reports whether format is one of the engine's output formats.
func (c Capabilities) SupportsFormat(format Format) bool {
	for _, f := range c.OutputFormats {
		if f == format {
			return true
		}
	}
	return false
}
