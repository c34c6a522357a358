package engines

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dgnsrekt/ttskit/tts"
)

// Espeak option keys recognized by Configure.
const (
	espeakOptRate   = "rate"
	espeakOptVolume = "volume"
	espeakOptVoice  = "voice"
)

// EspeakEngine implements the tts.Engine interface using espeak-ng, an
// offline synthesizer. It runs a fresh process per synthesis with
// pre-configured stdin, the same pattern used for other subprocess backends:
// no long-lived child process to babysit, no stdin write races.
type EspeakEngine struct {
	// Configuration
	binary  string
	voice   string
	rate    int
	volume  float64
	timeout time.Duration

	// Synchronization
	mu     sync.RWMutex
	closed bool
}

// NewEspeakEngine creates a new espeak-ng engine.
func NewEspeakEngine(config tts.EspeakConfig) (*EspeakEngine, error) {
	if config.Binary == "" {
		config.Binary = "espeak-ng"
	}
	if config.Rate == 0 {
		config.Rate = 175
	}
	if config.Volume == 0 {
		// A zero-value config means "defaults", not mute; use SetVolume(0)
		// to silence an engine deliberately.
		config.Volume = 1.0
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &EspeakEngine{
		binary:  config.Binary,
		voice:   config.Voice,
		rate:    config.Rate,
		volume:  config.Volume,
		timeout: config.Timeout,
	}, nil
}

// Name returns the registry name of the engine.
func (e *EspeakEngine) Name() string { return "espeak" }

// Configure applies espeak options. Recognized keys: rate, volume, voice.
// Unknown keys are rejected; values are validated before any state changes.
func (e *EspeakEngine) Configure(opts tts.Options) error {
	if err := tts.ValidateOptions(opts, espeakOptRate, espeakOptVolume, espeakOptVoice); err != nil {
		return err
	}

	rate, hasRate := e.rate, false
	if v, ok := opts[espeakOptRate]; ok {
		r, err := toInt(v)
		if err != nil {
			return fmt.Errorf("%w: rate: %v", tts.ErrInvalidConfig, err)
		}
		if err := tts.ValidateRate(r); err != nil {
			return err
		}
		rate, hasRate = r, true
	}

	volume, hasVolume := e.volume, false
	if v, ok := opts[espeakOptVolume]; ok {
		level, err := toFloat(v)
		if err != nil {
			return fmt.Errorf("%w: volume: %v", tts.ErrInvalidConfig, err)
		}
		if err := tts.ValidateVolume(level); err != nil {
			return err
		}
		volume, hasVolume = level, true
	}

	voice, hasVoice := "", false
	if v, ok := opts[espeakOptVoice]; ok {
		s, ok := v.(string)
		if !ok {
			return fmt.Errorf("%w: voice must be a string", tts.ErrInvalidConfig)
		}
		voice, hasVoice = s, true
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if hasRate {
		e.rate = rate
	}
	if hasVolume {
		e.volume = volume
	}
	if hasVoice {
		e.voice = voice
	}
	return nil
}

// Synthesize converts text to audio and writes a WAV file to outPath.
func (e *EspeakEngine) Synthesize(ctx context.Context, text string, outPath string) error {
	e.mu.RLock()
	binary, voice, rate, volume, timeout := e.binary, e.voice, e.rate, e.volume, e.timeout
	closed := e.closed
	e.mu.RUnlock()

	if closed {
		return tts.ErrEngineClosed
	}
	if text == "" {
		return fmt.Errorf("%w: text cannot be empty", tts.ErrSynthesisFailed)
	}

	// espeak amplitude is 0-200; map volume 0.0-1.0 onto it.
	amplitude := int(volume * 200)

	args := []string{
		"-s", strconv.Itoa(rate),
		"-a", strconv.Itoa(amplitude),
		"-w", outPath,
		"--stdin",
	}
	if voice != "" {
		args = append(args, "-v", voice)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, binary, args...)

	// Pre-configure stdin with the text so the child never races our write.
	cmd.Stdin = strings.NewReader(text)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	log.Debug("espeak synthesis", "rate", rate, "amplitude", amplitude, "voice", voice, "chars", len(text))

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("%w: espeak timeout: %v", tts.ErrSynthesisFailed, ctx.Err())
		}
		return fmt.Errorf("%w: espeak: %v, stderr: %s", tts.ErrSynthesisFailed, err, stderr.String())
	}

	info, err := os.Stat(outPath)
	if err != nil || info.Size() == 0 {
		return fmt.Errorf("%w: espeak produced no audio output, stderr: %s", tts.ErrSynthesisFailed, stderr.String())
	}

	return nil
}

// Voices enumerates the voices espeak-ng reports via --voices.
func (e *EspeakEngine) Voices() ([]tts.Voice, error) {
	e.mu.RLock()
	binary := e.binary
	closed := e.closed
	e.mu.RUnlock()

	if closed {
		return nil, tts.ErrEngineClosed
	}

	out, err := exec.Command(binary, "--voices").Output()
	if err != nil {
		return nil, fmt.Errorf("%w: could not enumerate voices: %v", tts.ErrEngineNotAvailable, err)
	}

	return parseEspeakVoices(out), nil
}

// parseEspeakVoices parses `espeak-ng --voices` output. Each line looks like:
//
//	Pty Language       Age/Gender VoiceName          File                 Other Languages
//	 5  en-US           M  english-us        gmw/en-US
func parseEspeakVoices(out []byte) []tts.Voice {
	var voices []tts.Voice

	lines := strings.Split(string(out), "\n")
	for i, line := range lines {
		if i == 0 || strings.TrimSpace(line) == "" {
			// Header or trailing blank.
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 5 {
			continue
		}

		gender := "neutral"
		switch {
		case strings.Contains(fields[2], "M"):
			gender = "male"
		case strings.Contains(fields[2], "F"):
			gender = "female"
		}

		voices = append(voices, tts.Voice{
			ID:       fields[4],
			Name:     fields[3],
			Language: fields[1],
			Gender:   gender,
		})
	}

	return voices
}

// SetVoice selects the active voice. Membership in the enumerated voice list
// is the facade's concern; the engine accepts any non-empty identifier.
func (e *EspeakEngine) SetVoice(id string) error {
	if id == "" {
		return fmt.Errorf("%w: empty voice id", tts.ErrVoiceNotFound)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.voice = id
	return nil
}

// SetRate sets the speaking rate in words per minute.
func (e *EspeakEngine) SetRate(wpm int) error {
	if err := tts.ValidateRate(wpm); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.rate = wpm
	return nil
}

// SetVolume sets the output volume, 0.0 to 1.0.
func (e *EspeakEngine) SetVolume(level float64) error {
	if err := tts.ValidateVolume(level); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.volume = level
	return nil
}

// Rate returns the current speaking rate.
func (e *EspeakEngine) Rate() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.rate
}

// Volume returns the current volume level.
func (e *EspeakEngine) Volume() float64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.volume
}

// Voice returns the current voice identifier.
func (e *EspeakEngine) Voice() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.voice
}

// OutputFormat returns the format espeak produces.
func (e *EspeakEngine) OutputFormat() tts.Format { return tts.FormatWAV }

// Capabilities describes what espeak supports.
func (e *EspeakEngine) Capabilities() tts.Capabilities {
	return tts.Capabilities{
		SupportsRate:    true,
		SupportsVolume:  true,
		SupportsVoices:  true,
		OutputFormats:   []tts.Format{tts.FormatWAV},
		RequiresNetwork: false,
	}
}

// Validate checks that the espeak binary is present and executable.
func (e *EspeakEngine) Validate() error {
	e.mu.RLock()
	binary := e.binary
	e.mu.RUnlock()

	path, err := exec.LookPath(binary)
	if err != nil {
		return fmt.Errorf("%w: %s not found in PATH: %v\n\nInstall espeak-ng to use the offline engine", tts.ErrEngineNotAvailable, binary, err)
	}

	if err := exec.Command(path, "--version").Run(); err != nil {
		return fmt.Errorf("%w: cannot execute %s: %v", tts.ErrEngineNotAvailable, binary, err)
	}

	return nil
}

// Close releases engine resources. Subsequent synthesis calls fail with
// tts.ErrEngineClosed.
func (e *EspeakEngine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
	return nil
}

// toInt converts option values that may arrive as int, int64, or float64
// (YAML and JSON decoders disagree on number types).
func toInt(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		return int(n), nil
	default:
		return 0, fmt.Errorf("expected integer, got %T", v)
	}
}

// toFloat converts option values that may arrive as float64 or int.
func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("expected number, got %T", v)
	}
}

// Ensure EspeakEngine implements the Engine interface
var _ tts.Engine = (*EspeakEngine)(nil)
