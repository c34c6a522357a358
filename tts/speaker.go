// Package tts unifies an offline synthesizer and a cloud synthesis API
// behind one facade, with temp-file lifecycle management and playback glue.
// Synthesis, decoding, and playback are delegated to external backends; this
// package owns selection, validation, and cleanup.
package tts

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/dgnsrekt/ttskit/internal/cache"
	"github.com/dgnsrekt/ttskit/internal/scratch"
)

// Speaker is the public entry point: it dispatches to the selected engine,
// manages scratch files, and drives playback.
//
// A Speaker is not safe for concurrent use; callers invoking it from
// multiple goroutines must serialize access themselves.
type Speaker struct {
	cfg     Config
	engine  Engine
	player  Player
	scratch *scratch.Dir
	cache   *cache.Cache

	// state mirrors the engine options currently in effect, for cache keys.
	state map[string]string

	// lastVoices is the most recent Voices listing; SetVoice validates
	// against it.
	lastVoices []Voice

	closed bool
}

// New creates a Speaker using the engine named in cfg, resolved through reg.
// The player may be nil, in which case Speak fails with ErrPlaybackFailed;
// SaveToFile and the other operations still work.
func New(cfg Config, reg *Registry, player Player) (*Speaker, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	engine, err := reg.Create(cfg.Engine, cfg)
	if err != nil {
		return nil, err
	}

	opts := cfg.EngineOptions(cfg.Engine)
	if err := engine.Configure(opts); err != nil {
		return nil, err
	}

	scratchDir := cfg.ScratchDir
	if scratchDir == "" {
		scratchDir = DefaultScratchDir()
	}
	dir, err := scratch.New(scratchDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}
	log.Debug("scratch directory ready", "path", dir.Path())

	s := &Speaker{
		cfg:     cfg,
		engine:  engine,
		player:  player,
		scratch: dir,
		state:   make(map[string]string),
	}
	for k, v := range opts {
		s.state[k] = fmt.Sprint(v)
	}

	if cfg.Cache.Enabled {
		s.cache, err = openCache(cfg.Cache)
		if err != nil {
			// The cache is an optimization; a broken cache dir should not
			// take down synthesis.
			log.Warn("audio cache disabled", "error", err)
		}
	}

	return s, nil
}

// openCache builds the two-tier audio cache from configuration.
func openCache(cfg CacheConfig) (*cache.Cache, error) {
	dir := cfg.Dir
	if dir == "" {
		home, err := os.UserCacheDir()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve cache directory: %w", err)
		}
		dir = filepath.Join(home, "ttskit", "audio")
	}

	disk, err := cache.NewDiskCache(dir, int64(cfg.DiskCapacityMB)*1024*1024, cfg.CompressionLevel)
	if err != nil {
		return nil, err
	}

	return cache.New(cache.NewMemoryCache(cfg.MemoryCapacity), disk), nil
}

// Engine returns the active engine.
func (s *Speaker) Engine() Engine { return s.engine }

// ScratchDir returns the scratch directory in use.
func (s *Speaker) ScratchDir() string { return s.scratch.Path() }

// Speak synthesizes text into a scratch file, plays it, and releases the
// file on the way out regardless of playback outcome. Empty text is a no-op.
func (s *Speaker) Speak(ctx context.Context, text string) error {
	if s.closed {
		return ErrEngineClosed
	}
	if text == "" {
		return nil
	}

	path, err := s.synthesize(ctx, text, s.engine.OutputFormat())
	if err != nil {
		return err
	}
	// Scoped acquisition: the scratch file is released however playback
	// ends. Release retries transient locks and degrades to a warning.
	defer s.scratch.Release(path)

	if s.player == nil || !s.player.Available() {
		return fmt.Errorf("%w: %v", ErrPlaybackFailed, ErrPlayerNotAvailable)
	}

	playCtx := ctx
	if s.cfg.PlaybackTimeout > 0 {
		var cancel context.CancelFunc
		playCtx, cancel = context.WithTimeout(ctx, s.cfg.PlaybackTimeout)
		defer cancel()
	}

	if err := s.player.Play(playCtx, path); err != nil {
		return fmt.Errorf("%w: %v", ErrPlaybackFailed, err)
	}
	return nil
}

// SaveToFile synthesizes text and writes the result to dest. The format must
// be one the active engine supports; it is validated before synthesis. An
// empty format is inferred from dest's extension, falling back to the
// engine's native format (the extension is then appended to dest).
// Empty text is a no-op. The destination path is returned, which differs
// from dest only when an extension was appended.
func (s *Speaker) SaveToFile(ctx context.Context, text, dest, format string) (string, error) {
	if s.closed {
		return "", ErrEngineClosed
	}
	if text == "" {
		return dest, nil
	}

	var f Format
	var err error
	switch {
	case format != "":
		f, err = ParseFormat(format)
	case filepath.Ext(dest) != "":
		f, err = FormatFromPath(dest)
	default:
		f = s.engine.OutputFormat()
		dest += "." + string(f)
	}
	if err != nil {
		return "", err
	}

	// Fail fast before spending a synthesis call.
	if !s.engine.Capabilities().SupportsFormat(f) {
		return "", fmt.Errorf("%w: engine %q produces %v, not %q",
			ErrUnsupportedFormat, s.engine.Name(), s.engine.Capabilities().OutputFormats, f)
	}

	if dir := filepath.Dir(dest); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("%w: %v", ErrDestinationPath, err)
		}
	}

	path, err := s.synthesize(ctx, text, f)
	if err != nil {
		return "", err
	}
	defer s.scratch.Release(path)

	if err := moveFile(path, dest); err != nil {
		return "", fmt.Errorf("%w: %v", ErrDestinationPath, err)
	}

	log.Debug("saved synthesis output", "dest", dest, "format", f)
	return dest, nil
}

// Voices lists the voices the active engine can enumerate and remembers the
// listing for SetVoice validation.
func (s *Speaker) Voices() ([]Voice, error) {
	if s.closed {
		return nil, ErrEngineClosed
	}

	voices, err := s.engine.Voices()
	if err != nil {
		return nil, err
	}
	s.lastVoices = voices
	return voices, nil
}

// SetVoice selects the active voice. The id must appear in the most recent
// Voices listing (fetched on demand if there is none); otherwise SetVoice
// fails with ErrVoiceNotFound and the current voice is left untouched.
func (s *Speaker) SetVoice(id string) error {
	if s.closed {
		return ErrEngineClosed
	}

	if s.lastVoices == nil {
		if _, err := s.Voices(); err != nil {
			return err
		}
	}

	found := false
	for _, v := range s.lastVoices {
		if v.ID == id {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("%w: %q", ErrVoiceNotFound, id)
	}

	if err := s.engine.SetVoice(id); err != nil {
		return err
	}
	s.state["voice"] = id
	return nil
}

// SetRate sets the speaking rate in words per minute.
func (s *Speaker) SetRate(wpm int) error {
	if s.closed {
		return ErrEngineClosed
	}
	if err := s.engine.SetRate(wpm); err != nil {
		return err
	}
	s.state["rate"] = fmt.Sprint(wpm)
	return nil
}

// SetVolume sets the output volume, 0.0 to 1.0.
func (s *Speaker) SetVolume(level float64) error {
	if s.closed {
		return ErrEngineClosed
	}
	if err := s.engine.SetVolume(level); err != nil {
		return err
	}
	s.state["volume"] = fmt.Sprint(level)
	return nil
}

// Configure applies engine options through the facade.
func (s *Speaker) Configure(opts Options) error {
	if s.closed {
		return ErrEngineClosed
	}
	if err := s.engine.Configure(opts); err != nil {
		return err
	}
	for k, v := range opts {
		s.state[k] = fmt.Sprint(v)
	}
	return nil
}

// CacheStats returns cache statistics, or false when caching is disabled.
func (s *Speaker) CacheStats() (cache.Stats, bool) {
	if s.cache == nil {
		return cache.Stats{}, false
	}
	return s.cache.Stats(), true
}

// ClearCache empties the audio cache.
func (s *Speaker) ClearCache() error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Clear()
}

// Close releases the engine, purges the scratch directory, and closes the
// cache. The Speaker is unusable afterwards.
func (s *Speaker) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	s.scratch.Purge()
	if s.cache != nil {
		s.cache.Close()
	}

	if err := s.engine.Close(); err != nil {
		return fmt.Errorf("failed to close engine: %w", err)
	}
	return nil
}

// synthesize produces audio for text in the given format at a freshly
// allocated scratch path, consulting the cache first when enabled.
func (s *Speaker) synthesize(ctx context.Context, text string, format Format) (string, error) {
	path := s.scratch.Allocate(string(format))

	var key string
	if s.cache != nil {
		key = cache.Key(s.engine.Name(), append(s.stateParts(), string(format), text)...)
		if data, ok := s.cache.Get(key); ok {
			log.Debug("audio cache hit", "chars", len(text))
			if err := os.WriteFile(path, data, 0o644); err == nil {
				return path, nil
			}
			// Fall through to a fresh synthesis on write failure.
		}
	}

	if err := s.engine.Synthesize(ctx, text, path); err != nil {
		s.scratch.Release(path)
		return "", err
	}

	if s.cache != nil {
		if data, err := os.ReadFile(path); err == nil {
			s.cache.Put(key, data)
		}
	}

	return path, nil
}

// stateParts renders the current engine option state as a deterministic
// slice for cache keying.
func (s *Speaker) stateParts() []string {
	keys := make([]string, 0, len(s.state))
	for k := range s.state {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+s.state[k])
	}
	return parts
}

// moveFile moves src to dest, falling back to copy+delete across
// filesystems.
func moveFile(src, dest string) error {
	if err := os.Rename(src, dest); err == nil {
		return nil
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close() //nolint:errcheck

	out, err := os.Create(dest)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close() //nolint:errcheck
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}

	return os.Remove(src)
}

// Describe returns a short human-readable summary of the active engine, for
// CLI status output.
func (s *Speaker) Describe() string {
	caps := s.engine.Capabilities()
	formats := make([]string, len(caps.OutputFormats))
	for i, f := range caps.OutputFormats {
		formats[i] = string(f)
	}

	kind := "offline"
	if caps.RequiresNetwork {
		kind = "cloud"
	}
	return fmt.Sprintf("%s (%s, %s)", s.engine.Name(), kind, strings.Join(formats, "/"))
}
