package tts

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/text/language"
)

// Config contains all TTS configuration options.
type Config struct {
	// Engine selection
	Engine string `yaml:"engine" env:"TTSKIT_ENGINE"`

	// ScratchDir is the directory for transient synthesis output. Empty
	// selects a platform-appropriate default under os.TempDir().
	ScratchDir string `yaml:"scratch_dir" env:"TTSKIT_SCRATCH_DIR"`

	// Playback settings
	PlaybackTimeout time.Duration `yaml:"playback_timeout" env:"TTSKIT_PLAYBACK_TIMEOUT"`

	// Engine-specific configurations
	Espeak EspeakConfig `yaml:"espeak"`
	GTTS   GTTSConfig   `yaml:"gtts"`

	// Cache settings
	Cache CacheConfig `yaml:"cache"`
}

// EspeakConfig contains settings for the offline espeak-ng engine.
type EspeakConfig struct {
	Binary  string        `yaml:"binary" env:"TTSKIT_ESPEAK_BINARY"`
	Voice   string        `yaml:"voice" env:"TTSKIT_ESPEAK_VOICE"`
	Rate    int           `yaml:"rate" env:"TTSKIT_ESPEAK_RATE"`
	Volume  float64       `yaml:"volume" env:"TTSKIT_ESPEAK_VOLUME"`
	Timeout time.Duration `yaml:"timeout" env:"TTSKIT_ESPEAK_TIMEOUT"`
}

// GTTSConfig contains settings for the cloud Google Translate TTS engine.
type GTTSConfig struct {
	Language          string        `yaml:"language" env:"TTSKIT_GTTS_LANGUAGE"`
	TLD               string        `yaml:"tld" env:"TTSKIT_GTTS_TLD"`
	Slow              bool          `yaml:"slow" env:"TTSKIT_GTTS_SLOW"`
	Timeout           time.Duration `yaml:"timeout" env:"TTSKIT_GTTS_TIMEOUT"`
	RequestsPerMinute int           `yaml:"requests_per_minute" env:"TTSKIT_GTTS_REQUESTS_PER_MINUTE"`
}

// CacheConfig contains settings for the synthesized-audio cache.
type CacheConfig struct {
	Enabled          bool   `yaml:"enabled" env:"TTSKIT_CACHE_ENABLED"`
	Dir              string `yaml:"dir" env:"TTSKIT_CACHE_DIR"`
	MemoryCapacity   int    `yaml:"memory_capacity" env:"TTSKIT_CACHE_MEMORY_CAPACITY"`
	DiskCapacityMB   int    `yaml:"disk_capacity_mb" env:"TTSKIT_CACHE_DISK_CAPACITY_MB"`
	CompressionLevel int    `yaml:"compression_level" env:"TTSKIT_CACHE_COMPRESSION_LEVEL"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Engine:          "espeak",
		ScratchDir:      DefaultScratchDir(),
		PlaybackTimeout: 5 * time.Minute,
		Espeak:          DefaultEspeakConfig(),
		GTTS:            DefaultGTTSConfig(),
		Cache:           DefaultCacheConfig(),
	}
}

// DefaultEspeakConfig returns default espeak-ng configuration.
func DefaultEspeakConfig() EspeakConfig {
	return EspeakConfig{
		Binary:  "espeak-ng",
		Rate:    175,
		Volume:  1.0,
		Timeout: 30 * time.Second,
	}
}

// DefaultGTTSConfig returns default Google Translate TTS configuration.
func DefaultGTTSConfig() GTTSConfig {
	return GTTSConfig{
		Language:          "en",
		TLD:               "com",
		Slow:              false,
		Timeout:           30 * time.Second,
		RequestsPerMinute: 50,
	}
}

// DefaultCacheConfig returns default cache configuration. Caching is off
// unless the caller opts in.
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled:          false,
		MemoryCapacity:   32,
		DiskCapacityMB:   100,
		CompressionLevel: 3,
	}
}

// DefaultScratchDir returns the default scratch directory for transient
// audio files.
func DefaultScratchDir() string {
	return filepath.Join(os.TempDir(), "ttskit-audio")
}

// Validate checks the configuration for invalid values.
func (c Config) Validate() error {
	if c.Engine == "" {
		return fmt.Errorf("%w: engine must not be empty", ErrInvalidConfig)
	}

	if err := c.Espeak.Validate(); err != nil {
		return err
	}
	if err := c.GTTS.Validate(); err != nil {
		return err
	}
	return c.Cache.Validate()
}

// Validate checks the espeak configuration.
func (c EspeakConfig) Validate() error {
	if c.Rate <= 0 {
		return fmt.Errorf("%w: espeak rate %d", ErrInvalidRate, c.Rate)
	}
	if c.Volume < 0.0 || c.Volume > 1.0 {
		return fmt.Errorf("%w: espeak volume %.2f", ErrInvalidVolume, c.Volume)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("%w: espeak timeout must be positive", ErrInvalidConfig)
	}
	return nil
}

// Validate checks the gtts configuration.
func (c GTTSConfig) Validate() error {
	if _, err := language.Parse(c.Language); err != nil {
		return fmt.Errorf("%w: gtts language %q: %v", ErrInvalidConfig, c.Language, err)
	}
	if c.TLD == "" {
		return fmt.Errorf("%w: gtts tld must not be empty", ErrInvalidConfig)
	}
	if c.RequestsPerMinute <= 0 {
		return fmt.Errorf("%w: gtts requests_per_minute must be positive", ErrInvalidConfig)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("%w: gtts timeout must be positive", ErrInvalidConfig)
	}
	return nil
}

// Validate checks the cache configuration.
func (c CacheConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.MemoryCapacity < 0 {
		return fmt.Errorf("%w: cache memory_capacity must not be negative", ErrInvalidConfig)
	}
	if c.DiskCapacityMB <= 0 {
		return fmt.Errorf("%w: cache disk_capacity_mb must be positive", ErrInvalidConfig)
	}
	if c.CompressionLevel < 0 || c.CompressionLevel > 22 {
		return fmt.Errorf("%w: cache compression_level %d outside 0-22", ErrInvalidConfig, c.CompressionLevel)
	}
	return nil
}

// EngineOptions builds the Options map for the named engine from the
// structured configuration. The result passes each engine's recognized-key
// validation by construction.
func (c Config) EngineOptions(engine string) Options {
	switch engine {
	case "espeak":
		opts := Options{
			"rate":   c.Espeak.Rate,
			"volume": c.Espeak.Volume,
		}
		if c.Espeak.Voice != "" {
			opts["voice"] = c.Espeak.Voice
		}
		return opts
	case "gtts":
		return Options{
			"lang": c.GTTS.Language,
			"tld":  c.GTTS.TLD,
			"slow": c.GTTS.Slow,
		}
	default:
		return Options{}
	}
}
