package tts

import (
	"fmt"

	"github.com/spf13/viper"
)

// LoadConfigFromViper loads TTS configuration from Viper. Values not present
// in Viper keep their defaults.
func LoadConfigFromViper() (Config, error) {
	cfg := DefaultConfig()

	if viper.IsSet("engine") {
		cfg.Engine = viper.GetString("engine")
	}
	if viper.IsSet("scratch_dir") {
		cfg.ScratchDir = viper.GetString("scratch_dir")
	}
	if viper.IsSet("playback_timeout") {
		cfg.PlaybackTimeout = viper.GetDuration("playback_timeout")
	}

	cfg.Espeak = loadEspeakConfig()
	cfg.GTTS = loadGTTSConfig()
	cfg.Cache = loadCacheConfig()

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid TTS configuration: %w", err)
	}

	return cfg, nil
}

// loadEspeakConfig loads espeak-specific configuration from Viper.
func loadEspeakConfig() EspeakConfig {
	cfg := DefaultEspeakConfig()

	if viper.IsSet("espeak.binary") {
		cfg.Binary = viper.GetString("espeak.binary")
	}
	if viper.IsSet("espeak.voice") {
		cfg.Voice = viper.GetString("espeak.voice")
	}
	if viper.IsSet("espeak.rate") {
		cfg.Rate = viper.GetInt("espeak.rate")
	}
	if viper.IsSet("espeak.volume") {
		cfg.Volume = viper.GetFloat64("espeak.volume")
	}
	if viper.IsSet("espeak.timeout") {
		cfg.Timeout = viper.GetDuration("espeak.timeout")
	}

	return cfg
}

// loadGTTSConfig loads gtts-specific configuration from Viper.
func loadGTTSConfig() GTTSConfig {
	cfg := DefaultGTTSConfig()

	if viper.IsSet("gtts.language") {
		cfg.Language = viper.GetString("gtts.language")
	}
	if viper.IsSet("gtts.tld") {
		cfg.TLD = viper.GetString("gtts.tld")
	}
	if viper.IsSet("gtts.slow") {
		cfg.Slow = viper.GetBool("gtts.slow")
	}
	if viper.IsSet("gtts.timeout") {
		cfg.Timeout = viper.GetDuration("gtts.timeout")
	}
	if viper.IsSet("gtts.requests_per_minute") {
		cfg.RequestsPerMinute = viper.GetInt("gtts.requests_per_minute")
	}

	return cfg
}

// loadCacheConfig loads cache configuration from Viper.
func loadCacheConfig() CacheConfig {
	cfg := DefaultCacheConfig()

	if viper.IsSet("cache.enabled") {
		cfg.Enabled = viper.GetBool("cache.enabled")
	}
	if viper.IsSet("cache.dir") {
		cfg.Dir = viper.GetString("cache.dir")
	}
	if viper.IsSet("cache.memory_capacity") {
		cfg.MemoryCapacity = viper.GetInt("cache.memory_capacity")
	}
	if viper.IsSet("cache.disk_capacity_mb") {
		cfg.DiskCapacityMB = viper.GetInt("cache.disk_capacity_mb")
	}
	if viper.IsSet("cache.compression_level") {
		cfg.CompressionLevel = viper.GetInt("cache.compression_level")
	}

	return cfg
}
