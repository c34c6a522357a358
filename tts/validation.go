package tts

import (
	"fmt"
	"path/filepath"
	"strings"
)

// supportedFormats is the closed set of audio container formats any engine
// may produce. The backends generate the bytes; this layer only checks the
// container is one it knows how to hand off.
var supportedFormats = map[Format]bool{
	FormatMP3:  true,
	FormatWAV:  true,
	FormatOGG:  true,
	FormatAIFF: true,
}

// ParseFormat normalizes a format name ("mp3", ".MP3", "Wav") to a Format.
func ParseFormat(name string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimPrefix(name, ".")))
	if !supportedFormats[f] {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
	}
	return f, nil
}

// FormatFromPath derives the audio format from a file path's extension.
func FormatFromPath(path string) (Format, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return "", fmt.Errorf("%w: %q has no extension", ErrUnsupportedFormat, path)
	}
	return ParseFormat(ext)
}

// ValidateRate checks that a speaking rate is a positive words-per-minute
// value.
func ValidateRate(wpm int) error {
	if wpm <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidRate, wpm)
	}
	return nil
}

// ValidateVolume checks that a volume level is within [0.0, 1.0].
func ValidateVolume(level float64) error {
	if level < 0.0 || level > 1.0 {
		return fmt.Errorf("%w: got %.2f", ErrInvalidVolume, level)
	}
	return nil
}

// ValidateOptions checks opts against a closed set of recognized keys.
// Unknown keys are rejected rather than silently ignored, so configuration
// typos fail loudly.
func ValidateOptions(opts Options, recognized ...string) error {
	for key := range opts {
		known := false
		for _, r := range recognized {
			if key == r {
				known = true
				break
			}
		}
		if !known {
			return fmt.Errorf("%w: %q (recognized: %s)",
				ErrUnknownOption, key, strings.Join(recognized, ", "))
		}
	}
	return nil
}
