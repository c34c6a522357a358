package tts

import "errors"

// Common errors for the TTS system.
var (
	// Storage errors
	ErrStorage         = errors.New("scratch directory is not usable")
	ErrDestinationPath = errors.New("destination path is not writable")

	// Engine errors
	ErrEngineNotFound       = errors.New("requested TTS engine is not registered")
	ErrEngineNotAvailable   = errors.New("TTS engine is not available")
	ErrEngineClosed         = errors.New("engine has been closed")
	ErrSynthesisFailed      = errors.New("speech synthesis failed")
	ErrUnsupportedOperation = errors.New("operation not supported by the selected engine")
	ErrVoiceNotFound        = errors.New("requested voice not found")

	// Playback errors
	ErrPlaybackFailed     = errors.New("audio playback failed")
	ErrPlayerNotAvailable = errors.New("no audio playback mechanism available")

	// Configuration errors
	ErrInvalidConfig     = errors.New("invalid configuration")
	ErrUnknownOption     = errors.New("unknown engine option")
	ErrInvalidRate       = errors.New("speech rate must be a positive integer")
	ErrInvalidVolume     = errors.New("volume must be between 0.0 and 1.0")
	ErrUnsupportedFormat = errors.New("audio format not supported by the selected engine")

	// Input errors
	ErrTextTooLong = errors.New("text exceeds the engine's maximum length")
)

// IsRecoverableError checks if an error is recoverable. Recoverable errors
// leave the Speaker usable for further calls; non-recoverable ones mean the
// instance should be discarded.
func IsRecoverableError(err error) bool {
	if err == nil {
		return true
	}

	switch {
	case errors.Is(err, ErrStorage),
		errors.Is(err, ErrEngineNotFound),
		errors.Is(err, ErrEngineClosed),
		errors.Is(err, ErrInvalidConfig):
		return false
	}

	// Most errors are recoverable
	return true
}
