package tts

import (
	"errors"
	"fmt"
	"testing"
)

// TestIsRecoverableError tests the recoverable/fatal split: errors that leave
// the Speaker usable versus ones that mean the instance should be discarded.
func TestIsRecoverableError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, true},
		{"storage", ErrStorage, false},
		{"engine not found", ErrEngineNotFound, false},
		{"engine closed", ErrEngineClosed, false},
		{"invalid config", ErrInvalidConfig, false},
		{"wrapped invalid config", fmt.Errorf("%w: engine must not be empty", ErrInvalidConfig), false},
		{"synthesis failure", ErrSynthesisFailed, true},
		{"playback failure", fmt.Errorf("%w: device busy", ErrPlaybackFailed), true},
		{"voice not found", ErrVoiceNotFound, true},
		{"unsupported format", ErrUnsupportedFormat, true},
		{"unrelated error", errors.New("boom"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRecoverableError(tt.err); got != tt.want {
				t.Errorf("IsRecoverableError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
