package tts

import (
	"errors"
	"testing"
)

// TestParseFormat tests normalization and the closed format set.
func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"mp3", FormatMP3, false},
		{".mp3", FormatMP3, false},
		{"MP3", FormatMP3, false},
		{"Wav", FormatWAV, false},
		{"ogg", FormatOGG, false},
		{"aiff", FormatAIFF, false},
		{"flac", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrUnsupportedFormat) {
					t.Errorf("ParseFormat(%q) = %v, want ErrUnsupportedFormat", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseFormat(%q) failed: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

// TestFormatFromPath tests extension-based inference.
func TestFormatFromPath(t *testing.T) {
	got, err := FormatFromPath("/tmp/out.OGG")
	if err != nil {
		t.Fatalf("FormatFromPath failed: %v", err)
	}
	if got != FormatOGG {
		t.Errorf("got %q, want ogg", got)
	}

	if _, err := FormatFromPath("/tmp/noext"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("extensionless path: got %v, want ErrUnsupportedFormat", err)
	}
}

// TestValidateRate tests the positive-rate requirement.
func TestValidateRate(t *testing.T) {
	if err := ValidateRate(175); err != nil {
		t.Errorf("ValidateRate(175) = %v, want nil", err)
	}
	for _, wpm := range []int{0, -1} {
		if err := ValidateRate(wpm); !errors.Is(err, ErrInvalidRate) {
			t.Errorf("ValidateRate(%d) = %v, want ErrInvalidRate", wpm, err)
		}
	}
}

// TestValidateVolume tests the [0, 1] bound.
func TestValidateVolume(t *testing.T) {
	for _, v := range []float64{0.0, 0.5, 1.0} {
		if err := ValidateVolume(v); err != nil {
			t.Errorf("ValidateVolume(%v) = %v, want nil", v, err)
		}
	}
	for _, v := range []float64{-0.01, 1.01} {
		if err := ValidateVolume(v); !errors.Is(err, ErrInvalidVolume) {
			t.Errorf("ValidateVolume(%v) = %v, want ErrInvalidVolume", v, err)
		}
	}
}

// TestValidateOptions tests the closed-key-set check.
func TestValidateOptions(t *testing.T) {
	opts := Options{"rate": 150, "volume": 0.5}
	if err := ValidateOptions(opts, "rate", "volume", "voice"); err != nil {
		t.Errorf("recognized keys rejected: %v", err)
	}

	err := ValidateOptions(Options{"pitch": 2}, "rate", "volume")
	if !errors.Is(err, ErrUnknownOption) {
		t.Errorf("got %v, want ErrUnknownOption", err)
	}

	if err := ValidateOptions(Options{}, "rate"); err != nil {
		t.Errorf("empty options rejected: %v", err)
	}
}

// TestCapabilitiesSupportsFormat tests the helper.
func TestCapabilitiesSupportsFormat(t *testing.T) {
	caps := Capabilities{OutputFormats: []Format{FormatWAV, FormatOGG}}
	if !caps.SupportsFormat(FormatWAV) {
		t.Error("wav should be supported")
	}
	if caps.SupportsFormat(FormatMP3) {
		t.Error("mp3 should not be supported")
	}
}
