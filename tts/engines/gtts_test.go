package engines

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dgnsrekt/ttskit/tts"
)

// fastGTTSConfig returns a config whose rate limiter will not slow tests.
func fastGTTSConfig() tts.GTTSConfig {
	cfg := tts.DefaultGTTSConfig()
	cfg.RequestsPerMinute = 100000
	cfg.Timeout = 5 * time.Second
	return cfg
}

func newTestGTTSEngine(t *testing.T, handler http.HandlerFunc) (*GTTSEngine, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	e, err := NewGTTSEngine(fastGTTSConfig())
	if err != nil {
		t.Fatalf("NewGTTSEngine failed: %v", err)
	}
	e.endpoint = server.URL

	return e, server
}

// TestGTTSSynthesize tests the request parameters and output file.
func TestGTTSSynthesize(t *testing.T) {
	var gotQuery map[string][]string

	e, _ := newTestGTTSEngine(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "audio/mpeg")
		_, _ = w.Write([]byte("\xff\xfbMP3FRAME"))
	})

	outPath := filepath.Join(t.TempDir(), "out.mp3")
	if err := e.Synthesize(context.Background(), "hello world", outPath); err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("output file not written: %v", err)
	}
	if len(data) == 0 {
		t.Error("output file is empty")
	}

	if got := gotQuery["q"]; len(got) != 1 || got[0] != "hello world" {
		t.Errorf("q param = %v, want [hello world]", got)
	}
	if got := gotQuery["tl"]; len(got) != 1 || got[0] != "en" {
		t.Errorf("tl param = %v, want [en]", got)
	}
	if got := gotQuery["client"]; len(got) != 1 || got[0] != "tw-ob" {
		t.Errorf("client param = %v, want [tw-ob]", got)
	}
	if got := gotQuery["ttsspeed"]; len(got) != 1 || got[0] != "1" {
		t.Errorf("ttsspeed param = %v, want [1]", got)
	}
}

// TestGTTSSlowSpeed tests that the slow option changes the ttsspeed param.
func TestGTTSSlowSpeed(t *testing.T) {
	var speed string

	e, _ := newTestGTTSEngine(t, func(w http.ResponseWriter, r *http.Request) {
		speed = r.URL.Query().Get("ttsspeed")
		_, _ = w.Write([]byte("mp3"))
	})

	if err := e.Configure(tts.Options{"slow": true}); err != nil {
		t.Fatalf("Configure failed: %v", err)
	}

	outPath := filepath.Join(t.TempDir(), "out.mp3")
	if err := e.Synthesize(context.Background(), "hello", outPath); err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}

	if speed != "0.3" {
		t.Errorf("ttsspeed = %q, want 0.3", speed)
	}
}

// TestGTTSChunking tests that long text is split into multiple requests and
// the MP3 segments concatenated.
func TestGTTSChunking(t *testing.T) {
	var requests int

	e, _ := newTestGTTSEngine(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
		if q := r.URL.Query().Get("q"); len(q) > gttsMaxChunkLen {
			t.Errorf("chunk of %d chars exceeds %d", len(q), gttsMaxChunkLen)
		}
		_, _ = w.Write([]byte("seg."))
	})

	// Four sentences of ~60 chars cannot fit a 100-char chunk together.
	sentence := "This sentence is approximately sixty characters in length. "
	text := strings.Repeat(sentence, 4)

	outPath := filepath.Join(t.TempDir(), "out.mp3")
	if err := e.Synthesize(context.Background(), text, outPath); err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}

	if requests < 2 {
		t.Errorf("expected multiple chunk requests, got %d", requests)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("output file not written: %v", err)
	}
	if len(data) != requests*4 {
		t.Errorf("output size %d, want %d (concatenated segments)", len(data), requests*4)
	}
}

// TestGTTSBackendFailure tests that HTTP errors surface as SynthesisError.
func TestGTTSBackendFailure(t *testing.T) {
	e, _ := newTestGTTSEngine(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "blocked", http.StatusForbidden)
	})

	err := e.Synthesize(context.Background(), "hello", filepath.Join(t.TempDir(), "out.mp3"))
	if !errors.Is(err, tts.ErrSynthesisFailed) {
		t.Errorf("got %v, want ErrSynthesisFailed", err)
	}
}

// TestGTTSEmptyText tests the empty-input error.
func TestGTTSEmptyText(t *testing.T) {
	e, err := NewGTTSEngine(fastGTTSConfig())
	if err != nil {
		t.Fatalf("NewGTTSEngine failed: %v", err)
	}

	err = e.Synthesize(context.Background(), "", "out.mp3")
	if !errors.Is(err, tts.ErrSynthesisFailed) {
		t.Errorf("got %v, want ErrSynthesisFailed", err)
	}
}

// TestGTTSTextTooLong tests the overall length limit.
func TestGTTSTextTooLong(t *testing.T) {
	e, err := NewGTTSEngine(fastGTTSConfig())
	if err != nil {
		t.Fatalf("NewGTTSEngine failed: %v", err)
	}

	err = e.Synthesize(context.Background(), strings.Repeat("a", gttsMaxTextLen+1), "out.mp3")
	if !errors.Is(err, tts.ErrTextTooLong) {
		t.Errorf("got %v, want ErrTextTooLong", err)
	}
}

// TestGTTSUnsupportedOperations tests that rate, volume, and voice controls
// are rejected.
func TestGTTSUnsupportedOperations(t *testing.T) {
	e, err := NewGTTSEngine(fastGTTSConfig())
	if err != nil {
		t.Fatalf("NewGTTSEngine failed: %v", err)
	}

	if err := e.SetRate(150); !errors.Is(err, tts.ErrUnsupportedOperation) {
		t.Errorf("SetRate = %v, want ErrUnsupportedOperation", err)
	}
	if err := e.SetVolume(0.5); !errors.Is(err, tts.ErrUnsupportedOperation) {
		t.Errorf("SetVolume = %v, want ErrUnsupportedOperation", err)
	}
	if err := e.SetVoice("en"); !errors.Is(err, tts.ErrUnsupportedOperation) {
		t.Errorf("SetVoice = %v, want ErrUnsupportedOperation", err)
	}
	if _, err := e.Voices(); !errors.Is(err, tts.ErrUnsupportedOperation) {
		t.Errorf("Voices = %v, want ErrUnsupportedOperation", err)
	}
}

// TestGTTSConfigure tests option validation.
func TestGTTSConfigure(t *testing.T) {
	e, err := NewGTTSEngine(fastGTTSConfig())
	if err != nil {
		t.Fatalf("NewGTTSEngine failed: %v", err)
	}

	if err := e.Configure(tts.Options{"lang": "fr", "tld": "fr", "slow": true}); err != nil {
		t.Fatalf("Configure failed: %v", err)
	}
	if e.Language() != "fr" || !e.Slow() {
		t.Errorf("options not applied: lang=%q slow=%v", e.Language(), e.Slow())
	}

	if err := e.Configure(tts.Options{"rate": 150}); !errors.Is(err, tts.ErrUnknownOption) {
		t.Errorf("unknown key accepted: %v", err)
	}
	if err := e.Configure(tts.Options{"lang": "not a lang tag !!"}); !errors.Is(err, tts.ErrInvalidConfig) {
		t.Errorf("invalid lang accepted: %v", err)
	}
}

// TestGTTSCapabilities tests the advertised capability set.
func TestGTTSCapabilities(t *testing.T) {
	e, err := NewGTTSEngine(fastGTTSConfig())
	if err != nil {
		t.Fatalf("NewGTTSEngine failed: %v", err)
	}

	caps := e.Capabilities()
	if caps.SupportsRate || caps.SupportsVolume || caps.SupportsVoices {
		t.Error("gtts should not claim rate/volume/voice support")
	}
	if !caps.RequiresNetwork {
		t.Error("gtts is a network engine")
	}
	if !caps.SupportsFormat(tts.FormatMP3) {
		t.Error("gtts should produce mp3")
	}
}
