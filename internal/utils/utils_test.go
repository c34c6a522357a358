package utils

import (
	"path/filepath"
	"testing"
)

func TestExpandPathTilde(t *testing.T) {
	got := ExpandPath("~/clips")
	if !filepath.IsAbs(got) {
		t.Errorf("ExpandPath(~/clips) = %q, want absolute path", got)
	}
	if filepath.Base(got) != "clips" {
		t.Errorf("ExpandPath(~/clips) = %q, want .../clips", got)
	}
}

func TestExpandPathEnv(t *testing.T) {
	t.Setenv("TTSKIT_TEST_DIR", "/opt/audio")
	if got := ExpandPath("$TTSKIT_TEST_DIR/out"); got != "/opt/audio/out" {
		t.Errorf("got %q, want /opt/audio/out", got)
	}
}

func TestExpandPathRelative(t *testing.T) {
	got := ExpandPath("clips/out.wav")
	if !filepath.IsAbs(got) {
		t.Errorf("relative path not absolutized: %q", got)
	}
}
