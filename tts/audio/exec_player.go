package audio

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"runtime"

	"github.com/charmbracelet/log"
)

// CommandPlayer plays audio files by shelling out to the first working
// command-line player on the system. It is the fallback when the oto path
// is unavailable (no CGo, no ffmpeg, or no usable sound device through it).
type CommandPlayer struct{}

// NewCommandPlayer creates a command-line fallback player.
func NewCommandPlayer() *CommandPlayer {
	return &CommandPlayer{}
}

// candidatePlayers lists known players in preference order for the current
// platform. Each entry takes the file path as its final argument.
func candidatePlayers() [][]string {
	if runtime.GOOS == "darwin" {
		return [][]string{
			{"afplay"},
			{"ffplay", "-nodisp", "-autoexit", "-loglevel", "quiet"},
			{"play", "-q"},
		}
	}
	return [][]string{
		{"paplay"},
		{"aplay", "-q"},
		{"mpg123", "-q"},
		{"ffplay", "-nodisp", "-autoexit", "-loglevel", "quiet"},
		{"play", "-q"},
	}
}

// Available reports whether at least one known player binary is installed.
func (p *CommandPlayer) Available() bool {
	for _, candidate := range candidatePlayers() {
		if _, err := exec.LookPath(candidate[0]); err == nil {
			return true
		}
	}
	return false
}

// Play runs each candidate player in order until one succeeds, blocking
// until playback finishes. Players that are missing, or that reject the
// file's format (aplay cannot play MP3, mpg123 cannot play WAV), are skipped.
func (p *CommandPlayer) Play(ctx context.Context, path string) error {
	var lastErr error

	for _, candidate := range candidatePlayers() {
		bin, err := exec.LookPath(candidate[0])
		if err != nil {
			continue
		}

		args := append(candidate[1:], path) //nolint:gocritic
		cmd := exec.CommandContext(ctx, bin, args...)

		var stderr bytes.Buffer
		cmd.Stderr = &stderr

		log.Debug("playback via command player", "player", candidate[0], "path", path)

		if err := cmd.Run(); err != nil {
			if ctx.Err() != nil {
				return fmt.Errorf("playback cancelled: %w", ctx.Err())
			}
			lastErr = fmt.Errorf("%s failed: %w, stderr: %s", candidate[0], err, stderr.String())
			continue
		}
		return nil
	}

	if lastErr != nil {
		return lastErr
	}
	return fmt.Errorf("no audio player found: install one of afplay, paplay, aplay, mpg123, ffplay, or sox")
}
