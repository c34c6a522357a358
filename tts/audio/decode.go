// Package audio provides audio playback for synthesized speech files.
//
// Two playback paths exist: an oto-based PCM path (ffmpeg decodes the
// container, oto drives the sound device) and a fallback that shells out to
// whatever command-line player the system has. Both block until the audio
// has finished, which is what the speak flow needs before it can release
// the scratch file.
package audio

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// PCM format used on the oto path. Everything is resampled to this so one
// audio context serves every container format.
const (
	SampleRate = 44100
	Channels   = 1
)

// decodeTimeout bounds the ffmpeg run; decoding is far faster than realtime
// so even long clips finish well inside this.
const decodeTimeout = 15 * time.Second

// DecodeToPCM converts the audio file at path to signed 16-bit little-endian
// PCM at SampleRate/Channels using ffmpeg. The container format (MP3, WAV,
// OGG, AIFF) is detected by ffmpeg itself.
func DecodeToPCM(ctx context.Context, path string) ([]byte, error) {
	ffmpeg, err := exec.LookPath("ffmpeg")
	if err != nil {
		return nil, fmt.Errorf("ffmpeg not found in PATH: %w", err)
	}

	args := []string{
		"-i", path,
		"-f", "s16le",
		"-ar", strconv.Itoa(SampleRate),
		"-ac", strconv.Itoa(Channels),
		"-", // stdout
	}

	ctx, cancel := context.WithTimeout(ctx, decodeTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, ffmpeg, args...)
	cmd.Stdin = strings.NewReader("")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("decode timeout: %w", ctx.Err())
		}
		return nil, fmt.Errorf("ffmpeg failed: %w, stderr: %s", err, stderr.String())
	}

	pcm := stdout.Bytes()
	if len(pcm) == 0 {
		return nil, fmt.Errorf("ffmpeg produced no PCM output, stderr: %s", stderr.String())
	}

	return pcm, nil
}
