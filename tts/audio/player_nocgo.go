//go:build nocgo
// +build nocgo

package audio

// NewPlayer creates the default player for CGo-less builds: the
// command-line fallback only.
func NewPlayer() *CommandPlayer {
	return NewCommandPlayer()
}
