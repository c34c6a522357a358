package engines

import "github.com/dgnsrekt/ttskit/tts"

// DefaultRegistry returns a registry with both built-in engines registered:
// "espeak" (offline) and "gtts" (cloud).
func DefaultRegistry() *tts.Registry {
	reg := tts.NewRegistry()
	reg.Register("espeak", func(cfg tts.Config) (tts.Engine, error) {
		return NewEspeakEngine(cfg.Espeak)
	})
	reg.Register("gtts", func(cfg tts.Config) (tts.Engine, error) {
		return NewGTTSEngine(cfg.GTTS)
	})
	return reg
}
