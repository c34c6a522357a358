// Package engines provides the text-to-speech backend adapters.
//
// Two backends are supported: espeak-ng, a locally-installed synthesizer
// driven as a subprocess, and Google Translate TTS, a network API. Both
// implement the tts.Engine interface; capabilities a backend does not offer
// (voice enumeration and rate/volume control for the cloud backend) return
// tts.ErrUnsupportedOperation.
package engines
