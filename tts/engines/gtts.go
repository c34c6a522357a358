package engines

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dgnsrekt/ttskit/tts"
	"golang.org/x/text/language"
	"golang.org/x/time/rate"
)

// GTTS option keys recognized by Configure.
const (
	gttsOptLang = "lang"
	gttsOptTLD  = "tld"
	gttsOptSlow = "slow"
)

// The translate_tts endpoint caps each request at 100 characters of text;
// longer input is chunked and the MP3 segments concatenated. MP3 frames are
// self-contained, so straight concatenation plays correctly.
const gttsMaxChunkLen = 100

// Overall text limit per synthesis call, to keep request counts bounded.
const gttsMaxTextLen = 5000

const gttsUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"

// GTTSEngine implements the tts.Engine interface using the Google Translate
// text-to-speech endpoint: free, no API key, MP3 output. It is a network
// backend, so requests are rate-limited to avoid being blocked, and it
// exposes no voice catalog or rate/volume controls — only lang, tld, and
// slow are configurable.
type GTTSEngine struct {
	// Configuration
	lang string
	tld  string
	slow bool

	// Transport
	httpClient *http.Client
	endpoint   string // override for tests; empty uses translate.google.<tld>

	// Rate limiting to avoid being blocked by Google
	limiter *rate.Limiter

	// Synchronization
	mu     sync.RWMutex
	closed bool
}

// NewGTTSEngine creates a new Google Translate TTS engine.
func NewGTTSEngine(config tts.GTTSConfig) (*GTTSEngine, error) {
	if config.Language == "" {
		config.Language = "en"
	}
	if config.TLD == "" {
		config.TLD = "com"
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	if config.RequestsPerMinute == 0 {
		config.RequestsPerMinute = 50
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &GTTSEngine{
		lang: config.Language,
		tld:  config.TLD,
		slow: config.Slow,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(config.RequestsPerMinute)), 1),
	}, nil
}

// Name returns the registry name of the engine.
func (e *GTTSEngine) Name() string { return "gtts" }

// Configure applies gtts options. Recognized keys: lang, tld, slow.
func (e *GTTSEngine) Configure(opts tts.Options) error {
	if err := tts.ValidateOptions(opts, gttsOptLang, gttsOptTLD, gttsOptSlow); err != nil {
		return err
	}

	lang, hasLang := "", false
	if v, ok := opts[gttsOptLang]; ok {
		s, ok := v.(string)
		if !ok {
			return fmt.Errorf("%w: lang must be a string", tts.ErrInvalidConfig)
		}
		if _, err := language.Parse(s); err != nil {
			return fmt.Errorf("%w: lang %q: %v", tts.ErrInvalidConfig, s, err)
		}
		lang, hasLang = s, true
	}

	tld, hasTLD := "", false
	if v, ok := opts[gttsOptTLD]; ok {
		s, ok := v.(string)
		if !ok || s == "" {
			return fmt.Errorf("%w: tld must be a non-empty string", tts.ErrInvalidConfig)
		}
		tld, hasTLD = s, true
	}

	slow, hasSlow := false, false
	if v, ok := opts[gttsOptSlow]; ok {
		b, ok := v.(bool)
		if !ok {
			return fmt.Errorf("%w: slow must be a boolean", tts.ErrInvalidConfig)
		}
		slow, hasSlow = b, true
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if hasLang {
		e.lang = lang
	}
	if hasTLD {
		e.tld = tld
	}
	if hasSlow {
		e.slow = slow
	}
	return nil
}

// Synthesize converts text to audio and writes an MP3 file to outPath.
// Backend failures — connectivity, HTTP errors, empty responses — are
// wrapped in tts.ErrSynthesisFailed and never retried here.
func (e *GTTSEngine) Synthesize(ctx context.Context, text string, outPath string) error {
	e.mu.RLock()
	lang, tld, slow := e.lang, e.tld, e.slow
	closed := e.closed
	e.mu.RUnlock()

	if closed {
		return tts.ErrEngineClosed
	}
	if text == "" {
		return fmt.Errorf("%w: text cannot be empty", tts.ErrSynthesisFailed)
	}
	if len(text) > gttsMaxTextLen {
		return fmt.Errorf("%w: %d characters (max %d)", tts.ErrTextTooLong, len(text), gttsMaxTextLen)
	}

	chunks := tts.ChunkText(text, gttsMaxChunkLen)
	log.Debug("gtts synthesis", "lang", lang, "tld", tld, "slow", slow, "chunks", len(chunks))

	var audio []byte
	for idx, chunk := range chunks {
		if err := e.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("%w: rate limit wait cancelled: %v", tts.ErrSynthesisFailed, err)
		}

		part, err := e.fetchChunk(ctx, chunk, lang, tld, slow, idx, len(chunks))
		if err != nil {
			return err
		}
		audio = append(audio, part...)
	}

	if len(audio) == 0 {
		return fmt.Errorf("%w: endpoint returned no audio", tts.ErrSynthesisFailed)
	}

	if err := os.WriteFile(outPath, audio, 0o644); err != nil {
		return fmt.Errorf("%w: writing audio: %v", tts.ErrSynthesisFailed, err)
	}

	return nil
}

// fetchChunk requests the MP3 audio for a single text chunk.
func (e *GTTSEngine) fetchChunk(ctx context.Context, text, lang, tld string, slow bool, idx, total int) ([]byte, error) {
	speed := "1"
	if slow {
		speed = "0.3"
	}

	params := url.Values{
		"ie":       {"UTF-8"},
		"client":   {"tw-ob"},
		"q":        {text},
		"tl":       {lang},
		"ttsspeed": {speed},
		"total":    {strconv.Itoa(total)},
		"idx":      {strconv.Itoa(idx)},
		"textlen":  {strconv.Itoa(len(text))},
	}

	endpoint := e.endpoint
	if endpoint == "" {
		endpoint = fmt.Sprintf("https://translate.google.%s/translate_tts", tld)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: building request: %v", tts.ErrSynthesisFailed, err)
	}
	req.Header.Set("User-Agent", gttsUserAgent)

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: request failed: %v", tts.ErrSynthesisFailed, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: endpoint returned HTTP %d", tts.ErrSynthesisFailed, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", tts.ErrSynthesisFailed, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: endpoint returned an empty body", tts.ErrSynthesisFailed)
	}

	return data, nil
}

// Voices is not supported: the endpoint exposes no voice catalog.
func (e *GTTSEngine) Voices() ([]tts.Voice, error) {
	return nil, fmt.Errorf("%w: gtts has no voice catalog", tts.ErrUnsupportedOperation)
}

// SetVoice is not supported; select the language via the lang option instead.
func (e *GTTSEngine) SetVoice(string) error {
	return fmt.Errorf("%w: gtts has no selectable voices; set the lang option", tts.ErrUnsupportedOperation)
}

// SetRate is not supported; the endpoint only offers the boolean slow option.
func (e *GTTSEngine) SetRate(int) error {
	return fmt.Errorf("%w: gtts has no rate control; use the slow option", tts.ErrUnsupportedOperation)
}

// SetVolume is not supported.
func (e *GTTSEngine) SetVolume(float64) error {
	return fmt.Errorf("%w: gtts has no volume control", tts.ErrUnsupportedOperation)
}

// Language returns the current language code.
func (e *GTTSEngine) Language() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.lang
}

// Slow returns whether slow speech is enabled.
func (e *GTTSEngine) Slow() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.slow
}

// OutputFormat returns the format the endpoint produces.
func (e *GTTSEngine) OutputFormat() tts.Format { return tts.FormatMP3 }

// Capabilities describes what gtts supports.
func (e *GTTSEngine) Capabilities() tts.Capabilities {
	return tts.Capabilities{
		SupportsRate:    false,
		SupportsVolume:  false,
		SupportsVoices:  false,
		OutputFormats:   []tts.Format{tts.FormatMP3},
		MaxTextLength:   gttsMaxTextLen,
		RequiresNetwork: true,
	}
}

// Validate checks the engine configuration. Network reachability is only
// known at synthesis time.
func (e *GTTSEngine) Validate() error {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if _, err := language.Parse(e.lang); err != nil {
		return fmt.Errorf("%w: language %q: %v", tts.ErrInvalidConfig, e.lang, err)
	}
	return nil
}

// Close releases engine resources.
func (e *GTTSEngine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
	e.httpClient.CloseIdleConnections()
	return nil
}

// Ensure GTTSEngine implements the Engine interface
var _ tts.Engine = (*GTTSEngine)(nil)
