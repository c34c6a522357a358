// Package main provides the entry point for the ttskit CLI.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"
	"github.com/dgnsrekt/ttskit/tts"
	"github.com/dgnsrekt/ttskit/tts/audio"
	"github.com/dgnsrekt/ttskit/tts/engines"
	gap "github.com/muesli/go-app-paths"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// Version as provided by goreleaser.
	Version = ""
	// CommitSHA as provided by goreleaser.
	CommitSHA = ""

	configFile string
	engineName string
	voiceID    string
	rateWPM    int
	volume     float64
	lang       string
	slow       bool
	useCache   bool

	rootCmd = &cobra.Command{
		Use:   "ttskit [TEXT]",
		Short: "Speak text from the command line",
		Long: paragraph(
			fmt.Sprintf("\nSpeak text aloud with an %s or %s synthesis engine.", keyword("offline"), keyword("cloud")),
		),
		SilenceErrors:    false,
		SilenceUsage:     true,
		TraverseChildren: true,
		Args:             cobra.ArbitraryArgs,
		RunE:             executeSpeak,
	}
)

// textFromInput assembles the text to synthesize from positional args, or
// from stdin when piped (or when the argument is "-").
func textFromInput(args []string) (string, error) {
	if len(args) == 1 && args[0] == "-" {
		return readAllText(os.Stdin)
	}
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}

	if yes, err := stdinIsPipe(); err != nil {
		return "", err
	} else if yes {
		return readAllText(os.Stdin)
	}

	return "", errors.New("missing text: pass it as arguments or pipe it on stdin")
}

func readAllText(r io.Reader) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("unable to read from reader: %w", err)
	}
	return strings.TrimSpace(string(b)), nil
}

func stdinIsPipe() (bool, error) {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false, fmt.Errorf("unable to stat stdin: %w", err)
	}
	if stat.Mode()&os.ModeCharDevice == 0 || stat.Size() > 0 {
		return true, nil
	}
	return false, nil
}

// speakerConfig builds the effective configuration: file values first, then
// environment, then flags.
func speakerConfig(cmd *cobra.Command) (tts.Config, error) {
	cfg, err := tts.LoadConfigFromViper()
	if err != nil {
		return cfg, err
	}

	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("error parsing environment: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("engine") {
		cfg.Engine = engineName
	}
	if flags.Changed("voice") {
		cfg.Espeak.Voice = voiceID
	}
	if flags.Changed("rate") {
		cfg.Espeak.Rate = rateWPM
	}
	if flags.Changed("volume") {
		cfg.Espeak.Volume = volume
	}
	if flags.Changed("lang") {
		cfg.GTTS.Language = lang
	}
	if flags.Changed("slow") {
		cfg.GTTS.Slow = slow
	}
	if flags.Changed("cache") {
		cfg.Cache.Enabled = useCache
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// newSpeaker wires a Speaker from the effective configuration. A nil player
// skips audio-device setup for commands that never play anything.
func newSpeaker(cmd *cobra.Command, player tts.Player) (*tts.Speaker, error) {
	cfg, err := speakerConfig(cmd)
	if err != nil {
		return nil, err
	}

	s, err := tts.New(cfg, engines.DefaultRegistry(), player)
	if err != nil {
		return nil, err
	}
	log.Debug("speaker ready", "engine", s.Describe(), "scratch", s.ScratchDir())
	return s, nil
}

func executeSpeak(cmd *cobra.Command, args []string) error {
	text, err := textFromInput(args)
	if err != nil {
		return err
	}

	s, err := newSpeaker(cmd, audio.NewPlayer())
	if err != nil {
		return err
	}
	defer s.Close() //nolint:errcheck

	return s.Speak(cmd.Context(), text)
}

func main() {
	closer, err := setupLog()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	if err := rootCmd.Execute(); err != nil {
		// Non-recoverable errors point at broken setup rather than bad input;
		// nudge toward the config editor.
		if !tts.IsRecoverableError(err) {
			fmt.Fprintln(os.Stderr, "The configuration looks unusable; run `ttskit config` to fix it.")
		}
		_ = closer()
		os.Exit(1)
	}
	_ = closer()
}

func init() {
	tryLoadConfigFromDefaultPlaces()
	if len(CommitSHA) >= 7 {
		vt := rootCmd.VersionTemplate()
		rootCmd.SetVersionTemplate(vt[:len(vt)-1] + " (" + CommitSHA[0:7] + ")\n")
	}
	if Version == "" {
		Version = "unknown (built from source)"
	}
	rootCmd.Version = Version
	rootCmd.InitDefaultCompletionCmd()

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", fmt.Sprintf("config file (default %s)", viper.GetViper().ConfigFileUsed()))
	rootCmd.PersistentFlags().StringVarP(&engineName, "engine", "e", "espeak", "synthesis engine (espeak or gtts)")
	rootCmd.PersistentFlags().StringVar(&voiceID, "voice", "", "voice to speak with (espeak only)")
	rootCmd.PersistentFlags().IntVarP(&rateWPM, "rate", "r", 175, "speaking rate in words per minute (espeak only)")
	rootCmd.PersistentFlags().Float64Var(&volume, "volume", 1.0, "volume from 0.0 to 1.0 (espeak only)")
	rootCmd.PersistentFlags().StringVarP(&lang, "lang", "l", "en", "language code (gtts only)")
	rootCmd.PersistentFlags().BoolVar(&slow, "slow", false, "speak slowly (gtts only)")
	rootCmd.PersistentFlags().BoolVar(&useCache, "cache", false, "cache synthesized audio")

	// Config bindings
	_ = viper.BindPFlag("engine", rootCmd.PersistentFlags().Lookup("engine"))
	_ = viper.BindPFlag("cache.enabled", rootCmd.PersistentFlags().Lookup("cache"))

	rootCmd.AddCommand(saveCmd, voicesCmd, enginesCmd, cacheCmd, configCmd, manCmd)
}

func tryLoadConfigFromDefaultPlaces() {
	scope := gap.NewScope(gap.User, "ttskit")
	dirs, err := scope.ConfigDirs()
	if err != nil {
		fmt.Println("Could not find configuration directory.")
		os.Exit(1)
	}

	if c := os.Getenv("XDG_CONFIG_HOME"); c != "" {
		dirs = append([]string{filepath.Join(c, "ttskit")}, dirs...)
	}

	if c := os.Getenv("TTSKIT_CONFIG_HOME"); c != "" {
		dirs = append([]string{c}, dirs...)
	}

	for _, v := range dirs {
		viper.AddConfigPath(v)
	}

	viper.SetConfigName("ttskit")
	viper.SetConfigType("yaml")
	viper.SetEnvPrefix("ttskit")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Warn("Could not parse configuration file", "err", err)
		}
	}

	if used := viper.ConfigFileUsed(); used != "" {
		log.Debug("Using configuration file", "path", viper.ConfigFileUsed())
		return
	}

	if viper.ConfigFileUsed() == "" {
		configFile = filepath.Join(dirs[0], "ttskit.yml")
	}
	if err := ensureConfigFile(); err != nil {
		log.Error("Could not create default configuration", "error", err)
	}
}
