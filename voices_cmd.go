package main

import (
	"fmt"

	"github.com/dgnsrekt/ttskit/tts"
	"github.com/dgnsrekt/ttskit/tts/engines"
	"github.com/sahilm/fuzzy"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

var voicesCmd = &cobra.Command{
	Use:   "voices [FILTER]",
	Short: "List the voices the selected engine offers",
	Long: paragraph(
		fmt.Sprintf("\nList available voices, optionally %s by a fuzzy match on name or language.", keyword("filtered")),
	),
	Example: paragraph("ttskit voices\nttskit voices french"),
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSpeaker(cmd, nil)
		if err != nil {
			return err
		}
		defer s.Close() //nolint:errcheck

		voices, err := s.Voices()
		if err != nil {
			return err
		}

		if len(args) == 1 {
			voices = filterVoices(voices, args[0])
		}

		for _, v := range voices {
			fmt.Printf("%-24s %-10s %-8s %s\n", v.ID, v.Language, v.Gender, languageName(v.Language))
		}
		if len(voices) == 0 {
			fmt.Println("No matching voices.")
		}
		return nil
	},
}

var enginesCmd = &cobra.Command{
	Use:   "engines",
	Short: "List the synthesis engines and their availability",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := speakerConfig(cmd)
		if err != nil {
			return err
		}

		reg := engines.DefaultRegistry()
		for _, name := range reg.Names() {
			engine, err := reg.Create(name, cfg)
			if err != nil {
				fmt.Printf("%-8s unavailable: %v\n", name, err)
				continue
			}

			status := "ready"
			if err := engine.Validate(); err != nil {
				status = fmt.Sprintf("unavailable: %v", err)
			}
			fmt.Printf("%-8s %s\n", name, status)
			_ = engine.Close()
		}
		return nil
	},
}

// voiceSource adapts a voice list to the fuzzy matcher, searching over the
// id, name, and language together.
type voiceSource []tts.Voice

func (v voiceSource) String(i int) string {
	return v[i].ID + " " + v[i].Name + " " + v[i].Language + " " + languageName(v[i].Language)
}

func (v voiceSource) Len() int { return len(v) }

func filterVoices(voices []tts.Voice, query string) []tts.Voice {
	matches := fuzzy.FindFrom(query, voiceSource(voices))

	filtered := make([]tts.Voice, 0, len(matches))
	for _, m := range matches {
		filtered = append(filtered, voices[m.Index])
	}
	return filtered
}

// languageName renders a BCP 47 code as an English display name, falling back
// to the raw code.
func languageName(code string) string {
	tag, err := language.Parse(code)
	if err != nil {
		return code
	}
	if name := display.English.Languages().Name(tag); name != "" {
		return name
	}
	return code
}
