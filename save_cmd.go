package main

import (
	"errors"
	"fmt"

	"github.com/dgnsrekt/ttskit/internal/utils"
	"github.com/spf13/cobra"
)

var (
	saveOutput string
	saveFormat string

	saveCmd = &cobra.Command{
		Use:   "save [TEXT]",
		Short: "Synthesize text to an audio file",
		Long: paragraph(
			fmt.Sprintf("\nSynthesize text and %s it as an audio file instead of playing it.", keyword("save")),
		),
		Example: paragraph("ttskit save -o greeting.wav \"hello there\"\ncat notes.txt | ttskit save -e gtts -o notes.mp3"),
		Args:    cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if saveOutput == "" {
				return errors.New("missing output path: use --output")
			}

			text, err := textFromInput(args)
			if err != nil {
				return err
			}

			s, err := newSpeaker(cmd, nil)
			if err != nil {
				return err
			}
			defer s.Close() //nolint:errcheck

			dest, err := s.SaveToFile(cmd.Context(), text, utils.ExpandPath(saveOutput), saveFormat)
			if err != nil {
				return err
			}

			fmt.Println("Wrote audio to:", dest)
			return nil
		},
	}
)

func init() {
	saveCmd.Flags().StringVarP(&saveOutput, "output", "o", "", "destination file path")
	saveCmd.Flags().StringVarP(&saveFormat, "format", "f", "", "audio format (mp3, wav, ogg, aiff); inferred from the extension when unset")
	_ = saveCmd.MarkFlagRequired("output")
}
