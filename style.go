package main

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

var keywordStyle = lipgloss.NewStyle().
	Foreground(lipgloss.AdaptiveColor{Light: "#04B575", Dark: "#ECFD65"})

// keyword highlights a word in help text. Styling is skipped when stdout is
// not a terminal or the terminal does not do color.
func keyword(s string) string {
	if !term.IsTerminal(int(os.Stdout.Fd())) || termenv.EnvColorProfile() == termenv.Ascii {
		return s
	}
	return keywordStyle.Render(s)
}

// paragraph wraps and indents a block of help text.
func paragraph(s string) string {
	return indent.String(wordwrap.String(s, 78), 2)
}
