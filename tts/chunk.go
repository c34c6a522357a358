package tts

import (
	"regexp"
	"strings"
)

// sentenceEndings matches sentence-terminating punctuation followed by
// whitespace.
var sentenceEndings = regexp.MustCompile(`[.!?]\s+`)

// ChunkText splits text into chunks no longer than maxLen to work around
// per-request length limits of the backends. Splits happen at sentence
// boundaries when possible, falling back to word boundaries for sentences
// that are themselves too long.
func ChunkText(text string, maxLen int) []string {
	if maxLen <= 0 || len(text) <= maxLen {
		return []string{text}
	}

	var chunks []string
	var current strings.Builder

	flush := func() {
		if s := strings.TrimSpace(current.String()); s != "" {
			chunks = append(chunks, s)
		}
		current.Reset()
	}

	for _, sentence := range splitSentences(text) {
		if current.Len()+len(sentence)+1 > maxLen {
			flush()

			if len(sentence) > maxLen {
				for _, word := range strings.Fields(sentence) {
					if current.Len()+len(word)+1 > maxLen {
						flush()
					}
					current.WriteString(word)
					current.WriteByte(' ')
				}
				continue
			}
		}
		current.WriteString(sentence)
		current.WriteByte(' ')
	}
	flush()

	return chunks
}

// splitSentences splits text at sentence boundaries, keeping the terminating
// punctuation with each sentence.
func splitSentences(text string) []string {
	bounds := sentenceEndings.FindAllStringIndex(text, -1)
	if len(bounds) == 0 {
		return []string{text}
	}

	var sentences []string
	start := 0
	for _, b := range bounds {
		// b[0] is the punctuation mark; keep it with the sentence.
		sentences = append(sentences, strings.TrimSpace(text[start:b[0]+1]))
		start = b[1]
	}
	if rest := strings.TrimSpace(text[start:]); rest != "" {
		sentences = append(sentences, rest)
	}
	return sentences
}
