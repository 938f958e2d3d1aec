package content

import (
	"regexp"
	"strings"
)

const (
	// DefaultMaxChunkLen bounds a chunk in characters.
	DefaultMaxChunkLen = 500
	// MinChunkLen filters out chunks too short to carry a useful embedding.
	MinChunkLen = 50
)

var sentenceRe = regexp.MustCompile(`[^.!?]+[.!?]+`)

// SplitText splits plain text into chunks of at most maxLen characters,
// packing whole sentences greedily. A single sentence longer than maxLen
// is never split further and passes through as an oversized chunk.
// Chunks of MinChunkLen characters or fewer are discarded.
func SplitText(text string, maxLen int) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	if maxLen <= 0 {
		maxLen = DefaultMaxChunkLen
	}

	sentences := sentenceRe.FindAllString(text, -1)
	if sentences == nil {
		// no terminal punctuation at all, treat the whole text as one sentence
		sentences = []string{text}
	}

	var chunks []string
	var current string
	for _, sentence := range sentences {
		trimmed := strings.TrimSpace(sentence)
		if len(current)+len(trimmed) > maxLen && current != "" {
			chunks = append(chunks, strings.TrimSpace(current))
			current = trimmed
		} else {
			current += " " + trimmed
		}
	}
	if strings.TrimSpace(current) != "" {
		chunks = append(chunks, strings.TrimSpace(current))
	}

	filtered := make([]string, 0, len(chunks))
	for _, c := range chunks {
		if len(c) > MinChunkLen {
			filtered = append(filtered, c)
		}
	}
	return filtered
}
