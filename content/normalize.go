package content

import (
	"fmt"
	"log"
	"regexp"
	"strings"

	"blograg/types"
)

// imagePlaceholder stands in for image nodes during rendering and is
// removed from the final plain text.
const imagePlaceholder = "[Image]"

var (
	tagRe   = regexp.MustCompile(`<[^>]*>`)
	spaceRe = regexp.MustCompile(`\s+`)
)

// Normalize converts a portable-text tree into a single plain-text string
// fit for embedding. Malformed nodes never abort the whole conversion: on
// a rendering failure the result degrades to the literal text runs found
// in the tree.
func Normalize(blocks []types.Block) string {
	markup, err := renderBlocks(blocks)
	if err != nil {
		log.Printf("[NORMALIZE] render failed, falling back to raw text spans: %v", err)
		markup = rawSpans(blocks)
	}

	text := tagRe.ReplaceAllString(markup, " ")
	text = strings.ReplaceAll(text, imagePlaceholder, " ")
	text = spaceRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// renderBlocks produces an HTML-ish intermediate form, one tag per block.
// The markup only exists to be stripped again; it keeps the rendering
// rules in one place.
func renderBlocks(blocks []types.Block) (string, error) {
	var sb strings.Builder
	for _, b := range blocks {
		switch b.Type {
		case "block":
			tag := styleTag(b)
			sb.WriteString("<" + tag + ">")
			sb.WriteString(renderSpans(b.Children))
			sb.WriteString("</" + tag + ">")
		case "code":
			sb.WriteString("<pre>" + b.Code + "</pre>")
		case "image":
			sb.WriteString(imagePlaceholder)
		default:
			if len(b.Children) == 0 {
				return "", fmt.Errorf("unrenderable block type %q", b.Type)
			}
			sb.WriteString("<p>" + renderSpans(b.Children) + "</p>")
		}
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

func styleTag(b types.Block) string {
	if b.ListItem != "" {
		return "li"
	}
	switch b.Style {
	case "h1", "h2", "h3", "h4", "blockquote":
		return b.Style
	default:
		return "p"
	}
}

// renderSpans flattens inline runs. Link marks keep only their children
// text, strong/em wrap it; other marks are ignored.
func renderSpans(spans []types.Span) string {
	var sb strings.Builder
	for _, s := range spans {
		text := s.Text
		for _, mark := range s.Marks {
			switch mark {
			case "strong":
				text = "<strong>" + text + "</strong>"
			case "em":
				text = "<em>" + text + "</em>"
			}
		}
		sb.WriteString(text)
	}
	return sb.String()
}

// rawSpans is the degraded path: concatenate every literal text run in
// the tree and nothing else.
func rawSpans(blocks []types.Block) string {
	var parts []string
	for _, b := range blocks {
		for _, s := range b.Children {
			if s.Text != "" {
				parts = append(parts, s.Text)
			}
		}
	}
	return strings.Join(parts, " ")
}
