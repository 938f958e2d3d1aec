package prompt

import (
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"

	"blograg/types"
)

// BuildSystemPrompt renders the system turn in fixed section order:
// persona, full blog catalog, retrieved chunk content (or the fallback
// sentence), social links, guidelines. Deterministic for a given input.
func BuildSystemPrompt(p *Persona, catalog []types.Document, matches []types.Match) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "You are %s. %s\n\n", p.Assistant, strings.Join(p.Background, " "))

	if len(catalog) > 0 {
		fmt.Fprintf(&sb, "**COMPLETE BLOG CATALOG (%d posts with summaries):**\n%s\n\n",
			len(catalog), formatCatalog(catalog))
	}

	sb.WriteString("**BLOG CONTENT (Specific detailed matches for current query):**\n")
	sb.WriteString(formatMatches(p, matches))
	sb.WriteString("\n\n")

	if len(p.Socials) > 0 {
		sb.WriteString("**SOCIAL MEDIA & PROFILES:**\n")
		for _, s := range p.Socials {
			fmt.Fprintf(&sb, "- %s: %s\n", capitalize(s.Title), s.Href)
		}
		sb.WriteString("\n")
	}

	if len(p.Guidelines) > 0 {
		sb.WriteString("**Guidelines:**\n")
		for i, g := range p.Guidelines {
			fmt.Fprintf(&sb, "%d. %s\n", i+1, g)
		}
		sb.WriteString("\n")
	}

	if len(p.Style) > 0 {
		sb.WriteString("**Response Style:**\n")
		for _, s := range p.Style {
			fmt.Fprintf(&sb, "- %s\n", s)
		}
	}

	return strings.TrimSpace(sb.String())
}

// formatCatalog enumerates every document: title, categories, summary,
// publish date, canonical link.
func formatCatalog(catalog []types.Document) string {
	entries := make([]string, 0, len(catalog))
	for i, d := range catalog {
		var sb strings.Builder
		fmt.Fprintf(&sb, "%d. **%s**", i+1, d.Title)
		if len(d.Categories) > 0 {
			fmt.Fprintf(&sb, " [%s]", strings.Join(d.Categories, ", "))
		}
		if d.ShortDescription != "" {
			fmt.Fprintf(&sb, "\n  Summary: %s", d.ShortDescription)
		}
		if d.PublishedAt != "" {
			fmt.Fprintf(&sb, "\n  Published: %s", formatDate(d.PublishedAt))
		}
		fmt.Fprintf(&sb, "\n  Link: /blogs/%s", d.Slug)
		entries = append(entries, sb.String())
	}
	return strings.Join(entries, "\n\n")
}

// formatMatches labels retrieved chunks in result order with read-more
// links back to the originating document. Empty retrieval renders the
// fallback sentence, never an empty section.
func formatMatches(p *Persona, matches []types.Match) string {
	if len(matches) == 0 {
		return p.Fallback()
	}
	entries := make([]string, 0, len(matches))
	for i, m := range matches {
		entries = append(entries, fmt.Sprintf("**Blog Post %d: %s**\n%s\n\nRead more: [%s](/blogs/%s)",
			i+1, m.Title, m.Content, m.Title, m.Slug))
	}
	return strings.Join(entries, "\n\n---\n\n")
}

// formatDate renders CMS timestamps as "Jan 2, 2006"; unparseable values
// pass through untouched.
func formatDate(raw string) string {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("Jan 2, 2006")
		}
	}
	return raw
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}

// CountTokens reports the token size of the assembled prompt, for cost
// and context-window visibility in the logs.
func CountTokens(text string) (int, error) {
	enc, err := tiktoken.EncodingForModel("gpt-3.5-turbo")
	if err != nil {
		return 0, err
	}
	return len(enc.Encode(text, nil, nil)), nil
}
