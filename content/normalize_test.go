package content

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"blograg/types"
)

func span(text string, marks ...string) types.Span {
	return types.Span{Type: "span", Text: text, Marks: marks}
}

func TestNormalizeStripsAllMarkup(t *testing.T) {
	blocks := []types.Block{
		{Type: "block", Style: "h1", Children: []types.Span{span("Ideas in Motion")}},
		{Type: "block", Style: "normal", Children: []types.Span{
			span("Curiosity drives "),
			span("everything", "strong"),
			span(" we make.", "em"),
		}},
		{Type: "image", Alt: "a camera on a tripod"},
		{Type: "code", Code: "fmt.Println(\"hello\")"},
		{Type: "block", Style: "normal", Children: []types.Span{
			span("Read the "),
			span("full story", "link"),
			span(" online."),
		}},
	}

	out := Normalize(blocks)

	assert.NotContains(t, out, "<")
	assert.NotContains(t, out, ">")
	assert.NotContains(t, out, "[Image]")
	assert.Contains(t, out, "Ideas in Motion")
	assert.Contains(t, out, "Curiosity drives everything we make.")
	assert.Contains(t, out, "full story")
	assert.NotContains(t, out, "  ", "whitespace must be collapsed")
	assert.Equal(t, out, strings.TrimSpace(out))
}

func TestNormalizeFallsBackOnUnrenderableNode(t *testing.T) {
	blocks := []types.Block{
		{Type: "block", Style: "normal", Children: []types.Span{span("Plain text survives.")}},
		{Type: "videoEmbed"}, // unknown node with nothing renderable
		{Type: "code", Code: "ignored in fallback"},
	}

	out := Normalize(blocks)

	// degraded output: only the literal text runs remain
	assert.Contains(t, out, "Plain text survives.")
	assert.NotContains(t, out, "ignored in fallback")
	assert.NotContains(t, out, "<")
}

func TestNormalizeEmptyInput(t *testing.T) {
	assert.Equal(t, "", Normalize(nil))
	assert.Equal(t, "", Normalize([]types.Block{}))
}

func TestNormalizeListItems(t *testing.T) {
	blocks := []types.Block{
		{Type: "block", Style: "normal", ListItem: "bullet", Children: []types.Span{span("first point")}},
		{Type: "block", Style: "normal", ListItem: "bullet", Children: []types.Span{span("second point")}},
	}

	out := Normalize(blocks)
	assert.Equal(t, "first point second point", out)
}
