package types

import (
	"github.com/google/uuid"
)

// Document is one blog post as it comes out of the CMS. The CMS owns the
// lifecycle, this system only reads.
type Document struct {
	Slug             string   `json:"slug"`
	Title            string   `json:"title"`
	Body             []Block  `json:"body"`
	Content          []Block  `json:"content"`
	ShortDescription string   `json:"shortDescription"`
	PublishedAt      string   `json:"publishedAt"` // kept raw, passed through to chunk metadata
	Categories       []string `json:"categories"`
}

// Blocks returns whichever rich-text field the document actually uses.
// Older posts were authored with `content` instead of `body`.
func (d Document) Blocks() []Block {
	if len(d.Body) > 0 {
		return d.Body
	}
	return d.Content
}

// Block is a node of the portable-text tree: a styled text block, a code
// block or an image.
type Block struct {
	Type     string `json:"_type"`
	Style    string `json:"style,omitempty"`
	ListItem string `json:"listItem,omitempty"`
	Children []Span `json:"children,omitempty"`
	Code     string `json:"code,omitempty"`
	Alt      string `json:"alt,omitempty"`
}

// Span is an inline text run inside a block.
type Span struct {
	Type  string   `json:"_type"`
	Text  string   `json:"text"`
	Marks []string `json:"marks,omitempty"`
}

// Chunk is the unit of embedding and retrieval: a bounded excerpt of one
// document plus its vector. Immutable once written, superseded by re-runs
// of the indexer.
type Chunk struct {
	ID        uuid.UUID
	Slug      string
	Title     string
	Index     int
	Content   string
	Embedding []float32
	Metadata  ChunkMetadata
}

// ChunkMetadata is stored as a JSON object next to each chunk row.
// Field names are part of the persisted row shape.
type ChunkMetadata struct {
	PublishedAt      string   `json:"publishedAt"`
	Categories       []string `json:"categories"`
	ChunkIndex       int      `json:"chunkIndex"`
	TotalChunks      int      `json:"totalChunks"`
	ShortDescription string   `json:"shortDescription,omitempty"`
}

// Match is one row returned by the vector search, ordered by descending
// similarity. Field meanings mirror the match_blog_embeddings function.
type Match struct {
	Slug       string
	Title      string
	Content    string
	Similarity float64
}
