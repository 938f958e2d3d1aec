// Package service runs the offline indexing job: fetch every document
// from the CMS, normalize and chunk it, embed each chunk and write the
// rows into the vector store. Deliberately sequential, the embedding
// provider's rate limit is the bottleneck.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"blograg/content"
	"blograg/content/cms"
	"blograg/model"
	"blograg/store"
	"blograg/types"
)

const (
	// minPlainTextLen skips documents whose normalized text is too thin
	// to index.
	minPlainTextLen = 100

	// defaultPause is the courtesy delay between embedding calls;
	// defaultRateLimitPause applies after a detected rate-limit error.
	defaultPause          = 1 * time.Second
	defaultRateLimitPause = 60 * time.Second
)

// DocumentFetcher reads documents from the CMS.
type DocumentFetcher interface {
	Fetch(ctx context.Context, query string) ([]types.Document, error)
}

// Stats is the run summary printed at the end of the job.
type Stats struct {
	Documents int
	Chunks    int
	Indexed   int
	Errors    int
}

type Service struct {
	logger         *slog.Logger
	store          store.VectorStorer
	cms            DocumentFetcher
	embedder       model.Embedder
	maxChunkLen    int
	pause          time.Duration
	rateLimitPause time.Duration
}

func New(storer store.VectorStorer, fetcher DocumentFetcher, embedder model.Embedder) *Service {
	return &Service{
		logger:         slog.Default(),
		store:          storer,
		cms:            fetcher,
		embedder:       embedder,
		maxChunkLen:    content.DefaultMaxChunkLen,
		pause:          defaultPause,
		rateLimitPause: defaultRateLimitPause,
	}
}

// Run processes every document once. Per-chunk failures are counted and
// the batch continues; only fetching the corpus itself is fatal.
func (s *Service) Run(ctx context.Context) (Stats, error) {
	var stats Stats

	fmt.Println("🚀 Starting blog content indexing...")

	docs, err := s.cms.Fetch(ctx, cms.AllDocumentsQuery)
	if err != nil {
		return stats, fmt.Errorf("failed to fetch documents: %w", err)
	}
	fmt.Printf("   Found %d blog posts\n", len(docs))

	for i, doc := range docs {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		fmt.Printf("\n[%d/%d] 📝 Processing: %s\n", i+1, len(docs), doc.Title)

		text, ok := s.prepareText(doc)
		if !ok {
			continue
		}

		chunks := content.SplitText(text, s.maxChunkLen)
		fmt.Printf("   ✂️  Split into %d chunks\n", len(chunks))
		stats.Documents++
		if len(chunks) == 0 {
			continue
		}

		// clear old rows first so re-running replaces instead of duplicating
		if err := s.store.DeleteChunksBySlug(ctx, doc.Slug); err != nil {
			s.logger.Error("failed to clear old chunks, skipping document",
				"slug", doc.Slug, "error", err)
			stats.Errors++
			continue
		}

		s.indexChunks(ctx, doc, chunks, &stats)
	}

	return stats, nil
}

// prepareText normalizes the document body and applies the skip rules:
// no slug, no content, normalized text too short. The short description
// is prepended so it gets embedded with the rest.
func (s *Service) prepareText(doc types.Document) (string, bool) {
	if doc.Slug == "" {
		fmt.Println("   ⚠️  Skipping (no slug)")
		return "", false
	}
	blocks := doc.Blocks()
	if len(blocks) == 0 {
		fmt.Println("   ⚠️  Skipping (no content)")
		return "", false
	}
	plain := content.Normalize(blocks)
	if len(plain) < minPlainTextLen {
		fmt.Println("   ⚠️  Skipping (content too short)")
		return "", false
	}
	if doc.ShortDescription != "" {
		return doc.ShortDescription + "\n\n" + plain, true
	}
	return plain, true
}

func (s *Service) indexChunks(ctx context.Context, doc types.Document, chunks []string, stats *Stats) {
	for j, chunkText := range chunks {
		if ctx.Err() != nil {
			return
		}

		fmt.Printf("   🔢 Generating embedding for chunk %d/%d...\n", j+1, len(chunks))
		embedding, err := s.embedder.Embed(ctx, chunkText)
		if err != nil {
			fmt.Printf("   ❌ Error embedding chunk %d: %v\n", j+1, err)
			stats.Errors++
			if isRateLimited(err) {
				fmt.Printf("   ⏳ Rate limited, waiting %s...\n", s.rateLimitPause)
				sleep(ctx, s.rateLimitPause)
			}
			continue
		}
		// Chunks counts rows that reached the insert attempt, not every
		// chunk produced by the splitter
		stats.Chunks++

		chunk := types.Chunk{
			ID:        uuid.New(),
			Slug:      doc.Slug,
			Title:     doc.Title,
			Index:     j,
			Content:   chunkText,
			Embedding: embedding,
			Metadata: types.ChunkMetadata{
				PublishedAt:      doc.PublishedAt,
				Categories:       doc.Categories,
				ChunkIndex:       j,
				TotalChunks:      len(chunks),
				ShortDescription: doc.ShortDescription,
			},
		}

		if err := s.store.SaveChunk(ctx, chunk); err != nil {
			fmt.Printf("   ❌ Error inserting chunk %d: %v\n", j+1, err)
			stats.Errors++
		} else {
			fmt.Printf("   ✅ Chunk %d indexed successfully\n", j+1)
			stats.Indexed++
		}

		if j < len(chunks)-1 {
			sleep(ctx, s.pause)
		}
	}
}

// isRateLimited matches the rate-limit signature in provider error text.
func isRateLimited(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") || strings.Contains(msg, "rate limit")
}

func sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}
