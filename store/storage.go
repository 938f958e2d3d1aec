package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"blograg/types"
)

// VectorStorer is the persistence boundary of the RAG pipeline: append
// chunk rows, clear a document's rows before re-indexing, and run the
// server-side similarity search.
type VectorStorer interface {
	SaveChunk(context.Context, types.Chunk) error
	DeleteChunksBySlug(context.Context, string) error
	Search(ctx context.Context, queryVec []float32, threshold float64, limit int) ([]types.Match, error)
}

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, connStr string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresStore{
		pool: pool,
	}, nil
}

func (p *PostgresStore) SaveChunk(ctx context.Context, c types.Chunk) error {
	meta, err := json.Marshal(c.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal chunk metadata: %w", err)
	}

	query := `
    INSERT INTO blog_embeddings (id, blog_slug, blog_title, content_chunk, embedding, metadata)
    VALUES ($1, $2, $3, $4, $5, $6)
    `
	_, err = p.pool.Exec(ctx, query,
		c.ID, c.Slug, c.Title, c.Content, pgvector.NewVector(c.Embedding), meta,
	)
	return err
}

// DeleteChunksBySlug clears every row of one document so a re-run of the
// indexer replaces instead of duplicating.
func (p *PostgresStore) DeleteChunksBySlug(ctx context.Context, slug string) error {
	_, err := p.pool.Exec(ctx, "DELETE FROM blog_embeddings WHERE blog_slug = $1", slug)
	return err
}

// Search delegates the nearest-neighbor computation to the server-side
// match_blog_embeddings function. Row field names are a contract with
// that function.
func (p *PostgresStore) Search(ctx context.Context, queryVec []float32, threshold float64, limit int) ([]types.Match, error) {
	if len(queryVec) == 0 {
		return nil, fmt.Errorf("empty query vector")
	}

	query := `
		SELECT blog_slug, blog_title, content_chunk, similarity
		FROM match_blog_embeddings($1, $2, $3)
	`
	rows, err := p.pool.Query(ctx, query, pgvector.NewVector(queryVec), threshold, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var matches []types.Match
	for rows.Next() {
		var m types.Match
		if err := rows.Scan(&m.Slug, &m.Title, &m.Content, &m.Similarity); err != nil {
			return nil, err
		}
		log.Printf("[SEARCH] match: %s (similarity: %.4f)", m.Slug, m.Similarity)
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

func (p *PostgresStore) createRagTables(ctx context.Context) error {

	query := `
    CREATE EXTENSION IF NOT EXISTS vector;

    CREATE TABLE IF NOT EXISTS blog_embeddings (
        id UUID PRIMARY KEY,
        blog_slug TEXT NOT NULL,
        blog_title TEXT NOT NULL,
        content_chunk TEXT NOT NULL,
        embedding vector(384), -- embed-english-light-v3.0 and all-MiniLM-L6-v2 are both 384-dim
        metadata JSONB,
        created_at TIMESTAMP WITH TIME ZONE DEFAULT now()
    );

	CREATE INDEX IF NOT EXISTS idx_blog_embeddings_embedding ON blog_embeddings USING ivfflat (embedding vector_cosine_ops)
	WITH (lists = 100);

	CREATE INDEX IF NOT EXISTS idx_blog_embeddings_slug ON blog_embeddings(blog_slug);

	CREATE OR REPLACE FUNCTION match_blog_embeddings(
		query_embedding vector(384),
		match_threshold float,
		match_count int
	)
	RETURNS TABLE (blog_slug text, blog_title text, content_chunk text, similarity float)
	LANGUAGE sql STABLE
	AS $$
		SELECT be.blog_slug, be.blog_title, be.content_chunk,
		       1 - (be.embedding <=> query_embedding) AS similarity
		FROM blog_embeddings be
		WHERE be.embedding IS NOT NULL
		  AND 1 - (be.embedding <=> query_embedding) >= match_threshold
		ORDER BY be.embedding <=> query_embedding
		LIMIT match_count
	$$;
    `
	_, err := p.pool.Exec(ctx, query)
	return err
}

func (p *PostgresStore) Init(ctx context.Context) error {
	return p.createRagTables(ctx)
}

func (s *PostgresStore) Close() error {
	if s.pool != nil {
		s.pool.Close()
		log.Println("Postgres connection pool is closed")
	}
	return nil
}
