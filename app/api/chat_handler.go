package api

import (
	"bufio"
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"

	"blograg/app/prompt"
	"blograg/content/cms"
	"blograg/model"
	"blograg/store"
	"blograg/types"
)

const (
	// DefaultMatchThreshold suits 384-dim embeddings; raise it for
	// higher-dimensional models.
	DefaultMatchThreshold = 0.3
	DefaultMatchCount     = 5

	// upstreamTimeout bounds the embed + catalog + search phase,
	// streamTimeout the completion stream.
	upstreamTimeout = 30 * time.Second
	streamTimeout   = 2 * time.Minute
)

// Completer streams a chat completion for an assembled conversation.
type Completer interface {
	Ready() error
	StreamChat(ctx context.Context, system string, history []types.Message, emit func(delta string) error) error
}

// CatalogFetcher reads documents from the CMS.
type CatalogFetcher interface {
	Fetch(ctx context.Context, query string) ([]types.Document, error)
}

type ChatHandler struct {
	store      store.VectorStorer
	catalog    CatalogFetcher
	embedder   model.Embedder
	completer  Completer
	persona    *prompt.Persona
	threshold  float64
	matchCount int
}

func NewChatHandler(s store.VectorStorer, catalog CatalogFetcher, embedder model.Embedder, completer Completer, persona *prompt.Persona, threshold float64, matchCount int) *ChatHandler {
	return &ChatHandler{
		store:      s,
		catalog:    catalog,
		embedder:   embedder,
		completer:  completer,
		persona:    persona,
		threshold:  threshold,
		matchCount: matchCount,
	}
}

// HandleChat runs the live query pipeline: embed the question, search the
// vector store, assemble the system prompt, stream the completion back.
// Retrieval and catalog failures degrade to empty sections; embedding and
// completion failures fail the request.
func (h *ChatHandler) HandleChat(c *fiber.Ctx) error {
	var params types.ChatParams
	if c.BodyParser(&params) != nil {
		return ErrBadRequest()
	}
	if len(params.Messages) == 0 {
		return ErrMessagesRequired()
	}
	if errors := types.Validate(&params); len(errors) > 0 {
		return ErrInvalidMessages(errors)
	}
	question := params.LastUserMessage()
	if question == "" {
		return ErrMessagesRequired()
	}

	// upstream credentials are checked before the 200 is committed
	if err := h.completer.Ready(); err != nil {
		return err
	}

	reqCtx := c.Context()
	pipeCtx, cancel := context.WithTimeout(reqCtx, upstreamTimeout)
	defer cancel()

	log.Println("[CHAT] generating embedding for question")
	queryVec, err := h.embedder.Embed(pipeCtx, question)
	if err != nil {
		return err
	}

	catalog, err := h.catalog.Fetch(pipeCtx, cms.CatalogQuery)
	if err != nil {
		log.Printf("[CHAT] catalog fetch failed, continuing without catalog: %v", err)
		catalog = nil
	}

	matches, err := h.store.Search(pipeCtx, queryVec, h.threshold, h.matchCount)
	if err != nil {
		log.Printf("[CHAT] vector search failed, continuing without retrieved context: %v", err)
		matches = nil
	}

	system := prompt.BuildSystemPrompt(h.persona, catalog, matches)
	if count, err := prompt.CountTokens(system); err == nil {
		log.Printf("[CHAT] system prompt assembled: %d tokens, %d matches, %d catalog entries",
			count, len(matches), len(catalog))
	}

	history := params.Messages
	c.Set(fiber.HeaderContentType, "text/plain; charset=utf-8")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	reqCtx.SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		streamCtx, cancel := context.WithTimeout(reqCtx, streamTimeout)
		defer cancel()

		// deltas are flushed as they arrive; once streaming has begun a
		// failure can only terminate the stream, already-sent output stays
		err := h.completer.StreamChat(streamCtx, system, history, func(delta string) error {
			if _, err := w.WriteString(delta); err != nil {
				return err
			}
			return w.Flush()
		})
		if err != nil {
			log.Printf("[CHAT] stream aborted: %v", err)
		}
	}))
	return nil
}
