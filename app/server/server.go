package server

import (
	"context"
	"log"
	"log/slog"
	"os"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"blograg/app/api"
	"blograg/app/middleware"
	"blograg/app/prompt"
	"blograg/content/cms"
	"blograg/model"
	"blograg/store"
)

var config = fiber.Config{
	ErrorHandler: api.ErrorHandler,
}

type Server struct {
	listenAddr string
	logger     *slog.Logger
}

func NewServer(addr string) *Server {
	return &Server{
		listenAddr: addr,
		logger:     slog.Default(),
	}
}

func (s *Server) Stop() {
	s.logger.Info("server stopped")
}

func (s *Server) Run() {
	ctx := context.Background()
	pool, err := store.NewPostgresStore(ctx, os.Getenv("DATABASE_URL"))
	if err != nil {
		log.Fatal("error to connect to Postgres database ", err)
		return
	}

	if err := pool.Init(ctx); err != nil {
		log.Fatal("error to create tables ", err)
		return
	}

	cmsClient, err := cms.NewClient()
	if err != nil {
		log.Fatal("error to create CMS client ", err)
		return
	}

	embedder, err := model.NewEmbedder(model.InputTypeQuery)
	if err != nil {
		log.Fatal("error to create embedder ", err)
		return
	}

	persona, err := prompt.LoadPersona(envOr("PERSONA_FILE", "persona.toml"))
	if err != nil {
		log.Fatal("error to load persona ", err)
		return
	}

	var (
		app          = fiber.New(config)
		checkHandler = api.NewCheckHandler()
		chatHandler  = api.NewChatHandler(
			pool,
			cmsClient,
			embedder,
			model.NewCompletionClient(),
			persona,
			floatEnv("MATCH_THRESHOLD", api.DefaultMatchThreshold),
			intEnv("MATCH_COUNT", api.DefaultMatchCount),
		)
		check = app.Group("/check")
		apiv1 = app.Group("/api/v1")
	)

	app.Use(middleware.AllowWidget(envOr("CHAT_WIDGET_ORIGIN", "*")))

	check.Get("/healthy", checkHandler.HandleHealthy)
	apiv1.Post("/chat", chatHandler.HandleChat)

	if err := app.Listen(s.listenAddr); err != nil {
		s.logger.Error("error to start server", "error", err.Error())
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func floatEnv(key string, fallback float64) float64 {
	if v, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		return v
	}
	return fallback
}

func intEnv(key string, fallback int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}
