package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"blograg/content/cms"
	"blograg/indexer/service"
	"blograg/model"
	"blograg/store"
	"blograg/types"
)

func init() {
	mustLoadEnvVariables()
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if os.Getenv("DATABASE_URL") == "" {
		log.Fatal(types.ConfigurationError{Key: "DATABASE_URL"})
	}

	pool, err := store.NewPostgresStore(ctx, os.Getenv("DATABASE_URL"))
	if err != nil {
		log.Fatal("error to connect to Postgres database ", err)
	}
	defer pool.Close()

	if err := pool.Init(ctx); err != nil {
		log.Fatal("error to create tables ", err)
	}

	cmsClient, err := cms.NewClient()
	if err != nil {
		log.Fatal(err)
	}

	embedder, err := model.NewEmbedder(model.InputTypeDocument)
	if err != nil {
		log.Fatal(err)
	}

	stats, err := service.New(pool, cmsClient, embedder).Run(ctx)
	if err != nil {
		log.Fatal("❌ Indexing failed: ", err)
	}

	banner := strings.Repeat("=", 60)
	fmt.Println("\n" + banner)
	fmt.Println("🎉 Indexing complete!")
	fmt.Println(banner)
	fmt.Println("📊 Stats:")
	fmt.Printf("   Total blogs processed: %d\n", stats.Documents)
	fmt.Printf("   Total chunks: %d\n", stats.Chunks)
	fmt.Printf("   Successfully indexed: %d\n", stats.Indexed)
	fmt.Printf("   Errors: %d\n", stats.Errors)
	fmt.Println(banner)
}

func mustLoadEnvVariables() {
	err := godotenv.Load()
	if err != nil {
		log.Println("no .env file found, relying on the environment")
	}
}
