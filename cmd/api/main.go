package main

import (
	"context"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"

	"github.com/Macowen14/youtube-RAG/internal/config"
	"github.com/Macowen14/youtube-RAG/internal/http"
	"github.com/Macowen14/youtube-RAG/internal/ingest"
	"github.com/Macowen14/youtube-RAG/internal/llm"
	"github.com/Macowen14/youtube-RAG/internal/rag"
	"github.com/Macowen14/youtube-RAG/internal/storage"
	"github.com/Macowen14/youtube-RAG/internal/transcript"
	"github.com/Macowen14/youtube-RAG/internal/vectorstore"
)

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Configure structured logging with configurable level and format
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	slog.Debug("Logging configured", "level", cfg.LogLevel.String(), "format", cfg.LogFormat)

	// Initialize the ingestion ledger database
	db, err := storage.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()

	if err := storage.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	slog.Info("Database initialized", "path", cfg.DBPath)

	videoRepo := storage.NewVideoRepo(db)

	// Initialize Qdrant vector store
	ctx := context.Background()
	vectorStore, err := vectorstore.NewQdrantStore(cfg.QdrantURL)
	if err != nil {
		log.Fatalf("Failed to create Qdrant client: %v", err)
	}

	// Ensure collection exists with correct vector size
	if err := vectorStore.EnsureCollection(ctx, cfg.QdrantCollection, cfg.QdrantVectorSize); err != nil {
		log.Fatalf("Failed to ensure Qdrant collection: %v", err)
	}
	slog.Info("Qdrant collection ready", "collection", cfg.QdrantCollection, "vector_size", cfg.QdrantVectorSize)

	// Validate embedding model vector size (fail-fast)
	llmClient := llm.NewClient(cfg.OllamaHost, cfg.OllamaCloudHost, cfg.OllamaAPIKey, cfg.EmbeddingModelName, cfg.QdrantVectorSize)
	testEmbeddings, err := llmClient.EmbedTexts(ctx, []string{"test"})
	if err != nil {
		log.Fatalf("Failed to validate embedding client: %v", err)
	}
	if len(testEmbeddings) == 0 || len(testEmbeddings[0]) != cfg.QdrantVectorSize {
		log.Fatalf("Embedding vector size mismatch: expected %d, got %d", cfg.QdrantVectorSize, len(testEmbeddings[0]))
	}
	slog.Info("Embedding client validated", "vector_size", cfg.QdrantVectorSize)

	// Create the ingestion pipeline
	fetcher := transcript.NewFetcher(cfg.YouTubeBaseURL)
	pipeline := ingest.NewPipeline(
		fetcher,
		videoRepo,
		llmClient,
		vectorStore,
		cfg.QdrantCollection,
	)

	// Create RAG engine
	ragEngine := rag.NewEngine(
		llmClient,
		vectorStore,
		cfg.QdrantCollection,
		llmClient,
		cfg.DefaultModelName,
	)
	slog.Info("RAG engine initialized", "default_model", cfg.DefaultModelName)

	// Create router with dependencies
	deps := &http.Deps{
		Pipeline:          pipeline,
		RAGEngine:         ragEngine,
		Videos:            videoRepo,
		PointCounter:      vectorStore,
		CollectionChecker: vectorStore,
		CollectionName:    cfg.QdrantCollection,
	}
	router := http.NewRouter(deps)

	// Start API server
	addr := ":" + cfg.APIPort
	slog.Info("Starting API server", "addr", addr)
	slog.Debug("Model configuration", "ollama_host", cfg.OllamaHost, "cloud_host", cfg.OllamaCloudHost, "embedding_model", cfg.EmbeddingModelName)
	if err := nethttp.ListenAndServe(addr, router); err != nil {
		log.Fatalf("API server failed to start: %v", err)
	}
}
