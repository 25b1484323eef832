package ingest

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/Macowen14/youtube-RAG/internal/contextutil"
	"github.com/Macowen14/youtube-RAG/internal/storage"
	"github.com/Macowen14/youtube-RAG/internal/vectorstore"
)

// TranscriptFetcher retrieves a video's transcript as plain text.
type TranscriptFetcher interface {
	Fetch(ctx context.Context, videoID string) (string, error)
}

// Embedder generates one embedding vector per input text.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Result describes the outcome of an ingestion.
type Result struct {
	VideoID         string
	Chunks          int
	AlreadyIngested bool
}

// Pipeline orchestrates ingesting a video: claim the ledger row, fetch the
// transcript, split it, embed the chunks and store them in the vector store.
type Pipeline struct {
	fetcher     TranscriptFetcher
	videos      storage.VideoStore
	embedder    Embedder
	vectorStore vectorstore.VectorStore
	collection  string
	logger      *slog.Logger
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(
	fetcher TranscriptFetcher,
	videos storage.VideoStore,
	embedder Embedder,
	vectorStore vectorstore.VectorStore,
	collection string,
) *Pipeline {
	return &Pipeline{
		fetcher:     fetcher,
		videos:      videos,
		embedder:    embedder,
		vectorStore: vectorStore,
		collection:  collection,
		logger:      slog.Default(),
	}
}

// Ingest ingests a video's transcript. A second ingest for the same video is
// a no-op success. The ledger claim happens before any fetching, so two
// concurrent ingests of the same video cannot both write chunks; exactly one
// runs the pipeline and the other observes AlreadyIngested.
func (p *Pipeline) Ingest(ctx context.Context, videoID string) (Result, error) {
	logger := contextutil.LoggerFromContext(ctx)

	claimed, err := p.videos.Claim(ctx, videoID)
	if err != nil {
		logger.ErrorContext(ctx, "failed to claim video", "video_id", videoID, "error", err)
		return Result{}, fmt.Errorf("failed to claim video %s: %w", videoID, err)
	}
	if !claimed {
		logger.InfoContext(ctx, "video already ingested, skipping", "video_id", videoID)
		return Result{VideoID: videoID, AlreadyIngested: true}, nil
	}

	result, err := p.run(ctx, videoID)
	if err != nil {
		logger.ErrorContext(ctx, "ingestion failed, releasing claim", "video_id", videoID, "error", err)
		// Sweep any partial write and release the claim so the ingest can be
		// retried. Sweep failures are logged but do not mask the cause.
		if derr := p.vectorStore.DeleteByVideo(ctx, p.collection, videoID); derr != nil {
			logger.WarnContext(ctx, "failed to sweep partial chunks", "video_id", videoID, "error", derr)
		}
		if rerr := p.videos.Release(ctx, videoID); rerr != nil {
			logger.WarnContext(ctx, "failed to release video claim", "video_id", videoID, "error", rerr)
		}
		return Result{}, err
	}

	return result, nil
}

// run executes the fetch, split, embed and store steps for a claimed video.
func (p *Pipeline) run(ctx context.Context, videoID string) (Result, error) {
	logger := contextutil.LoggerFromContext(ctx)

	text, err := p.fetcher.Fetch(ctx, videoID)
	if err != nil {
		return Result{}, fmt.Errorf("failed to fetch transcript for %s: %w", videoID, err)
	}

	chunks := Split(text)
	if len(chunks) == 0 {
		return Result{}, fmt.Errorf("transcript for %s is empty", videoID)
	}

	embeddings, err := p.embedder.EmbedTexts(ctx, chunks)
	if err != nil {
		return Result{}, fmt.Errorf("failed to embed chunks for %s: %w", videoID, err)
	}
	if len(embeddings) != len(chunks) {
		return Result{}, fmt.Errorf("embedding count mismatch: expected %d, got %d", len(chunks), len(embeddings))
	}

	points := make([]vectorstore.Point, len(chunks))
	for i, chunk := range chunks {
		points[i] = vectorstore.Point{
			ID:  uuid.New().String(),
			Vec: embeddings[i],
			Meta: map[string]any{
				"video_id":    videoID,
				"chunk_index": i,
				"text":        chunk,
			},
		}
	}

	if err := p.vectorStore.Upsert(ctx, p.collection, points); err != nil {
		return Result{}, fmt.Errorf("failed to store chunks for %s: %w", videoID, err)
	}

	if err := p.videos.MarkIngested(ctx, videoID, len(chunks)); err != nil {
		return Result{}, fmt.Errorf("failed to record ingestion of %s: %w", videoID, err)
	}

	logger.InfoContext(ctx, "ingested video", "video_id", videoID, "chunks", len(chunks))
	return Result{VideoID: videoID, Chunks: len(chunks)}, nil
}
