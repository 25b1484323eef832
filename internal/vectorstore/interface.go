package vectorstore

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_vector_store.go -package=mocks github.com/Macowen14/youtube-RAG/internal/vectorstore VectorStore

import (
	"context"
	"errors"
)

// ErrUnavailable wraps vector store read/write failures so callers can map
// them to an appropriate response without string matching.
var ErrUnavailable = errors.New("vector store unavailable")

// Point represents a vector point with metadata.
type Point struct {
	ID   string
	Vec  []float32
	Meta map[string]any
}

// SearchResult represents a search result from vector search.
// Vec carries the stored vector so callers can re-rank results.
type SearchResult struct {
	PointID string
	Score   float32
	Vec     []float32
	Meta    map[string]any
}

// VectorStore defines the interface for vector storage operations.
// Every search and mutation is scoped to a single video: chunks for one
// video are never visible from another video's queries.
type VectorStore interface {
	// Upsert inserts or updates points in the collection.
	Upsert(ctx context.Context, collection string, points []Point) error

	// SearchWithVectors returns the fetchK nearest neighbors for the query
	// vector among points tagged with videoID, including stored vectors.
	// An empty result is not an error.
	SearchWithVectors(ctx context.Context, collection string, query []float32, fetchK int, videoID string) ([]SearchResult, error)

	// CountByVideo returns the number of stored points tagged with videoID.
	CountByVideo(ctx context.Context, collection, videoID string) (uint64, error)

	// DeleteByVideo removes all points tagged with videoID.
	DeleteByVideo(ctx context.Context, collection, videoID string) error
}
