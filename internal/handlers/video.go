package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Macowen14/youtube-RAG/internal/contextutil"
	"github.com/Macowen14/youtube-RAG/internal/storage"
)

// PointCounter reports how many chunks a video has in the vector store.
type PointCounter interface {
	CountByVideo(ctx context.Context, collection, videoID string) (uint64, error)
}

// VideoStatusHandler handles HTTP requests for a video's ingestion status.
type VideoStatusHandler struct {
	videos     storage.VideoStore
	counter    PointCounter
	collection string
}

// NewVideoStatusHandler creates a new VideoStatusHandler.
func NewVideoStatusHandler(videos storage.VideoStore, counter PointCounter, collection string) *VideoStatusHandler {
	return &VideoStatusHandler{
		videos:     videos,
		counter:    counter,
		collection: collection,
	}
}

// VideoStatusResponse represents a video's ingestion status.
type VideoStatusResponse struct {
	VideoID string `json:"video_id"`
	Status  string `json:"status"`
	// Chunks is the chunk count recorded in the ledger.
	Chunks int `json:"chunks"`
	// StoredPoints is the live point count in the vector store. Omitted when
	// the store cannot be reached; the ledger remains the source of truth.
	StoredPoints *uint64 `json:"stored_points,omitempty"`
}

// ServeHTTP handles HTTP requests for a video's ingestion status.
func (h *VideoStatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	videoID := chi.URLParam(r, "videoID")
	if videoID == "" {
		writeError(w, http.StatusBadRequest, "video id is required")
		return
	}

	rec, err := h.videos.Get(ctx, videoID)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "video not ingested")
		return
	}
	if err != nil {
		logger.ErrorContext(ctx, "failed to load video record", "video_id", videoID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load video record")
		return
	}

	resp := VideoStatusResponse{
		VideoID: rec.VideoID,
		Status:  rec.Status,
		Chunks:  rec.ChunkCount,
	}

	if count, err := h.counter.CountByVideo(ctx, h.collection, videoID); err != nil {
		logger.WarnContext(ctx, "failed to count stored points", "video_id", videoID, "error", err)
	} else {
		resp.StoredPoints = &count
	}

	writeJSON(w, http.StatusOK, resp)
}
