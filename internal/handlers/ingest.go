package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/Macowen14/youtube-RAG/internal/contextutil"
	"github.com/Macowen14/youtube-RAG/internal/ingest"
	"github.com/Macowen14/youtube-RAG/internal/transcript"
)

// Ingestor runs the ingestion pipeline for one video.
type Ingestor interface {
	Ingest(ctx context.Context, videoID string) (ingest.Result, error)
}

// IngestHandler handles HTTP requests to ingest a video transcript.
type IngestHandler struct {
	pipeline Ingestor
}

// NewIngestHandler creates a new IngestHandler.
func NewIngestHandler(pipeline Ingestor) *IngestHandler {
	return &IngestHandler{pipeline: pipeline}
}

// IngestRequest represents the HTTP request payload for ingestion. Either a
// bare video ID or a full YouTube URL is accepted; "video_url" is kept as an
// alias for the "url" key.
type IngestRequest struct {
	VideoID  string `json:"video_id,omitempty"`
	URL      string `json:"url,omitempty"`
	VideoURL string `json:"video_url,omitempty"`
}

// videoURL returns the URL field regardless of which wire key carried it.
func (r IngestRequest) videoURL() string {
	if r.URL != "" {
		return r.URL
	}
	return r.VideoURL
}

// IngestResponse represents the HTTP response payload for ingestion.
type IngestResponse struct {
	Message string `json:"message"`
	VideoID string `json:"video_id"`
	Chunks  int    `json:"chunks,omitempty"`
}

// ServeHTTP handles HTTP requests to ingest a video transcript.
func (h *IngestHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	var req IngestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	videoID := req.VideoID
	if url := req.videoURL(); videoID == "" && url != "" {
		id, err := transcript.VideoIDFromURL(url)
		if err != nil {
			logger.WarnContext(ctx, "invalid video URL", "url", url, "error", err)
			writeError(w, http.StatusBadRequest, "Invalid video URL")
			return
		}
		videoID = id
	}
	if videoID == "" {
		logger.WarnContext(ctx, "missing video identifier in request")
		writeError(w, http.StatusBadRequest, "video_id or url is required")
		return
	}

	result, err := h.pipeline.Ingest(ctx, videoID)
	if err != nil {
		logger.ErrorContext(ctx, "ingestion failed", "video_id", videoID, "error", err)
		writeError(w, statusForError(err), err.Error())
		return
	}

	resp := IngestResponse{
		Message: fmt.Sprintf("Successfully ingested video %s", result.VideoID),
		VideoID: result.VideoID,
		Chunks:  result.Chunks,
	}
	if result.AlreadyIngested {
		resp.Message = fmt.Sprintf("Video %s is already ingested", result.VideoID)
	}

	writeJSON(w, http.StatusOK, resp)
}
