package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Macowen14/youtube-RAG/internal/contextutil"
	"github.com/Macowen14/youtube-RAG/internal/rag"
)

// QueryHandler handles HTTP requests for questions about an ingested video.
type QueryHandler struct {
	ragEngine rag.Engine
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(ragEngine rag.Engine) *QueryHandler {
	return &QueryHandler{ragEngine: ragEngine}
}

// QueryRequest represents the HTTP request payload for queries.
type QueryRequest struct {
	VideoID   string `json:"video_id"`
	Question  string `json:"question"`
	ModelName string `json:"model_name,omitempty"`
}

// QueryResponse represents the HTTP response payload for queries.
type QueryResponse struct {
	Answer string `json:"answer"`
	Source string `json:"source"`
	Error  string `json:"error,omitempty"`
}

// ServeHTTP handles HTTP requests for queries. Engine failures do not surface
// as HTTP errors; the engine degrades them into a fallback answer, so any
// well-formed request gets a 200.
func (h *QueryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	var req QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.VideoID == "" {
		logger.WarnContext(ctx, "missing video_id in request")
		writeError(w, http.StatusBadRequest, "video_id is required")
		return
	}
	if req.Question == "" {
		logger.WarnContext(ctx, "empty question in request")
		writeError(w, http.StatusBadRequest, "question is required")
		return
	}

	result := h.ragEngine.Ask(ctx, rag.AskRequest{
		VideoID:   req.VideoID,
		Question:  req.Question,
		ModelName: req.ModelName,
	})

	writeJSON(w, http.StatusOK, QueryResponse{
		Answer: result.Answer,
		Source: string(result.Source),
		Error:  result.Err,
	})
}
