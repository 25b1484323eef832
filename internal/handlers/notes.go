package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Macowen14/youtube-RAG/internal/contextutil"
	"github.com/Macowen14/youtube-RAG/internal/rag"
)

// NotesHandler handles HTTP requests for notes generation.
type NotesHandler struct {
	ragEngine rag.Engine
}

// NewNotesHandler creates a new NotesHandler.
func NewNotesHandler(ragEngine rag.Engine) *NotesHandler {
	return &NotesHandler{ragEngine: ragEngine}
}

// NotesRequest represents the HTTP request payload for notes generation.
type NotesRequest struct {
	VideoID   string `json:"video_id"`
	Topic     string `json:"topic"`
	ModelName string `json:"model_name,omitempty"`
}

// NotesResponse represents the HTTP response payload for notes generation.
type NotesResponse struct {
	Answer string `json:"answer"`
	Source string `json:"source"`
	Title  string `json:"title,omitempty"`
}

// ServeHTTP handles HTTP requests for notes generation. Unlike queries,
// engine failures surface as HTTP errors.
func (h *NotesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	var req NotesRequest
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
	if req.Topic == "" {
		logger.WarnContext(ctx, "empty topic in request")
		writeError(w, http.StatusBadRequest, "topic is required")
		return
	}

	result, err := h.ragEngine.Notes(ctx, rag.NotesRequest{
		VideoID:   req.VideoID,
		Topic:     req.Topic,
		ModelName: req.ModelName,
	})
	if err != nil {
		logger.ErrorContext(ctx, "notes generation failed", "video_id", req.VideoID, "error", err)
		writeError(w, statusForError(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, NotesResponse{
		Answer: result.Answer,
		Source: string(result.Source),
		Title:  result.Title,
	})
}
