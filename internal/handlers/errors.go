package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Macowen14/youtube-RAG/internal/rag"
	"github.com/Macowen14/youtube-RAG/internal/transcript"
	"github.com/Macowen14/youtube-RAG/internal/vectorstore"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// writeJSON writes v as a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, ErrorResponse{Error: message})
}

// statusForError maps domain errors to HTTP status codes:
// missing transcript -> 404, upstream fetch failure -> 502,
// vector store failure -> 503, everything else -> 500.
func statusForError(err error) int {
	var fetchErr *transcript.FetchError
	switch {
	case errors.Is(err, transcript.ErrTranscriptUnavailable):
		return http.StatusNotFound
	case errors.As(err, &fetchErr):
		return http.StatusBadGateway
	case errors.Is(err, vectorstore.ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		var parseErr *rag.ParseError
		if errors.As(err, &parseErr) {
			return http.StatusBadGateway
		}
		return http.StatusInternalServerError
	}
}
