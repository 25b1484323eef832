package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Macowen14/youtube-RAG/internal/handlers"
	"github.com/Macowen14/youtube-RAG/internal/rag"
	"github.com/Macowen14/youtube-RAG/internal/storage"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	Pipeline          handlers.Ingestor
	RAGEngine         rag.Engine
	Videos            storage.VideoStore
	PointCounter      handlers.PointCounter
	CollectionChecker handlers.CollectionChecker
	CollectionName    string
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(LoggerMiddleware)
	r.Use(CORS)

	ingestHandler := handlers.NewIngestHandler(deps.Pipeline)
	queryHandler := handlers.NewQueryHandler(deps.RAGEngine)
	notesHandler := handlers.NewNotesHandler(deps.RAGEngine)
	healthHandler := handlers.NewHealthHandler(deps.CollectionChecker, deps.CollectionName)
	videoHandler := handlers.NewVideoStatusHandler(deps.Videos, deps.PointCounter, deps.CollectionName)

	r.Method(http.MethodPost, "/ingest", ingestHandler)
	r.Method(http.MethodPost, "/query", queryHandler)
	r.Method(http.MethodPost, "/notes", notesHandler)
	r.Method(http.MethodGet, "/videos/{videoID}", videoHandler)
	r.Method(http.MethodGet, "/healthz", healthHandler)

	return r
}
