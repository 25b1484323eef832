package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/Macowen14/youtube-RAG/internal/contextutil"
	"github.com/Macowen14/youtube-RAG/internal/vectorstore"
)

// CollectionChecker reports whether a vector store collection exists and
// describes it when it does.
type CollectionChecker interface {
	CollectionExists(ctx context.Context, collection string) (bool, error)
	GetCollectionInfo(ctx context.Context, collection string) (*vectorstore.CollectionInfo, error)
}

// HealthHandler handles HTTP requests for health checks.
type HealthHandler struct {
	store              CollectionChecker
	collectionName     string
	healthCheckTimeout time.Duration
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(store CollectionChecker, collectionName string) *HealthHandler {
	return &HealthHandler{
		store:              store,
		collectionName:     collectionName,
		healthCheckTimeout: 5 * time.Second,
	}
}

// CollectionStatus describes the vector store collection backing the service.
type CollectionStatus struct {
	Name       string `json:"name"`
	Status     string `json:"status"`
	Points     int    `json:"points"`
	VectorSize int    `json:"vector_size"`
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	// Overall health status: "healthy" or "unhealthy"
	Status string `json:"status"`

	// Timestamp of the health check
	Timestamp string `json:"timestamp"`

	// Individual check results
	Checks map[string]string `json:"checks"`

	// Collection details, present when the vector store is reachable
	Collection *CollectionStatus `json:"collection,omitempty"`

	// List of issues (only present if status is unhealthy)
	Issues []string `json:"issues,omitempty"`
}

// ServeHTTP handles HTTP requests for health checks. Returns 200 when the
// vector store collection is reachable, 503 otherwise.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	checkCtx, cancel := context.WithTimeout(ctx, h.healthCheckTimeout)
	defer cancel()

	checks := make(map[string]string)
	var issues []string
	var collection *CollectionStatus

	exists, err := h.store.CollectionExists(checkCtx, h.collectionName)
	if err != nil {
		logger.WarnContext(ctx, "vector store health check failed", "error", err)
	}
	if err == nil && exists {
		checks["vector_store"] = "ok"

		info, err := h.store.GetCollectionInfo(checkCtx, h.collectionName)
		if err != nil {
			logger.WarnContext(ctx, "failed to get collection info", "collection", h.collectionName, "error", err)
		} else {
			collection = &CollectionStatus{
				Name:       h.collectionName,
				Status:     info.Status,
				Points:     info.PointsCount,
				VectorSize: info.VectorSize,
			}
		}
	} else {
		checks["vector_store"] = "error"
		issues = append(issues, "vector_store_unavailable")
	}

	status := "healthy"
	httpStatus := http.StatusOK
	if len(issues) > 0 {
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status:     status,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Checks:     checks,
		Collection: collection,
		Issues:     issues,
	})
}
