package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Macowen14/youtube-RAG/internal/vectorstore"
)

type fakeChecker struct {
	exists  bool
	err     error
	info    *vectorstore.CollectionInfo
	infoErr error
}

func (f *fakeChecker) CollectionExists(ctx context.Context, collection string) (bool, error) {
	return f.exists, f.err
}

func (f *fakeChecker) GetCollectionInfo(ctx context.Context, collection string) (*vectorstore.CollectionInfo, error) {
	if f.infoErr != nil {
		return nil, f.infoErr
	}
	return f.info, nil
}

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name       string
		checker    *fakeChecker
		wantStatus int
		wantHealth string
	}{
		{
			"healthy",
			&fakeChecker{exists: true, info: &vectorstore.CollectionInfo{Status: "Green", PointsCount: 10, VectorSize: 768}},
			http.StatusOK,
			"healthy",
		},
		{"collection missing", &fakeChecker{exists: false}, http.StatusServiceUnavailable, "unhealthy"},
		{"store unreachable", &fakeChecker{err: errors.New("connection refused")}, http.StatusServiceUnavailable, "unhealthy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewHealthHandler(tt.checker, "videos")
			req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			var resp HealthResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if resp.Status != tt.wantHealth {
				t.Errorf("health = %q, want %q", resp.Status, tt.wantHealth)
			}
			if resp.Checks["vector_store"] == "" {
				t.Error("expected vector_store check result")
			}
		})
	}
}

func TestHealthHandler_ReportsCollectionDetails(t *testing.T) {
	checker := &fakeChecker{
		exists: true,
		info:   &vectorstore.CollectionInfo{Status: "Green", PointsCount: 42, VectorSize: 768},
	}
	handler := NewHealthHandler(checker, "videos")

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	var resp HealthResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Collection == nil {
		t.Fatal("expected collection details")
	}
	if resp.Collection.Name != "videos" || resp.Collection.Status != "Green" {
		t.Errorf("unexpected collection status %+v", resp.Collection)
	}
	if resp.Collection.Points != 42 || resp.Collection.VectorSize != 768 {
		t.Errorf("unexpected collection counts %+v", resp.Collection)
	}
}

func TestHealthHandler_InfoFailureStillHealthy(t *testing.T) {
	// The existence probe decides health; a failed detail lookup only drops
	// the collection block from the response.
	checker := &fakeChecker{exists: true, infoErr: errors.New("timeout")}
	handler := NewHealthHandler(checker, "videos")

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var resp HealthResponse
	_ = json.NewDecoder(w.Body).Decode(&resp)
	if resp.Collection != nil {
		t.Errorf("expected collection details to be omitted, got %+v", resp.Collection)
	}
}
