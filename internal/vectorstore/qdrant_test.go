package vectorstore

import (
	"context"
	"testing"

	"github.com/qdrant/go-client/qdrant"
)

func TestNewQdrantStore(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{"standard URL", "http://localhost:6333", false},
		{"no port", "http://qdrant.internal", false},
		{"no scheme host only", "localhost", false},
		{"invalid URL", "http://[::1]:named", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := NewQdrantStore(tt.url)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if store == nil {
				t.Fatal("expected store")
			}
		})
	}
}

func TestQdrantStore_SearchWithVectors_Validation(t *testing.T) {
	store, err := NewQdrantStore("http://localhost:6333")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := store.SearchWithVectors(context.Background(), "videos", []float32{1}, 0, "abc123"); err == nil {
		t.Error("expected error for non-positive fetchK")
	}
	if _, err := store.SearchWithVectors(context.Background(), "videos", []float32{1}, 5, ""); err == nil {
		t.Error("expected error for empty videoID")
	}
}

func TestQdrantStore_DeleteByVideo_Validation(t *testing.T) {
	store, err := NewQdrantStore("http://localhost:6333")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := store.DeleteByVideo(context.Background(), "videos", ""); err == nil {
		t.Error("expected error for empty videoID")
	}
}

func TestQdrantStore_Upsert_EmptyPointsIsNoop(t *testing.T) {
	store, err := NewQdrantStore("http://localhost:6333")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// No points means no client call, so this succeeds without a server.
	if err := store.Upsert(context.Background(), "videos", nil); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestVideoFilter(t *testing.T) {
	filter := videoFilter("abc123")
	if len(filter.Must) != 1 {
		t.Fatalf("expected 1 condition, got %d", len(filter.Must))
	}
}

func TestConvertValue(t *testing.T) {
	tests := []struct {
		name  string
		value *qdrant.Value
		want  any
	}{
		{"string", &qdrant.Value{Kind: &qdrant.Value_StringValue{StringValue: "hello"}}, "hello"},
		{"integer", &qdrant.Value{Kind: &qdrant.Value_IntegerValue{IntegerValue: 42}}, int64(42)},
		{"double", &qdrant.Value{Kind: &qdrant.Value_DoubleValue{DoubleValue: 1.5}}, 1.5},
		{"bool", &qdrant.Value{Kind: &qdrant.Value_BoolValue{BoolValue: true}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := convertValue(tt.value); got != tt.want {
				t.Errorf("convertValue = %v (%T), want %v (%T)", got, got, tt.want, tt.want)
			}
		})
	}
}

func TestConvertPayloadToMap(t *testing.T) {
	payload := map[string]*qdrant.Value{
		"video_id":    {Kind: &qdrant.Value_StringValue{StringValue: "abc123"}},
		"chunk_index": {Kind: &qdrant.Value_IntegerValue{IntegerValue: 3}},
		"nil_value":   nil,
	}

	got := convertPayloadToMap(payload)

	if got["video_id"] != "abc123" {
		t.Errorf("video_id = %v", got["video_id"])
	}
	if got["chunk_index"] != int64(3) {
		t.Errorf("chunk_index = %v", got["chunk_index"])
	}
	if _, ok := got["nil_value"]; ok {
		t.Error("nil values must be dropped")
	}
}
