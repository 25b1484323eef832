package rag

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/mock/gomock"

	"github.com/Macowen14/youtube-RAG/internal/vectorstore"
	vectorstore_mocks "github.com/Macowen14/youtube-RAG/internal/vectorstore/mocks"
)

type fakeEmbedder struct {
	vec []float32
	err error
}

func (f *fakeEmbedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	return [][]float32{f.vec}, nil
}

type fakeChat struct {
	response   string
	err        error
	lastModel  string
	lastPrompt string
}

func (f *fakeChat) ChatJSON(ctx context.Context, model, prompt string) (string, error) {
	f.lastModel = model
	f.lastPrompt = prompt
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func chunkResult(text string, vec ...float32) vectorstore.SearchResult {
	return vectorstore.SearchResult{
		Vec:  vec,
		Meta: map[string]any{"video_id": "abc123", "text": text},
	}
}

func TestEngine_Ask_AnswersFromContext(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := vectorstore_mocks.NewMockVectorStore(ctrl)
	store.EXPECT().
		SearchWithVectors(gomock.Any(), "videos", gomock.Any(), queryFetchK, "abc123").
		Return([]vectorstore.SearchResult{
			chunkResult("goroutines are lightweight threads", 1, 0),
			chunkResult("channels coordinate goroutines", 0.9, 0.1),
		}, nil)

	chat := &fakeChat{response: `{"answer": "Goroutines are lightweight threads.", "source": "Context"}`}
	engine := NewEngine(&fakeEmbedder{vec: []float32{1, 0}}, store, "videos", chat, "default-model")

	result := engine.Ask(context.Background(), AskRequest{VideoID: "abc123", Question: "What are goroutines?"})

	if result.Err != "" {
		t.Fatalf("unexpected error field: %q", result.Err)
	}
	if result.Source != SourceContext {
		t.Errorf("source = %q, want %q", result.Source, SourceContext)
	}
	if result.Answer != "Goroutines are lightweight threads." {
		t.Errorf("unexpected answer %q", result.Answer)
	}
	if !strings.Contains(chat.lastPrompt, "goroutines are lightweight threads") {
		t.Error("prompt does not contain retrieved context")
	}
	if chat.lastModel != "default-model" {
		t.Errorf("model = %q, want default", chat.lastModel)
	}
}

func TestEngine_Ask_ModelOverride(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := vectorstore_mocks.NewMockVectorStore(ctrl)
	store.EXPECT().
		SearchWithVectors(gomock.Any(), "videos", gomock.Any(), queryFetchK, "abc123").
		Return(nil, nil)

	chat := &fakeChat{response: `{"answer": "ok", "source": "Internal Knowledge"}`}
	engine := NewEngine(&fakeEmbedder{vec: []float32{1, 0}}, store, "videos", chat, "default-model")

	engine.Ask(context.Background(), AskRequest{VideoID: "abc123", Question: "q", ModelName: "custom-cloud"})

	if chat.lastModel != "custom-cloud" {
		t.Errorf("model = %q, want custom-cloud", chat.lastModel)
	}
}

func TestEngine_Ask_EmptyRetrievalUsesSentinel(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := vectorstore_mocks.NewMockVectorStore(ctrl)
	store.EXPECT().
		SearchWithVectors(gomock.Any(), "videos", gomock.Any(), queryFetchK, "abc123").
		Return(nil, nil)

	chat := &fakeChat{response: `{"answer": "From general knowledge.", "source": "Internal Knowledge"}`}
	engine := NewEngine(&fakeEmbedder{vec: []float32{1, 0}}, store, "videos", chat, "m")

	result := engine.Ask(context.Background(), AskRequest{VideoID: "abc123", Question: "q"})

	if result.Err != "" {
		t.Fatalf("unexpected error field: %q", result.Err)
	}
	if !strings.Contains(chat.lastPrompt, noContextSentinel) {
		t.Error("prompt does not contain the no-context sentinel")
	}
}

func TestEngine_Ask_FallbackOnStoreFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := vectorstore_mocks.NewMockVectorStore(ctrl)
	store.EXPECT().
		SearchWithVectors(gomock.Any(), "videos", gomock.Any(), queryFetchK, "abc123").
		Return(nil, errors.New("qdrant unreachable"))

	engine := NewEngine(&fakeEmbedder{vec: []float32{1, 0}}, store, "videos", &fakeChat{}, "m")

	result := engine.Ask(context.Background(), AskRequest{VideoID: "abc123", Question: "q"})

	if result.Answer != fallbackAnswer {
		t.Errorf("answer = %q, want fallback", result.Answer)
	}
	if result.Source != SourceInternalKnowledge {
		t.Errorf("source = %q, want %q", result.Source, SourceInternalKnowledge)
	}
	if !strings.Contains(result.Err, "qdrant unreachable") {
		t.Errorf("error field %q does not carry the cause", result.Err)
	}
}

func TestEngine_Ask_FallbackOnMalformedModelOutput(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := vectorstore_mocks.NewMockVectorStore(ctrl)
	store.EXPECT().
		SearchWithVectors(gomock.Any(), "videos", gomock.Any(), queryFetchK, "abc123").
		Return(nil, nil)

	chat := &fakeChat{response: "this is not json"}
	engine := NewEngine(&fakeEmbedder{vec: []float32{1, 0}}, store, "videos", chat, "m")

	result := engine.Ask(context.Background(), AskRequest{VideoID: "abc123", Question: "q"})

	if result.Answer != fallbackAnswer {
		t.Errorf("answer = %q, want fallback", result.Answer)
	}
	if result.Err == "" {
		t.Error("expected error field to be populated")
	}
}

func TestEngine_Ask_FallbackOnEmbedFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := vectorstore_mocks.NewMockVectorStore(ctrl)
	engine := NewEngine(&fakeEmbedder{err: errors.New("embedding model down")}, store, "videos", &fakeChat{}, "m")

	result := engine.Ask(context.Background(), AskRequest{VideoID: "abc123", Question: "q"})

	if result.Answer != fallbackAnswer {
		t.Errorf("answer = %q, want fallback", result.Answer)
	}
}

func TestEngine_Notes_GeneratesTitle(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := vectorstore_mocks.NewMockVectorStore(ctrl)
	store.EXPECT().
		SearchWithVectors(gomock.Any(), "videos", gomock.Any(), notesFetchK, "abc123").
		Return([]vectorstore.SearchResult{chunkResult("mutexes protect shared state", 1, 0)}, nil)

	chat := &fakeChat{response: `{"answer": "# Mastering Mutexes\n\nNotes body.", "source": "Context & Internal Knowledge"}`}
	engine := NewEngine(&fakeEmbedder{vec: []float32{1, 0}}, store, "videos", chat, "m")

	result, err := engine.Notes(context.Background(), NotesRequest{VideoID: "abc123", Topic: "mutexes"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Title != "Mastering Mutexes" {
		t.Errorf("title = %q, want %q", result.Title, "Mastering Mutexes")
	}
	if result.Source != SourceBoth {
		t.Errorf("source = %q, want %q", result.Source, SourceBoth)
	}
}

func TestEngine_Notes_PropagatesErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := vectorstore_mocks.NewMockVectorStore(ctrl)
	storeErr := errors.New("qdrant unreachable")
	store.EXPECT().
		SearchWithVectors(gomock.Any(), "videos", gomock.Any(), notesFetchK, "abc123").
		Return(nil, storeErr)

	engine := NewEngine(&fakeEmbedder{vec: []float32{1, 0}}, store, "videos", &fakeChat{}, "m")

	_, err := engine.Notes(context.Background(), NotesRequest{VideoID: "abc123", Topic: "t"})
	if !errors.Is(err, storeErr) {
		t.Errorf("expected store error to propagate, got %v", err)
	}
}

func TestEngine_Notes_PropagatesParseError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := vectorstore_mocks.NewMockVectorStore(ctrl)
	store.EXPECT().
		SearchWithVectors(gomock.Any(), "videos", gomock.Any(), notesFetchK, "abc123").
		Return(nil, nil)

	chat := &fakeChat{response: "garbage"}
	engine := NewEngine(&fakeEmbedder{vec: []float32{1, 0}}, store, "videos", chat, "m")

	_, err := engine.Notes(context.Background(), NotesRequest{VideoID: "abc123", Topic: "t"})

	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Errorf("expected *ParseError, got %v", err)
	}
}
