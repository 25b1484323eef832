package rag

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Macowen14/youtube-RAG/internal/contextutil"
	"github.com/Macowen14/youtube-RAG/internal/vectorstore"
)

// Retrieval parameters: fetchK nearest neighbors are fetched, then re-ranked
// down to topK by maximal marginal relevance.
const (
	queryTopK   = 5
	queryFetchK = 20
	notesTopK   = 10
	notesFetchK = 30
)

const (
	// noContextSentinel stands in for the context block when retrieval
	// returns nothing for the video.
	noContextSentinel = "No relevant video context found."
	// fallbackAnswer is returned when query answering fails for any reason.
	fallbackAnswer = "An error occurred while processing your request."
)

// Embedder generates one embedding vector per input text.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// ChatModel sends a prompt to a model and returns its raw JSON-mode output.
type ChatModel interface {
	ChatJSON(ctx context.Context, model, prompt string) (string, error)
}

// Engine answers questions and generates notes over ingested transcripts.
type Engine interface {
	// Ask answers a question about a video. It never fails: any error
	// degrades to a safe fallback result carrying the failure detail.
	Ask(ctx context.Context, req AskRequest) AnswerResult
	// Notes generates topic notes for a video. Errors propagate.
	Notes(ctx context.Context, req NotesRequest) (AnswerResult, error)
}

// ragEngine implements the Engine interface.
type ragEngine struct {
	embedder     Embedder
	vectorStore  vectorstore.VectorStore
	collection   string
	chat         ChatModel
	defaultModel string
	logger       *slog.Logger
}

// NewEngine creates a new RAG engine.
func NewEngine(
	embedder Embedder,
	vectorStore vectorstore.VectorStore,
	collection string,
	chat ChatModel,
	defaultModel string,
) Engine {
	return &ragEngine{
		embedder:     embedder,
		vectorStore:  vectorStore,
		collection:   collection,
		chat:         chat,
		defaultModel: defaultModel,
		logger:       slog.Default(),
	}
}

const formatInstructions = `Respond with a single JSON object matching this schema:
{"answer": "<the detailed answer to the question or the generated notes>", "source": "<one of: Context, Internal Knowledge, Context & Internal Knowledge>"}
Return only the JSON object, with no surrounding text.`

const queryPromptTemplate = `You are a helpful assistant answering questions about a YouTube video.

Context from video transcript:
%s

Question: %s

Instructions:
1. Analyze the Context to see if it contains the answer to the Question.
2. IF the Context contains the answer:
- Answer strictly using the information provided.
- Set "source" to "Context".
3. IF the Context is empty, irrelevant, or does not contain the answer:
- You MUST provide a helpful answer using your own internal knowledge.
- In your answer text, you MUST start with: "This information is not covered in the video, but based on general knowledge..."
- Set "source" to "Internal Knowledge".

Format Instructions:
%s`

const notesPromptTemplate = `You are a helpful assistant generating notes on a YouTube video.

Context from video transcript:
%s

Topic: %s

Instructions:
1. Generate comprehensive notes using the context.
2. You are ENCOURAGED to add your own relevant knowledge.
3. Clearly distinguish between video content and your additions.
4. Create a captivating and engaging title for the topic at the beginning of the notes.

Format Instructions:
%s`

// Ask answers a question about a video using retrieved transcript context.
// Availability wins over error transparency here: every failure is logged
// and converted into the fallback result.
func (e *ragEngine) Ask(ctx context.Context, req AskRequest) AnswerResult {
	logger := e.getLogger(ctx)
	logger.InfoContext(ctx, "query started", "video_id", req.VideoID, "question_length", len(req.Question))

	contextText, err := e.retrieveContext(ctx, req.VideoID, req.Question, queryTopK, queryFetchK)
	if err != nil {
		logger.ErrorContext(ctx, "query failed, returning fallback", "video_id", req.VideoID, "error", err)
		return fallbackResult(err)
	}
	if contextText == "" {
		logger.InfoContext(ctx, "no context found for video", "video_id", req.VideoID)
		contextText = noContextSentinel
	}

	prompt := fmt.Sprintf(queryPromptTemplate, contextText, req.Question, formatInstructions)
	result, err := e.generate(ctx, req.ModelName, prompt)
	if err != nil {
		logger.ErrorContext(ctx, "query failed, returning fallback", "video_id", req.VideoID, "error", err)
		return fallbackResult(err)
	}

	logger.InfoContext(ctx, "query completed", "video_id", req.VideoID, "source", result.Source, "answer_length", len(result.Answer))
	return result
}

// Notes generates topic notes for a video. Unlike Ask, failures (including
// malformed model output) propagate to the caller.
func (e *ragEngine) Notes(ctx context.Context, req NotesRequest) (AnswerResult, error) {
	logger := e.getLogger(ctx)
	logger.InfoContext(ctx, "notes generation started", "video_id", req.VideoID, "topic", req.Topic)

	contextText, err := e.retrieveContext(ctx, req.VideoID, req.Topic, notesTopK, notesFetchK)
	if err != nil {
		logger.ErrorContext(ctx, "notes generation failed", "video_id", req.VideoID, "error", err)
		return AnswerResult{}, err
	}
	if contextText == "" {
		logger.InfoContext(ctx, "no context found for video", "video_id", req.VideoID)
		contextText = noContextSentinel
	}

	prompt := fmt.Sprintf(notesPromptTemplate, contextText, req.Topic, formatInstructions)
	result, err := e.generate(ctx, req.ModelName, prompt)
	if err != nil {
		logger.ErrorContext(ctx, "notes generation failed", "video_id", req.VideoID, "error", err)
		return AnswerResult{}, err
	}

	result.Title = ExtractTitle(result.Answer)

	logger.InfoContext(ctx, "notes generation completed", "video_id", req.VideoID, "source", result.Source, "title", result.Title)
	return result, nil
}

// retrieveContext embeds the query, fetches fetchK neighbors scoped to the
// video, re-ranks them down to topK with MMR, and joins the chunk texts.
// Returns "" when the video has no stored chunks.
func (e *ragEngine) retrieveContext(ctx context.Context, videoID, query string, topK, fetchK int) (string, error) {
	embeddings, err := e.embedder.EmbedTexts(ctx, []string{query})
	if err != nil {
		return "", fmt.Errorf("failed to embed query: %w", err)
	}
	if len(embeddings) == 0 {
		return "", fmt.Errorf("no embedding returned for query")
	}
	queryVector := embeddings[0]

	results, err := e.vectorStore.SearchWithVectors(ctx, e.collection, queryVector, fetchK, videoID)
	if err != nil {
		return "", err
	}

	ranked := maximalMarginalRelevance(queryVector, results, topK)

	parts := make([]string, 0, len(ranked))
	for _, result := range ranked {
		if text, ok := result.Meta["text"].(string); ok && text != "" {
			parts = append(parts, text)
		}
	}

	return strings.Join(parts, "\n\n"), nil
}

// generate sends the prompt to the selected model and parses its output.
func (e *ragEngine) generate(ctx context.Context, modelName, prompt string) (AnswerResult, error) {
	model := modelName
	if model == "" {
		model = e.defaultModel
	}

	raw, err := e.chat.ChatJSON(ctx, model, prompt)
	if err != nil {
		return AnswerResult{}, fmt.Errorf("model call failed: %w", err)
	}

	return ParseAnswer(raw)
}

// fallbackResult is the safe degradation for query mode.
func fallbackResult(err error) AnswerResult {
	return AnswerResult{
		Answer: fallbackAnswer,
		Source: SourceInternalKnowledge,
		Err:    err.Error(),
	}
}

// getLogger extracts logger from context or returns the engine's logger.
func (e *ragEngine) getLogger(ctx context.Context) *slog.Logger {
	if logger := contextutil.LoggerFromContext(ctx); logger != slog.Default() {
		return logger
	}
	return e.logger
}
