package rag

// Source is the provenance tag on an answer.
type Source string

const (
	// SourceContext marks answers derived from retrieved transcript chunks.
	SourceContext Source = "Context"
	// SourceInternalKnowledge marks answers from the model's own knowledge.
	SourceInternalKnowledge Source = "Internal Knowledge"
	// SourceBoth marks answers blending transcript context with the model's
	// own knowledge. No prompt mandates it, but models emit it for notes.
	SourceBoth Source = "Context & Internal Knowledge"
)

// Valid reports whether s is one of the declared source literals.
func (s Source) Valid() bool {
	switch s {
	case SourceContext, SourceInternalKnowledge, SourceBoth:
		return true
	}
	return false
}

// AskRequest is a question about one video.
type AskRequest struct {
	// VideoID identifies the ingested video to query.
	VideoID string `json:"video_id"`
	// Question is the user's question about the video.
	Question string `json:"question"`
	// ModelName optionally overrides the configured default model.
	ModelName string `json:"model_name,omitempty"`
}

// NotesRequest asks for topic notes over one video.
type NotesRequest struct {
	// VideoID identifies the ingested video to generate notes for.
	VideoID string `json:"video_id"`
	// Topic is the subject the notes should focus on.
	Topic string `json:"topic"`
	// ModelName optionally overrides the configured default model.
	ModelName string `json:"model_name,omitempty"`
}

// AnswerResult is the structured output of a query or notes generation.
type AnswerResult struct {
	// Answer is the generated answer or notes text.
	Answer string `json:"answer"`
	// Source tags where the answer came from.
	Source Source `json:"source"`
	// Title is the generated notes title, extracted from the first markdown
	// heading. Empty in query mode.
	Title string `json:"title,omitempty"`
	// Err carries the failure detail when query mode degraded to the safe
	// fallback answer.
	Err string `json:"error,omitempty"`
}
