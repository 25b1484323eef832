package rag

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// ParseError is returned when model output cannot be decoded into an
// AnswerResult: malformed JSON, missing fields, or an invalid source literal.
type ParseError struct {
	Reason string
	Raw    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse model output: %s", e.Reason)
}

// Models wrap JSON in markdown code fences often enough that we strip fences
// before decoding: ```json, ```markdown and bare ``` openers plus the
// closing fence.
var (
	fenceOpen  = regexp.MustCompile("(?m)^```(json|markdown)?[ \t]*\n?")
	fenceClose = regexp.MustCompile("(?m)[ \t]*```\\s*$")
)

// stripCodeFences removes surrounding markdown code-fence markup from raw
// model output. Unfenced output passes through unchanged.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	s = fenceOpen.ReplaceAllString(s, "")
	s = fenceClose.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// ParseAnswer strictly decodes raw model output into an AnswerResult.
// Code fences are stripped first, then the JSON object must carry exactly an
// "answer" string and a "source" matching one of the declared literals.
// Failures are reported as *ParseError.
func ParseAnswer(raw string) (AnswerResult, error) {
	cleaned := stripCodeFences(raw)

	var out struct {
		Answer *string `json:"answer"`
		Source *string `json:"source"`
	}

	dec := json.NewDecoder(strings.NewReader(cleaned))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&out); err != nil {
		return AnswerResult{}, &ParseError{Reason: err.Error(), Raw: raw}
	}
	if dec.More() {
		return AnswerResult{}, &ParseError{Reason: "trailing data after JSON object", Raw: raw}
	}

	if out.Answer == nil {
		return AnswerResult{}, &ParseError{Reason: `missing "answer" field`, Raw: raw}
	}
	if out.Source == nil {
		return AnswerResult{}, &ParseError{Reason: `missing "source" field`, Raw: raw}
	}

	source := Source(*out.Source)
	if !source.Valid() {
		return AnswerResult{}, &ParseError{Reason: fmt.Sprintf("invalid source %q", *out.Source), Raw: raw}
	}

	return AnswerResult{Answer: *out.Answer, Source: source}, nil
}
