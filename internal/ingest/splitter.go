package ingest

import (
	"strings"
	"unicode/utf8"
)

const (
	chunkSize    = 1000 // Max runes per chunk
	chunkOverlap = 200  // Runes shared between consecutive chunks
)

// separators are tried in order when looking for a split point inside a
// window: paragraph break, line break, sentence end, word boundary. When
// none occurs the window is cut hard at chunkSize.
var separators = []string{"\n\n", "\n", ". ", " "}

// Split cuts text into overlapping chunks of at most chunkSize runes,
// preferring natural boundaries over hard cuts. Identical input always
// yields the identical chunk sequence.
// Sizes are measured in runes (not bytes) for consistency with embedding
// token estimation.
func Split(text string) []string {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}
	if len(runes) <= chunkSize {
		return []string{text}
	}

	var chunks []string
	start := 0

	for start < len(runes) {
		end := start + chunkSize
		if end >= len(runes) {
			chunks = append(chunks, string(runes[start:]))
			break
		}

		window := string(runes[start:end])
		cut := end
		for _, sep := range separators {
			if i := strings.LastIndex(window, sep); i != -1 {
				boundary := utf8.RuneCountInString(window[:i]) + utf8.RuneCountInString(sep)
				if boundary > 0 {
					cut = start + boundary
					break
				}
			}
		}

		chunks = append(chunks, string(runes[start:cut]))

		// Next window starts chunkOverlap runes before the cut, clamped so
		// the splitter always advances.
		next := cut - chunkOverlap
		if next <= start {
			next = cut
		}
		start = next
	}

	return chunks
}
