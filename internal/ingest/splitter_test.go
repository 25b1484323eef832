package ingest

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSplit_Empty(t *testing.T) {
	if chunks := Split(""); chunks != nil {
		t.Errorf("expected nil for empty input, got %v", chunks)
	}
}

func TestSplit_ShortTextSingleChunk(t *testing.T) {
	text := "a short transcript that fits in one chunk"
	chunks := Split(text)
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0] != text {
		t.Errorf("expected chunk to equal input, got %q", chunks[0])
	}
}

func TestSplit_ChunkSizeLimit(t *testing.T) {
	text := strings.Repeat("word ", 2000) // 10000 runes
	chunks := Split(text)

	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i, chunk := range chunks {
		if n := utf8.RuneCountInString(chunk); n > chunkSize {
			t.Errorf("chunk %d has %d runes, limit is %d", i, n, chunkSize)
		}
	}
}

func TestSplit_Deterministic(t *testing.T) {
	text := strings.Repeat("the quick brown fox jumps over the lazy dog. ", 100)

	first := Split(text)
	second := Split(text)

	if len(first) != len(second) {
		t.Fatalf("chunk counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("chunk %d differs between runs", i)
		}
	}
}

func TestSplit_ConsecutiveChunksOverlap(t *testing.T) {
	text := strings.Repeat("sentence number one. ", 200)
	chunks := Split(text)

	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	// Each chunk starts chunkOverlap runes before the previous cut, so the
	// previous chunk's tail must be a prefix of the next chunk.
	for i := 1; i < len(chunks); i++ {
		prev := []rune(chunks[i-1])
		cur := []rune(chunks[i])
		n := chunkOverlap
		if len(cur) < n {
			n = len(cur)
		}
		tail := string(prev[len(prev)-n:])
		if string(cur[:n]) != tail {
			t.Errorf("chunk %d does not start with the tail of chunk %d", i, i-1)
		}
	}
}

func TestSplit_PrefersParagraphBoundary(t *testing.T) {
	para := strings.Repeat("a", 600)
	text := para + "\n\n" + para + "\n\n" + para
	chunks := Split(text)

	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	if !strings.HasSuffix(chunks[0], "\n\n") {
		t.Errorf("expected first chunk to end at paragraph break, got tail %q", chunks[0][len(chunks[0])-5:])
	}
}

func TestSplit_NoSeparatorHardCut(t *testing.T) {
	text := strings.Repeat("x", 2500)
	chunks := Split(text)

	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	if got := utf8.RuneCountInString(chunks[0]); got != chunkSize {
		t.Errorf("expected hard cut at %d runes, got %d", chunkSize, got)
	}
}

func TestSplit_MultiByteRunes(t *testing.T) {
	text := strings.Repeat("日本語のテキストです。 ", 300)
	chunks := Split(text)

	for i, chunk := range chunks {
		if n := utf8.RuneCountInString(chunk); n > chunkSize {
			t.Errorf("chunk %d has %d runes, limit is %d", i, n, chunkSize)
		}
		if !utf8.ValidString(chunk) {
			t.Errorf("chunk %d is not valid UTF-8", i)
		}
	}

	if !strings.HasPrefix(text, chunks[0]) {
		t.Error("first chunk is not a prefix of the input")
	}
}
