package storage

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Video ingestion statuses.
const (
	// StatusPending marks a video whose ingestion has been claimed but not
	// yet completed.
	StatusPending = "pending"
	// StatusIngested marks a video whose chunks are fully stored.
	StatusIngested = "ingested"
)

// VideoRecord represents an ingested (or in-flight) video in the ledger.
// The row's existence is what makes ingestion idempotent: claiming the
// video_id is a single atomic insert, not a check followed by a write.
type VideoRecord struct {
	VideoID    string
	Status     string
	ChunkCount int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
