package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_video_store.go -package=mocks github.com/Macowen14/youtube-RAG/internal/storage VideoStore

import (
	"context"
	"database/sql"
	"fmt"
)

// VideoStore defines the interface for the video ingestion ledger.
type VideoStore interface {
	// Claim atomically claims a video for ingestion. It returns true when
	// the caller won the claim and must run the ingestion pipeline, false
	// when the video is already ingested or another ingest is in flight.
	Claim(ctx context.Context, videoID string) (bool, error)
	// MarkIngested marks a claimed video as fully ingested.
	MarkIngested(ctx context.Context, videoID string, chunkCount int) error
	// Release removes a claimed video's row so a failed ingest can be retried.
	Release(ctx context.Context, videoID string) error
	// Get returns the ledger record for a video. Returns ErrNotFound if absent.
	Get(ctx context.Context, videoID string) (*VideoRecord, error)
}

// VideoRepo provides methods for video ledger operations.
// It implements the VideoStore interface.
type VideoRepo struct {
	db *sql.DB
}

// NewVideoRepo creates a new VideoRepo.
func NewVideoRepo(db *sql.DB) *VideoRepo {
	return &VideoRepo{db: db}
}

// Claim atomically claims a video for ingestion using INSERT OR IGNORE on the
// primary key. Exactly one of any number of concurrent callers wins the claim;
// the rest observe zero affected rows. This closes the check-then-act gap of a
// separate existence check followed by a write.
func (r *VideoRepo) Claim(ctx context.Context, videoID string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO videos (video_id, status) VALUES (?, ?)",
		videoID, StatusPending,
	)
	if err != nil {
		return false, fmt.Errorf("failed to claim video: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read claim result: %w", err)
	}
	return affected == 1, nil
}

// MarkIngested marks a claimed video as fully ingested.
func (r *VideoRepo) MarkIngested(ctx context.Context, videoID string, chunkCount int) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE videos SET status = ?, chunk_count = ?, updated_at = CURRENT_TIMESTAMP WHERE video_id = ?",
		StatusIngested, chunkCount, videoID,
	)
	if err != nil {
		return fmt.Errorf("failed to mark video ingested: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read update result: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Release removes a claimed video's row so a failed ingest can be retried.
func (r *VideoRepo) Release(ctx context.Context, videoID string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM videos WHERE video_id = ?", videoID)
	if err != nil {
		return fmt.Errorf("failed to release video claim: %w", err)
	}
	return nil
}

// Get returns the ledger record for a video. Returns ErrNotFound if absent.
func (r *VideoRepo) Get(ctx context.Context, videoID string) (*VideoRecord, error) {
	var rec VideoRecord
	err := r.db.QueryRowContext(ctx,
		"SELECT video_id, status, chunk_count, created_at, updated_at FROM videos WHERE video_id = ?",
		videoID,
	).Scan(&rec.VideoID, &rec.Status, &rec.ChunkCount, &rec.CreatedAt, &rec.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query video: %w", err)
	}

	return &rec, nil
}
