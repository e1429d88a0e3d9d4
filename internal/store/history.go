package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// maxHistoryEntries caps per-user history; the oldest entries are evicted.
const maxHistoryEntries = 100

// HistoryEntry is one watched video in a user's history.
type HistoryEntry struct {
	ID        string    `json:"id"`
	VideoID   string    `json:"videoId"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	Thumbnail string    `json:"thumbnail,omitempty"`
	WatchedAt time.Time `json:"watchedAt"`
}

// AddHistory records a watched video for a user and returns the stored
// entry. The per-user cap is enforced in the same transaction.
func (s *Store) AddHistory(ctx context.Context, userID string, e HistoryEntry) (*HistoryEntry, error) {
	e.ID = uuid.NewString()
	e.WatchedAt = time.Now().UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("history: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO watch_history (id, user_id, video_id, title, author, thumbnail, watched_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, userID, e.VideoID, e.Title, e.Author, e.Thumbnail, e.WatchedAt.UnixMilli())
	if err != nil {
		return nil, fmt.Errorf("history: insert: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`DELETE FROM watch_history
		 WHERE user_id = ? AND id NOT IN (
			SELECT id FROM watch_history WHERE user_id = ?
			ORDER BY watched_at DESC, rowid DESC LIMIT ?)`,
		userID, userID, maxHistoryEntries)
	if err != nil {
		return nil, fmt.Errorf("history: trim: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("history: commit: %w", err)
	}
	return &e, nil
}

// History returns a user's watch history, newest first.
func (s *Store) History(ctx context.Context, userID string) ([]HistoryEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, video_id, title, author, thumbnail, watched_at
		 FROM watch_history WHERE user_id = ?
		 ORDER BY watched_at DESC, rowid DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("history: query: %w", err)
	}
	defer rows.Close()

	out := []HistoryEntry{}
	for rows.Next() {
		var (
			e  HistoryEntry
			ms int64
		)
		if err := rows.Scan(&e.ID, &e.VideoID, &e.Title, &e.Author, &e.Thumbnail, &ms); err != nil {
			return nil, fmt.Errorf("history: scan: %w", err)
		}
		e.WatchedAt = time.UnixMilli(ms).UTC()
		out = append(out, e)
	}
	return out, rows.Err()
}

// RemoveHistory deletes a single entry from a user's history. Removing a
// non-existent entry is not an error.
func (s *Store) RemoveHistory(ctx context.Context, userID, entryID string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM watch_history WHERE user_id = ? AND id = ?`, userID, entryID)
	if err != nil {
		return fmt.Errorf("history: delete: %w", err)
	}
	return nil
}

// ClearHistory removes every entry of a user's history.
func (s *Store) ClearHistory(ctx context.Context, userID string) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM watch_history WHERE user_id = ?`, userID)
	if err != nil {
		return fmt.Errorf("history: clear: %w", err)
	}
	return nil
}
