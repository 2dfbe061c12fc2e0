package media

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/imarqd/internal/client/models"
	"github.com/dmitrijs2005/imarqd/internal/dbx"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Insert(ctx context.Context, rec *models.HistoryRecord) error {
	created := rec.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}

	query := `INSERT INTO media (media_id, owner_sha, label, filename, created_at)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(media_id) DO UPDATE SET owner_sha = excluded.owner_sha,
				label = excluded.label,
				filename = excluded.filename,
				created_at = excluded.created_at
	`
	_, err := r.db.ExecContext(ctx, query, rec.MediaID, rec.OwnerSHA, rec.Label, rec.Filename, created.UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to insert media record: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) ListByOwner(ctx context.Context, ownerSHA string, limit int) ([]models.HistoryRecord, error) {
	if limit <= 0 {
		limit = -1
	}

	query := `SELECT media_id, owner_sha, label, filename, created_at FROM media
			WHERE owner_sha = ? ORDER BY created_at DESC, rowid DESC LIMIT ?`
	rows, err := r.db.QueryContext(ctx, query, ownerSHA, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to select media records: %w", err)
	}
	defer rows.Close()

	var result []models.HistoryRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) Get(ctx context.Context, mediaID string) (*models.HistoryRecord, error) {
	query := `SELECT media_id, owner_sha, label, filename, created_at FROM media WHERE media_id = ?`
	rec, err := scanRecord(r.db.QueryRowContext(ctx, query, mediaID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(s scanner) (*models.HistoryRecord, error) {
	var (
		rec     models.HistoryRecord
		created int64
	)
	if err := s.Scan(&rec.MediaID, &rec.OwnerSHA, &rec.Label, &rec.Filename, &created); err != nil {
		return nil, fmt.Errorf("failed to scan media record: %w", err)
	}
	rec.CreatedAt = time.UnixMilli(created)
	return &rec, nil
}
