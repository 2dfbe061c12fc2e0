package media

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/imarqd/internal/client/models"
)

var ErrNotFound = errors.New("media record not found")

type Repository interface {
	// Insert stores rec. Re-inserting an existing media ID overwrites it.
	Insert(ctx context.Context, rec *models.HistoryRecord) error

	// ListByOwner returns records newest first. A limit <= 0 means no limit.
	ListByOwner(ctx context.Context, ownerSHA string, limit int) ([]models.HistoryRecord, error)

	// Get returns ErrNotFound for an unknown media ID.
	Get(ctx context.Context, mediaID string) (*models.HistoryRecord, error)
}
