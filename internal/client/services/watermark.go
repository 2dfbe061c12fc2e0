package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/dmitrijs2005/imarqd/internal/client/client"
	"github.com/dmitrijs2005/imarqd/internal/client/models"
	"github.com/dmitrijs2005/imarqd/internal/client/repositories/media"
	"github.com/dmitrijs2005/imarqd/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/imarqd/internal/common"
	"github.com/dmitrijs2005/imarqd/internal/dbx"
	"github.com/dmitrijs2005/imarqd/internal/imagex"
	"github.com/dmitrijs2005/imarqd/internal/logging"
)

// EmbedPreset is the backend embedding preset used for every upload.
const EmbedPreset = "facebook"

type WatermarkService interface {
	// Protect normalizes file to PNG, embeds a fresh media ID and registers
	// it with the account.
	Protect(ctx context.Context, sess *models.Session, file models.ImageFile) (*models.ProtectedImage, error)
	// History lists images protected from this machine, newest first.
	History(ctx context.Context, sess *models.Session, limit int) ([]models.HistoryRecord, error)
	// Last returns the most recent image sess protected from this machine,
	// or nil when there is none.
	Last(ctx context.Context, sess *models.Session) (*models.HistoryRecord, error)
}

type watermarkService struct {
	client  client.Client
	db      *sql.DB
	apiBase string
	logger  logging.Logger

	newMediaID func() (string, error)
	now        func() time.Time
}

func NewWatermarkService(c client.Client, db *sql.DB, apiBase string, logger logging.Logger) WatermarkService {
	return &watermarkService{
		client:     c,
		db:         db,
		apiBase:    apiBase,
		logger:     logger.With("service", "watermark"),
		newMediaID: common.NewMediaID,
		now:        time.Now,
	}
}

func (s *watermarkService) Protect(ctx context.Context, sess *models.Session, file models.ImageFile) (*models.ProtectedImage, error) {
	if !sess.LoggedIn() {
		return nil, common.ErrNotLoggedIn
	}

	pngData, format, err := imagex.ToPNG(file.Data)
	if err != nil {
		var de *imagex.DecodeError
		if errors.As(err, &de) {
			s.logger.Debug(ctx, "image decode failed", "name", file.Name, "error", de.Cause)
		}
		return nil, err
	}
	s.logger.Debug(ctx, "image normalized", "name", file.Name, "source_format", format, "bytes", len(pngData))

	mediaID, err := s.newMediaID()
	if err != nil {
		return nil, err
	}

	label := filepath.Base(strings.TrimSpace(file.Name))
	if label == "." || label == string(filepath.Separator) {
		label = ""
	}
	ep := endpointFor(sess, s.apiBase)

	protected, err := s.client.EmbedWatermark(ctx, ep, models.EmbedRequest{
		File: models.ImageFile{
			Name:        imagex.PNGName(file.Name),
			ContentType: "image/png",
			Data:        pngData,
		},
		Text:     common.PayloadText(sess.EmailSHA, mediaID),
		Preset:   EmbedPreset,
		Label:    label,
		UserUUID: sess.UUID,
	})
	if err != nil {
		return nil, err
	}

	err = s.client.SaveMedia(ctx, ep, models.MediaRecord{
		Email:    sess.Email,
		EmailSHA: sess.EmailSHA,
		MediaID:  mediaID,
		Label:    label,
		UserUUID: sess.UUID,
	})
	if err != nil {
		return nil, err
	}

	out := &models.ProtectedImage{
		MediaID:  mediaID,
		Label:    label,
		Filename: imagex.ProtectedName(file.Name),
		Data:     protected,
	}

	if err := s.record(ctx, sess, out); err != nil {
		s.logger.Error(ctx, "failed to record protected image locally", "media_id", mediaID, "error", err)
	}

	s.logger.Info(ctx, "image protected", "media_id", mediaID, "label", label)
	return out, nil
}

// record stores the history row and the last media ID in one transaction.
func (s *watermarkService) record(ctx context.Context, sess *models.Session, img *models.ProtectedImage) error {
	if s.db == nil {
		return nil
	}
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		err := media.NewSQLiteRepository(tx).Insert(ctx, &models.HistoryRecord{
			MediaID:   img.MediaID,
			OwnerSHA:  sess.EmailSHA,
			Label:     img.Label,
			Filename:  img.Filename,
			CreatedAt: s.now(),
		})
		if err != nil {
			return err
		}
		return metadata.NewSQLiteRepository(tx).Set(ctx, metadata.KeyLastMediaID, []byte(img.MediaID))
	})
}

func (s *watermarkService) History(ctx context.Context, sess *models.Session, limit int) ([]models.HistoryRecord, error) {
	if !sess.LoggedIn() {
		return nil, common.ErrNotLoggedIn
	}
	if s.db == nil {
		return nil, nil
	}
	recs, err := media.NewSQLiteRepository(s.db).ListByOwner(ctx, sess.EmailSHA, limit)
	if err != nil {
		return nil, fmt.Errorf("history: %w", err)
	}
	return recs, nil
}

func (s *watermarkService) Last(ctx context.Context, sess *models.Session) (*models.HistoryRecord, error) {
	if !sess.LoggedIn() {
		return nil, common.ErrNotLoggedIn
	}
	if s.db == nil {
		return nil, nil
	}

	id, err := metadata.NewSQLiteRepository(s.db).Get(ctx, metadata.KeyLastMediaID)
	if errors.Is(err, metadata.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("last media ID: %w", err)
	}

	rec, err := media.NewSQLiteRepository(s.db).Get(ctx, string(id))
	if errors.Is(err, media.ErrNotFound) {
		s.logger.Debug(ctx, "last media ID has no history row", "media_id", string(id))
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("last media ID: %w", err)
	}
	// another account protected it on this machine
	if rec.OwnerSHA != sess.EmailSHA {
		return nil, nil
	}
	return rec, nil
}
