package services

import (
	"context"

	"github.com/dmitrijs2005/imarqd/internal/client/client"
	"github.com/dmitrijs2005/imarqd/internal/client/models"
	"github.com/dmitrijs2005/imarqd/internal/common"
	"github.com/dmitrijs2005/imarqd/internal/logging"
)

type VerifyService interface {
	// Verify checks file against the account's media IDs in backend order and
	// stops at the first one scoring at or above the acceptance threshold.
	Verify(ctx context.Context, sess *models.Session, file models.ImageFile) (*models.Verdict, error)
}

type verifyService struct {
	client  client.Client
	apiBase string
	logger  logging.Logger
}

func NewVerifyService(c client.Client, apiBase string, logger logging.Logger) VerifyService {
	return &verifyService{client: c, apiBase: apiBase, logger: logger.With("service", "verify")}
}

func (s *verifyService) Verify(ctx context.Context, sess *models.Session, file models.ImageFile) (*models.Verdict, error) {
	if sess == nil || sess.EmailSHA == "" {
		return nil, common.ErrNotLoggedIn
	}

	ep := endpointFor(sess, s.apiBase)
	ids, err := listMediaIDs(ctx, s.client, ep, sess.EmailSHA)
	if err != nil {
		return nil, err
	}

	verdict := &models.Verdict{}
	for _, id := range ids {
		res, err := extract(ctx, s.client, s.logger, ep, file, sess.EmailSHA, id)
		if err != nil {
			return nil, err
		}
		verdict.Checked++

		if res.Similarity >= common.AcceptanceThreshold {
			verdict.Matched = true
			verdict.MediaID = id
			verdict.Similarity = res.Similarity
			verdict.MatchTextHash = res.MatchTextHash
			break
		}
	}

	s.logger.Info(ctx, "verify finished", "matched", verdict.Matched, "checked", verdict.Checked, "candidates", len(ids))
	return verdict, nil
}
