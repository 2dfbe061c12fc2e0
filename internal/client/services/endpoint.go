package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/imarqd/internal/client/client"
	"github.com/dmitrijs2005/imarqd/internal/client/models"
	"github.com/dmitrijs2005/imarqd/internal/common"
	"github.com/dmitrijs2005/imarqd/internal/logging"
)

func endpointFor(sess *models.Session, apiBase string) client.Endpoint {
	return client.Endpoint{
		Base:  common.ResolveAPIBase(sess.APIBase, apiBase),
		Token: sess.AccessToken(),
	}
}

// listMediaIDs returns the account's media IDs in backend order, normalized
// to the 0x form with empty ones dropped.
func listMediaIDs(ctx context.Context, c client.Client, ep client.Endpoint, ownerSHA string) ([]string, error) {
	items, err := c.ListMediaIDs(ctx, ep, ownerSHA)
	if err != nil {
		return nil, fmt.Errorf("unable to fetch media IDs: %w", err)
	}

	ids := make([]string, 0, len(items))
	for _, it := range items {
		if id := common.NormalizeMediaID(it.MediaID); id != "" {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil, common.ErrNoMediaIDs
	}
	return ids, nil
}

// extract runs one extraction check. A backend or transport failure scores
// zero and is only logged; a cancelled context is returned as an error.
func extract(ctx context.Context, c client.Client, log logging.Logger, ep client.Endpoint,
	file models.ImageFile, ownerSHA, mediaID string) (models.ExtractResult, error) {
	if err := ctx.Err(); err != nil {
		return models.ExtractResult{}, err
	}

	res, err := c.Extract(ctx, ep, models.ExtractRequest{
		File:      file,
		Params:    models.DefaultExtractParams(),
		CheckText: common.PayloadText(ownerSHA, mediaID),
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return models.ExtractResult{}, ctxErr
		}
		log.Warn(ctx, "extraction failed, scoring 0", "media_id", mediaID, "error", err)
		return models.ExtractResult{}, nil
	}

	log.Debug(ctx, "extraction checked", "media_id", mediaID, "similarity", res.Similarity, "match_text_hash", res.MatchTextHash)
	return *res, nil
}
