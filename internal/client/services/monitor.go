package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/imarqd/internal/client/client"
	"github.com/dmitrijs2005/imarqd/internal/client/models"
	"github.com/dmitrijs2005/imarqd/internal/common"
	"github.com/dmitrijs2005/imarqd/internal/logging"
)

// Fixed scanner request fields.
const (
	scanSaveDir           = "downloaded_twitter_images"
	scanRequestTimeoutSec = 20
	DefaultScanMaxResults = 20
)

// ScanOptions configures the Twitter scanner request.
type ScanOptions struct {
	MaxResults  int
	BearerToken string
}

type MonitorService interface {
	// Scan asks the backend to scan handle's images and re-checks every
	// candidate against all of the account's media IDs.
	Scan(ctx context.Context, sess *models.Session, handle string) (*models.MisuseReport, error)
}

type monitorService struct {
	client  client.Client
	apiBase string
	opts    ScanOptions
	logger  logging.Logger
}

func NewMonitorService(c client.Client, apiBase string, opts ScanOptions, logger logging.Logger) MonitorService {
	if opts.MaxResults <= 0 {
		opts.MaxResults = DefaultScanMaxResults
	}
	return &monitorService{client: c, apiBase: apiBase, opts: opts, logger: logger.With("service", "monitor")}
}

// NormalizeHandle trims h and strips one leading "@".
func NormalizeHandle(h string) string {
	return strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(h), "@"))
}

func (s *monitorService) Scan(ctx context.Context, sess *models.Session, handle string) (*models.MisuseReport, error) {
	if !sess.LoggedIn() {
		return nil, common.ErrNotLoggedIn
	}
	handle = NormalizeHandle(handle)
	if handle == "" {
		return nil, common.ErrHandleRequired
	}

	ep := endpointFor(sess, s.apiBase)
	ids, err := listMediaIDs(ctx, s.client, ep, sess.EmailSHA)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.ScanTwitter(ctx, ep, models.ScanRequest{
		Usernames:             []string{handle},
		Hashtags:              []string{},
		MaxResults:            s.opts.MaxResults,
		BearerToken:           s.opts.BearerToken,
		CheckText:             common.PayloadText(sess.EmailSHA, ids[0]),
		ExtractParams:         models.DefaultExtractParams(),
		SaveImages:            false,
		SaveDir:               scanSaveDir,
		Dedupe:                true,
		ExtractURL:            "",
		IncludeRawTwitterMeta: false,
		RequestTimeoutSec:     scanRequestTimeoutSec,
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %w", common.ErrScanFailed, err)
	}
	if len(resp.Results) == 0 {
		return nil, common.ErrNoImagesFound
	}

	s.logger.Debug(ctx, "scan returned candidates", "handle", handle, "results", len(resp.Results), "media_ids", len(ids))

	report := &models.MisuseReport{}
	for _, r := range resp.Results {
		if r.Image.ImageURL == "" {
			continue
		}
		report.Candidates++

		img, err := s.client.FetchImage(ctx, r.Image.ImageURL)
		if err != nil {
			return nil, err
		}

		for _, id := range ids {
			res, err := extract(ctx, s.client, s.logger, ep, *img, sess.EmailSHA, id)
			if err != nil {
				return nil, err
			}
			if res.MatchTextHash || res.Similarity >= common.AcceptanceThreshold {
				report.Found = true
				report.TweetURL = r.Tweet.TweetURL
				report.Author = r.Tweet.AuthorUsername
				report.ImageURL = r.Image.ImageURL
				report.MediaID = id
				report.Similarity = res.Similarity
				s.logger.Info(ctx, "misuse found", "handle", handle, "tweet_url", report.TweetURL, "media_id", id)
				return report, nil
			}
		}
	}

	s.logger.Info(ctx, "no misuse found", "handle", handle, "candidates", report.Candidates)
	return report, nil
}
