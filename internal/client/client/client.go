package client

import (
	"context"

	"github.com/dmitrijs2005/imarqd/internal/client/models"
)

// Endpoint addresses one backend call: the resolved base URL and the bearer
// token (empty for anonymous calls).
type Endpoint struct {
	Base  string
	Token string
}

type Client interface {
	Login(ctx context.Context, base string, email string, password string) (*models.LoginResponse, error)
	ListMediaIDs(ctx context.Context, ep Endpoint, ownerSHA string) ([]models.MediaItem, error)
	EmbedWatermark(ctx context.Context, ep Endpoint, req models.EmbedRequest) ([]byte, error)
	SaveMedia(ctx context.Context, ep Endpoint, rec models.MediaRecord) error
	Extract(ctx context.Context, ep Endpoint, req models.ExtractRequest) (*models.ExtractResult, error)
	ScanTwitter(ctx context.Context, ep Endpoint, req models.ScanRequest) (*models.ScanResponse, error)
	FetchImage(ctx context.Context, imageURL string) (*models.ImageFile, error)
}
