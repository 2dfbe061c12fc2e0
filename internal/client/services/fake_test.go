package services

import (
	"bytes"
	"context"
	"database/sql"
	"image"
	"image/color"
	"image/jpeg"
	"sync"
	"testing"

	"github.com/dmitrijs2005/imarqd/internal/client/client"
	"github.com/dmitrijs2005/imarqd/internal/client/models"
	"github.com/dmitrijs2005/imarqd/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/imarqd/internal/logging"
	"github.com/stretchr/testify/require"
)

// fakeClient implements client.Client and records every call.
type fakeClient struct {
	mu sync.Mutex

	LoginResp *models.LoginResponse
	LoginErr  error
	LoginBase string
	LoginArgs [2]string

	Items   []models.MediaItem
	ListErr error

	EmbedOut []byte
	EmbedErr error
	Embeds   []models.EmbedRequest

	SaveErr error
	Saves   []models.MediaRecord

	// ExtractFn decides the result per call; nil means similarity 0.
	ExtractFn func(req models.ExtractRequest) (*models.ExtractResult, error)
	Extracts  []models.ExtractRequest

	ScanResp *models.ScanResponse
	ScanErr  error
	Scans    []models.ScanRequest

	FetchErr error
	Fetches  []string

	Endpoints []client.Endpoint
}

var _ client.Client = (*fakeClient)(nil)

func (f *fakeClient) Login(ctx context.Context, base, email, password string) (*models.LoginResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LoginBase = base
	f.LoginArgs = [2]string{email, password}
	return f.LoginResp, f.LoginErr
}

func (f *fakeClient) ListMediaIDs(ctx context.Context, ep client.Endpoint, ownerSHA string) ([]models.MediaItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Endpoints = append(f.Endpoints, ep)
	return f.Items, f.ListErr
}

func (f *fakeClient) EmbedWatermark(ctx context.Context, ep client.Endpoint, req models.EmbedRequest) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Endpoints = append(f.Endpoints, ep)
	f.Embeds = append(f.Embeds, req)
	return f.EmbedOut, f.EmbedErr
}

func (f *fakeClient) SaveMedia(ctx context.Context, ep client.Endpoint, rec models.MediaRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Saves = append(f.Saves, rec)
	return f.SaveErr
}

func (f *fakeClient) Extract(ctx context.Context, ep client.Endpoint, req models.ExtractRequest) (*models.ExtractResult, error) {
	f.mu.Lock()
	f.Extracts = append(f.Extracts, req)
	fn := f.ExtractFn
	f.mu.Unlock()
	if fn == nil {
		return &models.ExtractResult{}, nil
	}
	return fn(req)
}

func (f *fakeClient) ScanTwitter(ctx context.Context, ep client.Endpoint, req models.ScanRequest) (*models.ScanResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Scans = append(f.Scans, req)
	return f.ScanResp, f.ScanErr
}

func (f *fakeClient) FetchImage(ctx context.Context, imageURL string) (*models.ImageFile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Fetches = append(f.Fetches, imageURL)
	if f.FetchErr != nil {
		return nil, f.FetchErr
	}
	return &models.ImageFile{Name: "tweet_image.jpg", ContentType: "image/jpeg", Data: []byte(imageURL)}, nil
}

// ---- helpers ----

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := client.InitDatabase(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func metaRepo(t *testing.T) *metadata.SQLiteRepository {
	t.Helper()
	return metadata.NewSQLiteRepository(setupDB(t))
}

func testSession() *models.Session {
	return &models.Session{
		Token:    "tok",
		Email:    "me@example.com",
		UUID:     "u-1",
		EmailSHA: "sha-me",
		APIBase:  "https://api.test",
	}
}

func jpegBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 40), G: uint8(y * 40), B: 100, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

func discard() logging.Logger { return logging.Discard() }

// matchAt returns an ExtractFn that scores 0.95 for the check text of id and
// 0.1 for everything else.
func matchAt(checkText string) func(models.ExtractRequest) (*models.ExtractResult, error) {
	return func(req models.ExtractRequest) (*models.ExtractResult, error) {
		if req.CheckText == checkText {
			return &models.ExtractResult{Similarity: 0.95}, nil
		}
		return &models.ExtractResult{Similarity: 0.1}, nil
	}
}
