package services

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"testing"
	"time"

	"github.com/dmitrijs2005/imarqd/internal/client/client"
	"github.com/dmitrijs2005/imarqd/internal/client/models"
	"github.com/dmitrijs2005/imarqd/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/imarqd/internal/common"
	"github.com/dmitrijs2005/imarqd/internal/imagex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newWatermark(t *testing.T, fc *fakeClient) (*watermarkService, *metadata.SQLiteRepository) {
	t.Helper()
	db := setupDB(t)
	svc := NewWatermarkService(fc, db, "", discard()).(*watermarkService)
	svc.newMediaID = func() (string, error) { return "0xfeed", nil }
	return svc, metadata.NewSQLiteRepository(db)
}

func TestProtect_HappyPath(t *testing.T) {
	fc := &fakeClient{EmbedOut: []byte("PROTECTED")}
	svc, meta := newWatermark(t, fc)
	sess := testSession()

	out, err := svc.Protect(context.Background(), sess, models.ImageFile{Name: "/photos/beach.jpg", Data: jpegBytes(t)})
	require.NoError(t, err)
	assert.Equal(t, &models.ProtectedImage{
		MediaID:  "0xfeed",
		Label:    "beach.jpg",
		Filename: "beach_protected.png",
		Data:     []byte("PROTECTED"),
	}, out)

	require.Len(t, fc.Embeds, 1)
	embed := fc.Embeds[0]
	assert.Equal(t, "beach.png", embed.File.Name)
	assert.Equal(t, "image/png", embed.File.ContentType)
	_, err = png.Decode(bytes.NewReader(embed.File.Data))
	assert.NoError(t, err, "upload must be PNG")
	assert.Equal(t, "owner:sha-me|media:0xfeed", embed.Text)
	assert.Equal(t, EmbedPreset, embed.Preset)
	assert.Equal(t, "beach.jpg", embed.Label)
	assert.Equal(t, "u-1", embed.UserUUID)
	assert.Equal(t, client.Endpoint{Base: "https://api.test", Token: "tok"}, fc.Endpoints[0])

	require.Len(t, fc.Saves, 1)
	assert.Equal(t, models.MediaRecord{
		Email: "me@example.com", EmailSHA: "sha-me", MediaID: "0xfeed", Label: "beach.jpg", UserUUID: "u-1",
	}, fc.Saves[0])

	last, err := meta.Get(context.Background(), metadata.KeyLastMediaID)
	require.NoError(t, err)
	assert.Equal(t, "0xfeed", string(last))

	hist, err := svc.History(context.Background(), sess, 0)
	require.NoError(t, err)
	require.Len(t, hist, 1)
	assert.Equal(t, "0xfeed", hist[0].MediaID)
	assert.Equal(t, "beach_protected.png", hist[0].Filename)
}

func TestProtect_UnsupportedFormatAbortsBeforeNetwork(t *testing.T) {
	fc := &fakeClient{}
	svc, _ := newWatermark(t, fc)

	_, err := svc.Protect(context.Background(), testSession(), models.ImageFile{Name: "x.heic", Data: []byte("ftypheic....")})
	require.ErrorIs(t, err, imagex.ErrUnsupportedFormat)
	assert.EqualError(t, err, "This image format is not supported for watermarking. Please upload JPG/PNG (avoid HEIC/HEIF).")
	assert.Empty(t, fc.Embeds)
	assert.Empty(t, fc.Saves)
	assert.Empty(t, fc.Endpoints)
}

func TestProtect_RequiresSession(t *testing.T) {
	fc := &fakeClient{}
	svc, _ := newWatermark(t, fc)

	for _, sess := range []*models.Session{nil, {}, {Token: "t", Email: "e"}} {
		_, err := svc.Protect(context.Background(), sess, models.ImageFile{Data: jpegBytes(t)})
		assert.ErrorIs(t, err, common.ErrNotLoggedIn)
	}
	assert.Empty(t, fc.Embeds)
}

func TestProtect_BackendFailures(t *testing.T) {
	embedErr := &client.APIError{Op: "watermark", StatusCode: 500, Body: "boom"}
	saveErr := errors.New(`DB save failed: {"ok":false}`)

	t.Run("embed", func(t *testing.T) {
		fc := &fakeClient{EmbedErr: embedErr}
		svc, meta := newWatermark(t, fc)

		_, err := svc.Protect(context.Background(), testSession(), models.ImageFile{Name: "a.jpg", Data: jpegBytes(t)})
		require.ErrorIs(t, err, embedErr)
		assert.Equal(t, "watermark failed (HTTP 500): boom", err.Error())
		assert.Empty(t, fc.Saves)

		_, err = meta.Get(context.Background(), metadata.KeyLastMediaID)
		assert.ErrorIs(t, err, metadata.ErrNotFound)
	})

	t.Run("save", func(t *testing.T) {
		fc := &fakeClient{EmbedOut: []byte("P"), SaveErr: saveErr}
		svc, _ := newWatermark(t, fc)

		_, err := svc.Protect(context.Background(), testSession(), models.ImageFile{Name: "a.jpg", Data: jpegBytes(t)})
		require.ErrorIs(t, err, saveErr)

		hist, err := svc.History(context.Background(), testSession(), 0)
		require.NoError(t, err)
		assert.Empty(t, hist)
	})
}

func TestProtect_LocalRecordFailureIsNotFatal(t *testing.T) {
	fc := &fakeClient{EmbedOut: []byte("P")}
	svc, _ := newWatermark(t, fc)
	require.NoError(t, svc.db.Close())

	out, err := svc.Protect(context.Background(), testSession(), models.ImageFile{Name: "a.png", Data: jpegBytes(t)})
	require.NoError(t, err)
	assert.Equal(t, "0xfeed", out.MediaID)
}

func TestHistory_NewestFirst(t *testing.T) {
	fc := &fakeClient{EmbedOut: []byte("P")}
	svc, _ := newWatermark(t, fc)
	sess := testSession()

	base := time.UnixMilli(1_700_000_000_000)
	n := 0
	svc.now = func() time.Time { n++; return base.Add(time.Duration(n) * time.Second) }
	ids := []string{"0x01", "0x02", "0x03"}
	i := 0
	svc.newMediaID = func() (string, error) { id := ids[i]; i++; return id, nil }

	for range ids {
		_, err := svc.Protect(context.Background(), sess, models.ImageFile{Name: "a.jpg", Data: jpegBytes(t)})
		require.NoError(t, err)
	}

	hist, err := svc.History(context.Background(), sess, 2)
	require.NoError(t, err)
	require.Len(t, hist, 2)
	assert.Equal(t, "0x03", hist[0].MediaID)
	assert.Equal(t, "0x02", hist[1].MediaID)

	_, err = svc.History(context.Background(), nil, 0)
	assert.ErrorIs(t, err, common.ErrNotLoggedIn)
}

func TestLast(t *testing.T) {
	fc := &fakeClient{EmbedOut: []byte("PROTECTED")}
	svc, meta := newWatermark(t, fc)
	sess := testSession()
	ctx := context.Background()

	rec, err := svc.Last(ctx, sess)
	require.NoError(t, err)
	assert.Nil(t, rec, "nothing protected yet")

	_, err = svc.Protect(ctx, sess, models.ImageFile{Name: "beach.jpg", Data: jpegBytes(t)})
	require.NoError(t, err)

	rec, err = svc.Last(ctx, sess)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "0xfeed", rec.MediaID)
	assert.Equal(t, "beach_protected.png", rec.Filename)

	other := testSession()
	other.EmailSHA = "sha-other"
	rec, err = svc.Last(ctx, other)
	require.NoError(t, err)
	assert.Nil(t, rec, "another account's image is not reported")

	require.NoError(t, meta.Set(ctx, metadata.KeyLastMediaID, []byte("0xgone")))
	rec, err = svc.Last(ctx, sess)
	require.NoError(t, err)
	assert.Nil(t, rec)

	_, err = svc.Last(ctx, nil)
	assert.ErrorIs(t, err, common.ErrNotLoggedIn)
}
