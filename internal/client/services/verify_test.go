package services

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/imarqd/internal/client/client"
	"github.com/dmitrijs2005/imarqd/internal/client/models"
	"github.com/dmitrijs2005/imarqd/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func items(ids ...string) []models.MediaItem {
	out := make([]models.MediaItem, 0, len(ids))
	for _, id := range ids {
		out = append(out, models.MediaItem{MediaID: id})
	}
	return out
}

var anImage = models.ImageFile{Name: "suspect.jpg", ContentType: "image/jpeg", Data: []byte("img")}

func TestVerify_StopsAtFirstMatch(t *testing.T) {
	fc := &fakeClient{
		Items:     items("0xa", "0xb", "0xc", "0xd"),
		ExtractFn: matchAt(common.PayloadText("sha-me", "0xb")),
	}
	svc := NewVerifyService(fc, "", discard())

	v, err := svc.Verify(context.Background(), testSession(), anImage)
	require.NoError(t, err)
	assert.True(t, v.Matched)
	assert.Equal(t, "0xb", v.MediaID)
	assert.InDelta(t, 0.95, v.Similarity, 1e-9)
	assert.Equal(t, 2, v.Checked)
	assert.Len(t, fc.Extracts, 2)

	req := fc.Extracts[0]
	assert.Equal(t, anImage, req.File)
	assert.Equal(t, models.DefaultExtractParams(), req.Params)
	assert.Equal(t, "owner:sha-me|media:0xa", req.CheckText)
}

func TestVerify_NoMatchChecksAll(t *testing.T) {
	fc := &fakeClient{Items: items("0xa", "0xb", "0xc")}
	svc := NewVerifyService(fc, "", discard())

	v, err := svc.Verify(context.Background(), testSession(), anImage)
	require.NoError(t, err)
	assert.False(t, v.Matched)
	assert.Equal(t, 3, v.Checked)
	assert.Len(t, fc.Extracts, 3)
}

func TestVerify_ThresholdIsInclusive(t *testing.T) {
	fc := &fakeClient{
		Items: items("0xa"),
		ExtractFn: func(models.ExtractRequest) (*models.ExtractResult, error) {
			return &models.ExtractResult{Similarity: common.AcceptanceThreshold}, nil
		},
	}
	v, err := NewVerifyService(fc, "", discard()).Verify(context.Background(), testSession(), anImage)
	require.NoError(t, err)
	assert.True(t, v.Matched)
}

func TestVerify_TextHashAloneIsNotAMatch(t *testing.T) {
	fc := &fakeClient{
		Items: items("0xa"),
		ExtractFn: func(models.ExtractRequest) (*models.ExtractResult, error) {
			return &models.ExtractResult{Similarity: 0.5, MatchTextHash: true}, nil
		},
	}
	v, err := NewVerifyService(fc, "", discard()).Verify(context.Background(), testSession(), anImage)
	require.NoError(t, err)
	assert.False(t, v.Matched)
}

func TestVerify_ExtractionErrorScoresZeroAndContinues(t *testing.T) {
	calls := 0
	fc := &fakeClient{
		Items: items("0xa", "0xb"),
		ExtractFn: func(req models.ExtractRequest) (*models.ExtractResult, error) {
			calls++
			if calls == 1 {
				return nil, &client.APIError{Op: "extract", StatusCode: 500, Body: "boom"}
			}
			return &models.ExtractResult{Similarity: 0.97}, nil
		},
	}

	v, err := NewVerifyService(fc, "", discard()).Verify(context.Background(), testSession(), anImage)
	require.NoError(t, err)
	assert.True(t, v.Matched)
	assert.Equal(t, "0xb", v.MediaID)
	assert.Equal(t, 2, v.Checked)
}

func TestVerify_NormalizesIDsAndDropsEmpty(t *testing.T) {
	fc := &fakeClient{Items: items("abc", "", "  ", "0xdef")}

	v, err := NewVerifyService(fc, "", discard()).Verify(context.Background(), testSession(), anImage)
	require.NoError(t, err)
	assert.Equal(t, 2, v.Checked)
	assert.Equal(t, "owner:sha-me|media:0xabc", fc.Extracts[0].CheckText)
	assert.Equal(t, "owner:sha-me|media:0xdef", fc.Extracts[1].CheckText)
}

func TestVerify_Errors(t *testing.T) {
	t.Run("not logged in", func(t *testing.T) {
		fc := &fakeClient{}
		_, err := NewVerifyService(fc, "", discard()).Verify(context.Background(), &models.Session{Token: "t"}, anImage)
		assert.ErrorIs(t, err, common.ErrNotLoggedIn)
		assert.Empty(t, fc.Endpoints)
	})

	t.Run("no ids", func(t *testing.T) {
		fc := &fakeClient{Items: items("", " ")}
		_, err := NewVerifyService(fc, "", discard()).Verify(context.Background(), testSession(), anImage)
		assert.ErrorIs(t, err, common.ErrNoMediaIDs)
		assert.Empty(t, fc.Extracts)
	})

	t.Run("listing fails", func(t *testing.T) {
		fc := &fakeClient{ListErr: &client.APIError{Op: "media ID listing", StatusCode: 401}}
		_, err := NewVerifyService(fc, "", discard()).Verify(context.Background(), testSession(), anImage)
		require.Error(t, err)
		assert.ErrorIs(t, err, client.ErrUnauthorized)
		assert.Contains(t, err.Error(), "unable to fetch media IDs")
	})
}

func TestVerify_CancelledContextAborts(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	fc := &fakeClient{
		Items: items("0xa", "0xb", "0xc"),
		ExtractFn: func(models.ExtractRequest) (*models.ExtractResult, error) {
			cancel()
			return &models.ExtractResult{}, nil
		},
	}

	_, err := NewVerifyService(fc, "", discard()).Verify(ctx, testSession(), anImage)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, fc.Extracts, 1)
}
