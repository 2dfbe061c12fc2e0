package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/imarqd/internal/client/models"
	"github.com/dmitrijs2005/imarqd/internal/common"
	"github.com/dmitrijs2005/imarqd/internal/imagex"
	"github.com/dmitrijs2005/imarqd/internal/logging"
	"github.com/google/uuid"
)

const (
	pathLogin      = "/api/auth/login"
	pathMediaIDs   = "/api/media/ids/me"
	pathWatermark  = "/api/watermark/image"
	pathExtract    = "/api/watermark/image/extract"
	pathAutoSave   = "/media/auto-save"
	pathTwitterCmb = "/api/scanner/twitter/combined"
)

// newRequestID is a test seam.
var newRequestID = uuid.NewString

// HTTPClient is the net/http implementation of Client.
type HTTPClient struct {
	http     *http.Client
	maxBytes int64
	logger   logging.Logger
}

// NewHTTPClient builds a client. A zero timeout means no local deadline.
// Reply bodies longer than maxBytes fail with ErrResponseTooLarge; a
// non-positive maxBytes selects common.DefaultMaxResponseBytes.
func NewHTTPClient(timeout time.Duration, maxBytes int64, logger logging.Logger) *HTTPClient {
	if maxBytes <= 0 {
		maxBytes = common.DefaultMaxResponseBytes
	}
	return &HTTPClient{
		http:     &http.Client{Timeout: timeout},
		maxBytes: maxBytes,
		logger:   logger.With("module", "http_client"),
	}
}

type request struct {
	op          string
	method      string
	url         string
	token       string
	body        io.Reader
	contentType string
}

// do sends r and returns the response body of a 2xx reply. Anything else is
// an *APIError or a transport error matching ErrUnavailable.
func (c *HTTPClient) do(ctx context.Context, r request) ([]byte, http.Header, error) {
	req, err := http.NewRequestWithContext(ctx, r.method, r.url, r.body)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: build request: %w", r.op, err)
	}

	reqID := newRequestID()
	req.Header = common.AuthHeaders(r.token, req.Header)
	req.Header.Set(common.RequestIDHeaderName, reqID)
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}

	c.logger.Debug(ctx, "backend call", "op", r.op, "method", r.method, "url", r.url, "request_id", reqID)

	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, nil, fmt.Errorf("%s: %w", r.op, ctxErr)
		}
		return nil, nil, fmt.Errorf("%s: %w: %w", r.op, ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes+1))
	if err != nil {
		return nil, nil, fmt.Errorf("%s: read body: %w", r.op, err)
	}
	if int64(len(body)) > c.maxBytes {
		c.logger.Warn(ctx, "reply body over limit", "op", r.op, "limit", c.maxBytes, "request_id", reqID)
		return nil, nil, fmt.Errorf("%s: %w (over %d bytes)", r.op, ErrResponseTooLarge, c.maxBytes)
	}

	c.logger.Debug(ctx, "backend reply", "op", r.op, "status", resp.StatusCode, "bytes", len(body), "request_id", reqID)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, nil, &APIError{Op: r.op, StatusCode: resp.StatusCode, Body: string(body)}
	}
	return body, resp.Header, nil
}

func (c *HTTPClient) doJSON(ctx context.Context, r request, out any) error {
	body, _, err := c.do(ctx, r)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%s: decode response: %w", r.op, err)
	}
	return nil
}

func endpointURL(base, path string, query url.Values) string {
	u := strings.TrimRight(base, "/") + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

func (c *HTTPClient) Login(ctx context.Context, base string, email string, password string) (*models.LoginResponse, error) {
	payload, err := json.Marshal(models.LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}

	var resp models.LoginResponse
	err = c.doJSON(ctx, request{
		op:          "login",
		method:      http.MethodPost,
		url:         endpointURL(base, pathLogin, nil),
		body:        bytes.NewReader(payload),
		contentType: "application/json",
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *HTTPClient) ListMediaIDs(ctx context.Context, ep Endpoint, ownerSHA string) ([]models.MediaItem, error) {
	var list models.MediaList
	err := c.doJSON(ctx, request{
		op:     "media ID listing",
		method: http.MethodGet,
		url:    endpointURL(ep.Base, pathMediaIDs, url.Values{"owner_sha": {ownerSHA}}),
		token:  ep.Token,
	}, &list)
	if err != nil {
		return nil, err
	}
	return list.Items, nil
}

func (c *HTTPClient) EmbedWatermark(ctx context.Context, ep Endpoint, req models.EmbedRequest) ([]byte, error) {
	fields := []formField{
		{"text", req.Text},
		{"preset", req.Preset},
		{"media_label", req.Label},
		{"user_uuid", req.UserUUID},
	}
	body, contentType, err := buildMultipart(req.File, fields)
	if err != nil {
		return nil, fmt.Errorf("watermark: %w", err)
	}

	out, _, err := c.do(ctx, request{
		op:          "watermark",
		method:      http.MethodPost,
		url:         endpointURL(ep.Base, pathWatermark, nil),
		token:       ep.Token,
		body:        body,
		contentType: contentType,
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) SaveMedia(ctx context.Context, ep Endpoint, rec models.MediaRecord) error {
	query := url.Values{
		"email":     {rec.Email},
		"email_sha": {rec.EmailSHA},
		"media_id":  {rec.MediaID},
		"label":     {rec.Label},
		"user_uuid": {rec.UserUUID},
	}
	body, _, err := c.do(ctx, request{
		op:     "DB save",
		method: http.MethodPost,
		url:    endpointURL(ep.Base, pathAutoSave, query),
		token:  ep.Token,
	})
	if err != nil {
		return err
	}

	var resp models.SaveResponse
	if err := json.Unmarshal(body, &resp); err != nil || !resp.OK {
		return fmt.Errorf("DB save failed: %s", strings.TrimSpace(string(body)))
	}
	return nil
}

func (c *HTTPClient) Extract(ctx context.Context, ep Endpoint, req models.ExtractRequest) (*models.ExtractResult, error) {
	p := req.Params
	fields := []formField{
		{"payload_bitlen", strconv.Itoa(p.PayloadBitLen)},
		{"qim_step", strconv.Itoa(p.QIMStep)},
		{"repetition", strconv.Itoa(p.Repetition)},
		{"use_y_channel", strconv.FormatBool(p.UseYChannel)},
		{"use_ecc", strconv.FormatBool(p.UseECC)},
		{"ecc_parity_bytes", strconv.Itoa(p.ECCParityBytes)},
		{"check_text", req.CheckText},
	}
	body, contentType, err := buildMultipart(req.File, fields)
	if err != nil {
		return nil, fmt.Errorf("extract: %w", err)
	}

	var res models.ExtractResult
	err = c.doJSON(ctx, request{
		op:          "extract",
		method:      http.MethodPost,
		url:         endpointURL(ep.Base, pathExtract, nil),
		token:       ep.Token,
		body:        body,
		contentType: contentType,
	}, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *HTTPClient) ScanTwitter(ctx context.Context, ep Endpoint, req models.ScanRequest) (*models.ScanResponse, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	var resp models.ScanResponse
	err = c.doJSON(ctx, request{
		op:          "twitter scan",
		method:      http.MethodPost,
		url:         endpointURL(ep.Base, pathTwitterCmb, nil),
		token:       ep.Token,
		body:        bytes.NewReader(payload),
		contentType: "application/json",
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// FetchImage downloads a public image. No credentials are sent.
func (c *HTTPClient) FetchImage(ctx context.Context, imageURL string) (*models.ImageFile, error) {
	data, header, err := c.do(ctx, request{
		op:     "image download",
		method: http.MethodGet,
		url:    imageURL,
	})
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			return nil, fmt.Errorf("failed to download image from URL %s: %w", imageURL, err)
		}
		return nil, err
	}

	ct := header.Get("Content-Type")
	if ct == "" {
		ct = "image/jpeg"
	}
	return &models.ImageFile{
		Name:        "tweet_image." + imagex.ExtensionFor(ct),
		ContentType: ct,
		Data:        data,
	}, nil
}

type formField struct {
	name  string
	value string
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// buildMultipart writes file first, then every non-empty field in order.
// The returned content type carries the generated boundary.
func buildMultipart(file models.ImageFile, fields []formField) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	ct := file.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, quoteEscaper.Replace(file.Name)))
	h.Set("Content-Type", ct)

	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(file.Data); err != nil {
		return nil, "", err
	}

	for _, f := range fields {
		if f.value == "" {
			continue
		}
		if err := w.WriteField(f.name, f.value); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
