package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/imarqd/internal/client/client"
	"github.com/dmitrijs2005/imarqd/internal/client/models"
	"github.com/dmitrijs2005/imarqd/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/imarqd/internal/common"
	"github.com/dmitrijs2005/imarqd/internal/logging"
	"github.com/golang-jwt/jwt/v5"
)

// AuthService manages the persisted login session.
//
// Contract:
//   - Restore: load the saved session; ErrNoSession when absent, malformed
//     or expired (the latter two are also cleared).
//   - Login: authenticate and persist the new session.
//   - Logout: forget the saved session.
type AuthService interface {
	Restore(ctx context.Context) (*models.Session, error)
	Login(ctx context.Context, email string, password []byte) (*models.Session, error)
	Logout(ctx context.Context) error
}

type authService struct {
	client  client.Client
	meta    metadata.Repository
	apiBase string
	logger  logging.Logger
	now     func() time.Time
}

// NewAuthService binds the service to the backend client, the metadata store
// and the configured API base.
func NewAuthService(c client.Client, meta metadata.Repository, apiBase string, logger logging.Logger) AuthService {
	return &authService{
		client:  c,
		meta:    meta,
		apiBase: apiBase,
		logger:  logger.With("service", "auth"),
		now:     time.Now,
	}
}

func (a *authService) Restore(ctx context.Context) (*models.Session, error) {
	var sess models.Session
	found, err := metadata.LoadJSON(ctx, a.meta, metadata.KeySession, &sess)
	if !found {
		if err != nil {
			return nil, fmt.Errorf("restore session: %w", err)
		}
		return nil, common.ErrNoSession
	}

	switch {
	case err != nil:
		a.logger.Warn(ctx, "discarding malformed session", "error", err)
	case !sess.LoggedIn():
		a.logger.Warn(ctx, "discarding incomplete session")
	case tokenExpired(sess.Token, a.now()):
		a.logger.Info(ctx, "session token expired", "email", sess.Email)
	default:
		return &sess, nil
	}

	if err := a.meta.Delete(ctx, metadata.KeySession); err != nil {
		a.logger.Error(ctx, "failed to clear session", "error", err)
	}
	return nil, common.ErrNoSession
}

// tokenExpired reports whether token is a JWT whose exp claim lies before now.
// Tokens that are not JWTs, or carry no exp, never expire here; the backend
// stays the judge.
func tokenExpired(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(now)
}

func (a *authService) Login(ctx context.Context, email string, password []byte) (*models.Session, error) {
	email = strings.TrimSpace(email)
	password = bytes.TrimSpace(password)
	if email == "" || len(password) == 0 {
		return nil, common.ErrCredentialsRequired
	}

	base := common.ResolveAPIBase("", a.apiBase)
	resp, err := a.client.Login(ctx, base, email, string(password))
	if err != nil {
		var apiErr *client.APIError
		if errors.As(err, &apiErr) {
			a.logger.Info(ctx, "login rejected", "email", email, "status", apiErr.StatusCode)
			return nil, fmt.Errorf("%w: %w", common.ErrInvalidCredentials, err)
		}
		return nil, fmt.Errorf("login: %w", err)
	}
	if resp.Token == "" {
		return nil, fmt.Errorf("%w: no token in response", common.ErrInvalidCredentials)
	}

	sess := &models.Session{
		Token:    resp.Token,
		Email:    resp.Email,
		UUID:     resp.UUID,
		EmailSHA: resp.EmailSHA,
		APIBase:  base,
	}
	if sess.Email == "" {
		sess.Email = email
	}
	if sess.EmailSHA == "" {
		sess.EmailSHA = common.Sha256Hex(sess.Email)
	}

	if err := metadata.StoreJSON(ctx, a.meta, metadata.KeySession, sess); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	a.logger.Info(ctx, "logged in", "email", sess.Email)
	return sess, nil
}

func (a *authService) Logout(ctx context.Context) error {
	if err := a.meta.Delete(ctx, metadata.KeySession); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}
