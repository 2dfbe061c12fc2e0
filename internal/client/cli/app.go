package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/imarqd/internal/client/client"
	"github.com/dmitrijs2005/imarqd/internal/client/config"
	"github.com/dmitrijs2005/imarqd/internal/client/export"
	"github.com/dmitrijs2005/imarqd/internal/client/models"
	"github.com/dmitrijs2005/imarqd/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/imarqd/internal/client/services"
	"github.com/dmitrijs2005/imarqd/internal/common"
	"github.com/dmitrijs2005/imarqd/internal/logging"
)

// Toast lifetimes.
const (
	successTTL = 5 * time.Second
	infoTTL    = 3 * time.Second
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB

	authService      services.AuthService
	watermarkService services.WatermarkService
	verifyService    services.VerifyService
	monitorService   services.MonitorService
	sink             export.Sink

	session       *models.Session
	lastProtected *models.ProtectedImage
	active        Panel

	toast  *Toast
	reader *bufio.Reader
	out    io.Writer
}

// NewApp opens the local database and wires the services to an HTTP backend
// client. The caller owns the returned App and must Close it.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	db, err := client.InitDatabase(ctx, c.DBPath)
	if err != nil {
		logger.Error(ctx, "error initializing database", "path", c.DBPath, "error", err)
		return nil, err
	}

	sink, err := newSink(ctx, c)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	api := client.NewHTTPClient(c.HTTPTimeout, c.MaxResponseBytes, logger)
	meta := metadata.NewSQLiteRepository(db)

	a := &App{
		config: c,
		logger: logger,
		db:     db,

		authService:      services.NewAuthService(api, meta, c.APIBase, logger),
		watermarkService: services.NewWatermarkService(api, db, c.APIBase, logger),
		verifyService:    services.NewVerifyService(api, c.APIBase, logger),
		monitorService: services.NewMonitorService(api, c.APIBase, services.ScanOptions{
			MaxResults:  c.ScanMaxResults,
			BearerToken: c.ScannerBearerToken,
		}, logger),
		sink: sink,

		active: PanelProtect,
		toast:  NewToast(os.Stdout),
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}
	return a, nil
}

// newSink picks the S3 sink when a bucket is configured, else the download
// directory.
func newSink(ctx context.Context, c *config.Config) (export.Sink, error) {
	if c.S3Bucket == "" {
		return export.NewLocalSink(c.DownloadDir), nil
	}
	s, err := export.NewS3Sink(ctx, export.S3Config{
		Bucket:       c.S3Bucket,
		Region:       c.S3Region,
		BaseEndpoint: c.S3BaseEndpoint,
		AccessKey:    c.S3AccessKey,
		SecretKey:    c.S3SecretKey,
		Prefix:       c.S3Prefix,
	})
	if err != nil {
		return nil, fmt.Errorf("s3 sink: %w", err)
	}
	return s, nil
}

// Run restores the saved session, asks for a login when there is none and
// then serves the REPL until the user exits or input ends.
func (a *App) Run(ctx context.Context) {
	fmt.Fprintln(a.out, "Welcome to imarqd (type 'help' for commands)")

	a.restoreSession(ctx)
	if !a.isLoggedIn() {
		if err := a.Login(ctx); err != nil {
			a.reportError(ctx, "login", err)
		}
	}

	runREPL(ctx, a, a.prompt, a.reader)
}

func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

func (a *App) isLoggedIn() bool {
	return a.session.LoggedIn()
}

func (a *App) prompt() string {
	if !a.isLoggedIn() {
		return "imarqd> "
	}
	return fmt.Sprintf("imarqd (%s) [%s]> ", a.session.Email, a.ActivePanel())
}

// reportError is the per-command recovery boundary: the error is shown as an
// error toast and logged, and the REPL carries on.
func (a *App) reportError(ctx context.Context, cmd string, err error) {
	if errors.Is(err, context.Canceled) {
		a.toast.Show(ToastInfo, cmd+" cancelled", infoTTL)
		return
	}
	a.logger.Error(ctx, "command failed", "command", cmd, "error", err)
	a.toast.Show(ToastError, userMessage(err), 0)
}

// userMessage maps well-known errors to friendlier text.
func userMessage(err error) string {
	switch {
	case errors.Is(err, common.ErrNotLoggedIn):
		return "Please log in first."
	case errors.Is(err, client.ErrUnauthorized):
		return "Session rejected by the server, please log in again."
	case errors.Is(err, client.ErrUnavailable):
		return "Server unavailable: " + err.Error()
	default:
		return err.Error()
	}
}
