package cli

import (
	"bufio"
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/dmitrijs2005/imarqd/internal/client/config"
	"github.com/dmitrijs2005/imarqd/internal/client/models"
	"github.com/dmitrijs2005/imarqd/internal/logging"
)

type fakeAuth struct {
	restoreSess *models.Session
	restoreErr  error

	loginSess  *models.Session
	loginErr   error
	loginEmail string
	loginPw    string

	logoutErr   error
	logoutCalls int
}

func (f *fakeAuth) Restore(ctx context.Context) (*models.Session, error) {
	return f.restoreSess, f.restoreErr
}

func (f *fakeAuth) Login(ctx context.Context, email string, password []byte) (*models.Session, error) {
	f.loginEmail = email
	f.loginPw = string(password)
	return f.loginSess, f.loginErr
}

func (f *fakeAuth) Logout(ctx context.Context) error {
	f.logoutCalls++
	return f.logoutErr
}

type fakeWatermark struct {
	out     *models.ProtectedImage
	err     error
	gotFile models.ImageFile
	gotSess *models.Session

	hist      []models.HistoryRecord
	histErr   error
	histLimit int

	last    *models.HistoryRecord
	lastErr error
}

func (f *fakeWatermark) Protect(ctx context.Context, sess *models.Session, file models.ImageFile) (*models.ProtectedImage, error) {
	f.gotSess = sess
	f.gotFile = file
	return f.out, f.err
}

func (f *fakeWatermark) History(ctx context.Context, sess *models.Session, limit int) ([]models.HistoryRecord, error) {
	f.histLimit = limit
	return f.hist, f.histErr
}

func (f *fakeWatermark) Last(ctx context.Context, sess *models.Session) (*models.HistoryRecord, error) {
	return f.last, f.lastErr
}

type fakeVerify struct {
	verdict *models.Verdict
	err     error
	gotFile models.ImageFile
}

func (f *fakeVerify) Verify(ctx context.Context, sess *models.Session, file models.ImageFile) (*models.Verdict, error) {
	f.gotFile = file
	return f.verdict, f.err
}

type fakeMonitor struct {
	report    *models.MisuseReport
	err       error
	gotHandle string
}

func (f *fakeMonitor) Scan(ctx context.Context, sess *models.Session, handle string) (*models.MisuseReport, error) {
	f.gotHandle = handle
	return f.report, f.err
}

type fakeSink struct {
	name string
	data []byte
	loc  string
	err  error
}

func (f *fakeSink) Save(ctx context.Context, name string, data []byte) (string, error) {
	f.name, f.data = name, data
	return f.loc, f.err
}

type testApp struct {
	*App
	out  *bytes.Buffer
	auth *fakeAuth
	wm   *fakeWatermark
	vf   *fakeVerify
	mon  *fakeMonitor
	sink *fakeSink
}

func newTestApp(t *testing.T, input ...string) *testApp {
	t.Helper()
	cfg := &config.Config{}
	cfg.LoadDefaults()

	out := &bytes.Buffer{}
	ta := &testApp{
		out:  out,
		auth: &fakeAuth{},
		wm:   &fakeWatermark{},
		vf:   &fakeVerify{},
		mon:  &fakeMonitor{},
		sink: &fakeSink{loc: "/tmp/out.png"},
	}
	ta.App = &App{
		config:           cfg,
		logger:           logging.Discard(),
		authService:      ta.auth,
		watermarkService: ta.wm,
		verifyService:    ta.vf,
		monitorService:   ta.mon,
		sink:             ta.sink,
		active:           PanelProtect,
		toast:            NewToast(out),
		reader:           bufio.NewReader(strings.NewReader(strings.Join(input, "\n"))),
		out:              out,
	}
	return ta
}

func loggedIn(ta *testApp) *testApp {
	ta.session = &models.Session{Token: "tok", Email: "me@example.com", EmailSHA: "sha", APIBase: "https://api.test"}
	return ta
}

func stubImage(t *testing.T) *string {
	t.Helper()
	var gotPath string
	orig := readImageFile
	readImageFile = func(path string) (models.ImageFile, error) {
		gotPath = path
		return models.ImageFile{Name: "pic.jpg", ContentType: "image/jpeg", Data: []byte("img")}, nil
	}
	t.Cleanup(func() { readImageFile = orig })
	return &gotPath
}
