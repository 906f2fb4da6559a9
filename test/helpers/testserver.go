package helpers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"pareto_backend/database"
	"pareto_backend/internal/app"
	"pareto_backend/internal/config"
	"pareto_backend/internal/content"
	"pareto_backend/internal/email"
	"pareto_backend/internal/logger"
	"pareto_backend/internal/ratelimit"
	"pareto_backend/internal/services"
	"pareto_backend/internal/storage"
)

// TestServer runs the full router over an in-memory sqlite database,
// local storage in a temp dir and a recording email provider.
type TestServer struct {
	Server   *httptest.Server
	DB       *gorm.DB
	Config   *config.Config
	Mail     *email.RecordingProvider
	Store    *storage.LocalStorage
	Services *services.ServiceContainer
}

// NewTestServer builds a fresh server per test; everything is closed on cleanup.
// configure, when given, can tweak the config before the app is wired.
func NewTestServer(t *testing.T, configure ...func(*config.Config)) *TestServer {
	t.Helper()
	logger.Init("test")

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open("file:it_"+name+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err, "open test database")
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.AutoMigrate(db), "migrate test database")

	cfg := config.Default()
	cfg.Server.Env = "test"
	cfg.JWT.Secret = "integration-secret"
	cfg.Storage.BasePath = t.TempDir()
	cfg.Storage.BaseURL = "/files"
	cfg.App.SiteURL = "https://pareto.test"
	cfg.App.AdminEmail = "team@pareto.test"
	for _, fn := range configure {
		fn(cfg)
	}

	store, err := storage.NewLocalStorage(storage.ConfigFrom(cfg))
	require.NoError(t, err)
	templates, err := email.NewDefaultTemplateManager("")
	require.NoError(t, err)
	mail := email.NewRecordingProvider(templates)
	catalogue, err := content.Load("")
	require.NoError(t, err)

	a := app.New(cfg, db, services.Infrastructure{
		Storage:       store,
		EmailProvider: mail,
		Limiter: ratelimit.NewMemoryLimiter(cfg.Auth.MagicLinkRateLimit,
			time.Duration(cfg.Auth.MagicLinkRateWindow)*time.Second),
		Content: catalogue,
	})
	require.NoError(t, a.Bootstrap(context.Background()))

	ts := &TestServer{
		Server:   httptest.NewServer(a.Router),
		DB:       db,
		Config:   cfg,
		Mail:     mail,
		Store:    store,
		Services: a.Services,
	}
	t.Cleanup(ts.Close)
	return ts
}

func (ts *TestServer) Close() {
	ts.Server.Close()
	if sqlDB, err := ts.DB.DB(); err == nil {
		sqlDB.Close()
	}
}

// SendRequest sends a JSON request and returns the response with its body.
func (ts *TestServer) SendRequest(t *testing.T, method, path, token string, body interface{}) (*http.Response, string) {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		require.NoError(t, err, "encode request body")
		reqBody = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequest(method, ts.Server.URL+path, reqBody)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return ts.do(t, req)
}

// File is one multipart file part
type File struct {
	Field    string
	Name     string
	Content  []byte
	MimeType string
}

// SendMultipart posts payload as the "payload" JSON field plus the given files.
func (ts *TestServer) SendMultipart(t *testing.T, method, path, token string, payload interface{}, files ...File) (*http.Response, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	require.NoError(t, mw.WriteField("payload", string(raw)))
	for _, f := range files {
		mimeType := f.MimeType
		if mimeType == "" {
			mimeType = "application/octet-stream"
		}
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, f.Field, f.Name))
		h.Set("Content-Type", mimeType)
		part, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(f.Content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req, err := http.NewRequest(method, ts.Server.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return ts.do(t, req)
}

func (ts *TestServer) do(t *testing.T, req *http.Request) (*http.Response, string) {
	t.Helper()
	res, err := ts.Server.Client().Do(req)
	require.NoError(t, err, "send request")
	defer res.Body.Close()

	resBody, err := io.ReadAll(res.Body)
	require.NoError(t, err, "read response body")
	return res, string(resBody)
}

// DecodeJSON unmarshals a response body into out
func DecodeJSON(t *testing.T, body string, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal([]byte(body), out), body)
}
