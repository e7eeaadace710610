package helpers

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"bootcamp_backend/internal/app"
	"bootcamp_backend/internal/config"
	"bootcamp_backend/internal/query"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// TestServer wraps an httptest server running the full router against
// an in-memory database.
type TestServer struct {
	Server *httptest.Server
	DB     *gorm.DB
	Email  *app.MockEmailProvider
}

// NewTestServer builds the application with an in-memory sqlite
// database, a stub geocoder and a recording email provider.
func NewTestServer(t *testing.T, storageDir string) *TestServer {
	config.AppConfig = &config.Config{}
	cfg := config.AppConfig
	cfg.Server.Env = "test"
	cfg.JWT.Secret = "integration-test-secret"
	cfg.JWT.TTL = 30
	cfg.Storage.Type = "local"
	cfg.Storage.BasePath = storageDir
	cfg.Upload.MaxSize = 1024 * 1024
	cfg.Upload.AllowedTypes = []string{"image/"}

	db, err := gorm.Open(sqlite.Open("file:integration?mode=memory&cache=shared"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get *sql.DB: %v", err)
	}
	// A single connection keeps the shared in-memory database alive and
	// avoids sqlite write contention.
	sqlDB.SetMaxOpenConns(1)

	if err := app.AutoMigrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	emailProvider := &app.MockEmailProvider{}
	router := app.SetupRouter(cfg, db,
		app.WithGeocoder(&app.MockGeocoder{}),
		app.WithEmailProvider(emailProvider),
	)

	return &TestServer{
		Server: httptest.NewServer(router),
		DB:     db,
		Email:  emailProvider,
	}
}

func (ts *TestServer) Close() {
	ts.Server.Close()
	sqlDB, _ := ts.DB.DB()
	sqlDB.Close()
}

// SendRequest performs a JSON request against the test server.
func (ts *TestServer) SendRequest(t *testing.T, method, path, token string, body interface{}) (*http.Response, string) {
	url := ts.Server.URL + path

	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := ts.Server.Client().Do(req)
	if err != nil {
		t.Fatalf("failed to send request: %v", err)
	}

	resBodyBytes, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatalf("failed to read response body: %v", err)
	}
	defer res.Body.Close()

	return res, string(resBodyBytes)
}

// SendFile performs a multipart upload with a single "file" part.
func (ts *TestServer) SendFile(t *testing.T, method, path, token, filename, contentType string, content []byte) (*http.Response, string) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	header := make(map[string][]string)
	header["Content-Disposition"] = []string{`form-data; name="file"; filename="` + filename + `"`}
	header["Content-Type"] = []string{contentType}
	part, err := w.CreatePart(header)
	if err != nil {
		t.Fatalf("failed to create multipart part: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("failed to write multipart content: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("failed to finalize multipart body: %v", err)
	}

	req, err := http.NewRequest(method, ts.Server.URL+path, &buf)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := ts.Server.Client().Do(req)
	if err != nil {
		t.Fatalf("failed to send request: %v", err)
	}

	resBodyBytes, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatalf("failed to read response body: %v", err)
	}
	defer res.Body.Close()

	return res, string(resBodyBytes)
}

// Envelope mirrors the API response shape.
type Envelope struct {
	Success    bool             `json:"success"`
	Count      int              `json:"count"`
	Pagination query.Pagination `json:"pagination"`
	Data       json.RawMessage  `json:"data"`
}

// ParseEnvelope decodes a response body into the success envelope.
func ParseEnvelope(t *testing.T, body string) Envelope {
	var env Envelope
	if err := json.Unmarshal([]byte(body), &env); err != nil {
		t.Fatalf("failed to decode response envelope: %v\nbody: %s", err, body)
	}
	return env
}
