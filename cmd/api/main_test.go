package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/SamTheHermit/AlbumPhoto/internal/config"
)

func testConfig() *config.Config {
	return &config.Config{
		Port:              "0",
		Env:               "test",
		PublicURL:         "http://localhost:8080/",
		AllowedOrigins:    []string{"http://localhost:3000"},
		MaxUploadSize:     1 << 20,
		MaxBatchFiles:     4,
		DecodeConcurrency: 1,
		ThumbWidth:        16,
		ThumbHeight:       16,
		JPEGQuality:       80,
		DefaultAlbumTitle: "Mon album photo",
		DefaultLocale:     "fr-FR",
		PhotosPerPage:     4,
		ExportRateLimit:   1,
		ExportRateBurst:   2,
		SessionTTL:        time.Hour,
	}
}

func newTestApp(t *testing.T) *app {
	t.Helper()
	a, err := newApp(testConfig())
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	go a.hub.Run()
	t.Cleanup(a.hub.Shutdown)
	return a
}

func TestNewAppRejectsInvalidPublicURL(t *testing.T) {
	cfg := testConfig()
	cfg.PublicURL = "not a url"
	if _, err := newApp(cfg); err == nil {
		t.Fatal("expected error for invalid public URL")
	}
}

func TestHealthReportsSessions(t *testing.T) {
	a := newTestApp(t)

	rr := httptest.NewRecorder()
	a.router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/v1/sessions", nil))
	if rr.Code != http.StatusCreated {
		t.Fatalf("create session: %d %s", rr.Code, rr.Body.String())
	}

	rr = httptest.NewRecorder()
	a.router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("health: %d", rr.Code)
	}

	var body struct {
		Data struct {
			Status   string `json:"status"`
			Sessions int    `json:"sessions"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Data.Status != "ok" || body.Data.Sessions != 1 {
		t.Fatalf("unexpected health %+v", body.Data)
	}
}

func TestBootstrapDetectsShareLink(t *testing.T) {
	a := newTestApp(t)

	const id = "6f1c2a52-8f0e-4d6b-9a39-1b1f7c8f4e21"
	rr := httptest.NewRecorder()
	a.router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/?album="+id+"&share=true", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("bootstrap: %d", rr.Code)
	}

	var body struct {
		Data struct {
			Shared   bool   `json:"shared"`
			AlbumID  string `json:"album_id"`
			Resolved bool   `json:"resolved"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !body.Data.Shared || body.Data.AlbumID != id || body.Data.Resolved {
		t.Fatalf("unexpected bootstrap %+v", body.Data)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	a := newTestApp(t)

	rr := httptest.NewRecorder()
	a.router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("metrics: %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "album_") {
		t.Fatalf("expected album metrics in output")
	}
}

func TestRequestIDHeader(t *testing.T) {
	a := newTestApp(t)

	rr := httptest.NewRecorder()
	a.router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("ping: %d", rr.Code)
	}
	if rr.Header().Get("X-Request-ID") == "" {
		t.Fatal("expected X-Request-ID header")
	}
}
