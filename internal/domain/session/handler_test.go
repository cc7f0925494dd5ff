package session

import (
	"bytes"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/SamTheHermit/AlbumPhoto/internal/pkg/locale"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func newTestRouter(t *testing.T) (http.Handler, *Hub) {
	t.Helper()
	hub := NewHub()
	go hub.Run()
	t.Cleanup(hub.Shutdown)

	manager := NewManager(testDeps(t, hub), time.Hour)
	h := NewHandler(manager, hub, HandlerConfig{DefaultLocale: locale.Default})

	r := chi.NewRouter()
	r.Mount("/sessions", h.Routes(nil))
	return r, hub
}

func do(t *testing.T, h http.Handler, method, path string, body []byte, contentType string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	var env envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
			t.Fatalf("decode %s %s: %v", method, path, err)
		}
	}
	return w, env
}

func createSession(t *testing.T, h http.Handler) uuid.UUID {
	t.Helper()
	w, env := do(t, h, http.MethodPost, "/sessions", nil, "")
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var view View
	if err := json.Unmarshal(env.Data, &view); err != nil {
		t.Fatalf("decode view: %v", err)
	}
	return view.SessionID
}

func multipartImages(t *testing.T, n int) ([]byte, string) {
	t.Helper()
	data := jpegData(t)
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for i := 0; i < n; i++ {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", `form-data; name="files"; filename="photo.jpg"`)
		header.Set("Content-Type", "image/jpeg")
		part, err := mw.CreatePart(header)
		if err != nil {
			t.Fatalf("create part: %v", err)
		}
		part.Write(data)
	}
	mw.Close()
	return buf.Bytes(), mw.FormDataContentType()
}

func TestHandlerWorkflow(t *testing.T) {
	h, _ := newTestRouter(t)
	id := createSession(t, h)
	base := "/sessions/" + id.String()

	w, env := do(t, h, http.MethodPost, base+"/organize", nil, "")
	if w.Code != http.StatusConflict || env.Error.Code != "EMPTY_COLLECTION" {
		t.Fatalf("expected EMPTY_COLLECTION conflict, got %d %s", w.Code, w.Body.String())
	}

	body, ct := multipartImages(t, 5)
	w, env = do(t, h, http.MethodPost, base+"/photos", body, ct)
	if w.Code != http.StatusOK {
		t.Fatalf("upload: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var added AddResult
	if err := json.Unmarshal(env.Data, &added); err != nil {
		t.Fatalf("decode upload: %v", err)
	}
	if added.View.PhotoCount != 5 {
		t.Fatalf("expected 5 photos, got %d", added.View.PhotoCount)
	}

	thumbPath := base + "/photos/" + added.View.Photos[0].ID.String() + "/thumbnail"
	if w, _ := do(t, h, http.MethodGet, thumbPath, nil, ""); w.Code != http.StatusOK || w.Header().Get("Content-Type") != "image/jpeg" {
		t.Fatalf("thumbnail: got %d %s", w.Code, w.Header().Get("Content-Type"))
	}

	if w, _ := do(t, h, http.MethodPost, base+"/organize", nil, ""); w.Code != http.StatusOK {
		t.Fatalf("organize: expected 200, got %d", w.Code)
	}

	w, _ = do(t, h, http.MethodPost, base+"/album", []byte(`{"title":"Trip"}`), "application/json")
	if w.Code != http.StatusCreated {
		t.Fatalf("build: expected 201, got %d: %s", w.Code, w.Body.String())
	}

	w, _ = do(t, h, http.MethodGet, base+"/album/export", nil, "")
	if w.Code != http.StatusOK || w.Header().Get("Content-Type") != "application/pdf" {
		t.Fatalf("export: got %d %s", w.Code, w.Body.String())
	}
	_, params, err := mime.ParseMediaType(w.Header().Get("Content-Disposition"))
	if err != nil || params["filename"] != "Trip.pdf" {
		t.Fatalf("unexpected disposition %q", w.Header().Get("Content-Disposition"))
	}
	if w.Header().Get("X-Album-Pages") != "3" {
		t.Fatalf("expected 3 pages, got %s", w.Header().Get("X-Album-Pages"))
	}

	w, env = do(t, h, http.MethodPost, base+"/album/share", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("share: expected 200, got %d", w.Code)
	}
	var share ShareResult
	json.Unmarshal(env.Data, &share)
	if !strings.Contains(share.Link, "share=true") {
		t.Fatalf("unexpected link %q", share.Link)
	}

	w, env = do(t, h, http.MethodPost, base+"/reset", []byte(`{"confirm":false}`), "application/json")
	if w.Code != http.StatusConflict || env.Error.Code != "CONFIRMATION_REQUIRED" {
		t.Fatalf("expected confirmation conflict, got %d %s", w.Code, w.Body.String())
	}

	if w, _ := do(t, h, http.MethodPost, base+"/reset", []byte(`{"confirm":true}`), "application/json"); w.Code != http.StatusOK {
		t.Fatalf("confirmed reset: expected 200, got %d", w.Code)
	}
}

func TestHandlerRejectsOversizedTitle(t *testing.T) {
	h, _ := newTestRouter(t)
	id := createSession(t, h)

	title := strings.Repeat("a", 201)
	w, env := do(t, h, http.MethodPost, "/sessions/"+id.String()+"/album", []byte(`{"title":"`+title+`"}`), "application/json")
	if w.Code != http.StatusUnprocessableEntity || env.Error.Code != "VALIDATION_ERROR" {
		t.Fatalf("expected validation error, got %d %s", w.Code, w.Body.String())
	}
}

func TestHandlerPreconditions(t *testing.T) {
	h, _ := newTestRouter(t)
	id := createSession(t, h)
	base := "/sessions/" + id.String()

	tests := []struct {
		method string
		path   string
		code   string
	}{
		{http.MethodGet, base + "/album/export", "NO_ALBUM"},
		{http.MethodPost, base + "/album/share", "NO_ALBUM"},
		{http.MethodPost, base + "/album", "EMPTY_COLLECTION"},
	}
	for _, tt := range tests {
		w, env := do(t, h, tt.method, tt.path, []byte(`{}`), "application/json")
		if w.Code != http.StatusConflict || env.Error == nil || env.Error.Code != tt.code {
			t.Errorf("%s %s: expected 409 %s, got %d %s", tt.method, tt.path, tt.code, w.Code, w.Body.String())
		}
	}
}

func TestHandlerUnknownSession(t *testing.T) {
	h, _ := newTestRouter(t)

	if w, _ := do(t, h, http.MethodGet, "/sessions/"+uuid.NewString(), nil, ""); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	if w, _ := do(t, h, http.MethodGet, "/sessions/not-a-uuid", nil, ""); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestHandlerCreateWithLocale(t *testing.T) {
	h, _ := newTestRouter(t)

	w, env := do(t, h, http.MethodPost, "/sessions", []byte(`{"locale":"en-US"}`), "application/json")
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", w.Code)
	}
	var view View
	json.Unmarshal(env.Data, &view)
	if view.Locale != "en-US" {
		t.Fatalf("expected en-US, got %q", view.Locale)
	}

	w, _ = do(t, h, http.MethodPost, "/sessions", []byte(`{"locale":"???"}`), "application/json")
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for bad locale, got %d", w.Code)
	}
}

func TestWebSocketReceivesViewRefresh(t *testing.T) {
	h, hub := newTestRouter(t)
	srv := httptest.NewServer(h)
	defer srv.Close()

	id := createSession(t, h)
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/sessions/" + id.String() + "/ws"

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var event Event
	if err := json.Unmarshal(msg, &event); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if event.Type != EventViewRefreshed || event.View == nil || event.View.SessionID != id {
		t.Fatalf("unexpected first event %+v", event)
	}

	deadline := time.Now().Add(time.Second)
	for hub.ConnectionCount(id) != 1 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if hub.ConnectionCount(id) != 1 {
		t.Fatalf("expected 1 subscriber, got %d", hub.ConnectionCount(id))
	}
}
