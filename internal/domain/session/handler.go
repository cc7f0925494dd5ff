package session

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/SamTheHermit/AlbumPhoto/internal/domain/album"
	"github.com/SamTheHermit/AlbumPhoto/internal/domain/photo"
	"github.com/SamTheHermit/AlbumPhoto/internal/pkg/errorhandler"
	"github.com/SamTheHermit/AlbumPhoto/internal/pkg/locale"
	"github.com/SamTheHermit/AlbumPhoto/internal/pkg/response"
	"github.com/SamTheHermit/AlbumPhoto/internal/pkg/validator"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// HandlerConfig configures session HTTP handlers
type HandlerConfig struct {
	MaxUploadSize  int64
	DefaultLocale  locale.Locale
	AllowedOrigins []string
}

// Handler handles album session HTTP requests
type Handler struct {
	manager  *Manager
	hub      *Hub
	config   HandlerConfig
	upgrader websocket.Upgrader
}

// NewHandler creates session handler
func NewHandler(manager *Manager, hub *Hub, config HandlerConfig) *Handler {
	if config.MaxUploadSize <= 0 {
		config.MaxUploadSize = 100 << 20
	}
	allowedOrigins := config.AllowedOrigins
	return &Handler{
		manager: manager,
		hub:     hub,
		config:  config,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")

				// Allow all in development
				if len(allowedOrigins) == 0 || origin == "" {
					return true
				}

				for _, allowed := range allowedOrigins {
					if allowed == "*" || origin == allowed {
						return true
					}
				}

				log.Warn().Str("origin", origin).Msg("WebSocket origin rejected")
				return false
			},
		},
	}
}

// Create handles POST /sessions
// @Summary Start a new album session
// @Tags Session
// @Accept json
// @Produce json
// @Param request body CreateRequest false "Session options"
// @Success 201 {object} response.Response{data=View}
// @Failure 400,422 {object} response.Response
// @Router /sessions [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if r.ContentLength != 0 {
		if err := response.DecodeJSON(r.Body, &req); err != nil && !errors.Is(err, io.EOF) {
			response.BadRequest(w, "Invalid JSON body")
			return
		}
	}

	if errors := validator.Validate(&req); errors != nil {
		response.ValidationError(w, errors)
		return
	}

	loc := locale.FromAcceptLanguage(r.Header.Get("Accept-Language"), h.config.DefaultLocale)
	if req.Locale != "" {
		loc = locale.Parse(req.Locale)
	}

	s := h.manager.Create(loc)
	response.Created(w, s.View())
}

// Get handles GET /sessions/{id}
// @Summary Current view of a session
// @Tags Session
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} response.Response{data=View}
// @Failure 400,404 {object} response.Response
// @Router /sessions/{id} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	response.OK(w, s.View())
}

// AddPhotos handles POST /sessions/{id}/photos
// @Summary Add photos to the collection
// @Tags Photo
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Session ID"
// @Param files formData file true "Images"
// @Success 200 {object} response.Response{data=AddResult}
// @Failure 400,404,422 {object} response.Response
// @Router /sessions/{id}/photos [post]
func (h *Handler) AddPhotos(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.config.MaxUploadSize)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		log.Warn().Err(err).Str("session_id", s.ID.String()).Msg("Failed to parse upload")
		response.BadRequest(w, ErrInvalidUpload.Error())
		return
	}
	defer r.MultipartForm.RemoveAll()

	headers := r.MultipartForm.File["files"]
	files := make([]photo.CandidateFile, len(headers))
	for i, fh := range headers {
		files[i] = photo.FromMultipart(fh)
	}

	result, err := s.AddFiles(r.Context(), files)
	if err != nil {
		errorhandler.HandleError(w, r, err)
		return
	}

	response.OK(w, result)
}

// RemovePhoto handles DELETE /sessions/{id}/photos/{photoID}
// @Summary Remove one photo
// @Tags Photo
// @Produce json
// @Param id path string true "Session ID"
// @Param photoID path string true "Photo ID"
// @Success 200 {object} response.Response{data=View}
// @Failure 400,404 {object} response.Response
// @Router /sessions/{id}/photos/{photoID} [delete]
func (h *Handler) RemovePhoto(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	photoID, err := uuid.Parse(chi.URLParam(r, "photoID"))
	if err != nil {
		response.BadRequest(w, "Invalid photo ID")
		return
	}

	response.OK(w, s.RemovePhoto(photoID))
}

// ClearPhotos handles DELETE /sessions/{id}/photos
// @Summary Remove every photo
// @Tags Photo
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} response.Response{data=View}
// @Failure 400,404 {object} response.Response
// @Router /sessions/{id}/photos [delete]
func (h *Handler) ClearPhotos(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	response.OK(w, s.ClearPhotos())
}

// Thumbnail handles GET /sessions/{id}/photos/{photoID}/thumbnail
func (h *Handler) Thumbnail(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	photoID, err := uuid.Parse(chi.URLParam(r, "photoID"))
	if err != nil {
		response.BadRequest(w, "Invalid photo ID")
		return
	}

	thumb, err := s.Thumbnail(photoID)
	if err != nil {
		response.NotFound(w, "Photo not found")
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Content-Length", strconv.Itoa(len(thumb)))
	w.Header().Set("Cache-Control", "private, max-age=3600")
	w.WriteHeader(http.StatusOK)
	w.Write(thumb)
}

// Organize handles POST /sessions/{id}/organize
func (h *Handler) Organize(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	view, err := s.GoToOrganize()
	if err != nil {
		errorhandler.HandleError(w, r, err)
		return
	}
	response.OK(w, view)
}

// Upload handles POST /sessions/{id}/upload
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	response.OK(w, s.GoToUpload())
}

// BuildAlbum handles POST /sessions/{id}/album
// @Summary Create the album from the collection
// @Tags Album
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body album.BuildRequest true "Album title and description"
// @Success 201 {object} response.Response{data=View}
// @Failure 400,404,409,422 {object} response.Response
// @Router /sessions/{id}/album [post]
func (h *Handler) BuildAlbum(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req album.BuildRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errors := validator.Validate(&req); errors != nil {
		response.ValidationError(w, errors)
		return
	}

	view, err := s.BuildAlbum(r.Context(), req.Title, req.Description)
	if err != nil {
		errorhandler.HandleError(w, r, err)
		return
	}
	response.Created(w, view)
}

// ExportAlbum handles GET /sessions/{id}/album/export
// @Summary Download the album as PDF
// @Tags Album
// @Produce application/pdf
// @Param id path string true "Session ID"
// @Success 200 {file} binary
// @Failure 400,404,409,429,500 {object} response.Response
// @Router /sessions/{id}/album/export [get]
func (h *Handler) ExportAlbum(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	result, err := s.Export(r.Context())
	if err != nil {
		errorhandler.HandleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": result.FileName}))
	w.Header().Set("Content-Length", strconv.Itoa(len(result.Document)))
	w.Header().Set("X-Album-Pages", strconv.Itoa(result.PageCount))
	w.Header().Set("X-Album-Skipped", strconv.Itoa(len(result.Skipped)))
	w.WriteHeader(http.StatusOK)
	w.Write(result.Document)
}

// ShareAlbum handles POST /sessions/{id}/album/share
// @Summary Generate a share link
// @Tags Album
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} response.Response{data=ShareResult}
// @Failure 400,404,409 {object} response.Response
// @Router /sessions/{id}/album/share [post]
func (h *Handler) ShareAlbum(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	result, err := s.Share()
	if err != nil {
		errorhandler.HandleError(w, r, err)
		return
	}
	response.OK(w, result)
}

// Reset handles POST /sessions/{id}/reset
// @Summary Start a new album
// @Tags Album
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body ResetRequest true "Confirmation"
// @Success 200 {object} response.Response{data=View}
// @Failure 400,404,409 {object} response.Response
// @Router /sessions/{id}/reset [post]
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req ResetRequest
	if r.ContentLength != 0 {
		if err := response.DecodeJSON(r.Body, &req); err != nil && !errors.Is(err, io.EOF) {
			response.BadRequest(w, "Invalid JSON body")
			return
		}
	}

	view, err := s.Reset(req.Confirm)
	if err != nil {
		errorhandler.HandleError(w, r, err)
		return
	}
	response.OK(w, view)
}

// WebSocket handles WS /sessions/{id}/ws
func (h *Handler) WebSocket(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	client := &Connection{
		SessionID: s.ID,
		Conn:      conn,
		Send:      make(chan []byte, 64),
	}

	// Current view goes out first
	if data, err := json.Marshal(&Event{Type: EventViewRefreshed, SessionID: s.ID, View: s.View()}); err == nil {
		client.Send <- data
	}
	h.hub.Register(client)

	go h.wsReader(client)
	go h.wsWriter(client)
}

// wsReader only drains control frames; clients send nothing.
func (h *Handler) wsReader(client *Connection) {
	defer func() {
		h.hub.Unregister(client)
		client.Conn.Close()
	}()

	client.Conn.SetReadLimit(maxMessageSize)
	client.Conn.SetReadDeadline(time.Now().Add(pongWait))
	client.Conn.SetPongHandler(func(string) error {
		client.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := client.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Error().Err(err).Str("session_id", client.SessionID.String()).Msg("WebSocket read error")
			}
			return
		}
	}
}

func (h *Handler) wsWriter(client *Connection) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		client.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-client.Send:
			client.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the channel
				client.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := client.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			client.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := client.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*Session, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid session ID")
		return nil, false
	}

	s, err := h.manager.Get(id)
	if err != nil {
		response.NotFound(w, "Session not found")
		return nil, false
	}
	return s, true
}
