package album

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/SamTheHermit/AlbumPhoto/internal/pkg/logger"
	"github.com/SamTheHermit/AlbumPhoto/internal/pkg/response"
)

// BootstrapResponse tells a client whether it was opened from a share link
type BootstrapResponse struct {
	Shared   bool       `json:"shared"`
	AlbumID  *uuid.UUID `json:"album_id,omitempty"`
	Resolved bool       `json:"resolved"` // always false: albums are never stored
}

// Bootstrap handles GET /
// @Summary Detect a share link on startup
// @Tags Album
// @Produce json
// @Param album query string false "Album ID"
// @Param share query string false "true when opened from a share link"
// @Success 200 {object} response.Response{data=BootstrapResponse}
// @Router / [get]
func Bootstrap(w http.ResponseWriter, r *http.Request) {
	q := ParseShareQuery(r.URL.Query())
	if !q.Shared {
		response.OK(w, BootstrapResponse{})
		return
	}

	logger.FromContext(r.Context()).Info().
		Str("album_id", q.RawAlbumID).
		Bool("valid_id", q.AlbumID != nil).
		Msg("Shared album detected")

	response.OK(w, BootstrapResponse{Shared: true, AlbumID: q.AlbumID})
}
