package album

import (
	"time"

	"github.com/google/uuid"

	"github.com/SamTheHermit/AlbumPhoto/internal/domain/photo"
	"github.com/SamTheHermit/AlbumPhoto/internal/pkg/locale"
)

// BuildRequest represents album build request body
type BuildRequest struct {
	Title       string `json:"title" validate:"max=200"`
	Description string `json:"description" validate:"max=2000"`
}

// AlbumResponse is the final view of an album
type AlbumResponse struct {
	ID          uuid.UUID              `json:"id"`
	Title       string                 `json:"title"`
	Description string                 `json:"description,omitempty"`
	PhotoCount  int                    `json:"photo_count"`
	CountLabel  string                 `json:"count_label"` // "5 photos"
	DateLabel   string                 `json:"date_label"`  // "Créé le 18/10/2026"
	CreatedAt   time.Time              `json:"created_at"`
	Photos      []*photo.PhotoResponse `json:"photos"`
}

// AlbumResponseFromEntity converts entity to response
func AlbumResponseFromEntity(a *Album, loc locale.Locale) *AlbumResponse {
	return &AlbumResponse{
		ID:          a.ID,
		Title:       a.Title,
		Description: a.Description,
		PhotoCount:  len(a.Photos),
		CountLabel:  loc.PhotoCount(len(a.Photos)),
		DateLabel:   loc.CreatedOn(a.CreatedAt),
		CreatedAt:   a.CreatedAt,
		Photos:      photo.PhotoResponses(a.Photos),
	}
}

// ShareResponse carries a generated share link
type ShareResponse struct {
	Link string `json:"link"`
}
