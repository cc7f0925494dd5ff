package session

import (
	"github.com/google/uuid"

	"github.com/SamTheHermit/AlbumPhoto/internal/domain/album"
	"github.com/SamTheHermit/AlbumPhoto/internal/domain/photo"
	"github.com/SamTheHermit/AlbumPhoto/internal/domain/workflow"
)

// View is everything a client needs to render the active stage.
type View struct {
	SessionID       uuid.UUID              `json:"session_id"`
	Stage           workflow.Stage         `json:"stage"`
	Loading         bool                   `json:"loading"`
	Locale          string                 `json:"locale"`
	PhotoCount      int                    `json:"photo_count"`
	Photos          []*photo.PhotoResponse `json:"photos"`
	ShowClear       bool                   `json:"show_clear"`
	ShowNext        bool                   `json:"show_next"`
	NextLabel       string                 `json:"next_label,omitempty"`
	PickerSelection int                    `json:"picker_selection"`
	Album           *album.AlbumResponse   `json:"album,omitempty"`
}

// viewLocked renders the current state. Caller holds s.mu.
func (s *Session) viewLocked() *View {
	count := s.collection.Count()
	v := &View{
		SessionID:       s.ID,
		Stage:           s.nav.Current(),
		Loading:         s.loading > 0,
		Locale:          s.locale.Tag().String(),
		PhotoCount:      count,
		Photos:          photo.PhotoResponses(s.collection.Snapshot()),
		ShowClear:       count > 0,
		ShowNext:        count > 0,
		PickerSelection: s.pickerSelection,
	}
	if count > 0 {
		v.NextLabel = s.locale.OrganizeLabel(count)
	}
	if s.album != nil {
		v.Album = album.AlbumResponseFromEntity(s.album, s.locale)
	}
	return v
}
