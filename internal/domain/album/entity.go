package album

import (
	"time"

	"github.com/google/uuid"

	"github.com/SamTheHermit/AlbumPhoto/internal/domain/photo"
)

// Album is an immutable named snapshot of a collection. A new build yields
// a new Album; an existing one is never edited.
type Album struct {
	ID          uuid.UUID
	Title       string
	Description string
	Photos      []*photo.Photo // copy of the collection at build time
	CreatedAt   time.Time
}

// PhotoCount returns the number of photos in the album.
func (a *Album) PhotoCount() int {
	if a == nil {
		return 0
	}
	return len(a.Photos)
}
