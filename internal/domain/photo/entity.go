package photo

import (
	"github.com/google/uuid"

	"github.com/SamTheHermit/AlbumPhoto/internal/pkg/imaging"
)

// FileRef describes the file a photo was ingested from.
type FileRef struct {
	Name      string
	MediaType string
	Size      int64
}

// Photo is one decoded, displayable image plus its metadata.
// Payload is immutable and may be shared between a collection and albums.
type Photo struct {
	ID      uuid.UUID
	Name    string
	Payload *imaging.DecodedImage
	Source  FileRef
}
