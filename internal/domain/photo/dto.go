package photo

import (
	"encoding/base64"

	"github.com/google/uuid"
)

// PhotoResponse represents one grid cell in API responses
type PhotoResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	ContentType string    `json:"content_type"`
	Width       int       `json:"width"`
	Height      int       `json:"height"`
	SizeBytes   int64     `json:"size_bytes"`
	Thumbnail   string    `json:"thumbnail"` // data: URL
}

// PhotoResponseFromEntity converts entity to response
func PhotoResponseFromEntity(p *Photo) *PhotoResponse {
	resp := &PhotoResponse{
		ID:        p.ID,
		Name:      p.Name,
		SizeBytes: p.Source.Size,
	}
	if p.Payload != nil {
		resp.ContentType = p.Payload.ContentType
		resp.Width = p.Payload.Width
		resp.Height = p.Payload.Height
		if len(p.Payload.Thumbnail) > 0 {
			resp.Thumbnail = "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(p.Payload.Thumbnail)
		}
	}
	return resp
}

// PhotoResponses converts a list of photos, keeping order.
func PhotoResponses(photos []*Photo) []*PhotoResponse {
	items := make([]*PhotoResponse, len(photos))
	for i, p := range photos {
		items[i] = PhotoResponseFromEntity(p)
	}
	return items
}
