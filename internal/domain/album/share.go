package album

import (
	"fmt"
	"net/url"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/SamTheHermit/AlbumPhoto/internal/metrics"
)

// Clipboard receives share links for copying.
type Clipboard interface {
	WriteAll(text string) error
}

// ClientClipboard leaves copying to the client that receives the link.
type ClientClipboard struct{}

func (ClientClipboard) WriteAll(string) error { return nil }

// ShareLinker builds share links. Links encode the album id only; nothing is
// stored, so a link cannot be resolved back into an album.
type ShareLinker struct {
	base *url.URL
}

// NewShareLinker creates a share link generator rooted at publicURL.
func NewShareLinker(publicURL string) (*ShareLinker, error) {
	base, err := url.Parse(publicURL)
	if err != nil {
		return nil, fmt.Errorf("invalid public url %q: %w", publicURL, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid public url %q: scheme and host are required", publicURL)
	}
	return &ShareLinker{base: base}, nil
}

// Link returns <origin><path>?album=<id>&share=true.
func (s *ShareLinker) Link(a *Album) (string, error) {
	if a == nil {
		return "", ErrNoAlbumToShare
	}

	u := *s.base
	u.RawQuery = url.Values{
		"album": {a.ID.String()},
		"share": {"true"},
	}.Encode()
	u.Fragment = ""

	metrics.ShareLinks.Inc()
	return u.String(), nil
}

// CopyLink writes link to the clipboard. Failure is reported, never fatal.
func CopyLink(cb Clipboard, link string) error {
	if err := cb.WriteAll(link); err != nil {
		log.Warn().Err(err).Msg("Failed to copy share link")
		return fmt.Errorf("%w: %w", ErrClipboard, err)
	}
	return nil
}

// ShareQuery is the result of reading a share link's query string.
// RawAlbumID keeps the album parameter as given; AlbumID is nil unless it
// parses as a UUID.
type ShareQuery struct {
	Shared     bool
	RawAlbumID string
	AlbumID    *uuid.UUID
}

// ParseShareQuery reads the album id from a share link query. Any
// share=true query is reported as shared.
func ParseShareQuery(q url.Values) ShareQuery {
	if q.Get("share") != "true" {
		return ShareQuery{}
	}
	sq := ShareQuery{Shared: true, RawAlbumID: q.Get("album")}
	if id, err := uuid.Parse(sq.RawAlbumID); err == nil {
		sq.AlbumID = &id
	}
	return sq
}
