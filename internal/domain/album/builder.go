package album

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/SamTheHermit/AlbumPhoto/internal/domain/photo"
	"github.com/SamTheHermit/AlbumPhoto/internal/metrics"
)

// DefaultTitle is used when the user leaves the title blank.
const DefaultTitle = "Mon album photo"

// BuilderConfig configures album building
type BuilderConfig struct {
	DefaultTitle string
	// Delay simulates processing time. Zero builds synchronously.
	Delay time.Duration
}

// Builder snapshots a collection into an Album.
type Builder struct {
	config BuilderConfig
	now    func() time.Time
	newID  func() uuid.UUID
}

// NewBuilder creates album builder
func NewBuilder(config BuilderConfig) *Builder {
	if strings.TrimSpace(config.DefaultTitle) == "" {
		config.DefaultTitle = DefaultTitle
	}
	return &Builder{
		config: config,
		now:    time.Now,
		newID:  uuid.New,
	}
}

// Build creates a new album from photos. The photo list is copied; the
// decoded payloads are shared.
func (b *Builder) Build(ctx context.Context, photos []*photo.Photo, title, description string) (*Album, error) {
	if len(photos) == 0 {
		return nil, ErrEmptyCollection
	}

	if b.config.Delay > 0 {
		timer := time.NewTimer(b.config.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	title = strings.TrimSpace(title)
	if title == "" {
		title = b.config.DefaultTitle
	}

	a := &Album{
		ID:          b.newID(),
		Title:       title,
		Description: strings.TrimSpace(description),
		Photos:      slices.Clone(photos),
		CreatedAt:   b.now(),
	}

	metrics.AlbumsBuilt.Inc()
	log.Info().
		Str("album_id", a.ID.String()).
		Str("title", a.Title).
		Int("photos", len(a.Photos)).
		Msg("Album created successfully")

	return a, nil
}
