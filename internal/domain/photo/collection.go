package photo

import (
	"slices"

	"github.com/google/uuid"
)

// Collection is the ordered working set of photos. Insertion order is
// display order. Not safe for concurrent use; the owning session serializes
// access.
type Collection struct {
	photos []*Photo
}

// NewCollection creates an empty collection
func NewCollection() *Collection {
	return &Collection{}
}

// Append adds photos at the end, keeping their order.
func (c *Collection) Append(photos ...*Photo) {
	for _, p := range photos {
		if p != nil {
			c.photos = append(c.photos, p)
		}
	}
}

// RemoveByID removes the photo with the given id. Absent ids are a no-op.
func (c *Collection) RemoveByID(id uuid.UUID) bool {
	before := len(c.photos)
	c.photos = slices.DeleteFunc(c.photos, func(p *Photo) bool {
		return p.ID == id
	})
	return len(c.photos) != before
}

// Clear empties the collection.
func (c *Collection) Clear() {
	c.photos = nil
}

// Count returns the number of photos.
func (c *Collection) Count() int {
	return len(c.photos)
}

// Get returns the photo with the given id.
func (c *Collection) Get(id uuid.UUID) (*Photo, bool) {
	for _, p := range c.photos {
		if p.ID == id {
			return p, true
		}
	}
	return nil, false
}

// Snapshot returns a copy of the photo list. Later mutations of the
// collection never show through it.
func (c *Collection) Snapshot() []*Photo {
	return slices.Clone(c.photos)
}
