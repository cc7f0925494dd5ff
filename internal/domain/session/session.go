package session

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/SamTheHermit/AlbumPhoto/internal/domain/album"
	"github.com/SamTheHermit/AlbumPhoto/internal/domain/photo"
	"github.com/SamTheHermit/AlbumPhoto/internal/domain/workflow"
	"github.com/SamTheHermit/AlbumPhoto/internal/pkg/apperr"
	"github.com/SamTheHermit/AlbumPhoto/internal/pkg/locale"
)

// Deps are the album components shared by all sessions.
type Deps struct {
	Ingester  *photo.Ingester
	Builder   *album.Builder
	Exporter  *album.Exporter
	Linker    *album.ShareLinker
	Clipboard album.Clipboard
	Notifier  Notifier
}

// Session owns one user's workflow: the collection, the current album and
// the active stage. Decoding, building and exporting run outside the lock.
type Session struct {
	ID     uuid.UUID
	locale locale.Locale
	deps   Deps

	mu              sync.Mutex
	collection      *photo.Collection
	album           *album.Album
	nav             *workflow.Navigator
	pickerSelection int
	loading         int
	generation      uint64 // bumped by Reset
	lastSeen        time.Time
	now             func() time.Time
}

// AddResult is the outcome of adding a batch of files.
type AddResult struct {
	View     *View             `json:"view"`
	Rejected []photo.Rejection `json:"rejected,omitempty"`
	Failed   []photo.Rejection `json:"failed,omitempty"`
}

// ShareResult carries a share link and whether it reached the clipboard.
type ShareResult struct {
	Link    string `json:"link"`
	Copied  bool   `json:"copied"`
	Message string `json:"message,omitempty"`
}

// New creates a session on the upload stage.
func New(deps Deps, loc locale.Locale) *Session {
	if deps.Notifier == nil {
		deps.Notifier = noopNotifier{}
	}
	if deps.Clipboard == nil {
		deps.Clipboard = album.ClientClipboard{}
	}
	s := &Session{
		ID:         uuid.New(),
		locale:     loc,
		deps:       deps,
		collection: photo.NewCollection(),
		nav:        workflow.New(),
		now:        time.Now,
	}
	s.lastSeen = s.now()
	return s
}

// View returns the current view state.
func (s *Session) View() *View {
	var v *View
	s.withLock(func() { v = s.viewLocked() })
	return v
}

// AddFiles ingests a batch and appends the decoded photos in input order.
// A batch with no admissible or decodable file changes nothing, and so
// does a batch whose session was reset while decoding.
func (s *Session) AddFiles(ctx context.Context, files []photo.CandidateFile) (res *AddResult, err error) {
	hide := s.showLoading()
	defer hide()
	defer s.guard("add_files", &err)

	var gen uint64
	s.withLock(func() {
		s.pickerSelection = len(files)
		gen = s.generation
	})

	result, err := s.deps.Ingester.Ingest(ctx, files)
	if err != nil {
		s.notify(err)
		res = &AddResult{}
		if result != nil {
			res.Rejected, res.Failed = result.Rejected, result.Failed
		}
		return res, err
	}

	var view *View
	s.withLock(func() {
		if s.generation != gen {
			return
		}
		s.collection.Append(result.Photos...)
		view = s.viewLocked()
	})
	if view == nil {
		log.Info().
			Str("session_id", s.ID.String()).
			Int("photos", len(result.Photos)).
			Msg("Dropped photos decoded before reset")
		return &AddResult{Rejected: result.Rejected, Failed: result.Failed}, ErrSessionReset
	}
	s.publishView(view)

	return &AddResult{View: view, Rejected: result.Rejected, Failed: result.Failed}, nil
}

// RemovePhoto removes one photo. Unknown ids are a no-op.
func (s *Session) RemovePhoto(id uuid.UUID) *View {
	var (
		view    *View
		removed bool
	)
	s.withLock(func() {
		removed = s.collection.RemoveByID(id)
		view = s.viewLocked()
	})
	if removed {
		log.Debug().Str("session_id", s.ID.String()).Str("photo_id", id.String()).Msg("Photo removed")
		s.publishView(view)
	}
	return view
}

// ClearPhotos empties the collection and forgets the last picker selection.
func (s *Session) ClearPhotos() *View {
	var view *View
	s.withLock(func() {
		s.collection.Clear()
		s.pickerSelection = 0
		view = s.viewLocked()
	})
	log.Debug().Str("session_id", s.ID.String()).Msg("All photos cleared")
	s.publishView(view)
	return view
}

// Thumbnail returns the JPEG thumbnail of a photo in the collection.
func (s *Session) Thumbnail(id uuid.UUID) ([]byte, error) {
	var (
		p  *photo.Photo
		ok bool
	)
	s.withLock(func() { p, ok = s.collection.Get(id) })
	if !ok || p.Payload == nil {
		return nil, photo.ErrPhotoNotFound
	}
	return p.Payload.Thumbnail, nil
}

// GoToOrganize moves to the organize stage. Blocked while empty.
func (s *Session) GoToOrganize() (*View, error) {
	var (
		view *View
		err  error
	)
	s.withLock(func() {
		err = s.nav.GoToOrganize(s.collection.Count())
		view = s.viewLocked()
	})
	if err != nil {
		s.notify(err)
		return nil, err
	}
	s.publishView(view)
	return view, nil
}

// GoToUpload moves back to the upload stage, keeping all state.
func (s *Session) GoToUpload() *View {
	var view *View
	s.withLock(func() {
		s.nav.GoToUpload()
		view = s.viewLocked()
	})
	s.publishView(view)
	return view
}

// BuildAlbum snapshots the collection into a new album, replaces the
// previous one and moves to the final stage. It runs from the organize
// stage only. A reset during the build drops the album.
func (s *Session) BuildAlbum(ctx context.Context, title, description string) (view *View, err error) {
	hide := s.showLoading()
	defer hide()
	defer s.guard("build_album", &err)

	var (
		photos []*photo.Photo
		gen    uint64
	)
	s.withLock(func() {
		if err = s.nav.CanBuild(s.collection.Count()); err != nil {
			return
		}
		photos = s.collection.Snapshot()
		gen = s.generation
	})
	if err != nil {
		s.notify(err)
		return nil, err
	}

	a, err := s.deps.Builder.Build(ctx, photos, title, description)
	if err != nil {
		s.notify(err)
		return nil, err
	}

	s.withLock(func() {
		if s.generation != gen {
			err = ErrSessionReset
			return
		}
		s.album = a
		err = s.nav.GoToFinal(a.PhotoCount())
		view = s.viewLocked()
	})
	if errors.Is(err, ErrSessionReset) {
		log.Info().
			Str("session_id", s.ID.String()).
			Str("album_id", a.ID.String()).
			Msg("Dropped album built before reset")
	}
	if err != nil {
		return nil, err
	}
	s.publishView(view)
	return view, nil
}

// Export renders the current album as a document.
func (s *Session) Export(ctx context.Context) (res *album.ExportResult, err error) {
	hide := s.showLoading()
	defer hide()
	defer s.guard("export", &err)

	res, err = s.deps.Exporter.Export(ctx, s.currentAlbum(), s.locale)
	if err != nil {
		s.notify(err)
		return nil, err
	}
	return res, nil
}

// Share builds the share link of the current album and offers it to the
// clipboard. A clipboard failure still returns the link.
func (s *Session) Share() (res *ShareResult, err error) {
	defer s.guard("share", &err)

	link, err := s.deps.Linker.Link(s.currentAlbum())
	if err != nil {
		s.notify(err)
		return nil, err
	}

	res = &ShareResult{Link: link, Copied: true}
	if err := album.CopyLink(s.deps.Clipboard, link); err != nil {
		s.notify(err)
		res.Copied = false
		res.Message = noticeFor(err).Message
	}
	return res, nil
}

// Reset starts a new album. Discarding photos or an album needs confirmed;
// without it nothing changes.
func (s *Session) Reset(confirmed bool) (*View, error) {
	var (
		view *View
		err  error
	)
	s.withLock(func() {
		dirty := s.album != nil || s.collection.Count() > 0
		if err = s.nav.Reset(dirty, confirmed); err != nil {
			return
		}
		s.collection.Clear()
		s.album = nil
		s.pickerSelection = 0
		s.generation++
		view = s.viewLocked()
	})
	if err != nil {
		return nil, err
	}
	log.Info().Str("session_id", s.ID.String()).Msg("Started new album")
	s.publishView(view)
	return view, nil
}

// IdleSince returns the time of the last operation.
func (s *Session) IdleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

func (s *Session) currentAlbum() *album.Album {
	var a *album.Album
	s.withLock(func() { a = s.album })
	return a
}

func (s *Session) withLock(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = s.now()
	fn()
}

// showLoading raises the loading indicator. The returned func lowers it
// and is safe to call more than once.
func (s *Session) showLoading() func() {
	s.withLock(func() { s.loading++ })
	s.publishLoading(true)

	var once sync.Once
	return func() {
		once.Do(func() {
			var still bool
			s.withLock(func() {
				s.loading--
				still = s.loading > 0
			})
			if !still {
				s.publishLoading(false)
			}
		})
	}
}

// guard turns a panic in op into an unhandled error. Must be deferred.
func (s *Session) guard(op string, err *error) {
	r := recover()
	if r == nil {
		return
	}
	log.Error().
		Str("session_id", s.ID.String()).
		Str("operation", op).
		Interface("panic_error", r).
		Str("panic_stack", string(debug.Stack())).
		Msg("Session operation panicked")
	*err = fmt.Errorf("%w: %s: %v", apperr.Unhandled, op, r)
	s.notify(*err)
}

func (s *Session) notify(err error) {
	if errors.Is(err, context.Canceled) {
		return
	}
	s.deps.Notifier.Publish(s.ID, &Event{Type: EventNotice, SessionID: s.ID, Notice: noticeFor(err)})
}

func (s *Session) publishView(v *View) {
	s.deps.Notifier.Publish(s.ID, &Event{Type: EventViewRefreshed, SessionID: s.ID, View: v})
}

func (s *Session) publishLoading(on bool) {
	s.deps.Notifier.Publish(s.ID, &Event{Type: EventLoading, SessionID: s.ID, Loading: &on})
}
