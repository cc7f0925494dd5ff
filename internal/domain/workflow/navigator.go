package workflow

import (
	"github.com/rs/zerolog/log"

	"github.com/SamTheHermit/AlbumPhoto/internal/pkg/apperr"
)

// Stage is one of the three mutually exclusive workflow phases
type Stage string

const (
	StageUpload   Stage = "upload"
	StageOrganize Stage = "organize"
	StageFinal    Stage = "final"
)

var (
	ErrEmptyCollection = apperr.New(apperr.KindPrecondition, "EMPTY_COLLECTION",
		"Veuillez d'abord ajouter des photos.")
	ErrNotOrganizing = apperr.New(apperr.KindPrecondition, "NOT_ORGANIZING",
		"Organisez vos photos avant de créer l'album.")
	ErrNoAlbum = apperr.New(apperr.KindPrecondition, "NO_ALBUM",
		"Aucun album n'a encore été créé.")
	ErrConfirmationRequired = apperr.New(apperr.KindPrecondition, "CONFIRMATION_REQUIRED",
		"Êtes-vous sûr de vouloir créer un nouvel album ? L'album actuel sera perdu.")
)

// Navigator holds the active stage. The zero value is not usable; call New.
type Navigator struct {
	current Stage
}

// New creates a navigator on the upload stage.
func New() *Navigator {
	return &Navigator{current: StageUpload}
}

// Current returns the active stage.
func (n *Navigator) Current() Stage {
	return n.current
}

// GoToUpload always succeeds. It does not discard any state.
func (n *Navigator) GoToUpload() {
	n.goTo(StageUpload)
}

// GoToOrganize is blocked while the collection is empty.
func (n *Navigator) GoToOrganize(count int) error {
	if count == 0 {
		return ErrEmptyCollection
	}
	n.goTo(StageOrganize)
	return nil
}

// CanBuild reports whether an album may be built from count photos. Albums
// are created from the organize stage only.
func (n *Navigator) CanBuild(count int) error {
	if count == 0 {
		return ErrEmptyCollection
	}
	if n.current != StageOrganize {
		return ErrNotOrganizing
	}
	return nil
}

// GoToFinal is reached only after a successful album build.
func (n *Navigator) GoToFinal(albumPhotos int) error {
	if albumPhotos == 0 {
		return ErrNoAlbum
	}
	n.goTo(StageFinal)
	return nil
}

// Reset moves back to upload for a new album. When dirty state would be
// discarded it requires confirmation; declining is a full no-op.
func (n *Navigator) Reset(dirty, confirmed bool) error {
	if dirty && !confirmed {
		return ErrConfirmationRequired
	}
	n.goTo(StageUpload)
	return nil
}

func (n *Navigator) goTo(stage Stage) {
	if n.current != stage {
		log.Debug().Str("from", string(n.current)).Str("to", string(stage)).Msg("Switched stage")
	}
	n.current = stage
}
