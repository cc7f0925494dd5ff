package photo

import (
	"errors"

	"github.com/SamTheHermit/AlbumPhoto/internal/pkg/apperr"
)

var (
	ErrNoValidFiles = apperr.New(apperr.KindValidation, "NO_VALID_FILES",
		"Aucun fichier image valide sélectionné. Veuillez choisir des images (JPG, PNG, GIF) de moins de 10MB.")
	ErrNoDecodableFiles = apperr.New(apperr.KindValidation, "NO_DECODABLE_FILES",
		"Aucune des images sélectionnées n'a pu être lue.")
	ErrTooManyFiles = apperr.New(apperr.KindValidation, "TOO_MANY_FILES",
		"Trop de fichiers sélectionnés en une fois.")

	ErrPhotoNotFound = errors.New("photo not found")
)

// Rejection reasons reported for files kept out of the collection.
const (
	ReasonNotImage     = "not an image"
	ReasonTooLarge     = "too large"
	ReasonUnreadable   = "unreadable"
	ReasonDecodeFailed = "decode failed"
)
