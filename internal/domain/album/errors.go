package album

import "github.com/SamTheHermit/AlbumPhoto/internal/pkg/apperr"

var (
	ErrEmptyCollection = apperr.New(apperr.KindPrecondition, "EMPTY_COLLECTION",
		"Aucune photo à inclure dans l'album.")
	ErrNothingToExport = apperr.New(apperr.KindPrecondition, "NO_ALBUM",
		"Aucun album à télécharger.")
	ErrNoAlbumToShare = apperr.New(apperr.KindPrecondition, "NO_ALBUM",
		"Aucun album à partager.")
	ErrExportFailed = apperr.New(apperr.KindExport, "EXPORT_FAILED",
		"Erreur lors de la génération du PDF. Veuillez réessayer.")
	ErrClipboard = apperr.New(apperr.KindClipboard, "CLIPBOARD_FAILED",
		"Impossible de copier le lien. Veuillez le sélectionner manuellement.")
)
