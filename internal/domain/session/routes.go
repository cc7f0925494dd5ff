package session

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns session router. exportLimit throttles document export.
func (h *Handler) Routes(exportLimit func(http.Handler) http.Handler) chi.Router {
	if exportLimit == nil {
		exportLimit = func(next http.Handler) http.Handler { return next }
	}

	r := chi.NewRouter()

	r.Post("/", h.Create)

	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.Get)

		// Upload stage
		r.Post("/photos", h.AddPhotos)
		r.Delete("/photos", h.ClearPhotos)
		r.Delete("/photos/{photoID}", h.RemovePhoto)
		r.Get("/photos/{photoID}/thumbnail", h.Thumbnail)

		// Navigation
		r.Post("/organize", h.Organize)
		r.Post("/upload", h.Upload)
		r.Post("/reset", h.Reset)

		// Album
		r.Post("/album", h.BuildAlbum)
		r.With(exportLimit).Get("/album/export", h.ExportAlbum)
		r.Post("/album/share", h.ShareAlbum)

		// View refresh stream
		r.Get("/ws", h.WebSocket)
	})

	return r
}
