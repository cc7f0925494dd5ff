package errorhandler

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/SamTheHermit/AlbumPhoto/internal/pkg/apperr"
	"github.com/SamTheHermit/AlbumPhoto/internal/pkg/logger"
	"github.com/SamTheHermit/AlbumPhoto/internal/pkg/response"
)

// HandleError logs err and writes the matching user-facing notice.
// Errors without a user-facing kind are reported as internal errors.
func HandleError(w http.ResponseWriter, r *http.Request, err error) {
	appErr, ok := apperr.As(err)
	if !ok {
		logger.FromContext(r.Context()).Error().
			Err(err).
			Str("request_id", getRequestID(r)).
			Str("path", r.URL.Path).
			Msg("Request error")
		response.InternalError(w)
		return
	}

	status := StatusFor(appErr.Kind)
	event := logger.FromContext(r.Context()).Warn()
	if status >= http.StatusInternalServerError {
		event = logger.FromContext(r.Context()).Error()
	}
	event.
		Err(err).
		Str("request_id", getRequestID(r)).
		Str("error_code", appErr.Code).
		Str("error_kind", string(appErr.Kind)).
		Int("status_code", status).
		Msg("Request error")

	response.Error(w, status, appErr.Code, appErr.Message)
}

// HandlePanicError logs and handles panics with full stack trace
func HandlePanicError(w http.ResponseWriter, r *http.Request, panicErr interface{}, stackTrace string) {
	log.Error().
		Str("request_id", getRequestID(r)).
		Interface("panic_error", panicErr).
		Str("panic_stack", stackTrace).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Msg("Request panic error")

	response.Error(w, http.StatusInternalServerError, apperr.Unhandled.Code, apperr.Unhandled.Message)
}

// StatusFor maps an error kind to its HTTP status.
func StatusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindValidation:
		return http.StatusUnprocessableEntity
	case apperr.KindPrecondition:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func getRequestID(r *http.Request) string {
	if id := r.Header.Get("X-Request-ID"); id != "" {
		return id
	}
	return "unknown"
}
