package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/SamTheHermit/AlbumPhoto/internal/pkg/errorhandler"
)

// Recover is a middleware that recovers from panics
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				if err == http.ErrAbortHandler {
					panic(err)
				}
				errorhandler.HandlePanicError(w, r, err, string(debug.Stack()))
			}
		}()

		next.ServeHTTP(w, r)
	})
}
