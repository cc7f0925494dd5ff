package session

import (
	"errors"

	"github.com/SamTheHermit/AlbumPhoto/internal/pkg/apperr"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrInvalidUpload   = errors.New("invalid multipart upload")

	// ErrSessionReset is returned by an operation whose session was reset
	// while it ran. Its result is dropped.
	ErrSessionReset = apperr.New(apperr.KindPrecondition, "SESSION_RESET",
		"Un nouvel album a été commencé pendant l'opération.")
)
