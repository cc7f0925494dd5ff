package session

import (
	"github.com/google/uuid"

	"github.com/SamTheHermit/AlbumPhoto/internal/pkg/apperr"
)

// EventType for view update messages
type EventType string

const (
	EventViewRefreshed EventType = "view_refreshed"
	EventLoading       EventType = "loading"
	EventNotice        EventType = "notice"
)

// Notice is a blocking user-facing message.
type Notice struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Event is pushed to every subscriber of a session.
type Event struct {
	Type      EventType `json:"type"`
	SessionID uuid.UUID `json:"session_id"`
	View      *View     `json:"view,omitempty"`
	Loading   *bool     `json:"loading,omitempty"`
	Notice    *Notice   `json:"notice,omitempty"`
}

// Notifier delivers session events to clients.
type Notifier interface {
	Publish(sessionID uuid.UUID, event *Event)
}

// SessionCloser is implemented by notifiers holding per-session
// subscribers that must go away with the session.
type SessionCloser interface {
	CloseSession(sessionID uuid.UUID)
}

type noopNotifier struct{}

func (noopNotifier) Publish(uuid.UUID, *Event) {}

func noticeFor(err error) *Notice {
	if appErr, ok := apperr.As(err); ok {
		return &Notice{Code: appErr.Code, Message: appErr.Message}
	}
	return &Notice{Code: apperr.Unhandled.Code, Message: apperr.Unhandled.Message}
}
