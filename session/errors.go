package session

import (
	"net/http"

	"github.com/luminara-app/backend/srvcerr"
)

const ErrCodeNoActiveSession = "no_active_session"

func newErrNoActiveSession() *srvcerr.Error {
	return srvcerr.New(
		ErrCodeNoActiveSession,
		"no active session",
	).SetHttpStatusCode(http.StatusNotFound)
}

const ErrCodeSessionNotFound = "session_not_found"

func newErrSessionNotFound() *srvcerr.Error {
	return srvcerr.New(
		ErrCodeSessionNotFound,
		"session was not found",
	).SetHttpStatusCode(http.StatusNotFound)
}

const ErrCodeSessionEnded = "session_ended"

func newErrSessionEnded() *srvcerr.Error {
	return srvcerr.New(
		ErrCodeSessionEnded,
		"session has already ended",
	).SetHttpStatusCode(http.StatusConflict)
}

const ErrCodeSessionExpired = "session_expired"

func newErrSessionExpired() *srvcerr.Error {
	return srvcerr.New(
		ErrCodeSessionExpired,
		"session has expired, please start a new one",
	).SetHttpStatusCode(http.StatusUnauthorized)
}
