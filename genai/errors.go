package genai

import (
	"net/http"

	"github.com/luminara-app/backend/srvcerr"
)

const ErrCodeProviderUnavailable = "ai_provider_unavailable"

// newErrProviderUnavailable carries a generic public message. Whatever the
// provider answered goes into debug info only; raw upstream errors must
// never reach clients.
func newErrProviderUnavailable() *srvcerr.Error {
	return srvcerr.New(
		ErrCodeProviderUnavailable,
		"the AI service is temporarily unavailable, please try again later",
	).SetHttpStatusCode(http.StatusBadGateway)
}
