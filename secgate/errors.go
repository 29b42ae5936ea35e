package secgate

import (
	"fmt"
	"net/http"

	"github.com/luminara-app/backend/srvcerr"
)

const ErrCodePermissionDenied = "permission_denied"

func newErrPermissionDenied(action string) *srvcerr.Error {
	return srvcerr.New(
		ErrCodePermissionDenied,
		fmt.Sprintf("you are not allowed to perform %q", action),
	).SetHttpStatusCode(http.StatusForbidden)
}

const ErrCodeRateLimitExceeded = "rate_limit_exceeded"

func newErrRateLimitExceeded() *srvcerr.Error {
	return srvcerr.New(
		ErrCodeRateLimitExceeded,
		"too many requests, please wait a moment and try again",
	).SetHttpStatusCode(http.StatusTooManyRequests)
}
