package owner

import (
	"fmt"
	"net/http"

	"github.com/luminara-app/backend/srvcerr"
)

const ErrCodeEmailEmpty = "email_empty"

func newErrEmailEmpty() *srvcerr.Error {
	return srvcerr.New(
		ErrCodeEmailEmpty,
		"email is required",
	).SetHttpStatusCode(http.StatusBadRequest)
}

const ErrCodeEmailTooLong = "email_too_long"

func newErrEmailTooLong() *srvcerr.Error {
	return srvcerr.New(
		ErrCodeEmailTooLong,
		"email is too long",
	).SetHttpStatusCode(http.StatusBadRequest)
}

const ErrCodeEmailInvalid = "email_invalid"

func newErrEmailInvalid() *srvcerr.Error {
	return srvcerr.New(
		ErrCodeEmailInvalid,
		"email is not valid",
	).SetHttpStatusCode(http.StatusBadRequest)
}

const ErrCodePasswordTooShort = "password_too_short"

func newErrPasswordTooShort(minLength int) *srvcerr.Error {
	return srvcerr.New(
		ErrCodePasswordTooShort,
		fmt.Sprintf("password must be at least %d characters long", minLength),
	).SetHttpStatusCode(http.StatusBadRequest)
}

const ErrCodePasswordTooLong = "password_too_long"

func newErrPasswordTooLong() *srvcerr.Error {
	return srvcerr.New(
		ErrCodePasswordTooLong,
		"password is too long",
	).SetHttpStatusCode(http.StatusBadRequest)
}

const ErrCodeEmailAlreadyExists = "email_exists"

func newErrEmailExists() *srvcerr.Error {
	return srvcerr.New(
		ErrCodeEmailAlreadyExists,
		"an account with this email already exists",
	).SetHttpStatusCode(http.StatusConflict)
}

const ErrCodeEmailOrPasswordIncorrect = "email_or_password_incorrect"

func newErrEmailOrPasswordIncorrect() *srvcerr.Error {
	return srvcerr.New(
		ErrCodeEmailOrPasswordIncorrect,
		"email or password is incorrect",
	).SetHttpStatusCode(http.StatusUnauthorized)
}

const ErrCodeOwnerNotFound = "owner_not_found"

func newErrOwnerNotFound() *srvcerr.Error {
	return srvcerr.New(
		ErrCodeOwnerNotFound,
		"owner was not found",
	).SetHttpStatusCode(http.StatusNotFound)
}
