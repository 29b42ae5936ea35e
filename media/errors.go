package media

import (
	"net/http"

	"github.com/luminara-app/backend/srvcerr"
)

const ErrCodeMediaEmpty = "media_empty"

func newErrMediaEmpty() *srvcerr.Error {
	return srvcerr.New(
		ErrCodeMediaEmpty,
		"uploaded file is empty",
	).SetHttpStatusCode(http.StatusBadRequest)
}

const ErrCodeMediaTooLarge = "media_too_large"

func newErrMediaTooLarge() *srvcerr.Error {
	return srvcerr.New(
		ErrCodeMediaTooLarge,
		"uploaded file exceeds the maximum allowed size",
	).SetHttpStatusCode(http.StatusBadRequest)
}

const ErrCodeMediaTypeNotAllowed = "media_type_not_allowed"

func newErrMediaTypeNotAllowed() *srvcerr.Error {
	return srvcerr.New(
		ErrCodeMediaTypeNotAllowed,
		"this file type is not supported",
	).SetHttpStatusCode(http.StatusBadRequest)
}

const ErrCodeMediaCorrupt = "media_corrupt"

func newErrMediaCorrupt() *srvcerr.Error {
	return srvcerr.New(
		ErrCodeMediaCorrupt,
		"the uploaded file could not be decoded",
	).SetHttpStatusCode(http.StatusBadRequest)
}

const ErrCodeMediaNotFound = "media_not_found"

func newErrMediaNotFound() *srvcerr.Error {
	return srvcerr.New(
		ErrCodeMediaNotFound,
		"media not found",
	).SetHttpStatusCode(http.StatusNotFound)
}

const ErrCodeMediaUploadFailed = "media_upload_failed"

func newErrMediaUploadFailed() *srvcerr.Error {
	return srvcerr.New(
		ErrCodeMediaUploadFailed,
		"failed to store the uploaded file, please try again",
	).SetHttpStatusCode(http.StatusInternalServerError)
}
