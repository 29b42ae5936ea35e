package solve

import (
	"fmt"
	"net/http"

	"github.com/luminara-app/backend/srvcerr"
)

const ErrCodeInvalidInputType = "invalid_input_type"

func newErrInvalidInputType(got string) *srvcerr.Error {
	return srvcerr.New(
		ErrCodeInvalidInputType,
		fmt.Sprintf("input type %q is not one of text, image, voice", got),
	).SetHttpStatusCode(http.StatusBadRequest)
}

const ErrCodeTitleRequired = "title_required"

func newErrTitleRequired() *srvcerr.Error {
	return srvcerr.New(
		ErrCodeTitleRequired,
		"submission title is required",
	).SetHttpStatusCode(http.StatusBadRequest)
}

const ErrCodeTitleTooLong = "title_too_long"

func newErrTitleTooLong(maxLen int) *srvcerr.Error {
	return srvcerr.New(
		ErrCodeTitleTooLong,
		fmt.Sprintf("submission title is too long, max %d characters", maxLen),
	).SetHttpStatusCode(http.StatusBadRequest)
}

const ErrCodePayloadRequired = "payload_required"

func newErrPayloadRequired(inputType InputType, field string) *srvcerr.Error {
	return srvcerr.New(
		ErrCodePayloadRequired,
		fmt.Sprintf("a %s submission requires %s", inputType, field),
	).SetHttpStatusCode(http.StatusBadRequest)
}

const ErrCodeContentTooLong = "content_too_long"

func newErrContentTooLong(maxKb int) *srvcerr.Error {
	return srvcerr.New(
		ErrCodeContentTooLong,
		fmt.Sprintf("submission content is too long, max %d KB", maxKb),
	).SetHttpStatusCode(http.StatusBadRequest)
}

const ErrCodeInvalidImageData = "invalid_image_data"

func newErrInvalidImageData() *srvcerr.Error {
	return srvcerr.New(
		ErrCodeInvalidImageData,
		"image_data is not valid base64",
	).SetHttpStatusCode(http.StatusBadRequest)
}

const ErrCodeSubmNotFound = "submission_not_found"

func newErrSubmNotFound() *srvcerr.Error {
	return srvcerr.New(
		ErrCodeSubmNotFound,
		"submission not found",
	).SetHttpStatusCode(http.StatusNotFound)
}
