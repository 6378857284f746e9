package api

import (
	"errors"
	"net/http"

	"github.com/phrazzld/tasklog-api/internal/api/shared"
	"github.com/phrazzld/tasklog-api/internal/domain"
	"github.com/phrazzld/tasklog-api/internal/service"
	"github.com/phrazzld/tasklog-api/internal/service/auth"
	"github.com/phrazzld/tasklog-api/internal/store"
)

// Client-facing error messages.
const (
	MsgUnauthorized       = "Unauthorized"
	MsgInvalidCredentials = "Invalid credentials"
	MsgUserExists         = "User with that email or username already exists"
	MsgNotFound           = "Not found"
	MsgInvalidID          = "Invalid id"
	MsgInvalidBody        = "Invalid request body"
	MsgBodyTooLarge       = "Request body too large"
	MsgValidation         = "Validation failed"
	MsgServerError        = "Server error"
)

// errBadRequestBody marks a body that could not be decoded.
var errBadRequestBody = errors.New("invalid request body")

// MapErrorToStatusCode maps internal errors to HTTP status codes. Unknown
// errors map to 500 so internal failures never look like client mistakes.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, store.ErrUserExists),
		errors.Is(err, errBadRequestBody):
		return http.StatusBadRequest

	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, domain.ErrUnauthorized),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid):
		return http.StatusUnauthorized

	case errors.Is(err, store.ErrTaskNotFound):
		return http.StatusNotFound

	case shared.IsBodyTooLarge(err):
		return http.StatusRequestEntityTooLarge

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns the client-facing message for err. It never
// includes text from the error itself.
func GetSafeErrorMessage(err error) string {
	switch {
	case err == nil:
		return MsgServerError
	case errors.Is(err, domain.ErrInvalidID):
		return MsgInvalidID
	case errors.Is(err, store.ErrUserExists):
		return MsgUserExists
	case errors.Is(err, errBadRequestBody):
		return MsgInvalidBody
	case errors.Is(err, service.ErrInvalidCredentials):
		return MsgInvalidCredentials
	case errors.Is(err, domain.ErrUnauthorized),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid):
		return MsgUnauthorized
	case errors.Is(err, store.ErrTaskNotFound):
		return MsgNotFound
	case shared.IsBodyTooLarge(err):
		return MsgBodyTooLarge
	case errors.Is(err, domain.ErrValidation):
		return MsgValidation
	default:
		return MsgServerError
	}
}

// HandleAPIError writes the response for err. Itemized validation failures
// become a 400 listing every field; everything else goes through
// MapErrorToStatusCode and GetSafeErrorMessage and is logged redacted.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error) {
	var verrs domain.ValidationErrors
	if errors.As(err, &verrs) {
		shared.RespondWithValidationErrors(w, r, verrs)
		return
	}

	status := MapErrorToStatusCode(err)
	var opts []shared.ResponseOption
	if status == http.StatusUnauthorized {
		opts = append(opts, shared.WithElevatedLogLevel())
	}
	shared.RespondWithErrorAndLog(w, r, status, GetSafeErrorMessage(err), err, opts...)
}
