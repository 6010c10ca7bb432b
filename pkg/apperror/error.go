package apperror

import "net/http"

// Kind buckets errors into the taxonomy the API exposes. Validation and
// authorization failures are terminal for the request; storage failures leave
// state consistent and may be retried by the caller.
type Kind string

const (
	KindValidation    Kind = "validation"
	KindAuthorization Kind = "authorization"
	KindNotFound      Kind = "not_found"
	KindStorage       Kind = "storage"
	KindPersistence   Kind = "persistence"
	KindInternal      Kind = "internal"
)

type AppError struct {
	Kind    Kind   `json:"kind"`
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(kind Kind, code int, message string, err error) *AppError {
	return &AppError{
		Kind:    kind,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func Validation(message string) *AppError {
	return New(KindValidation, http.StatusBadRequest, message, nil)
}

func BadRequest(message string) *AppError {
	return New(KindValidation, http.StatusBadRequest, message, nil)
}

func Unauthorized(message string) *AppError {
	return New(KindAuthorization, http.StatusUnauthorized, message, nil)
}

func Forbidden(message string) *AppError {
	return New(KindAuthorization, http.StatusForbidden, message, nil)
}

func NotFound(message string) *AppError {
	return New(KindNotFound, http.StatusNotFound, message, nil)
}

// Storage marks a failed call to the external blob store. State is left
// consistent, so the caller may retry the whole operation.
func Storage(message string, err error) *AppError {
	return New(KindStorage, http.StatusBadGateway, message, err)
}

// Persistence marks a failed metadata write after a successful storage write.
// The blob may be orphaned; these must reach the operator log.
func Persistence(message string, err error) *AppError {
	return New(KindPersistence, http.StatusInternalServerError, message, err)
}

func Internal(err error) *AppError {
	return New(KindInternal, http.StatusInternalServerError, "Internal Server Error", err)
}
