package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes carried in the backend's error envelope
const (
	CodeInvalidExpression = "invalid expression"
	CodeInvalidArgument   = "invalid argument"
	CodeNotFound          = "instance not found"
	CodeAlreadyExists     = "instance already exists"
	CodeNotUnique         = "instance not unique"
	CodeUnauthorized      = "unauthorized"
	CodeTransport         = "transport error"
	CodeInternal          = "internal error"
)

// Sentinels for errors.Is checks against a *BackendError or a storage error
var (
	ErrInvalidExpression = errors.New(CodeInvalidExpression)
	ErrInvalidArgument   = errors.New(CodeInvalidArgument)
	ErrNotFound          = errors.New(CodeNotFound)
	ErrAlreadyExists     = errors.New(CodeAlreadyExists)
	ErrNotUnique         = errors.New(CodeNotUnique)
	ErrUnauthorized      = errors.New(CodeUnauthorized)
	ErrTransport         = errors.New(CodeTransport)
	ErrInternal          = errors.New(CodeInternal)
)

var sentinels = map[string]error{
	CodeInvalidExpression: ErrInvalidExpression,
	CodeInvalidArgument:   ErrInvalidArgument,
	CodeNotFound:          ErrNotFound,
	CodeAlreadyExists:     ErrAlreadyExists,
	CodeNotUnique:         ErrNotUnique,
	CodeUnauthorized:      ErrUnauthorized,
	CodeTransport:         ErrTransport,
	CodeInternal:          ErrInternal,
}

// BackendError is any failure returned by a QueryExecutor
type BackendError struct {
	Code        string
	Description string
	Status      int   // HTTP status when the error came over the wire
	Err         error // underlying cause, if any
}

func (e *BackendError) Error() string {
	if e.Description == "" {
		return e.Code
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel that corresponds to the error code
func (e *BackendError) Is(target error) bool {
	sentinel, ok := sentinels[e.Code]
	return ok && sentinel == target
}

// ToBackendError classifies err into a *BackendError. Errors that already are
// backend errors are returned as is; unknown errors become internal errors.
func ToBackendError(err error) *BackendError {
	if err == nil {
		return nil
	}
	var be *BackendError
	if errors.As(err, &be) {
		return be
	}
	for code, sentinel := range sentinels {
		if errors.Is(err, sentinel) {
			return &BackendError{Code: code, Description: err.Error(), Status: StatusForCode(code), Err: err}
		}
	}
	return &BackendError{Code: CodeInternal, Description: err.Error(), Status: http.StatusInternalServerError, Err: err}
}

// StatusForCode maps an error code to the HTTP status the backend answers with
func StatusForCode(code string) int {
	switch code {
	case CodeInvalidExpression, CodeInvalidArgument:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeNotFound:
		return http.StatusNotFound
	case CodeAlreadyExists, CodeNotUnique:
		return http.StatusConflict
	case CodeTransport:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// CodeForStatus is the inverse of StatusForCode, used when an error envelope
// carries no code.
func CodeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return CodeInvalidArgument
	case http.StatusUnauthorized, http.StatusForbidden:
		return CodeUnauthorized
	case http.StatusNotFound:
		return CodeNotFound
	case http.StatusConflict:
		return CodeAlreadyExists
	default:
		return CodeInternal
	}
}
