package dispatch

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/mwiater/orderbridge/internal/downstream"
	"github.com/mwiater/orderbridge/internal/guard"
	"github.com/mwiater/orderbridge/internal/tools"
)

// Kind is the stable, machine-readable error name carried by failed envelopes.
type Kind string

const (
	KindUnauthorized Kind = "unauthorized"
	KindNotFound     Kind = "not_found"
	KindValidation   Kind = "validation_error"
	KindBadRequest   Kind = "bad_request"
	KindHTTP         Kind = "http_error"
	KindNetwork      Kind = "network_error"
	KindBadJSON      Kind = "bad_json"
	KindConfig       Kind = "config_error"
	KindServer       Kind = "server_error"
)

// HTTPStatus maps a kind onto the status code the HTTP surface answers with.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	case KindValidation, KindBadRequest:
		return http.StatusBadRequest
	case KindHTTP, KindNetwork, KindBadJSON:
		return http.StatusBadGateway
	case KindConfig:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Error is a classified dispatch failure.
type Error struct {
	Kind       Kind
	Details    string
	StatusCode int
	Violations []tools.Violation
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Details)
}

func newError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Details: fmt.Sprintf(format, args...)}
}

// Unauthorized is the error returned when the guard rejects a caller.
func Unauthorized() *Error {
	return newError(KindUnauthorized, "missing or invalid credentials")
}

// Classify turns a handler error into a typed dispatch error. Anything not
// recognized becomes a server_error.
func Classify(err error) *Error {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr
	}
	var httpErr *downstream.HTTPError
	switch {
	case errors.As(err, &httpErr):
		return &Error{
			Kind:       KindHTTP,
			Details:    fmt.Sprintf("downstream returned status %d: %s", httpErr.StatusCode, httpErr.Body),
			StatusCode: httpErr.StatusCode,
		}
	case errors.Is(err, downstream.ErrNotConfigured):
		return newError(KindConfig, "%v", err)
	case errors.Is(err, downstream.ErrNetwork),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		return newError(KindNetwork, "%v", err)
	case errors.Is(err, downstream.ErrBadJSON):
		return newError(KindBadJSON, "%v", err)
	case errors.Is(err, guard.ErrUnauthorized):
		return Unauthorized()
	default:
		return newError(KindServer, "%v", err)
	}
}
