// Package apperr defines the typed, recoverable failure conditions returned
// by the commerce engine. Every failure carries a kind for dispatch and a
// human-readable message for the presentation layer; none are fatal.
package apperr

import (
	"errors"
	"net/http"
)

type Kind int

const (
	KindUnknown    Kind = iota
	KindValidation      // malformed input, caller should re-prompt
	KindConflict        // uniqueness violation on register
	KindNotFound        // referenced user/order absent
	KindAuth            // credential or OTP mismatch
	KindExpired         // OTP past its validity window
	KindState           // operation invoked without required prior state
	KindEmptyCart       // checkout with no items
)

// Error is the single error type crossing the engine boundary.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

func Validation(msg string) *Error { return &Error{Kind: KindValidation, Message: msg} }
func Conflict(msg string) *Error   { return &Error{Kind: KindConflict, Message: msg} }
func NotFound(msg string) *Error   { return &Error{Kind: KindNotFound, Message: msg} }
func Auth(msg string) *Error       { return &Error{Kind: KindAuth, Message: msg} }
func Expired(msg string) *Error    { return &Error{Kind: KindExpired, Message: msg} }
func State(msg string) *Error      { return &Error{Kind: KindState, Message: msg} }
func EmptyCart(msg string) *Error  { return &Error{Kind: KindEmptyCart, Message: msg} }

// KindOf returns the kind of err, or KindUnknown for errors that did not
// originate in the engine (store failures, infrastructure errors).
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, k Kind) bool { return KindOf(err) == k }

// HTTPStatus maps an engine error to a response status for the HTTP layer.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindConflict, KindState:
		return http.StatusConflict
	case KindNotFound:
		return http.StatusNotFound
	case KindAuth:
		return http.StatusUnauthorized
	case KindExpired:
		return http.StatusGone
	case KindEmptyCart:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
