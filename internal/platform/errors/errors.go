// Package errors carries the coded error type shared by every ipvault layer
package errors

// Import as perr to keep the stdlib errors package usable alongside it

import (
	stderrs "errors"
	"fmt"
	"net/http"
	"strconv"
)

// ErrorCode classifies a failure for callers and the wire envelope
// The numeric values are part of the API; append only
type ErrorCode uint16

const (
	ErrorCodeUnknown ErrorCode = iota
	ErrorCodePanic
	ErrorCodeUnavailable
	ErrorCodeTooManyRequests
	ErrorCodeConflict
	ErrorCodeUnauthorized
	ErrorCodeForbidden
	ErrorCodeInvalidArgument
	ErrorCodeValidation
	ErrorCodeJSON
	ErrorCodeNotFound
	ErrorCodeDuplicateKey
	ErrorCodeDB

	// wallet and ledger failures

	ErrorCodeProviderUnavailable
	ErrorCodeUserRejected
	ErrorCodeRequestPending
	ErrorCodeClientNotInitialized
	ErrorCodeClientInitFailed
	ErrorCodeWalletNotConnected
	ErrorCodeInsufficientFunds
	ErrorCodeBackend

	// ErrorCodeInternal is a bug on our side, such as a request that cannot be encoded
	ErrorCodeInternal
)

// ErrorCodeInvalidParameters is the ledger facing name for ErrorCodeInvalidArgument
const ErrorCodeInvalidParameters = ErrorCodeInvalidArgument

type codeInfo struct {
	name   string
	status int
}

var codes = map[ErrorCode]codeInfo{
	ErrorCodeUnknown:              {"unknown", http.StatusInternalServerError},
	ErrorCodePanic:                {"panic", http.StatusInternalServerError},
	ErrorCodeUnavailable:          {"unavailable", http.StatusServiceUnavailable},
	ErrorCodeTooManyRequests:      {"too_many_requests", http.StatusTooManyRequests},
	ErrorCodeConflict:             {"conflict", http.StatusConflict},
	ErrorCodeUnauthorized:         {"unauthorized", http.StatusUnauthorized},
	ErrorCodeForbidden:            {"forbidden", http.StatusForbidden},
	ErrorCodeInvalidArgument:      {"invalid_parameters", http.StatusUnprocessableEntity},
	ErrorCodeValidation:           {"validation", http.StatusBadRequest},
	ErrorCodeJSON:                 {"json", http.StatusBadRequest},
	ErrorCodeNotFound:             {"not_found", http.StatusNotFound},
	ErrorCodeDuplicateKey:         {"duplicate_key", http.StatusConflict},
	ErrorCodeDB:                   {"db", http.StatusInternalServerError},
	ErrorCodeProviderUnavailable:  {"provider_unavailable", http.StatusFailedDependency},
	ErrorCodeUserRejected:         {"user_rejected", http.StatusConflict},
	ErrorCodeRequestPending:       {"request_pending", http.StatusConflict},
	ErrorCodeClientNotInitialized: {"client_not_initialized", http.StatusPreconditionFailed},
	ErrorCodeClientInitFailed:     {"client_init_failed", http.StatusBadGateway},
	ErrorCodeWalletNotConnected:   {"wallet_not_connected", http.StatusUnauthorized},
	ErrorCodeInsufficientFunds:    {"insufficient_funds", http.StatusPaymentRequired},
	ErrorCodeBackend:              {"backend", http.StatusBadGateway},
	ErrorCodeInternal:             {"internal", http.StatusInternalServerError},
}

// HTTPStatusCode maps a code to its response status; unmapped codes are 500
func HTTPStatusCode(c ErrorCode) int {
	if info, ok := codes[c]; ok {
		return info.status
	}
	return http.StatusInternalServerError
}

// String names the code for logs
func (c ErrorCode) String() string {
	if info, ok := codes[c]; ok {
		return info.name
	}
	return "code_" + strconv.Itoa(int(c))
}

// ErrNotFound is returned by lookups that match nothing
var ErrNotFound = New(ErrorCodeNotFound, "not found")

// Error is a coded error with an optional offending field and cause
type Error struct {
	code  ErrorCode
	msg   string
	field string
	orig  error
}

// Wire is the error payload embedded in API responses
type Wire struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Field   string    `json:"field,omitempty"`
}

func (e *Error) Error() string {
	switch {
	case e == nil:
		return "<nil>"
	case e.orig == nil:
		return e.msg
	}
	return e.msg + ": " + e.orig.Error()
}

func (e *Error) Unwrap() error { return e.orig }

// Code returns the classification
func (e *Error) Code() ErrorCode { return e.code }

// Field returns the offending input field, empty when not field specific
func (e *Error) Field() string { return e.field }

// ToWire drops the cause; only the message reaches clients
func (e *Error) ToWire() Wire { return Wire{Code: e.code, Message: e.msg, Field: e.field} }

// WireFrom builds a payload for any error; foreign errors become ErrorCodeUnknown
func WireFrom(err error) Wire {
	if err == nil {
		return Wire{}
	}
	if e, ok := As(err); ok {
		return e.ToWire()
	}
	return Wire{Code: ErrorCodeUnknown, Message: err.Error()}
}

// As finds the outermost *Error in the chain
func As(err error) (*Error, bool) {
	var e *Error
	ok := stderrs.As(err, &e)
	return e, ok
}

// CodeOf returns the code of err, ErrorCodeUnknown for foreign errors
func CodeOf(err error) ErrorCode {
	if e, ok := As(err); ok {
		return e.code
	}
	return ErrorCodeUnknown
}

// IsCode reports whether err carries code
func IsCode(err error, code ErrorCode) bool { return CodeOf(err) == code }

// HTTPStatus is HTTPStatusCode(CodeOf(err))
func HTTPStatus(err error) int { return HTTPStatusCode(CodeOf(err)) }

// WithField returns a copy of err naming field; foreign errors pass through
func WithField(err error, field string) error {
	e, ok := As(err)
	if !ok {
		return err
	}
	cp := *e
	cp.field = field
	return &cp
}

func New(code ErrorCode, msg string) error { return &Error{code: code, msg: msg} }

func Newf(code ErrorCode, format string, a ...any) error {
	return New(code, fmt.Sprintf(format, a...))
}

// Wrap attaches code and msg to orig, which stays reachable through errors.Is/As
func Wrap(orig error, code ErrorCode, msg string) error {
	return &Error{code: code, msg: msg, orig: orig}
}

func Wrapf(orig error, code ErrorCode, format string, a ...any) error {
	return Wrap(orig, code, fmt.Sprintf(format, a...))
}

func NotFoundf(format string, a ...any) error     { return Newf(ErrorCodeNotFound, format, a...) }
func InvalidArgf(format string, a ...any) error   { return Newf(ErrorCodeInvalidArgument, format, a...) }
func DBf(format string, a ...any) error           { return Newf(ErrorCodeDB, format, a...) }
func JSONErrf(format string, a ...any) error      { return Newf(ErrorCodeJSON, format, a...) }
func PanicErrf(format string, a ...any) error     { return Newf(ErrorCodePanic, format, a...) }
func Unauthorizedf(format string, a ...any) error { return Newf(ErrorCodeUnauthorized, format, a...) }
func Conflictf(format string, a ...any) error     { return Newf(ErrorCodeConflict, format, a...) }
func Unavailablef(format string, a ...any) error  { return Newf(ErrorCodeUnavailable, format, a...) }
func Validationf(format string, a ...any) error   { return Newf(ErrorCodeValidation, format, a...) }
func Backendf(format string, a ...any) error      { return Newf(ErrorCodeBackend, format, a...) }

func NotInitializedf(format string, a ...any) error {
	return Newf(ErrorCodeClientNotInitialized, format, a...)
}
