package store

import (
	"errors"
	"fmt"
)

// FailureKind is the locally classified category of a store failure.
type FailureKind int

const (
	// FailureTransport - the request never produced an HTTP response
	// (network unreachable, DNS, TLS, cancelled transport).
	FailureTransport FailureKind = iota

	// FailureRejected - the store answered with a non-success status.
	FailureRejected

	// FailureNotFound - the addressed path does not exist. List treats this
	// as an empty directory; Delete treats it as success.
	FailureNotFound
)

func (k FailureKind) String() string {
	switch k {
	case FailureTransport:
		return "transport"
	case FailureRejected:
		return "rejected"
	case FailureNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// APIError is a classified failure from the content store.
type APIError struct {
	Kind       FailureKind
	StatusCode int    // 0 for transport failures
	Message    string // store-provided message, may be empty
	Err        error  // underlying transport error, nil for rejections
}

func (e *APIError) Error() string {
	switch {
	case e.Kind == FailureTransport && e.Err != nil:
		return fmt.Sprintf("could not reach store: %v", e.Err)
	case e.Message != "":
		return fmt.Sprintf("store rejected request (%d): %s", e.StatusCode, e.Message)
	default:
		return fmt.Sprintf("store rejected request (%d)", e.StatusCode)
	}
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is a classified not-found failure.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Kind == FailureNotFound
}

// IsTransport reports whether err is a classified transport failure.
func IsTransport(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Kind == FailureTransport
}

func transportError(err error) *APIError {
	return &APIError{Kind: FailureTransport, Err: err}
}

func rejectionError(status int, message string) *APIError {
	kind := FailureRejected
	if status == 404 {
		kind = FailureNotFound
	}
	return &APIError{Kind: kind, StatusCode: status, Message: message}
}
