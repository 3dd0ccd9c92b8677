package domain

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyURL         = errors.New("url is required")
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrLinkNotFound     = errors.New("link not found")
	ErrSessionChanged   = errors.New("session changed while the request was in flight")
)

// ErrorKind classifies a failed call to the remote service
type ErrorKind int

const (
	KindNone ErrorKind = iota
	KindConnectionRefused
	KindServiceError
	KindMalformedResponse
	KindUnauthorized
)

func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindConnectionRefused:
		return "connection refused"
	case KindServiceError:
		return "service error"
	case KindMalformedResponse:
		return "malformed response"
	case KindUnauthorized:
		return "unauthorized"
	}
	return "unknown"
}

// APIError is returned by every gateway call that does not yield a parsed payload.
type APIError struct {
	Kind    ErrorKind
	Status  int    // HTTP status, 0 for transport failures
	Message string // server supplied message, if any
	Err     error
}

func (e *APIError) Error() string {
	msg := e.Kind.String()
	if e.Status != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.Status)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	} else if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// KindOf reports the ErrorKind carried by err, or KindNone.
func KindOf(err error) ErrorKind {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindNone
}
