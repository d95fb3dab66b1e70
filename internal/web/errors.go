package web

import (
	"errors"
	"net/http"
)

// HTTPError carries a status code and a stable key for the response body.
type HTTPError struct {
	Code int
	Key  string
}

func (e HTTPError) Error() string {
	return e.Key
}

var (
	ErrBadRequest            = HTTPError{Code: http.StatusBadRequest, Key: "bad_request"}
	ErrNotFound              = HTTPError{Code: http.StatusNotFound, Key: "not_found"}
	ErrRequestEntityTooLarge = HTTPError{Code: http.StatusRequestEntityTooLarge, Key: "request_entity_too_large"}
	ErrUnsupportedMediaType  = HTTPError{Code: http.StatusUnsupportedMediaType, Key: "unsupported_media_type"}
	ErrTooManyRequests       = HTTPError{Code: http.StatusTooManyRequests, Key: "too_many_requests"}
	ErrInternalServerError   = HTTPError{Code: http.StatusInternalServerError, Key: "internal_server_error"}
)

var (
	ErrEmptyMessage = errors.New("message is required")
	ErrInvalidJSON  = errors.New("invalid JSON body")
	ErrMissingFile  = errors.New("no file in field \"audio\"")
	ErrUnknownToast = errors.New("toast not found")
	ErrRateLimited  = errors.New("too many requests, slow down")
)

// httpErrorOf classifies err. Anything not wrapping an HTTPError is a 500.
func httpErrorOf(err error) HTTPError {
	var he HTTPError
	if errors.As(err, &he) {
		return he
	}
	return ErrInternalServerError
}
