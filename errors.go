package hxhydrate

import (
	"errors"
	"fmt"
)

// Sentinel errors for hydration operations.
var (
	ErrDecode         = errors.New("hxhydrate: malformed payload token")
	ErrNetwork        = errors.New("hxhydrate: request failed")
	ErrResponse       = errors.New("hxhydrate: unsuccessful response")
	ErrBindingConfig  = errors.New("hxhydrate: action binding misconfigured")
	ErrTargetNotFound = errors.New("hxhydrate: trigger target not found")
	ErrDepthExceeded  = errors.New("hxhydrate: maximum nesting depth exceeded")

	// Server side.
	ErrNotFound             = errors.New("hxhydrate: resource not found")
	ErrBadRequest           = errors.New("hxhydrate: invalid request body")
	ErrUnsupportedMediaType = errors.New("hxhydrate: unsupported media type")
)

// ResponseError reports a non-2xx response from a component or action endpoint.
type ResponseError struct {
	URL        string
	StatusCode int
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("hxhydrate: %s responded with status %d", e.URL, e.StatusCode)
}

// Is makes errors.Is(err, ErrResponse) match any *ResponseError.
func (e *ResponseError) Is(target error) bool {
	return target == ErrResponse
}

// IsDecodeError checks if err is a payload decode error.
func IsDecodeError(err error) bool {
	return errors.Is(err, ErrDecode)
}

// IsNetworkError checks if err is a transport failure.
func IsNetworkError(err error) bool {
	return errors.Is(err, ErrNetwork)
}

// IsResponseError checks if err is a non-2xx response and returns its status.
func IsResponseError(err error) (int, bool) {
	var re *ResponseError
	if errors.As(err, &re) {
		return re.StatusCode, true
	}
	return 0, false
}
