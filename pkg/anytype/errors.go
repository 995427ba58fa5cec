package anytype

import (
	"errors"
	"net/http"

	"github.com/anytype-sdk/anytype_sdk_go/internal/anytypeapi"
	"github.com/anytype-sdk/anytype_sdk_go/internal/httpx"
)

// HTTPError is returned for responses outside the 2xx range.
type HTTPError = httpx.HTTPError

// ErrMissingAPIKey is returned when a client is built without an API key.
var ErrMissingAPIKey = errors.New("anytype: api key is required")

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode
	}
	return 0
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

// ErrorMessage returns the message from an Anytype error document carried
// by err. It falls back to err.Error() for other errors.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		if payload, ok := anytypeapi.ParseError(httpErr.Body); ok && payload.Message != "" {
			return payload.Message
		}
	}
	return err.Error()
}
