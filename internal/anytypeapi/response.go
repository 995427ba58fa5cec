package anytypeapi

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Envelope keys used by the Anytype API to wrap single resources.
const (
	KeyObject = "object"
	KeyRow    = "row"
	KeyData   = "data"
)

// ErrorPayload mirrors the error document returned by the Anytype API.
type ErrorPayload struct {
	Object  string `json:"object"`
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewError builds an error document for the given status.
func NewError(status int, code, message string) ErrorPayload {
	return ErrorPayload{Object: "error", Status: status, Code: code, Message: message}
}

// DecodeObject parses a response body into a JSON object. An empty body
// yields a nil map; any top-level value other than an object or null is
// rejected.
func DecodeObject(body []byte) (map[string]any, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, nil
	}

	var payload any
	if err := json.Unmarshal(trimmed, &payload); err != nil {
		return nil, fmt.Errorf("anytypeapi: decode response: %w", err)
	}
	switch v := payload.(type) {
	case nil:
		return nil, nil
	case map[string]any:
		return v, nil
	default:
		return nil, fmt.Errorf("anytypeapi: expected JSON object, got %T", payload)
	}
}

// Unwrap returns the nested object stored under the first present key. If
// none of the keys hold an object the payload itself is returned.
func Unwrap(payload map[string]any, keys ...string) map[string]any {
	for _, key := range keys {
		if inner, ok := payload[key].(map[string]any); ok {
			return inner
		}
	}
	return payload
}

// ParseError extracts an Anytype error document from a response body. The
// second return value is false when the body is not such a document.
func ParseError(body []byte) (*ErrorPayload, bool) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, false
	}
	var payload ErrorPayload
	if err := json.Unmarshal(trimmed, &payload); err != nil {
		return nil, false
	}
	if payload.Message == "" && payload.Code == "" {
		return nil, false
	}
	return &payload, true
}
