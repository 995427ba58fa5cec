package httpx

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

const (
	maxErrorBodyRunes   = 500
	maxRequestEchoRunes = 1000
)

// HTTPError represents a non-2xx HTTP response returned by the remote service.
type HTTPError struct {
	StatusCode int
	Body       []byte
	Header     http.Header
	JSON       any

	// RequestBody holds the payload sent with a write request, if any.
	RequestBody []byte
}

func (e *HTTPError) Error() string {
	if e == nil {
		return "<nil>"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "HTTP %d", e.StatusCode)
	if detail := e.detail(); detail != "" {
		b.WriteString(": ")
		b.WriteString(detail)
	}
	if len(e.RequestBody) > 0 {
		b.WriteString("\nrequest payload: ")
		b.WriteString(e.RequestEcho())
	}
	return b.String()
}

// Retryable reports whether the error should be considered transient.
func (e *HTTPError) Retryable() bool {
	if e == nil {
		return false
	}
	return e.StatusCode == http.StatusTooManyRequests ||
		e.StatusCode == http.StatusRequestTimeout ||
		(e.StatusCode >= 500 && e.StatusCode <= 599)
}

// RequestEcho renders the outgoing payload as indented JSON, truncated for
// diagnostics. Payloads that are not valid JSON are echoed verbatim.
func (e *HTTPError) RequestEcho() string {
	if e == nil || len(e.RequestBody) == 0 {
		return ""
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, e.RequestBody, "", "  "); err != nil {
		return Truncate(string(e.RequestBody), maxRequestEchoRunes)
	}
	return Truncate(buf.String(), maxRequestEchoRunes)
}

func (e *HTTPError) detail() string {
	if e.JSON != nil {
		data, err := jsonMarshal(e.JSON)
		if err == nil {
			return string(data)
		}
	}
	return Truncate(strings.TrimSpace(string(e.Body)), maxErrorBodyRunes)
}

// Truncate shortens s to at most n runes.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// decodeJSONBody parses the body bytes into a generic JSON payload.
func decodeJSONBody(body []byte) any {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil
	}
	return payload
}
