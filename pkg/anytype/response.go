package anytype

import (
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/anytype-sdk/anytype_sdk_go/internal/anytypeapi"
)

// Response is the decoded JSON object returned by the API.
type Response map[string]any

// ID returns the identifier of the resource in the response. It checks the
// top-level "id" field first, then the "object" and "row" envelopes.
func (r Response) ID() string {
	if id, ok := r["id"].(string); ok && id != "" {
		return id
	}
	inner := anytypeapi.Unwrap(r, anytypeapi.KeyObject, anytypeapi.KeyRow)
	if id, ok := inner["id"].(string); ok {
		return id
	}
	return ""
}

// Decode copies the response into out, matching fields by their json tags.
func (r Response) Decode(out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return fmt.Errorf("anytype: build decoder: %w", err)
	}
	if err := dec.Decode(map[string]any(r)); err != nil {
		return fmt.Errorf("anytype: decode response: %w", err)
	}
	return nil
}
