package objects

import (
	"encoding/json"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// DefaultTypeKey is applied when an Object has no type key.
const DefaultTypeKey = "page"

// Object is the payload used to create or update an Anytype object.
type Object struct {
	Name       string           `json:"name" yaml:"name"`
	Body       string           `json:"body,omitempty" yaml:"body,omitempty"`
	TypeKey    string           `json:"type_key,omitempty" yaml:"type_key,omitempty"`
	Icon       map[string]any   `json:"icon,omitempty" yaml:"icon,omitempty"`
	Properties []map[string]any `json:"properties,omitempty" yaml:"properties,omitempty"`
}

// NewObject returns an Object with the default type key.
func NewObject(name string) Object {
	return Object{Name: name, TypeKey: DefaultTypeKey}
}

// EmojiIcon builds an icon payload for an emoji.
func EmojiIcon(emoji string) map[string]any {
	return map[string]any{"emoji": emoji, "format": "emoji"}
}

// Validate checks the fields the API requires.
func (o Object) Validate() error {
	return validation.ValidateStruct(&o,
		validation.Field(&o.Name, validation.Required),
	)
}

// ToMap converts the object to its request payload. Name, body and type key
// are always present; icon and properties only when set.
func (o Object) ToMap() map[string]any {
	typeKey := strings.TrimSpace(o.TypeKey)
	if typeKey == "" {
		typeKey = DefaultTypeKey
	}
	data := map[string]any{
		"name":     o.Name,
		"body":     o.Body,
		"type_key": typeKey,
	}
	if len(o.Icon) > 0 {
		data["icon"] = o.Icon
	}
	if len(o.Properties) > 0 {
		data["properties"] = o.Properties
	}
	return data
}

// MarshalJSON encodes the request payload produced by ToMap.
func (o Object) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.ToMap())
}
