package anytype

import (
	"strings"

	"github.com/dracory/env"
)

const (
	EnvAPIURL  = "ANYTYPE_API_URL"
	EnvAPIKey  = "ANYTYPE_API_KEY"
	EnvSpaceID = "ANYTYPE_SPACE_ID"
	EnvTableID = "ANYTYPE_TABLE_ID"
)

// ConfigFromEnv reads connection settings from ANYTYPE_* variables.
//
// Values go through dracory/env processing: a value prefixed "base64:" is
// decoded with URL-safe base64 and one prefixed "obfuscated:" is
// deobfuscated. When decoding fails the decoder's error text becomes the
// value, so such an API key is rejected by the server rather than here.
// Keys that legitimately start with either prefix must be passed by flag or
// to New directly.
func ConfigFromEnv() Config {
	return Config{
		BaseURL: strings.TrimSpace(env.GetStringOrDefault(EnvAPIURL, "")),
		APIKey:  strings.TrimSpace(env.GetStringOrDefault(EnvAPIKey, "")),
		SpaceID: strings.TrimSpace(env.GetStringOrDefault(EnvSpaceID, "")),
		TableID: strings.TrimSpace(env.GetStringOrDefault(EnvTableID, "")),
	}
}

// NewFromEnv constructs a Client from ANYTYPE_API_URL and ANYTYPE_API_KEY.
// It does not read .env files.
func NewFromEnv(opts ...Option) (*Client, error) {
	return NewFromConfig(ConfigFromEnv(), opts...)
}
