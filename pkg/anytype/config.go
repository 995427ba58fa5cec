package anytype

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/hashicorp/hcl/v2/hclsimple"
)

// Config holds the connection settings for the Anytype API.
//
// Example configuration (HCL):
//
//	api_url  = "http://localhost:3030"
//	api_key  = "..."
//	space_id = "bafyrei..."
type Config struct {
	BaseURL string `hcl:"api_url,optional" json:"api_url"`
	APIKey  string `hcl:"api_key,optional" json:"api_key"`
	SpaceID string `hcl:"space_id,optional" json:"space_id"`
	TableID string `hcl:"table_id,optional" json:"table_id"`
}

// Validate checks that the API key is present and the base URL is usable.
func (c Config) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return fmt.Errorf("%w (set %s)", ErrMissingAPIKey, EnvAPIKey)
	}
	err := validation.ValidateStruct(&c,
		validation.Field(&c.BaseURL, validation.Required, validation.By(validBaseURL)),
	)
	if err != nil {
		return fmt.Errorf("anytype: invalid config: %w", err)
	}
	return nil
}

// Merge returns a copy of c with every non-empty field of other applied.
func (c Config) Merge(other Config) Config {
	if v := strings.TrimSpace(other.BaseURL); v != "" {
		c.BaseURL = v
	}
	if v := strings.TrimSpace(other.APIKey); v != "" {
		c.APIKey = v
	}
	if v := strings.TrimSpace(other.SpaceID); v != "" {
		c.SpaceID = v
	}
	if v := strings.TrimSpace(other.TableID); v != "" {
		c.TableID = v
	}
	return c
}

func (c Config) withDefaults() Config {
	if strings.TrimSpace(c.BaseURL) == "" {
		c.BaseURL = DefaultBaseURL
	}
	return c
}

// LoadConfigFile decodes an HCL (or HCL-JSON) configuration file.
func LoadConfigFile(path string) (Config, error) {
	var cfg Config
	if err := hclsimple.DecodeFile(path, nil, &cfg); err != nil {
		return Config{}, fmt.Errorf("anytype: load config file: %w", err)
	}
	return cfg, nil
}

// DecodeConfig decodes configuration from src. The filename suffix selects
// the syntax: ".hcl" or ".json".
func DecodeConfig(filename string, src []byte) (Config, error) {
	var cfg Config
	if err := hclsimple.Decode(filename, src, nil, &cfg); err != nil {
		return Config{}, fmt.Errorf("anytype: decode config: %w", err)
	}
	return cfg, nil
}

func validBaseURL(value any) error {
	raw, _ := value.(string)
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return errors.New("must be a valid URL")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.New("must use http or https")
	}
	if u.Host == "" {
		return errors.New("must include a host")
	}
	return nil
}
