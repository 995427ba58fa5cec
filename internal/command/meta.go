package command

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"
	"github.com/spf13/afero"

	"github.com/anytype-sdk/anytype_sdk_go/pkg/anytype"
)

// Meta holds the dependencies shared by all commands.
type Meta struct {
	Log hclog.Logger
	UI  cli.Ui
	Fs  afero.Fs

	// ClientOptions are appended when a command builds its API client.
	ClientOptions []anytype.Option
}

// FlagSet wraps flag.FlagSet with help text rendering.
type FlagSet struct {
	*flag.FlagSet
}

// NewFlagSet returns a FlagSet that reports errors instead of exiting.
func NewFlagSet(name string) *FlagSet {
	f := flag.NewFlagSet(name, flag.ContinueOnError)
	f.SetOutput(io.Discard)
	return &FlagSet{FlagSet: f}
}

// Help renders the registered flags for a command's Help text.
func (f *FlagSet) Help() string {
	var b strings.Builder
	b.WriteString("\n\nOptions:\n")
	f.VisitAll(func(fl *flag.Flag) {
		fmt.Fprintf(&b, "\n  -%s\n      %s\n", fl.Name, fl.Usage)
	})
	return strings.TrimRight(b.String(), "\n")
}

// connectionFlags are the flags every API command accepts.
type connectionFlags struct {
	configPath string
	apiURL     string
	apiKey     string
	spaceID    string
	tableID    string
	logLevel   string
}

func (c *connectionFlags) register(f *FlagSet) {
	f.StringVar(&c.configPath, "config", "", "Path to an HCL or JSON config file.")
	f.StringVar(&c.apiURL, "api-url", "",
		fmt.Sprintf("Anytype API URL (env %s, default %s).", anytype.EnvAPIURL, anytype.DefaultBaseURL))
	f.StringVar(&c.apiKey, "api-key", "", fmt.Sprintf("Anytype API key (env %s).", anytype.EnvAPIKey))
	f.StringVar(&c.spaceID, "space-id", "", fmt.Sprintf("Space ID (env %s).", anytype.EnvSpaceID))
	f.StringVar(&c.tableID, "table-id", "", fmt.Sprintf("Table ID (env %s).", anytype.EnvTableID))
	f.StringVar(&c.logLevel, "log-level", "info", "Log level: trace, debug, info, warn or error.")
}

// resolveConfig merges, from lowest to highest precedence, the config file,
// the environment and the command line flags.
func (m *Meta) resolveConfig(c connectionFlags) (anytype.Config, error) {
	var cfg anytype.Config
	if c.configPath != "" {
		src, err := afero.ReadFile(m.Fs, c.configPath)
		if err != nil {
			return anytype.Config{}, fmt.Errorf("error reading config file: %w", err)
		}
		cfg, err = anytype.DecodeConfig(c.configPath, src)
		if err != nil {
			return anytype.Config{}, err
		}
	}
	cfg = cfg.Merge(anytype.ConfigFromEnv())
	cfg = cfg.Merge(anytype.Config{
		BaseURL: c.apiURL,
		APIKey:  c.apiKey,
		SpaceID: c.spaceID,
		TableID: c.tableID,
	})
	return cfg, nil
}

func (m *Meta) setLogLevel(raw string) error {
	level := hclog.LevelFromString(raw)
	if level == hclog.NoLevel {
		return fmt.Errorf("invalid log level %q", raw)
	}
	m.Log.SetLevel(level)
	return nil
}

func (m *Meta) newClient(cfg anytype.Config) (*anytype.Client, error) {
	opts := append([]anytype.Option{anytype.WithLogger(m.Log.Named("http"))}, m.ClientOptions...)
	return anytype.NewFromConfig(cfg, opts...)
}
