package command

import (
	"context"
	"fmt"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/anytype-sdk/anytype_sdk_go/pkg/anytype"
	"github.com/anytype-sdk/anytype_sdk_go/pkg/objects"
)

type ImportCommand struct {
	*Meta

	conn     connectionFlags
	flagFile string
}

func (c *ImportCommand) Synopsis() string {
	return "Create objects in a space from a YAML or JSON file"
}

func (c *ImportCommand) Help() string {
	return `Usage: anytype import -file <path> [options]

  Creates every object listed in the file. Failures are reported per item
  and do not stop the import; the exit code is 1 if any item failed.

  Example file:

    - name: Meeting notes
      body: "# Agenda"
      type_key: page
      icon: {emoji: "📝", format: emoji}` +
		c.Flags().Help()
}

func (c *ImportCommand) Flags() *FlagSet {
	f := NewFlagSet("import")
	c.conn.register(f)
	f.StringVar(&c.flagFile, "file", "", "(Required) YAML or JSON file with a list of objects.")
	return f
}

func (c *ImportCommand) Run(args []string) int {
	ui := c.UI

	f := c.Flags()
	if err := f.Parse(args); err != nil {
		ui.Error(fmt.Sprintf("error parsing flags: %v", err))
		return 1
	}
	if c.flagFile == "" {
		ui.Error("file flag is required")
		return 1
	}
	if err := c.setLogLevel(c.conn.logLevel); err != nil {
		ui.Error(err.Error())
		return 1
	}

	objs, err := readObjects(c.Fs, c.flagFile)
	if err != nil {
		ui.Error(err.Error())
		return 1
	}

	cfg, err := c.resolveConfig(c.conn)
	if err != nil {
		ui.Error(err.Error())
		return 1
	}
	if cfg.SpaceID == "" {
		ui.Error(fmt.Sprintf("a space ID is required (-space-id or %s)", anytype.EnvSpaceID))
		return 1
	}
	client, err := c.newClient(cfg)
	if err != nil {
		ui.Error(fmt.Sprintf("error: %v", err))
		return 1
	}
	manager, err := objects.New(client, cfg.SpaceID, objects.WithLogger(c.Log))
	if err != nil {
		ui.Error(err.Error())
		return 1
	}

	results := manager.CreateMany(context.Background(), objs)
	created := 0
	for _, r := range results {
		if r.Failed() {
			ui.Error(fmt.Sprintf("✗ %s: %v", r.Key, r.Err))
			continue
		}
		created++
		ui.Output(fmt.Sprintf("✓ %s (%s)", r.Key, r.Response.ID()))
	}
	ui.Output(fmt.Sprintf("Created %d of %d object(s)", created, len(results)))

	if err := anytype.BatchErrors(results); err != nil {
		c.Log.Debug("import finished with failures", "error", err)
		return 1
	}
	return 0
}

func readObjects(fs afero.Fs, path string) ([]objects.Object, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("error reading import file: %w", err)
	}
	var objs []objects.Object
	if err := yaml.Unmarshal(data, &objs); err != nil {
		return nil, fmt.Errorf("error parsing import file: %w", err)
	}
	if len(objs) == 0 {
		return nil, fmt.Errorf("import file %s lists no objects", path)
	}
	return objs, nil
}
