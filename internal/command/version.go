package command

import (
	"github.com/anytype-sdk/anytype_sdk_go/internal/version"
)

type VersionCommand struct {
	*Meta
}

func (c *VersionCommand) Synopsis() string {
	return "Print the version"
}

func (c *VersionCommand) Help() string {
	return "Usage: anytype version"
}

func (c *VersionCommand) Run(args []string) int {
	c.UI.Output("anytype v" + version.Version)
	return 0
}
