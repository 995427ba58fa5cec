package command

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"
	"github.com/spf13/afero"

	"github.com/anytype-sdk/anytype_sdk_go/internal/version"
)

// defaultCommand runs when no subcommand is named.
const defaultCommand = "check"

// Main runs the CLI with the given arguments and returns the exit code.
func Main(args []string) int {
	log := hclog.New(&hclog.LoggerOptions{
		Name:   filepath.Base(args[0]),
		Level:  hclog.Info,
		Output: os.Stderr,
	})

	ui := &cli.BasicUi{
		Reader:      bufio.NewReader(os.Stdin),
		Writer:      os.Stdout,
		ErrorWriter: os.Stderr,
	}

	meta := &Meta{
		Log: log,
		UI:  ui,
		Fs:  afero.NewOsFs(),
	}

	if err := loadDotEnv(meta.Fs, ".env"); err != nil {
		ui.Error(err.Error())
		return 1
	}

	return Run(args, meta)
}

// Run dispatches args to a command using meta. args[0] is the program name.
func Run(args []string, meta *Meta) int {
	cliName := filepath.Base(args[0])
	args = withDefaultCommand(args)

	c := &cli.CLI{
		Name:     cliName,
		Args:     args[1:],
		Version:  version.Version,
		Commands: Commands(meta),
	}

	exitCode, err := c.Run()
	if err != nil {
		meta.UI.Error(err.Error())
		return 1
	}
	return exitCode
}

// withDefaultCommand names the default command when args carry no subcommand:
// either no arguments at all or leading flags such as "-api-key k".
// mitchellh/cli would otherwise read the flag value as the subcommand.
func withDefaultCommand(args []string) []string {
	if len(args) == 1 {
		return []string{args[0], defaultCommand}
	}
	switch args[1] {
	case "-v", "-version", "--version":
		return []string{args[0], "version"}
	case "-h", "-help", "--help":
		return args
	}
	if strings.HasPrefix(args[1], "-") {
		out := make([]string, 0, len(args)+1)
		out = append(out, args[0], defaultCommand)
		return append(out, args[1:]...)
	}
	return args
}

// Commands returns the command factories keyed by name.
func Commands(meta *Meta) map[string]cli.CommandFactory {
	return map[string]cli.CommandFactory{
		"check": func() (cli.Command, error) {
			return &CheckCommand{Meta: meta}, nil
		},
		"import": func() (cli.Command, error) {
			return &ImportCommand{Meta: meta}, nil
		},
		"version": func() (cli.Command, error) {
			return &VersionCommand{Meta: meta}, nil
		},
	}
}
