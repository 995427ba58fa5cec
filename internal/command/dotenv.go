package command

import (
	"errors"
	"fmt"
	iofs "io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/afero"
)

// loadDotEnv copies the variables of the .env file at path into the process
// environment. Variables that are already set keep their value and a missing
// file is not an error.
func loadDotEnv(fs afero.Fs, path string) error {
	data, err := afero.ReadFile(fs, path)
	if errors.Is(err, iofs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("error reading %s: %w", path, err)
	}

	vars, err := godotenv.Unmarshal(string(data))
	if err != nil {
		return fmt.Errorf("error parsing %s: %w", path, err)
	}
	for k, v := range vars {
		if _, ok := os.LookupEnv(k); ok {
			continue
		}
		if err := os.Setenv(k, v); err != nil {
			return fmt.Errorf("error setting %s from %s: %w", k, path, err)
		}
	}
	return nil
}
