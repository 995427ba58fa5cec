package command

import (
	"os"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anytype-sdk/anytype_sdk_go/internal/version"
	"github.com/anytype-sdk/anytype_sdk_go/pkg/anytype"
)

func TestWithDefaultCommand(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{name: "no args", args: []string{"anytype"}, want: []string{"anytype", "check"}},
		{name: "leading flags", args: []string{"anytype", "-api-key", "k", "-space-id", "s"},
			want: []string{"anytype", "check", "-api-key", "k", "-space-id", "s"}},
		{name: "flag with equals", args: []string{"anytype", "-space-id=s"}, want: []string{"anytype", "check", "-space-id=s"}},
		{name: "version flag", args: []string{"anytype", "-version"}, want: []string{"anytype", "version"}},
		{name: "help flag", args: []string{"anytype", "-h"}, want: []string{"anytype", "-h"}},
		{name: "named command", args: []string{"anytype", "import", "-file", "x"}, want: []string{"anytype", "import", "-file", "x"}},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, withDefaultCommand(tc.args))
		})
	}
}

func TestRunLeadingFlagsReachCheck(t *testing.T) {
	clearEnv(t)
	srv := newSandbox(t)
	meta, ui := newMeta()

	code := Run([]string{"anytype", "-api-url", srv.URL, "-api-key", testAPIKey, "-space-id", "space-1"}, meta)
	require.Equal(t, 0, code, ui.ErrorWriter.String())
	assert.Contains(t, ui.OutputWriter.String(), "Connected to space")
	assert.Contains(t, ui.OutputWriter.String(), "test object deleted")
}

func TestRunLeadingFlagsFailWithExitOne(t *testing.T) {
	clearEnv(t)
	srv := newSandbox(t)
	meta, ui := newMeta()

	code := Run([]string{"anytype", "-api-url", srv.URL, "-api-key", "wrong", "-space-id", "space-1"}, meta)
	assert.Equal(t, 1, code)
	assert.Contains(t, ui.ErrorWriter.String(), "HTTP 401")
}

func TestRunWithoutArgumentsPrintsHint(t *testing.T) {
	clearEnv(t)
	t.Setenv(anytype.EnvAPIKey, "k")
	meta, ui := newMeta()

	assert.Equal(t, 0, Run([]string{"anytype"}, meta))
	assert.Contains(t, ui.OutputWriter.String(), "Hint:")
}

func TestRunVersionFlag(t *testing.T) {
	meta, ui := newMeta()
	assert.Equal(t, 0, Run([]string{"anytype", "-version"}, meta))
	assert.Equal(t, "anytype v"+version.Version+"\n", ui.OutputWriter.String())
}

func TestLoadDotEnv(t *testing.T) {
	const fresh = "ANYTYPE_DOTENV_TEST_FRESH"
	require.NoError(t, os.Unsetenv(fresh))
	t.Cleanup(func() { _ = os.Unsetenv(fresh) })
	t.Setenv(anytype.EnvSpaceID, "from-env")

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, ".env", []byte(fresh+"=loaded\n"+anytype.EnvSpaceID+"=from-file\n"), 0o600))

	require.NoError(t, loadDotEnv(fs, ".env"))
	assert.Equal(t, "loaded", os.Getenv(fresh))
	assert.Equal(t, "from-env", os.Getenv(anytype.EnvSpaceID))
}

func TestLoadDotEnvMissingFile(t *testing.T) {
	assert.NoError(t, loadDotEnv(afero.NewMemMapFs(), ".env"))
}

func TestLoadDotEnvMalformedFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, ".env", []byte(`ANYTYPE_API_KEY="unterminated`), 0o600))

	err := loadDotEnv(fs, ".env")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error parsing .env")
}
