package command

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anytype-sdk/anytype_sdk_go/internal/version"
	"github.com/anytype-sdk/anytype_sdk_go/pkg/anytype"
	"github.com/anytype-sdk/anytype_sdk_go/pkg/anytype/mock"
)

const testAPIKey = "test-key"

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{anytype.EnvAPIURL, anytype.EnvAPIKey, anytype.EnvSpaceID, anytype.EnvTableID} {
		t.Setenv(k, "")
	}
}

func newMeta() (*Meta, *cli.MockUi) {
	ui := cli.NewMockUi()
	return &Meta{
		Log: hclog.NewNullLogger(),
		UI:  ui,
		Fs:  afero.NewMemMapFs(),
	}, ui
}

func newSandbox(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(mock.NewServer(mock.NewMemory(), mock.WithAPIKey(testAPIKey)))
	t.Cleanup(srv.Close)
	return srv
}

func TestCheckMissingAPIKey(t *testing.T) {
	clearEnv(t)
	meta, ui := newMeta()

	code := (&CheckCommand{Meta: meta}).Run(nil)
	assert.Equal(t, 1, code)
	assert.Contains(t, ui.ErrorWriter.String(), anytype.EnvAPIKey)
}

func TestCheckWithoutSpacePrintsHint(t *testing.T) {
	clearEnv(t)
	meta, ui := newMeta()

	code := (&CheckCommand{Meta: meta}).Run([]string{"-api-key", "k"})
	assert.Equal(t, 0, code)
	assert.Contains(t, ui.OutputWriter.String(), "API URL: "+anytype.DefaultBaseURL)
	assert.Contains(t, ui.OutputWriter.String(), "Hint:")
}

func TestCheckSpaceCreatesAndArchivesProbe(t *testing.T) {
	clearEnv(t)
	srv := newSandbox(t)
	t.Setenv(anytype.EnvAPIKey, testAPIKey)
	meta, ui := newMeta()

	code := (&CheckCommand{Meta: meta}).Run([]string{"-api-url", srv.URL, "-space-id", "space-1"})
	require.Equal(t, 0, code, ui.ErrorWriter.String())

	out := ui.OutputWriter.String()
	assert.Contains(t, out, "Connected to space")
	assert.Contains(t, out, "test object ID:")
	assert.Contains(t, out, "test object deleted")

	client, err := anytype.New(srv.URL, testAPIKey)
	require.NoError(t, err)
	page, err := client.Get(context.Background(), "v1/spaces/space-1/objects", nil)
	require.NoError(t, err)
	assert.Empty(t, page["data"])
}

func TestCheckSpaceFailsOnBadKey(t *testing.T) {
	clearEnv(t)
	srv := newSandbox(t)
	meta, ui := newMeta()

	code := (&CheckCommand{Meta: meta}).Run([]string{"-api-url", srv.URL, "-api-key", "wrong", "-space-id", "s"})
	assert.Equal(t, 1, code)
	assert.Contains(t, ui.ErrorWriter.String(), "HTTP 401")
}

func TestCheckTable(t *testing.T) {
	clearEnv(t)
	srv := newSandbox(t)
	meta, ui := newMeta()

	code := (&CheckCommand{Meta: meta}).Run([]string{"-api-url", srv.URL, "-api-key", testAPIKey, "-space-id", "s", "-table-id", "t"})
	require.Equal(t, 0, code, ui.ErrorWriter.String())
	assert.Contains(t, ui.OutputWriter.String(), "Connected to table (0 row(s) fetched)")

	meta, ui = newMeta()
	code = (&CheckCommand{Meta: meta}).Run([]string{"-api-key", testAPIKey, "-table-id", "t"})
	assert.Equal(t, 1, code)
	assert.Contains(t, ui.ErrorWriter.String(), "space ID")
}

func TestCheckConfigPrecedence(t *testing.T) {
	clearEnv(t)
	srv := newSandbox(t)
	meta, ui := newMeta()
	require.NoError(t, afero.WriteFile(meta.Fs, "/etc/anytype.hcl", []byte(`
api_url = "http://file.invalid:1"
api_key = "file-key"
`), 0o600))
	t.Setenv(anytype.EnvAPIKey, testAPIKey)

	code := (&CheckCommand{Meta: meta}).Run([]string{"-config", "/etc/anytype.hcl", "-api-url", srv.URL, "-space-id", "s"})
	require.Equal(t, 0, code, ui.ErrorWriter.String())
	assert.Contains(t, ui.OutputWriter.String(), "API URL: "+srv.URL)
}

func TestCheckRejectsBadFlags(t *testing.T) {
	clearEnv(t)
	meta, ui := newMeta()
	assert.Equal(t, 1, (&CheckCommand{Meta: meta}).Run([]string{"-nope"}))
	assert.Contains(t, ui.ErrorWriter.String(), "error parsing flags")

	meta, ui = newMeta()
	assert.Equal(t, 1, (&CheckCommand{Meta: meta}).Run([]string{"-log-level", "loud"}))
	assert.Contains(t, ui.ErrorWriter.String(), "invalid log level")

	meta, ui = newMeta()
	assert.Equal(t, 1, (&CheckCommand{Meta: meta}).Run([]string{"-config", "/missing.hcl"}))
	assert.Contains(t, ui.ErrorWriter.String(), "error reading config file")
}

func TestImportCreatesObjects(t *testing.T) {
	clearEnv(t)
	srv := newSandbox(t)
	meta, ui := newMeta()
	require.NoError(t, afero.WriteFile(meta.Fs, "objects.yaml", []byte(`
- name: First
  body: "# one"
- name: Second
  type_key: task
  icon: {emoji: "📝", format: emoji}
`), 0o644))

	code := (&ImportCommand{Meta: meta}).Run([]string{"-file", "objects.yaml", "-api-url", srv.URL, "-api-key", testAPIKey, "-space-id", "s"})
	require.Equal(t, 0, code, ui.ErrorWriter.String())
	assert.Contains(t, ui.OutputWriter.String(), "✓ First")
	assert.Contains(t, ui.OutputWriter.String(), "Created 2 of 2 object(s)")

	client, err := anytype.New(srv.URL, testAPIKey)
	require.NoError(t, err)
	page, err := client.Get(context.Background(), "v1/spaces/s/objects", nil)
	require.NoError(t, err)
	assert.Len(t, page["data"], 2)
}

func TestImportReportsPartialFailure(t *testing.T) {
	clearEnv(t)
	srv := newSandbox(t)
	meta, ui := newMeta()
	require.NoError(t, afero.WriteFile(meta.Fs, "objects.json", []byte(`[{"name":"ok"},{"body":"no name"},{"name":"also ok"}]`), 0o644))

	code := (&ImportCommand{Meta: meta}).Run([]string{"-file", "objects.json", "-api-url", srv.URL, "-api-key", testAPIKey, "-space-id", "s"})
	assert.Equal(t, 1, code)
	assert.Contains(t, ui.ErrorWriter.String(), "✗")
	assert.Contains(t, ui.OutputWriter.String(), "Created 2 of 3 object(s)")
}

func TestImportValidatesInput(t *testing.T) {
	clearEnv(t)
	meta, ui := newMeta()
	assert.Equal(t, 1, (&ImportCommand{Meta: meta}).Run(nil))
	assert.Contains(t, ui.ErrorWriter.String(), "file flag is required")

	meta, ui = newMeta()
	require.NoError(t, afero.WriteFile(meta.Fs, "empty.yaml", []byte("[]"), 0o644))
	assert.Equal(t, 1, (&ImportCommand{Meta: meta}).Run([]string{"-file", "empty.yaml", "-api-key", "k", "-space-id", "s"}))
	assert.Contains(t, ui.ErrorWriter.String(), "lists no objects")

	meta, ui = newMeta()
	require.NoError(t, afero.WriteFile(meta.Fs, "one.yaml", []byte("- name: x"), 0o644))
	assert.Equal(t, 1, (&ImportCommand{Meta: meta}).Run([]string{"-file", "one.yaml", "-api-key", "k"}))
	assert.Contains(t, ui.ErrorWriter.String(), "space ID is required")
}

func TestVersionCommand(t *testing.T) {
	meta, ui := newMeta()
	assert.Equal(t, 0, (&VersionCommand{Meta: meta}).Run(nil))
	assert.Equal(t, "anytype v"+version.Version+"\n", ui.OutputWriter.String())
}

func TestCommandsRegistry(t *testing.T) {
	meta, _ := newMeta()
	cmds := Commands(meta)
	for _, name := range []string{"check", "import", "version"} {
		factory, ok := cmds[name]
		require.True(t, ok, name)
		c, err := factory()
		require.NoError(t, err)
		assert.NotEmpty(t, c.Synopsis())
		assert.NotEmpty(t, c.Help())
	}
}
