package mock_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anytype-sdk/anytype_sdk_go/pkg/anytype"
	"github.com/anytype-sdk/anytype_sdk_go/pkg/anytype/mock"
)

func newTestServer(t *testing.T, opts ...mock.Option) (*anytype.Client, *httptest.Server) {
	t.Helper()
	opts = append([]mock.Option{mock.WithAPIKey("test-key")}, opts...)
	srv := httptest.NewServer(mock.NewServer(mock.NewMemory(), opts...))
	t.Cleanup(srv.Close)

	client, err := anytype.New(srv.URL, "test-key")
	require.NoError(t, err)
	return client, srv
}

func TestServerRejectsBadAPIKey(t *testing.T) {
	_, srv := newTestServer(t)

	client, err := anytype.New(srv.URL, "wrong")
	require.NoError(t, err)
	_, err = client.Get(context.Background(), "v1/spaces/s1/objects", nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, anytype.StatusCode(err))
	assert.Equal(t, "invalid or missing API key", anytype.ErrorMessage(err))
}

func TestServerRequiresVersionHeader(t *testing.T) {
	_, srv := newTestServer(t)

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/v1/spaces/s1/objects", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer test-key")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServerObjectLifecycle(t *testing.T) {
	fixed := time.Date(2025, 5, 20, 12, 0, 0, 0, time.UTC)
	client, _ := newTestServer(t, mock.WithClock(func() time.Time { return fixed }))
	ctx := context.Background()

	created, err := client.Post(ctx, "v1/spaces/s1/objects", map[string]any{
		"name":     "Note",
		"body":     "# hi",
		"type_key": "page",
		"icon":     map[string]any{"emoji": "✅", "format": "emoji"},
	})
	require.NoError(t, err)
	id := created.ID()
	require.NotEmpty(t, id)

	obj := created["object"].(map[string]any)
	assert.Equal(t, "Note", obj["name"])
	assert.Equal(t, "s1", obj["space_id"])
	assert.Equal(t, false, obj["archived"])
	assert.Equal(t, fixed.Format(time.RFC3339Nano), obj["created_date"])
	assert.Equal(t, map[string]any{"emoji": "✅", "format": "emoji"}, obj["icon"])

	got, err := client.Get(ctx, "v1/spaces/s1/objects/"+id, nil)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID())

	updated, err := client.Patch(ctx, "v1/spaces/s1/objects/"+id, map[string]any{"name": "Renamed"})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated["object"].(map[string]any)["name"])
	assert.Equal(t, "# hi", updated["object"].(map[string]any)["body"])

	list, err := client.Get(ctx, "v1/spaces/s1/objects", nil)
	require.NoError(t, err)
	assert.Len(t, list["data"], 1)

	first, err := client.Delete(ctx, "v1/spaces/s1/objects/"+id)
	require.NoError(t, err)
	assert.Equal(t, true, first["object"].(map[string]any)["archived"])

	second, err := client.Delete(ctx, "v1/spaces/s1/objects/"+id)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	list, err = client.Get(ctx, "v1/spaces/s1/objects", nil)
	require.NoError(t, err)
	assert.Empty(t, list["data"])
}

func TestServerObjectValidation(t *testing.T) {
	client, _ := newTestServer(t)
	ctx := context.Background()

	_, err := client.Post(ctx, "v1/spaces/s1/objects", map[string]any{"name": 42})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, anytype.StatusCode(err))
	assert.Contains(t, err.Error(), "request payload:")

	_, err = client.Post(ctx, "v1/spaces/s1/objects", map[string]any{"name": "x", "type_key": " "})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, anytype.StatusCode(err))

	_, err = client.Get(ctx, "v1/spaces/s1/objects/missing", nil)
	assert.True(t, anytype.IsNotFound(err))
}

func TestServerRowLifecycle(t *testing.T) {
	client, _ := newTestServer(t)
	ctx := context.Background()
	base := "v1/spaces/s1/tables/t1/rows"

	_, err := client.Post(ctx, base, map[string]any{"values": "nope"})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, anytype.StatusCode(err))

	created, err := client.Post(ctx, base, map[string]any{"values": map[string]any{"title": "a", "qty": 3}})
	require.NoError(t, err)
	id := created.ID()
	require.NotEmpty(t, id)
	assert.Equal(t, map[string]any{"title": "a", "qty": 3.0}, created["row"].(map[string]any)["values"])

	updated, err := client.Patch(ctx, base+"/"+id, map[string]any{"values": map[string]any{}})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{}, updated["row"].(map[string]any)["values"])

	_, err = client.Delete(ctx, base+"/"+id)
	require.NoError(t, err)
	_, err = client.Delete(ctx, base+"/"+id)
	assert.True(t, anytype.IsNotFound(err))
}

func TestServerPagination(t *testing.T) {
	tick := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	client, _ := newTestServer(t, mock.WithClock(func() time.Time {
		tick = tick.Add(time.Second)
		return tick
	}))
	ctx := context.Background()

	for _, name := range []string{"one", "two", "three"} {
		_, err := client.Post(ctx, "v1/spaces/s1/objects", map[string]any{"name": name})
		require.NoError(t, err)
	}

	page, err := client.Get(ctx, "v1/spaces/s1/objects", url.Values{"offset": {"1"}, "limit": {"1"}})
	require.NoError(t, err)
	data := page["data"].([]any)
	require.Len(t, data, 1)
	assert.Equal(t, "two", data[0].(map[string]any)["name"])
	assert.Equal(t, map[string]any{"total": 3.0, "offset": 1.0, "limit": 1.0, "has_more": true}, page["pagination"])

	_, err = client.Get(ctx, "v1/spaces/s1/objects", url.Values{"limit": {"0"}})
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "HTTP 400"))
}

func TestServerUnknownRoute(t *testing.T) {
	client, _ := newTestServer(t)
	_, err := client.Get(context.Background(), "v1/unknown", nil)
	require.Error(t, err)
	assert.True(t, anytype.IsNotFound(err))
}
