package servagri

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*httptest.Server, *App) {
	t.Helper()
	a := newTestApp(t)
	srv := httptest.NewServer(a.Echo)
	t.Cleanup(srv.Close)
	return srv, a
}

func TestClientNewsRoundTrip(t *testing.T) {
	srv, _ := newTestServer(t)
	c := NewClient(srv.URL, srv.Client())
	ctx := context.Background()

	items, err := c.ListNews(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)

	created, err := c.CreateNews(ctx, testNews())
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.NotEmpty(t, created.CreatedAt)

	created.Excerpt = "Extrait revu"
	updated, err := c.UpdateNews(ctx, created)
	require.NoError(t, err)
	assert.Equal(t, "Extrait revu", updated.Excerpt)
	assert.Equal(t, created.Version+1, updated.Version)

	items, err = c.ListNews(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)

	require.NoError(t, c.DeleteNews(ctx, created.ID))
	items, err = c.ListNews(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestClientProjectRoundTrip(t *testing.T) {
	srv, _ := newTestServer(t)
	c := NewClient(srv.URL, srv.Client())
	ctx := context.Background()

	created, err := c.CreateProject(ctx, testProject())
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	created.Status = StatusDraft
	updated, err := c.UpdateProject(ctx, created)
	require.NoError(t, err)
	assert.Equal(t, StatusDraft, updated.Status)

	require.NoError(t, c.DeleteProject(ctx, created.ID))
}

func TestClientSurfacesGenericErrors(t *testing.T) {
	srv, _ := newTestServer(t)
	c := NewClient(srv.URL, srv.Client())
	ctx := context.Background()

	_, err := c.CreateNews(ctx, NewsItem{Title: "sans date"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create news")
	assert.Contains(t, err.Error(), "unexpected status 400")

	_, err = c.UpdateNews(ctx, NewsItem{ID: 999, Title: "t", Date: "2025-01-01", Excerpt: "e", Version: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 404")
}

func TestClientStaleVersionConflict(t *testing.T) {
	srv, a := newTestServer(t)
	c := NewClient(srv.URL, srv.Client())
	ctx := context.Background()

	created, err := c.CreateNews(ctx, testNews())
	require.NoError(t, err)

	// Another writer bumps the row behind this client's back.
	_, err = a.Store.UpdateNews(created)
	require.NoError(t, err)

	created.Title = "Écrasement tenté"
	_, err = c.UpdateNews(ctx, created)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 409")
}

func TestClientRejectsNonJSONTarget(t *testing.T) {
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))
	defer bad.Close()

	c := NewClient(bad.URL, bad.Client())
	_, err := c.ListNews(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode response")
}
