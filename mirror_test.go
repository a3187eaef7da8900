package servagri

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mirrorNews(n int) []NewsItem {
	items := make([]NewsItem, n)
	for i := range items {
		items[i] = NewsItem{
			ID:        i + 1,
			Title:     fmt.Sprintf("Actualité %d", i+1),
			Date:      "2025-06-10",
			Excerpt:   "extrait",
			CreatedAt: fmt.Sprintf("2025-06-%02dT10:00:00Z", i+1),
		}
	}
	return items
}

func TestMirrorRoundTrip(t *testing.T) {
	m := NewMirror(NewFileStorage(t.TempDir()), 0)

	loaded, err := m.LoadNews()
	require.NoError(t, err)
	assert.Nil(t, loaded, "unwritten collection loads as nil")

	items := mirrorNews(3)
	require.NoError(t, m.SaveNews(items))

	loaded, err = m.LoadNews()
	require.NoError(t, err)
	assert.Equal(t, items, loaded)
}

func TestMirrorSaveCeilingLeavesPriorIntact(t *testing.T) {
	m := NewMirror(NewFileStorage(t.TempDir()), 512)

	small := mirrorNews(1)
	require.NoError(t, m.SaveNews(small))

	big := mirrorNews(2)
	big[0].FullContent = strings.Repeat("x", 1024)
	err := m.SaveNews(big)
	require.ErrorIs(t, err, ErrMirrorFull)

	loaded, err := m.LoadNews()
	require.NoError(t, err)
	assert.Equal(t, small, loaded, "failed save must not touch prior contents")
}

func TestMirrorPruneKeepsMostRecent(t *testing.T) {
	m := NewMirror(NewFileStorage(t.TempDir()), 0)
	require.NoError(t, m.SaveNews(mirrorNews(15)))

	require.NoError(t, m.PruneNews(10))

	loaded, err := m.LoadNews()
	require.NoError(t, err)
	require.Len(t, loaded, 10)
	// Newest first: items 15 down to 6 by creation timestamp.
	assert.Equal(t, 15, loaded[0].ID)
	assert.Equal(t, 6, loaded[9].ID)
}

func TestMirrorPruneIsIdempotent(t *testing.T) {
	m := NewMirror(NewFileStorage(t.TempDir()), 0)
	items := mirrorNews(8)
	require.NoError(t, m.SaveNews(items))

	require.NoError(t, m.PruneNews(10))
	loaded, err := m.LoadNews()
	require.NoError(t, err)
	assert.Equal(t, items, loaded, "pruning a small collection is a no-op")

	require.NoError(t, m.SaveNews(mirrorNews(15)))
	require.NoError(t, m.PruneNews(10))
	require.NoError(t, m.PruneNews(10))
	loaded, err = m.LoadNews()
	require.NoError(t, err)
	assert.Len(t, loaded, 10)
}

func TestMirrorProjectsIndependentOfNews(t *testing.T) {
	m := NewMirror(NewFileStorage(t.TempDir()), 0)

	require.NoError(t, m.SaveNews(mirrorNews(2)))
	require.NoError(t, m.SaveProjects([]ProjectItem{{ID: 1, Title: "Serre connectée", CreatedAt: "2025-04-01T08:00:00Z"}}))

	news, err := m.LoadNews()
	require.NoError(t, err)
	projects, err := m.LoadProjects()
	require.NoError(t, err)
	assert.Len(t, news, 2)
	assert.Len(t, projects, 1)
}
