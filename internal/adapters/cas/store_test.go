package cas_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/mindmap/internal/adapters/cas"
	"go.trai.ch/mindmap/internal/core/domain"
)

func sampleGraph(label string) *domain.Graph {
	return domain.NewGraphFrom([]domain.Node{
		{ID: "1", Label: label, Kind: domain.KindRoot},
		{ID: "2", Label: "Child", Nav: &domain.NavigationRef{SourceDocument: "a.pdf", PageNumber: 4}},
	}, []domain.Link{{Source: "1", Target: "2"}})
}

func TestStore_PutGetHead(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store := cas.NewStore()

	g, digest, err := store.Head(dir)
	require.NoError(t, err)
	assert.Nil(t, g, "empty store")
	assert.Empty(t, digest)

	first, err := store.Put(dir, sampleGraph("Root"))
	require.NoError(t, err)
	assert.Len(t, first, 16)

	got, err := store.Get(dir, first)
	require.NoError(t, err)
	assert.Equal(t, sampleGraph("Root"), got)

	second, err := store.Put(dir, sampleGraph("Renamed"))
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	head, headDigest, err := store.Head(dir)
	require.NoError(t, err)
	assert.Equal(t, second, headDigest)
	n, _ := head.Node("1")
	assert.Equal(t, "Renamed", n.Label)

	_, err = store.Get(dir, first)
	require.NoError(t, err, "older revisions stay readable")
}

func TestStore_PutIsContentAddressed(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store := cas.NewStore()

	a, err := store.Put(dir, sampleGraph("Root"))
	require.NoError(t, err)
	b, err := store.Put(dir, sampleGraph("Root"))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestStore_GetErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store := cas.NewStore()

	for _, digest := range []string{"", "../../etc/passwd", "0123456789abcdeg", "00000000000000aa"} {
		_, err := store.Get(dir, digest)
		require.Error(t, err, digest)
		assert.ErrorContains(t, err, domain.ErrRevisionNotFound.Error())
	}

	digest, err := store.Put(dir, sampleGraph("Root"))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, digest[:2], digest+".json"), []byte("{"), domain.FilePerm))

	_, err = store.Get(dir, digest)
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrStoreReadFailed.Error())
}
