package artifact

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFSStoreRoundTrip(t *testing.T) {
	store := NewFSStore(t.TempDir())

	path, err := store.Save(7, "page.html", []byte("<html></html>"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("7", "page.html"), filepath.Join(filepath.Base(filepath.Dir(path)), filepath.Base(path)))

	data, err := store.Get(7, "page.html")
	require.NoError(t, err)
	assert.Equal(t, []byte("<html></html>"), data)
}

func TestFSStoreGetMissing(t *testing.T) {
	store := NewFSStore(t.TempDir())

	_, err := store.Get(1, "nope.html")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFSStoreList(t *testing.T) {
	store := NewFSStore(t.TempDir())

	names, err := store.List(3)
	require.NoError(t, err)
	assert.Empty(t, names)

	_, err = store.Save(3, "debug.png", []byte{0x89, 0x50})
	require.NoError(t, err)
	_, err = store.Save(3, "page.html", []byte("x"))
	require.NoError(t, err)

	names, err = store.List(3)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"debug.png", "page.html"}, names)
}

func TestFSStoreRejectsPathTraversal(t *testing.T) {
	store := NewFSStore(t.TempDir())

	_, err := store.Save(1, "../escape.html", []byte("x"))
	assert.Error(t, err)

	_, err = store.Get(1, "../../etc/passwd")
	assert.Error(t, err)
}
