package assets

import (
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kfreiman/wpmd/internal/storage"
)

func newMirror(t *testing.T, files ...string) storage.FileSystem {
	t.Helper()
	fs := storage.NewMemMapFileSystem()
	for _, f := range files {
		require.NoError(t, fs.MkdirAll(filepath.Dir(f), 0755))
		require.NoError(t, fs.WriteFile(f, []byte("img"), 0644))
	}
	return fs
}

func TestLocator_Search(t *testing.T) {
	fs := newMirror(t,
		"/mirror/2020/01/photo.jpg",
		"/mirror/2020/01/photo-300x200.jpg",
		"/mirror/2019/12/photo.png",
		"/mirror/2019/12/other.gif",
		"/elsewhere/photo.jpg",
	)
	locator := NewLocator(LocatorConfig{FileSystem: fs})

	t.Run("recurses through all subdirectories in lexical order", func(t *testing.T) {
		got, err := locator.Search("/mirror", regexp.MustCompile(`(^|/)photo\.(jpe?g|png|gif)$`))
		require.NoError(t, err)
		assert.Equal(t, []string{
			"/mirror/2019/12/photo.png",
			"/mirror/2020/01/photo.jpg",
		}, got)
	})

	t.Run("stays under root", func(t *testing.T) {
		got, err := locator.Search("/mirror", regexp.MustCompile(`elsewhere`))
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("no match returns empty slice", func(t *testing.T) {
		got, err := locator.Search("/mirror", regexp.MustCompile(`missing\.jpg$`))
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Len(t, got, 0)
	})

	t.Run("repeated searches agree", func(t *testing.T) {
		pattern := regexp.MustCompile(`\.jpg$`)
		first, err := locator.Search("/mirror", pattern)
		require.NoError(t, err)
		second, err := locator.Search("/mirror", pattern)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})
}

func TestLocator_SearchMissingRoot(t *testing.T) {
	locator := NewLocator(LocatorConfig{FileSystem: storage.NewMemMapFileSystem()})

	_, err := locator.Search("/nope", regexp.MustCompile(`.`))
	require.Error(t, err)

	var searchErr *SearchError
	require.True(t, errors.As(err, &searchErr))
	assert.Equal(t, "/nope", searchErr.Root)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestSearchError_Error(t *testing.T) {
	err := &SearchError{Root: "/mirror", Path: "/mirror/a", Err: os.ErrPermission}
	assert.Equal(t, "asset search failed under /mirror (at: /mirror/a): permission denied", err.Error())

	err = &SearchError{Root: "/mirror", Path: "/mirror"}
	assert.Equal(t, "asset search failed under /mirror", err.Error())
}
