package ocr

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/snonux/mangatl/internal"
	"codeberg.org/snonux/mangatl/internal/testutil"
)

func TestResolveSingle(t *testing.T) {
	dir := testutil.CreatePageDirectory(t, "page.png")
	path := filepath.Join(dir, "page.png")

	paths, err := Single(path).Resolve(false)
	require.NoError(t, err)
	assert.Equal(t, []string{path}, paths)
}

func TestResolveSingleErrors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name string
		ref  ImageRef
	}{
		{"empty path", ImageRef{}},
		{"missing file", Single(filepath.Join(dir, "missing.png"))},
		{"directory without multi", Single(dir)},
		{"multi without dir", ImageRef{Multi: true}},
		{"missing dir", Directory(filepath.Join(dir, "nope"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.ref.Resolve(false)
			require.Error(t, err)
			assert.ErrorIs(t, err, internal.ErrInput)
		})
	}
}

func TestResolveDirectoryOrderAndFiltering(t *testing.T) {
	dir := testutil.CreatePageDirectory(t, "p03.png", "p01.png", "notes.txt", "p02.jpg")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "raw"), 0755))

	paths, err := Directory(dir).Resolve(false)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "notes.txt"),
		filepath.Join(dir, "p01.png"),
		filepath.Join(dir, "p02.jpg"),
		filepath.Join(dir, "p03.png"),
	}, paths)

	paths, err = Directory(dir).Resolve(true)
	require.NoError(t, err)
	assert.Len(t, paths, 3)
	for _, p := range paths {
		assert.True(t, internal.IsImageFile(p), p)
	}
}

func TestResolveEmptyDirectory(t *testing.T) {
	paths, err := Directory(t.TempDir()).Resolve(false)
	require.NoError(t, err)
	assert.Empty(t, paths)
}

func TestImageRefString(t *testing.T) {
	assert.Equal(t, "dir:/pages", Directory("/pages").String())
	assert.Equal(t, "/pages/1.png", Single("/pages/1.png").String())
}
