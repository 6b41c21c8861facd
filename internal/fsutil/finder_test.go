package fsutil

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindFilesByExtension(t *testing.T) {
	// --- Arrange ---
	fsys := afero.NewMemMapFs()
	for _, path := range []string{
		"/project/build/b.json",
		"/project/build/nested/a.yaml",
		"/project/build/nested/c.yml",
		"/project/build/readme.md",
		"/project/bundle.hcl",
	} {
		require.NoError(t, afero.WriteFile(fsys, path, []byte("x"), 0o644))
	}

	// --- Act ---
	files, err := FindFilesByExtension(fsys, "/project/build", ".json", ".yaml", ".yml")

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, []string{
		"/project/build/b.json",
		"/project/build/nested/a.yaml",
		"/project/build/nested/c.yml",
	}, files)
}

func TestFindFilesByExtension_SingleFile(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "/bundle.hcl", []byte("x"), 0o644))

	files, err := FindFilesByExtension(fsys, "/bundle.hcl", ".hcl")

	require.NoError(t, err)
	assert.Equal(t, []string{"/bundle.hcl"}, files)
}

func TestFindFilesByExtension_MissingRoot(t *testing.T) {
	_, err := FindFilesByExtension(afero.NewMemMapFs(), "/nowhere", ".hcl")

	assert.Error(t, err)
}

func TestFindFilesByExtension_PanicsWithoutExtension(t *testing.T) {
	assert.Panics(t, func() {
		_, _ = FindFilesByExtension(afero.NewMemMapFs(), "/")
	})
}
