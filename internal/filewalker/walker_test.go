package filewalker

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, fsys afero.Fs, path string) {
	t.Helper()
	require.NoError(t, fsys.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, afero.WriteFile(fsys, path, []byte("l_english:\n"), 0o644))
}

func TestWalkFindsLocalisationFiles(t *testing.T) {
	fsys := afero.NewMemMapFs()
	root := filepath.FromSlash("/mods/alpha")
	touch(t, fsys, filepath.Join(root, "localisation", "english", "b_l_english.yml"))
	touch(t, fsys, filepath.Join(root, "localisation", "a_l_english.yml"))
	touch(t, fsys, filepath.Join(root, "Localization", "c_l_german.yaml"))
	touch(t, fsys, filepath.Join(root, "common", "ideas.yml"))
	touch(t, fsys, filepath.Join(root, "localisation", "notes.txt"))

	entries, err := NewWalker(fsys).Walk(root)
	require.NoError(t, err)

	var paths []string
	for _, e := range entries {
		paths = append(paths, e.Path)
		assert.NotNil(t, e.Parser)
	}
	assert.Equal(t, []string{
		filepath.Join(root, "Localization", "c_l_german.yaml"),
		filepath.Join(root, "localisation", "a_l_english.yml"),
		filepath.Join(root, "localisation", "english", "b_l_english.yml"),
	}, paths)
}

func TestWalkRootIsLocalisationDir(t *testing.T) {
	fsys := afero.NewMemMapFs()
	root := filepath.FromSlash("/mods/alpha/localisation")
	touch(t, fsys, filepath.Join(root, "x_l_english.yml"))

	entries, err := NewWalker(fsys).Walk(root)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestWalkRootInsideLocalisationDir(t *testing.T) {
	fsys := afero.NewMemMapFs()
	root := filepath.FromSlash("/mods/alpha/localisation/english")
	touch(t, fsys, filepath.Join(root, "x_l_english.yml"))
	touch(t, fsys, filepath.Join(root, "nested", "y_l_english.yml"))

	entries, err := NewWalker(fsys).Walk(root)
	require.NoError(t, err)

	var paths []string
	for _, e := range entries {
		paths = append(paths, e.Path)
	}
	assert.Equal(t, []string{
		filepath.Join(root, "nested", "y_l_english.yml"),
		filepath.Join(root, "x_l_english.yml"),
	}, paths)
}

func TestWalkRejectsFiles(t *testing.T) {
	fsys := afero.NewMemMapFs()
	touch(t, fsys, "/file.yml")
	_, err := NewWalker(fsys).Walk("/file.yml")
	assert.Error(t, err)
}

func TestWalkAllSkipsMissingRoots(t *testing.T) {
	fsys := afero.NewMemMapFs()
	touch(t, fsys, filepath.FromSlash("/mods/a/localisation/a.yml"))
	touch(t, fsys, filepath.FromSlash("/mods/b/localisation/b.yml"))

	entries, err := NewWalker(fsys).WalkAll([]string{
		filepath.FromSlash("/mods/a"),
		filepath.FromSlash("/mods/missing"),
		filepath.FromSlash("/mods/b"),
	})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, filepath.FromSlash("/mods/a/localisation/a.yml"), entries[0].Path)
	assert.Equal(t, filepath.FromSlash("/mods/b/localisation/b.yml"), entries[1].Path)
}
