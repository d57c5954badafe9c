package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modloc/internal/config"
	"modloc/internal/writer"
)

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func TestRunSprites(t *testing.T) {
	dir := t.TempDir()
	reportPath := filepath.Join(dir, "missing.yml")
	writeFile(t, reportPath, "errors: |\n  bad \"gfx/a/one.png\" x\ndefault: gfx/placeholder.dds\n")
	out := filepath.Join(dir, "interface", "cleanup.gfx")

	require.NoError(t, runSprites(afero.NewOsFs(), reportPath, out, true))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, writer.BOM))
	assert.Contains(t, string(data), "name = \"GFX_one\"")
}

func TestRunSpritesRemovesPartialOutput(t *testing.T) {
	dir := t.TempDir()
	reportPath := filepath.Join(dir, "missing.yml")
	writeFile(t, reportPath, "errors: \"no quotes\"\ndefault: d.dds\n")
	out := filepath.Join(dir, "cleanup.gfx")

	err := runSprites(afero.NewOsFs(), reportPath, out, false)
	require.Error(t, err)
	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr), "partial output should be removed")
}

func TestRunSpritesKeepsUnopenableOutput(t *testing.T) {
	dir := t.TempDir()
	reportPath := filepath.Join(dir, "missing.yml")
	writeFile(t, reportPath, "errors: \"no quotes\"\ndefault: d.dds\n")
	out := filepath.Join(dir, "outdir")
	require.NoError(t, os.Mkdir(out, 0o755))

	err := runSprites(afero.NewOsFs(), reportPath, out, true)
	require.Error(t, err)
	var ioErr *writer.IOError
	require.ErrorAs(t, err, &ioErr)
	assert.Equal(t, "open", ioErr.Op)

	info, statErr := os.Stat(out)
	require.NoError(t, statErr, "existing entry must survive a failed open")
	assert.True(t, info.IsDir())
}

func TestRunLocalize(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	writeFile(t, "source.yml", "language: english\noutput: localisation/mod_l_english.yml\ngroups:\n  - entries:\n      - key: K\n        text: V\n")

	require.NoError(t, runLocalize(afero.NewOsFs(), "source.yml", "", true))

	data, err := os.ReadFile(filepath.Join(dir, "localisation", "mod_l_english.yml"))
	require.NoError(t, err)
	assert.Equal(t, string(writer.BOM)+"l_english:\n\n K: \"V\"\n", string(data))
}

func TestRunLocalizeOutputOverrideAndNoBOM(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "source.yml")
	writeFile(t, source, "language: german\n")
	out := filepath.Join(dir, "de.yml")

	require.NoError(t, runLocalize(afero.NewOsFs(), source, out, false))
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "l_german:\n", string(data))
}

func TestRunLocalizeRequiresOutput(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "source.yml")
	writeFile(t, source, "language: german\n")
	assert.Error(t, runLocalize(afero.NewOsFs(), source, "", true))
}

func TestRunCheck(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	writeFile(t, filepath.Join(dir, "mods", "a", "localisation", "a_l_english.yml"),
		"\ufeffl_english:\n A: \"see $B$ and $VANILLA$\"\n B: \"bee\"\n")
	writeFile(t, filepath.Join(dir, "modloc.yml"), "paths:\n  - ./mods/a\nknown_keys: [VANILLA]\n")

	var out bytes.Buffer
	require.NoError(t, runCheck(context.Background(), afero.NewOsFs(), "modloc.yml", 2, &out))
	assert.Contains(t, out.String(), "1 localisation files checked, no problems found")
}

func TestRunCheckReportsProblems(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	loc := filepath.Join(dir, "mods", "a", "localisation")
	writeFile(t, filepath.Join(loc, "one_l_english.yml"), "l_english:\n A: \"$GONE$\"\n")
	writeFile(t, filepath.Join(loc, "two_l_english.yml"), "l_english:\n A: \"again\"\n")
	writeFile(t, filepath.Join(dir, "modloc.yml"), "paths: [mods/a]\n")

	var out bytes.Buffer
	err := runCheck(context.Background(), afero.NewOsFs(), "modloc.yml", 1, &out)
	assert.ErrorIs(t, err, errCheckFailed)

	text := out.String()
	assert.Contains(t, text, "$GONE$")
	assert.Contains(t, text, "unresolved")
	assert.Contains(t, text, "duplicate")
	assert.True(t, strings.Contains(text, "2 localisation files checked"), text)
}

func TestRunCheckNeedsPaths(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "modloc.yml")
	writeFile(t, cfgPath, "name: empty\n")
	assert.Error(t, runCheck(context.Background(), afero.NewOsFs(), cfgPath, 1, &bytes.Buffer{}))
}

func TestRootCommandWiring(t *testing.T) {
	root := newRootCmd(&config.Env{LogLevel: "info", LogFormat: "console", Workers: 1})
	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"sprites", "localize", "check"}, names)
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
