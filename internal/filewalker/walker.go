package filewalker

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"

	"modloc/internal/parser"
)

// localisationDirs are directory names that hold localisation files. Both
// spellings occur in mods.
var localisationDirs = map[string]bool{
	"localisation": true,
	"localization": true,
}

// Walker finds localisation files below mod roots and pairs them with a parser.
type Walker struct {
	fs      afero.Fs
	parsers []parser.Parser
}

// NewWalker creates a Walker over fsys with the default parsers.
func NewWalker(fsys afero.Fs) *Walker {
	return &Walker{
		fs:      fsys,
		parsers: []parser.Parser{parser.NewLocParser(fsys)},
	}
}

// FileEntry represents a discovered file ready for processing.
type FileEntry struct {
	Path   string
	Ext    string
	Parser parser.Parser
}

// Walk discovers localisation files under root in lexical order.
func (w *Walker) Walk(root string) ([]FileEntry, error) {
	info, err := w.fs.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("root is not a directory: %s", root)
	}

	var entries []FileEntry

	err = afero.Walk(w.fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Error walking path")
			return nil
		}

		if info.IsDir() || !inLocalisationDir(root, path) {
			return nil
		}

		ext := strings.ToLower(filepath.Ext(path))
		for _, p := range w.parsers {
			if p.CanParse(ext) {
				entries = append(entries, FileEntry{
					Path:   path,
					Ext:    ext,
					Parser: p,
				})
				break
			}
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk directory: %w", err)
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })
	log.Info().Int("count", len(entries)).Str("root", root).Msg("Discovered localisation files")
	return entries, nil
}

// WalkAll walks every root and concatenates the results. Roots that do not
// exist are skipped with a warning.
func (w *Walker) WalkAll(roots []string) ([]FileEntry, error) {
	var all []FileEntry
	for _, root := range roots {
		entries, err := w.Walk(root)
		if err != nil {
			if exists, _ := afero.Exists(w.fs, root); !exists {
				log.Warn().Str("root", root).Msg("Configured path does not exist, skipping")
				continue
			}
			return nil, err
		}
		all = append(all, entries...)
	}
	return all, nil
}

// inLocalisationDir reports whether any directory between the filesystem
// root and path is a localisation directory. Components of root count too,
// so a configured path may point inside a localisation tree.
func inLocalisationDir(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil || strings.HasPrefix(filepath.ToSlash(rel), "../") {
		return false
	}
	dir := filepath.ToSlash(filepath.Dir(path))
	for _, part := range strings.Split(dir, "/") {
		if localisationDirs[strings.ToLower(part)] {
			return true
		}
	}
	return false
}
