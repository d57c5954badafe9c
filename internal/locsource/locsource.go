// Package locsource reads localisation source documents and renders them
// through a writer.
package locsource

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"modloc/internal/locformat"
	"modloc/internal/writer"
)

// Document describes one generated localisation file.
type Document struct {
	Language string  `yaml:"language"`
	Output   string  `yaml:"output"`
	BOM      *bool   `yaml:"bom"`
	Groups   []Group `yaml:"groups"`
}

// Group is a run of entries preceded by a blank line and an optional comment.
type Group struct {
	Comment string  `yaml:"comment"`
	Entries []Entry `yaml:"entries"`
}

// Entry is one localisation line. Exactly one of Text and Resource is set.
type Entry struct {
	Key      string              `yaml:"key"`
	Text     *string             `yaml:"text"`
	Resource *locformat.Resource `yaml:"resource"`
	Number   *int                `yaml:"number"`
}

// WantBOM reports whether the output should start with a byte-order marker.
// It defaults to true.
func (d *Document) WantBOM() bool {
	return d.BOM == nil || *d.BOM
}

// Load reads and validates a source document.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read source: %w", err)
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse source %s: %w", path, err)
	}
	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("validate source %s: %w", path, err)
	}
	return &doc, nil
}

// Validate checks that the document can be rendered.
func (d *Document) Validate() error {
	if d.Language == "" {
		return fmt.Errorf("language is required")
	}
	for gi, g := range d.Groups {
		for ei, e := range g.Entries {
			if e.Key == "" {
				return fmt.Errorf("groups[%d].entries[%d]: key is required", gi, ei)
			}
			if (e.Text == nil) == (e.Resource == nil) {
				return fmt.Errorf("groups[%d].entries[%d] %s: exactly one of text or resource is required", gi, ei, e.Key)
			}
		}
	}
	return nil
}

// DisplayText is the quoted text written for the entry.
func (e Entry) DisplayText() string {
	if e.Resource != nil {
		return locformat.FormatResource(*e.Resource)
	}
	return *e.Text
}

// Render writes the language header and every group.
func Render(w *writer.Writer, doc *Document) error {
	if err := w.WriteLanguage(doc.Language); err != nil {
		return err
	}
	for _, g := range doc.Groups {
		err := w.Spacer(func() error {
			if g.Comment != "" {
				if err := w.WriteComment(g.Comment); err != nil {
					return err
				}
			}
			for _, e := range g.Entries {
				if err := writeEntry(w, e); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func writeEntry(w *writer.Writer, e Entry) error {
	if e.Number != nil {
		return w.WriteNumberedLocalization(e.Key, e.DisplayText(), *e.Number)
	}
	return w.WriteLocalization(e.Key, e.DisplayText())
}
