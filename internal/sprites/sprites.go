// Package sprites generates placeholder spriteType definitions for assets
// that an external scan reported as missing.
package sprites

import (
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"modloc/internal/textutil"
	"modloc/internal/writer"
)

// Report is the missing-sprites scan result. Errors holds one diagnostic per
// line, each quoting the offending asset path; Default is the texture every
// placeholder points at.
type Report struct {
	Errors  string `yaml:"errors"`
	Default string `yaml:"default"`
}

// MalformedLineError reports an error line that does not quote an asset path.
type MalformedLineError struct {
	Line int
	Text string
}

func (e *MalformedLineError) Error() string {
	return fmt.Sprintf("report line %d: no quoted asset path in %q", e.Line, textutil.Truncate(e.Text, 80))
}

// LoadReport reads a report from a YAML document with "errors" and
// "default" keys.
func LoadReport(filePath string) (Report, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return Report{}, fmt.Errorf("read report: %w", err)
	}

	var raw struct {
		Errors  *string `yaml:"errors"`
		Default *string `yaml:"default"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Report{}, fmt.Errorf("parse report %s: %w", filePath, err)
	}
	if raw.Errors == nil {
		return Report{}, fmt.Errorf("parse report %s: missing key %q", filePath, "errors")
	}
	if raw.Default == nil {
		return Report{}, fmt.Errorf("parse report %s: missing key %q", filePath, "default")
	}
	return Report{Errors: *raw.Errors, Default: *raw.Default}, nil
}

// Identifier recovers the asset name from one diagnostic line: the last
// quoted token's final path segment without its extension.
func Identifier(line string) (string, bool) {
	parts := strings.Split(line, "\"")
	if len(parts) < 3 {
		return "", false
	}
	token := parts[len(parts)-2]
	if i := strings.LastIndexAny(token, "/\\"); i >= 0 {
		token = token[i+1:]
	}
	name := strings.TrimSuffix(token, path.Ext(token))
	if name == "" {
		return "", false
	}
	return name, true
}

// Generate writes one spriteType block per non-empty line of r.Errors,
// wrapped in a spriteTypes block. It stops at the first malformed line.
func Generate(w *writer.Writer, r Report) error {
	if err := w.Write("spriteTypes = {\n"); err != nil {
		return err
	}

	count := 0
	for i, line := range strings.Split(r.Errors, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		id, ok := Identifier(line)
		if !ok {
			return &MalformedLineError{Line: i + 1, Text: line}
		}
		if err := writeSprite(w, id, r.Default); err != nil {
			return err
		}
		count++
	}

	if err := w.Write("}\n"); err != nil {
		return err
	}
	log.Info().Str("path", w.Path()).Int("sprites", count).Msg("Generated cleanup sprites")
	return nil
}

func writeSprite(w *writer.Writer, id, texture string) error {
	block := "\tspriteType = {\n" +
		"\t\tname = \"GFX_" + id + "\"\n" +
		"\t\ttexturefile = \"" + texture + "\"\n" +
		"\t}\n\n"
	return w.Write(block)
}
