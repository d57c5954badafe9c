package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// PathsKey is the only configuration key modloc interprets.
const PathsKey = "paths"

// ErrNoHome is returned when a path starts with "~" but no home directory
// can be determined.
var ErrNoHome = errors.New("home directory not available")

// Config is a loaded project configuration document.
type Config struct {
	// Paths holds the normalized entries of the "paths" key, in document order.
	Paths []string
	// Values holds every top-level key of the document. The "paths" entry is
	// replaced with the normalized []string; everything else is untouched.
	Values map[string]any
}

// ParseError reports a configuration document that could not be decoded.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse config %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// PathError reports a "paths" entry that could not be expanded or resolved.
type PathError struct {
	Index int
	Value string
	Err   error
}

func (e *PathError) Error() string {
	return fmt.Sprintf("paths[%d] %q: %v", e.Index, e.Value, e.Err)
}

func (e *PathError) Unwrap() error { return e.Err }

// Load reads the YAML document at path and normalizes its "paths" key.
// Relative entries resolve against the current working directory.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	values := make(map[string]any)
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	if len(root.Content) > 0 {
		doc := root.Content[0]
		if doc.Kind != yaml.MappingNode {
			return nil, &ParseError{Path: path, Err: fmt.Errorf("top level must be a mapping, got %s", nodeKind(doc))}
		}
		if err := doc.Decode(&values); err != nil {
			return nil, &ParseError{Path: path, Err: err}
		}
	}

	cfg := &Config{Values: values}
	raw, ok := values[PathsKey]
	if !ok {
		return cfg, nil
	}

	entries, err := stringList(raw)
	if err != nil {
		return nil, &ParseError{Path: path, Err: fmt.Errorf("%s: %w", PathsKey, err)}
	}

	cfg.Paths = make([]string, 0, len(entries))
	for i, entry := range entries {
		resolved, err := ResolvePath(entry)
		if err != nil {
			return nil, &PathError{Index: i, Value: entry, Err: err}
		}
		cfg.Paths = append(cfg.Paths, resolved)
	}
	values[PathsKey] = cfg.Paths

	log.Debug().Str("config", path).Int("paths", len(cfg.Paths)).Msg("Loaded config")
	return cfg, nil
}

// Get returns the raw value stored under key.
func (c *Config) Get(key string) (any, bool) {
	v, ok := c.Values[key]
	return v, ok
}

// ResolvePath expands a leading "~", makes the path absolute and resolves
// symlinks. Components that do not exist yet are kept as written.
func ResolvePath(pathValue string) (string, error) {
	expanded, err := expandHome(pathValue)
	if err != nil {
		return "", err
	}
	absolute, err := filepath.Abs(filepath.Clean(expanded))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", expanded, err)
	}
	return canonicalize(absolute)
}

func expandHome(pathValue string) (string, error) {
	if !strings.HasPrefix(pathValue, "~") {
		return pathValue, nil
	}
	if pathValue != "~" && pathValue[1] != '/' && pathValue[1] != '\\' {
		// ~user forms are not supported; treat as a literal name.
		return pathValue, nil
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "", ErrNoHome
	}
	if pathValue == "~" {
		return home, nil
	}
	return filepath.Join(home, pathValue[2:]), nil
}

// maxLinkHops bounds how many dangling links canonicalize follows.
const maxLinkHops = 255

// canonicalize resolves symlinks in the longest existing prefix of an
// absolute path and appends the remaining components unchanged. A dangling
// link on the way is replaced by its target before resolution continues.
func canonicalize(absolute string) (string, error) {
	var missing []string
	current := absolute
	hops := 0
	for {
		resolved, err := filepath.EvalSymlinks(current)
		if err == nil {
			return appendMissing(resolved, missing), nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("resolve symlinks for %q: %w", current, err)
		}

		if info, lerr := os.Lstat(current); lerr == nil && info.Mode()&fs.ModeSymlink != 0 {
			hops++
			if hops > maxLinkHops {
				return "", fmt.Errorf("resolve symlinks for %q: too many links", absolute)
			}
			target, err := os.Readlink(current)
			if err != nil {
				return "", fmt.Errorf("read link %q: %w", current, err)
			}
			if !filepath.IsAbs(target) {
				parent, err := filepath.EvalSymlinks(filepath.Dir(current))
				if err != nil {
					return "", fmt.Errorf("resolve symlinks for %q: %w", filepath.Dir(current), err)
				}
				target = filepath.Join(parent, target)
			}
			current = filepath.Clean(target)
			continue
		}

		parent := filepath.Dir(current)
		if parent == current {
			return appendMissing(current, missing), nil
		}
		missing = append(missing, filepath.Base(current))
		current = parent
	}
}

// appendMissing joins the components collected in reverse onto base.
func appendMissing(base string, missing []string) string {
	for i := len(missing) - 1; i >= 0; i-- {
		base = filepath.Join(base, missing[i])
	}
	return base
}

func stringList(raw any) ([]string, error) {
	if raw == nil {
		return nil, nil
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("expected a sequence of strings, got %T", raw)
	}
	out := make([]string, 0, len(items))
	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("entry %d: expected string, got %T", i, item)
		}
		out = append(out, s)
	}
	return out, nil
}

func nodeKind(n *yaml.Node) string {
	switch n.Kind {
	case yaml.SequenceNode:
		return "sequence"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "document"
	}
}
