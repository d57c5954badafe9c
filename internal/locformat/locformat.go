// Package locformat renders single localisation entries and resource
// references in the text form the game engine reads.
package locformat

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Line renders ` KEY: "text"`. The text is not escaped.
func Line(key, text string) string {
	return line(key, "", text)
}

// NumberedLine renders ` KEY:n "text"`.
func NumberedLine(key, text string, n int) string {
	return line(key, strconv.Itoa(n), text)
}

func line(key, number, text string) string {
	return " " + key + ":" + number + " \"" + text + "\""
}

// Kind discriminates the two forms of a Resource.
type Kind int

const (
	// KindPlain is a bare key.
	KindPlain Kind = iota
	// KindPair is a key with an optional override text.
	KindPair
)

// Resource is the source of a display string: either a bare key or a key
// with an override that replaces the templated reference.
type Resource struct {
	Kind     Kind
	Key      string
	Override string
}

// Plain returns a bare-key resource.
func Plain(key string) Resource {
	return Resource{Kind: KindPlain, Key: key}
}

// Pair returns a key/override resource. An empty override counts as absent.
func Pair(key, override string) Resource {
	return Resource{Kind: KindPair, Key: key, Override: override}
}

// HasOverride reports whether the resource renders as literal override text.
func (r Resource) HasOverride() bool {
	return r.Kind == KindPair && r.Override != ""
}

// String renders the resource. See FormatResource.
func (r Resource) String() string {
	return FormatResource(r)
}

// FormatResource renders the tooltip-style and inline-style references
// `£key£ $key$`, or the override text when one is present.
func FormatResource(r Resource) string {
	if r.HasOverride() {
		return r.Override
	}
	return "£" + r.Key + "£ $" + r.Key + "$"
}

// UnmarshalYAML accepts a scalar key, a [key] or [key, override] sequence,
// or a {key, override} mapping.
func (r *Resource) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var key string
		if err := node.Decode(&key); err != nil {
			return err
		}
		*r = Plain(key)
		return nil
	case yaml.SequenceNode:
		var parts []*string
		if err := node.Decode(&parts); err != nil {
			return err
		}
		if len(parts) < 1 || len(parts) > 2 || parts[0] == nil {
			return fmt.Errorf("line %d: resource sequence must be [key] or [key, override]", node.Line)
		}
		override := ""
		if len(parts) == 2 && parts[1] != nil {
			override = *parts[1]
		}
		*r = Pair(*parts[0], override)
		return nil
	case yaml.MappingNode:
		var raw struct {
			Key      string `yaml:"key"`
			Override string `yaml:"override"`
		}
		if err := node.Decode(&raw); err != nil {
			return err
		}
		if raw.Key == "" {
			return fmt.Errorf("line %d: resource mapping requires key", node.Line)
		}
		*r = Pair(raw.Key, raw.Override)
		return nil
	default:
		return fmt.Errorf("line %d: unsupported resource form", node.Line)
	}
}
