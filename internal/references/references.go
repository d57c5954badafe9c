// Package references finds the resource references embedded in
// localisation text and reports the ones that point nowhere.
package references

import (
	"regexp"
	"sort"
	"strconv"

	"modloc/internal/parser"
)

// Style is the markup convention a reference uses.
type Style int

const (
	// Inline is `$KEY$`, replaced with another localisation string.
	Inline Style = iota
	// Icon is `£KEY£`, replaced with a text icon.
	Icon
)

func (s Style) String() string {
	if s == Icon {
		return "icon"
	}
	return "inline"
}

// Reference is one occurrence inside a text.
type Reference struct {
	Key   string
	Style Style
	Start int
	End   int
}

// patterns detect references; a `|format` suffix is not part of the key.
var patterns = []struct {
	style Style
	re    *regexp.Regexp
}{
	{Inline, regexp.MustCompile(`\$([A-Za-z0-9_.\-]+)(?:\|[^$]*)?\$`)},
	{Icon, regexp.MustCompile(`£([A-Za-z0-9_.\-]+)(?:\|[^£]*)?£`)},
}

// Extract returns the references in text ordered by position. Overlapping
// matches keep the earliest.
func Extract(text string) []Reference {
	var all []Reference
	for _, p := range patterns {
		for _, loc := range p.re.FindAllStringSubmatchIndex(text, -1) {
			all = append(all, Reference{
				Key:   text[loc[2]:loc[3]],
				Style: p.style,
				Start: loc[0],
				End:   loc[1],
			})
		}
	}
	if len(all) == 0 {
		return nil
	}

	sort.SliceStable(all, func(i, j int) bool { return all[i].Start < all[j].Start })

	filtered := all[:0]
	lastEnd := -1
	for _, r := range all {
		if r.Start >= lastEnd {
			filtered = append(filtered, r)
			lastEnd = r.End
		}
	}
	return filtered
}

// Finding is an inline reference to a key no scanned file defines.
type Finding struct {
	File string
	Line int
	Key  string
	Ref  string
}

// Unresolved lists inline references in results whose key is not defined by
// any entry in results or in extra. Icon references name sprites, not
// localisation keys, and are not checked.
func Unresolved(results []*parser.ParseResult, extra ...string) []Finding {
	known := make(map[string]struct{})
	for _, k := range extra {
		known[k] = struct{}{}
	}
	for _, r := range results {
		for _, e := range r.Entries {
			known[e.Key] = struct{}{}
		}
	}

	var findings []Finding
	for _, r := range results {
		for _, e := range r.Entries {
			for _, ref := range Extract(e.Text) {
				if ref.Style != Inline {
					continue
				}
				if _, ok := known[ref.Key]; ok {
					continue
				}
				findings = append(findings, Finding{File: r.FilePath, Line: e.Line, Key: e.Key, Ref: ref.Key})
			}
		}
	}
	return findings
}

// Duplicate is a key defined more than once for the same language.
type Duplicate struct {
	Language string
	Key      string
	Sites    []string
}

// Duplicates reports keys defined more than once per language, sorted by
// language then key.
func Duplicates(results []*parser.ParseResult) []Duplicate {
	type langKey struct{ lang, key string }
	sites := make(map[langKey][]string)
	for _, r := range results {
		for _, e := range r.Entries {
			k := langKey{r.Language, e.Key}
			sites[k] = append(sites[k], r.FilePath+":"+strconv.Itoa(e.Line))
		}
	}

	var dups []Duplicate
	for k, s := range sites {
		if len(s) > 1 {
			dups = append(dups, Duplicate{Language: k.lang, Key: k.key, Sites: s})
		}
	}
	sort.Slice(dups, func(i, j int) bool {
		if dups[i].Language != dups[j].Language {
			return dups[i].Language < dups[j].Language
		}
		return dups[i].Key < dups[j].Key
	})
	return dups
}
