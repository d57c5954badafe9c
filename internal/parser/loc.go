package parser

import (
	"bufio"
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// headerPattern matches the `l_<lang>:` section opener.
var headerPattern = regexp.MustCompile(`^l_([A-Za-z0-9_]+):\s*$`)

// entryPattern matches ` KEY:0 "text"` with an optional trailing comment.
var entryPattern = regexp.MustCompile(`^\s*([^\s:#"]+):([0-9]*)\s*"(.*)"(?:\s*#.*)?$`)

// LocParser reads Paradox-style localisation files.
type LocParser struct {
	fs afero.Fs
}

func NewLocParser(fsys afero.Fs) *LocParser { return &LocParser{fs: fsys} }

func (p *LocParser) CanParse(ext string) bool {
	return ext == ".yml" || ext == ".yaml"
}

func (p *LocParser) Parse(filePath string) (*ParseResult, error) {
	file, err := p.fs.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open localisation file: %w", err)
	}
	defer file.Close()

	result := &ParseResult{FilePath: filePath}

	br := bufio.NewReader(file)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		result.HasBOM = true
	}

	scanner := bufio.NewScanner(transform.NewReader(br, unicode.UTF8BOM.NewDecoder()))
	scanner.Buffer(make([]byte, 0, 1024*1024), 1024*1024)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSuffix(scanner.Text(), "\r")
		trimmed := strings.TrimSpace(line)

		if trimmed == "" {
			continue
		}

		if strings.HasPrefix(trimmed, "#") {
			result.Comments = append(result.Comments, strings.TrimSpace(trimmed[1:]))
			continue
		}

		if m := headerPattern.FindStringSubmatch(trimmed); m != nil {
			if result.Language == "" {
				result.Language = m[1]
			}
			continue
		}

		m := entryPattern.FindStringSubmatch(line)
		if m == nil {
			log.Warn().Str("file", filePath).Int("line", lineNum).Msg("Skipping unrecognized localisation line")
			continue
		}

		entry := Entry{Key: m[1], Text: m[3], Line: lineNum}
		if m[2] != "" {
			n, err := strconv.Atoi(m[2])
			if err != nil {
				return nil, fmt.Errorf("line %d: parse number %q: %w", lineNum, m[2], err)
			}
			entry.Number = &n
		}
		result.Entries = append(result.Entries, entry)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan localisation file: %w", err)
	}

	return result, nil
}
