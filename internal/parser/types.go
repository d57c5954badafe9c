package parser

// Entry is one localisation line read back from a file.
type Entry struct {
	// Key is the localisation key.
	Key string
	// Number is the optional version suffix after the colon.
	Number *int
	// Text is the quoted display text without the surrounding quotes.
	Text string
	// Line is the 1-based line number in the source file.
	Line int
}

// ParseResult holds parsing output for a single file.
type ParseResult struct {
	// FilePath is the path the file was read from.
	FilePath string
	// Language is the header language key, e.g. "english" for l_english.
	Language string
	// HasBOM reports whether the file started with a UTF-8 byte-order marker.
	HasBOM bool
	// Entries are the localisation lines in file order.
	Entries []Entry
	// Comments are the comment texts in file order.
	Comments []string
}

// Parser is the interface for localisation file readers.
type Parser interface {
	// CanParse returns true if this parser handles the given file extension.
	CanParse(ext string) bool
	// Parse reads a file into a ParseResult.
	Parse(filePath string) (*ParseResult, error)
}
