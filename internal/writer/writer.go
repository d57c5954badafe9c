// Package writer emits localisation and sprite definition files byte for
// byte. A Writer owns one open file; use With to get guaranteed release.
package writer

import (
	"errors"
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"

	"modloc/internal/locformat"
)

// BOM is the UTF-8 byte-order marker.
var BOM = []byte{0xEF, 0xBB, 0xBF}

var (
	// ErrClosed is returned by writes issued after Close.
	ErrClosed = errors.New("writer closed")
	// ErrInvalidUTF8 is returned when text is not valid UTF-8.
	ErrInvalidUTF8 = errors.New("text is not valid UTF-8")
)

// IOError reports a failure at the file system boundary.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

type options struct {
	bom bool
}

// Option configures Create and With.
type Option func(*options)

// WithoutBOM disables the leading byte-order marker.
func WithoutBOM() Option {
	return func(o *options) { o.bom = false }
}

// WithBOM sets whether the byte-order marker is written.
func WithBOM(enabled bool) Option {
	return func(o *options) { o.bom = enabled }
}

// Writer appends text to a single file in call order. Writes go straight to
// the file handle without buffering.
type Writer struct {
	path   string
	file   afero.File
	err    error
	closed bool
}

// Create truncates or creates path on fsys and writes the byte-order marker
// unless disabled.
func Create(fsys afero.Fs, path string, opts ...Option) (*Writer, error) {
	o := options{bom: true}
	for _, opt := range opts {
		opt(&o)
	}

	file, err := fsys.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, &IOError{Op: "open", Path: path, Err: err}
	}

	w := &Writer{path: path, file: file}
	if o.bom {
		if err := w.writeBytes(BOM); err != nil {
			_ = w.Close()
			return nil, err
		}
	}
	log.Debug().Str("path", path).Bool("bom", o.bom).Msg("Opened output file")
	return w, nil
}

// With opens path, runs fn and closes the file on every exit path,
// including a panic in fn. The first error encountered is returned.
func With(fsys afero.Fs, path string, fn func(*Writer) error, opts ...Option) (err error) {
	w, err := Create(fsys, path, opts...)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := w.Close(); err == nil {
			err = cerr
		}
	}()
	return fn(w)
}

// Path returns the file the writer targets.
func (w *Writer) Path() string { return w.path }

// Err returns the first write error, if any.
func (w *Writer) Err() error { return w.err }

// Close releases the file handle. Only the first call has an effect.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	if err := w.file.Close(); err != nil {
		return &IOError{Op: "close", Path: w.path, Err: err}
	}
	return nil
}

// Write appends s verbatim.
func (w *Writer) Write(s string) error {
	if !utf8.ValidString(s) {
		return &IOError{Op: "encode", Path: w.path, Err: ErrInvalidUTF8}
	}
	return w.writeBytes([]byte(s))
}

func (w *Writer) writeBytes(b []byte) error {
	if w.err != nil {
		return w.err
	}
	if w.closed {
		return &IOError{Op: "write", Path: w.path, Err: ErrClosed}
	}
	if _, err := w.file.Write(b); err != nil {
		w.err = &IOError{Op: "write", Path: w.path, Err: err}
		return w.err
	}
	return nil
}

// WriteLanguage writes the `l_<lang>:` section header.
func (w *Writer) WriteLanguage(lang string) error {
	return w.Write("l_" + lang + ":\n")
}

// WriteLocalization writes one ` KEY: "text"` line.
func (w *Writer) WriteLocalization(key, text string) error {
	return w.Write(locformat.Line(key, text) + "\n")
}

// WriteNumberedLocalization writes one ` KEY:n "text"` line.
func (w *Writer) WriteNumberedLocalization(key, text string, n int) error {
	return w.Write(locformat.NumberedLine(key, text, n) + "\n")
}

// WriteComment writes a ` # text` line.
func (w *Writer) WriteComment(text string) error {
	return w.Write(" # " + text + "\n")
}

// WriteSpacer writes a blank line.
func (w *Writer) WriteSpacer() error {
	return w.Write("\n")
}

// Spacer writes a blank line and then runs fn, grouping the lines fn writes.
// Nothing is written after fn returns.
func (w *Writer) Spacer(fn func() error) error {
	if err := w.WriteSpacer(); err != nil {
		return err
	}
	return fn()
}
