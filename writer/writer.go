// Package writer is a buffered text emitter for generated source files.
//
// It tracks indentation and whether the output is at the start of a line, so
// generators can compose output from small calls without managing whitespace:
//
//	w.Nl("export class Fill ")
//	w.Sub(func() {
//	    w.Nl("id: string;")
//	})
//
// Output is buffered and flushed once the buffer reaches the configured size, and
// on Close. The first write error is kept and every later call becomes a no-op.
package writer

import (
	"bytes"
	"io"
	"os"
	"strings"

	"github.com/teranos/schemagen/errors"
)

// DefaultBufferSize is the flush threshold used when none is configured
const DefaultBufferSize = 64 * 1024

// DefaultIndent is one indentation level
const DefaultIndent = "  "

// Writer emits indented text to an underlying io.Writer.
type Writer struct {
	out    io.Writer
	closer io.Closer
	name   string

	buf       bytes.Buffer
	threshold int
	unit      string

	indent    int
	lineStart bool
	written   int64

	err    error
	closed bool
}

// Option configures a Writer
type Option func(*Writer)

// WithBufferSize sets the flush threshold in bytes. Values below 1 keep the default.
func WithBufferSize(n int) Option {
	return func(w *Writer) {
		if n > 0 {
			w.threshold = n
		}
	}
}

// WithIndent sets the text used for one indentation level
func WithIndent(unit string) Option {
	return func(w *Writer) {
		w.unit = unit
	}
}

// New returns a Writer emitting to out.
func New(out io.Writer, opts ...Option) *Writer {
	w := &Writer{
		out:       out,
		threshold: DefaultBufferSize,
		unit:      DefaultIndent,
		lineStart: true,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Create truncates or creates the file at path and returns a Writer for it.
// Close flushes and closes the file.
func Create(path string, opts ...Option) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create %s", path)
	}
	w := New(f, opts...)
	w.closer = f
	w.name = path
	return w, nil
}

// Append writes raw text. The writer is mid-line afterwards.
func (w *Writer) Append(parts ...string) {
	for _, p := range parts {
		if p == "" {
			continue
		}
		w.write(p)
		w.lineStart = false
	}
}

// Newline ends the current line. It does nothing at the start of a line, so
// repeated calls never produce empty lines.
func (w *Writer) Newline() {
	if w.lineStart {
		return
	}
	w.write("\n")
	w.lineStart = true
}

// Nl starts a new line at the current indentation and appends parts.
func (w *Writer) Nl(parts ...string) {
	w.Newline()
	w.write(strings.Repeat(w.unit, w.indent))
	w.lineStart = false
	w.Append(parts...)
}

// Blank ends the current line and emits one empty line.
func (w *Writer) Blank() {
	w.Newline()
	w.write("\n")
	w.lineStart = true
}

// Sub appends "{", runs fn one indentation level deeper, then closes the block
// on its own line. A block fn writes nothing into is emitted as "{}".
func (w *Writer) Sub(fn func()) {
	w.Append("{")
	before := w.written
	w.indent++
	fn()
	w.indent--
	if w.written == before {
		w.Append("}")
		return
	}
	w.Nl("}")
}

// Indent increases the indentation level
func (w *Writer) Indent() { w.indent++ }

// Dedent decreases the indentation level
func (w *Writer) Dedent() {
	if w.indent > 0 {
		w.indent--
	}
}

// Fmt re-indents a block of already formatted text at the current indentation.
// Each line is trimmed and re-emitted at a depth tracked by a bracket stack:
// ( [ { open a level, ) ] } close one. Several brackets opened on one line add a
// single level. A line starting with closing brackets is written at the level of
// the line that opened them. Brackets inside string literals and // comments are
// ignored.
func (w *Writer) Fmt(text string) {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")

	// Drop leading and trailing blank lines
	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}

	// openers holds, per unclosed bracket, the level of the line that opened it
	var openers []int
	depth := func() int {
		if len(openers) == 0 {
			return 0
		}
		return openers[len(openers)-1] + 1
	}
	pop := func() (int, bool) {
		if len(openers) == 0 {
			return 0, false
		}
		top := openers[len(openers)-1]
		openers = openers[:len(openers)-1]
		return top, true
	}

	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			w.Blank()
			continue
		}

		level := depth()
		i := 0
		for i < len(line) && isCloser(line[i]) {
			if opened, ok := pop(); ok {
				level = opened
			} else {
				level = 0
			}
			i++
		}

		w.indent += level
		w.Nl(line)
		w.indent -= level

		scanBrackets(line[i:], func(c byte) {
			if isCloser(c) {
				pop()
			} else {
				openers = append(openers, level)
			}
		})
	}
}

func isCloser(c byte) bool {
	return c == '}' || c == ']' || c == ')'
}

// scanBrackets calls fn for each bracket outside string literals and line comments
func scanBrackets(line string, fn func(byte)) {
	var quote byte
	for i := 0; i < len(line); i++ {
		c := line[i]
		if quote != 0 {
			switch c {
			case '\\':
				i++
			case quote:
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'', '`':
			quote = c
		case '/':
			if i+1 < len(line) && line[i+1] == '/' {
				return
			}
		case '{', '[', '(', '}', ']', ')':
			fn(c)
		}
	}
}

func (w *Writer) write(s string) {
	if w.err != nil || s == "" {
		return
	}
	if w.closed {
		w.err = errors.New("write after close")
		return
	}
	w.buf.WriteString(s)
	w.written += int64(len(s))
	if w.buf.Len() >= w.threshold {
		w.flush()
	}
}

func (w *Writer) flush() {
	if w.err != nil || w.buf.Len() == 0 {
		return
	}
	if _, err := w.out.Write(w.buf.Bytes()); err != nil {
		w.err = errors.Wrapf(err, "failed to write %s", w.target())
	}
	w.buf.Reset()
}

func (w *Writer) target() string {
	if w.name == "" {
		return "output"
	}
	return w.name
}

// Flush writes buffered output and returns the first error seen so far.
func (w *Writer) Flush() error {
	w.flush()
	return w.err
}

// Err returns the first write error, if any
func (w *Writer) Err() error {
	return w.err
}

// Size returns the number of bytes emitted so far, flushed or not
func (w *Writer) Size() int64 {
	return w.written
}

// Close terminates the last line, flushes, and closes the file opened by Create.
// It returns the first error seen during the writer's lifetime.
func (w *Writer) Close() error {
	if w.closed {
		return w.err
	}
	w.Newline()
	w.flush()
	w.closed = true

	if w.closer != nil {
		if err := w.closer.Close(); err != nil && w.err == nil {
			w.err = errors.Wrapf(err, "failed to close %s", w.target())
		}
	}
	return w.err
}
