// Package codewriter is the indentation-aware line writer used by the source
// renderers.
package codewriter

import (
	"bytes"
	"strings"
)

// Writer accumulates generated source text.
type Writer struct {
	buf    bytes.Buffer
	indent string
	level  int
	bol    bool
	state  map[string]any
}

// New creates a Writer indenting with the given unit, e.g. "\t" or "  ".
func New(indent string) *Writer {
	return &Writer{indent: indent, bol: true}
}

// Out writes line at the current indentation. When newline is false and line
// does not end in a newline, the next call continues the same line.
func (w *Writer) Out(line string, newline bool) *Writer {
	if line == "" && !newline {
		return w
	}
	if w.bol && line != "" {
		w.buf.WriteString(strings.Repeat(w.indent, w.level))
	}
	w.buf.WriteString(line)
	if newline {
		w.buf.WriteByte('\n')
	}
	w.bol = newline || strings.HasSuffix(line, "\n")
	return w
}

// Line writes a full line.
func (w *Writer) Line(line string) *Writer {
	return w.Out(line, true)
}

// Blank writes an empty line.
func (w *Writer) Blank() *Writer {
	return w.Out("", true)
}

// Indent changes the indentation level by delta, never going below zero.
func (w *Writer) Indent(delta int) *Writer {
	w.level += delta
	if w.level < 0 {
		w.level = 0
	}
	return w
}

// Block writes open, runs body one level deeper and writes close.
func (w *Writer) Block(open, closing string, body func()) *Writer {
	w.Line(open)
	w.Indent(1)
	body()
	w.Indent(-1)
	return w.Line(closing)
}

// WithState stores an auxiliary value scoped to this writer.
func (w *Writer) WithState(key string, value any) *Writer {
	if w.state == nil {
		w.state = make(map[string]any)
	}
	w.state[key] = value
	return w
}

// State returns the auxiliary value stored under key.
func (w *Writer) State(key string) (any, bool) {
	v, ok := w.state[key]
	return v, ok
}

// Bytes returns the written text.
func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}

// String returns the written text.
func (w *Writer) String() string {
	return w.buf.String()
}
