package dot

import (
	"bytes"
	"fmt"
	"strings"
)

const indentUnit = "  "

// writer accumulates DOT text and prefixes every line with the current
// nesting depth. Depth only changes through nest, so it is restored on
// every return path.
type writer struct {
	buf   bytes.Buffer
	depth int
}

// line writes s as one indented, newline-terminated line.
func (w *writer) line(s string) {
	w.buf.WriteString(strings.Repeat(indentUnit, w.depth))
	w.buf.WriteString(s)
	w.buf.WriteByte('\n')
}

// linef is line with fmt.Sprintf formatting.
func (w *writer) linef(format string, args ...any) {
	w.line(fmt.Sprintf(format, args...))
}

// nest runs fn one level deeper.
func (w *writer) nest(fn func() error) error {
	w.depth++
	defer func() { w.depth-- }()
	return fn()
}

// sub returns an empty writer at the same depth, for output that is
// assembled separately and spliced in with appendFrom.
func (w *writer) sub() *writer {
	return &writer{depth: w.depth}
}

// appendFrom splices the content of s into w.
func (w *writer) appendFrom(s *writer) {
	w.buf.Write(s.buf.Bytes())
}

func (w *writer) String() string { return w.buf.String() }
