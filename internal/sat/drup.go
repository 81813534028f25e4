package sat

import (
	"bufio"
	"io"
	"strconv"
)

// TextDRUPSink writes a DRUP proof in the standard textual format: one line
// per event, space-separated signed literals terminated by 0, deletions
// prefixed with "d ". It is the concrete DRUPSink used by the CLI when a
// proof output path is configured.
type TextDRUPSink struct {
	w   *bufio.Writer
	buf []byte
}

// NewTextDRUPSink wraps w in a buffered DRUP writer. Callers must call
// Flush when done to guarantee every line reaches w.
func NewTextDRUPSink(w io.Writer) *TextDRUPSink {
	return &TextDRUPSink{w: bufio.NewWriter(w)}
}

func (s *TextDRUPSink) writeLine(prefix string, literals []Literal) {
	s.buf = s.buf[:0]
	s.buf = append(s.buf, prefix...)
	for _, l := range literals {
		s.buf = strconv.AppendInt(s.buf, int64(signedDIMACS(l)), 10)
		s.buf = append(s.buf, ' ')
	}
	s.buf = append(s.buf, '0', '\n')
	s.w.Write(s.buf)
}

func signedDIMACS(l Literal) int {
	v := int(l.VarID()) + 1
	if l.IsPositive() {
		return v
	}
	return -v
}

func (s *TextDRUPSink) Added(literals []Literal) {
	s.writeLine("", literals)
}

func (s *TextDRUPSink) Removed(literals []Literal) {
	s.writeLine("d ", literals)
}

// Flush forces any buffered proof lines to the underlying writer.
func (s *TextDRUPSink) Flush() error {
	return s.w.Flush()
}
