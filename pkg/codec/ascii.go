package codec

import (
	"bufio"
	"io"
	"strconv"

	"github.com/pkg/errors"
)

// FormatValue returns the shortest decimal form that parses back to v.
func FormatValue(v float32) string {
	return strconv.FormatFloat(float64(v), 'g', -1, 32)
}

// ParseValue parses one ASCII token. Values outside the float32 range
// saturate to infinity instead of failing.
func ParseValue(tok string) (float32, error) {
	v, err := strconv.ParseFloat(tok, 32)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, errors.Wrapf(ErrMalformedValue, "%q", tok)
	}
	return float32(v), nil
}

// ASCIIWriter writes point rows as space separated tokens, one row per line.
type ASCIIWriter struct {
	w   *bufio.Writer
	col int
}

// NewASCIIWriter wraps w. An existing *bufio.Writer is used as is.
func NewASCIIWriter(w io.Writer) *ASCIIWriter {
	bw, ok := w.(*bufio.Writer)
	if !ok {
		bw = bufio.NewWriter(w)
	}
	return &ASCIIWriter{w: bw}
}

// WriteValue appends one token to the current row.
func (a *ASCIIWriter) WriteValue(v float32) error {
	if a.col > 0 {
		if err := a.w.WriteByte(' '); err != nil {
			return err
		}
	}
	a.col++
	_, err := a.w.WriteString(FormatValue(v))
	return err
}

// EndRow terminates the current row.
func (a *ASCIIWriter) EndRow() error {
	a.col = 0
	return a.w.WriteByte('\n')
}

// Flush writes any buffered data to the underlying writer.
func (a *ASCIIWriter) Flush() error {
	return a.w.Flush()
}

// ASCIIReader reads whitespace delimited tokens.
//
// Leading whitespace before a token is skipped, then the token is read up to
// and including the single whitespace byte that terminates it.
type ASCIIReader struct {
	r      *bufio.Reader
	tok    []byte
	atLine bool
}

// NewASCIIReader wraps r. An existing *bufio.Reader is used as is so that
// no buffered bytes are lost between the header and the point block.
func NewASCIIReader(r io.Reader) *ASCIIReader {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &ASCIIReader{r: br}
}

// Next returns the next value. It returns ErrUnexpectedEndOfInput if the
// stream ends before a token starts.
func (a *ASCIIReader) Next() (float32, error) {
	c, err := a.r.ReadByte()
	for err == nil && isSpace(c) {
		c, err = a.r.ReadByte()
	}
	if err == io.EOF {
		return 0, ErrUnexpectedEndOfInput
	}
	if err != nil {
		return 0, err
	}

	a.tok = a.tok[:0]
	a.atLine = false
	for {
		a.tok = append(a.tok, c)
		c, err = a.r.ReadByte()
		if err == io.EOF {
			a.atLine = true
			break
		}
		if err != nil {
			return 0, err
		}
		if isSpace(c) {
			a.atLine = c == '\n'
			break
		}
	}
	return ParseValue(string(a.tok))
}

// SkipLine positions the reader after the end of the current line. It is a
// no-op when the last token was already terminated by a newline.
func (a *ASCIIReader) SkipLine() error {
	if a.atLine {
		a.atLine = false
		return nil
	}
	return SkipLine(a.r)
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}
