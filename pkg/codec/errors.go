package codec

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrUnexpectedEndOfInput is returned when an ASCII point block ends
	// before every declared value has been read.
	ErrUnexpectedEndOfInput = errors.New("unexpected end of input")

	// ErrMalformedValue is returned when an ASCII token is not a number.
	ErrMalformedValue = errors.New("malformed numeric value")

	// ErrBlockTooLarge is returned when a declared block length overflows.
	ErrBlockTooLarge = errors.New("binary point block too large")
)

// ShortReadError reports a binary point block that is shorter than the
// size implied by the header.
type ShortReadError struct {
	Expected int
	Actual   int
}

func (e *ShortReadError) Error() string {
	return fmt.Sprintf("data not read completely: expected %d bytes, read %d", e.Expected, e.Actual)
}
