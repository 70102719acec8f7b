package metaio

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrNotTube is returned when the header describes another object type.
	ErrNotTube = errors.New("object is not a tube")

	// ErrUnterminatedHeader is returned when the stream ends before the
	// Points field that opens the point block.
	ErrUnterminatedHeader = errors.New("header ended before Points field")

	// ErrMalformedHeader is returned for a header value that cannot be parsed.
	ErrMalformedHeader = errors.New("malformed header field")
)

// MissingFieldError reports a required header field that is absent.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("required header field %q is missing", e.Field)
}
