package transcode

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrEmptySchema is returned when points are declared but the schema
	// string names no column.
	ErrEmptySchema = errors.New("point schema has no columns")

	// ErrInvalidDimension is returned for dimensionalities below two.
	ErrInvalidDimension = errors.New("invalid point dimension")

	// ErrInvalidPointCount is returned for a negative point count.
	ErrInvalidPointCount = errors.New("invalid point count")

	// ErrInvalidFieldName is returned when a column name is empty or holds
	// whitespace and so cannot be stored in the schema string.
	ErrInvalidFieldName = errors.New("invalid field name")
)

// FieldNotFoundError reports an extra column of the write schema that a
// point does not carry.
type FieldNotFoundError struct {
	Field string
	Point int
}

func (e *FieldNotFoundError) Error() string {
	return fmt.Sprintf("cannot find value for field %q on point %d", e.Field, e.Point)
}
