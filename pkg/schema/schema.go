// Package schema describes the column layout of tube point records.
//
// A schema is the ordered list of column names carried by the PointDim
// header field. Each name either resolves to a well-known point attribute
// or, failing that, names a user-defined extra field.
package schema

import "strings"

var (
	defaultColumns2D = []string{
		"id", "x", "y", "red", "green", "blue", "alpha", "mark",
		"r", "rn", "mn", "bn", "cv", "lv", "ro", "in",
		"tx", "ty", "v1x", "v1y", "a1", "a2",
	}
	defaultColumnsND = []string{
		"id", "x", "y", "z", "red", "green", "blue", "alpha", "mark",
		"r", "rn", "mn", "bn", "cv", "lv", "ro", "in",
		"tx", "ty", "tz", "v1x", "v1y", "v1z", "v2x", "v2y", "v2z",
		"a1", "a2", "a3",
	}
)

// Schema is an ordered sequence of column names. The position of a name in
// the sequence is its column index within every point row.
type Schema struct {
	columns []string
}

// DefaultColumns returns the attribute columns written for a tube of the
// given dimensionality.
func DefaultColumns(dim int) []string {
	src := defaultColumnsND
	if dim == 2 {
		src = defaultColumns2D
	}
	return append([]string(nil), src...)
}

// Default returns the schema of a tube without extra fields.
func Default(dim int) *Schema {
	return &Schema{columns: DefaultColumns(dim)}
}

// Build returns the write schema of a tube: the default attribute columns
// followed by extra, usually the extra field names of the first point.
// Duplicate names are kept.
func Build(dim int, extra []string) *Schema {
	cols := DefaultColumns(dim)
	cols = append(cols, extra...)
	return &Schema{columns: cols}
}

// New returns a schema holding a copy of columns.
func New(columns []string) *Schema {
	return &Schema{columns: append([]string(nil), columns...)}
}

// Parse tokenizes a PointDim string on whitespace. A blank string yields an
// empty schema.
func Parse(s string) *Schema {
	return &Schema{columns: strings.Fields(s)}
}

// String joins the columns with single spaces.
func (s *Schema) String() string {
	return strings.Join(s.columns, " ")
}

// Len returns the number of columns.
func (s *Schema) Len() int {
	return len(s.columns)
}

// Column returns the name of column i.
func (s *Schema) Column(i int) string {
	return s.columns[i]
}

// Columns returns a copy of the column names.
func (s *Schema) Columns() []string {
	return append([]string(nil), s.columns...)
}

// PositionOf returns the index of the first column called name.
func (s *Schema) PositionOf(name string) (int, bool) {
	for i, c := range s.columns {
		if c == name {
			return i, true
		}
	}
	return -1, false
}
