package schema

// Attribute identifies a well-known point attribute.
type Attribute int

const (
	ID Attribute = iota
	X
	Y
	Z
	Red
	Green
	Blue
	Alpha
	Mark
	Radius
	Ridgeness
	Medialness
	Branchness
	Curvature
	Levelness
	Roundness
	Intensity
	Tx
	Ty
	Tz
	V1x
	V1y
	V1z
	V2x
	V2y
	V2z
	A1
	A2
	A3

	numAttributes
)

// aliases lists, per attribute, the column names that may carry it, in
// lookup order.
var aliases = [numAttributes][]string{
	ID:         {"id"},
	X:          {"x"},
	Y:          {"y"},
	Z:          {"z"},
	Red:        {"red"},
	Green:      {"green"},
	Blue:       {"blue"},
	Alpha:      {"alpha"},
	Mark:       {"mark", "mk"},
	Radius:     {"r", "R", "radius", "Radius", "rad", "Rad", "s", "S"},
	Ridgeness:  {"rn"},
	Medialness: {"mn"},
	Branchness: {"bn"},
	Curvature:  {"cv"},
	Levelness:  {"lv"},
	Roundness:  {"ro"},
	Intensity:  {"in"},
	Tx:         {"tx"},
	Ty:         {"ty"},
	Tz:         {"tz"},
	V1x:        {"v1x"},
	V1y:        {"v1y"},
	V1z:        {"v1z"},
	V2x:        {"v2x"},
	V2y:        {"v2y"},
	V2z:        {"v2z"},
	A1:         {"a1"},
	A2:         {"a2"},
	A3:         {"a3"},
}

// Attributes returns every well-known attribute in resolution order.
func Attributes() []Attribute {
	out := make([]Attribute, numAttributes)
	for i := range out {
		out[i] = Attribute(i)
	}
	return out
}

// String returns the canonical column name of the attribute.
func (a Attribute) String() string {
	if a < 0 || a >= numAttributes {
		return "unknown"
	}
	return aliases[a][0]
}

// Aliases returns the accepted column names of the attribute in lookup order.
func (a Attribute) Aliases() []string {
	return append([]string(nil), aliases[a]...)
}

// ThirdAxis reports whether the attribute is the third component of a
// vector. Such attributes exist only for tubes of three or more dimensions.
func (a Attribute) ThirdAxis() bool {
	switch a {
	case Z, Tz, V1z, V2z:
		return true
	}
	return false
}

// ExtraColumn is a column that no well-known attribute claimed.
type ExtraColumn struct {
	// Index is the column position within a row
	Index int

	// Name is the extra field name
	Name string

	// Occurrence counts earlier extra columns with the same name, so that
	// the n-th duplicate column maps to the n-th duplicate field of a point.
	Occurrence int
}

// Layout is the resolved view of a schema for one dimensionality. It is
// rebuilt for every read and write.
type Layout struct {
	schema    *Schema
	dim       int
	positions [numAttributes]int
	byColumn  []Attribute
	extras    []ExtraColumn
}

const unclaimed Attribute = -1

// Resolve maps every well-known attribute onto a column of s.
//
// Aliases are tried in order and the first name present in the schema wins;
// a name that occurs more than once resolves to its first column. Third axis
// attributes are only resolved when dim is at least 3, otherwise such
// columns are left to the extra fields. Every column not claimed by an
// attribute becomes an extra column, in schema order.
func Resolve(s *Schema, dim int) *Layout {
	l := &Layout{
		schema:   s,
		dim:      dim,
		byColumn: make([]Attribute, s.Len()),
	}
	for i := range l.byColumn {
		l.byColumn[i] = unclaimed
	}
	for a := Attribute(0); a < numAttributes; a++ {
		l.positions[a] = -1
		if a.ThirdAxis() && dim < 3 {
			continue
		}
		for _, name := range aliases[a] {
			pos, ok := s.PositionOf(name)
			if !ok || l.byColumn[pos] != unclaimed {
				continue
			}
			l.positions[a] = pos
			l.byColumn[pos] = a
			break
		}
	}

	seen := make(map[string]int)
	for i, a := range l.byColumn {
		if a != unclaimed {
			continue
		}
		name := s.Column(i)
		l.extras = append(l.extras, ExtraColumn{Index: i, Name: name, Occurrence: seen[name]})
		seen[name]++
	}
	return l
}

// Schema returns the schema the layout was resolved from.
func (l *Layout) Schema() *Schema {
	return l.schema
}

// Dimension returns the dimensionality used for resolution.
func (l *Layout) Dimension() int {
	return l.dim
}

// Len returns the number of columns per row.
func (l *Layout) Len() int {
	return len(l.byColumn)
}

// Position returns the column carrying attribute a, if any.
func (l *Layout) Position(a Attribute) (int, bool) {
	if a < 0 || a >= numAttributes || l.positions[a] < 0 {
		return -1, false
	}
	return l.positions[a], true
}

// AttributeAt returns the attribute claimed by column col, if any.
func (l *Layout) AttributeAt(col int) (Attribute, bool) {
	a := l.byColumn[col]
	return a, a != unclaimed
}

// Consumed reports whether column col is claimed by an attribute.
func (l *Layout) Consumed(col int) bool {
	return l.byColumn[col] != unclaimed
}

// Extras returns the unclaimed columns in schema order.
func (l *Layout) Extras() []ExtraColumn {
	return append([]ExtraColumn(nil), l.extras...)
}
