package models

import "fmt"

// MinDimension is the smallest dimensionality a tube point can have.
const MinDimension = 2

// Point represents a single vertex of a tube centerline
type Point struct {
	// Dimension is the number of spatial dimensions; fixed at construction
	Dimension int

	// ID identifies the point. It is kept as a float so that it travels in
	// the same numeric row as every other attribute.
	ID float32

	// Position, Tangent, Normal1 and Normal2 always hold Dimension elements
	Position []float32
	Tangent  []float32
	Normal1  []float32
	Normal2  []float32

	// Alpha1, Alpha2 and Alpha3 are the local frame angles
	Alpha1 float32
	Alpha2 float32
	Alpha3 float32

	// Radius is the tube radius at this point
	Radius float32

	// Derived scalar measures
	Medialness float32
	Ridgeness  float32
	Branchness float32
	Curvature  float32
	Levelness  float32
	Roundness  float32
	Intensity  float32

	// Color is RGBA, opaque white by default
	Color [4]float32

	// Marked flags the point for the user
	Marked bool

	// Fields holds user-defined named scalars in insertion order
	Fields FieldList
}

// NewPoint creates a point of the given dimensionality with default values.
// It panics if dim is smaller than MinDimension.
func NewPoint(dim int) *Point {
	if dim < MinDimension {
		panic(fmt.Sprintf("models: point dimension %d is below %d", dim, MinDimension))
	}
	return &Point{
		Dimension: dim,
		ID:        -1,
		Position:  make([]float32, dim),
		Tangent:   make([]float32, dim),
		Normal1:   make([]float32, dim),
		Normal2:   make([]float32, dim),
		Color:     [4]float32{1, 1, 1, 1},
	}
}

// Clone returns a deep copy of p. No slice is shared with the original.
func (p *Point) Clone() *Point {
	c := &Point{}
	c.CopyFrom(p)
	return c
}

// CopyFrom replaces the contents of p with a deep copy of src.
func (p *Point) CopyFrom(src *Point) {
	*p = *src
	p.Position = append([]float32(nil), src.Position...)
	p.Tangent = append([]float32(nil), src.Tangent...)
	p.Normal1 = append([]float32(nil), src.Normal1...)
	p.Normal2 = append([]float32(nil), src.Normal2...)
	p.Fields = src.Fields.Clone()
}

// Field returns the value of the first extra field called name.
func (p *Point) Field(name string) (float32, bool) {
	return p.Fields.Get(name)
}

// FieldAt returns the value of the extra field at index i, or false when i
// is out of range.
func (p *Point) FieldAt(i int) (float32, bool) {
	if i < 0 || i >= p.Fields.Len() {
		return 0, false
	}
	return p.Fields.At(i).Value, true
}

// FieldIndex returns the index of the first extra field called name.
func (p *Point) FieldIndex(name string) (int, bool) {
	return p.Fields.Index(name)
}

// SetField updates the first extra field called name or appends it.
func (p *Point) SetField(name string, value float32) {
	p.Fields.Set(name, value)
}

// AddField behaves like SetField: an existing field is updated in place
// rather than duplicated.
func (p *Point) AddField(name string, value float32) {
	p.Fields.Set(name, value)
}

// AppendField appends an extra field even if the name is already present.
func (p *Point) AppendField(name string, value float32) {
	p.Fields.Append(name, value)
}

// SetFieldAt overwrites the extra field at index i.
func (p *Point) SetFieldAt(i int, name string, value float32) {
	p.Fields.SetAt(i, name, value)
}

// NumFields returns the number of extra fields.
func (p *Point) NumFields() int {
	return p.Fields.Len()
}

// SetNumFields resizes the extra field list.
func (p *Point) SetNumFields(n int) {
	p.Fields.Resize(n)
}
