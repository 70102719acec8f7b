package models

import (
	"github.com/pkg/errors"

	"metatube/pkg/codec"
	"metatube/pkg/schema"
)

// ErrDimensionMismatch is returned when a point does not share its tube's
// dimensionality.
var ErrDimensionMismatch = errors.New("point dimension does not match tube dimension")

// Tube represents an ordered polyline of points describing a vessel or
// airway centerline, together with the topology hints stored in its header.
type Tube struct {
	// Points is exclusively owned by the tube
	Points []*Point

	// Dimension is shared by every point of the tube
	Dimension int

	// ElementType is the on-disk numeric representation used in binary mode
	ElementType codec.ElementType

	// BinaryData selects the binary encoding when the tube is written
	BinaryData bool

	// ID and ParentID place the tube in a scene hierarchy; -1 means unset
	ID       int
	ParentID int

	// Name is an optional free-form label
	Name string

	// ParentPoint is the index of the attachment point on the parent tube,
	// -1 when there is none
	ParentPoint int

	Root   bool
	Artery bool

	// NPoints is authoritative only right after a read; it is recomputed
	// before every write.
	NPoints int

	// PointDim caches the last used column schema string.
	PointDim string
}

// NewTube creates an empty tube of the given dimensionality.
func NewTube(dim int) *Tube {
	t := &Tube{Dimension: dim}
	t.Clear()
	return t
}

// Clear drops every point and resets the header attributes to their defaults.
func (t *Tube) Clear() {
	t.Points = nil
	t.ElementType = codec.Float
	t.BinaryData = false
	t.ID = -1
	t.ParentID = -1
	t.Name = ""
	t.ParentPoint = -1
	t.Root = false
	t.Artery = true
	t.NPoints = 0
	t.PointDim = schema.Default(t.Dimension).String()
}

// AddPoint appends p to the tube.
func (t *Tube) AddPoint(p *Point) error {
	if p.Dimension != t.Dimension {
		return errors.Wrapf(ErrDimensionMismatch, "point has %d dimensions, tube has %d",
			p.Dimension, t.Dimension)
	}
	t.Points = append(t.Points, p)
	return nil
}

// NumberOfPoints returns the current length of the point list.
func (t *Tube) NumberOfPoints() int {
	return len(t.Points)
}

// CopyInfo replaces the contents of t with a deep copy of src.
func (t *Tube) CopyInfo(src *Tube) {
	*t = *src
	t.Points = make([]*Point, len(src.Points))
	for i, p := range src.Points {
		t.Points[i] = p.Clone()
	}
}

// Clone returns a deep copy of the tube and all its points.
func (t *Tube) Clone() *Tube {
	c := &Tube{}
	c.CopyInfo(t)
	return c
}
