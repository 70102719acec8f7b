package analysis

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/spatial/kdtree"

	"metatube/internal/models"
)

// ErrEmptyTube is returned when a lookup needs at least one point.
var ErrEmptyTube = errors.New("tube has no points")

// centerlinePoint is a point position that remembers its index in the tube
type centerlinePoint struct {
	pos   []float64
	index int
}

// Compare implements the kdtree.Comparable interface
func (p centerlinePoint) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	return p.pos[d] - c.(centerlinePoint).pos[d]
}

// Dims returns the number of dimensions for the KD-tree
func (p centerlinePoint) Dims() int { return len(p.pos) }

// Distance returns the squared Euclidean distance between two points
func (p centerlinePoint) Distance(c kdtree.Comparable) float64 {
	q := c.(centerlinePoint)
	var sum float64
	for d := range p.pos {
		diff := p.pos[d] - q.pos[d]
		sum += diff * diff
	}
	return sum
}

// centerline is a collection of centerlinePoint that satisfies kdtree.Interface
type centerline []centerlinePoint

func (c centerline) Index(i int) kdtree.Comparable         { return c[i] }
func (c centerline) Len() int                              { return len(c) }
func (c centerline) Slice(start, end int) kdtree.Interface { return c[start:end] }

// Pivot implements the kdtree.Interface method
func (c centerline) Pivot(d kdtree.Dim) int {
	return kdtree.Partition(plane{centerline: c, Dim: d}, kdtree.MedianOfRandoms(plane{centerline: c, Dim: d}, 100))
}

// plane implements sort.Interface and kdtree.SortSlicer for centerline
type plane struct {
	centerline
	kdtree.Dim
}

func (p plane) Less(i, j int) bool {
	return p.centerline[i].pos[p.Dim] < p.centerline[j].pos[p.Dim]
}

func (p plane) Slice(start, end int) kdtree.SortSlicer {
	return plane{centerline: p.centerline[start:end], Dim: p.Dim}
}

func (p plane) Swap(i, j int) {
	p.centerline[i], p.centerline[j] = p.centerline[j], p.centerline[i]
}

// Locator finds the centerline point closest to a query position.
type Locator struct {
	tree *kdtree.Tree
	dim  int
}

// NewLocator indexes the point positions of t.
func NewLocator(t *models.Tube) (*Locator, error) {
	if len(t.Points) == 0 {
		return nil, ErrEmptyTube
	}
	points := make(centerline, len(t.Points))
	for i, pos := range Positions(t) {
		points[i] = centerlinePoint{pos: pos, index: i}
	}
	return &Locator{tree: kdtree.New(points, false), dim: t.Dimension}, nil
}

// Nearest returns the index of the point closest to pos and its Euclidean
// distance.
func (l *Locator) Nearest(pos []float64) (int, float64, error) {
	if len(pos) != l.dim {
		return -1, 0, errors.Wrapf(models.ErrDimensionMismatch, "query has %d dimensions, tube has %d", len(pos), l.dim)
	}
	got, d := l.tree.Nearest(centerlinePoint{pos: pos, index: -1})
	return got.(centerlinePoint).index, math.Sqrt(d), nil
}

// AttachToParent makes parent the parent of child. The parent point is the
// point of parent closest to the first point of child; its index is
// returned.
func AttachToParent(child, parent *models.Tube) (int, error) {
	if len(child.Points) == 0 {
		return -1, errors.Wrap(ErrEmptyTube, "child")
	}
	if child.Dimension != parent.Dimension {
		return -1, errors.Wrapf(models.ErrDimensionMismatch, "child has %d dimensions, parent has %d",
			child.Dimension, parent.Dimension)
	}
	loc, err := NewLocator(parent)
	if err != nil {
		return -1, errors.Wrap(err, "parent")
	}
	idx, _, err := loc.Nearest(toFloat64(child.Points[0].Position))
	if err != nil {
		return -1, err
	}
	child.ParentID = parent.ID
	child.ParentPoint = idx
	return idx, nil
}
