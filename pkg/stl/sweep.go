package stl

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"

	"metatube/internal/models"
	"metatube/pkg/analysis"
)

// ErrUnsupportedDimension is returned when a tube is not three dimensional.
var ErrUnsupportedDimension = errors.New("only 3-D tubes can be meshed")

// MinSegments is the smallest number of segments around a ring.
const MinSegments = 3

// TubeMesh sweeps a circle of the point radius along the centerline of t and
// returns the open side surface. Each ring has segments vertices. Stored
// point frames are used when every point has both normals; otherwise frames
// are computed on a copy of the tube.
func TubeMesh(t *models.Tube, segments int) ([]Triangle, error) {
	if t.Dimension != 3 {
		return nil, errors.Wrapf(ErrUnsupportedDimension, "tube has %d dimensions", t.Dimension)
	}
	if segments < MinSegments {
		return nil, errors.Errorf("need at least %d segments, got %d", MinSegments, segments)
	}
	if len(t.Points) < 2 {
		return nil, nil
	}
	if !hasFrames(t) {
		t = t.Clone()
		analysis.ComputeFrames(t)
	}

	rings := make([][][3]float64, len(t.Points))
	for i, p := range t.Points {
		rings[i] = ring(p, segments)
	}

	triangles := make([]Triangle, 0, 2*segments*(len(rings)-1))
	for i := 0; i+1 < len(rings); i++ {
		for k := 0; k < segments; k++ {
			next := (k + 1) % segments
			a, b := rings[i][k], rings[i+1][k]
			c, d := rings[i+1][next], rings[i][next]
			triangles = append(triangles, facet(a, c, b), facet(a, d, c))
		}
	}
	return triangles, nil
}

func hasFrames(t *models.Tube) bool {
	for _, p := range t.Points {
		if isZero(p.Normal1) || isZero(p.Normal2) {
			return false
		}
	}
	return true
}

func isZero(v []float32) bool {
	for _, x := range v {
		if x != 0 {
			return false
		}
	}
	return true
}

// ring returns the circle of radius p.Radius around p in the plane of its
// two normals, starting at Normal1 and turning towards Normal2.
func ring(p *models.Point, segments int) [][3]float64 {
	out := make([][3]float64, segments)
	r := float64(p.Radius)
	for k := range out {
		theta := 2 * math.Pi * float64(k) / float64(segments)
		cos, sin := math.Cos(theta), math.Sin(theta)
		for d := 0; d < 3; d++ {
			out[k][d] = float64(p.Position[d]) +
				r*(cos*float64(p.Normal1[d])+sin*float64(p.Normal2[d]))
		}
	}
	return out
}

// facet builds a triangle whose normal follows the right-hand rule over
// a, b, c.
func facet(a, b, c [3]float64) Triangle {
	e1 := []float64{b[0] - a[0], b[1] - a[1], b[2] - a[2]}
	e2 := []float64{c[0] - a[0], c[1] - a[1], c[2] - a[2]}
	n := []float64{
		e1[1]*e2[2] - e1[2]*e2[1],
		e1[2]*e2[0] - e1[0]*e2[2],
		e1[0]*e2[1] - e1[1]*e2[0],
	}
	if norm := floats.Norm(n, 2); norm > 0 {
		floats.Scale(1/norm, n)
	}
	return Triangle{
		Normal:  [3]float32{float32(n[0]), float32(n[1]), float32(n[2])},
		Vertex1: vec32(a),
		Vertex2: vec32(b),
		Vertex3: vec32(c),
	}
}

func vec32(v [3]float64) [3]float32 {
	return [3]float32{float32(v[0]), float32(v[1]), float32(v[2])}
}
