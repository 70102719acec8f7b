package analysis

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"metatube/internal/models"
)

// ComputeTangents estimates unit tangents along the centerline.
//
// Interior points use central differences, the two end points one-sided
// differences. A point whose neighbours coincide gets a zero tangent. Tubes
// with fewer than two points are left unchanged.
func ComputeTangents(t *models.Tube) {
	n := len(t.Points)
	if n < 2 {
		return
	}
	positions := Positions(t)
	diff := make([]float64, t.Dimension)
	for i, p := range t.Points {
		prev, next := i-1, i+1
		if prev < 0 {
			prev = 0
		}
		if next >= n {
			next = n - 1
		}
		floats.SubTo(diff, positions[next], positions[prev])
		normalize(diff)
		for d := range diff {
			p.Tangent[d] = float32(diff[d])
		}
	}
}

// ComputeFrames computes tangents and then completes an orthonormal frame
// at every point. In 2-D Normal1 is the tangent rotated by 90 degrees; in
// 3-D Normal1 is perpendicular to the tangent and Normal2 is their cross
// product. Higher dimensions only get tangents.
func ComputeFrames(t *models.Tube) {
	ComputeTangents(t)
	for _, p := range t.Points {
		tan := toFloat64(p.Tangent)
		if floats.Norm(tan, 2) == 0 {
			continue
		}
		switch t.Dimension {
		case 2:
			p.Normal1[0] = -p.Tangent[1]
			p.Normal1[1] = p.Tangent[0]
		case 3:
			n1 := cross(tan, leastAlignedAxis(tan))
			normalize(n1)
			n2 := cross(tan, n1)
			normalize(n2)
			for d := 0; d < 3; d++ {
				p.Normal1[d] = float32(n1[d])
				p.Normal2[d] = float32(n2[d])
			}
		}
	}
}

func normalize(v []float64) {
	norm := floats.Norm(v, 2)
	if norm == 0 {
		return
	}
	floats.Scale(1/norm, v)
}

func cross(a, b []float64) []float64 {
	return []float64{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

// leastAlignedAxis returns the unit axis with the smallest component in v.
func leastAlignedAxis(v []float64) []float64 {
	axis := make([]float64, len(v))
	best := 0
	for i := range v {
		if math.Abs(v[i]) < math.Abs(v[best]) {
			best = i
		}
	}
	axis[best] = 1
	return axis
}
