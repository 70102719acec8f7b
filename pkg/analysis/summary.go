// Package analysis derives geometric measures from tube centerlines.
package analysis

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"metatube/internal/models"
)

// Summary holds descriptive statistics of one tube.
type Summary struct {
	// Points is the number of centerline points
	Points int

	// Dimension is the tube dimensionality
	Dimension int

	// Length is the polyline length through the point positions
	Length float64

	// Radius statistics over all points. StdRadius is 0 for fewer than two
	// points.
	MeanRadius float64
	StdRadius  float64
	MinRadius  float64
	MaxRadius  float64

	// Min and Max are the corners of the axis-aligned bounding box
	Min []float64
	Max []float64

	// ExtraFields lists the extra field names of the first point
	ExtraFields []string
}

// Summarize computes the summary of t. An empty tube yields zero values.
func Summarize(t *models.Tube) Summary {
	s := Summary{
		Points:    len(t.Points),
		Dimension: t.Dimension,
	}
	if len(t.Points) == 0 {
		return s
	}
	s.ExtraFields = t.Points[0].Fields.Names()

	positions := Positions(t)
	radii := make([]float64, len(t.Points))
	for i, p := range t.Points {
		radii[i] = float64(p.Radius)
	}

	for i := 1; i < len(positions); i++ {
		s.Length += floats.Distance(positions[i-1], positions[i], 2)
	}

	if len(radii) > 1 {
		s.MeanRadius, s.StdRadius = stat.MeanStdDev(radii, nil)
	} else {
		s.MeanRadius = radii[0]
	}
	s.MinRadius = floats.Min(radii)
	s.MaxRadius = floats.Max(radii)

	s.Min = make([]float64, t.Dimension)
	s.Max = make([]float64, t.Dimension)
	axis := make([]float64, len(positions))
	for d := 0; d < t.Dimension; d++ {
		for i, pos := range positions {
			axis[i] = pos[d]
		}
		s.Min[d] = floats.Min(axis)
		s.Max[d] = floats.Max(axis)
	}
	return s
}

// Positions returns the point positions of t as float64 vectors.
func Positions(t *models.Tube) [][]float64 {
	out := make([][]float64, len(t.Points))
	for i, p := range t.Points {
		out[i] = toFloat64(p.Position)
	}
	return out
}

func toFloat64(v []float32) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = float64(x)
	}
	return out
}
