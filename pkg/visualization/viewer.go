// Package visualization renders tube centerlines as grayscale projections.
package visualization

import (
	"image"
	"image/color"
	"image/jpeg"
	"math"
	"os"
	"strings"

	"github.com/pkg/errors"

	"metatube/internal/models"
)

// Viewer projects a tube onto the plane perpendicular to one axis
type Viewer struct {
	tube *models.Tube

	// margin in pixels kept free around the projected tube
	margin int
}

// NewViewer creates a viewer for t.
func NewViewer(t *models.Tube) *Viewer {
	return &Viewer{tube: t, margin: 2}
}

// planeAxes returns the two position components spanning the plane
// perpendicular to axis
func planeAxes(axis string, dim int) (int, int, error) {
	switch strings.ToLower(axis) {
	case "x":
		if dim < 3 {
			return 0, 0, errors.Errorf("cannot project a %d-D tube along x", dim)
		}
		return 2, 1, nil
	case "y":
		if dim < 3 {
			return 0, 0, errors.Errorf("cannot project a %d-D tube along y", dim)
		}
		return 0, 2, nil
	case "z":
		return 0, 1, nil
	}
	return 0, 0, errors.Errorf("invalid axis: %s (must be x, y, or z)", axis)
}

// Project draws every point as a disk of its radius, scaled so the longest
// side of the tube's bounding box spans size pixels. Consecutive points are
// joined by interpolated disks. Brighter pixels are closer to the point
// center. A 2-D tube can only be projected along z.
func (v *Viewer) Project(axis string, size int) (image.Image, error) {
	if size <= 0 {
		return nil, errors.Errorf("image size must be positive, got %d", size)
	}
	u, w, err := planeAxes(axis, v.tube.Dimension)
	if err != nil {
		return nil, err
	}

	img := image.NewGray16(image.Rect(0, 0, size+2*v.margin, size+2*v.margin))
	if len(v.tube.Points) == 0 {
		return img, nil
	}

	// Bounds include the radius so that disks stay inside the image
	minU, maxU := math.Inf(1), math.Inf(-1)
	minW, maxW := math.Inf(1), math.Inf(-1)
	for _, p := range v.tube.Points {
		r := float64(p.Radius)
		minU = math.Min(minU, float64(p.Position[u])-r)
		maxU = math.Max(maxU, float64(p.Position[u])+r)
		minW = math.Min(minW, float64(p.Position[w])-r)
		maxW = math.Max(maxW, float64(p.Position[w])+r)
	}
	extent := math.Max(maxU-minU, maxW-minW)
	scale := 1.0
	if extent > 0 {
		scale = float64(size-1) / extent
	}

	toPixel := func(p *models.Point) (float64, float64, float64) {
		return (float64(p.Position[u])-minU)*scale + float64(v.margin),
			(float64(p.Position[w])-minW)*scale + float64(v.margin),
			float64(p.Radius) * scale
	}

	for i, p := range v.tube.Points {
		x0, y0, r0 := toPixel(p)
		drawDisk(img, x0, y0, r0)
		if i == 0 {
			continue
		}
		x1, y1, r1 := toPixel(v.tube.Points[i-1])
		steps := int(math.Ceil(math.Hypot(x1-x0, y1-y0) * 2))
		for s := 1; s < steps; s++ {
			t := float64(s) / float64(steps)
			drawDisk(img, x0+(x1-x0)*t, y0+(y1-y0)*t, r0+(r1-r0)*t)
		}
	}
	return img, nil
}

// drawDisk keeps the brightest value per pixel. Disks smaller than a pixel
// still mark the pixel under their center.
func drawDisk(img *image.Gray16, cx, cy, r float64) {
	if r < 0.5 {
		r = 0.5
	}
	b := img.Bounds()
	for y := int(math.Floor(cy - r)); y <= int(math.Ceil(cy+r)); y++ {
		for x := int(math.Floor(cx - r)); x <= int(math.Ceil(cx+r)); x++ {
			if !(image.Point{X: x, Y: y}).In(b) {
				continue
			}
			d := math.Hypot(float64(x)-cx, float64(y)-cy)
			if d > r {
				continue
			}
			value := uint16(math.Max(0, math.Min(65535, (1-0.5*d/r)*65535)))
			if value > img.Gray16At(x, y).Y {
				img.SetGray16(x, y, color.Gray16{Y: value})
			}
		}
	}
}

// SaveProjection projects the tube and saves it as a JPEG image
func (v *Viewer) SaveProjection(axis string, size int, filename string) error {
	img, err := v.Project(axis, size)
	if err != nil {
		return err
	}

	file, err := os.Create(filename)
	if err != nil {
		return errors.Wrap(err, "creating projection image")
	}
	defer file.Close()

	return errors.Wrap(jpeg.Encode(file, img, &jpeg.Options{Quality: 90}), "encoding projection image")
}
