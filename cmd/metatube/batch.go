package main

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"metatube/internal/models"
	"metatube/pkg/analysis"
	"metatube/pkg/config"
	"metatube/pkg/metaio"
	"metatube/pkg/stl"
	"metatube/pkg/visualization"
)

// Job processes a batch of tube files with a bounded number of workers.
type Job struct {
	Config *config.Config
	Log    logrus.FieldLogger

	// Convert rewrites every input with the encoding selected by
	// Config.Codec.Binary and Config.Codec.ElementType
	Convert bool

	// Parent names a tube file that every input is attached to before
	// it is written
	Parent string

	// ComputeFrames recomputes tangents and normals before writing
	ComputeFrames bool

	// Mesh writes the swept tube surface as an STL file next to the output
	Mesh bool

	// Preview writes a JPEG projection of the tube next to the output
	Preview bool
}

// Result describes one processed file.
type Result struct {
	Input   string
	Output  string
	Mesh    string
	Preview string

	// ParentPoint is the index of the parent point, or -1 without a parent
	ParentPoint int

	Summary analysis.Summary
}

// Run processes inputs concurrently. Results keep the order of inputs; the
// first error cancels the files not yet started.
func (j *Job) Run(ctx context.Context, inputs []string) ([]Result, error) {
	parent, err := j.loadParent()
	if err != nil {
		return nil, err
	}

	results := make([]Result, len(inputs))
	done := make([]bool, len(inputs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(j.Config.Batch.NumCores)
	for i, input := range inputs {
		i, input := i, input
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r, err := j.processFile(input, parent)
			if err != nil {
				return err
			}
			results[i] = r
			done[i] = true
			return nil
		})
	}
	err = g.Wait()

	out := make([]Result, 0, len(inputs))
	for i, r := range results {
		if done[i] {
			out = append(out, r)
		}
	}
	return out, err
}

// loadParent reads the parent tube, if any. Its ID is what children refer
// to, so a parent without one is rejected.
func (j *Job) loadParent() (*models.Tube, error) {
	if j.Parent == "" {
		return nil, nil
	}
	parent, err := metaio.ReadFile(j.Parent, j.Config.Codec.Dimension, metaio.WithLogger(j.Log))
	if err != nil {
		return nil, errors.Wrap(err, "reading parent tube")
	}
	if parent.ID < 0 {
		return nil, errors.Errorf("parent tube %s has no ID", j.Parent)
	}
	return parent, nil
}

func (j *Job) processFile(input string, parent *models.Tube) (Result, error) {
	log := j.Log.WithField("file", input)
	opts := []metaio.Option{
		metaio.WithLogger(log),
		metaio.WithProgress(&logProgress{log: log}),
		metaio.WithStrictFields(j.Config.Codec.StrictFields),
	}

	tube, err := metaio.ReadFile(input, j.Config.Codec.Dimension, opts...)
	if err != nil {
		return Result{}, err
	}
	if j.ComputeFrames {
		analysis.ComputeFrames(tube)
	}

	r := Result{Input: input, ParentPoint: -1}
	if parent != nil {
		r.ParentPoint, err = analysis.AttachToParent(tube, parent)
		if err != nil {
			return Result{}, errors.Wrapf(err, "attaching %s to %s", input, j.Parent)
		}
		log.WithFields(logrus.Fields{
			"parent": parent.ID,
			"point":  r.ParentPoint,
		}).Info("Attached tube to parent")
	}
	if j.Convert {
		tube.BinaryData = j.Config.Codec.Binary
		tube.ElementType = j.Config.Codec.ElementType
		r.Output = outputPath(input, j.Config.Batch.OutputDir, j.Config.Batch.Suffix)
		if err := metaio.WriteFile(r.Output, tube, opts...); err != nil {
			return Result{}, errors.Wrapf(err, "converting %s", input)
		}
		log.WithField("output", r.Output).Info("Converted tube")
	}
	if j.Mesh {
		r.Mesh, err = j.writeMesh(input, tube)
		if err != nil {
			return Result{}, err
		}
		log.WithField("mesh", r.Mesh).Info("Wrote tube surface")
	}
	if j.Preview {
		r.Preview = j.siblingPath(input, ".jpg")
		viewer := visualization.NewViewer(tube)
		if err := viewer.SaveProjection(j.Config.Preview.Axis, j.Config.Preview.Size, r.Preview); err != nil {
			return Result{}, errors.Wrapf(err, "rendering %s", input)
		}
		log.WithField("preview", r.Preview).Info("Wrote tube preview")
	}
	r.Summary = analysis.Summarize(tube)
	return r, nil
}

func (j *Job) writeMesh(input string, tube *models.Tube) (string, error) {
	triangles, err := stl.TubeMesh(tube, j.Config.Mesh.Segments)
	if err != nil {
		return "", errors.Wrapf(err, "meshing %s", input)
	}
	path := j.siblingPath(input, ".stl")
	if err := stl.SaveToSTL(path, triangles); err != nil {
		return "", errors.Wrapf(err, "meshing %s", input)
	}
	return path, nil
}

// siblingPath returns the converted file name of input with extension ext.
func (j *Job) siblingPath(input, ext string) string {
	path := outputPath(input, j.Config.Batch.OutputDir, j.Config.Batch.Suffix)
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}

// outputPath places the converted file in dir (or next to input when dir is
// empty) and inserts suffix before the extension.
func outputPath(input, dir, suffix string) string {
	base := filepath.Base(input)
	ext := filepath.Ext(base)
	name := strings.TrimSuffix(base, ext) + suffix + ext
	if dir == "" {
		dir = filepath.Dir(input)
	}
	return filepath.Join(dir, name)
}

// logProgress reports read progress at debug level, roughly every tenth of
// the point list.
type logProgress struct {
	log   logrus.FieldLogger
	total int
	step  int
}

func (p *logProgress) StartReading(total int) {
	p.total = total
	p.step = total / 10
	if p.step < 1 {
		p.step = 1
	}
	p.log.WithField("points", total).Debug("Reading points")
}

func (p *logProgress) SetCurrentIteration(i int) {
	if i%p.step == 0 {
		p.log.Debugf("Reading points: %.1f%% complete", 100*float64(i)/float64(p.total))
	}
}

func (p *logProgress) StopReading() {
	p.log.Debug("Finished reading points")
}
