// Package metaio reads and writes tubes in the MetaIO object file format.
//
// Only the header fields a tube needs are understood; the point block itself
// is handled by package transcode.
package metaio

import (
	"bufio"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"metatube/internal/models"
	"metatube/pkg/codec"
	"metatube/pkg/logging"
	"metatube/pkg/transcode"
)

// Progress is notified while the point block of a tube is read.
type Progress = transcode.Progress

type options struct {
	log      logrus.FieldLogger
	progress Progress
	strict   bool
}

// Option configures Read and Write.
type Option func(*options)

// WithLogger sets the logger used for diagnostics.
func WithLogger(l logrus.FieldLogger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// WithProgress sets the read progress collaborator.
func WithProgress(p Progress) Option {
	return func(o *options) {
		o.progress = p
	}
}

// WithStrictFields sets how Write treats points missing an extra field; see
// transcode.WithStrictFields.
func WithStrictFields(strict bool) Option {
	return func(o *options) {
		o.strict = strict
	}
}

func buildOptions(opts []Option) *options {
	o := &options{log: logging.Discard(), strict: true}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *options) transcoder() *transcode.Transcoder {
	return transcode.New(
		transcode.WithLogger(o.log),
		transcode.WithProgress(o.progress),
		transcode.WithStrictFields(o.strict),
	)
}

// Read reads one tube from r.
//
// The NDims header field takes precedence over dim; dim is used when the
// header does not declare a dimensionality. PointDim and NPoints are
// required.
func Read(r io.Reader, dim int, opts ...Option) (*models.Tube, error) {
	o := buildOptions(opts)

	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}

	h, err := readHeader(br)
	if err != nil {
		return nil, err
	}

	if ot, ok := h[FieldObjectType]; ok && ot != objectTypeTube {
		return nil, errors.Wrapf(ErrNotTube, "object type %q", ot)
	}

	ndims, ok, err := h.integer(FieldNDims)
	if err != nil {
		return nil, err
	}
	switch {
	case ok && dim > 0 && ndims != dim:
		o.log.WithFields(logrus.Fields{
			"requested": dim,
			"header":    ndims,
		}).Warn("header dimensionality overrides requested dimensionality")
		dim = ndims
	case ok:
		dim = ndims
	case dim <= 0:
		return nil, &MissingFieldError{Field: FieldNDims}
	}
	if dim < models.MinDimension {
		return nil, errors.Wrapf(ErrMalformedHeader, "%s = %d", FieldNDims, dim)
	}

	tube := models.NewTube(dim)
	if err := applyHeader(tube, h, o.log); err != nil {
		return nil, err
	}

	if !h.has(FieldPointDim) {
		return nil, &MissingFieldError{Field: FieldPointDim}
	}
	npoints, ok, err := h.integer(FieldNPoints)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &MissingFieldError{Field: FieldNPoints}
	}
	tube.PointDim = h[FieldPointDim]
	tube.NPoints = npoints

	order := codec.OrderFor(h.flag(FieldByteOrder, "Tt1", false) || h.flag(FieldElemOrder, "Tt1", false))
	points, err := o.transcoder().ReadPoints(br, transcode.Header{
		Encoding: transcode.Encoding{
			Binary:      tube.BinaryData,
			ElementType: tube.ElementType,
			Order:       order,
		},
		Dimension: dim,
		NPoints:   npoints,
		PointDim:  tube.PointDim,
	})
	if err != nil {
		return nil, errors.Wrap(err, "reading tube points")
	}
	tube.Points = points

	o.log.WithFields(logrus.Fields{
		"dimension": dim,
		"points":    len(points),
		"binary":    tube.BinaryData,
	}).Debug("read tube")
	return tube, nil
}

// applyHeader copies the optional header fields onto tube.
func applyHeader(tube *models.Tube, h header, log logrus.FieldLogger) error {
	for _, f := range []struct {
		key string
		dst *int
	}{
		{FieldID, &tube.ID},
		{FieldParentID, &tube.ParentID},
		{FieldParentPoint, &tube.ParentPoint},
	} {
		v, ok, err := h.integer(f.key)
		if err != nil {
			return err
		}
		if ok {
			*f.dst = v
		}
	}

	tube.Name = h[FieldName]
	tube.BinaryData = h.flag(FieldBinaryData, "Tt1", false)
	tube.Root = h.flag(FieldRoot, "Tt1", false)
	tube.Artery = h.flag(FieldArtery, "Tt", true)

	if v, ok := h[FieldElementType]; ok {
		et, err := codec.ParseElementType(v)
		if err != nil {
			return errors.Wrapf(ErrMalformedHeader, "%s = %q", FieldElementType, v)
		}
		tube.ElementType = et
	}

	for key := range h {
		if !knownFields[key] {
			log.WithField("field", key).Debug("ignoring header field")
		}
	}
	return nil
}

var knownFields = map[string]bool{
	FieldObjectType: true, FieldNDims: true, FieldID: true, FieldParentID: true,
	FieldName: true, FieldBinaryData: true, FieldByteOrder: true, FieldElemOrder: true,
	FieldElementType: true, FieldParentPoint: true, FieldRoot: true, FieldArtery: true,
	FieldPointDim: true, FieldNPoints: true, FieldComment: true,
}

// Write writes tube to w, header first, then its point block. NPoints and
// PointDim are recomputed from the point list. Nothing is written if the
// point list cannot be encoded.
func Write(w io.Writer, tube *models.Tube, opts ...Option) error {
	o := buildOptions(opts)
	tc := o.transcoder()

	enc := transcode.Encoding{
		Binary:      tube.BinaryData,
		ElementType: tube.ElementType,
		Order:       codec.CanonicalOrder,
	}
	if err := tc.Check(tube, enc); err != nil {
		return errors.Wrap(err, "writing tube")
	}

	tube.PointDim = tc.SchemaFor(tube).String()
	tube.NPoints = len(tube.Points)

	bw := bufio.NewWriter(w)
	hw := &headerWriter{w: bw}
	hw.field(FieldObjectType, objectTypeTube)
	hw.field(FieldNDims, tube.Dimension)
	if tube.ID >= 0 {
		hw.field(FieldID, tube.ID)
	}
	if tube.ParentID >= 0 {
		hw.field(FieldParentID, tube.ParentID)
	}
	if tube.Name != "" {
		hw.field(FieldName, tube.Name)
	}
	hw.flag(FieldBinaryData, tube.BinaryData)
	hw.flag(FieldByteOrder, false)
	elemType := tube.ElementType
	if !elemType.Valid() {
		// only reachable in ASCII mode, where the type names no stored width
		elemType = codec.Float
	}
	hw.field(FieldElementType, elemType)
	if tube.ParentPoint >= 0 && tube.ParentID >= 0 {
		hw.field(FieldParentPoint, tube.ParentPoint)
	}
	hw.flag(FieldRoot, tube.Root)
	hw.flag(FieldArtery, tube.Artery)
	hw.field(FieldPointDim, tube.PointDim)
	hw.field(FieldNPoints, tube.NPoints)
	hw.terminate()
	if hw.err != nil {
		return errors.Wrap(hw.err, "writing tube header")
	}

	if err := tc.WritePoints(bw, tube, enc); err != nil {
		return errors.Wrap(err, "writing tube points")
	}
	return errors.Wrap(bw.Flush(), "writing tube")
}

// ReadFile reads a tube from the named file.
func ReadFile(path string, dim int, opts ...Option) (*models.Tube, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening tube file")
	}
	defer f.Close()

	tube, err := Read(f, dim, opts...)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	return tube, nil
}

// WriteFile writes tube to the named file, replacing it.
func WriteFile(path string, tube *models.Tube, opts ...Option) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "creating tube file")
	}
	if err := Write(f, tube, opts...); err != nil {
		f.Close()
		return errors.Wrapf(err, "writing %s", path)
	}
	return errors.Wrapf(f.Close(), "closing %s", path)
}
