// Package transcode streams the point list of a tube through the binary or
// ASCII record codec, driven by a column schema.
package transcode

import (
	"bufio"
	"encoding/binary"
	"io"
	"strings"
	"unicode"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"metatube/internal/models"
	"metatube/pkg/codec"
	"metatube/pkg/logging"
	"metatube/pkg/schema"
)

// maxPreallocPoints bounds the point slots reserved from a declared count
// before the values are seen.
const maxPreallocPoints = 4096

// Progress is notified while a point block is read.
type Progress interface {
	// StartReading is called once with the declared number of points
	StartReading(total int)

	// SetCurrentIteration is called with the 1-based index of each point
	// read in ASCII mode
	SetCurrentIteration(i int)

	// StopReading is called once after the last point was read
	StopReading()
}

// Encoding selects how a point block is stored.
type Encoding struct {
	// Binary selects fixed width elements instead of ASCII tokens
	Binary bool

	// ElementType is the element representation in binary mode
	ElementType codec.ElementType

	// Order is the byte order in binary mode; nil means canonical order
	Order binary.ByteOrder
}

// Header carries the fields the container header provides for a read.
type Header struct {
	Encoding

	// Dimension of every point to be created
	Dimension int

	// NPoints is the declared number of points
	NPoints int

	// PointDim is the schema string
	PointDim string
}

// Option configures a Transcoder.
type Option func(*Transcoder)

// WithLogger sets the logger used for diagnostics.
func WithLogger(l logrus.FieldLogger) Option {
	return func(t *Transcoder) {
		if l != nil {
			t.log = l
		}
	}
}

// WithProgress sets the read progress collaborator.
func WithProgress(p Progress) Option {
	return func(t *Transcoder) {
		t.progress = p
	}
}

// WithStrictFields controls what happens when a point lacks an extra field
// named by the write schema. Strict mode, the default, fails the write.
// Otherwise a zero placeholder is written so later columns keep their
// position, and a warning is logged.
func WithStrictFields(strict bool) Option {
	return func(t *Transcoder) {
		t.strict = strict
	}
}

// Transcoder reads and writes tube point blocks. It keeps no state between
// calls; schema and layout are rebuilt for every operation.
type Transcoder struct {
	log      logrus.FieldLogger
	progress Progress
	strict   bool
}

// New creates a transcoder.
func New(opts ...Option) *Transcoder {
	t := &Transcoder{
		log:    logging.Discard(),
		strict: true,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// SchemaFor returns the write schema of tube: the default columns for its
// dimensionality followed by the extra field names of its first point.
func (t *Transcoder) SchemaFor(tube *models.Tube) *schema.Schema {
	var extra []string
	if len(tube.Points) > 0 {
		extra = tube.Points[0].Fields.Names()
	}
	return schema.Build(tube.Dimension, extra)
}

// Check reports whether tube can be written with enc: every point must share
// the tube dimensionality, the element type must be valid in binary mode and,
// every column name must survive the whitespace separated schema string and,
// in strict mode, every point must carry every extra field of the schema.
func (t *Transcoder) Check(tube *models.Tube, enc Encoding) error {
	return t.check(tube, t.SchemaFor(tube), enc)
}

func (t *Transcoder) check(tube *models.Tube, s *schema.Schema, enc Encoding) error {
	if tube.Dimension < models.MinDimension {
		return errors.Wrapf(ErrInvalidDimension, "tube dimension %d", tube.Dimension)
	}
	for i, p := range tube.Points {
		if p.Dimension != tube.Dimension {
			return errors.Wrapf(models.ErrDimensionMismatch, "point %d has %d dimensions, tube has %d",
				i, p.Dimension, tube.Dimension)
		}
	}
	if s.Len() == 0 && len(tube.Points) > 0 {
		return errors.Wrapf(ErrEmptySchema, "%d points to write", len(tube.Points))
	}
	for k := 0; k < s.Len(); k++ {
		if name := s.Column(k); name == "" || strings.IndexFunc(name, unicode.IsSpace) >= 0 {
			return errors.Wrapf(ErrInvalidFieldName, "column %d %q", k, name)
		}
	}
	if enc.Binary && !enc.ElementType.Valid() {
		return errors.Wrapf(codec.ErrUnknownElementType, "cannot write binary points as %s", enc.ElementType)
	}
	if t.strict {
		return checkFields(tube.Points, schema.Resolve(s, tube.Dimension))
	}
	return nil
}

// WritePoints writes the point block of tube to w using SchemaFor(tube).
// Nothing is written when Check fails.
func (t *Transcoder) WritePoints(w io.Writer, tube *models.Tube, enc Encoding) error {
	return t.WritePointsAs(w, tube, t.SchemaFor(tube), enc)
}

// WritePointsAs writes the point block of tube to w with the columns of s.
// Attributes absent from s are not written.
func (t *Transcoder) WritePointsAs(w io.Writer, tube *models.Tube, s *schema.Schema, enc Encoding) error {
	if err := t.check(tube, s, enc); err != nil {
		return err
	}

	layout := schema.Resolve(s, tube.Dimension)
	t.warnDroppedAxes(tube)

	t.log.WithFields(logrus.Fields{
		"points":  len(tube.Points),
		"columns": layout.Len(),
		"binary":  enc.Binary,
	}).Debug("writing tube points")

	if enc.Binary {
		return t.writeBinary(w, tube.Points, layout, enc)
	}
	return t.writeASCII(w, tube.Points, layout)
}

func (t *Transcoder) writeBinary(w io.Writer, points []*models.Point, layout *schema.Layout, enc Encoding) error {
	c, err := binaryCodec(enc)
	if err != nil {
		return err
	}

	cols := layout.Len()
	n, err := c.BlockSize(len(points), cols)
	if err != nil {
		return err
	}
	block := make([]byte, n+1)
	row := make([]float32, cols)
	rowSize := cols * c.Size()
	for i, p := range points {
		t.fillRow(row, p, i, layout)
		c.EncodeRow(block[i*rowSize:], row)
	}
	block[len(block)-1] = '\n'

	if _, err := w.Write(block); err != nil {
		return errors.Wrap(err, "writing binary point block")
	}
	return nil
}

func (t *Transcoder) writeASCII(w io.Writer, points []*models.Point, layout *schema.Layout) error {
	aw := codec.NewASCIIWriter(w)
	row := make([]float32, layout.Len())
	for i, p := range points {
		t.fillRow(row, p, i, layout)
		for _, v := range row {
			if err := aw.WriteValue(v); err != nil {
				return errors.Wrapf(err, "writing point %d", i)
			}
		}
		if err := aw.EndRow(); err != nil {
			return errors.Wrapf(err, "writing point %d", i)
		}
	}
	return errors.Wrap(aw.Flush(), "writing ASCII point block")
}

// fillRow gathers the values of p in schema order. Missing extra fields
// become zero; strict mode has already rejected them.
func (t *Transcoder) fillRow(row []float32, p *models.Point, index int, layout *schema.Layout) {
	for col := range row {
		if a, ok := layout.AttributeAt(col); ok {
			row[col] = attributeValue(p, a)
		}
	}
	for _, e := range layout.Extras() {
		v, ok := p.Fields.Nth(e.Name, e.Occurrence)
		if !ok {
			t.log.WithFields(logrus.Fields{
				"field": e.Name,
				"point": index,
			}).Warn("cannot find value for field, writing 0")
		}
		row[e.Index] = v
	}
}

// warnDroppedAxes logs once when vector components beyond the third axis
// carry data. The schema has no columns for them, so they are not written.
func (t *Transcoder) warnDroppedAxes(tube *models.Tube) {
	if tube.Dimension <= 3 {
		return
	}
	dropped := 0
	for _, p := range tube.Points {
		for _, v := range [][]float32{p.Position, p.Tangent, p.Normal1, p.Normal2} {
			if hasData(v[3:]) {
				dropped++
				break
			}
		}
	}
	if dropped > 0 {
		t.log.WithFields(logrus.Fields{
			"dimension": tube.Dimension,
			"points":    dropped,
		}).Warn("components beyond the third axis are not written")
	}
}

func hasData(v []float32) bool {
	for _, x := range v {
		if x != 0 {
			return true
		}
	}
	return false
}

func checkFields(points []*models.Point, layout *schema.Layout) error {
	extras := layout.Extras()
	for i, p := range points {
		for _, e := range extras {
			if _, ok := p.Fields.Nth(e.Name, e.Occurrence); !ok {
				return &FieldNotFoundError{Field: e.Name, Point: i}
			}
		}
	}
	return nil
}

// ReadPoints reads the point block described by h from r and returns fresh
// points.
//
// If r is a *bufio.Reader it is read from directly, so a caller that parsed
// the header through the same reader loses no buffered data.
func (t *Transcoder) ReadPoints(r io.Reader, h Header) ([]*models.Point, error) {
	if h.Dimension < models.MinDimension {
		return nil, errors.Wrapf(ErrInvalidDimension, "dimension %d", h.Dimension)
	}
	if h.NPoints < 0 {
		return nil, errors.Wrapf(ErrInvalidPointCount, "%d points", h.NPoints)
	}

	s := schema.Parse(h.PointDim)
	if s.Len() == 0 && h.NPoints > 0 {
		return nil, errors.Wrapf(ErrEmptySchema, "%d points declared", h.NPoints)
	}
	layout := schema.Resolve(s, h.Dimension)

	t.log.WithFields(logrus.Fields{
		"points":  h.NPoints,
		"columns": layout.Len(),
		"extras":  len(layout.Extras()),
		"binary":  h.Binary,
	}).Debug("reading tube points")

	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}

	if t.progress != nil {
		t.progress.StartReading(h.NPoints)
	}

	var (
		points []*models.Point
		err    error
	)
	if h.Binary {
		points, err = t.readBinary(br, h, layout)
	} else {
		points, err = t.readASCII(br, h, layout)
	}
	if err != nil {
		return nil, err
	}

	if t.progress != nil {
		t.progress.StopReading()
	}
	return points, nil
}

func (t *Transcoder) readBinary(br *bufio.Reader, h Header, layout *schema.Layout) ([]*models.Point, error) {
	c, err := binaryCodec(h.Encoding)
	if err != nil {
		return nil, err
	}

	cols := layout.Len()
	n, err := c.BlockSize(h.NPoints, cols)
	if err != nil {
		return nil, err
	}
	block, err := codec.ReadBlock(br, n)
	if err != nil {
		var short *codec.ShortReadError
		if errors.As(err, &short) {
			t.log.WithFields(logrus.Fields{
				"ideal":  short.Expected,
				"actual": short.Actual,
			}).Error("point data not read completely")
		}
		return nil, err
	}

	points := make([]*models.Point, 0, min(h.NPoints, maxPreallocPoints))
	row := make([]float32, cols)
	rowSize := cols * c.Size()
	for j := 0; j < h.NPoints; j++ {
		c.DecodeRow(block[j*rowSize:], row)
		points = append(points, newPoint(h.Dimension, row, layout))
	}

	if err := codec.SkipLine(br); err != nil {
		return nil, errors.Wrap(err, "skipping point block terminator")
	}
	return points, nil
}

func (t *Transcoder) readASCII(br *bufio.Reader, h Header, layout *schema.Layout) ([]*models.Point, error) {
	ar := codec.NewASCIIReader(br)
	points := make([]*models.Point, 0, min(h.NPoints, maxPreallocPoints))
	row := make([]float32, layout.Len())
	for j := 0; j < h.NPoints; j++ {
		if t.progress != nil {
			t.progress.SetCurrentIteration(j + 1)
		}
		for k := range row {
			v, err := ar.Next()
			if err != nil {
				return nil, errors.Wrapf(err, "reading point %d column %q", j, layout.Schema().Column(k))
			}
			row[k] = v
		}
		points = append(points, newPoint(h.Dimension, row, layout))
	}

	if h.NPoints > 0 {
		if err := ar.SkipLine(); err != nil {
			return nil, errors.Wrap(err, "skipping to end of point block")
		}
	}
	return points, nil
}

// newPoint builds a point from one decoded row.
func newPoint(dim int, row []float32, layout *schema.Layout) *models.Point {
	p := models.NewPoint(dim)
	for col, v := range row {
		if a, ok := layout.AttributeAt(col); ok {
			setAttribute(p, a, v)
		}
	}
	for _, e := range layout.Extras() {
		p.AppendField(e.Name, row[e.Index])
	}
	return p
}

func binaryCodec(enc Encoding) (*codec.BinaryCodec, error) {
	c, err := codec.NewBinaryCodec(enc.ElementType)
	if err != nil {
		return nil, err
	}
	if enc.Order != nil {
		c = c.WithOrder(enc.Order)
	}
	return c, nil
}
