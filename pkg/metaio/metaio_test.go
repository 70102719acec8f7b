package metaio

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"metatube/internal/models"
	"metatube/pkg/codec"
	"metatube/pkg/schema"
	"metatube/pkg/transcode"
)

func sampleTube(t *testing.T, dim int) *models.Tube {
	t.Helper()
	tube := models.NewTube(dim)
	tube.ID = 4
	tube.Name = "vessel"
	for i := 0; i < 3; i++ {
		p := models.NewPoint(dim)
		p.ID = float32(i)
		for k := 0; k < dim && k < 3; k++ {
			p.Position[k] = float32(i*10 + k)
		}
		p.Radius = 0.5 + float32(i)
		p.Marked = i == 1
		p.AddField("customA", float32(i)-1)
		require.NoError(t, tube.AddPoint(p))
	}
	return tube
}

var tubeOpts = []cmp.Option{
	cmp.AllowUnexported(models.FieldList{}),
	cmpopts.EquateEmpty(),
}

func TestWriteHeader(t *testing.T) {
	tube := sampleTube(t, 3)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, tube))

	want := strings.Join([]string{
		"ObjectType = Tube",
		"NDims = 3",
		"ID = 4",
		"Name = vessel",
		"BinaryData = False",
		"BinaryDataByteOrderMSB = False",
		"ElementType = MET_FLOAT",
		"Root = False",
		"Artery = True",
		"PointDim = " + schema.Build(3, []string{"customA"}).String(),
		"NPoints = 3",
		"Points =",
	}, "\n") + "\n"

	assert.True(t, strings.HasPrefix(buf.String(), want), "header:\n%s", buf.String())
	assert.Equal(t, 3, tube.NPoints)
	assert.Equal(t, schema.Build(3, []string{"customA"}).String(), tube.PointDim)
}

func TestWriteHeaderParentFields(t *testing.T) {
	tube := models.NewTube(2)
	tube.ParentPoint = 7

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, tube))
	assert.NotContains(t, buf.String(), FieldParentPoint, "parent point needs a parent")
	assert.NotContains(t, buf.String(), "ID =")

	tube.ParentID = 2
	tube.Root = true
	tube.Artery = false
	buf.Reset()
	require.NoError(t, Write(&buf, tube))
	assert.Contains(t, buf.String(), "ParentID = 2\n")
	assert.Contains(t, buf.String(), "ParentPoint = 7\n")
	assert.Contains(t, buf.String(), "Root = True\n")
	assert.Contains(t, buf.String(), "Artery = False\n")
	assert.True(t, strings.HasSuffix(buf.String(), "NPoints = 0\nPoints =\n"))
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		dim    int
		binary bool
		et     codec.ElementType
	}{
		{"ascii-2d", 2, false, codec.Float},
		{"ascii-3d", 3, false, codec.Float},
		{"binary-3d", 3, true, codec.Float},
		{"binary-4d-double", 4, true, codec.Double},
		{"binary-2d-short", 2, true, codec.Short},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tube := sampleTube(t, tt.dim)
			tube.BinaryData = tt.binary
			tube.ElementType = tt.et
			tube.ParentID = 1
			tube.ParentPoint = 2
			tube.Root = true

			var buf bytes.Buffer
			require.NoError(t, Write(&buf, tube))

			got, err := Read(&buf, tt.dim)
			require.NoError(t, err)
			if tt.et == codec.Short {
				// radius 0.5 truncates to 0
				for _, p := range tube.Points {
					p.Radius = float32(math.Trunc(float64(p.Radius)))
				}
			}
			if diff := cmp.Diff(tube, got, tubeOpts...); diff != "" {
				t.Errorf("tube mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tube.tre")
	tube := sampleTube(t, 3)
	tube.BinaryData = true

	require.NoError(t, WriteFile(path, tube))

	got, err := ReadFile(path, 3)
	require.NoError(t, err)
	if diff := cmp.Diff(tube, got, tubeOpts...); diff != "" {
		t.Errorf("tube mismatch (-want +got):\n%s", diff)
	}

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.tre"), 3)
	assert.Error(t, err)
}

// TestBinaryBlockTerminator verifies the binary point block is followed by a
// newline and the reader consumes it
func TestBinaryBlockTerminator(t *testing.T) {
	tube := sampleTube(t, 2)
	tube.BinaryData = true

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, tube))
	buf.WriteString("Trailer = 1\n")

	br := bufio.NewReader(&buf)
	_, err := Read(br, 2)
	require.NoError(t, err)

	rest, _ := br.ReadString('\n')
	assert.Equal(t, "Trailer = 1\n", rest)
}

// TestReadBigEndian decodes a block written in the non-canonical byte order
func TestReadBigEndian(t *testing.T) {
	for _, key := range []string{FieldByteOrder, FieldElemOrder} {
		var block bytes.Buffer
		for _, v := range []float32{1.5, -2, 0.25} {
			require.NoError(t, binary.Write(&block, binary.BigEndian, v))
		}
		in := "ObjectType = Tube\nNDims = 2\nBinaryData = True\n" + key + " = True\n" +
			"ElementType = MET_FLOAT\nPointDim = x y r\nNPoints = 1\nPoints =\n" + block.String() + "\n"

		tube, err := Read(strings.NewReader(in), 0)
		require.NoError(t, err)
		require.Len(t, tube.Points, 1)
		assert.Equal(t, []float32{1.5, -2}, tube.Points[0].Position)
		assert.Equal(t, float32(0.25), tube.Points[0].Radius)
	}
}

func TestReadHeaderFields(t *testing.T) {
	in := strings.Join([]string{
		"Comment = written by hand",
		"ObjectType = Tube",
		"NDims = 3",
		"ID = 12",
		"ParentID: 3",
		"ParentPoint = 5",
		"Name = left carotid",
		"Root = 1",
		"Artery = False",
		"ID = 99",
		"Color = 1 0 0 1",
		"PointDim = id x y z r",
		"NPoints = 2",
		"Points =",
		"0 1 2 3 4",
		"1 5 6 7 8",
		"",
	}, "\n")

	log, hook := test.NewNullLogger()
	log.SetLevel(logrus.DebugLevel)

	tube, err := Read(strings.NewReader(in), 3, WithLogger(log))
	require.NoError(t, err)

	assert.Equal(t, 12, tube.ID, "first occurrence of a field wins")
	assert.Equal(t, 3, tube.ParentID)
	assert.Equal(t, 5, tube.ParentPoint)
	assert.Equal(t, "left carotid", tube.Name)
	assert.True(t, tube.Root)
	assert.False(t, tube.Artery)
	assert.False(t, tube.BinaryData)
	assert.Equal(t, codec.Float, tube.ElementType)
	assert.Equal(t, 2, tube.NPoints)
	assert.Equal(t, "id x y z r", tube.PointDim)
	require.Len(t, tube.Points, 2)
	assert.Equal(t, []float32{5, 6, 7}, tube.Points[1].Position)
	assert.Equal(t, float32(8), tube.Points[1].Radius)

	var ignored []string
	for _, e := range hook.AllEntries() {
		if e.Message == "ignoring header field" {
			ignored = append(ignored, e.Data["field"].(string))
		}
	}
	assert.Equal(t, []string{"Color"}, ignored)
}

func TestReadDefaults(t *testing.T) {
	tube, err := Read(strings.NewReader("PointDim = x y\nNPoints = 0\nPoints =\n"), 2)
	require.NoError(t, err)

	assert.Equal(t, 2, tube.Dimension)
	assert.Equal(t, -1, tube.ID)
	assert.Equal(t, -1, tube.ParentID)
	assert.True(t, tube.Artery)
	assert.False(t, tube.Root)
	assert.Empty(t, tube.Points)
}

func TestReadDimension(t *testing.T) {
	in := "NDims = 3\nPointDim = x y z\nNPoints = 1\nPoints =\n1 2 3\n"

	log, hook := test.NewNullLogger()
	tube, err := Read(strings.NewReader(in), 2, WithLogger(log))
	require.NoError(t, err)
	assert.Equal(t, 3, tube.Dimension, "header NDims wins")
	assert.Equal(t, []float32{1, 2, 3}, tube.Points[0].Position)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)

	tube, err = Read(strings.NewReader(in), 0)
	require.NoError(t, err)
	assert.Equal(t, 3, tube.Dimension)

	_, err = Read(strings.NewReader("NDims = 1\nPointDim = x\nNPoints = 0\nPoints =\n"), 0)
	assert.True(t, errors.Is(err, ErrMalformedHeader))
}

func TestReadMissingFields(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		dim   int
		field string
	}{
		{"ndims", "PointDim = x y\nNPoints = 0\nPoints =\n", 0, FieldNDims},
		{"pointdim", "NDims = 2\nNPoints = 0\nPoints =\n", 0, FieldPointDim},
		{"npoints", "NDims = 2\nPointDim = x y\nPoints =\n", 0, FieldNPoints},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.in), tt.dim)
			var mf *MissingFieldError
			require.True(t, errors.As(err, &mf), "got %v", err)
			assert.Equal(t, tt.field, mf.Field)
		})
	}
}

func TestReadErrors(t *testing.T) {
	_, err := Read(strings.NewReader("ObjectType = Ellipse\nPoints =\n"), 3)
	assert.True(t, errors.Is(err, ErrNotTube))

	_, err = Read(strings.NewReader("NDims = 3\nPointDim = x y z\n"), 3)
	assert.True(t, errors.Is(err, ErrUnterminatedHeader))

	_, err = Read(strings.NewReader("NDims = three\nPoints =\n"), 3)
	assert.True(t, errors.Is(err, ErrMalformedHeader))

	_, err = Read(strings.NewReader("NDims = 2\nElementType = MET_BOGUS\nPointDim = x y\nNPoints = 0\nPoints =\n"), 2)
	assert.True(t, errors.Is(err, ErrMalformedHeader))

	_, err = Read(strings.NewReader("NDims = 2\nPointDim = x y\nNPoints = 2\nPoints =\n1 2\n"), 2)
	assert.True(t, errors.Is(err, codec.ErrUnexpectedEndOfInput))

	_, err = Read(strings.NewReader("NDims = 2\nBinaryData = True\nPointDim = x y\nNPoints = 2\nPoints =\nabc"), 2)
	var short *codec.ShortReadError
	assert.True(t, errors.As(err, &short))
}

// TestWriteFailsBeforeHeader verifies that nothing is emitted when the points
// cannot be encoded
func TestWriteFailsBeforeHeader(t *testing.T) {
	tube := sampleTube(t, 3)
	tube.Points[1].Fields.Clear()

	var buf bytes.Buffer
	err := Write(&buf, tube)
	var nf *transcode.FieldNotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Zero(t, buf.Len())

	require.NoError(t, Write(&buf, tube, WithStrictFields(false)))
	got, err := Read(&buf, 3)
	require.NoError(t, err)
	v, ok := got.Points[1].Field("customA")
	require.True(t, ok)
	assert.Zero(t, v)
}

// TestWriteRejectsUnstorableFieldNames verifies that a field name the
// PointDim string cannot carry never reaches the output
func TestWriteRejectsUnstorableFieldNames(t *testing.T) {
	for _, name := range []string{"", "my field"} {
		for _, binaryData := range []bool{false, true} {
			tube := sampleTube(t, 3)
			tube.BinaryData = binaryData
			for i, p := range tube.Points {
				p.AddField(name, float32(7+i))
			}

			var buf bytes.Buffer
			err := Write(&buf, tube)
			assert.True(t, errors.Is(err, transcode.ErrInvalidFieldName), "field %q binary %v", name, binaryData)
			assert.Zero(t, buf.Len())
		}
	}
}

func TestWriteUnknownElementTypeASCII(t *testing.T) {
	tube := sampleTube(t, 3)
	tube.ElementType = codec.Unknown

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, tube))
	assert.Contains(t, buf.String(), "ElementType = MET_FLOAT\n")

	got, err := Read(&buf, 3)
	require.NoError(t, err)
	assert.Equal(t, codec.Float, got.ElementType)
	assert.Len(t, got.Points, 3)

	tube.BinaryData = true
	buf.Reset()
	assert.True(t, errors.Is(Write(&buf, tube), codec.ErrUnknownElementType))
	assert.Zero(t, buf.Len())
}

func TestWriteFileReplaces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tube.tre")
	require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("x", 4096)), 0644))

	tube := models.NewTube(2)
	require.NoError(t, WriteFile(path, tube))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "ObjectType = Tube\n"))
	assert.NotContains(t, string(data), "xxxx")
}

func TestReadProgress(t *testing.T) {
	tube := sampleTube(t, 2)
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, tube))

	rec := &countingProgress{}
	_, err := Read(&buf, 2, WithProgress(rec))
	require.NoError(t, err)
	assert.Equal(t, 3, rec.total)
	assert.Equal(t, 3, rec.last)
	assert.True(t, rec.stopped)
}

type countingProgress struct {
	total   int
	last    int
	stopped bool
}

func (p *countingProgress) StartReading(total int)    { p.total = total }
func (p *countingProgress) SetCurrentIteration(i int) { p.last = i }
func (p *countingProgress) StopReading()              { p.stopped = true }
