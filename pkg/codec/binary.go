package codec

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"

	"github.com/pkg/errors"
)

// maxPrealloc bounds the memory reserved from a declared block size before
// any byte of the block has been seen.
const maxPrealloc = 1 << 20

// CanonicalOrder is the byte order of binary point blocks unless the header
// declares BinaryDataByteOrderMSB.
var CanonicalOrder binary.ByteOrder = binary.LittleEndian

// OrderFor returns the byte order selected by a BinaryDataByteOrderMSB flag.
func OrderFor(msb bool) binary.ByteOrder {
	if msb {
		return binary.BigEndian
	}
	return CanonicalOrder
}

// BinaryCodec encodes scalars as fixed width elements.
type BinaryCodec struct {
	Type  ElementType
	Order binary.ByteOrder
}

// NewBinaryCodec returns a codec for the element type in canonical order.
func NewBinaryCodec(t ElementType) (*BinaryCodec, error) {
	if !t.Valid() {
		return nil, errors.Wrapf(ErrUnknownElementType, "cannot encode as %s", t)
	}
	return &BinaryCodec{Type: t, Order: CanonicalOrder}, nil
}

// WithOrder returns a copy of the codec using the given byte order.
func (c *BinaryCodec) WithOrder(order binary.ByteOrder) *BinaryCodec {
	return &BinaryCodec{Type: c.Type, Order: order}
}

// Size returns the element width in bytes.
func (c *BinaryCodec) Size() int {
	return c.Type.Size()
}

// BlockSize returns the byte length of a block of points rows with columns
// elements each. A length that does not fit in an int yields
// ErrBlockTooLarge.
func (c *BinaryCodec) BlockSize(points, columns int) (int, error) {
	if points < 0 || columns < 0 {
		return 0, errors.Errorf("negative block shape %dx%d", points, columns)
	}
	rowSize := columns * c.Size()
	if rowSize != 0 && points > math.MaxInt/rowSize {
		return 0, errors.Wrapf(ErrBlockTooLarge, "%d rows of %d bytes", points, rowSize)
	}
	return points * rowSize, nil
}

// Encode writes v into dst as one element. Integer element types truncate
// toward zero and saturate at the bounds of the type; NaN encodes as zero.
func (c *BinaryCodec) Encode(dst []byte, v float32) {
	d := float64(v)
	switch c.Type {
	case Char:
		dst[0] = byte(int8(truncInt(d, math.MinInt8, math.MaxInt8)))
	case UChar:
		dst[0] = uint8(truncUint(d, math.MaxUint8))
	case Short:
		c.Order.PutUint16(dst, uint16(int16(truncInt(d, math.MinInt16, math.MaxInt16))))
	case UShort:
		c.Order.PutUint16(dst, uint16(truncUint(d, math.MaxUint16)))
	case Int, Long:
		c.Order.PutUint32(dst, uint32(int32(truncInt(d, math.MinInt32, math.MaxInt32))))
	case UInt, ULong:
		c.Order.PutUint32(dst, uint32(truncUint(d, math.MaxUint32)))
	case LongLong:
		c.Order.PutUint64(dst, uint64(truncInt(d, math.MinInt64, math.MaxInt64)))
	case ULongLong:
		c.Order.PutUint64(dst, truncUint(d, math.MaxUint64))
	case Float:
		c.Order.PutUint32(dst, math.Float32bits(v))
	case Double:
		c.Order.PutUint64(dst, math.Float64bits(d))
	}
}

// Decode reads one element from src.
func (c *BinaryCodec) Decode(src []byte) float32 {
	switch c.Type {
	case Char:
		return float32(int8(src[0]))
	case UChar:
		return float32(src[0])
	case Short:
		return float32(int16(c.Order.Uint16(src)))
	case UShort:
		return float32(c.Order.Uint16(src))
	case Int, Long:
		return float32(int32(c.Order.Uint32(src)))
	case UInt, ULong:
		return float32(c.Order.Uint32(src))
	case LongLong:
		return float32(int64(c.Order.Uint64(src)))
	case ULongLong:
		return float32(c.Order.Uint64(src))
	case Float:
		return math.Float32frombits(c.Order.Uint32(src))
	case Double:
		return float32(math.Float64frombits(c.Order.Uint64(src)))
	default:
		return 0
	}
}

// EncodeRow encodes row into dst, which must hold len(row) elements.
func (c *BinaryCodec) EncodeRow(dst []byte, row []float32) {
	size := c.Size()
	for i, v := range row {
		c.Encode(dst[i*size:], v)
	}
}

// DecodeRow decodes len(row) elements from src into row.
func (c *BinaryCodec) DecodeRow(src []byte, row []float32) {
	size := c.Size()
	for i := range row {
		row[i] = c.Decode(src[i*size:])
	}
}

// ReadBlock reads exactly n bytes. A stream that ends early yields a
// *ShortReadError and no data.
func ReadBlock(r io.Reader, n int) ([]byte, error) {
	var buf bytes.Buffer
	if n <= maxPrealloc {
		buf.Grow(n)
	}
	got, err := io.CopyN(&buf, r, int64(n))
	if err != nil {
		if err == io.EOF {
			return nil, &ShortReadError{Expected: n, Actual: int(got)}
		}
		return nil, errors.Wrap(err, "reading binary point block")
	}
	return buf.Bytes(), nil
}

// SkipLine consumes bytes up to and including the next newline. Reaching
// the end of the stream is not an error.
func SkipLine(r io.ByteReader) error {
	for {
		c, err := r.ReadByte()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if c == '\n' {
			return nil
		}
	}
}

func truncInt(d float64, lo, hi int64) int64 {
	if math.IsNaN(d) {
		return 0
	}
	t := math.Trunc(d)
	if t <= float64(lo) {
		return lo
	}
	if t >= float64(hi) {
		return hi
	}
	return int64(t)
}

func truncUint(d float64, hi uint64) uint64 {
	if math.IsNaN(d) || d <= 0 {
		return 0
	}
	t := math.Trunc(d)
	if t >= float64(hi) {
		return hi
	}
	return uint64(t)
}
