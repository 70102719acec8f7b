// Package stl writes triangle meshes in the binary STL format.
package stl

import (
	"bufio"
	"encoding/binary"
	"io"
	"os"

	"github.com/pkg/errors"

	"metatube/pkg/codec"
)

const (
	headerSize   = 80
	triangleSize = 50
)

// Triangle is one facet of a mesh.
type Triangle struct {
	Normal  [3]float32
	Vertex1 [3]float32
	Vertex2 [3]float32
	Vertex3 [3]float32
}

// Size returns the size in bytes of a binary STL file holding n triangles.
func Size(n int) int {
	return headerSize + 4 + n*triangleSize
}

// WriteSTL writes triangles to w as binary STL. The header is filled with
// name, truncated to 80 bytes.
func WriteSTL(w io.Writer, name string, triangles []Triangle) error {
	bw := bufio.NewWriter(w)

	header := make([]byte, headerSize+4)
	copy(header[:headerSize], name)
	binary.LittleEndian.PutUint32(header[headerSize:], uint32(len(triangles)))
	if _, err := bw.Write(header); err != nil {
		return errors.Wrap(err, "writing STL header")
	}

	floats, err := codec.NewBinaryCodec(codec.Float)
	if err != nil {
		return err
	}
	buf := make([]byte, triangleSize)
	row := make([]float32, 12)
	for _, t := range triangles {
		copy(row[0:3], t.Normal[:])
		copy(row[3:6], t.Vertex1[:])
		copy(row[6:9], t.Vertex2[:])
		copy(row[9:12], t.Vertex3[:])
		floats.EncodeRow(buf, row)
		// attribute byte count stays zero
		buf[48], buf[49] = 0, 0
		if _, err := bw.Write(buf); err != nil {
			return errors.Wrap(err, "writing STL triangle")
		}
	}
	return errors.Wrap(bw.Flush(), "writing STL")
}

// SaveToSTL writes triangles to the named file.
func SaveToSTL(filename string, triangles []Triangle) error {
	f, err := os.Create(filename)
	if err != nil {
		return errors.Wrap(err, "failed to create STL file")
	}
	if err := WriteSTL(f, "metatube", triangles); err != nil {
		f.Close()
		return err
	}
	return errors.Wrap(f.Close(), "failed to close STL file")
}
