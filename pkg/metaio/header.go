package metaio

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Header field names.
const (
	FieldObjectType  = "ObjectType"
	FieldNDims       = "NDims"
	FieldID          = "ID"
	FieldParentID    = "ParentID"
	FieldName        = "Name"
	FieldBinaryData  = "BinaryData"
	FieldByteOrder   = "BinaryDataByteOrderMSB"
	FieldElemOrder   = "ElementByteOrderMSB"
	FieldElementType = "ElementType"
	FieldParentPoint = "ParentPoint"
	FieldRoot        = "Root"
	FieldArtery      = "Artery"
	FieldPointDim    = "PointDim"
	FieldNPoints     = "NPoints"
	FieldPoints      = "Points"
	FieldComment     = "Comment"

	objectTypeTube = "Tube"
)

// header holds the key/value fields read ahead of a point block.
type header map[string]string

// readHeader reads "Key = Value" lines up to and including the Points line.
// The reader is left positioned at the first byte of the point block.
func readHeader(br *bufio.Reader) (header, error) {
	h := make(header)
	for {
		line, err := br.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, errors.Wrap(err, "reading header")
		}
		key, value, ok := splitField(line)
		if ok {
			if key == FieldPoints {
				return h, nil
			}
			if _, dup := h[key]; !dup {
				h[key] = value
			}
		}
		if err == io.EOF {
			return nil, ErrUnterminatedHeader
		}
	}
}

// splitField splits a header line on the first '=' or ':'.
func splitField(line string) (string, string, bool) {
	i := strings.IndexAny(line, "=:")
	if i < 0 {
		return "", "", false
	}
	key := strings.TrimSpace(line[:i])
	if key == "" {
		return "", "", false
	}
	return key, strings.TrimSpace(line[i+1:]), true
}

func (h header) has(key string) bool {
	_, ok := h[key]
	return ok
}

func (h header) integer(key string) (int, bool, error) {
	v, ok := h[key]
	if !ok {
		return 0, false, nil
	}
	fields := strings.Fields(v)
	if len(fields) == 0 {
		return 0, true, errors.Wrapf(ErrMalformedHeader, "%s has no value", key)
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil {
		return 0, true, errors.Wrapf(ErrMalformedHeader, "%s = %q", key, v)
	}
	return n, true, nil
}

// flag interprets a boolean field by its first character; accept lists the
// characters meaning true.
func (h header) flag(key, accept string, def bool) bool {
	v, ok := h[key]
	if !ok {
		return def
	}
	if v == "" {
		return false
	}
	return strings.IndexByte(accept, v[0]) >= 0
}

// headerWriter emits "Key = Value" lines.
type headerWriter struct {
	w   io.Writer
	err error
}

func (hw *headerWriter) field(key string, value interface{}) {
	if hw.err != nil {
		return
	}
	_, hw.err = fmt.Fprintf(hw.w, "%s = %v\n", key, value)
}

func (hw *headerWriter) flag(key string, v bool) {
	if v {
		hw.field(key, "True")
		return
	}
	hw.field(key, "False")
}

// terminate writes the Points field that opens the point block.
func (hw *headerWriter) terminate() {
	if hw.err != nil {
		return
	}
	_, hw.err = fmt.Fprintf(hw.w, "%s =\n", FieldPoints)
}
