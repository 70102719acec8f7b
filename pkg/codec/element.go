// Package codec converts individual point attributes between their in-memory
// float32 form and the two on-disk encodings of a tube point block: fixed
// width binary elements and whitespace delimited ASCII tokens.
package codec

import (
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ElementType is the numeric representation used for every scalar of a
// binary point block.
type ElementType int

const (
	Unknown ElementType = iota
	Char
	UChar
	Short
	UShort
	Int
	UInt
	Long
	ULong
	LongLong
	ULongLong
	Float
	Double
)

// ErrUnknownElementType is returned when an element type name cannot be parsed.
var ErrUnknownElementType = errors.New("unknown element type")

var elementNames = map[ElementType]string{
	Char:      "MET_CHAR",
	UChar:     "MET_UCHAR",
	Short:     "MET_SHORT",
	UShort:    "MET_USHORT",
	Int:       "MET_INT",
	UInt:      "MET_UINT",
	Long:      "MET_LONG",
	ULong:     "MET_ULONG",
	LongLong:  "MET_LONG_LONG",
	ULongLong: "MET_ULONG_LONG",
	Float:     "MET_FLOAT",
	Double:    "MET_DOUBLE",
}

// Size returns the width of one element in bytes, or 0 for Unknown.
func (t ElementType) Size() int {
	switch t {
	case Char, UChar:
		return 1
	case Short, UShort:
		return 2
	case Int, UInt, Long, ULong, Float:
		return 4
	case LongLong, ULongLong, Double:
		return 8
	default:
		return 0
	}
}

// Valid reports whether t names a supported element type.
func (t ElementType) Valid() bool {
	return t.Size() > 0
}

// Integer reports whether t is one of the integer element types.
func (t ElementType) Integer() bool {
	return t.Valid() && t != Float && t != Double
}

// String returns the MetaIO name of the element type, e.g. MET_FLOAT.
func (t ElementType) String() string {
	if name, ok := elementNames[t]; ok {
		return name
	}
	return "MET_OTHER"
}

// ParseElementType parses a MetaIO element type name. Matching ignores case
// and the MET_ prefix is optional, so "float" and "MET_FLOAT" are equivalent.
func ParseElementType(s string) (ElementType, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	if !strings.HasPrefix(name, "MET_") {
		name = "MET_" + name
	}
	for t, n := range elementNames {
		if n == name {
			return t, nil
		}
	}
	return Unknown, errors.Wrapf(ErrUnknownElementType, "%q", s)
}

// MarshalYAML implements yaml.Marshaler.
func (t ElementType) MarshalYAML() (interface{}, error) {
	return t.String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (t *ElementType) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseElementType(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
