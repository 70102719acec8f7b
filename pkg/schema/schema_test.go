package schema

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultColumns(t *testing.T) {
	assert.Equal(t,
		"id x y red green blue alpha mark r rn mn bn cv lv ro in tx ty v1x v1y a1 a2",
		strings.Join(DefaultColumns(2), " "))

	for _, dim := range []int{3, 4, 5} {
		assert.Equal(t,
			"id x y z red green blue alpha mark r rn mn bn cv lv ro in tx ty tz v1x v1y v1z v2x v2y v2z a1 a2 a3",
			Default(dim).String())
	}
}

func TestDefaultColumnsReturnsCopy(t *testing.T) {
	cols := DefaultColumns(3)
	cols[0] = "changed"
	assert.Equal(t, "id", DefaultColumns(3)[0])
}

// TestDimensionGating verifies that third-axis columns appear only for 3+ dimensions
func TestDimensionGating(t *testing.T) {
	gated := []string{"z", "tz", "v1z", "v2z"}

	s2 := Build(2, []string{"customA"})
	for _, name := range gated {
		_, ok := s2.PositionOf(name)
		assert.False(t, ok, "2-D schema must not contain %s", name)
	}

	for _, dim := range []int{3, 4} {
		s := Build(dim, nil)
		for _, name := range gated {
			_, ok := s.PositionOf(name)
			assert.True(t, ok, "%d-D schema must contain %s", dim, name)
		}
	}
}

// TestBuildKeepsExtraOrder verifies default columns are followed by extra names as given
func TestBuildKeepsExtraOrder(t *testing.T) {
	s := Build(3, []string{"b", "a", "b"})
	cols := s.Columns()

	require.Len(t, cols, len(DefaultColumns(3))+3)
	assert.Equal(t, []string{"b", "a", "b"}, cols[len(cols)-3:])

	empty := Build(3, nil)
	assert.Equal(t, Default(3).String(), empty.String())
}

func TestParse(t *testing.T) {
	s := Parse("  id x\ty   z r  mark customA \n")
	assert.Equal(t, []string{"id", "x", "y", "z", "r", "mark", "customA"}, s.Columns())
	assert.Equal(t, "id x y z r mark customA", s.String())
	assert.Equal(t, 7, s.Len())
	assert.Equal(t, "customA", s.Column(6))

	assert.Zero(t, Parse("").Len())
	assert.Zero(t, Parse("   \t ").Len())
}

func TestPositionOfFirstMatch(t *testing.T) {
	s := New([]string{"a", "b", "a"})
	pos, ok := s.PositionOf("a")
	require.True(t, ok)
	assert.Equal(t, 0, pos)

	_, ok = s.PositionOf("c")
	assert.False(t, ok)
}

func TestParseStringRoundTrip(t *testing.T) {
	s := Build(2, []string{"f1", "f2"})
	assert.Equal(t, s.Columns(), Parse(s.String()).Columns())
}
