package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveDefaultSchema(t *testing.T) {
	for _, dim := range []int{2, 3} {
		l := Resolve(Default(dim), dim)

		assert.Empty(t, l.Extras(), "default schema has no extra columns")
		for col := 0; col < l.Len(); col++ {
			a, ok := l.AttributeAt(col)
			require.True(t, ok)
			assert.Equal(t, Default(dim).Column(col), a.String())
			assert.True(t, l.Consumed(col))

			pos, ok := l.Position(a)
			require.True(t, ok)
			assert.Equal(t, col, pos)
		}
	}
}

func TestResolveAbsentAttributes(t *testing.T) {
	l := Resolve(Parse("id x y z r mark customA"), 3)

	_, ok := l.Position(Intensity)
	assert.False(t, ok)
	_, ok = l.Position(A3)
	assert.False(t, ok)

	pos, ok := l.Position(Mark)
	require.True(t, ok)
	assert.Equal(t, 5, pos)

	assert.Equal(t, []ExtraColumn{{Index: 6, Name: "customA"}}, l.Extras())
}

// TestRadiusAliases verifies that every alias of the radius attribute is reachable
func TestRadiusAliases(t *testing.T) {
	for _, alias := range []string{"r", "R", "radius", "Radius", "rad", "Rad", "s", "S"} {
		l := Resolve(Parse("id x y "+alias), 2)
		pos, ok := l.Position(Radius)
		require.True(t, ok, alias)
		assert.Equal(t, 3, pos, alias)
		assert.Empty(t, l.Extras(), alias)
	}
}

// TestAliasDeterminism verifies that with several radius aliases the first
// alias in lookup order wins and the others become extra fields
func TestAliasDeterminism(t *testing.T) {
	s := Parse("radius x y r")
	for i := 0; i < 10; i++ {
		l := Resolve(s, 2)
		pos, ok := l.Position(Radius)
		require.True(t, ok)
		assert.Equal(t, 3, pos)
		assert.Equal(t, []ExtraColumn{{Index: 0, Name: "radius"}}, l.Extras())
	}
}

func TestMarkAlias(t *testing.T) {
	l := Resolve(Parse("x y mk"), 2)
	pos, ok := l.Position(Mark)
	require.True(t, ok)
	assert.Equal(t, 2, pos)

	l = Resolve(Parse("mk mark"), 2)
	pos, ok = l.Position(Mark)
	require.True(t, ok)
	assert.Equal(t, 1, pos)
	assert.Equal(t, []ExtraColumn{{Index: 0, Name: "mk"}}, l.Extras())
}

// TestThirdAxisIn2D verifies that z-like columns become extra fields in 2-D
func TestThirdAxisIn2D(t *testing.T) {
	l := Resolve(Parse("x y z tz v2x"), 2)

	_, ok := l.Position(Z)
	assert.False(t, ok)
	_, ok = l.Position(Tz)
	assert.False(t, ok)
	_, ok = l.Position(V2x)
	assert.True(t, ok, "second normal resolves in any dimension")

	assert.Equal(t, []ExtraColumn{
		{Index: 2, Name: "z"},
		{Index: 3, Name: "tz"},
	}, l.Extras())

	l = Resolve(Parse("x y z tz"), 3)
	assert.Empty(t, l.Extras())
}

func TestDuplicateColumns(t *testing.T) {
	l := Resolve(Parse("x x y f f g f"), 2)

	pos, ok := l.Position(X)
	require.True(t, ok)
	assert.Equal(t, 0, pos)

	assert.Equal(t, []ExtraColumn{
		{Index: 1, Name: "x", Occurrence: 0},
		{Index: 3, Name: "f", Occurrence: 0},
		{Index: 4, Name: "f", Occurrence: 1},
		{Index: 5, Name: "g", Occurrence: 0},
		{Index: 6, Name: "f", Occurrence: 2},
	}, l.Extras())
}

func TestResolveEmptySchema(t *testing.T) {
	l := Resolve(Parse(""), 3)
	assert.Zero(t, l.Len())
	assert.Empty(t, l.Extras())
	for _, a := range Attributes() {
		_, ok := l.Position(a)
		assert.False(t, ok, a.String())
	}
}

func TestAttributeNames(t *testing.T) {
	assert.Len(t, Attributes(), 29)
	assert.Equal(t, "r", Radius.String())
	assert.Equal(t, []string{"mark", "mk"}, Mark.Aliases())
	assert.Equal(t, "unknown", Attribute(-5).String())
	assert.True(t, V1z.ThirdAxis())
	assert.False(t, V2y.ThirdAxis())
}
