package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocationEqual(t *testing.T) {
	a := NewLocation(1.0, 2.0)
	b := NewLocation(1.0, 2.0)
	c := NewLocation(1.0000001, 2.0)
	d := NewLocation(1.0, 2.0000001)

	assert.True(t, a.Equal(a), "reflexive")
	assert.True(t, a.Equal(b))
	assert.True(t, b.Equal(a), "symmetric")
	assert.False(t, a.Equal(c), "no tolerance on latitude")
	assert.False(t, c.Equal(a))
	assert.False(t, a.Equal(d), "no tolerance on longitude")
}

func TestLocationEqualMatchesCoordinateComparison(t *testing.T) {
	pts := []Location{
		NewLocation(0, 0),
		NewLocation(35.681236, 139.767125),
		NewLocation(-33.8688, 151.2093),
		NewLocation(35.681236, 151.2093),
	}
	for _, a := range pts {
		for _, b := range pts {
			want := a.Latitude == b.Latitude && a.Longitude == b.Longitude
			assert.Equal(t, want, a.Equal(b), "%v vs %v", a, b)
		}
	}
}

func TestLocationsKeepsOrder(t *testing.T) {
	places := []Place{
		{Title: "a", Location: NewLocation(1, 1)},
		{Title: "b", Location: NewLocation(2, 2)},
		{Title: "c", Location: NewLocation(1, 1)},
	}
	got := Locations(places)
	assert.Equal(t, []Location{{1, 1}, {2, 2}, {1, 1}}, got)
	assert.Empty(t, Locations(nil))
}
