package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBound(t *testing.T) {
	b := NewBound([3]float64{1, 0, -1}, [3]float64{2, 4, 0})
	assert.Equal(t, [3]float64{0, -2, -1}, b.Min)
	assert.Equal(t, [3]float64{2, 2, -1}, b.Max)
	assert.Equal(t, [3]float64{2, 4, 0}, b.Size())
	assert.Equal(t, [3]float64{1, 0, -1}, b.Center())
	assert.True(t, b.Contains([3]float64{2, -2, -1}))
	assert.False(t, b.Contains([3]float64{1, 0, 0}))
}

func TestIntersection(t *testing.T) {
	a := Bound{Max: [3]float64{1, 1, 1}}
	b := Bound{Min: [3]float64{0.5, 2, -1}, Max: [3]float64{3, 3, 0.25}}
	r := a.Intersection(b)
	assert.Equal(t, [3]float64{0.5, 2, 0}, r.Min)
	assert.Equal(t, [3]float64{1, 1, 0.25}, r.Max)
	// y does not overlap and keeps a negative extent
	assert.Equal(t, [3]float64{0.5, -1, 0.25}, r.Size())
}

func TestGeometryBounds(t *testing.T) {
	tests := []struct {
		name string
		g    Geometry
		want Bound
	}{
		{"Box", Box{Center: [3]float64{0, 0, 0}, Size: [3]float64{2, 2, 2}},
			Bound{Min: [3]float64{-1, -1, -1}, Max: [3]float64{1, 1, 1}}},
		{"Sphere", Sphere{Center: [3]float64{1, 1, 1}, Radius: 0.5},
			Bound{Min: [3]float64{0.5, 0.5, 0.5}, Max: [3]float64{1.5, 1.5, 1.5}}},
		{"Cylinder", Cylinder{Axis: Y, Radius: 1, Length: 4},
			Bound{Min: [3]float64{-1, -2, -1}, Max: [3]float64{1, 2, 1}}},
		{"PolySlab", PolySlab{Vertices: [][2]float64{{0, 0}, {2, 0}, {1, 3}}, SlabBounds: [2]float64{-0.5, 0.5}},
			Bound{Min: [3]float64{0, 0, -0.5}, Max: [3]float64{2, 3, 0.5}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.g.Bounds())
			assert.Equal(t, Kind(tt.name), tt.g.Kind())
			assert.NoError(t, Validate(tt.g))
		})
	}
}

func TestValidate(t *testing.T) {
	for name, g := range map[string]Geometry{
		"NegativeBox":      Box{Size: [3]float64{1, -1, 1}},
		"NegativeSphere":   Sphere{Radius: -1},
		"BadCylinderAxis":  Cylinder{Axis: 3, Radius: 1, Length: 1},
		"ShortPolySlab":    PolySlab{Vertices: [][2]float64{{0, 0}, {1, 1}}},
		"InvertedPolySlab": PolySlab{Vertices: [][2]float64{{0, 0}, {1, 0}, {0, 1}}, SlabBounds: [2]float64{1, 0}},
		"Nil":              nil,
	} {
		assert.Error(t, Validate(g), name)
	}
}
