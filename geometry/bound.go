package geometry

import "math"

// Axis indexes the three spatial directions
type Axis uint8

const (
	X Axis = iota
	Y
	Z
)

// Axes lists the spatial axes in storage order
var Axes = [3]Axis{X, Y, Z}

func (a Axis) String() string {
	return [...]string{"x", "y", "z"}[a]
}

// Bound is an axis-aligned box given by its min and max corners
type Bound struct {
	Min, Max [3]float64
}

// NewBound builds the bound of a box from its center and size
func NewBound(center, size [3]float64) (b Bound) {
	for i := 0; i < 3; i++ {
		b.Min[i] = center[i] - size[i]/2
		b.Max[i] = center[i] + size[i]/2
	}
	return
}

// Size returns max - min along every axis
func (b Bound) Size() (s [3]float64) {
	for i := 0; i < 3; i++ {
		s[i] = b.Max[i] - b.Min[i]
	}
	return
}

// Center returns the midpoint of the bound
func (b Bound) Center() (c [3]float64) {
	for i := 0; i < 3; i++ {
		c[i] = (b.Max[i] + b.Min[i]) / 2
	}
	return
}

// Intersection returns the overlap of b and o. Along an axis where the two
// do not overlap the returned Max is smaller than Min, so the extent there
// is negative.
func (b Bound) Intersection(o Bound) (r Bound) {
	for i := 0; i < 3; i++ {
		r.Min[i] = math.Max(b.Min[i], o.Min[i])
		r.Max[i] = math.Min(b.Max[i], o.Max[i])
	}
	return
}

// Contains reports whether p lies inside b, boundary included
func (b Bound) Contains(p [3]float64) bool {
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i] || p[i] > b.Max[i] {
			return false
		}
	}
	return true
}
