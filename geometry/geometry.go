package geometry

import (
	"fmt"
	"math"
)

// Kind names a geometry variant
type Kind string

const (
	KindBox      Kind = "Box"
	KindSphere   Kind = "Sphere"
	KindCylinder Kind = "Cylinder"
	KindPolySlab Kind = "PolySlab"
)

// Geometry is a closed shape that structures and monitors are built from
type Geometry interface {
	Kind() Kind
	Bounds() Bound
}

// Box is an axis-aligned rectangular box
type Box struct {
	Center [3]float64
	Size   [3]float64
}

func (b Box) Kind() Kind { return KindBox }

func (b Box) Bounds() Bound { return NewBound(b.Center, b.Size) }

// Sphere is a ball of the given radius
type Sphere struct {
	Center [3]float64
	Radius float64
}

func (s Sphere) Kind() Kind { return KindSphere }

func (s Sphere) Bounds() Bound {
	return NewBound(s.Center, [3]float64{2 * s.Radius, 2 * s.Radius, 2 * s.Radius})
}

// Cylinder is a circular cylinder whose axis is aligned with Axis
type Cylinder struct {
	Center [3]float64
	Axis   Axis
	Radius float64
	Length float64
}

func (c Cylinder) Kind() Kind { return KindCylinder }

func (c Cylinder) Bounds() Bound {
	size := [3]float64{2 * c.Radius, 2 * c.Radius, 2 * c.Radius}
	size[c.Axis] = c.Length
	return NewBound(c.Center, size)
}

// PolySlab extrudes a polygon in the xy plane between SlabBounds along z
type PolySlab struct {
	Vertices   [][2]float64
	SlabBounds [2]float64
}

func (p PolySlab) Kind() Kind { return KindPolySlab }

func (p PolySlab) Bounds() (b Bound) {
	b.Min = [3]float64{math.Inf(1), math.Inf(1), p.SlabBounds[0]}
	b.Max = [3]float64{math.Inf(-1), math.Inf(-1), p.SlabBounds[1]}
	for _, v := range p.Vertices {
		for i := 0; i < 2; i++ {
			b.Min[i] = math.Min(b.Min[i], v[i])
			b.Max[i] = math.Max(b.Max[i], v[i])
		}
	}
	return
}

// Validate checks the shape parameters
func Validate(g Geometry) error {
	switch g := g.(type) {
	case Box:
		for i, s := range g.Size {
			if s < 0 {
				return fmt.Errorf("box size along %s is negative: %g", Axes[i], s)
			}
		}
	case Sphere:
		if g.Radius < 0 {
			return fmt.Errorf("sphere radius is negative: %g", g.Radius)
		}
	case Cylinder:
		if g.Radius < 0 || g.Length < 0 {
			return fmt.Errorf("cylinder radius %g and length %g must be non-negative", g.Radius, g.Length)
		}
		if g.Axis > Z {
			return fmt.Errorf("cylinder axis %d out of range", g.Axis)
		}
	case PolySlab:
		if len(g.Vertices) < 3 {
			return fmt.Errorf("polyslab needs at least 3 vertices, got %d", len(g.Vertices))
		}
		if g.SlabBounds[1] < g.SlabBounds[0] {
			return fmt.Errorf("polyslab slab bounds are inverted: %v", g.SlabBounds)
		}
	default:
		return fmt.Errorf("unsupported geometry %T", g)
	}
	return nil
}
