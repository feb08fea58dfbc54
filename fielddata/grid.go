package fielddata

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// RealGrid is a real-valued scalar sampled on a rectilinear (x, y, z) grid.
// Values are row-major with z varying fastest.
type RealGrid struct {
	Coords [3][]float64
	Values []float64
}

// Shape returns (Nx, Ny, Nz)
func (g *RealGrid) Shape() [3]int {
	return [3]int{len(g.Coords[0]), len(g.Coords[1]), len(g.Coords[2])}
}

// Isel keeps only sample index along axis, leaving that axis with length one
func (g *RealGrid) Isel(axis, index int) (*RealGrid, error) {
	n := len(g.Coords[axis])
	if index < 0 || index >= n {
		return nil, fmt.Errorf("isel %s[%d] of %d: %w", axisNames[axis], index, n, ErrIndexOutOfRange)
	}
	outer, inner := g.strides(axis)
	out := &RealGrid{Coords: g.Coords, Values: make([]float64, outer*inner)}
	out.Coords[axis] = []float64{g.Coords[axis][index]}
	for o := 0; o < outer; o++ {
		copy(out.Values[o*inner:(o+1)*inner], g.Values[(o*n+index)*inner:(o*n+index+1)*inner])
	}
	return out, nil
}

// Interp linearly interpolates the grid along axis onto targets. Applying it
// once per axis gives multilinear interpolation on the full grid. Targets
// outside the sampled range take the nearest edge value, and an axis holding a
// single sample is broadcast to every target.
func (g *RealGrid) Interp(axis int, targets []float64) (*RealGrid, error) {
	if len(targets) == 0 {
		return nil, fmt.Errorf("interp along %s: no targets: %w", axisNames[axis], ErrShapeMismatch)
	}
	W, err := LinearInterpOperator(g.Coords[axis], targets)
	if err != nil {
		return nil, fmt.Errorf("interp along %s: %w", axisNames[axis], err)
	}

	var (
		n            = len(g.Coords[axis])
		m            = len(targets)
		outer, inner = g.strides(axis)
		out          = &RealGrid{Coords: g.Coords, Values: make([]float64, outer*m*inner)}
	)
	out.Coords[axis] = cloneFloats(targets)
	if inner == 0 {
		return out, nil
	}
	// Each outer block is a contiguous n x inner matrix; the operator maps it to m x inner
	for o := 0; o < outer; o++ {
		src := mat.NewDense(n, inner, g.Values[o*n*inner:(o+1)*n*inner])
		dst := mat.NewDense(m, inner, out.Values[o*m*inner:(o+1)*m*inner])
		dst.Mul(W, src)
	}
	return out, nil
}

// Plane returns the 2D slice at index along axis as a matrix whose rows and
// columns follow the two remaining axes in x, y, z order
func (g *RealGrid) Plane(axis, index int) (*mat.Dense, error) {
	sl, err := g.Isel(axis, index)
	if err != nil {
		return nil, err
	}
	var dims []int
	for d, c := range g.Coords {
		if d != axis {
			dims = append(dims, len(c))
		}
	}
	return mat.NewDense(dims[0], dims[1], sl.Values), nil
}

// strides returns the product of the dimensions before and after axis
func (g *RealGrid) strides(axis int) (outer, inner int) {
	sh := g.Shape()
	outer, inner = 1, 1
	for d := 0; d < axis; d++ {
		outer *= sh[d]
	}
	for d := axis + 1; d < 3; d++ {
		inner *= sh[d]
	}
	return
}

// LinearInterpOperator returns the [len(targets) x len(src)] matrix W such
// that W*v interpolates samples v at src onto targets
func LinearInterpOperator(src, targets []float64) (*mat.Dense, error) {
	if err := checkCoords(src); err != nil {
		return nil, err
	}
	var (
		n = len(src)
		m = len(targets)
		W = mat.NewDense(m, n, nil)
	)
	for t, x := range targets {
		switch {
		case n == 1 || x <= src[0]:
			W.Set(t, 0, 1)
		case x >= src[n-1]:
			W.Set(t, n-1, 1)
		default:
			i := sort.SearchFloat64s(src, x)
			if src[i] == x {
				W.Set(t, i, 1)
				continue
			}
			frac := (x - src[i-1]) / (src[i] - src[i-1])
			W.Set(t, i-1, 1-frac)
			W.Set(t, i, frac)
		}
	}
	return W, nil
}
