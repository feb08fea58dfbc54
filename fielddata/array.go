package fielddata

import "fmt"

// ScalarFieldArray holds one complex field component sampled on a
// rectilinear grid over (x, y, z, f).
//
// Values are stored row-major with f varying fastest:
//
//	Values[((i*Ny+j)*Nz+k)*Nf+l] = value at (X[i], Y[j], Z[k], F[l])
type ScalarFieldArray struct {
	X, Y, Z []float64
	F       []float64
	Values  []complex128
}

// NewScalarFieldArray validates the coordinate/value layout and returns the array
func NewScalarFieldArray(x, y, z, f []float64, values []complex128) (*ScalarFieldArray, error) {
	a := &ScalarFieldArray{X: x, Y: y, Z: z, F: f, Values: values}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return a, nil
}

// NewUniformFieldArray fills every sample with the same value
func NewUniformFieldArray(x, y, z, f []float64, value complex128) (*ScalarFieldArray, error) {
	values := make([]complex128, len(x)*len(y)*len(z)*len(f))
	for i := range values {
		values[i] = value
	}
	return NewScalarFieldArray(x, y, z, f, values)
}

// Validate checks that every axis is non-empty and strictly increasing and
// that the value count matches the grid
func (a *ScalarFieldArray) Validate() error {
	for i, c := range a.SpatialCoords() {
		if err := checkCoords(c); err != nil {
			return fmt.Errorf("axis %s: %w", axisNames[i], err)
		}
	}
	if len(a.F) == 0 {
		return fmt.Errorf("axis f: %w", ErrShapeMismatch)
	}
	sh := a.Shape()
	if n := sh[0] * sh[1] * sh[2] * sh[3]; n != len(a.Values) {
		return fmt.Errorf("grid %v holds %d values, got %d: %w", sh, n, len(a.Values), ErrShapeMismatch)
	}
	return nil
}

// Shape returns (Nx, Ny, Nz, Nf)
func (a *ScalarFieldArray) Shape() [4]int {
	return [4]int{len(a.X), len(a.Y), len(a.Z), len(a.F)}
}

// SpatialCoords returns the x, y, z coordinate vectors
func (a *ScalarFieldArray) SpatialCoords() [3][]float64 {
	return [3][]float64{a.X, a.Y, a.Z}
}

// At returns the value at grid indices (i, j, k, l)
func (a *ScalarFieldArray) At(i, j, k, l int) complex128 {
	sh := a.Shape()
	return a.Values[((i*sh[1]+j)*sh[2]+k)*sh[3]+l]
}

// IsZero reports whether every sample is exactly zero
func (a *ScalarFieldArray) IsZero() bool {
	for _, v := range a.Values {
		if v != 0 {
			return false
		}
	}
	return true
}

// RealProduct forms Re(fwd * adj) at frequency index fIndex as a real grid
// over the spatial axes. No conjugation is applied. Both arrays must share
// shape and coordinates.
func RealProduct(fwd, adj *ScalarFieldArray, fIndex int) (*RealGrid, error) {
	sf, sa := fwd.Shape(), adj.Shape()
	if sf != sa {
		return nil, fmt.Errorf("forward %v vs adjoint %v: %w", sf, sa, ErrShapeMismatch)
	}
	cf, ca := fwd.SpatialCoords(), adj.SpatialCoords()
	for d := 0; d < 3; d++ {
		for i := range cf[d] {
			if cf[d][i] != ca[d][i] {
				return nil, fmt.Errorf("axis %s coordinate %d differs (%g vs %g): %w",
					axisNames[d], i, cf[d][i], ca[d][i], ErrShapeMismatch)
			}
		}
	}
	if fIndex < 0 || fIndex >= sf[3] {
		return nil, fmt.Errorf("frequency index %d of %d: %w", fIndex, sf[3], ErrIndexOutOfRange)
	}

	g := &RealGrid{
		Coords: [3][]float64{cloneFloats(fwd.X), cloneFloats(fwd.Y), cloneFloats(fwd.Z)},
		Values: make([]float64, sf[0]*sf[1]*sf[2]),
	}
	var n int
	for i := 0; i < sf[0]; i++ {
		for j := 0; j < sf[1]; j++ {
			for k := 0; k < sf[2]; k++ {
				g.Values[n] = real(fwd.At(i, j, k, fIndex) * adj.At(i, j, k, fIndex))
				n++
			}
		}
	}
	return g, nil
}

var axisNames = [3]string{"x", "y", "z"}

func checkCoords(c []float64) error {
	if len(c) == 0 {
		return fmt.Errorf("empty coordinates: %w", ErrShapeMismatch)
	}
	for i := 1; i < len(c); i++ {
		if c[i] <= c[i-1] {
			return fmt.Errorf("coords[%d]=%g <= coords[%d]=%g: %w", i, c[i], i-1, c[i-1], ErrNonMonotonic)
		}
	}
	return nil
}

func cloneFloats(s []float64) []float64 {
	out := make([]float64, len(s))
	copy(out, s)
	return out
}
