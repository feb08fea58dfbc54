package medium

import "fmt"

// DatasetNames labels the permittivity dataset fields in axis order
var DatasetNames = [3]string{"eps_xx", "eps_yy", "eps_zz"}

// SpatialDataArray is a real scalar over a rectilinear (x, y, z) grid.
// Values are row-major with z varying fastest. An axis without spatial
// variation has a single coordinate.
type SpatialDataArray struct {
	X, Y, Z []float64
	Values  []float64
}

// NewSpatialDataArray validates and returns the array
func NewSpatialDataArray(x, y, z, values []float64) (*SpatialDataArray, error) {
	a := &SpatialDataArray{X: x, Y: y, Z: z, Values: values}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return a, nil
}

// Coords returns x, y, z in axis order
func (a *SpatialDataArray) Coords() [3][]float64 {
	return [3][]float64{a.X, a.Y, a.Z}
}

// Shape returns the voxel shape (Nx, Ny, Nz)
func (a *SpatialDataArray) Shape() [3]int {
	return [3]int{len(a.X), len(a.Y), len(a.Z)}
}

// Size is the voxel count
func (a *SpatialDataArray) Size() int {
	sh := a.Shape()
	return sh[0] * sh[1] * sh[2]
}

func (a *SpatialDataArray) Validate() error {
	for i, c := range a.Coords() {
		if len(c) == 0 {
			return fmt.Errorf("axis %d has no coordinates: %w", i, ErrInvalidMedium)
		}
		for j := 1; j < len(c); j++ {
			if c[j] <= c[j-1] {
				return fmt.Errorf("axis %d coordinates not increasing at %d: %w", i, j, ErrInvalidMedium)
			}
		}
	}
	if a.Size() != len(a.Values) {
		return fmt.Errorf("grid %v needs %d values, got %d: %w", a.Shape(), a.Size(), len(a.Values), ErrInvalidMedium)
	}
	return nil
}

// PermittivityDataset holds up to three diagonal permittivity fields
type PermittivityDataset struct {
	EpsXX, EpsYY, EpsZZ *SpatialDataArray
}

// Components returns eps_xx, eps_yy, eps_zz in axis order; absent entries are nil
func (d PermittivityDataset) Components() [3]*SpatialDataArray {
	return [3]*SpatialDataArray{d.EpsXX, d.EpsYY, d.EpsZZ}
}

// WithComponents builds a dataset from an axis-ordered triple
func WithComponents(c [3]*SpatialDataArray) PermittivityDataset {
	return PermittivityDataset{EpsXX: c[0], EpsYY: c[1], EpsZZ: c[2]}
}

func (d PermittivityDataset) Validate() error {
	var n int
	for i, c := range d.Components() {
		if c == nil {
			continue
		}
		n++
		if err := c.Validate(); err != nil {
			return fmt.Errorf("%s: %w", DatasetNames[i], err)
		}
	}
	if n == 0 {
		return fmt.Errorf("permittivity dataset is empty: %w", ErrInvalidMedium)
	}
	return nil
}
