package adjoint

import (
	"fmt"
	"math"

	"github.com/notargets/emadjoint/geometry"
	"gonum.org/v1/gonum/floats"
)

// Dimensionality is the number of axes that take part in an integration
type Dimensionality uint8

const (
	D0 Dimensionality = iota // point monitor
	D1                       // line
	D2                       // plane
	D3                       // volume
)

func (d Dimensionality) String() string {
	return [...]string{"point", "line", "plane", "volume"}[d]
}

// VolumeDisc is the sampling of an integration region
type VolumeDisc struct {
	// Coords holds cell-centred sample coordinates per axis, nil on axes
	// with no thickness
	Coords [3][]float64

	// DVol is the product of the cell widths over the sampled axes
	DVol float64
}

// Dimensions counts the sampled axes
func (v VolumeDisc) Dimensions() (d Dimensionality) {
	for _, c := range v.Coords {
		if c != nil {
			d++
		}
	}
	return
}

// NumSamples is the number of integration points
func (v VolumeDisc) NumSamples() int {
	n := 1
	for _, c := range v.Coords {
		if c != nil {
			n *= len(c)
		}
	}
	return n
}

// MaxCellsPerAxis caps the integration cells along one axis. The
// interpolation operators are dense in this count.
const MaxCellsPerAxis = 1 << 16

// CellCount is the number of integration cells along an axis of the given
// extent: floor(extent * pointsPerWvl / wvlMat) + 1. Counts that are not
// finite or exceed MaxCellsPerAxis are rejected with ErrInvalidArgument.
func CellCount(extent, wvlMat, pointsPerWvl float64) (int, error) {
	ratio := math.Floor(extent * pointsPerWvl / wvlMat)
	if math.IsNaN(ratio) || ratio < 0 || ratio+1 > MaxCellsPerAxis {
		return 0, fmt.Errorf("%g cells over extent %g at wavelength %g exceeds %d: %w",
			ratio+1, extent, wvlMat, MaxCellsPerAxis, ErrInvalidArgument)
	}
	return int(ratio) + 1, nil
}

// Discretize intersects the monitor and simulation bounds and samples the
// overlap at pointsPerWvl points per wavelength in the material. Axes where
// the overlap has no thickness are left out and contribute no factor to DVol.
func Discretize(monitor, sim geometry.Bound, wvlMat, pointsPerWvl float64) (VolumeDisc, error) {
	if !(wvlMat > 0) {
		return VolumeDisc{}, fmt.Errorf("wavelength in material %g: %w", wvlMat, ErrInvalidArgument)
	}
	if !(pointsPerWvl > 0) {
		return VolumeDisc{}, fmt.Errorf("points per wavelength %g: %w", pointsPerWvl, ErrInvalidArgument)
	}

	r := monitor.Intersection(sim)
	disc := VolumeDisc{DVol: 1.0}
	for axis := 0; axis < 3; axis++ {
		minEdge, maxEdge := r.Min[axis], r.Max[axis]
		size := maxEdge - minEdge
		if size <= 0 {
			continue
		}

		n, err := CellCount(size, wvlMat, pointsPerWvl)
		if err != nil {
			return VolumeDisc{}, fmt.Errorf("axis %s: %w", geometry.Axis(axis), err)
		}
		dLen := size / float64(n)
		disc.DVol *= dLen

		coords := make([]float64, n)
		if n == 1 {
			coords[0] = minEdge + dLen/2
		} else {
			floats.Span(coords, minEdge+dLen/2, maxEdge-dLen/2)
		}
		disc.Coords[axis] = coords
	}
	return disc, nil
}
