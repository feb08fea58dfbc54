package adjoint

import (
	"math"
	"testing"

	"github.com/notargets/emadjoint/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCellCount(t *testing.T) {
	tests := []struct {
		extent, wvl float64
		want        int
	}{
		{1, 0.5, 41},   // 40 exactly
		{2, 0.25, 161}, // 160 exactly
		{0.5, 1, 11},   // 10 exactly
		{1.5, 2, 16},   // 15 exactly
		{3, 4, 16},     // 15 exactly
		{0.25, 0.5, 11},
		{0.3, 0.7, 9},      // 8.57
		{0.03125, 1, 1},    // 0.625
		{1.0 / 3.0, 1, 7},  // 6.67
		{0.75, 0.125, 121}, // 120 exactly
	}
	for _, tt := range tests {
		got, err := CellCount(tt.extent, tt.wvl, DefaultPointsPerWavelength)
		require.NoError(t, err)
		if got != tt.want {
			t.Errorf("CellCount(%g, %g) = %d, want %d", tt.extent, tt.wvl, got, tt.want)
		}
		assert.Equal(t, int(math.Floor(tt.extent*20/tt.wvl))+1, got)
	}

	// 1638.375 * 20 / 0.5 = 65535 exactly
	got, err := CellCount(1638.375, 0.5, DefaultPointsPerWavelength)
	require.NoError(t, err)
	assert.Equal(t, MaxCellsPerAxis, got)

	for _, extent := range []float64{1638.4, 1e300, math.Inf(1)} {
		_, err = CellCount(extent, 0.5, DefaultPointsPerWavelength)
		assert.ErrorIs(t, err, ErrInvalidArgument, "extent=%g", extent)
	}
}

func TestDiscretizeFullVolume(t *testing.T) {
	disc, err := Discretize(unitCube, unitCube, 0.5, DefaultPointsPerWavelength)
	require.NoError(t, err)

	assert.Equal(t, D3, disc.Dimensions())
	assert.Equal(t, 41*41*41, disc.NumSamples())
	assert.InDelta(t, math.Pow(1.0/41, 3), disc.DVol, 1e-15)
	for axis, c := range disc.Coords {
		require.Len(t, c, 41, "axis %d", axis)
		assert.InDelta(t, 1.0/82, c[0], 1e-14)
		assert.InDelta(t, 1-1.0/82, c[40], 1e-14)
		assert.InDelta(t, 1.0/41, c[1]-c[0], 1e-12)
	}
}

func TestDiscretizeDegenerateAxes(t *testing.T) {
	t.Run("ZeroThickness", func(t *testing.T) {
		plane := geometry.NewBound([3]float64{.5, .5, .5}, [3]float64{1, 1, 0})
		disc, err := Discretize(plane, unitCube, 0.5, DefaultPointsPerWavelength)
		require.NoError(t, err)
		assert.Nil(t, disc.Coords[2])
		assert.Equal(t, D2, disc.Dimensions())
		assert.InDelta(t, math.Pow(1.0/41, 2), disc.DVol, 1e-15)
	})
	t.Run("NoOverlap", func(t *testing.T) {
		// monitor sits beyond the simulation along x
		mon := geometry.Bound{Min: [3]float64{2, 0, 0}, Max: [3]float64{3, 1, 1}}
		disc, err := Discretize(mon, unitCube, 1, DefaultPointsPerWavelength)
		require.NoError(t, err)
		assert.Nil(t, disc.Coords[0])
		assert.Len(t, disc.Coords[1], 21)
		assert.InDelta(t, math.Pow(1.0/21, 2), disc.DVol, 1e-15)
	})
	t.Run("PointMonitor", func(t *testing.T) {
		pt := geometry.NewBound([3]float64{.5, .5, .5}, [3]float64{})
		disc, err := Discretize(pt, unitCube, 1, DefaultPointsPerWavelength)
		require.NoError(t, err)
		assert.Equal(t, D0, disc.Dimensions())
		assert.Equal(t, 1.0, disc.DVol)
		assert.Equal(t, 1, disc.NumSamples())
	})
	t.Run("ClippedToSimulation", func(t *testing.T) {
		mon := geometry.Bound{Min: [3]float64{-1, -1, -1}, Max: [3]float64{0.5, 2, 2}}
		disc, err := Discretize(mon, unitCube, 1, 10)
		require.NoError(t, err)
		require.Len(t, disc.Coords[0], 6)
		assert.InDelta(t, 0.5/6/2, disc.Coords[0][0], 1e-15)
		assert.Len(t, disc.Coords[1], 11)
	})
}

func TestDiscretizeSingleCell(t *testing.T) {
	thin := geometry.Bound{Min: [3]float64{0.2, 0, 0}, Max: [3]float64{0.21, 1, 1}}
	disc, err := Discretize(thin, unitCube, 1, DefaultPointsPerWavelength)
	require.NoError(t, err)
	require.Len(t, disc.Coords[0], 1)
	assert.InDelta(t, 0.205, disc.Coords[0][0], 1e-15)
}

func TestDiscretizeInvalidArguments(t *testing.T) {
	for _, tt := range []struct {
		name     string
		wvl, ppw float64
	}{
		{"ZeroWavelength", 0, 20},
		{"NegativeWavelength", -1, 20},
		{"NaNWavelength", math.NaN(), 20},
		{"ZeroPoints", 1, 0},
		{"OverflowingCellCount", 1e-300, 20},
		{"InfinitePoints", 1, math.Inf(1)},
		{"TooManyCells", 1e-6, 20},
	} {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Discretize(unitCube, unitCube, tt.wvl, tt.ppw)
			assert.ErrorIs(t, err, ErrInvalidArgument)
		})
	}
}
