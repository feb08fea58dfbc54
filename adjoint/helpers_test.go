package adjoint

import (
	"testing"

	"github.com/notargets/emadjoint/fielddata"
	"github.com/notargets/emadjoint/geometry"
	"github.com/stretchr/testify/require"
)

type fieldFunc func(x, y, z float64) complex128

func constant(v complex128) fieldFunc {
	return func(_, _, _ float64) complex128 { return v }
}

var (
	unitCube    = geometry.Bound{Max: [3]float64{1, 1, 1}}
	cubeMonitor = fielddata.Monitor{Name: "cube", Center: [3]float64{.5, .5, .5}, Size: [3]float64{1, 1, 1}}
	cubeCoords  = [3][]float64{
		{0, 0.25, 0.5, 0.75, 1},
		{0, 0.5, 1},
		{0, 0.2, 0.4, 0.6, 0.8, 1},
	}
)

// sampledData evaluates each component function on coords at a single frequency
func sampledData(t *testing.T, mon fielddata.Monitor, coords [3][]float64,
	fields map[fielddata.Component]fieldFunc) *fielddata.FieldData {
	t.Helper()
	comps := make(map[fielddata.Component]*fielddata.ScalarFieldArray, len(fields))
	for c, fn := range fields {
		var values []complex128
		for _, x := range coords[0] {
			for _, y := range coords[1] {
				for _, z := range coords[2] {
					values = append(values, fn(x, y, z))
				}
			}
		}
		arr, err := fielddata.NewScalarFieldArray(coords[0], coords[1], coords[2], []float64{2e14}, values)
		require.NoError(t, err)
		comps[c] = arr
	}
	fd, err := fielddata.NewFieldData(mon, comps)
	require.NoError(t, err)
	return fd
}

// electric builds Ex, Ey, Ez data over the unit cube
func electric(t *testing.T, ex, ey, ez fieldFunc) *fielddata.FieldData {
	return sampledData(t, cubeMonitor, cubeCoords, map[fielddata.Component]fieldFunc{
		fielddata.Ex: ex, fielddata.Ey: ey, fielddata.Ez: ez,
	})
}
