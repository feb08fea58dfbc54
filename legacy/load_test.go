package legacy

import (
	"testing"

	"github.com/notargets/emadjoint/adjoint"
	"github.com/notargets/emadjoint/fielddata"
	"github.com/notargets/emadjoint/medium"
	"github.com/notargets/emadjoint/simulation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fieldGroup fills a (3, nx, ny, nz, ns) array with value 100*comp + index
func fieldGroup(t *testing.T, nx, ny, nz, ns int) *Array {
	t.Helper()
	block := nx * ny * nz * ns
	data := make([]complex128, 3*block)
	for c := 0; c < 3; c++ {
		for i := 0; i < block; i++ {
			data[c*block+i] = complex(float64(100*c+i), 0)
		}
	}
	arr, err := NewArray([]int{3, nx, ny, nz, ns}, data)
	require.NoError(t, err)
	return arr
}

func TestLoadMonitorData(t *testing.T) {
	sim := testSimulation()
	store := NewMemStore()

	// fields: 2 x 2 x 1 cells, 2 frequencies; movie: 2 x 2 x 2 cells, 2 times
	store.Put("fields", "E", fieldGroup(t, 2, 2, 1, 2))
	store.Put("fields", "H", fieldGroup(t, 2, 2, 1, 2))
	store.Put("movie", "H", fieldGroup(t, 2, 2, 2, 2))
	flux, err := NewArray([]int{1, 1}, []complex128{3.5})
	require.NoError(t, err)
	store.Put("flux", "flux", flux)
	store.Put("fluxt", "flux", &Array{Shape: []int{0}})

	data, err := LoadMonitorData(sim, store)
	require.NoError(t, err)
	require.Len(t, data, 4)
	for name, md := range data {
		assert.Equal(t, name, md.MonitorName)
	}

	fields := data["fields"]
	assert.Equal(t, FrequencyLabel, fields.SamplerLabel)
	assert.Equal(t, []float64{2e14, 3e14}, fields.SamplerValues)
	assert.Equal(t, []fielddata.Component{fielddata.Hx, fielddata.Ex}, fields.Fields)
	require.Len(t, fields.X, 2)
	assert.Equal(t, []float64{-0.25, 0.25}, fields.X[0])
	assert.Equal(t, fields.X[0], fields.X[1])
	assert.Equal(t, []float64{-0.25}, fields.Z[0])
	// both are component 0 of their group
	require.Len(t, fields.Values[0], 8)
	assert.Equal(t, complex(7, 0), fields.Values[0][7])

	movie := data["movie"]
	assert.Equal(t, TimeLabel, movie.SamplerLabel)
	assert.Equal(t, []fielddata.Component{fielddata.Hy}, movie.Fields)
	assert.Equal(t, complex(100, 0), movie.Values[0][0])

	assert.Equal(t, []complex128{3.5}, data["flux"].Flux)
	assert.Equal(t, TimeLabel, data["fluxt"].SamplerLabel)
	assert.Empty(t, data["fluxt"].Flux)
}

func TestLoadMonitorDataErrors(t *testing.T) {
	sim := testSimulation()
	sim.Monitors = sim.Monitors[:1]

	t.Run("Missing", func(t *testing.T) {
		store := NewMemStore()
		store.Put("fields", "H", fieldGroup(t, 2, 2, 1, 2))
		_, err := LoadMonitorData(sim, store)
		assert.ErrorIs(t, err, ErrNotFound)
	})
	t.Run("WrongShape", func(t *testing.T) {
		store := NewMemStore()
		store.Put("fields", "H", fieldGroup(t, 2, 2, 1, 2))
		store.Put("fields", "E", fieldGroup(t, 2, 2, 2, 2))
		_, err := LoadMonitorData(sim, store)
		assert.ErrorIs(t, err, fielddata.ErrShapeMismatch)
	})
	t.Run("ModeMonitor", func(t *testing.T) {
		s := testSimulation()
		s.Monitors = []simulation.Monitor{simulation.NewModeMonitor("modes", [3]float64{}, [3]float64{0, 1, 1}, nil, 1)}
		_, err := LoadMonitorData(s, NewMemStore())
		var uerr *UnsupportedKindError
		assert.ErrorAs(t, err, &uerr)
	})
	t.Run("ArrayShape", func(t *testing.T) {
		_, err := NewArray([]int{2, 2}, make([]complex128, 3))
		assert.Error(t, err)
	})
}

// Loaded legacy output feeds the gradient computation directly
func TestFieldDataFromLegacy(t *testing.T) {
	sim := testSimulation()
	box := simulation.NewFieldMonitor("box", [3]float64{}, [3]float64{1, 1, 1},
		[]fielddata.Component{fielddata.Ex, fielddata.Ey, fielddata.Ez}, []float64{2e14})
	sim.Monitors = []simulation.Monitor{box}

	ones := make([]complex128, 3*2*2*2)
	for i := range ones {
		ones[i] = 1
	}
	store := NewMemStore()
	store.Put("box", "E", &Array{Shape: []int{3, 2, 2, 2, 1}, Data: ones})

	data, err := LoadMonitorData(sim, store)
	require.NoError(t, err)
	fd, err := data["box"].FieldData()
	require.NoError(t, err)
	assert.Equal(t, "box", fd.Monitor.Name)

	m, err := adjoint.FromPlain(&medium.Medium{Permittivity: 2})
	require.NoError(t, err)
	vjp, err := m.StoreVJP(fd, fd, sim.Bounds(), 0.5, adjoint.DefaultOptions())
	require.NoError(t, err)
	// unit fields over a unit volume, three components
	assert.InDelta(t, 3.0, vjp.(*adjoint.IsotropicMedium).Permittivity, 1e-9)

	_, err = (&MonitorData{MonitorName: "flux"}).FieldData()
	assert.ErrorIs(t, err, ErrNotFieldData)
}
