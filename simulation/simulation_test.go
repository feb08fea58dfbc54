package simulation

import (
	"strings"
	"testing"

	"github.com/notargets/emadjoint/fielddata"
	"github.com/notargets/emadjoint/geometry"
	"github.com/notargets/emadjoint/medium"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ringScenario = `
center: [0, 0, 0]
size: [4, 4, 2]
grid_size: 0.5
symmetry: [0, 1, 0]
pml_layers:
  - {profile: standard, num_layers: 12}
  - {profile: standard, num_layers: 12}
  - {profile: absorber, num_layers: 0}
run_time: 1.0e-12
subpixel: false
medium: air
media:
  air: {permittivity: 1}
  si: {permittivity: 12.25, conductivity: 0.01}
  crystal:
    type: AnisotropicMedium
    xx: {permittivity: 4.9}
    yy: {permittivity: 4.9}
    zz: {permittivity: 4.6}
structures:
  - name: ring
    medium: si
    geometry: {type: Box, center: [0, 0, 0], size: [1, 1, 0.5]}
  - medium: crystal
    geometry: {type: Cylinder, center: [1, 0, 0], axis: z, radius: 0.3, length: 0.5}
  - medium: si
    geometry: {type: PolySlab, vertices: [[0, 0], [1, 0], [0, 1]], slab_bounds: [-0.25, 0.25]}
sources:
  - name: src
    type: VolumeSource
    center: [-1, 0, 0]
    size: [0, 2, 2]
    polarization: Jy
    source_time: {type: GaussianPulse, freq0: 2.0e14, fwidth: 2.0e13}
monitors:
  - {name: field, type: FieldMonitor, size: [2, 2, 0], fields: [Ex, Hz], freqs: [2.0e14]}
  - {name: movie, type: FieldTimeMonitor, size: [1, 1, 1], times: [0, 1.0e-13]}
  - {name: flux, type: FluxMonitor, center: [1.5, 0, 0], size: [0, 2, 2], freqs: [1.9e14, 2.0e14]}
`

func TestDecodeScenario(t *testing.T) {
	sim, err := Decode(strings.NewReader(ringScenario))
	require.NoError(t, err)

	assert.Equal(t, [3]float64{4, 4, 2}, sim.Size)
	assert.Equal(t, [3]int{0, 1, 0}, sim.Symmetry)
	assert.Equal(t, PML{Profile: "absorber"}, sim.PMLLayers[2])
	assert.Equal(t, DefaultCourant, sim.Courant)
	assert.Equal(t, DefaultShutoff, sim.Shutoff)
	assert.False(t, sim.Subpixel)

	require.Len(t, sim.Structures, 3)
	assert.Equal(t, "ring", sim.Structures[0].Name)
	assert.Same(t, sim.Structures[0].Medium, sim.Structures[2].Medium)
	assert.Equal(t, geometry.Cylinder{Center: [3]float64{1, 0, 0}, Axis: geometry.Z, Radius: 0.3, Length: 0.5},
		sim.Structures[1].Geometry)
	assert.Equal(t, medium.KindAnisotropic, sim.Structures[1].Medium.Kind())

	src, ok := sim.Source("src")
	require.True(t, ok)
	vs := src.(*VolumeSource)
	assert.Equal(t, "Jy", vs.Polarization)
	assert.Equal(t, GaussianPulse{Freq0: 2e14, FWidth: 2e13, Offset: DefaultOffset, Amplitude: 1}, vs.SourceTime)

	mon, ok := sim.Monitor("field")
	require.True(t, ok)
	assert.Equal(t, []fielddata.Component{fielddata.Ex, fielddata.Hz}, mon.(ScalarFieldMonitor).FieldComponents())
	movie, _ := sim.Monitor("movie")
	assert.Equal(t, AllFields, movie.(ScalarFieldMonitor).FieldComponents())
	flux, _ := sim.Monitor("flux")
	assert.True(t, IsFlux(flux))
	assert.Equal(t, []float64{1.9e14, 2.0e14}, flux.(FreqMonitor).Frequencies())
}

func TestDecodeErrors(t *testing.T) {
	tests := map[string]string{
		"UnknownKey":        "grid_size: 1\nsize: [1, 1, 1]\nbogus: 1\n",
		"ShortCenter":       "grid_size: 1\nsize: [1, 1, 1]\ncenter: [0, 0]\n",
		"NoGrid":            "size: [1, 1, 1]\n",
		"UndefinedMedium":   "grid_size: 1\nsize: [1, 1, 1]\nmedium: glass\n",
		"UnknownGeometry":   "grid_size: 1\nsize: [1, 1, 1]\nmedia: {a: {permittivity: 2}}\nstructures: [{medium: a, geometry: {type: Torus}}]\n",
		"BadPolarization":   "grid_size: 1\nsize: [1, 1, 1]\nsources: [{name: s, type: VolumeSource, polarization: Ex, source_time: {type: GaussianPulse}}]\n",
		"DuplicateMonitor":  "grid_size: 1\nsize: [1, 1, 1]\nmonitors: [{name: m, type: FluxMonitor}, {name: m, type: FluxMonitor}]\n",
		"BadPermittivity":   "grid_size: 1\nsize: [1, 1, 1]\nmedia: {a: {permittivity: 0.5}}\nmedium: a\n",
		"UnknownField":      "grid_size: 1\nsize: [1, 1, 1]\nmonitors: [{name: m, type: FieldMonitor, fields: [Dx]}]\n",
		"UnknownSourceTime": "grid_size: 1\nsize: [1, 1, 1]\nsources: [{name: s, type: PlaneWave, source_time: {type: Ricker}}]\n",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(doc))
			assert.Error(t, err)
		})
	}
}

func TestMediumMap(t *testing.T) {
	bg := &medium.Medium{Permittivity: 1}
	a := &medium.Medium{Permittivity: 2}
	twin := &medium.Medium{Permittivity: 2}
	sim := &Simulation{
		Medium: bg,
		Structures: []Structure{
			{Medium: a}, {Medium: twin}, {Medium: a}, {Medium: bg},
		},
	}
	media, index := sim.MediumMap()
	require.Len(t, media, 3)
	assert.Same(t, bg, media[0])
	assert.Same(t, a, media[1])
	assert.Same(t, twin, media[2])
	assert.Equal(t, 2, index[twin])
}

func TestDiscretizeMonitor(t *testing.T) {
	sim := &Simulation{Size: [3]float64{4, 4, 2}, GridSize: 0.5}
	assert.Equal(t, []float64{-1.75, -1.25, -0.75, -0.25, 0.25, 0.75, 1.25, 1.75}, sim.CellCenters(geometry.X))

	mon := NewFieldMonitor("m", [3]float64{0, 0.6, 0.1}, [3]float64{1, 0, 0.1}, []fielddata.Component{fielddata.Ex}, nil)
	coords, err := sim.DiscretizeMonitor(mon)
	require.NoError(t, err)
	assert.Equal(t, []float64{-0.25, 0.25}, coords[0])
	// zero thickness and sub-cell axes take the nearest center
	assert.Equal(t, []float64{0.75}, coords[1])
	assert.Equal(t, []float64{0.25}, coords[2])

	sim.GridSize = 0
	_, err = sim.DiscretizeMonitor(mon)
	assert.ErrorIs(t, err, ErrInvalidSimulation)
}
