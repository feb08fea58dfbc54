package adjoint

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/notargets/emadjoint/medium"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeavesRoundTrip(t *testing.T) {
	custom := customMedium(t)
	custom.EpsDataset.EpsZZ = nil

	tests := []struct {
		name    string
		m       Medium
		nLeaves int
	}{
		{"Isotropic", &IsotropicMedium{Name: "si", Permittivity: 11.7, Conductivity: 0.02}, 1},
		{"Anisotropic", anisotropic(2.1, 2.2, 2.3), 3},
		{"Custom", custom, 3 + 24},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			leaves, aux := tt.m.ToLeaves()
			require.Len(t, leaves, tt.nLeaves)
			assert.Equal(t, tt.m.Kind(), aux.Kind)

			back, err := FromLeaves(aux, leaves)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.m, back, cmpopts.EquateApprox(0, 1e-15)); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFromLeavesReplacesValues(t *testing.T) {
	leaves, aux := customMedium(t).ToLeaves()
	for i := range leaves {
		leaves[i] = float64(i)
	}
	m, err := FromLeaves(aux, leaves)
	require.NoError(t, err)
	ds := m.(*CustomMedium).EpsDataset
	assert.Equal(t, []float64{0, 1, 2}, ds.EpsXX.Values)
	assert.Equal(t, 3.0, ds.EpsYY.Values[0])
	assert.Equal(t, []float64{27}, ds.EpsZZ.Values)

	// leaves are copied, not aliased
	leaves[0] = 99
	assert.Equal(t, 0.0, ds.EpsXX.Values[0])
}

func TestFromLeavesErrors(t *testing.T) {
	_, isoAux := (&IsotropicMedium{Permittivity: 2}).ToLeaves()
	_, err := FromLeaves(isoAux, []float64{1, 2})
	assert.ErrorIs(t, err, ErrLeafCount)

	_, anAux := anisotropic(1, 2, 3).ToLeaves()
	_, err = FromLeaves(anAux, []float64{1, 2})
	assert.ErrorIs(t, err, ErrLeafCount)
	anAux.Children[1] = nil
	_, err = FromLeaves(anAux, []float64{1, 2, 3})
	assert.ErrorIs(t, err, ErrLeafCount)

	_, cAux := customMedium(t).ToLeaves()
	_, err = FromLeaves(cAux, make([]float64, 27))
	assert.ErrorIs(t, err, ErrLeafCount)

	_, err = FromLeaves(Aux{Kind: "Drude"}, nil)
	assert.ErrorIs(t, err, ErrUnsupportedKind)
}

type lorentz struct{}

func (lorentz) Kind() medium.Kind { return "Lorentz" }
func (lorentz) Validate() error   { return nil }

// impostor reports a supported kind with the wrong concrete type
type impostor struct{}

func (impostor) Kind() medium.Kind { return medium.KindMedium }
func (impostor) Validate() error   { return nil }

func TestFromPlain(t *testing.T) {
	t.Run("Isotropic", func(t *testing.T) {
		p := &medium.Medium{Name: "glass", Permittivity: 2.25, Conductivity: 0}
		m, err := FromPlain(p)
		require.NoError(t, err)
		assert.Equal(t, &IsotropicMedium{Name: "glass", Permittivity: 2.25}, m)
		assert.Equal(t, p, m.ToPlain())
	})
	t.Run("Anisotropic", func(t *testing.T) {
		p := &medium.AnisotropicMedium{
			Name: "lithium niobate",
			XX:   &medium.Medium{Permittivity: 4.9},
			YY:   &medium.Medium{Permittivity: 4.9},
			ZZ:   &medium.Medium{Permittivity: 4.6},
		}
		m, err := FromPlain(p)
		require.NoError(t, err)
		require.Equal(t, medium.KindAnisotropic, m.Kind())
		assert.Equal(t, 4.6, m.(*AnisotropicMedium).ZZ.Permittivity)
		assert.Equal(t, p, m.ToPlain())

		p.YY = nil
		_, err = FromPlain(p)
		assert.ErrorIs(t, err, medium.ErrInvalidMedium)
	})
	t.Run("Custom", func(t *testing.T) {
		arr, err := medium.NewSpatialDataArray([]float64{0, 1}, []float64{0}, []float64{0}, []float64{2, 3})
		require.NoError(t, err)
		p := &medium.CustomMedium{Name: "graded", EpsDataset: medium.PermittivityDataset{EpsXX: arr}}
		m, err := FromPlain(p)
		require.NoError(t, err)
		arr.Values[0] = 7
		assert.Equal(t, []float64{2, 3}, m.(*CustomMedium).EpsDataset.EpsXX.Values, "conversion must copy")

		plain := m.ToPlain().(*medium.CustomMedium)
		assert.Equal(t, []float64{2, 3}, plain.EpsDataset.EpsXX.Values)
		assert.Nil(t, plain.EpsDataset.EpsYY)
	})
	t.Run("Unsupported", func(t *testing.T) {
		_, err := FromPlain(lorentz{})
		assert.ErrorIs(t, err, ErrUnsupportedKind)
		_, err = FromPlain(impostor{})
		assert.ErrorIs(t, err, ErrUnsupportedKind)
		_, err = FromPlain(nil)
		assert.ErrorIs(t, err, ErrUnsupportedKind)
	})
}

func TestAnisotropicNilComponents(t *testing.T) {
	a := &AnisotropicMedium{Name: "partial", XX: &IsotropicMedium{Permittivity: 2}}

	leaves, aux := a.ToLeaves()
	assert.Equal(t, []float64{2, 0, 0}, leaves)
	require.NotNil(t, aux.Children[1])
	assert.Equal(t, medium.KindMedium, aux.Children[1].Kind)

	back, err := FromLeaves(aux, leaves)
	require.NoError(t, err)
	assert.Equal(t, 0.0, back.(*AnisotropicMedium).ZZ.Permittivity)

	plain, ok := a.ToPlain().(*medium.AnisotropicMedium)
	require.True(t, ok)
	require.NotNil(t, plain.YY)
	assert.Equal(t, 2.0, plain.XX.Permittivity)
	assert.ErrorIs(t, plain.Validate(), medium.ErrInvalidMedium)

	_, err = FromPlain(plain)
	assert.Error(t, err)

	empty := &AnisotropicMedium{}
	leaves, _ = empty.ToLeaves()
	assert.Equal(t, []float64{0, 0, 0}, leaves)
}
