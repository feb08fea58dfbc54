package medium

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMediumValidate(t *testing.T) {
	assert.NoError(t, (&Medium{Permittivity: 1}).Validate())
	assert.ErrorIs(t, (&Medium{Permittivity: 0.5}).Validate(), ErrInvalidMedium)
	assert.ErrorIs(t, (&Medium{Permittivity: 2, Conductivity: -1}).Validate(), ErrInvalidMedium)

	a := &AnisotropicMedium{XX: &Medium{Permittivity: 2}, YY: &Medium{Permittivity: 3}, ZZ: &Medium{Permittivity: 4}}
	require.NoError(t, a.Validate())
	assert.Equal(t, 3.0, a.Components()[1].Permittivity)
	a.ZZ = &Medium{Permittivity: 0}
	err := a.Validate()
	assert.ErrorIs(t, err, ErrInvalidMedium)
	assert.Contains(t, err.Error(), "zz")
}

func TestSpatialDataArray(t *testing.T) {
	arr, err := NewSpatialDataArray([]float64{0, 1}, []float64{0, 1, 2}, []float64{5}, []float64{1, 2, 3, 4, 5, 6})
	require.NoError(t, err)
	assert.Equal(t, [3]int{2, 3, 1}, arr.Shape())
	assert.Equal(t, 6, arr.Size())

	_, err = NewSpatialDataArray([]float64{0, 1}, []float64{0}, []float64{0}, []float64{1})
	assert.ErrorIs(t, err, ErrInvalidMedium)
	_, err = NewSpatialDataArray([]float64{1, 0}, []float64{0}, []float64{0}, []float64{1, 2})
	assert.ErrorIs(t, err, ErrInvalidMedium)
	_, err = NewSpatialDataArray(nil, []float64{0}, []float64{0}, nil)
	assert.ErrorIs(t, err, ErrInvalidMedium)
}

func TestCustomMediumValidate(t *testing.T) {
	arr, err := NewSpatialDataArray([]float64{0}, []float64{0}, []float64{0}, []float64{2})
	require.NoError(t, err)

	c := &CustomMedium{EpsDataset: WithComponents([3]*SpatialDataArray{nil, arr, nil})}
	require.NoError(t, c.Validate())
	assert.Same(t, arr, c.EpsDataset.EpsYY)

	assert.ErrorIs(t, (&CustomMedium{}).Validate(), ErrInvalidMedium)

	arr.Values[0] = 0.5
	err = c.Validate()
	assert.ErrorIs(t, err, ErrInvalidMedium)
	assert.Contains(t, err.Error(), "eps_yy")
}
