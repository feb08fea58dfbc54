package adjoint

import (
	"context"
	"testing"

	"github.com/notargets/emadjoint/fielddata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestGradientPass(t *testing.T) {
	defer goleak.VerifyNone(t)

	fwd := electric(t, constant(1), constant(2), constant(3))
	adj := electric(t, constant(1), constant(1), constant(1))
	core, logs := observer.New(zap.DebugLevel)
	opts := DefaultOptions()
	opts.Logger = zap.New(core)

	items := []StructureGrad{
		{Name: "ring", Medium: &IsotropicMedium{Permittivity: 12}, Forward: fwd, Adjoint: adj, WavelengthInMaterial: 0.5},
		{Name: "crystal", Medium: anisotropic(2, 2, 2), Forward: fwd, Adjoint: adj, WavelengthInMaterial: 0.5},
		{Name: "graded", Medium: customMedium(t), Forward: fwd, Adjoint: adj, WavelengthInMaterial: 0.5},
	}
	pass := &GradientPass{SimBounds: unitCube, Options: opts, Workers: 2}
	out, err := pass.Run(context.Background(), items)
	require.NoError(t, err)
	require.Len(t, out, len(items))

	for i, m := range out {
		assert.Equal(t, items[i].Medium.Kind(), m.Kind(), items[i].Name)
	}
	assert.InDelta(t, 6.0, out[0].(*IsotropicMedium).Permittivity, 1e-9)
	assert.InDelta(t, 2.0, out[1].(*AnisotropicMedium).YY.Permittivity, 1e-9)
	assert.Equal(t, 1, logs.FilterMessage("gradient pass complete").Len())
	assert.Equal(t, len(items), logs.FilterMessage("stored vjp").Len())
}

func TestGradientPassErrors(t *testing.T) {
	defer goleak.VerifyNone(t)

	fwd := electric(t, constant(1), constant(1), constant(1))
	pass := &GradientPass{SimBounds: unitCube, Options: DefaultOptions()}

	t.Run("Cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := pass.Run(ctx, []StructureGrad{
			{Name: "a", Medium: &IsotropicMedium{}, Forward: fwd, Adjoint: fwd, WavelengthInMaterial: 1},
		})
		assert.ErrorIs(t, err, context.Canceled)
	})
	t.Run("MissingInput", func(t *testing.T) {
		_, err := pass.Run(context.Background(), []StructureGrad{{Name: "empty"}})
		assert.ErrorIs(t, err, ErrInvalidArgument)
	})
	t.Run("FailingStructure", func(t *testing.T) {
		onlyEx := sampledData(t, cubeMonitor, cubeCoords, map[fielddata.Component]fieldFunc{fielddata.Ex: constant(1)})
		_, err := pass.Run(context.Background(), []StructureGrad{
			{Name: "ok", Medium: &IsotropicMedium{}, Forward: fwd, Adjoint: fwd, WavelengthInMaterial: 1},
			{Name: "broken", Medium: &IsotropicMedium{}, Forward: onlyEx, Adjoint: onlyEx, WavelengthInMaterial: 1},
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, fielddata.ErrMissingComponent)
		assert.Contains(t, err.Error(), `"broken"`)
	})
	t.Run("Empty", func(t *testing.T) {
		out, err := pass.Run(context.Background(), nil)
		require.NoError(t, err)
		assert.Empty(t, out)
	})
}
