package adjoint

import (
	"fmt"

	"github.com/notargets/emadjoint/fielddata"
	"github.com/notargets/emadjoint/geometry"
	"go.uber.org/zap"
)

// FieldContribution integrates Re(E_fwd * E_adj) of one field component over
// the forward monitor region clipped to the simulation. The adjoint data is
// assumed to be recorded on the same monitor grid; a disagreement is
// reported as fielddata.ErrShapeMismatch.
func FieldContribution(field fielddata.Component, fwd, adj *fielddata.FieldData,
	simBounds geometry.Bound, wvlMat float64, opts Options) (float64, error) {

	disc, err := Discretize(fwd.Monitor.Bounds(), simBounds, wvlMat, opts.PointsPerWavelength)
	if err != nil {
		return 0, err
	}

	eFwd, err := fwd.Component(field)
	if err != nil {
		return 0, fmt.Errorf("forward data: %w", err)
	}
	eAdj, err := adj.Component(field)
	if err != nil {
		return 0, fmt.Errorf("adjoint data: %w", err)
	}

	integrand, err := fielddata.RealProduct(eFwd, eAdj, 0)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", field, err)
	}
	for axis, coords := range disc.Coords {
		if coords == nil {
			continue
		}
		if integrand, err = integrand.Interp(axis, coords); err != nil {
			return 0, fmt.Errorf("%s: %w", field, err)
		}
	}

	sum, err := opts.reducer().Sum(integrand.Values)
	if err != nil {
		return 0, fmt.Errorf("%s: reduce %d samples: %w", field, len(integrand.Values), err)
	}
	vjp := disc.DVol * sum

	opts.logger().Debug("field contribution",
		zap.String("field", string(field)),
		zap.String("monitor", fwd.Monitor.Name),
		zap.Stringer("dims", disc.Dimensions()),
		zap.Int("samples", len(integrand.Values)),
		zap.Float64("dvol", disc.DVol),
		zap.Float64("vjp", vjp))
	return vjp, nil
}
