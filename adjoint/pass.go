package adjoint

import (
	"context"
	"fmt"

	"github.com/notargets/emadjoint/fielddata"
	"github.com/notargets/emadjoint/geometry"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// StructureGrad is the input of one structure's gradient computation
type StructureGrad struct {
	Name                 string
	Medium               Medium
	Forward, Adjoint     *fielddata.FieldData
	WavelengthInMaterial float64
}

// GradientPass runs StoreVJP for many structures of one simulation
type GradientPass struct {
	SimBounds geometry.Bound
	Options   Options
	Workers   int // <= 0 means unbounded
}

// Run computes every structure's gradient concurrently. Results are in input
// order. Cancelling ctx or any failing structure aborts the whole pass.
func (p *GradientPass) Run(ctx context.Context, items []StructureGrad) ([]Medium, error) {
	log := p.Options.logger()
	out := make([]Medium, len(items))

	g, ctx := errgroup.WithContext(ctx)
	if p.Workers > 0 {
		g.SetLimit(p.Workers)
	}
	for i := range items {
		it := items[i]
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if it.Medium == nil || it.Forward == nil || it.Adjoint == nil {
				return fmt.Errorf("structure %q needs a medium and both field data sets: %w", it.Name, ErrInvalidArgument)
			}
			vjp, err := it.Medium.StoreVJP(it.Forward, it.Adjoint, p.SimBounds, it.WavelengthInMaterial, p.Options)
			if err != nil {
				return fmt.Errorf("structure %q: %w", it.Name, err)
			}
			out[i] = vjp
			log.Debug("stored vjp", zap.String("structure", it.Name), zap.String("kind", string(it.Medium.Kind())))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	log.Info("gradient pass complete", zap.Int("structures", len(items)))
	return out, nil
}
