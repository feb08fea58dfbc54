package adjoint

import (
	"fmt"

	"github.com/notargets/emadjoint/fielddata"
	"github.com/notargets/emadjoint/geometry"
	"github.com/notargets/emadjoint/medium"
	"gonum.org/v1/gonum/floats"
)

// Medium is a differentiable medium. StoreVJP never mutates the receiver; it
// returns a new medium of the same kind whose permittivity values are
// replaced by the gradient of the objective with respect to them.
type Medium interface {
	Kind() medium.Kind
	StoreVJP(fwd, adj *fielddata.FieldData, simBounds geometry.Bound, wvlMat float64, opts Options) (Medium, error)
	ToLeaves() ([]float64, Aux)
	ToPlain() medium.Material
}

// IsotropicMedium is a differentiable medium.Medium
type IsotropicMedium struct {
	Name         string
	Permittivity float64
	Conductivity float64
}

func (m *IsotropicMedium) Kind() medium.Kind { return medium.KindMedium }

// StoreVJP integrates the Ex, Ey and Ez contributions into one permittivity gradient
func (m *IsotropicMedium) StoreVJP(fwd, adj *fielddata.FieldData, simBounds geometry.Bound,
	wvlMat float64, opts Options) (Medium, error) {
	var vjp float64
	for _, field := range fielddata.ElectricComponents {
		c, err := FieldContribution(field, fwd, adj, simBounds, wvlMat, opts)
		if err != nil {
			return nil, err
		}
		vjp += c
	}
	out := *m
	out.Permittivity = vjp
	return &out, nil
}

func (m *IsotropicMedium) ToPlain() medium.Material { return m.plain() }

func (m *IsotropicMedium) plain() *medium.Medium {
	return &medium.Medium{Name: m.Name, Permittivity: m.Permittivity, Conductivity: m.Conductivity}
}

// AnisotropicMedium is a differentiable diagonal anisotropic medium. A nil
// component reads as the zero IsotropicMedium, which the plain medium
// rejects on validation.
type AnisotropicMedium struct {
	Name       string
	XX, YY, ZZ *IsotropicMedium
}

func (a *AnisotropicMedium) Kind() medium.Kind { return medium.KindAnisotropic }

// Components returns xx, yy, zz in axis order, never nil
func (a *AnisotropicMedium) Components() [3]*IsotropicMedium {
	c := [3]*IsotropicMedium{a.XX, a.YY, a.ZZ}
	for i := range c {
		if c[i] == nil {
			c[i] = &IsotropicMedium{}
		}
	}
	return c
}

// StoreVJP computes each diagonal entry from the matching E component only.
// Off-diagonal coupling is not represented.
func (a *AnisotropicMedium) StoreVJP(fwd, adj *fielddata.FieldData, simBounds geometry.Bound,
	wvlMat float64, opts Options) (Medium, error) {
	var vjp [3]*IsotropicMedium
	for _, axis := range geometry.Axes {
		field := fielddata.ElectricComponent(axis)
		c, err := FieldContribution(field, fwd, adj, simBounds, wvlMat, opts)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", medium.DiagonalNames[axis], err)
		}
		vjp[axis] = &IsotropicMedium{Permittivity: c}
	}
	return &AnisotropicMedium{Name: a.Name, XX: vjp[0], YY: vjp[1], ZZ: vjp[2]}, nil
}

func (a *AnisotropicMedium) ToPlain() medium.Material {
	c := a.Components()
	return &medium.AnisotropicMedium{Name: a.Name, XX: c[0].plain(), YY: c[1].plain(), ZZ: c[2].plain()}
}

// CustomMedium is a differentiable spatially varying medium
type CustomMedium struct {
	Name       string
	EpsDataset medium.PermittivityDataset
}

func (c *CustomMedium) Kind() medium.Kind { return medium.KindCustom }

// StoreVJP evaluates Re(E_fwd * E_adj) on each component's own voxel grid.
// Axes stored with a single coordinate take the first field sample instead of
// being interpolated. The result is scaled by opts.CustomVolumeElement and
// keeps the original coordinates and shape.
func (c *CustomMedium) StoreVJP(fwd, adj *fielddata.FieldData, _ geometry.Bound,
	_ float64, opts Options) (Medium, error) {
	var vjp [3]*medium.SpatialDataArray
	for _, axis := range geometry.Axes {
		orig := c.EpsDataset.Components()[axis]
		if orig == nil {
			continue
		}
		name := medium.DatasetNames[axis]
		field := fielddata.ElectricComponent(axis)

		eFwd, err := fwd.Component(field)
		if err != nil {
			return nil, fmt.Errorf("%s forward data: %w", name, err)
		}
		eAdj, err := adj.Component(field)
		if err != nil {
			return nil, fmt.Errorf("%s adjoint data: %w", name, err)
		}
		grid, err := fielddata.RealProduct(eFwd, eAdj, 0)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		for d, coords := range orig.Coords() {
			if len(coords) <= 1 {
				grid, err = grid.Isel(d, 0)
			} else {
				grid, err = grid.Interp(d, coords)
			}
			if err != nil {
				return nil, fmt.Errorf("%s: %w", name, err)
			}
		}
		if len(grid.Values) != orig.Size() {
			return nil, fmt.Errorf("%s: gradient has %d values for grid %v: %w",
				name, len(grid.Values), orig.Shape(), fielddata.ErrShapeMismatch)
		}

		values := grid.Values
		floats.Scale(opts.CustomVolumeElement, values)
		vjp[axis] = &medium.SpatialDataArray{
			X:      cloneFloats(orig.X),
			Y:      cloneFloats(orig.Y),
			Z:      cloneFloats(orig.Z),
			Values: values,
		}
	}
	return &CustomMedium{Name: c.Name, EpsDataset: medium.WithComponents(vjp)}, nil
}

func (c *CustomMedium) ToPlain() medium.Material {
	return &medium.CustomMedium{Name: c.Name, EpsDataset: cloneDataset(c.EpsDataset)}
}

func cloneDataset(d medium.PermittivityDataset) medium.PermittivityDataset {
	var out [3]*medium.SpatialDataArray
	for i, a := range d.Components() {
		if a == nil {
			continue
		}
		out[i] = &medium.SpatialDataArray{
			X:      cloneFloats(a.X),
			Y:      cloneFloats(a.Y),
			Z:      cloneFloats(a.Z),
			Values: cloneFloats(a.Values),
		}
	}
	return medium.WithComponents(out)
}

func cloneFloats(s []float64) []float64 {
	out := make([]float64, len(s))
	copy(out, s)
	return out
}
