package adjoint

import (
	"fmt"

	"github.com/notargets/emadjoint/medium"
)

// Aux is the static, non-differentiable structure needed to rebuild a
// medium from its leaves
type Aux struct {
	Kind         medium.Kind
	Name         string
	Conductivity float64

	// Children describes xx, yy, zz of an anisotropic medium
	Children [3]*Aux

	// Grids describes eps_xx, eps_yy, eps_zz of a custom medium; absent
	// components are nil
	Grids [3]*GridAux
}

// GridAux holds the coordinates of one custom medium component
type GridAux struct {
	X, Y, Z []float64
}

func (g *GridAux) size() int { return len(g.X) * len(g.Y) * len(g.Z) }

func (m *IsotropicMedium) ToLeaves() ([]float64, Aux) {
	return []float64{m.Permittivity}, Aux{Kind: medium.KindMedium, Name: m.Name, Conductivity: m.Conductivity}
}

func (a *AnisotropicMedium) ToLeaves() ([]float64, Aux) {
	leaves := make([]float64, 0, 3)
	aux := Aux{Kind: medium.KindAnisotropic, Name: a.Name}
	for i, c := range a.Components() {
		l, ca := c.ToLeaves()
		leaves = append(leaves, l...)
		aux.Children[i] = &ca
	}
	return leaves, aux
}

// ToLeaves concatenates the values of the present components in axis order
func (c *CustomMedium) ToLeaves() ([]float64, Aux) {
	var leaves []float64
	aux := Aux{Kind: medium.KindCustom, Name: c.Name}
	for i, arr := range c.EpsDataset.Components() {
		if arr == nil {
			continue
		}
		leaves = append(leaves, arr.Values...)
		aux.Grids[i] = &GridAux{X: cloneFloats(arr.X), Y: cloneFloats(arr.Y), Z: cloneFloats(arr.Z)}
	}
	return leaves, aux
}

var unflatteners = map[medium.Kind]func(Aux, []float64) (Medium, error){
	medium.KindMedium: func(aux Aux, leaves []float64) (Medium, error) {
		return unflattenIsotropic(aux, leaves)
	},
	medium.KindAnisotropic: unflattenAnisotropic,
	medium.KindCustom:      unflattenCustom,
}

// FromLeaves rebuilds the medium described by aux from its leaves. It is the
// inverse of Medium.ToLeaves.
func FromLeaves(aux Aux, leaves []float64) (Medium, error) {
	fn, ok := unflatteners[aux.Kind]
	if !ok {
		return nil, fmt.Errorf("unflatten %q: %w", aux.Kind, ErrUnsupportedKind)
	}
	return fn(aux, leaves)
}

func unflattenIsotropic(aux Aux, leaves []float64) (*IsotropicMedium, error) {
	if len(leaves) != 1 {
		return nil, fmt.Errorf("isotropic medium takes 1 leaf, got %d: %w", len(leaves), ErrLeafCount)
	}
	return &IsotropicMedium{Name: aux.Name, Permittivity: leaves[0], Conductivity: aux.Conductivity}, nil
}

func unflattenAnisotropic(aux Aux, leaves []float64) (Medium, error) {
	if len(leaves) != 3 {
		return nil, fmt.Errorf("anisotropic medium takes 3 leaves, got %d: %w", len(leaves), ErrLeafCount)
	}
	var c [3]*IsotropicMedium
	for i, child := range aux.Children {
		if child == nil {
			return nil, fmt.Errorf("anisotropic aux missing %s: %w", medium.DiagonalNames[i], ErrLeafCount)
		}
		m, err := unflattenIsotropic(*child, leaves[i:i+1])
		if err != nil {
			return nil, err
		}
		c[i] = m
	}
	return &AnisotropicMedium{Name: aux.Name, XX: c[0], YY: c[1], ZZ: c[2]}, nil
}

func unflattenCustom(aux Aux, leaves []float64) (Medium, error) {
	var (
		want int
		out  [3]*medium.SpatialDataArray
	)
	for _, g := range aux.Grids {
		if g != nil {
			want += g.size()
		}
	}
	if len(leaves) != want {
		return nil, fmt.Errorf("custom medium takes %d leaves, got %d: %w", want, len(leaves), ErrLeafCount)
	}

	var offset int
	for i, g := range aux.Grids {
		if g == nil {
			continue
		}
		n := g.size()
		out[i] = &medium.SpatialDataArray{
			X:      cloneFloats(g.X),
			Y:      cloneFloats(g.Y),
			Z:      cloneFloats(g.Z),
			Values: cloneFloats(leaves[offset : offset+n]),
		}
		offset += n
	}
	return &CustomMedium{Name: aux.Name, EpsDataset: medium.WithComponents(out)}, nil
}
