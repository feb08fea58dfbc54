package adjoint

import (
	"fmt"

	"github.com/notargets/emadjoint/medium"
)

var fromPlain = map[medium.Kind]func(medium.Material) (Medium, error){
	medium.KindMedium: func(m medium.Material) (Medium, error) {
		p, ok := m.(*medium.Medium)
		if !ok {
			return nil, fmt.Errorf("%T reports kind %s: %w", m, m.Kind(), ErrUnsupportedKind)
		}
		return isotropicFromPlain(p), nil
	},
	medium.KindAnisotropic: func(m medium.Material) (Medium, error) {
		p, ok := m.(*medium.AnisotropicMedium)
		if !ok {
			return nil, fmt.Errorf("%T reports kind %s: %w", m, m.Kind(), ErrUnsupportedKind)
		}
		if err := p.Validate(); err != nil {
			return nil, err
		}
		return &AnisotropicMedium{
			Name: p.Name,
			XX:   isotropicFromPlain(p.XX),
			YY:   isotropicFromPlain(p.YY),
			ZZ:   isotropicFromPlain(p.ZZ),
		}, nil
	},
	medium.KindCustom: func(m medium.Material) (Medium, error) {
		p, ok := m.(*medium.CustomMedium)
		if !ok {
			return nil, fmt.Errorf("%T reports kind %s: %w", m, m.Kind(), ErrUnsupportedKind)
		}
		if err := p.EpsDataset.Validate(); err != nil {
			return nil, err
		}
		return &CustomMedium{Name: p.Name, EpsDataset: cloneDataset(p.EpsDataset)}, nil
	},
}

// FromPlain converts a plain medium into its differentiable counterpart
func FromPlain(m medium.Material) (Medium, error) {
	if m == nil {
		return nil, fmt.Errorf("nil medium: %w", ErrUnsupportedKind)
	}
	fn, ok := fromPlain[m.Kind()]
	if !ok {
		return nil, fmt.Errorf("no differentiable form for %q: %w", m.Kind(), ErrUnsupportedKind)
	}
	return fn(m)
}

func isotropicFromPlain(p *medium.Medium) *IsotropicMedium {
	return &IsotropicMedium{Name: p.Name, Permittivity: p.Permittivity, Conductivity: p.Conductivity}
}
