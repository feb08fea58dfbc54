package fielddata

import (
	"fmt"

	"github.com/notargets/emadjoint/geometry"
)

// Component labels a field polarization
type Component string

const (
	Ex Component = "Ex"
	Ey Component = "Ey"
	Ez Component = "Ez"
	Hx Component = "Hx"
	Hy Component = "Hy"
	Hz Component = "Hz"
)

// ElectricComponents lists Ex, Ey, Ez in axis order
var ElectricComponents = [3]Component{Ex, Ey, Ez}

// ElectricComponent returns E along axis
func ElectricComponent(axis geometry.Axis) Component {
	return ElectricComponents[axis]
}

// ParseComponent validates a label such as "Ey"
func ParseComponent(s string) (Component, error) {
	switch c := Component(s); c {
	case Ex, Ey, Ez, Hx, Hy, Hz:
		return c, nil
	}
	return "", fmt.Errorf("unknown field component %q", s)
}

// Monitor is the recording region a FieldData was captured on
type Monitor struct {
	Name   string
	Center [3]float64
	Size   [3]float64
}

func (m Monitor) Bounds() geometry.Bound {
	return geometry.NewBound(m.Center, m.Size)
}

// FieldData associates a monitor with its recorded field components.
// It is treated as immutable once built.
type FieldData struct {
	Monitor    Monitor
	Components map[Component]*ScalarFieldArray
}

// NewFieldData validates every component array
func NewFieldData(mon Monitor, components map[Component]*ScalarFieldArray) (*FieldData, error) {
	for c, a := range components {
		if a == nil {
			return nil, fmt.Errorf("component %s is nil", c)
		}
		if err := a.Validate(); err != nil {
			return nil, fmt.Errorf("component %s: %w", c, err)
		}
	}
	return &FieldData{Monitor: mon, Components: components}, nil
}

// Component returns the named array or ErrMissingComponent
func (fd *FieldData) Component(c Component) (*ScalarFieldArray, error) {
	a, ok := fd.Components[c]
	if !ok || a == nil {
		return nil, fmt.Errorf("monitor %q component %s: %w", fd.Monitor.Name, c, ErrMissingComponent)
	}
	return a, nil
}
