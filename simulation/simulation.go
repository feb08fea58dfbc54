// Package simulation holds the subset of the simulation description read by
// the legacy format bridge and the gradient tooling.
package simulation

import (
	"errors"
	"fmt"

	"github.com/notargets/emadjoint/geometry"
	"github.com/notargets/emadjoint/medium"
)

var ErrInvalidSimulation = errors.New("invalid simulation")

// PML describes the absorbing layers along one axis
type PML struct {
	Profile   string
	NumLayers int
}

// Structure places a medium inside a geometry
type Structure struct {
	Name     string
	Geometry geometry.Geometry
	Medium   medium.Material
}

type Simulation struct {
	Center    [3]float64 // um
	Size      [3]float64 // um
	GridSize  float64    // um
	Symmetry  [3]int     // -1, 0 or 1 per axis
	PMLLayers [3]PML
	RunTime   float64 // s
	Courant   float64
	Shutoff   float64
	Subpixel  bool

	// Medium is the background medium
	Medium     medium.Material
	Structures []Structure
	Sources    []Source
	Monitors   []Monitor
}

// Bounds is the simulation domain
func (s *Simulation) Bounds() geometry.Bound {
	return geometry.NewBound(s.Center, s.Size)
}

// MediumMap lists the distinct media in use, background first and then
// structure media in order of first use. Media are distinct by identity, so
// two equal values held by different pointers are both listed. index maps
// each listed medium to its position.
func (s *Simulation) MediumMap() (media []medium.Material, index map[medium.Material]int) {
	index = make(map[medium.Material]int)
	add := func(m medium.Material) {
		if m == nil {
			return
		}
		if _, ok := index[m]; ok {
			return
		}
		index[m] = len(media)
		media = append(media, m)
	}
	add(s.Medium)
	for _, st := range s.Structures {
		add(st.Medium)
	}
	return
}

// Source returns the source with the given name
func (s *Simulation) Source(name string) (Source, bool) {
	for _, src := range s.Sources {
		if src.SourceName() == name {
			return src, true
		}
	}
	return nil, false
}

// Monitor returns the monitor with the given name
func (s *Simulation) Monitor(name string) (Monitor, bool) {
	for _, m := range s.Monitors {
		if m.MonitorName() == name {
			return m, true
		}
	}
	return nil, false
}

// Validate checks the domain, every structure and the uniqueness of source
// and monitor names
func (s *Simulation) Validate() error {
	for i, sz := range s.Size {
		if sz < 0 {
			return fmt.Errorf("size along %s is negative: %w", geometry.Axes[i], ErrInvalidSimulation)
		}
	}
	if !(s.GridSize > 0) {
		return fmt.Errorf("grid size %g must be positive: %w", s.GridSize, ErrInvalidSimulation)
	}
	for i, sym := range s.Symmetry {
		if sym < -1 || sym > 1 {
			return fmt.Errorf("symmetry %d along %s: %w", sym, geometry.Axes[i], ErrInvalidSimulation)
		}
	}
	if s.RunTime < 0 {
		return fmt.Errorf("run time %g is negative: %w", s.RunTime, ErrInvalidSimulation)
	}
	if s.Medium == nil {
		return fmt.Errorf("no background medium: %w", ErrInvalidSimulation)
	}
	if err := s.Medium.Validate(); err != nil {
		return fmt.Errorf("background medium: %w", err)
	}
	for i, st := range s.Structures {
		if st.Geometry == nil || st.Medium == nil {
			return fmt.Errorf("structure %d needs a geometry and a medium: %w", i, ErrInvalidSimulation)
		}
		if err := geometry.Validate(st.Geometry); err != nil {
			return fmt.Errorf("structure %d: %w", i, err)
		}
		if err := st.Medium.Validate(); err != nil {
			return fmt.Errorf("structure %d: %w", i, err)
		}
	}

	seen := make(map[string]bool)
	for _, src := range s.Sources {
		if seen[src.SourceName()] {
			return fmt.Errorf("duplicate source %q: %w", src.SourceName(), ErrInvalidSimulation)
		}
		seen[src.SourceName()] = true
	}
	seen = make(map[string]bool)
	for _, m := range s.Monitors {
		if seen[m.MonitorName()] {
			return fmt.Errorf("duplicate monitor %q: %w", m.MonitorName(), ErrInvalidSimulation)
		}
		seen[m.MonitorName()] = true
	}
	return nil
}
