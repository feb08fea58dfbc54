package simulation

import (
	"fmt"
	"math"

	"github.com/notargets/emadjoint/geometry"
	"gonum.org/v1/gonum/floats"
)

// CellCenters returns the centers of the uniform GridSize cells spanning the
// domain along axis
func (s *Simulation) CellCenters(axis geometry.Axis) []float64 {
	b := s.Bounds()
	n := int(math.Round(s.Size[axis] / s.GridSize))
	if n < 1 {
		n = 1
	}
	dl := (b.Max[axis] - b.Min[axis]) / float64(n)
	if n == 1 {
		return []float64{b.Min[axis] + dl/2}
	}
	return floats.Span(make([]float64, n), b.Min[axis]+dl/2, b.Max[axis]-dl/2)
}

// DiscretizeMonitor returns the cell centers at which the solver records a
// monitor. Along an axis of zero thickness, or one thinner than a cell, the
// center nearest the monitor center is used.
func (s *Simulation) DiscretizeMonitor(m Monitor) (coords [3][]float64, err error) {
	if !(s.GridSize > 0) {
		return coords, fmt.Errorf("grid size %g must be positive: %w", s.GridSize, ErrInvalidSimulation)
	}
	box := m.Box()
	mb := box.Bounds()
	for _, axis := range geometry.Axes {
		centers := s.CellCenters(axis)
		if mb.Max[axis] > mb.Min[axis] {
			for _, c := range centers {
				if c >= mb.Min[axis] && c <= mb.Max[axis] {
					coords[axis] = append(coords[axis], c)
				}
			}
		}
		if len(coords[axis]) == 0 {
			dist := make([]float64, len(centers))
			for i, c := range centers {
				dist[i] = math.Abs(c - box.Center[axis])
			}
			coords[axis] = []float64{centers[floats.MinIdx(dist)]}
		}
	}
	return coords, nil
}
