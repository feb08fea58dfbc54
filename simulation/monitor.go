package simulation

import (
	"github.com/notargets/emadjoint/fielddata"
	"github.com/notargets/emadjoint/geometry"
)

// Monitor records data over a box during the simulation
type Monitor interface {
	MonitorName() string
	MonitorKind() string
	Box() geometry.Box
}

// FreqMonitor is a monitor sampled at fixed frequencies
type FreqMonitor interface {
	Monitor
	Frequencies() []float64
}

// TimeMonitor is a monitor sampled at fixed times
type TimeMonitor interface {
	Monitor
	TimeSamples() []float64
}

// ScalarFieldMonitor records field components on a spatial grid
type ScalarFieldMonitor interface {
	Monitor
	FieldComponents() []fielddata.Component
}

type base struct {
	Name         string
	Center, Size [3]float64
}

func (b *base) MonitorName() string { return b.Name }
func (b *base) Box() geometry.Box  { return geometry.Box{Center: b.Center, Size: b.Size} }

// FieldMonitor records field components in the frequency domain
type FieldMonitor struct {
	base
	Fields []fielddata.Component
	Freqs  []float64 // Hz
}

func NewFieldMonitor(name string, center, size [3]float64, fields []fielddata.Component, freqs []float64) *FieldMonitor {
	return &FieldMonitor{base: base{name, center, size}, Fields: fields, Freqs: freqs}
}

func (m *FieldMonitor) MonitorKind() string                    { return "FieldMonitor" }
func (m *FieldMonitor) Frequencies() []float64                 { return m.Freqs }
func (m *FieldMonitor) FieldComponents() []fielddata.Component { return m.Fields }

// FieldTimeMonitor records field components in the time domain
type FieldTimeMonitor struct {
	base
	Fields []fielddata.Component
	Times  []float64 // s
}

func NewFieldTimeMonitor(name string, center, size [3]float64, fields []fielddata.Component, times []float64) *FieldTimeMonitor {
	return &FieldTimeMonitor{base: base{name, center, size}, Fields: fields, Times: times}
}

func (m *FieldTimeMonitor) MonitorKind() string                    { return "FieldTimeMonitor" }
func (m *FieldTimeMonitor) TimeSamples() []float64                 { return m.Times }
func (m *FieldTimeMonitor) FieldComponents() []fielddata.Component { return m.Fields }

// FluxMonitor records the power flux through a plane per frequency
type FluxMonitor struct {
	base
	Freqs []float64
}

func NewFluxMonitor(name string, center, size [3]float64, freqs []float64) *FluxMonitor {
	return &FluxMonitor{base: base{name, center, size}, Freqs: freqs}
}

func (m *FluxMonitor) MonitorKind() string    { return "FluxMonitor" }
func (m *FluxMonitor) Frequencies() []float64 { return m.Freqs }

// FluxTimeMonitor records the power flux through a plane over time
type FluxTimeMonitor struct {
	base
	Times []float64
}

func NewFluxTimeMonitor(name string, center, size [3]float64, times []float64) *FluxTimeMonitor {
	return &FluxTimeMonitor{base: base{name, center, size}, Times: times}
}

func (m *FluxTimeMonitor) MonitorKind() string    { return "FluxTimeMonitor" }
func (m *FluxTimeMonitor) TimeSamples() []float64 { return m.Times }

// ModeMonitor decomposes the fields on a plane into waveguide modes
type ModeMonitor struct {
	base
	Freqs    []float64
	NumModes int
}

func NewModeMonitor(name string, center, size [3]float64, freqs []float64, numModes int) *ModeMonitor {
	return &ModeMonitor{base: base{name, center, size}, Freqs: freqs, NumModes: numModes}
}

func (m *ModeMonitor) MonitorKind() string    { return "ModeMonitor" }
func (m *ModeMonitor) Frequencies() []float64 { return m.Freqs }

// IsFlux reports whether m records power flux
func IsFlux(m Monitor) bool {
	switch m.(type) {
	case *FluxMonitor, *FluxTimeMonitor:
		return true
	}
	return false
}

// FieldDataMonitor describes m as the monitor of a fielddata.FieldData
func FieldDataMonitor(m Monitor) fielddata.Monitor {
	b := m.Box()
	return fielddata.Monitor{Name: m.MonitorName(), Center: b.Center, Size: b.Size}
}
