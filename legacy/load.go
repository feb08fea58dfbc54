package legacy

import (
	"fmt"

	"github.com/notargets/emadjoint/fielddata"
	"github.com/notargets/emadjoint/geometry"
	"github.com/notargets/emadjoint/simulation"
)

// Sampler labels
const (
	FrequencyLabel = "f"
	TimeLabel      = "t"
)

// MonitorData is the loaded output of one monitor. Field monitors fill
// Fields with one coordinate set and one value block per component; flux
// monitors fill Flux.
type MonitorData struct {
	MonitorName   string
	Monitor       fielddata.Monitor
	SamplerLabel  string
	SamplerValues []float64

	Fields  []fielddata.Component
	X, Y, Z [][]float64
	// Values[i] holds component Fields[i] over (x, y, z, sampler), sampler fastest
	Values [][]complex128

	Flux []complex128
}

// LoadMonitorData reads every monitor of sim from store. Field groups are
// stored with shape (3, nx, ny, nz, ns) on the monitor's cell centers.
func LoadMonitorData(sim *simulation.Simulation, store ArrayStore) (map[string]*MonitorData, error) {
	out := make(map[string]*MonitorData, len(sim.Monitors))
	for _, m := range sim.Monitors {
		name := m.MonitorName()
		md := &MonitorData{MonitorName: name, Monitor: simulation.FieldDataMonitor(m)}
		switch s := m.(type) {
		case simulation.FreqMonitor:
			md.SamplerLabel, md.SamplerValues = FrequencyLabel, cloneFloats(s.Frequencies())
		case simulation.TimeMonitor:
			md.SamplerLabel, md.SamplerValues = TimeLabel, cloneFloats(s.TimeSamples())
		}

		switch {
		case simulation.IsFlux(m):
			arr, err := store.Array(name, "flux")
			if err != nil {
				return nil, fmt.Errorf("monitor %q: %w", name, err)
			}
			md.Flux = append([]complex128(nil), arr.Data...)
		default:
			fm, ok := m.(simulation.ScalarFieldMonitor)
			if !ok {
				return nil, fmt.Errorf("monitor %q: %w", name,
					&UnsupportedKindError{Category: "monitor", Kind: m.MonitorKind()})
			}
			if err := md.loadFields(sim, fm, store); err != nil {
				return nil, fmt.Errorf("monitor %q: %w", name, err)
			}
		}
		out[name] = md
	}
	return out, nil
}

func (md *MonitorData) loadFields(sim *simulation.Simulation, m simulation.ScalarFieldMonitor, store ArrayStore) error {
	coords, err := sim.DiscretizeMonitor(m)
	if err != nil {
		return err
	}
	nx, ny, nz, ns := len(coords[0]), len(coords[1]), len(coords[2]), len(md.SamplerValues)
	want := []int{3, nx, ny, nz, ns}
	block := nx * ny * nz * ns

	for _, field := range m.FieldComponents() {
		group := string(field[:1])
		arr, err := store.Array(md.MonitorName, group)
		if err != nil {
			return err
		}
		if !equalShape(arr.Shape, want) {
			return fmt.Errorf("group %s has shape %v, monitor grid needs %v: %w",
				group, arr.Shape, want, fielddata.ErrShapeMismatch)
		}
		comp := componentAxis(field)
		md.Fields = append(md.Fields, field)
		md.X = append(md.X, cloneFloats(coords[0]))
		md.Y = append(md.Y, cloneFloats(coords[1]))
		md.Z = append(md.Z, cloneFloats(coords[2]))
		md.Values = append(md.Values, append([]complex128(nil), arr.Data[comp*block:(comp+1)*block]...))
	}
	return nil
}

// FieldData assembles the loaded components for the gradient computations
func (md *MonitorData) FieldData() (*fielddata.FieldData, error) {
	if len(md.Fields) == 0 {
		return nil, fmt.Errorf("monitor %q: %w", md.MonitorName, ErrNotFieldData)
	}
	comps := make(map[fielddata.Component]*fielddata.ScalarFieldArray, len(md.Fields))
	for i, f := range md.Fields {
		arr, err := fielddata.NewScalarFieldArray(md.X[i], md.Y[i], md.Z[i], md.SamplerValues, md.Values[i])
		if err != nil {
			return nil, fmt.Errorf("monitor %q %s: %w", md.MonitorName, f, err)
		}
		comps[f] = arr
	}
	return fielddata.NewFieldData(md.Monitor, comps)
}

func componentAxis(c fielddata.Component) geometry.Axis {
	switch c[1] {
	case 'y':
		return geometry.Y
	case 'z':
		return geometry.Z
	}
	return geometry.X
}

func equalShape(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func cloneFloats(s []float64) []float64 {
	return append([]float64(nil), s...)
}
