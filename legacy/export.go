package legacy

import (
	"fmt"

	"github.com/notargets/emadjoint/geometry"
	"github.com/notargets/emadjoint/medium"
	"github.com/notargets/emadjoint/simulation"
	"go.uber.org/zap"
)

// Unit conversions from SI to the legacy um/THz/ps units
const (
	SecondsToPicoseconds = 1e12
	HertzToTerahertz     = 1e-12
)

// ExportOptions controls Export. The zero value is strict: any component the
// legacy format cannot express fails the export.
type ExportOptions struct {
	// AllowPartial skips unsupported components with a warning instead of
	// failing. Structures whose medium was skipped are skipped too.
	AllowPartial bool
	Logger       *zap.Logger
}

type exporter struct {
	sim  *simulation.Simulation
	opts ExportOptions
	log  *zap.Logger
}

// Export translates sim into the legacy solver input
func Export(sim *simulation.Simulation, opts ExportOptions) (*Document, error) {
	x := &exporter{sim: sim, opts: opts, log: opts.Logger}
	if x.log == nil {
		x.log = zap.NewNop()
	}

	doc := &Document{Parameters: x.parameters()}
	materials, matIndex, err := x.materials()
	if err != nil {
		return nil, err
	}
	doc.Materials = materials
	if doc.Structures, err = x.structures(matIndex); err != nil {
		return nil, err
	}
	if doc.Sources, err = x.sources(); err != nil {
		return nil, err
	}
	if doc.Monitors, err = x.monitors(); err != nil {
		return nil, err
	}
	x.log.Info("exported legacy document",
		zap.Int("materials", len(doc.Materials)),
		zap.Int("structures", len(doc.Structures)),
		zap.Int("sources", len(doc.Sources)),
		zap.Int("monitors", len(doc.Monitors)))
	return doc, nil
}

func (x *exporter) unsupported(category, kind, name string) error {
	if !x.opts.AllowPartial {
		return &UnsupportedKindError{Category: category, Kind: kind}
	}
	x.log.Warn("skipping unsupported component",
		zap.String("category", category),
		zap.String("kind", kind),
		zap.String("name", name))
	return nil
}

func (x *exporter) parameters() Parameters {
	s := x.sim
	p := Parameters{
		UnitLength:    "um",
		UnitFrequency: "THz",
		UnitTime:      "ps",
		XCent:         s.Center[0],
		YCent:         s.Center[1],
		ZCent:         s.Center[2],
		XSpan:         s.Size[0],
		YSpan:         s.Size[1],
		ZSpan:         s.Size[2],
		MeshStep:      s.GridSize,
		Symmetries:    s.Symmetry,
		RunTime:       s.RunTime * SecondsToPicoseconds,
		Courant:       s.Courant,
		Shutoff:       s.Shutoff,
		Subpixel:      s.Subpixel,
	}
	for _, pml := range s.PMLLayers {
		p.PMLLayers = append(p.PMLLayers, PMLLayer{Profile: pml.Profile, NLayers: pml.NumLayers})
	}
	return p
}

// materials returns the exported materials and the index of each exported
// medium among them
func (x *exporter) materials() ([]Material, map[medium.Material]int, error) {
	media, _ := x.sim.MediumMap()
	out := make([]Material, 0, len(media))
	index := make(map[medium.Material]int, len(media))
	for _, m := range media {
		mat := Material{Name: fmt.Sprintf("mat_%d", len(out)), Type: "Medium", Poles: [][4]float64{}}
		switch m := m.(type) {
		case *medium.Medium:
			mat.Permittivity = [3]float64{m.Permittivity, m.Permittivity, m.Permittivity}
			mat.Conductivity = [3]float64{m.Conductivity, m.Conductivity, m.Conductivity}
		case *medium.AnisotropicMedium:
			for i, c := range m.Components() {
				mat.Permittivity[i] = c.Permittivity
				mat.Conductivity[i] = c.Conductivity
			}
		default:
			if err := x.unsupported("material", string(m.Kind()), ""); err != nil {
				return nil, nil, err
			}
			continue
		}
		index[m] = len(out)
		out = append(out, mat)
	}
	return out, index, nil
}

func (x *exporter) structures(matIndex map[medium.Material]int) ([]Structure, error) {
	out := make([]Structure, 0, len(x.sim.Structures))
	for i, st := range x.sim.Structures {
		name := fmt.Sprintf("struct_%d", i)
		mi, ok := matIndex[st.Medium]
		if !ok {
			x.log.Warn("skipping structure with unexported medium", zap.String("name", name))
			continue
		}
		base := StructureBase{Name: name, MatIndex: mi}
		switch g := st.Geometry.(type) {
		case geometry.Box:
			base.Type = string(geometry.KindBox)
			out = append(out, BoxStructure{StructureBase: base,
				XCent: g.Center[0], YCent: g.Center[1], ZCent: g.Center[2],
				XSpan: g.Size[0], YSpan: g.Size[1], ZSpan: g.Size[2]})
		case geometry.Sphere:
			base.Type = string(geometry.KindSphere)
			out = append(out, SphereStructure{StructureBase: base,
				XCent: g.Center[0], YCent: g.Center[1], ZCent: g.Center[2], Radius: g.Radius})
		case geometry.Cylinder:
			base.Type = string(geometry.KindCylinder)
			out = append(out, CylinderStructure{StructureBase: base,
				XCent: g.Center[0], YCent: g.Center[1], ZCent: g.Center[2],
				Axis: g.Axis.String(), Radius: g.Radius, Height: g.Length})
		case geometry.PolySlab:
			base.Type = string(geometry.KindPolySlab)
			out = append(out, PolySlabStructure{StructureBase: base,
				Vertices: g.Vertices,
				ZCent:    (g.SlabBounds[0] + g.SlabBounds[1]) / 2,
				ZSize:    g.SlabBounds[1] - g.SlabBounds[0]})
		default:
			if err := x.unsupported("geometry", fmt.Sprintf("%T", g), name); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

func (x *exporter) sources() ([]Source, error) {
	out := make([]Source, 0, len(x.sim.Sources))
	for _, src := range x.sim.Sources {
		vs, ok := src.(*simulation.VolumeSource)
		if !ok {
			if err := x.unsupported("source", src.SourceKind(), src.SourceName()); err != nil {
				return nil, err
			}
			continue
		}
		pulse, ok := vs.SourceTime.(simulation.GaussianPulse)
		if !ok {
			kind := "<nil>"
			if vs.SourceTime != nil {
				kind = vs.SourceTime.SourceTimeKind()
			}
			if err := x.unsupported("source time", kind, vs.Name); err != nil {
				return nil, err
			}
			continue
		}
		if len(vs.Polarization) != 2 {
			return nil, fmt.Errorf("source %q has polarization %q", vs.Name, vs.Polarization)
		}
		component := "H"
		if vs.Polarization[0] == 'J' {
			component = "E"
		}
		out = append(out, Source{
			Name: vs.Name,
			Type: "VolumeSource",
			SourceTime: SourceTime{
				Type:      "GaussianPulse",
				Frequency: pulse.Freq0 * HertzToTerahertz,
				FWidth:    pulse.FWidth * HertzToTerahertz,
				Offset:    pulse.Offset,
				Phase:     pulse.Phase,
			},
			Center:    vs.Center,
			Size:      vs.Size,
			Component: component + vs.Polarization[1:],
			Amplitude: pulse.Amplitude,
		})
	}
	return out, nil
}

func (x *exporter) monitors() ([]Monitor, error) {
	out := make([]Monitor, 0, len(x.sim.Monitors))
	for _, m := range x.sim.Monitors {
		b := m.Box()
		base := MonitorBase{
			Name:  m.MonitorName(),
			XCent: b.Center[0], YCent: b.Center[1], ZCent: b.Center[2],
			XSpan: b.Size[0], YSpan: b.Size[1], ZSpan: b.Size[2],
		}
		switch m := m.(type) {
		case *simulation.FieldTimeMonitor, *simulation.FluxTimeMonitor:
			base.Type = "TimeMonitor"
			// t_stop keeps the run time in seconds as the legacy solver reads it
			out = append(out, TimeMonitor{MonitorBase: base, TStop: x.sim.RunTime, Store: store(m)})
		case *simulation.FieldMonitor, *simulation.FluxMonitor:
			base.Type = "FrequencyMonitor"
			freqs := m.(simulation.FreqMonitor).Frequencies()
			thz := make([]float64, len(freqs))
			for i, f := range freqs {
				thz[i] = f * HertzToTerahertz
			}
			out = append(out, FrequencyMonitor{MonitorBase: base, Frequency: thz, Store: store(m), Interpolate: true})
		default:
			if err := x.unsupported("monitor", m.MonitorKind(), m.MonitorName()); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

// store lists the field groups a monitor records: E and H for field
// monitors, flux otherwise
func store(m simulation.Monitor) []string {
	fm, ok := m.(simulation.ScalarFieldMonitor)
	if !ok {
		return []string{"flux"}
	}
	var hasE, hasH bool
	for _, f := range fm.FieldComponents() {
		switch f[0] {
		case 'E':
			hasE = true
		case 'H':
			hasH = true
		}
	}
	out := []string{}
	if hasE {
		out = append(out, "E")
	}
	if hasH {
		out = append(out, "H")
	}
	return out
}
