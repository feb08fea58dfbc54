package simulation

import (
	"fmt"
	"io"
	"os"

	"github.com/notargets/emadjoint/fielddata"
	"github.com/notargets/emadjoint/geometry"
	"github.com/notargets/emadjoint/medium"
	"gopkg.in/yaml.v3"
)

// Scenario defaults for fields left out of a document
const (
	DefaultCourant = 0.99
	DefaultShutoff = 1e-5
	DefaultOffset  = 5.0
)

// scenario is the YAML form of a Simulation. Media are declared once under
// media and referenced by name, so structures naming the same entry share
// one medium.
type scenario struct {
	Center     []float64             `yaml:"center"`
	Size       []float64             `yaml:"size"`
	GridSize   float64               `yaml:"grid_size"`
	Symmetry   []int                 `yaml:"symmetry"`
	PMLLayers  []pmlSpec             `yaml:"pml_layers"`
	RunTime    float64               `yaml:"run_time"`
	Courant    *float64              `yaml:"courant"`
	Shutoff    *float64              `yaml:"shutoff"`
	Subpixel   *bool                 `yaml:"subpixel"`
	Medium     string                `yaml:"medium"`
	Media      map[string]mediumSpec `yaml:"media"`
	Structures []structureSpec       `yaml:"structures"`
	Sources    []sourceSpec          `yaml:"sources"`
	Monitors   []monitorSpec         `yaml:"monitors"`
}

type pmlSpec struct {
	Profile   string `yaml:"profile"`
	NumLayers int    `yaml:"num_layers"`
}

type mediumSpec struct {
	Type         string       `yaml:"type"`
	Permittivity float64      `yaml:"permittivity"`
	Conductivity float64      `yaml:"conductivity"`
	XX           *mediumSpec  `yaml:"xx"`
	YY           *mediumSpec  `yaml:"yy"`
	ZZ           *mediumSpec  `yaml:"zz"`
	EpsXX        *datasetSpec `yaml:"eps_xx"`
	EpsYY        *datasetSpec `yaml:"eps_yy"`
	EpsZZ        *datasetSpec `yaml:"eps_zz"`
}

type datasetSpec struct {
	X      []float64 `yaml:"x"`
	Y      []float64 `yaml:"y"`
	Z      []float64 `yaml:"z"`
	Values []float64 `yaml:"values"`
}

type geometrySpec struct {
	Type       string      `yaml:"type"`
	Center     []float64   `yaml:"center"`
	Size       []float64   `yaml:"size"`
	Radius     float64     `yaml:"radius"`
	Length     float64     `yaml:"length"`
	Axis       string      `yaml:"axis"`
	Vertices   [][]float64 `yaml:"vertices"`
	SlabBounds []float64   `yaml:"slab_bounds"`
}

type structureSpec struct {
	Name     string       `yaml:"name"`
	Geometry geometrySpec `yaml:"geometry"`
	Medium   string       `yaml:"medium"`
}

type sourceTimeSpec struct {
	Type      string   `yaml:"type"`
	Freq0     float64  `yaml:"freq0"`
	FWidth    float64  `yaml:"fwidth"`
	Offset    *float64 `yaml:"offset"`
	Phase     float64  `yaml:"phase"`
	Amplitude *float64 `yaml:"amplitude"`
}

type sourceSpec struct {
	Name         string         `yaml:"name"`
	Type         string         `yaml:"type"`
	Center       []float64      `yaml:"center"`
	Size         []float64      `yaml:"size"`
	Polarization string         `yaml:"polarization"`
	Direction    string         `yaml:"direction"`
	SourceTime   sourceTimeSpec `yaml:"source_time"`
}

type monitorSpec struct {
	Name     string    `yaml:"name"`
	Type     string    `yaml:"type"`
	Center   []float64 `yaml:"center"`
	Size     []float64 `yaml:"size"`
	Fields   []string  `yaml:"fields"`
	Freqs    []float64 `yaml:"freqs"`
	Times    []float64 `yaml:"times"`
	NumModes int       `yaml:"num_modes"`
}

// Load reads and validates a YAML scenario file
func Load(path string) (*Simulation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open scenario: %w", err)
	}
	defer f.Close()
	sim, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sim, nil
}

// Decode reads and validates a YAML scenario. Unknown keys are rejected.
func Decode(r io.Reader) (*Simulation, error) {
	var sc scenario
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&sc); err != nil {
		return nil, fmt.Errorf("failed to parse scenario: %w", err)
	}
	sim, err := sc.build()
	if err != nil {
		return nil, err
	}
	if err := sim.Validate(); err != nil {
		return nil, err
	}
	return sim, nil
}

func (sc *scenario) build() (*Simulation, error) {
	var err error
	sim := &Simulation{
		GridSize: sc.GridSize,
		RunTime:  sc.RunTime,
		Courant:  DefaultCourant,
		Shutoff:  DefaultShutoff,
		Subpixel: true,
	}
	if sc.Courant != nil {
		sim.Courant = *sc.Courant
	}
	if sc.Shutoff != nil {
		sim.Shutoff = *sc.Shutoff
	}
	if sc.Subpixel != nil {
		sim.Subpixel = *sc.Subpixel
	}
	if sim.Center, err = vec3("center", sc.Center, true); err != nil {
		return nil, err
	}
	if sim.Size, err = vec3("size", sc.Size, false); err != nil {
		return nil, err
	}
	switch len(sc.Symmetry) {
	case 0:
	case 3:
		copy(sim.Symmetry[:], sc.Symmetry)
	default:
		return nil, fmt.Errorf("symmetry needs 3 entries, got %d: %w", len(sc.Symmetry), ErrInvalidSimulation)
	}
	switch len(sc.PMLLayers) {
	case 0:
	case 3:
		for i, p := range sc.PMLLayers {
			sim.PMLLayers[i] = PML{Profile: p.Profile, NumLayers: p.NumLayers}
		}
	default:
		return nil, fmt.Errorf("pml_layers needs 3 entries, got %d: %w", len(sc.PMLLayers), ErrInvalidSimulation)
	}

	media := make(map[string]medium.Material, len(sc.Media))
	for name, spec := range sc.Media {
		m, err := spec.build(name)
		if err != nil {
			return nil, fmt.Errorf("medium %q: %w", name, err)
		}
		media[name] = m
	}
	lookup := func(name string) (medium.Material, error) {
		m, ok := media[name]
		if !ok {
			return nil, fmt.Errorf("undefined medium %q: %w", name, ErrInvalidSimulation)
		}
		return m, nil
	}

	if sc.Medium == "" {
		sim.Medium = &medium.Medium{Name: "vacuum", Permittivity: 1}
	} else if sim.Medium, err = lookup(sc.Medium); err != nil {
		return nil, err
	}
	for i, st := range sc.Structures {
		g, err := st.Geometry.build()
		if err != nil {
			return nil, fmt.Errorf("structure %d: %w", i, err)
		}
		m, err := lookup(st.Medium)
		if err != nil {
			return nil, fmt.Errorf("structure %d: %w", i, err)
		}
		sim.Structures = append(sim.Structures, Structure{Name: st.Name, Geometry: g, Medium: m})
	}
	for _, spec := range sc.Sources {
		src, err := spec.build()
		if err != nil {
			return nil, fmt.Errorf("source %q: %w", spec.Name, err)
		}
		sim.Sources = append(sim.Sources, src)
	}
	for _, spec := range sc.Monitors {
		mon, err := spec.build()
		if err != nil {
			return nil, fmt.Errorf("monitor %q: %w", spec.Name, err)
		}
		sim.Monitors = append(sim.Monitors, mon)
	}
	return sim, nil
}

func vec3(name string, v []float64, zeroIfEmpty bool) (out [3]float64, err error) {
	if len(v) == 0 && zeroIfEmpty {
		return
	}
	if len(v) != 3 {
		return out, fmt.Errorf("%s needs 3 entries, got %d: %w", name, len(v), ErrInvalidSimulation)
	}
	copy(out[:], v)
	return
}

func parseAxis(s string) (geometry.Axis, error) {
	for _, a := range geometry.Axes {
		if a.String() == s {
			return a, nil
		}
	}
	return 0, fmt.Errorf("unknown axis %q: %w", s, ErrInvalidSimulation)
}

func (s *mediumSpec) build(name string) (medium.Material, error) {
	switch s.Type {
	case "", string(medium.KindMedium):
		return &medium.Medium{Name: name, Permittivity: s.Permittivity, Conductivity: s.Conductivity}, nil
	case string(medium.KindAnisotropic):
		var c [3]*medium.Medium
		for i, spec := range [3]*mediumSpec{s.XX, s.YY, s.ZZ} {
			if spec == nil {
				return nil, fmt.Errorf("missing %s: %w", medium.DiagonalNames[i], ErrInvalidSimulation)
			}
			c[i] = &medium.Medium{Permittivity: spec.Permittivity, Conductivity: spec.Conductivity}
		}
		return &medium.AnisotropicMedium{Name: name, XX: c[0], YY: c[1], ZZ: c[2]}, nil
	case string(medium.KindCustom):
		var c [3]*medium.SpatialDataArray
		for i, d := range [3]*datasetSpec{s.EpsXX, s.EpsYY, s.EpsZZ} {
			if d == nil {
				continue
			}
			arr, err := medium.NewSpatialDataArray(d.X, d.Y, d.Z, d.Values)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", medium.DatasetNames[i], err)
			}
			c[i] = arr
		}
		return &medium.CustomMedium{Name: name, EpsDataset: medium.WithComponents(c)}, nil
	}
	return nil, fmt.Errorf("unknown medium type %q: %w", s.Type, ErrInvalidSimulation)
}

func (s *geometrySpec) build() (geometry.Geometry, error) {
	center, err := vec3("center", s.Center, true)
	if err != nil {
		return nil, err
	}
	switch geometry.Kind(s.Type) {
	case geometry.KindBox:
		size, err := vec3("size", s.Size, false)
		if err != nil {
			return nil, err
		}
		return geometry.Box{Center: center, Size: size}, nil
	case geometry.KindSphere:
		return geometry.Sphere{Center: center, Radius: s.Radius}, nil
	case geometry.KindCylinder:
		axis, err := parseAxis(s.Axis)
		if err != nil {
			return nil, err
		}
		return geometry.Cylinder{Center: center, Axis: axis, Radius: s.Radius, Length: s.Length}, nil
	case geometry.KindPolySlab:
		if len(s.SlabBounds) != 2 {
			return nil, fmt.Errorf("slab_bounds needs 2 entries, got %d: %w", len(s.SlabBounds), ErrInvalidSimulation)
		}
		p := geometry.PolySlab{SlabBounds: [2]float64{s.SlabBounds[0], s.SlabBounds[1]}}
		for i, v := range s.Vertices {
			if len(v) != 2 {
				return nil, fmt.Errorf("vertex %d needs 2 entries, got %d: %w", i, len(v), ErrInvalidSimulation)
			}
			p.Vertices = append(p.Vertices, [2]float64{v[0], v[1]})
		}
		return p, nil
	}
	return nil, fmt.Errorf("unknown geometry type %q: %w", s.Type, ErrInvalidSimulation)
}

func (s *sourceTimeSpec) build() (SourceTime, error) {
	amp := 1.0
	if s.Amplitude != nil {
		amp = *s.Amplitude
	}
	switch s.Type {
	case "GaussianPulse":
		offset := DefaultOffset
		if s.Offset != nil {
			offset = *s.Offset
		}
		return GaussianPulse{Freq0: s.Freq0, FWidth: s.FWidth, Offset: offset, Phase: s.Phase, Amplitude: amp}, nil
	case "ContinuousWave":
		return ContinuousWave{Freq0: s.Freq0, FWidth: s.FWidth, Phase: s.Phase, Amplitude: amp}, nil
	}
	return nil, fmt.Errorf("unknown source time type %q: %w", s.Type, ErrInvalidSimulation)
}

func (s *sourceSpec) build() (Source, error) {
	st, err := s.SourceTime.build()
	if err != nil {
		return nil, err
	}
	center, err := vec3("center", s.Center, true)
	if err != nil {
		return nil, err
	}
	size, err := vec3("size", s.Size, true)
	if err != nil {
		return nil, err
	}
	switch s.Type {
	case "VolumeSource":
		if err := checkPolarization(s.Polarization); err != nil {
			return nil, err
		}
		return &VolumeSource{Name: s.Name, Center: center, Size: size, Polarization: s.Polarization, SourceTime: st}, nil
	case "PointDipole":
		if err := checkPolarization(s.Polarization); err != nil {
			return nil, err
		}
		return &PointDipole{Name: s.Name, Center: center, Polarization: s.Polarization, SourceTime: st}, nil
	case "PlaneWave":
		return &PlaneWave{Name: s.Name, Center: center, Size: size, Direction: s.Direction,
			Polarization: s.Polarization, SourceTime: st}, nil
	}
	return nil, fmt.Errorf("unknown source type %q: %w", s.Type, ErrInvalidSimulation)
}

// checkPolarization accepts J or M followed by an axis letter
func checkPolarization(p string) error {
	if len(p) == 2 && (p[0] == 'J' || p[0] == 'M') {
		if _, err := parseAxis(p[1:]); err == nil {
			return nil
		}
	}
	return fmt.Errorf("polarization %q is not one of Jx..Mz: %w", p, ErrInvalidSimulation)
}

// AllFields is the component set recorded when a field monitor lists none
var AllFields = []fielddata.Component{
	fielddata.Ex, fielddata.Ey, fielddata.Ez, fielddata.Hx, fielddata.Hy, fielddata.Hz,
}

func (s *monitorSpec) build() (Monitor, error) {
	center, err := vec3("center", s.Center, true)
	if err != nil {
		return nil, err
	}
	size, err := vec3("size", s.Size, true)
	if err != nil {
		return nil, err
	}
	fields := AllFields
	if len(s.Fields) > 0 {
		fields = make([]fielddata.Component, len(s.Fields))
		for i, f := range s.Fields {
			if fields[i], err = fielddata.ParseComponent(f); err != nil {
				return nil, err
			}
		}
	}
	switch s.Type {
	case "FieldMonitor":
		return NewFieldMonitor(s.Name, center, size, fields, s.Freqs), nil
	case "FieldTimeMonitor":
		return NewFieldTimeMonitor(s.Name, center, size, fields, s.Times), nil
	case "FluxMonitor":
		return NewFluxMonitor(s.Name, center, size, s.Freqs), nil
	case "FluxTimeMonitor":
		return NewFluxTimeMonitor(s.Name, center, size, s.Times), nil
	case "ModeMonitor":
		return NewModeMonitor(s.Name, center, size, s.Freqs, s.NumModes), nil
	}
	return nil, fmt.Errorf("unknown monitor type %q: %w", s.Type, ErrInvalidSimulation)
}
