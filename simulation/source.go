package simulation

// SourceTime is the time dependence of a source
type SourceTime interface {
	SourceTimeKind() string
}

// GaussianPulse is a gaussian envelope modulating a carrier at Freq0
type GaussianPulse struct {
	Freq0     float64 // Hz
	FWidth    float64 // Hz
	Offset    float64 // in units of 1/FWidth
	Phase     float64
	Amplitude float64
}

func (GaussianPulse) SourceTimeKind() string { return "GaussianPulse" }

// ContinuousWave ramps up to a steady oscillation at Freq0
type ContinuousWave struct {
	Freq0     float64
	FWidth    float64
	Phase     float64
	Amplitude float64
}

func (ContinuousWave) SourceTimeKind() string { return "ContinuousWave" }

// Source is a current distribution injected into the simulation
type Source interface {
	SourceName() string
	SourceKind() string
	Time() SourceTime
}

// VolumeSource is a uniform current over a box. Polarization names the
// current type and direction, for example "Jx" or "My".
type VolumeSource struct {
	Name         string
	Center, Size [3]float64
	Polarization string
	SourceTime   SourceTime
}

func (s *VolumeSource) SourceName() string { return s.Name }
func (s *VolumeSource) SourceKind() string { return "VolumeSource" }
func (s *VolumeSource) Time() SourceTime   { return s.SourceTime }

// PointDipole is a volume source of zero size
type PointDipole struct {
	Name         string
	Center       [3]float64
	Polarization string
	SourceTime   SourceTime
}

func (s *PointDipole) SourceName() string { return s.Name }
func (s *PointDipole) SourceKind() string { return "PointDipole" }
func (s *PointDipole) Time() SourceTime   { return s.SourceTime }

// PlaneWave is injected across a plane normal to its direction of travel
type PlaneWave struct {
	Name         string
	Center, Size [3]float64
	Direction    string // "+" or "-"
	Polarization string
	SourceTime   SourceTime
}

func (s *PlaneWave) SourceName() string { return s.Name }
func (s *PlaneWave) SourceKind() string { return "PlaneWave" }
func (s *PlaneWave) Time() SourceTime   { return s.SourceTime }
