package adjoint

import (
	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
)

// DefaultPointsPerWavelength is the number of integration points per unit
// wavelength in the material used by DefaultOptions
const DefaultPointsPerWavelength = 20

// Reducer sums integrand samples. Implementations may offload to a device.
type Reducer interface {
	Sum(values []float64) (float64, error)
}

// HostReducer sums on the calling goroutine
type HostReducer struct{}

func (HostReducer) Sum(values []float64) (float64, error) {
	return floats.Sum(values), nil
}

// Options carries every tunable of a gradient computation. Nothing here has a
// hidden process-wide default; use DefaultOptions as a starting point.
type Options struct {
	// PointsPerWavelength sets the integration sampling density of the volume discretizer
	PointsPerWavelength float64

	// CustomVolumeElement scales the per-voxel gradient of a CustomMedium
	CustomVolumeElement float64

	Reducer Reducer     // nil sums on the host
	Logger  *zap.Logger // nil discards
}

// DefaultOptions returns 20 points per wavelength, a unit custom volume
// element and host reductions
func DefaultOptions() Options {
	return Options{
		PointsPerWavelength: DefaultPointsPerWavelength,
		CustomVolumeElement: 1.0,
		Reducer:             HostReducer{},
		Logger:              zap.NewNop(),
	}
}

func (o Options) reducer() Reducer {
	if o.Reducer == nil {
		return HostReducer{}
	}
	return o.Reducer
}

func (o Options) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}
