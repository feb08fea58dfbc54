// Package device opens OCCA compute devices and runs the gradient reductions
// on them.
package device

import (
	"fmt"

	"github.com/notargets/gocca"
	"go.uber.org/zap"
)

// Backends lists the device properties tried by Open, most parallel first
var Backends = []string{
	`{"mode": "OpenMP"}`,
	`{"mode": "CUDA", "device_id": 0}`,
	`{"mode": "Serial"}`,
}

// Open creates the first device that succeeds from props, or from Backends
// when props is empty
func Open(log *zap.Logger, props ...string) (*gocca.OCCADevice, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if len(props) == 0 {
		props = Backends
	}
	var lastErr error
	for _, p := range props {
		dev, err := gocca.NewDevice(p)
		if err == nil {
			log.Info("created device", zap.String("mode", dev.Mode()))
			return dev, nil
		}
		log.Debug("device unavailable", zap.String("props", p), zap.Error(err))
		lastErr = err
	}
	return nil, fmt.Errorf("no OCCA device could be created from %d backends: %w", len(props), lastErr)
}

// PropsForMode maps a backend name as used in configuration to device
// properties. An empty mode or "auto" selects the Backends fallback order.
func PropsForMode(mode string) ([]string, error) {
	switch mode {
	case "", "auto":
		return Backends, nil
	case "OpenMP", "Serial":
		return []string{fmt.Sprintf(`{"mode": "%s"}`, mode)}, nil
	case "CUDA":
		return []string{`{"mode": "CUDA", "device_id": 0}`}, nil
	case "host":
		return nil, nil
	}
	return nil, fmt.Errorf("unknown device mode %q", mode)
}
