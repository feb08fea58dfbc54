package main

import (
	"fmt"
	"math"

	"github.com/notargets/emadjoint/adjoint"
	"github.com/notargets/emadjoint/device"
	"github.com/notargets/emadjoint/fielddata"
	"github.com/notargets/emadjoint/legacy"
	"github.com/notargets/emadjoint/medium"
	"github.com/notargets/emadjoint/simulation"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
	"gopkg.in/yaml.v3"
)

// speed of light in um/s
const c0 = 2.99792458e14

// gradientResult is one structure's entry in the gradient report
type gradientResult struct {
	Structure            string    `yaml:"structure"`
	Kind                 string    `yaml:"kind"`
	WavelengthInMaterial float64   `yaml:"wavelength_in_material"`
	Leaves               []float64 `yaml:"leaves,flow"`
}

func newGradientCmd() *cobra.Command {
	var (
		forwardPath, adjointPath, monitorName string
		wavelength                            float64
	)
	cmd := &cobra.Command{
		Use:   "gradient <scenario.yaml>",
		Short: "Compute permittivity gradients of every structure",
		Long: `Loads the forward and adjoint field data of one field monitor from legacy
array files and integrates the permittivity gradient of every structure in the
scenario. The free-space wavelength defaults to the monitor's first frequency;
each structure uses it scaled by the square root of its mean permittivity.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sim, err := simulation.Load(args[0])
			if err != nil {
				return err
			}
			fwd, err := monitorFieldData(sim, monitorName, forwardPath)
			if err != nil {
				return fmt.Errorf("forward: %w", err)
			}
			adj, err := monitorFieldData(sim, monitorName, adjointPath)
			if err != nil {
				return fmt.Errorf("adjoint: %w", err)
			}

			wvl := wavelength
			if wvl == 0 {
				if wvl, err = monitorWavelength(fwd); err != nil {
					return err
				}
			}
			if !(wvl > 0) {
				return fmt.Errorf("wavelength must be positive, got %g", wvl)
			}

			items := make([]adjoint.StructureGrad, len(sim.Structures))
			for i, st := range sim.Structures {
				m, err := adjoint.FromPlain(st.Medium)
				if err != nil {
					return fmt.Errorf("structure %d: %w", i, err)
				}
				items[i] = adjoint.StructureGrad{
					Name:                 structureName(i, st),
					Medium:               m,
					Forward:              fwd,
					Adjoint:              adj,
					WavelengthInMaterial: wvl / math.Sqrt(meanPermittivity(st.Medium)),
				}
			}

			reducer, closeReducer, err := openReducer(cfg.Device.Mode, logger)
			if err != nil {
				return err
			}
			defer closeReducer()

			pass := cfg.GradientPass(sim.Bounds(), reducer, logger)
			grads, err := pass.Run(cmd.Context(), items)
			if err != nil {
				return err
			}

			report := make([]gradientResult, len(grads))
			for i, g := range grads {
				leaves, _ := g.ToLeaves()
				report[i] = gradientResult{
					Structure:            items[i].Name,
					Kind:                 string(g.Kind()),
					WavelengthInMaterial: items[i].WavelengthInMaterial,
					Leaves:               leaves,
				}
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			defer enc.Close()
			return enc.Encode(report)
		},
	}
	f := cmd.Flags()
	f.StringVar(&forwardPath, "forward", "", "forward field array file (JSON)")
	f.StringVar(&adjointPath, "adjoint", "", "adjoint field array file (JSON)")
	f.StringVar(&monitorName, "monitor", "", "field monitor holding both field sets")
	f.Float64Var(&wavelength, "wavelength", 0, "free-space wavelength (um), 0 uses the monitor frequency")
	for _, name := range []string{"forward", "adjoint", "monitor"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

// monitorFieldData loads the named monitor alone from the array file at path
func monitorFieldData(sim *simulation.Simulation, name, path string) (*fielddata.FieldData, error) {
	m, ok := sim.Monitor(name)
	if !ok {
		return nil, fmt.Errorf("monitor %q: %w", name, legacy.ErrNotFound)
	}
	if _, ok := m.(simulation.FreqMonitor); !ok {
		return nil, fmt.Errorf("monitor %q is a %s, gradients need frequency-domain fields", name, m.MonitorKind())
	}
	store, err := legacy.LoadStore(path)
	if err != nil {
		return nil, err
	}
	one := *sim
	one.Monitors = []simulation.Monitor{m}
	data, err := legacy.LoadMonitorData(&one, store)
	if err != nil {
		return nil, err
	}
	return data[name].FieldData()
}

func monitorWavelength(fd *fielddata.FieldData) (float64, error) {
	for _, c := range fielddata.ElectricComponents {
		arr, err := fd.Component(c)
		if err != nil {
			continue
		}
		if len(arr.F) == 0 || !(arr.F[0] > 0) {
			break
		}
		return c0 / arr.F[0], nil
	}
	return 0, fmt.Errorf("monitor %q has no frequency, pass --wavelength", fd.Monitor.Name)
}

func structureName(i int, st simulation.Structure) string {
	if st.Name != "" {
		return st.Name
	}
	return fmt.Sprintf("structure_%d", i)
}

// meanPermittivity averages the diagonal permittivity, never below vacuum
func meanPermittivity(m medium.Material) float64 {
	var eps float64
	switch v := m.(type) {
	case *medium.Medium:
		eps = v.Permittivity
	case *medium.AnisotropicMedium:
		eps = (v.XX.Permittivity + v.YY.Permittivity + v.ZZ.Permittivity) / 3
	case *medium.CustomMedium:
		var sum float64
		var n int
		for _, arr := range v.EpsDataset.Components() {
			if arr != nil {
				sum += floats.Sum(arr.Values)
				n += len(arr.Values)
			}
		}
		if n > 0 {
			eps = sum / float64(n)
		}
	}
	return math.Max(eps, 1)
}

// openReducer returns the host reducer for mode "host" and a device
// reducer otherwise
func openReducer(mode string, log *zap.Logger) (adjoint.Reducer, func(), error) {
	props, err := device.PropsForMode(mode)
	if err != nil {
		return nil, nil, err
	}
	if props == nil {
		return adjoint.HostReducer{}, func() {}, nil
	}
	dev, err := device.Open(log, props...)
	if err != nil {
		return nil, nil, err
	}
	r, err := device.NewReducer(dev)
	if err != nil {
		dev.Free()
		return nil, nil, err
	}
	log.Debug("reducing on device", zap.String("mode", r.Mode()))
	return r, func() {
		r.Close()
		dev.Free()
	}, nil
}
