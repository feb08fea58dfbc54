package main

import (
	"fmt"

	"github.com/notargets/emadjoint/adjoint"
	"github.com/notargets/emadjoint/geometry"
	"github.com/spf13/cobra"
)

func newDiscretizeCmd() *cobra.Command {
	var (
		monMin, monMax, simMin, simMax []float64
		wavelength                     float64
	)
	cmd := &cobra.Command{
		Use:   "discretize",
		Short: "Show the integration grid of a monitor clipped to the simulation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			monitor, err := bound("monitor", monMin, monMax)
			if err != nil {
				return err
			}
			sim, err := bound("sim", simMin, simMax)
			if err != nil {
				return err
			}
			disc, err := adjoint.Discretize(monitor, sim, wavelength, cfg.Adjoint.PointsPerWavelength)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "dimensions: %s\n", disc.Dimensions())
			for _, axis := range geometry.Axes {
				c := disc.Coords[axis]
				if c == nil {
					fmt.Fprintf(out, "%s: excluded\n", axis)
					continue
				}
				fmt.Fprintf(out, "%s: %d cells [%g, %g]\n", axis, len(c), c[0], c[len(c)-1])
			}
			fmt.Fprintf(out, "samples: %d\n", disc.NumSamples())
			fmt.Fprintf(out, "dvol: %g\n", disc.DVol)
			fmt.Fprintf(out, "measure: %g\n", disc.DVol*float64(disc.NumSamples()))
			return nil
		},
	}
	f := cmd.Flags()
	f.Float64SliceVar(&monMin, "monitor-min", nil, "monitor min corner x,y,z")
	f.Float64SliceVar(&monMax, "monitor-max", nil, "monitor max corner x,y,z")
	f.Float64SliceVar(&simMin, "sim-min", nil, "simulation min corner x,y,z")
	f.Float64SliceVar(&simMax, "sim-max", nil, "simulation max corner x,y,z")
	f.Float64Var(&wavelength, "wavelength", 0, "wavelength in the material (um)")
	for _, name := range []string{"monitor-min", "monitor-max", "sim-min", "sim-max", "wavelength"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func bound(name string, lo, hi []float64) (b geometry.Bound, err error) {
	if len(lo) != 3 || len(hi) != 3 {
		return b, fmt.Errorf("%s corners need 3 values each, got %d and %d", name, len(lo), len(hi))
	}
	copy(b.Min[:], lo)
	copy(b.Max[:], hi)
	return b, nil
}
