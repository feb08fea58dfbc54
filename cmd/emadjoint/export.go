package main

import (
	"fmt"
	"io"
	"os"

	"github.com/notargets/emadjoint/legacy"
	"github.com/notargets/emadjoint/simulation"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newExportCmd() *cobra.Command {
	var (
		output       string
		allowPartial bool
	)
	cmd := &cobra.Command{
		Use:   "export <scenario.yaml>",
		Short: "Write a YAML scenario as legacy solver JSON",
		Long: `Reads a simulation scenario and writes the JSON input of the legacy solver.
Components the legacy format cannot express fail the export unless
--allow-partial is given, in which case they are skipped with a warning.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sim, err := simulation.Load(args[0])
			if err != nil {
				return err
			}
			opts := cfg.ExportOptions(logger)
			if cmd.Flags().Changed("allow-partial") {
				opts.AllowPartial = allowPartial
			}
			doc, err := legacy.Export(sim, opts)
			if err != nil {
				return err
			}

			var w io.Writer = cmd.OutOrStdout()
			if output != "" && output != "-" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("failed to create output: %w", err)
				}
				defer f.Close()
				w = f
			}
			if err := doc.WriteJSON(w); err != nil {
				return err
			}
			logger.Debug("wrote legacy document", zap.String("scenario", args[0]), zap.String("output", output))
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "-", "output file, - for stdout")
	cmd.Flags().BoolVar(&allowPartial, "allow-partial", false, "skip unsupported components instead of failing")
	return cmd
}
