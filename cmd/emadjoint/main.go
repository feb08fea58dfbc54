package main

import (
	"fmt"
	"os"

	"github.com/notargets/emadjoint/config"
	"github.com/notargets/emadjoint/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Version is set at link time
var Version = "dev"

var (
	// Global flags
	configPath string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "emadjoint",
	Short: "Adjoint permittivity gradients and legacy solver format tools",
	Long: `emadjoint computes permittivity sensitivities from forward and adjoint
field data and translates simulations to and from the legacy solver format.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			return err
		}
		if verbose {
			cfg.Logging.Level = "debug"
		}
		logger, err = logging.New(cfg.Logging)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the emadjoint version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "emadjoint", Version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "emadjoint.yaml", "configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.AddCommand(versionCmd, newExportCmd(), newDiscretizeCmd(), newGradientCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
