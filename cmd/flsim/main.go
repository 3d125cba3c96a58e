// Command flsim simulates the client side of a federated-learning round on
// the disease-classification dataset.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/scigo-fl/config"
	"github.com/YuminosukeSato/scigo-fl/pkg/log"
)

// app carries the state shared by all subcommands.
type app struct {
	configPath string
	logLevel   string
	cfg        *config.Config
	logger     log.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "flsim",
		Short: "Federated-learning client simulator for a linear classifier",
		Long: `flsim partitions a dataset across simulated participants, seeds a
logistic regression with zero parameters and runs one local training step
per participant, exchanging parameters in the JSON wire format.

The coordination and aggregation protocol is not part of flsim.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "flsim.yaml", "Path to the YAML config (defaults are used if missing)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Override logging.level (debug, info, warn, error)")

	root.AddCommand(a.newPartitionCmd())
	root.AddCommand(a.newInitParamsCmd())
	root.AddCommand(a.newSimulateCmd())
	return root
}

// setup loads the config and installs the loggers.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Logging.Level = a.logLevel
	}

	level, err := log.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return err
	}
	if err := log.SetupLogger(cmd.ErrOrStderr(), cfg.Logging.Level); err != nil {
		return err
	}

	var logger log.Logger
	if cfg.Logging.Format == "json" {
		logger = log.NewZerologLogger(cmd.ErrOrStderr(), level)
	} else {
		logger = log.NewConsoleLogger(level)
	}
	log.SetLogger(logger)

	a.cfg = cfg
	a.logger = log.GetLoggerWithName("flsim")
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		slog.Error("flsim failed", log.ErrAttr(err))
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
