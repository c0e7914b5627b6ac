package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/darianrosebrook/arbiter/internal/config"
)

func main() {
	root := &cobra.Command{
		Use:   "arbiter",
		Short: "Multi-agent deliberation coordinator",
		Long:  "Coordinates multi-agent debates: allocates turns fairly under pluggable scheduling strategies, audits the turn distribution, and aggregates votes into a consensus decision.",
	}

	root.PersistentFlags().String("env-file", ".env", "Path to a .env file with ARBITER_* settings")
	root.PersistentFlags().Bool("verbose", false, "Enable debug logging")

	root.AddCommand(newSimulateCmd())
	root.AddCommand(newReportCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads the environment-backed config and builds the logger shared by
// all commands.
func setup(cmd *cobra.Command) (*config.Config, *logrus.Logger, error) {
	envFile, _ := cmd.Root().PersistentFlags().GetString("env-file")
	if err := config.LoadDotEnv(envFile); err != nil {
		return nil, nil, err
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	log := logrus.New()
	log.SetOutput(os.Stderr)
	if verbose, _ := cmd.Root().PersistentFlags().GetBool("verbose"); verbose {
		log.SetLevel(logrus.DebugLevel)
	}
	return cfg, log, nil
}
