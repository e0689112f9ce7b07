package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/maastrichtu-biss/informed-search/internal/config"
)

// app holds what every subcommand needs once flags are parsed
type app struct {
	configPath string
	logLevel   string

	cfg    *config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "informed-search",
		Short: "A* and AO* informed search over weighted and AND-OR graphs",
		Long: `informed-search runs best-first (A*, greedy, uniform-cost) search on
weighted directed graphs and AO* on AND-OR graphs.

Without a subcommand it runs the built-in demo problem.

Examples:
  informed-search                               # demo
  informed-search astar --problem maze.yaml     # search a problem file
  informed-search aostar --problem plan.yaml --json
  informed-search check --problem maze.yaml     # heuristic admissibility report
  informed-search serve --config config.yaml    # HTTP API`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		RunE:              a.runDemo,
	}

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "path to a YAML config file")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")

	rootCmd.AddCommand(
		a.newDemoCmd(),
		a.newAStarCmd(),
		a.newAOStarCmd(),
		a.newCheckCmd(),
		a.newServeCmd(),
	)
	return rootCmd
}

// setup loads the configuration and builds the logger on stderr
func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	a.cfg = cfg
	a.logger = cfg.NewLogger(cmd.ErrOrStderr())
	return nil
}
