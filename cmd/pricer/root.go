package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ruokahinta/backend/config"
	"github.com/ruokahinta/backend/internal/bootstrap"
	"github.com/ruokahinta/backend/internal/infrastructure/logging"
)

const version = "1.0.0"

// globalOptions are flags shared by every subcommand
type globalOptions struct {
	snapshot string
	noCache  bool
	verbose  bool
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:           "pricer",
		Short:         "Recipe ingredient pricing",
		Long:          `Match recipe ingredients to grocery catalog products and estimate recipe cost.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.snapshot, "catalog", "", "Path to a JSON catalog snapshot (overrides configured catalog)")
	root.PersistentFlags().BoolVar(&opts.noCache, "no-cache", false, "Disable the catalog query cache")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log matching decisions to stderr")

	root.AddCommand(newResolveCmd(opts))
	root.AddCommand(newSearchCmd(opts))
	root.AddCommand(newCategoriesCmd(opts))
	root.AddCommand(newVersionCmd())
	return root
}

func (o *globalOptions) overrides() map[string]interface{} {
	overrides := map[string]interface{}{}
	if o.snapshot != "" {
		overrides["catalog.type"] = config.CatalogSnapshot
		overrides["catalog.snapshot_path"] = o.snapshot
	}
	if o.noCache {
		overrides["cache.type"] = config.CacheNone
	}
	return overrides
}

// setup loads configuration and builds the components for one command run
func (o *globalOptions) setup(cmd *cobra.Command) (*bootstrap.Components, error) {
	cfg, err := config.LoadWithOverrides(o.overrides())
	if err != nil {
		return nil, err
	}

	level := "warn"
	if o.verbose {
		level = "debug"
	}
	logger, err := logging.NewWithWriter(level, "console", cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}

	components, err := bootstrap.Build(cmd.Context(), cfg, logger, nil)
	if err != nil {
		return nil, err
	}
	return components, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the pricer version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "pricer %s\n", version)
		},
	}
}
