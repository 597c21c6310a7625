package main

import (
	"github.com/spf13/cobra"

	"github.com/hupe1980/vaultgraph"
	"github.com/hupe1980/vaultgraph/config"
)

// cli carries state shared by all subcommands.
type cli struct {
	cfgFile string
	cfg     config.Config
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:   "vaultgraph",
		Short: "Inspect, export and import vaultgraph snapshots",
		Long: `vaultgraph works on .grphst snapshot files written by the vaultgraph library.

Settings come from an optional YAML file (--config or $VAULTGRAPH_CONFIG) and
the environment (MAX_MEM_USAGE, LOG_LEVEL, CSV_DELIMITER). The environment wins.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(c.cfgFile)
			if err != nil {
				return err
			}
			c.cfg = cfg
			return nil
		},
	}

	root.PersistentFlags().StringVar(&c.cfgFile, "config", "", "YAML config file")

	root.AddCommand(
		c.inspectCmd(),
		c.relationsCmd(),
		c.statsCmd(),
		c.exportCmd(),
		c.importCmd(),
	)
	return root
}

func (c *cli) storeOptions(extra ...vaultgraph.Option) ([]vaultgraph.Option, error) {
	opts, err := c.cfg.StoreOptions()
	if err != nil {
		return nil, err
	}
	return append(opts, extra...), nil
}

func (c *cli) load(cmd *cobra.Command, path string) (*vaultgraph.Store, error) {
	opts, err := c.storeOptions()
	if err != nil {
		return nil, err
	}
	return vaultgraph.Load(cmd.Context(), path, opts...)
}
