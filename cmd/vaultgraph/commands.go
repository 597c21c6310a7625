package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/hupe1980/vaultgraph"
	"github.com/hupe1980/vaultgraph/blobstore"
	"github.com/hupe1980/vaultgraph/export"
)

func (c *cli) inspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <file>",
		Short: "Show the vaults of a snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := c.load(cmd, args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "id:      %s\n", g.ID())
			fmt.Fprintf(out, "current: %s\n", g.Label())
			for _, vault := range g.Vaults() {
				edges, err := g.Edges(vaultgraph.InVault(vault))
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "vault %q: %d edges\n", vault, len(edges))
			}
			return nil
		},
	}
}

func (c *cli) relationsCmd() *cobra.Command {
	var vault string

	cmd := &cobra.Command{
		Use:   "relations <file>",
		Short: "List the distinct relation labels of a snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := c.load(cmd, args[0])
			if err != nil {
				return err
			}

			relations := g.UniqRelations()
			if vault != "" {
				if relations, err = g.UniqVaultRelations(vaultgraph.InVault(vault)); err != nil {
					return err
				}
			}
			for _, r := range relations {
				fmt.Fprintln(cmd.OutOrStdout(), r)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&vault, "vault", "", "restrict to one vault")
	return cmd
}

func (c *cli) statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats <file>",
		Short: "Print summary counts of a snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := c.load(cmd, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), g.Stats())
			fmt.Fprintf(cmd.OutOrStdout(), "limit=%d\n", g.MemoryLimit())
			return nil
		},
	}
}

func (c *cli) exportCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a snapshot as CSV or Graphviz DOT",
	}
	cmd.PersistentFlags().StringVarP(&output, "output", "o", "", "output file (default stdout)")

	run := func(write func(w io.Writer, g *vaultgraph.Store) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) (err error) {
			g, err := c.load(cmd, args[0])
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer func() {
					if cerr := f.Close(); err == nil {
						err = cerr
					}
				}()
				w = f
			}
			return write(w, g)
		}
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "csv <file>",
			Short: "Write one CSV row per edge",
			Args:  cobra.ExactArgs(1),
			RunE: run(func(w io.Writer, g *vaultgraph.Store) error {
				delim, err := c.cfg.Delimiter()
				if err != nil {
					return err
				}
				return export.WriteCSV(w, g, export.WithDelimiter(delim))
			}),
		},
		&cobra.Command{
			Use:   "dot <file>",
			Short: "Write one digraph per vault",
			Args:  cobra.ExactArgs(1),
			RunE:  run(export.WriteDOT),
		},
	)
	return cmd
}

func (c *cli) importCmd() *cobra.Command {
	var (
		name string
		out  string
	)

	cmd := &cobra.Command{
		Use:   "import <csv>",
		Short: "Build a snapshot from a CSV export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" {
				name = filepath.Base(args[0])
				name = name[:len(name)-len(filepath.Ext(name))]
			}

			delim, err := c.cfg.Delimiter()
			if err != nil {
				return err
			}
			opts, err := c.storeOptions(vaultgraph.WithBlobStore(blobstore.NewLocalStore(out)))
			if err != nil {
				return err
			}

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			g, err := export.ReadCSV(cmd.Context(), f, name,
				export.WithDelimiter(delim),
				export.WithStoreOptions(opts...),
			)
			if err != nil {
				return err
			}

			location, err := g.Persist(cmd.Context(), out)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), location)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "vault and snapshot name (default: csv file name)")
	cmd.Flags().StringVar(&out, "out", ".", "output directory")
	return cmd
}
