package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/eventlog/internal/config"
	"github.com/alfredjeanlab/eventlog/internal/registry"
	"github.com/alfredjeanlab/eventlog/internal/ui"
)

var typesCmd = &cobra.Command{
	Use:     "types",
	Short:   "List registered event types",
	GroupID: "events",
	Long: `List the event types assembled from EVENTLOG_MODULE_PATHS and
EVENTLOG_APP_CONFIG. The database is not contacted.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		flat, _ := cmd.Flags().GetBool("flat")

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		reg, err := registry.Load(registry.ModulesFromPaths(cfg.ModulePaths), cfg.AppConfig, nil)
		if err != nil {
			return err
		}

		if flat {
			if jsonOutput {
				printJSON(reg.AllFlat())
				return nil
			}
			for _, l := range reg.FlatLabels() {
				fmt.Printf("%s\t%s\n", ui.RenderType(l.Slug), l.Label)
			}
			return nil
		}

		types := reg.All()
		if jsonOutput {
			printJSON(types)
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "SLUG\tLABEL\tHOOKS\tDESCRIPTION")
		for _, t := range types {
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", t.Slug, registry.DisplayLabel(t), len(t.Hooks), truncate(t.Description, 60))
		}
		w.Flush()
		fmt.Printf("\n%d types\n", len(types))
		return nil
	},
}

func init() {
	typesCmd.Flags().Bool("flat", false, "print slug and display label only")
}
