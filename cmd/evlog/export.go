package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/eventlog/internal/archive"
)

var exportCmd = &cobra.Command{
	Use:     "export",
	Short:   "Export the event log as JSONL",
	GroupID: "system",
	Long: `Export every event as JSONL, oldest first, after a header line.

By default the export is written to stdout. With --upload it is shipped to
the destinations configured by the EVENTLOG_ARCHIVE_* variables instead.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("out")
		upload, _ := cmd.Flags().GetBool("upload")

		ctx := context.Background()
		a, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		if upload {
			dests, err := archiveDestinations(ctx, a.cfg, a.logger)
			if err != nil {
				return err
			}
			if len(dests) == 0 {
				return fmt.Errorf("no archive destinations configured")
			}
			batch, err := archive.Run(ctx, a.recorder, dests, a.logger)
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "Uploaded %s (%d events) to %d destinations\n", batch.ID, batch.Events, len(dests))
			return nil
		}

		w := os.Stdout
		if out != "" && out != "-" {
			f, err := os.Create(out)
			if err != nil {
				return err
			}
			defer f.Close()
			w = f
		}
		h, err := archive.ExportJSONL(ctx, a.recorder, w)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Exported %d events (%s)\n", h.EventCount, h.BatchID)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringP("out", "o", "-", "output file")
	exportCmd.Flags().Bool("upload", false, "ship to the configured archive destinations")
}
