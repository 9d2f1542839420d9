package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/eventlog/internal/client"
	"github.com/alfredjeanlab/eventlog/internal/identity"
	"github.com/alfredjeanlab/eventlog/internal/recorder"
)

// cliOrigin is stored as the URL of events recorded from the command line.
const cliOrigin = "cli"

var createCmd = &cobra.Command{
	Use:     "create <type>",
	Short:   "Record an event",
	GroupID: "events",
	Example: `  evlog create user_login --by 42 --data '{"ip":"10.0.0.1"}'
  evlog create invoice_paid --ref 1001 --at yesterday`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, _ := cmd.Flags().GetString("data")
		by, _ := cmd.Flags().GetInt64("by")
		ref, _ := cmd.Flags().GetInt64("ref")
		at, _ := cmd.Flags().GetString("at")

		p := recorder.CreateParams{Type: args[0], CreatedBy: by, Ref: ref, Recorded: at}
		if data != "" {
			if !json.Valid([]byte(data)) {
				return fmt.Errorf("--data is not valid JSON")
			}
			p.Data = json.RawMessage(data)
		}

		if c := remote(); c != nil {
			return createRemote(c, p)
		}

		ctx := identity.WithOrigin(context.Background(), cliOrigin)
		a, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		id, err := a.recorder.Create(ctx, p)
		if err != nil {
			return err
		}
		if id == 0 {
			fmt.Println("Event skipped")
			return nil
		}

		if jsonOutput {
			ev, err := a.recorder.GetByID(ctx, id)
			if err != nil {
				return err
			}
			printJSON(ev)
			return nil
		}
		fmt.Printf("Recorded event %d (%s)\n", id, args[0])
		return nil
	},
}

func createRemote(c *client.HTTPClient, p recorder.CreateParams) error {
	req := &client.CreateEventRequest{Type: p.Type, CreatedBy: p.CreatedBy, Ref: p.Ref, Recorded: p.Recorded}
	if raw, ok := p.Data.(json.RawMessage); ok {
		req.Data = raw
	}
	resp, err := c.CreateEvent(context.Background(), req)
	if err != nil {
		return err
	}
	if resp.Skipped {
		fmt.Println("Event skipped")
		return nil
	}
	if jsonOutput {
		printJSON(resp.Event)
		return nil
	}
	fmt.Printf("Recorded event %d (%s)\n", resp.Event.ID, p.Type)
	return nil
}

func init() {
	createCmd.Flags().String("data", "", "JSON payload")
	createCmd.Flags().Int64("by", 0, "user id to credit the event to (default system)")
	createCmd.Flags().Int64("ref", 0, "id of the object the event concerns")
	createCmd.Flags().String("at", "", "when the event happened, e.g. 2024-01-02, yesterday, -2h (default now)")
}
