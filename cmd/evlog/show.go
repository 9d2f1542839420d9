package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/eventlog/internal/model"
)

var showCmd = &cobra.Command{
	Use:     "show <id>",
	Short:   "Show an event",
	GroupID: "events",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		ctx := context.Background()
		var ev *model.Event
		if c := remote(); c != nil {
			if ev, err = c.GetEvent(ctx, id); err != nil {
				return err
			}
		} else {
			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()
			if ev, err = a.recorder.GetByID(ctx, id); err != nil {
				return err
			}
		}
		if jsonOutput {
			printJSON(ev)
			return nil
		}
		printEventDetail(ev)
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Short:   "Delete an event",
	GroupID: "events",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		ctx := context.Background()
		if c := remote(); c != nil {
			if err := c.DeleteEvent(ctx, id); err != nil {
				return err
			}
		} else {
			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()
			if err := a.recorder.Destroy(ctx, id); err != nil {
				return err
			}
		}
		fmt.Printf("Deleted event %d\n", id)
		return nil
	},
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid event id %q", s)
	}
	return id, nil
}
