package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/alfredjeanlab/eventlog/internal/client"
	"github.com/alfredjeanlab/eventlog/internal/model"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Short:   "List events, newest first",
	GroupID: "events",
	Example: `  evlog list --type user_login --page 1
  evlog list --filter 'created >= timestamp("2024-01-01T00:00:00Z")' --order-by "created"`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		f := filterFromFlags(cmd.Flags())
		eventType, _ := cmd.Flags().GetString("type")
		user, _ := cmd.Flags().GetInt64("user")

		ctx := context.Background()
		if c := remote(); c != nil {
			resp, err := c.ListEvents(ctx, listRequest(f, eventType, user))
			if err != nil {
				return err
			}
			if jsonOutput {
				printJSON(resp)
				return nil
			}
			printEventTable(resp.Events)
			return nil
		}

		a, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		var evs []*model.Event
		switch {
		case eventType != "" && user != 0:
			f.Where = append(f.Where, model.Condition{Column: "created_by", Value: user})
			evs, err = a.recorder.GetByType(ctx, eventType, f)
		case eventType != "":
			evs, err = a.recorder.GetByType(ctx, eventType, f)
		case user != 0:
			evs, err = a.recorder.GetByUser(ctx, user, f)
		default:
			evs, err = a.recorder.GetAll(ctx, f)
		}
		if err != nil {
			return err
		}

		if jsonOutput {
			if evs == nil {
				evs = []*model.Event{}
			}
			printJSON(evs)
			return nil
		}
		printEventTable(evs)
		return nil
	},
}

var countCmd = &cobra.Command{
	Use:     "count",
	Short:   "Count events matching a filter",
	GroupID: "events",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		f := filterFromFlags(cmd.Flags())

		ctx := context.Background()
		var n int
		if c := remote(); c != nil {
			var err error
			if n, err = c.CountEvents(ctx, listRequest(f, "", 0)); err != nil {
				return err
			}
		} else {
			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()
			if n, err = a.recorder.CountAll(ctx, f); err != nil {
				return err
			}
		}
		if jsonOutput {
			printJSON(map[string]int{"count": n})
			return nil
		}
		fmt.Println(n)
		return nil
	},
}

func init() {
	addFilterFlags(listCmd.Flags())
	listCmd.Flags().String("type", "", "only events of this type")
	listCmd.Flags().Int64("user", 0, "only events created by this user id")
	listCmd.Flags().String("order-by", "", `sort order, e.g. "created desc" or "type, id"`)
	listCmd.Flags().Int("page", 0, "page number, starting at 1 (default all)")
	listCmd.Flags().Int("per-page", model.DefaultPerPage, "events per page")

	addFilterFlags(countCmd.Flags())
}

func addFilterFlags(fs *pflag.FlagSet) {
	fs.String("keywords", "", "search type slugs and user emails")
	fs.String("filter", "", `filter expression, e.g. type = "user_login" AND ref > 10`)
}

// filterFromFlags reads the filter flags registered on fs. Flags a command
// does not define are left at their zero value.
func filterFromFlags(fs *pflag.FlagSet) model.EventFilter {
	var f model.EventFilter
	f.Keywords, _ = fs.GetString("keywords")
	f.Expr, _ = fs.GetString("filter")
	f.Sort, _ = fs.GetString("order-by")
	f.Page, _ = fs.GetInt("page")
	f.PerPage, _ = fs.GetInt("per-page")
	return f
}

func listRequest(f model.EventFilter, eventType string, user int64) *client.ListEventsRequest {
	return &client.ListEventsRequest{
		Keywords: f.Keywords,
		Filter:   f.Expr,
		OrderBy:  f.Sort,
		Page:     f.Page,
		PerPage:  f.PerPage,
		Type:     eventType,
		User:     user,
	}
}
