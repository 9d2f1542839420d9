package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/alfredjeanlab/eventlog/internal/model"
	"github.com/alfredjeanlab/eventlog/internal/registry"
	"github.com/alfredjeanlab/eventlog/internal/ui"
)

const timeLayout = "2006-01-02 15:04:05"

func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling JSON: %v\n", err)
		return
	}
	fmt.Println(string(data))
}

func printEventTable(evs []*model.Event) {
	if len(evs) == 0 {
		fmt.Println(ui.RenderMuted("No events"))
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCREATED\tTYPE\tUSER\tREF\tDATA")
	for _, ev := range evs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			ui.RenderID(strconv.FormatInt(ev.ID, 10)),
			ui.RenderMuted(ev.Created.UTC().Format(timeLayout)),
			ui.RenderType(ev.Type.Slug),
			actorLabel(ev.User.ID, ev.User.Email),
			refLabel(ev.Ref),
			truncate(dataSummary(ev.Data), 50),
		)
	}
	w.Flush()
	fmt.Printf("\n%d events\n", len(evs))
}

func printEventDetail(ev *model.Event) {
	fmt.Printf("ID:          %s\n", ui.RenderID(strconv.FormatInt(ev.ID, 10)))
	fmt.Printf("Type:        %s (%s)\n", ui.RenderType(ev.Type.Slug), registry.DisplayLabel(ev.Type))
	if ev.Type.Description != "" {
		fmt.Printf("Description: %s\n", ev.Type.Description)
	}
	fmt.Printf("Created:     %s\n", ev.Created.UTC().Format(timeLayout))
	fmt.Printf("User:        %s\n", actorLabel(ev.User.ID, ev.User.Email))
	if name := strings.TrimSpace(ev.User.FirstName + " " + ev.User.LastName); name != "" {
		fmt.Printf("Name:        %s\n", name)
	}
	fmt.Printf("Ref:         %s\n", refLabel(ev.Ref))
	if ev.URL != "" {
		fmt.Printf("URL:         %s\n", ui.RenderMuted(ev.URL))
	}
	if ev.Data != nil {
		data, err := json.MarshalIndent(ev.Data, "             ", "  ")
		if err != nil {
			data = []byte(fmt.Sprint(ev.Data))
		}
		fmt.Printf("Data:        %s\n", data)
	}
}

// actorLabel renders a user as "#id <email>", or "system" when id is nil.
func actorLabel(id *int64, email string) string {
	if id == nil {
		return ui.RenderMuted("system")
	}
	s := "#" + strconv.FormatInt(*id, 10)
	if email != "" {
		s += " " + email
	}
	return s
}

func refLabel(ref *int64) string {
	if ref == nil {
		return "-"
	}
	return strconv.FormatInt(*ref, 10)
}

// dataSummary renders an event payload on a single line.
func dataSummary(v any) string {
	switch d := v.(type) {
	case nil:
		return ""
	case string:
		return d
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(data)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
