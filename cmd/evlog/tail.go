package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/eventlog/internal/config"
	"github.com/alfredjeanlab/eventlog/internal/events"
	"github.com/alfredjeanlab/eventlog/internal/ui"
)

var tailCmd = &cobra.Command{
	Use:     "tail",
	Short:   "Stream created and deleted events from the message bus",
	GroupID: "events",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		natsURL, _ := cmd.Flags().GetString("nats-url")
		topic, _ := cmd.Flags().GetString("topic")
		if natsURL == "" {
			return fmt.Errorf("--nats-url or %sNATS_URL is required", config.Prefix)
		}

		sub, err := events.NewNATSSubscriber(natsURL)
		if err != nil {
			return err
		}
		defer sub.Close()

		ch, cancel, err := sub.Subscribe(topic)
		if err != nil {
			return err
		}
		defer cancel()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		fmt.Fprintln(os.Stderr, ui.RenderMuted("Listening on "+topic+" (Ctrl+C to stop)"))
		for {
			select {
			case <-ctx.Done():
				return nil
			case data, ok := <-ch:
				if !ok {
					return nil
				}
				if jsonOutput {
					fmt.Println(string(data))
					continue
				}
				fmt.Println(formatBusMessage(data))
			}
		}
	},
}

func init() {
	tailCmd.Flags().String("nats-url", os.Getenv(config.Prefix+"NATS_URL"), "NATS server URL")
	tailCmd.Flags().String("topic", events.TopicAll, "subject to subscribe to")
}

// formatBusMessage renders a created or deleted notification on one line.
func formatBusMessage(data []byte) string {
	var msg events.EventCreated
	if err := json.Unmarshal(data, &msg); err != nil {
		return ui.RenderError("unreadable message: " + err.Error())
	}
	id := ui.RenderID("#" + strconv.FormatInt(msg.ID, 10))
	if msg.Type == "" {
		return "deleted " + id
	}

	line := fmt.Sprintf("%s %s %s by %s",
		ui.RenderMuted(msg.Created.Format("2006-01-02 15:04:05")),
		id,
		ui.RenderType(msg.Type),
		actorLabel(msg.CreatedBy, ""),
	)
	if msg.URL != "" {
		line += " " + ui.RenderMuted(msg.URL)
	}
	return line
}
