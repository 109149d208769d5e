// Package cli exposes the event preview on the command line.
package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/keshon/ctf-scheduler/internal/ctftime"
	"github.com/keshon/ctf-scheduler/internal/schedule"
	"github.com/keshon/ctf-scheduler/pkg/cmd"
)

// Fetcher returns upcoming CTFs. *ctftime.Client implements it.
type Fetcher interface {
	Upcoming(ctx context.Context, weeksAhead int) ([]ctftime.Event, error)
}

// EventsCommand prints what /create_event would schedule, without touching Discord.
type EventsCommand struct {
	Fetcher Fetcher
	Region  string
	Out     io.Writer
}

func (c *EventsCommand) Name() string { return "events" }
func (c *EventsCommand) Description() string {
	return "Preview upcoming CTFs and the scheduled events they would produce"
}

func (c *EventsCommand) Run(ctx context.Context, inv *cmd.Invocation) error {
	fs := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
	fs.SetOutput(c.Out)
	weeks := fs.Int("weeks", 1, "how many weeks ahead to look")
	verbose := fs.Bool("v", false, "print full descriptions")
	if err := fs.Parse(inv.Args); err != nil {
		return err
	}

	events, err := c.Fetcher.Upcoming(ctx, *weeks)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		fmt.Fprintln(c.Out, "No events found using API")
		return nil
	}

	for _, ev := range events {
		status := "schedule"
		if !schedule.Eligible(ev, c.Region) {
			status = "skip (on-site outside " + c.Region + ")"
		}
		fmt.Fprintf(c.Out, "%-40s %s  %s\n", ev.Title, formatStart(ev.Start), status)
		if *verbose && status == "schedule" {
			fmt.Fprintf(c.Out, "\n%s\n\n", schedule.Description(ev))
		}
	}
	return nil
}

func formatStart(s string) string {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return s
	}
	return t.UTC().Format("2006-01-02 15:04 MST")
}
