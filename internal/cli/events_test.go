package cli

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keshon/ctf-scheduler/internal/ctftime"
	"github.com/keshon/ctf-scheduler/pkg/cmd"
)

type staticFetcher struct {
	events []ctftime.Event
	err    error
	weeks  int
}

func (f *staticFetcher) Upcoming(_ context.Context, weeksAhead int) ([]ctftime.Event, error) {
	f.weeks = weeksAhead
	return f.events, f.err
}

func TestEventsCommand(t *testing.T) {
	fetcher := &staticFetcher{events: []ctftime.Event{
		{Title: "Online CTF", Start: "2024-05-01T10:00:00+00:00", Restrictions: ctftime.RestrictionOpen},
		{Title: "Paris CTF", Onsite: true, Location: "Paris, France", Start: "bad"},
	}}
	var out bytes.Buffer
	c := &EventsCommand{Fetcher: fetcher, Region: "India", Out: &out}

	require.NoError(t, c.Run(context.Background(), cmd.NewInvocation(nil, "-weeks", "3", "-v")))
	assert.Equal(t, 3, fetcher.weeks)
	assert.Contains(t, out.String(), "2024-05-01 10:00 UTC  schedule")
	assert.Contains(t, out.String(), "bad  skip (on-site outside India)")
	assert.Contains(t, out.String(), "CTFtime URL:")
}

func TestEventsCommandEmpty(t *testing.T) {
	var out bytes.Buffer
	c := &EventsCommand{Fetcher: &staticFetcher{}, Region: "India", Out: &out}

	require.NoError(t, c.Run(context.Background(), cmd.NewInvocation(nil)))
	assert.Equal(t, "No events found using API\n", out.String())
}

func TestEventsCommandFetchError(t *testing.T) {
	c := &EventsCommand{Fetcher: &staticFetcher{err: errors.New("down")}, Out: &bytes.Buffer{}}
	assert.Error(t, c.Run(context.Background(), cmd.NewInvocation(nil)))
}
