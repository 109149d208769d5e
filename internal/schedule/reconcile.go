// Package schedule converges a guild's scheduled events toward a list of
// CTFtime events.
package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/keshon/ctf-scheduler/internal/ctftime"
)

// EventStore is the subset of *discordgo.Session used to manage guild
// scheduled events.
type EventStore interface {
	GuildScheduledEvents(guildID string, userCount bool, options ...discordgo.RequestOption) ([]*discordgo.GuildScheduledEvent, error)
	GuildScheduledEventCreate(guildID string, event *discordgo.GuildScheduledEventParams, options ...discordgo.RequestOption) (*discordgo.GuildScheduledEvent, error)
	GuildScheduledEventEdit(guildID, eventID string, event *discordgo.GuildScheduledEventParams, options ...discordgo.RequestOption) (*discordgo.GuildScheduledEvent, error)
}

type Reconciler struct {
	store  EventStore
	region string
	logger *zap.Logger
}

// NewReconciler returns a Reconciler that only schedules on-site events whose
// location contains region.
func NewReconciler(logger *zap.Logger, store EventStore, region string) *Reconciler {
	return &Reconciler{
		store:  store,
		region: region,
		logger: logger.Named("schedule"),
	}
}

// Reconcile creates or updates one scheduled event per eligible record.
// Existing events are matched by exact name. A failing record is recorded in
// Result.Failed and does not stop the batch; only a failure to list the
// guild's events is returned as an error.
func (r *Reconciler) Reconcile(ctx context.Context, guildID string, records []ctftime.Event) (*Result, error) {
	existing, err := r.store.GuildScheduledEvents(guildID, false, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("list scheduled events: %w", err)
	}

	byName := make(map[string]*discordgo.GuildScheduledEvent, len(existing))
	for _, ev := range existing {
		byName[ev.Name] = ev
	}

	res := &Result{}
	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if !Eligible(rec, r.region) {
			r.logger.Debug("Skipping on-site event outside region",
				zap.String("title", rec.Title),
				zap.String("location", rec.Location))
			res.Skipped++
			continue
		}

		current, found := byName[rec.Title]
		ev, err := r.apply(ctx, guildID, rec, current)
		if err != nil {
			r.logger.Warn("Failed to schedule event",
				zap.String("guild", guildID),
				zap.String("title", rec.Title),
				zap.Int("ctftime_id", rec.ID),
				zap.Error(err))
			res.Failed = append(res.Failed, Failure{Title: rec.Title, Err: err})
			continue
		}

		if found {
			res.Updated = append(res.Updated, rec.Title)
		} else {
			res.Created = append(res.Created, rec.Title)
		}
		// A later record with the same title edits this one.
		if ev != nil {
			byName[rec.Title] = ev
		}
	}

	r.logger.Info("Reconciled scheduled events",
		zap.String("guild", guildID),
		zap.Int("created", len(res.Created)),
		zap.Int("updated", len(res.Updated)),
		zap.Int("failed", len(res.Failed)),
		zap.Int("skipped", res.Skipped))
	return res, nil
}

func (r *Reconciler) apply(ctx context.Context, guildID string, rec ctftime.Event, current *discordgo.GuildScheduledEvent) (*discordgo.GuildScheduledEvent, error) {
	start, err := time.Parse(time.RFC3339, rec.Start)
	if err != nil {
		return nil, fmt.Errorf("parse start: %w", err)
	}
	finish, err := time.Parse(time.RFC3339, rec.Finish)
	if err != nil {
		return nil, fmt.Errorf("parse finish: %w", err)
	}

	params := &discordgo.GuildScheduledEventParams{
		Description:        Description(rec),
		ScheduledStartTime: &start,
		ScheduledEndTime:   &finish,
		EntityType:         discordgo.GuildScheduledEventEntityTypeExternal,
		EntityMetadata:     &discordgo.GuildScheduledEventEntityMetadata{Location: rec.URL},
	}

	if current != nil {
		ev, err := r.store.GuildScheduledEventEdit(guildID, current.ID, params, discordgo.WithContext(ctx))
		if err != nil {
			return nil, fmt.Errorf("edit scheduled event %s: %w", current.ID, err)
		}
		return ev, nil
	}

	params.Name = rec.Title
	params.PrivacyLevel = discordgo.GuildScheduledEventPrivacyLevelGuildOnly
	ev, err := r.store.GuildScheduledEventCreate(guildID, params, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("create scheduled event: %w", err)
	}
	return ev, nil
}
