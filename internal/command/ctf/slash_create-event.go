package ctf

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/keshon/ctf-scheduler/internal/bot"
	"github.com/keshon/ctf-scheduler/internal/command"
	"github.com/keshon/ctf-scheduler/internal/ctftime"
	"github.com/keshon/ctf-scheduler/internal/schedule"
)

const (
	weeksOption     = "weeks"
	noEventsMessage = "Error! No events found using API"
)

// Fetcher returns upcoming CTFs. *ctftime.Client implements it.
type Fetcher interface {
	Upcoming(ctx context.Context, weeksAhead int) ([]ctftime.Event, error)
}

// CreateEventCommand mirrors upcoming CTFs into the guild's scheduled events.
type CreateEventCommand struct {
	Fetcher Fetcher
	// Region is the substring an on-site event's location must contain.
	Region string
}

func (c *CreateEventCommand) Name() string        { return "create_event" }
func (c *CreateEventCommand) Description() string { return "Schedule a server event" }

func (c *CreateEventCommand) SlashDefinition() *discordgo.ApplicationCommand {
	minWeeks, maxWeeks := 1.0, float64(ctftime.MaxWeeks)
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Type:        discordgo.ChatApplicationCommand,
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        weeksOption,
				Description: "How many weeks of CTFs do you want to add to the Events Tab?",
				Required:    true,
				MinValue:    &minWeeks,
				MaxValue:    maxWeeks,
			},
		},
	}
}

func (c *CreateEventCommand) Run(ctx context.Context, slash *command.SlashInteractionContext) error {
	session, event := slash.Session, slash.Event

	weeks, ok := command.IntOption(event, weeksOption)
	if !ok || weeks < 1 {
		return bot.RespondEphemeral(session, event, "Please provide a positive number of weeks.")
	}
	if weeks > ctftime.MaxWeeks {
		return bot.RespondEphemeral(session, event, fmt.Sprintf("You can schedule at most %d weeks ahead.", ctftime.MaxWeeks))
	}

	if err := bot.RespondDeferredEphemeral(session, event); err != nil {
		return fmt.Errorf("defer reply: %w", err)
	}

	events, err := c.Fetcher.Upcoming(ctx, int(weeks))
	if err != nil || len(events) == 0 {
		return bot.FollowupEphemeral(session, event, noEventsMessage)
	}

	reconciler := schedule.NewReconciler(slash.Logger, session, c.Region)
	res, err := reconciler.Reconcile(ctx, event.GuildID, events)
	if err != nil {
		slash.Logger.Error("Reconciliation failed", zap.String("guild", event.GuildID), zap.Error(err))
		return bot.FollowupEmbedEphemeral(session, event, &discordgo.MessageEmbed{
			Description: fmt.Sprintf("Failed to sync scheduled events: %v", err),
			Color:       bot.EmbedColor,
		})
	}

	return bot.FollowupEphemeral(session, event, res.Summary())
}
