package core

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/ctf-scheduler/internal/bot"
	"github.com/keshon/ctf-scheduler/internal/command"
)

type PingCommand struct{}

func (c *PingCommand) Name() string        { return "ping" }
func (c *PingCommand) Description() string { return "Get the ping" }

func (c *PingCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        c.Name(),
		Description: c.Description(),
		Type:        discordgo.ChatApplicationCommand,
	}
}

func (c *PingCommand) Run(_ context.Context, slash *command.SlashInteractionContext) error {
	latency := slash.Session.HeartbeatLatency().Milliseconds()
	return bot.RespondEphemeral(slash.Session, slash.Event, fmt.Sprintf("**Latency:** %dms", latency))
}
