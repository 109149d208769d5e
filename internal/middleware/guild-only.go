package middleware

import (
	"context"

	"github.com/keshon/ctf-scheduler/internal/bot"
	"github.com/keshon/ctf-scheduler/internal/command"
	"github.com/keshon/ctf-scheduler/pkg/cmd"
)

const wrongGuildMessage = "This bot only works in the designated server."

// WithAllowedGuild rejects interactions from any guild other than guildID,
// including DMs, before the command runs.
func WithAllowedGuild(guildID string) cmd.Middleware {
	return func(c cmd.Command) cmd.Command {
		return cmd.Wrap(c, func(ctx context.Context, inv *cmd.Invocation) error {
			v, ok := inv.Data.(*command.SlashInteractionContext)
			if !ok {
				return c.Run(ctx, inv)
			}
			if v.Event.GuildID != guildID {
				return bot.RespondEphemeral(v.Session, v.Event, wrongGuildMessage)
			}
			return c.Run(ctx, inv)
		})
	}
}
