package middleware

import (
	"context"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/keshon/ctf-scheduler/internal/command"
	"github.com/keshon/ctf-scheduler/pkg/cmd"
)

// WithCommandLogger logs every invocation with who ran it and how it ended.
// The command sees a logger carrying the invocation ID.
func WithCommandLogger(logger *zap.Logger) cmd.Middleware {
	return func(c cmd.Command) cmd.Command {
		return cmd.Wrap(c, func(ctx context.Context, inv *cmd.Invocation) error {
			fields := []zap.Field{
				zap.String("command", c.Name()),
				zap.String("invocation", inv.ID),
			}
			if v, ok := inv.Data.(*command.SlashInteractionContext); ok {
				user := resolveUser(v.Event)
				fields = append(fields,
					zap.String("guild", v.Event.GuildID),
					zap.String("channel", v.Event.ChannelID),
					zap.String("user_id", user.ID),
					zap.String("user", user.Username))
				v.Logger = logger.With(fields...)
			}

			start := time.Now()
			err := c.Run(ctx, inv)
			fields = append(fields, zap.Duration("took", time.Since(start)))
			if err != nil {
				logger.Warn("Command failed", append(fields, zap.Error(err))...)
				return err
			}
			logger.Info("Command executed", fields...)
			return nil
		})
	}
}

// resolveUser returns the invoking user whether the interaction came from a
// guild (Member set) or a DM (User set).
func resolveUser(e *discordgo.InteractionCreate) *discordgo.User {
	if e.Member != nil && e.Member.User != nil {
		return e.Member.User
	}
	if e.User != nil {
		return e.User
	}
	return &discordgo.User{ID: "unknown", Username: "Unknown"}
}
