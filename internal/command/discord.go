package command

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/keshon/ctf-scheduler/internal/bot"
	"github.com/keshon/ctf-scheduler/pkg/cmd"
)

// SlashInteractionContext is what the runtime hands a slash command.
type SlashInteractionContext struct {
	Session bot.Session
	Event   *discordgo.InteractionCreate
	Logger  *zap.Logger
}

// SlashProvider describes how a command is registered with Discord.
type SlashProvider interface {
	SlashDefinition() *discordgo.ApplicationCommand
}

// DiscordCommand is what individual Discord commands implement.
type DiscordCommand interface {
	Name() string
	Description() string
	Run(ctx context.Context, slash *SlashInteractionContext) error
}

// DiscordAdapter adapts a DiscordCommand to cmd.Command so it can live in the
// shared registry.
type DiscordAdapter struct {
	Cmd DiscordCommand
}

func (a *DiscordAdapter) Name() string        { return a.Cmd.Name() }
func (a *DiscordAdapter) Description() string { return a.Cmd.Description() }

func (a *DiscordAdapter) Run(ctx context.Context, inv *cmd.Invocation) error {
	slash, ok := inv.Data.(*SlashInteractionContext)
	if !ok {
		return fmt.Errorf("command %s: unsupported invocation data %T", a.Name(), inv.Data)
	}
	return a.Cmd.Run(ctx, slash)
}

func (a *DiscordAdapter) SlashDefinition() *discordgo.ApplicationCommand {
	if sp, ok := a.Cmd.(SlashProvider); ok {
		return sp.SlashDefinition()
	}
	return nil
}

// Register adds a Discord command to r with the given middlewares applied.
func Register(r *cmd.Registry, discordCmd DiscordCommand, mws ...cmd.Middleware) error {
	return r.Register(cmd.Apply(&DiscordAdapter{Cmd: discordCmd}, mws...))
}

// Definition returns the slash definition behind c, or nil if c is not a
// slash command.
func Definition(c cmd.Command) *discordgo.ApplicationCommand {
	sp, ok := cmd.Root(c).(SlashProvider)
	if !ok {
		return nil
	}
	def := sp.SlashDefinition()
	if def != nil && def.Type == 0 {
		def.Type = discordgo.ChatApplicationCommand
	}
	return def
}

// IntOption returns the integer option called name, if present.
func IntOption(i *discordgo.InteractionCreate, name string) (int64, bool) {
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == name && opt.Type == discordgo.ApplicationCommandOptionInteger {
			return opt.IntValue(), true
		}
	}
	return 0, false
}
