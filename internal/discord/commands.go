package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/keshon/ctf-scheduler/internal/command"
)

// commandAPI is the subset of *discordgo.Session used to manage guild commands.
type commandAPI interface {
	ApplicationCommands(appID, guildID string, options ...discordgo.RequestOption) ([]*discordgo.ApplicationCommand, error)
	ApplicationCommandCreate(appID string, guildID string, cmd *discordgo.ApplicationCommand, options ...discordgo.RequestOption) (*discordgo.ApplicationCommand, error)
	ApplicationCommandDelete(appID, guildID, cmdID string, options ...discordgo.RequestOption) error
}

// registerCommands makes the guild's commands match the registry. Commands
// whose definition hash is unchanged are left alone.
func (b *Bot) registerCommands(ctx context.Context, api commandAPI, appID, guildID string) error {
	existing, err := api.ApplicationCommands(appID, guildID, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("list commands: %w", err)
	}

	wanted := make(map[string]*discordgo.ApplicationCommand)
	for _, c := range b.registry.All() {
		if def := command.Definition(c); def != nil {
			wanted[def.Name] = def
		}
	}

	remote := make(map[string]string, len(existing))
	for _, old := range existing {
		if _, ok := wanted[old.Name]; !ok {
			b.logger.Info("Deleting obsolete command", zap.String("guild", guildID), zap.String("command", old.Name))
			if err := api.ApplicationCommandDelete(appID, guildID, old.ID, discordgo.WithContext(ctx)); err != nil {
				b.logger.Error("Failed to delete command", zap.String("command", old.Name), zap.Error(err))
			}
			continue
		}
		remote[old.Name] = hashCommand(old)
	}

	var changed int
	for _, c := range b.registry.All() {
		def := wanted[c.Name()]
		if def == nil || remote[def.Name] == hashCommand(def) {
			continue
		}
		if err := b.limiter.Wait(ctx); err != nil {
			return err
		}
		if _, err := api.ApplicationCommandCreate(appID, guildID, def, discordgo.WithContext(ctx)); err != nil {
			b.logger.Error("Can't create command", zap.String("command", def.Name), zap.Error(err))
			continue
		}
		changed++
		b.logger.Info("Command registered", zap.String("guild", guildID), zap.String("command", def.Name))
	}

	if changed == 0 {
		b.logger.Info("Slash commands up to date", zap.String("guild", guildID))
	}
	return nil
}
