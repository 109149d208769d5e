package discord

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/keshon/ctf-scheduler/internal/bot"
	"github.com/keshon/ctf-scheduler/internal/command"
	"github.com/keshon/ctf-scheduler/internal/config"
	"github.com/keshon/ctf-scheduler/pkg/cmd"
)

// Bot is a Discord bot serving the commands of one registry in one guild.
type Bot struct {
	cfg      *config.Config
	registry *cmd.Registry
	logger   *zap.Logger
	limiter  *rate.Limiter

	// ctx is the Run context, handed to command invocations.
	ctx context.Context
}

func NewBot(cfg *config.Config, registry *cmd.Registry, logger *zap.Logger) *Bot {
	return &Bot{
		cfg:      cfg,
		registry: registry,
		logger:   logger.Named("discord"),
		limiter:  rate.NewLimiter(rate.Every(250*time.Millisecond), 1),
		ctx:      context.Background(),
	}
}

// Run opens the gateway session and blocks until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	dg, err := discordgo.New("Bot " + b.cfg.DiscordToken)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	b.ctx = ctx

	dg.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildScheduledEvents
	dg.AddHandler(b.onReady)
	dg.AddHandler(b.onInteractionCreate)

	if err := dg.Open(); err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}
	defer dg.Close()

	<-ctx.Done()
	b.logger.Info("Shutdown signal received, closing session")
	return nil
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	b.logger.Info("Logged in", zap.String("user", r.User.String()), zap.Int("guilds", len(r.Guilds)))

	for _, g := range r.Guilds {
		if g.ID != b.cfg.AllowedGuildID {
			b.logger.Warn("Bot is in a guild it does not serve", zap.String("guild", g.ID))
		}
	}

	if !b.cfg.InitSlashCommands {
		b.logger.Info("Registering slash commands skipped")
		return
	}
	if err := b.registerCommands(b.ctx, s, r.User.ID, b.cfg.AllowedGuildID); err != nil {
		b.logger.Error("Error registering slash commands",
			zap.String("guild", b.cfg.AllowedGuildID),
			zap.Error(err))
	}
}

func (b *Bot) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	b.handleInteraction(b.ctx, s, i)
}

func (b *Bot) handleInteraction(ctx context.Context, s bot.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		b.logger.Debug("Ignoring interaction", zap.Int("type", int(i.Type)))
		return
	}
	data := i.ApplicationCommandData()
	if data.CommandType != discordgo.ChatApplicationCommand {
		return
	}

	c := b.registry.Get(data.Name)
	if c == nil {
		b.logger.Warn("Unknown command", zap.String("command", data.Name))
		return
	}

	session := &ackSession{Session: s}
	inv := cmd.NewInvocation(&command.SlashInteractionContext{
		Session: session,
		Event:   i,
		Logger:  b.logger,
	})
	if err := c.Run(ctx, inv); err != nil {
		b.logger.Error("Error running slash command",
			zap.String("command", data.Name),
			zap.String("invocation", inv.ID),
			zap.Error(err))
		if rerr := b.reportError(session, i, err); rerr != nil {
			b.logger.Error("Failed to report command error",
				zap.String("command", data.Name),
				zap.String("invocation", inv.ID),
				zap.Error(rerr))
		}
	}
}

// reportError tells the user a command failed. An interaction can only be
// responded to once, so after a response the error goes out as a followup.
func (b *Bot) reportError(s *ackSession, i *discordgo.InteractionCreate, err error) error {
	embed := &discordgo.MessageEmbed{
		Description: fmt.Sprintf("Error running slash command: %v", err),
		Color:       bot.EmbedColor,
	}
	if s.acked {
		return bot.FollowupEmbedEphemeral(s, i, embed)
	}
	return bot.RespondEmbedEphemeral(s, i, embed)
}

// ackSession records whether the interaction has been responded to.
type ackSession struct {
	bot.Session
	acked bool
}

func (s *ackSession) InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error {
	err := s.Session.InteractionRespond(interaction, resp, options...)
	if err == nil {
		s.acked = true
	}
	return err
}
