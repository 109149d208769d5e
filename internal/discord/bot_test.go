package discord

import (
	"context"
	"errors"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/time/rate"

	"github.com/keshon/ctf-scheduler/internal/bot"
	"github.com/keshon/ctf-scheduler/internal/bot/bottest"
	"github.com/keshon/ctf-scheduler/internal/command"
	"github.com/keshon/ctf-scheduler/internal/command/core"
	"github.com/keshon/ctf-scheduler/internal/config"
	"github.com/keshon/ctf-scheduler/pkg/cmd"
)

// commandAPIStub mocks commandAPI.
type commandAPIStub struct {
	mock.Mock
}

func (stub *commandAPIStub) ApplicationCommands(appID, guildID string, _ ...discordgo.RequestOption) ([]*discordgo.ApplicationCommand, error) {
	args := stub.Called(appID, guildID)
	cmds, _ := args.Get(0).([]*discordgo.ApplicationCommand)
	return cmds, args.Error(1)
}

func (stub *commandAPIStub) ApplicationCommandCreate(appID string, guildID string, c *discordgo.ApplicationCommand, _ ...discordgo.RequestOption) (*discordgo.ApplicationCommand, error) {
	args := stub.Called(appID, guildID, c)
	created, _ := args.Get(0).(*discordgo.ApplicationCommand)
	return created, args.Error(1)
}

func (stub *commandAPIStub) ApplicationCommandDelete(appID, guildID, cmdID string, _ ...discordgo.RequestOption) error {
	return stub.Called(appID, guildID, cmdID).Error(0)
}

type failingCommand struct{}

func (failingCommand) Name() string        { return "explode" }
func (failingCommand) Description() string { return "always fails" }
func (failingCommand) Run(context.Context, *command.SlashInteractionContext) error {
	return errors.New("kaboom")
}

// deferringCommand acknowledges the interaction before failing.
type deferringCommand struct{}

func (deferringCommand) Name() string        { return "slow" }
func (deferringCommand) Description() string { return "defers then fails" }
func (deferringCommand) Run(_ context.Context, slash *command.SlashInteractionContext) error {
	if err := bot.RespondDeferredEphemeral(slash.Session, slash.Event); err != nil {
		return err
	}
	return errors.New("upstream timeout")
}

func newTestBot(t *testing.T, cmds ...command.DiscordCommand) *Bot {
	t.Helper()
	registry := cmd.NewRegistry()
	for _, c := range cmds {
		require.NoError(t, command.Register(registry, c))
	}
	b := NewBot(&config.Config{AllowedGuildID: "42", InitSlashCommands: true}, registry, zap.NewNop())
	b.limiter = rate.NewLimiter(rate.Inf, 1)
	return b
}

func TestRegisterCommandsSkipsUnchanged(t *testing.T) {
	b := newTestBot(t, &core.PingCommand{})
	api := &commandAPIStub{}

	remote := (&core.PingCommand{}).SlashDefinition()
	remote.ID = "cmd1"
	remote.Version = "999"
	api.On("ApplicationCommands", "app", "42").Return([]*discordgo.ApplicationCommand{remote}, nil).Once()

	require.NoError(t, b.registerCommands(context.Background(), api, "app", "42"))
	api.AssertExpectations(t)
	api.AssertNotCalled(t, "ApplicationCommandCreate", mock.Anything, mock.Anything, mock.Anything)
}

func TestRegisterCommandsCreatesChangedAndDeletesObsolete(t *testing.T) {
	b := newTestBot(t, &core.PingCommand{})
	api := &commandAPIStub{}

	stale := &discordgo.ApplicationCommand{ID: "cmd1", Name: "ping", Description: "old text", Type: discordgo.ChatApplicationCommand}
	obsolete := &discordgo.ApplicationCommand{ID: "cmd2", Name: "music", Description: "play", Type: discordgo.ChatApplicationCommand}
	api.On("ApplicationCommands", "app", "42").Return([]*discordgo.ApplicationCommand{stale, obsolete}, nil).Once()
	api.On("ApplicationCommandDelete", "app", "42", "cmd2").Return(nil).Once()
	api.On("ApplicationCommandCreate", "app", "42", mock.MatchedBy(func(c *discordgo.ApplicationCommand) bool {
		return c.Name == "ping" && c.Description == "Get the ping"
	})).Return(&discordgo.ApplicationCommand{ID: "cmd3"}, nil).Once()

	require.NoError(t, b.registerCommands(context.Background(), api, "app", "42"))
	api.AssertExpectations(t)
}

func TestRegisterCommandsListFailure(t *testing.T) {
	b := newTestBot(t, &core.PingCommand{})
	api := &commandAPIStub{}
	api.On("ApplicationCommands", "app", "42").Return(nil, errors.New("unauthorized")).Once()

	assert.Error(t, b.registerCommands(context.Background(), api, "app", "42"))
}

func TestHandleInteractionDispatches(t *testing.T) {
	b := newTestBot(t, &core.PingCommand{})
	session := &bottest.Session{}

	b.handleInteraction(context.Background(), session, bottest.SlashCommand("42", "ping"))
	require.Len(t, session.Responses, 1)
	assert.Equal(t, "**Latency:** 0ms", session.Responses[0].Data.Content)
}

func TestHandleInteractionUnknownCommand(t *testing.T) {
	b := newTestBot(t, &core.PingCommand{})
	session := &bottest.Session{}

	b.handleInteraction(context.Background(), session, bottest.SlashCommand("42", "nope"))
	assert.Empty(t, session.Responses)
}

func TestHandleInteractionReportsErrors(t *testing.T) {
	b := newTestBot(t, failingCommand{})
	session := &bottest.Session{}

	b.handleInteraction(context.Background(), session, bottest.SlashCommand("42", "explode"))
	require.Len(t, session.Responses, 1)
	data := session.Responses[0].Data
	require.Len(t, data.Embeds, 1)
	assert.Contains(t, data.Embeds[0].Description, "kaboom")
	assert.Equal(t, discordgo.MessageFlagsEphemeral, data.Flags)
}

func TestHandleInteractionReportsErrorsAfterDefer(t *testing.T) {
	b := newTestBot(t, deferringCommand{})
	session := &bottest.Session{}

	b.handleInteraction(context.Background(), session, bottest.SlashCommand("42", "slow"))
	require.Len(t, session.Responses, 1)
	assert.Equal(t, discordgo.InteractionResponseDeferredChannelMessageWithSource, session.Responses[0].Type)

	require.Len(t, session.Followups, 1)
	followup := session.Followups[0]
	require.Len(t, followup.Embeds, 1)
	assert.Contains(t, followup.Embeds[0].Description, "upstream timeout")
	assert.Equal(t, discordgo.MessageFlagsEphemeral, followup.Flags)
}

func TestHandleInteractionLogsFailedErrorReply(t *testing.T) {
	b := newTestBot(t, failingCommand{})
	obs, logs := observer.New(zapcore.ErrorLevel)
	b.logger = zap.New(obs)
	session := &bottest.Session{RespondErr: errors.New("unknown interaction")}

	b.handleInteraction(context.Background(), session, bottest.SlashCommand("42", "explode"))
	assert.Empty(t, session.Followups)
	entries := logs.FilterMessage("Failed to report command error").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "unknown interaction", entries[0].ContextMap()["error"])
}

func TestHashIgnoresServerFieldsAndOptionOrder(t *testing.T) {
	minWeeks := 1.0
	a := &discordgo.ApplicationCommand{
		Name:        "create_event",
		Description: "Schedule a server event",
		Options: []*discordgo.ApplicationCommandOption{
			{Name: "weeks", Type: discordgo.ApplicationCommandOptionInteger, Required: true, MinValue: &minWeeks},
			{Name: "alpha", Type: discordgo.ApplicationCommandOptionString},
		},
	}
	b := &discordgo.ApplicationCommand{
		ID:          "123",
		Version:     "456",
		Type:        discordgo.ChatApplicationCommand,
		Name:        "create_event",
		Description: "Schedule a server event",
		Options: []*discordgo.ApplicationCommandOption{
			{Name: "alpha", Type: discordgo.ApplicationCommandOptionString},
			{Name: "weeks", Type: discordgo.ApplicationCommandOptionInteger, Required: true, MinValue: &minWeeks},
		},
	}
	assert.Equal(t, hashCommand(a), hashCommand(b))

	b.Options[1].Required = false
	assert.NotEqual(t, hashCommand(a), hashCommand(b))
}
