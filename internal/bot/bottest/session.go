// Package bottest provides a recording fake of bot.Session for tests.
package bottest

import (
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/mock"
)

// Session records interaction replies and delegates scheduled-event calls to
// its embedded mock.
type Session struct {
	mock.Mock

	Latency time.Duration
	// RespondErr, when set, is returned by InteractionRespond instead of
	// recording the response.
	RespondErr error

	mu        sync.Mutex
	Responses []*discordgo.InteractionResponse
	Followups []*discordgo.WebhookParams
}

func (s *Session) InteractionRespond(_ *discordgo.Interaction, resp *discordgo.InteractionResponse, _ ...discordgo.RequestOption) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.RespondErr != nil {
		return s.RespondErr
	}
	s.Responses = append(s.Responses, resp)
	return nil
}

func (s *Session) FollowupMessageCreate(_ *discordgo.Interaction, _ bool, data *discordgo.WebhookParams, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Followups = append(s.Followups, data)
	return &discordgo.Message{Content: data.Content}, nil
}

func (s *Session) HeartbeatLatency() time.Duration { return s.Latency }

func (s *Session) GuildScheduledEvents(guildID string, userCount bool, _ ...discordgo.RequestOption) ([]*discordgo.GuildScheduledEvent, error) {
	args := s.Called(guildID, userCount)
	events, _ := args.Get(0).([]*discordgo.GuildScheduledEvent)
	return events, args.Error(1)
}

func (s *Session) GuildScheduledEventCreate(guildID string, event *discordgo.GuildScheduledEventParams, _ ...discordgo.RequestOption) (*discordgo.GuildScheduledEvent, error) {
	args := s.Called(guildID, event)
	ev, _ := args.Get(0).(*discordgo.GuildScheduledEvent)
	return ev, args.Error(1)
}

func (s *Session) GuildScheduledEventEdit(guildID, eventID string, event *discordgo.GuildScheduledEventParams, _ ...discordgo.RequestOption) (*discordgo.GuildScheduledEvent, error) {
	args := s.Called(guildID, eventID, event)
	ev, _ := args.Get(0).(*discordgo.GuildScheduledEvent)
	return ev, args.Error(1)
}

// SlashCommand builds a slash command interaction the way the gateway would
// deliver it.
func SlashCommand(guildID, name string, options ...*discordgo.ApplicationCommandInteractionDataOption) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{
		Interaction: &discordgo.Interaction{
			ID:        "interaction",
			Type:      discordgo.InteractionApplicationCommand,
			GuildID:   guildID,
			ChannelID: "channel",
			Member:    &discordgo.Member{User: &discordgo.User{ID: "user", Username: "alice"}},
			Data: discordgo.ApplicationCommandInteractionData{
				Name:        name,
				CommandType: discordgo.ChatApplicationCommand,
				Options:     options,
			},
		},
	}
}

// IntOption builds an integer option value as decoded from the gateway.
func IntOption(name string, value int64) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{
		Name:  name,
		Type:  discordgo.ApplicationCommandOptionInteger,
		Value: float64(value),
	}
}

// Contents returns every reply text in send order, responses first.
func (s *Session) Contents() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for _, r := range s.Responses {
		if r.Data != nil && r.Data.Content != "" {
			out = append(out, r.Data.Content)
		}
	}
	for _, f := range s.Followups {
		if f.Content != "" {
			out = append(out, f.Content)
		}
	}
	return out
}
