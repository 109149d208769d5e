package bot

import (
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/keshon/ctf-scheduler/internal/schedule"
)

// Interactor answers interactions. *discordgo.Session implements it.
type Interactor interface {
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
	FollowupMessageCreate(interaction *discordgo.Interaction, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Session is what commands need from the Discord session.
type Session interface {
	Interactor
	schedule.EventStore
	HeartbeatLatency() time.Duration
}

var _ Session = (*discordgo.Session)(nil)
