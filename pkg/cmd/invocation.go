// Package cmd is a transport-agnostic command core: a command has a name, a
// description and Run(ctx, invocation). Registration and dispatch (Discord
// slash commands, CLI) live in adapters wrapping this package.
package cmd

import (
	"context"

	"github.com/google/uuid"
)

// Invocation is the input an adapter hands to a command. Data carries the
// adapter's own context, e.g. the Discord session and interaction.
type Invocation struct {
	// ID identifies this invocation in logs.
	ID   string
	Args []string
	Data any
}

// NewInvocation returns an invocation with a fresh ID.
func NewInvocation(data any, args ...string) *Invocation {
	return &Invocation{ID: uuid.NewString(), Args: args, Data: data}
}

// Command is identity plus execution. Permissions, options and transport
// registration stay in adapters.
type Command interface {
	Name() string
	Description() string
	Run(ctx context.Context, inv *Invocation) error
}
