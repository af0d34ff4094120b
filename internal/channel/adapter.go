// Package channel defines the adapter contract for chat surfaces
// (Telegram, Discord, web chat) and the loop that feeds their messages
// to the agent.
package channel

import "context"

// Message represents a message arriving from a channel
type Message struct {
	ID        string
	Channel   string
	UserID    string
	Content   string
	Metadata  map[string]string
	Timestamp int64
}

// Response represents a reply to send back to a channel
type Response struct {
	Content  string
	Metadata map[string]string
}

// Adapter is the interface every channel surface implements
type Adapter interface {
	// Start starts the adapter's receive loop
	Start(ctx context.Context) error

	// Stop stops the adapter and closes its incoming channel
	Stop() error

	// SendMessage sends a reply to the given user
	SendMessage(userID string, resp *Response) error

	// Incoming returns the stream of inbound messages
	Incoming() <-chan *Message

	// Name returns the adapter name
	Name() string

	// IsEnabled reports whether the adapter is configured to run
	IsEnabled() bool
}
