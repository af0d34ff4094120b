package channel

import (
	"context"
	"log/slog"
	"sync"

	"github.com/pmchrislee/ai-agent/internal/agent"
	"github.com/pmchrislee/ai-agent/internal/validate"
)

// Loop consumes inbound messages from every enabled adapter, runs them
// through the agent, and sends replies back on the originating channel.
type Loop struct {
	agent            *agent.Agent
	maxMessageLength int
	logger           *slog.Logger
	wg               sync.WaitGroup
}

// NewLoop creates a loop bound to one agent.
func NewLoop(a *agent.Agent, maxMessageLength int, logger *slog.Logger) *Loop {
	return &Loop{
		agent:            a,
		maxMessageLength: maxMessageLength,
		logger:           logger,
	}
}

// Run drains one adapter until its incoming channel closes or the
// context is cancelled. Call once per enabled adapter.
func (l *Loop) Run(ctx context.Context, adapter Adapter) {
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-adapter.Incoming():
				if !ok {
					return
				}
				l.handle(ctx, adapter, msg)
			}
		}
	}()
}

// Wait blocks until every Run goroutine has exited.
func (l *Loop) Wait() {
	l.wg.Wait()
}

func (l *Loop) handle(ctx context.Context, adapter Adapter, msg *Message) {
	content, err := validate.Message(msg.Content, l.maxMessageLength)
	if err != nil {
		l.reply(adapter, msg.UserID, err.Error())
		return
	}
	// Channel user IDs are platform-assigned; reject anything that
	// wouldn't round-trip through the history API.
	userID, err := validate.UserID(msg.UserID)
	if err != nil {
		l.logger.Warn("dropping message with invalid user id",
			"channel", adapter.Name(), "error", err)
		return
	}

	resp := l.agent.Process(ctx, agent.Request{Message: content, UserID: userID})
	l.reply(adapter, userID, resp.Content)
}

func (l *Loop) reply(adapter Adapter, userID, content string) {
	if err := adapter.SendMessage(userID, &Response{Content: content}); err != nil {
		l.logger.Error("failed to send reply",
			"channel", adapter.Name(), "user_id", userID, "error", err)
	}
}
