// Package chat manages a conversation with a model served by the
// local Ollama daemon, keeping a bounded message history.
package chat

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/halloki/llamaup/internal/ollama"
	"github.com/halloki/llamaup/pkg/api"
)

// Completer is the slice of the daemon client a Conversation needs.
type Completer interface {
	Chat(ctx context.Context, req *api.ChatRequest) (*api.ChatResponse, error)
	ChatStream(ctx context.Context, req *api.ChatRequest) (<-chan ollama.StreamEvent, error)
}

// Config controls a Conversation.
type Config struct {
	// Model names the model every request goes to.
	Model string

	// MaxHistory caps the number of history messages kept. When the
	// cap is exceeded the oldest messages are dropped. Zero or
	// negative means unlimited.
	MaxHistory int

	// SystemPrompt, when set, is prepended to every request. It does
	// not count against MaxHistory and survives Clear.
	SystemPrompt string
}

// Conversation holds the exchange history with one model.
// Not safe for concurrent use.
type Conversation struct {
	id       string
	cfg      Config
	client   Completer
	messages []api.Message
}

// New creates a Conversation.
func New(client Completer, cfg Config) *Conversation {
	return &Conversation{
		id:     uuid.NewString(),
		cfg:    cfg,
		client: client,
	}
}

// ID returns the conversation's session identifier.
func (c *Conversation) ID() string {
	return c.id
}

// Send sends a user message and returns the assistant's full reply.
// Both messages are appended to the history.
func (c *Conversation) Send(ctx context.Context, text string) (string, error) {
	c.append(api.Message{Role: "user", Content: text})

	resp, err := c.client.Chat(ctx, &api.ChatRequest{
		Model:    c.cfg.Model,
		Messages: c.requestMessages(),
	})
	if err != nil {
		// Leave the user message in place; the caller may retry.
		return "", fmt.Errorf("chat: %w", err)
	}

	reply := resp.Message.Content
	c.append(api.Message{Role: "assistant", Content: reply})
	return reply, nil
}

// SendStream sends a user message and streams the reply, calling
// onDelta for each content fragment as it arrives. The complete reply
// is returned and appended to the history once the stream drains.
func (c *Conversation) SendStream(ctx context.Context, text string, onDelta func(string)) (string, error) {
	c.append(api.Message{Role: "user", Content: text})

	events, err := c.client.ChatStream(ctx, &api.ChatRequest{
		Model:    c.cfg.Model,
		Messages: c.requestMessages(),
	})
	if err != nil {
		return "", fmt.Errorf("chat: %w", err)
	}

	var full []byte
	for ev := range events {
		if ev.Err != nil {
			return string(full), fmt.Errorf("stream: %w", ev.Err)
		}
		delta := ev.Response.Message.Content
		if delta == "" {
			continue
		}
		full = append(full, delta...)
		if onDelta != nil {
			onDelta(delta)
		}
	}

	reply := string(full)
	c.append(api.Message{Role: "assistant", Content: reply})
	return reply, nil
}

// Clear drops the history. The system prompt is preserved.
func (c *Conversation) Clear() {
	c.messages = nil
}

// History returns a copy of the conversation history.
func (c *Conversation) History() []api.Message {
	out := make([]api.Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// Len returns the number of history messages.
func (c *Conversation) Len() int {
	return len(c.messages)
}

func (c *Conversation) append(msg api.Message) {
	c.messages = append(c.messages, msg)
	c.trim()
}

// trim drops the oldest messages once the history exceeds MaxHistory.
func (c *Conversation) trim() {
	if c.cfg.MaxHistory <= 0 {
		return
	}
	if excess := len(c.messages) - c.cfg.MaxHistory; excess > 0 {
		c.messages = c.messages[excess:]
	}
}

// requestMessages assembles the wire messages: system prompt first,
// then the windowed history.
func (c *Conversation) requestMessages() []api.Message {
	msgs := make([]api.Message, 0, len(c.messages)+1)
	if c.cfg.SystemPrompt != "" {
		msgs = append(msgs, api.Message{Role: "system", Content: c.cfg.SystemPrompt})
	}
	return append(msgs, c.messages...)
}
