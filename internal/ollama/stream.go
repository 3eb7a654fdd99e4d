package ollama

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"strings"

	"github.com/halloki/llamaup/pkg/api"
)

// StreamEvent is one parsed line from a streaming chat response.
type StreamEvent struct {
	Response *api.ChatResponse
	Err      error
}

// ParseChatStream reads an NDJSON chat stream and sends parsed events
// to a channel. The channel is closed when the final (done) object
// arrives, the stream ends, or an error occurs.
func ParseChatStream(r io.Reader) <-chan StreamEvent {
	ch := make(chan StreamEvent)
	go func() {
		defer close(ch)
		scanner := bufio.NewScanner(r)

		for scanner.Scan() {
			line := bytes.TrimSpace(scanner.Bytes())
			if len(line) == 0 {
				continue
			}

			var resp api.ChatResponse
			if err := json.Unmarshal(line, &resp); err != nil {
				ch <- StreamEvent{Err: err}
				return
			}
			ch <- StreamEvent{Response: &resp}
			if resp.Done {
				return
			}
		}

		if err := scanner.Err(); err != nil {
			ch <- StreamEvent{Err: err}
		}
	}()
	return ch
}

// Accumulate collects streaming events into the complete assistant
// message content. It returns the first error seen on the stream.
func Accumulate(events <-chan StreamEvent) (string, error) {
	var content strings.Builder
	for ev := range events {
		if ev.Err != nil {
			return content.String(), ev.Err
		}
		content.WriteString(ev.Response.Message.Content)
	}
	return content.String(), nil
}
