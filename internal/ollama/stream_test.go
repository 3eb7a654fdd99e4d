package ollama

import (
	"strings"
	"testing"
)

func TestParseChatStream(t *testing.T) {
	input := `{"message":{"role":"assistant","content":"What "},"done":false}
{"message":{"role":"assistant","content":"question?"},"done":false}
{"message":{"role":"assistant","content":""},"done":true,"done_reason":"stop"}
`
	events := ParseChatStream(strings.NewReader(input))

	var deltas []string
	var sawDone bool
	for ev := range events {
		if ev.Err != nil {
			t.Fatalf("unexpected stream error: %v", ev.Err)
		}
		deltas = append(deltas, ev.Response.Message.Content)
		if ev.Response.Done {
			sawDone = true
		}
	}

	if len(deltas) != 3 {
		t.Fatalf("got %d events, want 3", len(deltas))
	}
	if !sawDone {
		t.Error("never saw the done object")
	}
}

func TestParseChatStreamSkipsBlankLines(t *testing.T) {
	input := "\n{\"message\":{\"role\":\"assistant\",\"content\":\"hi\"},\"done\":true}\n\n"
	content, err := Accumulate(ParseChatStream(strings.NewReader(input)))
	if err != nil {
		t.Fatalf("Accumulate: %v", err)
	}
	if content != "hi" {
		t.Errorf("got %q, want hi", content)
	}
}

func TestParseChatStreamMalformed(t *testing.T) {
	events := ParseChatStream(strings.NewReader("not json\n"))

	var gotErr error
	for ev := range events {
		if ev.Err != nil {
			gotErr = ev.Err
		}
	}
	if gotErr == nil {
		t.Fatal("expected a parse error event")
	}
}

func TestParseChatStreamStopsAtDone(t *testing.T) {
	// Anything after the done object must be ignored.
	input := `{"done":true}
{"message":{"role":"assistant","content":"stray"},"done":false}
`
	events := ParseChatStream(strings.NewReader(input))

	var count int
	for range events {
		count++
	}
	if count != 1 {
		t.Errorf("got %d events, want 1", count)
	}
}
