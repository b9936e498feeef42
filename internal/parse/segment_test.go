package parse

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func testParser() *Parser {
	return NewParser(Options{Location: time.UTC})
}

func parseLines(t *testing.T, p *Parser, lines ...string) []Message {
	t.Helper()
	messages, err := p.Parse(strings.NewReader(strings.Join(lines, "\n")))
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	return messages
}

func TestParseMultilineAndMedia(t *testing.T) {
	messages := parseLines(t, testParser(),
		"[01/02/2023, 14:30:05] Alice: Hello there",
		"how are you?",
		"[01/02/2023, 14:31:00] Bob: <Media omitted>",
	)

	if len(messages) != 2 {
		t.Fatalf("got %d messages, want 2", len(messages))
	}
	if messages[0].ID != 1 || messages[1].ID != 2 {
		t.Fatalf("ids not contiguous: %d, %d", messages[0].ID, messages[1].ID)
	}
	if messages[0].Sender != "Alice" {
		t.Fatalf("got sender %q, want Alice", messages[0].Sender)
	}
	if messages[0].Content != "Hello there\nhow are you?" {
		t.Fatalf("got content %q", messages[0].Content)
	}
	if messages[0].Type != TypeText {
		t.Fatalf("got type %s, want text", messages[0].Type)
	}
	if messages[1].Sender != "Bob" || messages[1].Content != "<Media omitted>" {
		t.Fatalf("got %q from %q", messages[1].Content, messages[1].Sender)
	}
	if messages[1].Type != TypeMedia {
		t.Fatalf("got type %s, want media", messages[1].Type)
	}
}

func TestParseTwelveHourLink(t *testing.T) {
	messages := parseLines(t, testParser(),
		"01/02/23, 2:30 PM - Alice: check https://example.com",
	)

	if len(messages) != 1 {
		t.Fatalf("got %d messages, want 1", len(messages))
	}
	if messages[0].Type != TypeLink {
		t.Fatalf("got type %s, want link", messages[0].Type)
	}
	if messages[0].Sender != "Alice" {
		t.Fatalf("got sender %q, want Alice", messages[0].Sender)
	}
	want := time.Date(2023, time.February, 1, 14, 30, 0, 0, time.UTC)
	if !messages[0].Timestamp.Equal(want) {
		t.Fatalf("got timestamp %v, want %v", messages[0].Timestamp, want)
	}
}

func TestParseDropsSystemLines(t *testing.T) {
	messages := parseLines(t, testParser(),
		"01/02/2023, 09:00:00 AM - Security code changed",
	)
	if len(messages) != 0 {
		t.Fatalf("got %d messages, want 0", len(messages))
	}
}

func TestParseDropsSystemNoticesWithSender(t *testing.T) {
	messages := parseLines(t, testParser(),
		"[01/02/2023, 14:30:05] Alice: This message was deleted",
		"[01/02/2023, 14:31:00] Bob: still here",
	)
	if len(messages) != 1 {
		t.Fatalf("got %d messages, want 1", len(messages))
	}
	if messages[0].ID != 1 || messages[0].Sender != "Bob" {
		t.Fatalf("got id %d from %q", messages[0].ID, messages[0].Sender)
	}
}

func TestParseSystemLineSealsPending(t *testing.T) {
	messages := parseLines(t, testParser(),
		"[01/02/2023, 14:30:05] Alice: Hello",
		"still typing",
		"01/02/23, 2:31 PM - Messages and calls are end-to-end encrypted",
		"[01/02/2023, 14:32:00] Bob: hi",
	)
	if len(messages) != 2 {
		t.Fatalf("got %d messages, want 2", len(messages))
	}
	if messages[0].Content != "Hello\nstill typing" {
		t.Fatalf("got content %q", messages[0].Content)
	}
	if messages[1].Sender != "Bob" {
		t.Fatalf("got sender %q, want Bob", messages[1].Sender)
	}
}

func TestParseEmptyNoticeSetKeepsEverything(t *testing.T) {
	p := NewParser(Options{Location: time.UTC, SystemNotices: []string{}})
	messages := parseLines(t, p,
		"[01/02/2023, 14:30:05] Alice: This message was deleted",
	)
	if len(messages) != 1 {
		t.Fatalf("got %d messages, want 1", len(messages))
	}
	if messages[0].Type != TypeText {
		t.Fatalf("got type %s, want text", messages[0].Type)
	}
}

func TestParseInvalidTimestampAborts(t *testing.T) {
	_, err := testParser().Parse(strings.NewReader(
		"[99/99/2023, 10:00:00] Alice: bad date",
	))
	var tsErr *TimestampError
	if !errors.As(err, &tsErr) {
		t.Fatalf("expected TimestampError, got %v", err)
	}
	if tsErr.Line != 1 {
		t.Fatalf("got line %d, want 1", tsErr.Line)
	}
	if !strings.Contains(tsErr.Text, "99/99/2023") {
		t.Fatalf("error text missing raw timestamp: %q", tsErr.Text)
	}
}

func TestParseLeadingNoiseDiscarded(t *testing.T) {
	messages := parseLines(t, testParser(),
		"random preamble with no header",
		"",
		"[01/02/2023, 14:30:05] Alice: Hello",
	)
	if len(messages) != 1 {
		t.Fatalf("got %d messages, want 1", len(messages))
	}
	if messages[0].Content != "Hello" {
		t.Fatalf("got content %q", messages[0].Content)
	}
}

func TestParsePreservesContinuationWhitespace(t *testing.T) {
	messages := parseLines(t, testParser(),
		"[01/02/2023, 14:30:05] Alice:   padded header  ",
		"  indented line",
		"\ttabbed line",
	)
	if len(messages) != 1 {
		t.Fatalf("got %d messages, want 1", len(messages))
	}
	// header segment is trimmed, continuations are verbatim
	want := "padded header\n  indented line\n\ttabbed line"
	if messages[0].Content != want {
		t.Fatalf("got content %q, want %q", messages[0].Content, want)
	}
}

func TestParseEmptyInput(t *testing.T) {
	messages := parseLines(t, testParser())
	if len(messages) != 0 {
		t.Fatalf("got %d messages, want 0", len(messages))
	}
}

func TestParseLastMessageSealedAtEOF(t *testing.T) {
	messages := parseLines(t, testParser(),
		"[01/02/2023, 14:30:05] Alice: only one",
		"with a tail",
	)
	if len(messages) != 1 {
		t.Fatalf("got %d messages, want 1", len(messages))
	}
	if messages[0].Content != "only one\nwith a tail" {
		t.Fatalf("got content %q", messages[0].Content)
	}
}

func TestParseIDsCountNonSystemHeaders(t *testing.T) {
	messages := parseLines(t, testParser(),
		"[01/02/2023, 14:30:05] Alice: one",
		"[01/02/2023, 14:30:06] Bob: Security code changed",
		"[01/02/2023, 14:30:07] Alice: two",
		"[01/02/2023, 14:30:08] Bob: three",
	)
	if len(messages) != 3 {
		t.Fatalf("got %d messages, want 3", len(messages))
	}
	for i, m := range messages {
		if m.ID != i+1 {
			t.Fatalf("id gap at %d: got %d", i, m.ID)
		}
	}
}

func TestDetectSenders(t *testing.T) {
	input := strings.Join([]string{
		"[01/02/2023, 14:30:05] Alice: Hello there",
		"how are you?",
		"[01/02/2023, 14:31:00] Bob: <Media omitted>",
		"[01/02/2023, 14:32:00] Alice: again",
	}, "\n")

	senders, err := testParser().DetectSenders(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(senders) != 2 || senders[0] != "Alice" || senders[1] != "Bob" {
		t.Fatalf("got senders %v, want [Alice Bob]", senders)
	}
}

func TestDetectSendersIgnoresTimestampValidity(t *testing.T) {
	senders, err := testParser().DetectSenders(strings.NewReader(
		"[99/99/2023, 10:00:00] Alice: bad date but real sender",
	))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(senders) != 1 || senders[0] != "Alice" {
		t.Fatalf("got senders %v, want [Alice]", senders)
	}
}
