package parse

import (
	"fmt"
	"time"
)

// MessageType tags a parsed message. Export formats keep growing payload
// kinds, so switches over it should carry a default arm.
type MessageType string

const (
	TypeText      MessageType = "text"
	TypeMedia     MessageType = "media"
	TypeLink      MessageType = "link"
	TypeVoiceNote MessageType = "voice_note"
	TypeCard      MessageType = "card"
	TypeSystem    MessageType = "system"
)

// Message is one parsed chat message.
type Message struct {
	ID         int       // 1-based, contiguous in transcript order
	Timestamp  time.Time // in the configured reference timezone
	Sender     string    // header spelling, trimmed; no alias resolution
	Content    string    // header remainder + continuation lines joined by "\n"
	Type       MessageType
	Sentiment  *float64 // filled in downstream, never by the parser
	LineNumber int      // header line in the source file
}

// ChatMeta describes one parsed export file.
type ChatMeta struct {
	ChatKey   string
	FilePath  string
	Title     string
	StartedAt time.Time
	UpdatedAt time.Time
	Mtime     time.Time
	Size      int64
}

// ParseResult is what the indexer consumes for one export file.
type ParseResult struct {
	Meta     ChatMeta
	Messages []Message
}

// TimestampError reports a header line whose timestamp matched no grammar
// or failed calendar validation. The whole parse aborts on it.
type TimestampError struct {
	Line int
	Text string
}

func (e *TimestampError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("invalid timestamp %q at line %d", e.Text, e.Line)
	}
	return fmt.Sprintf("invalid timestamp %q", e.Text)
}
