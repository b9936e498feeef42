package parse

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"
)

const maxLineSize = 1024 * 1024 // 1MB, some exports carry huge pasted blobs

// Header grammars tried in priority order. Each captures
// (timestamp, sender, first content segment). The bracketed and ISO forms are
// the most specific; the 12-hour dashed form must precede the 24-hour one
// because its time prefix also matches it.
var headerPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^\[(\d{1,2}/\d{1,2}/\d{4}, \d{1,2}:\d{2}:\d{2})\] ([^:]+): (.+)$`),
	regexp.MustCompile(`^(\d{1,2}/\d{1,2}/\d{2,4}, \d{1,2}:\d{2}(?::\d{2})? (?i:AM|PM)) - ([^:]+): (.+)$`),
	regexp.MustCompile(`^(\d{1,2}/\d{1,2}/\d{2,4}, \d{1,2}:\d{2}) - ([^:]+): (.+)$`),
	regexp.MustCompile(`^(\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}) - ([^:]+): (.+)$`),
}

// Dated lines with no sender colon are platform events rendered as full-line
// text in some export variants ("01/02/23, 09:00 AM - Security code changed").
var systemLinePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{2,4}, \d{1,2}:\d{2}(?::\d{2})?(?: (?i:AM|PM))? - [^:]*$`),
	regexp.MustCompile(`^\[\d{1,2}/\d{1,2}/\d{4}, \d{1,2}:\d{2}:\d{2}\] [^:]*$`),
}

// defaultSystemNotices match sender-attributed content that is actually a
// platform notice. Membership changes mostly arrive as no-colon system lines,
// so only phrasings that carry a sender segment are listed here.
var defaultSystemNotices = []string{
	"Messages and calls are end-to-end encrypted",
	"created this group",
	"created group",
	"added you",
	"You were added",
	"Security code changed",
	"This message was deleted",
	"You deleted this message",
}

// Options configures a Parser.
type Options struct {
	// Location is the reference timezone for timestamps without an offset.
	// Nil means the process-local zone. Resolved once per Parser so every
	// line in a run observes the same offset.
	Location *time.Location

	// SystemNotices overrides the default notice set. Nil keeps the
	// defaults; an explicitly empty slice disables system filtering
	// entirely, reproducing exports that keep notices as ordinary text.
	SystemNotices []string

	// UserIdentity names the exporting user. The parser itself never
	// consumes it; it is carried for downstream self/other rendering.
	UserIdentity string

	// ExtraGrammars are additional timestamp formats tried after the
	// built-in ones.
	ExtraGrammars []Grammar
}

// Parser segments a line-oriented chat export into messages. One Parser owns
// one in-progress accumulator at a time, so concurrent transcripts need
// separate Parser instances.
type Parser struct {
	norm         *Normalizer
	notices      []string
	userIdentity string
}

func NewParser(opts Options) *Parser {
	notices := opts.SystemNotices
	if notices == nil {
		notices = defaultSystemNotices
	}
	return &Parser{
		norm:         NewNormalizer(opts.Location, opts.ExtraGrammars...),
		notices:      notices,
		userIdentity: opts.UserIdentity,
	}
}

// accumulator is the message under construction. It is owned exclusively by
// the parse loop and moved into the output slice at seal time.
type accumulator struct {
	ts      time.Time
	sender  string
	content strings.Builder
	line    int
}

func (a *accumulator) seal(id int) Message {
	content := a.content.String()
	return Message{
		ID:         id,
		Timestamp:  a.ts,
		Sender:     a.sender,
		Content:    content,
		Type:       DetectType(content),
		LineNumber: a.line,
	}
}

// Parse consumes the export line by line and returns the messages in
// transcript order. A header timestamp that fails every grammar aborts the
// whole call with a *TimestampError; no partial result is returned.
func (p *Parser) Parse(r io.Reader) ([]Message, error) {
	var messages []Message
	var pending *accumulator

	filtering := len(p.notices) > 0

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()

		if filtering && isSystemLine(line) {
			// platform event: seals the pending message, emits nothing
			if pending != nil {
				messages = append(messages, pending.seal(len(messages)+1))
				pending = nil
			}
			continue
		}

		m := matchHeader(line)
		if m == nil {
			// continuation of the pending message, or noise before the
			// first header; appended verbatim to preserve formatting
			if pending != nil {
				pending.content.WriteString("\n")
				pending.content.WriteString(line)
			}
			continue
		}

		if pending != nil {
			messages = append(messages, pending.seal(len(messages)+1))
			pending = nil
		}

		content := strings.TrimSpace(m[3])
		if filtering && p.isSystemNotice(content) {
			continue
		}

		ts, err := p.norm.Normalize(m[1])
		if err != nil {
			// a corrupt date makes the whole export untrustworthy
			return nil, &TimestampError{Line: lineNum, Text: m[1]}
		}

		pending = &accumulator{ts: ts, sender: strings.TrimSpace(m[2]), line: lineNum}
		pending.content.WriteString(content)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if pending != nil {
		messages = append(messages, pending.seal(len(messages)+1))
	}

	return messages, nil
}

// ParseFile parses one export file from disk.
func (p *Parser) ParseFile(path string) ([]Message, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return p.Parse(f)
}

// ParseChat parses an export file and wraps the messages with chat metadata
// for indexing. The chat key is the path relative to the export root.
func (p *Parser) ParseChat(filePath, exportRoot string) (*ParseResult, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}

	rel, err := filepath.Rel(exportRoot, filePath)
	if err != nil {
		rel = filePath
	}
	chatKey := strings.TrimSuffix(rel, ".txt")

	messages, err := p.Parse(f)
	if err != nil {
		return nil, err
	}

	result := &ParseResult{
		Meta: ChatMeta{
			ChatKey:  chatKey,
			FilePath: filePath,
			Title:    chatTitle(filePath),
			Mtime:    info.ModTime(),
			Size:     info.Size(),
		},
		Messages: messages,
	}
	if len(messages) > 0 {
		result.Meta.StartedAt = messages[0].Timestamp
		result.Meta.UpdatedAt = messages[len(messages)-1].Timestamp
	}
	return result, nil
}

// DetectSenders scans for distinct sender names using the header grammars
// alone. Timestamps are not validated and no messages are assembled, so it
// succeeds on exports that Parse would reject.
func (p *Parser) DetectSenders(r io.Reader) ([]string, error) {
	seen := make(map[string]struct{})

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	for scanner.Scan() {
		m := matchHeader(scanner.Text())
		if m == nil {
			continue
		}
		seen[strings.TrimSpace(m[2])] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	senders := make([]string, 0, len(seen))
	for s := range seen {
		senders = append(senders, s)
	}
	sort.Strings(senders)
	return senders, nil
}

// DetectSendersFile runs sender discovery over a file on disk.
func (p *Parser) DetectSendersFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return p.DetectSenders(f)
}

func matchHeader(line string) []string {
	for _, re := range headerPatterns {
		if m := re.FindStringSubmatch(line); m != nil {
			return m
		}
	}
	return nil
}

func isSystemLine(line string) bool {
	for _, re := range systemLinePatterns {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}

func (p *Parser) isSystemNotice(content string) bool {
	for _, notice := range p.notices {
		if strings.Contains(content, notice) {
			return true
		}
	}
	return false
}

// chatTitle derives a display title from the export file name.
func chatTitle(filePath string) string {
	base := strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))
	base = strings.TrimPrefix(base, "WhatsApp Chat with ")
	base = strings.TrimPrefix(base, "WhatsApp Chat - ")
	return base
}
