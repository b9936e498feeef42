package parse

import (
	"regexp"
	"strings"
)

// Markers WhatsApp substitutes for non-text payloads in .txt exports.
const (
	mediaOmittedMarker = "<Media omitted>"
	voiceNoteMarker    = "Voice note"
	contactCardMarker  = "Contact card"
)

var urlRe = regexp.MustCompile(`https?://\S+`)

// DetectType classifies fully-assembled message content. Checks run in fixed
// priority and the first hit wins: a media caption may itself contain a URL,
// so the media marker is tested before the link check. Unrecognized content
// is plain text, never an error.
func DetectType(content string) MessageType {
	switch {
	case strings.Contains(content, mediaOmittedMarker):
		return TypeMedia
	case urlRe.MatchString(content):
		return TypeLink
	case strings.Contains(content, voiceNoteMarker):
		return TypeVoiceNote
	case strings.Contains(content, contactCardMarker):
		return TypeCard
	default:
		return TypeText
	}
}
