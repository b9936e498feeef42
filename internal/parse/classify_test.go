package parse

import "testing"

func TestDetectType(t *testing.T) {
	cases := []struct {
		content string
		want    MessageType
	}{
		{"Hello there", TypeText},
		{"<Media omitted>", TypeMedia},
		{"holiday photo <Media omitted>", TypeMedia},
		{"https://example.com/page", TypeLink},
		{"check https://example.com", TypeLink},
		{"http://example.com", TypeLink},
		{"Voice note (0:42)", TypeVoiceNote},
		{"Contact card: Jane", TypeCard},
		{"", TypeText},
	}
	for _, c := range cases {
		if got := DetectType(c.content); got != c.want {
			t.Fatalf("%q: got %s, want %s", c.content, got, c.want)
		}
	}
}

// A media caption containing a URL is still media: the marker check runs first.
func TestDetectTypeMediaBeatsLink(t *testing.T) {
	content := "<Media omitted> see https://example.com"
	if got := DetectType(content); got != TypeMedia {
		t.Fatalf("got %s, want media", got)
	}
}

func TestDetectTypeIdempotent(t *testing.T) {
	inputs := []string{
		"Hello", "<Media omitted>", "https://example.com", "Voice note",
	}
	for _, in := range inputs {
		first := DetectType(in)
		if second := DetectType(in); second != first {
			t.Fatalf("%q: classification not stable: %s then %s", in, first, second)
		}
	}
}
