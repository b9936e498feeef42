package parse

import (
	"regexp"
	"strconv"
	"testing"
	"time"
)

func TestNormalizeBracketedForm(t *testing.T) {
	n := NewNormalizer(time.UTC)
	ts, err := n.Normalize("01/02/2023, 14:30:05")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2023, time.February, 1, 14, 30, 5, 0, time.UTC)
	if !ts.Equal(want) {
		t.Fatalf("got %v, want %v", ts, want)
	}
}

func TestNormalizeTwelveHourForm(t *testing.T) {
	n := NewNormalizer(time.UTC)

	cases := []struct {
		in   string
		hour int
	}{
		{"01/02/23, 2:30 PM", 14},
		{"01/02/23, 2:30 pm", 14},
		{"01/02/23, 2:30 AM", 2},
		{"01/02/23, 12:00 AM", 0},
		{"01/02/23, 12:00 PM", 12},
		{"01/02/2023, 9:00:00 AM", 9},
	}
	for _, c := range cases {
		ts, err := n.Normalize(c.in)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", c.in, err)
		}
		if ts.Hour() != c.hour {
			t.Fatalf("%s: got hour %d, want %d", c.in, ts.Hour(), c.hour)
		}
		if ts.Day() != 1 || ts.Month() != time.February || ts.Year() != 2023 {
			t.Fatalf("%s: wrong date %v", c.in, ts)
		}
	}
}

func TestNormalizeTwentyFourHourForm(t *testing.T) {
	n := NewNormalizer(time.UTC)
	ts, err := n.Normalize("18/05/23, 22:15")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2023, time.May, 18, 22, 15, 0, 0, time.UTC)
	if !ts.Equal(want) {
		t.Fatalf("got %v, want %v", ts, want)
	}
}

func TestNormalizeISOForm(t *testing.T) {
	n := NewNormalizer(time.UTC)
	ts, err := n.Normalize("2023-05-18 08:39:07")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2023, time.May, 18, 8, 39, 7, 0, time.UTC)
	if !ts.Equal(want) {
		t.Fatalf("got %v, want %v", ts, want)
	}
}

func TestNormalizeRejectsIllegalComponents(t *testing.T) {
	n := NewNormalizer(time.UTC)
	bad := []string{
		"99/99/2023, 10:00:00",
		"31/04/2023, 10:00:00", // April has 30 days
		"29/02/2023, 10:00:00", // not a leap year
		"01/02/2023, 24:00:00",
		"01/02/2023, 10:61:00",
		"01/02/23, 13:30 PM", // 12-hour clock caps at 12
		"not a timestamp",
		"",
	}
	for _, in := range bad {
		if _, err := n.Normalize(in); err == nil {
			t.Fatalf("%q: expected error, got none", in)
		}
	}
}

func TestNormalizeLeapDay(t *testing.T) {
	n := NewNormalizer(time.UTC)
	ts, err := n.Normalize("29/02/2024, 10:00:00")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ts.Day() != 29 || ts.Month() != time.February {
		t.Fatalf("got %v, want Feb 29", ts)
	}
}

func TestNormalizeUsesReferenceLocation(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*3600)
	n := NewNormalizer(loc)
	ts, err := n.Normalize("01/02/2023, 14:30:05")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ts.Location() != loc {
		t.Fatalf("got location %v, want %v", ts.Location(), loc)
	}
	_, offset := ts.Zone()
	if offset != 5*3600 {
		t.Fatalf("got offset %d, want %d", offset, 5*3600)
	}
}

func TestNormalizeExtraGrammar(t *testing.T) {
	// unix epoch seconds, a shape no built-in grammar accepts
	epoch := Grammar{
		Pattern: regexp.MustCompile(`^@(\d+)$`),
		Build: func(m []string, loc *time.Location) (time.Time, bool) {
			sec, err := strconv.ParseInt(m[1], 10, 64)
			if err != nil {
				return time.Time{}, false
			}
			return time.Unix(sec, 0).In(loc), true
		},
	}
	n := NewNormalizer(time.UTC, epoch)

	ts, err := n.Normalize("@1000000000")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ts.Year() != 2001 {
		t.Fatalf("got %v, want year 2001", ts)
	}

	// built-in grammars still take priority
	if _, err := n.Normalize("01/02/2023, 14:30:05"); err != nil {
		t.Fatalf("built-in grammar broken: %v", err)
	}
}

// Round-trip: formatting the normalized instant reconstructs the same
// calendar moment the grammar captured.
func TestNormalizeRoundTrip(t *testing.T) {
	n := NewNormalizer(time.UTC)
	ts, err := n.Normalize("18/05/2023, 08:39:07")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := ts.Format("02/01/2006, 15:04:05"); got != "18/05/2023, 08:39:07" {
		t.Fatalf("round-trip mismatch: %s", got)
	}
}
