package stats

import (
	"testing"
	"time"

	"github.com/mpetrov/wa-chat-search/internal/parse"
)

func msg(id int, ts time.Time, sender string, typ parse.MessageType) parse.Message {
	return parse.Message{ID: id, Timestamp: ts, Sender: sender, Content: "x", Type: typ}
}

func TestComputeEmpty(t *testing.T) {
	s := Compute(nil)
	if s.TotalMessages != 0 || s.FirstDate != "" {
		t.Fatalf("expected zero stats, got %+v", s)
	}
}

func TestComputeCounts(t *testing.T) {
	// Monday 2023-05-15 and Tuesday 2023-05-16
	mon := time.Date(2023, 5, 15, 9, 0, 0, 0, time.UTC)
	tue := time.Date(2023, 5, 16, 21, 0, 0, 0, time.UTC)

	s := Compute([]parse.Message{
		msg(1, mon, "Alice", parse.TypeText),
		msg(2, mon.Add(time.Minute), "Bob", parse.TypeText),
		msg(3, mon.Add(2*time.Minute), "Alice", parse.TypeMedia),
		msg(4, tue, "Alice", parse.TypeLink),
	})

	if s.TotalMessages != 4 {
		t.Fatalf("got %d messages, want 4", s.TotalMessages)
	}
	if s.FirstDate != "2023-05-15" || s.LastDate != "2023-05-16" {
		t.Fatalf("got range %s..%s", s.FirstDate, s.LastDate)
	}
	if len(s.BySender) != 2 || s.BySender[0].Sender != "Alice" || s.BySender[0].Count != 3 {
		t.Fatalf("got sender counts %+v", s.BySender)
	}
	if s.ByType[parse.TypeText] != 2 || s.ByType[parse.TypeMedia] != 1 || s.ByType[parse.TypeLink] != 1 {
		t.Fatalf("got type counts %+v", s.ByType)
	}
	if s.BusiestDay != time.Monday {
		t.Fatalf("got busiest day %s, want Monday", s.BusiestDay)
	}
	if s.BusiestHour != 9 {
		t.Fatalf("got busiest hour %d, want 9", s.BusiestHour)
	}
	if s.AveragePerDay != 2 {
		t.Fatalf("got avg/day %f, want 2", s.AveragePerDay)
	}
}

func TestComputeSingleDay(t *testing.T) {
	ts := time.Date(2023, 5, 15, 9, 0, 0, 0, time.UTC)
	s := Compute([]parse.Message{msg(1, ts, "Alice", parse.TypeText)})
	if s.AveragePerDay != 1 {
		t.Fatalf("got avg/day %f, want 1", s.AveragePerDay)
	}
}
