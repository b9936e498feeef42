package stats

import (
	"sort"
	"time"

	"github.com/mpetrov/wa-chat-search/internal/parse"
)

type SenderCount struct {
	Sender string
	Count  int
}

type ChatStats struct {
	TotalMessages int
	FirstDate     string // YYYY-MM-DD
	LastDate      string
	BySender      []SenderCount // descending by count
	ByWeekday     [7]int        // Monday-first
	ByHour        [24]int
	ByType        map[parse.MessageType]int
	AveragePerDay float64
	BusiestDay    time.Weekday
	QuietestDay   time.Weekday
	BusiestHour   int
}

// Compute aggregates counts over an already-parsed transcript. Messages are
// assumed to be in transcript order, which for chat exports is also
// chronological.
func Compute(messages []parse.Message) ChatStats {
	s := ChatStats{ByType: make(map[parse.MessageType]int)}
	if len(messages) == 0 {
		return s
	}

	s.TotalMessages = len(messages)
	first := messages[0].Timestamp
	last := messages[len(messages)-1].Timestamp
	s.FirstDate = first.Format("2006-01-02")
	s.LastDate = last.Format("2006-01-02")

	senderCounts := make(map[string]int)
	for _, m := range messages {
		senderCounts[m.Sender]++
		s.ByWeekday[mondayFirst(m.Timestamp.Weekday())]++
		s.ByHour[m.Timestamp.Hour()]++
		s.ByType[m.Type]++
	}

	for sender, count := range senderCounts {
		s.BySender = append(s.BySender, SenderCount{Sender: sender, Count: count})
	}
	sort.Slice(s.BySender, func(i, j int) bool {
		if s.BySender[i].Count != s.BySender[j].Count {
			return s.BySender[i].Count > s.BySender[j].Count
		}
		return s.BySender[i].Sender < s.BySender[j].Sender
	})

	days := int(last.Sub(first).Hours()/24) + 1
	if days < 1 {
		days = 1
	}
	s.AveragePerDay = float64(s.TotalMessages) / float64(days)

	busiest, quietest := 0, 0
	for i := 1; i < 7; i++ {
		if s.ByWeekday[i] > s.ByWeekday[busiest] {
			busiest = i
		}
		if s.ByWeekday[i] < s.ByWeekday[quietest] {
			quietest = i
		}
	}
	s.BusiestDay = fromMondayFirst(busiest)
	s.QuietestDay = fromMondayFirst(quietest)

	for h := 1; h < 24; h++ {
		if s.ByHour[h] > s.ByHour[s.BusiestHour] {
			s.BusiestHour = h
		}
	}

	return s
}

func mondayFirst(d time.Weekday) int {
	return (int(d) + 6) % 7
}

func fromMondayFirst(i int) time.Weekday {
	return time.Weekday((i + 1) % 7)
}
