package parse

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// A timestamp grammar pairs a shape regexp with a builder that maps capture
// groups to calendar components. Builders reject out-of-range components so
// the normalizer can fall through to the next grammar instead of failing the
// whole line on the first shape that happens to match.
type tsGrammar struct {
	re    *regexp.Regexp
	build func(m []string, loc *time.Location) (time.Time, bool)
}

// Grammar is a caller-supplied timestamp format. Build receives the regexp
// submatches and must reject out-of-range calendar components by returning
// false, which lets Normalize fall through to the next grammar.
type Grammar struct {
	Pattern *regexp.Regexp
	Build   func(m []string, loc *time.Location) (time.Time, bool)
}

// Normalizer converts raw timestamp substrings into absolute instants in a
// single reference timezone. The grammar list is immutable after New, so one
// Normalizer is safe to share across goroutines.
type Normalizer struct {
	loc      *time.Location
	grammars []tsGrammar
}

// NewNormalizer builds a normalizer anchored to loc. Exports rarely encode a
// timezone, so every timestamp in a run is interpreted in the same location;
// passing nil uses the process-local one. Extra grammars are tried after the
// built-in ones, in the order given.
func NewNormalizer(loc *time.Location, extra ...Grammar) *Normalizer {
	if loc == nil {
		loc = time.Local
	}
	grammars := defaultGrammars()
	for _, g := range extra {
		grammars = append(grammars, tsGrammar{re: g.Pattern, build: g.Build})
	}
	return &Normalizer{loc: loc, grammars: grammars}
}

// Normalize tries each grammar in priority order and returns the first that
// both matches and yields a legal calendar moment.
func (n *Normalizer) Normalize(text string) (time.Time, error) {
	for _, g := range n.grammars {
		m := g.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if t, ok := g.build(m, n.loc); ok {
			return t, nil
		}
	}
	return time.Time{}, &TimestampError{Text: text}
}

// Location reports the reference timezone the normalizer was built with.
func (n *Normalizer) Location() *time.Location {
	return n.loc
}

// Grammar order is a deliberate tie-break: the bracketed seconds-bearing form
// and the ISO form are the most specific, the dashed 12-hour form must run
// before the 24-hour one because its prefix also matches it.
func defaultGrammars() []tsGrammar {
	return []tsGrammar{
		{
			// DD/MM/YYYY, HH:MM:SS (bracketed header form, brackets already stripped)
			re: regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4}), (\d{1,2}):(\d{2}):(\d{2})$`),
			build: func(m []string, loc *time.Location) (time.Time, bool) {
				return buildTime(m[3], m[2], m[1], m[4], m[5], m[6], "", loc)
			},
		},
		{
			// DD/MM/YY(YY), HH:MM(:SS)? AM|PM
			re: regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{2,4}), (\d{1,2}):(\d{2})(?::(\d{2}))? ((?i:AM|PM))$`),
			build: func(m []string, loc *time.Location) (time.Time, bool) {
				return buildTime(m[3], m[2], m[1], m[4], m[5], m[6], m[7], loc)
			},
		},
		{
			// DD/MM/YY(YY), HH:MM (24-hour)
			re: regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{2,4}), (\d{1,2}):(\d{2})$`),
			build: func(m []string, loc *time.Location) (time.Time, bool) {
				return buildTime(m[3], m[2], m[1], m[4], m[5], "", "", loc)
			},
		},
		{
			// YYYY-MM-DD HH:MM:SS
			re: regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2}) (\d{2}):(\d{2}):(\d{2})$`),
			build: func(m []string, loc *time.Location) (time.Time, bool) {
				return buildTime(m[1], m[2], m[3], m[4], m[5], m[6], "", loc)
			},
		},
	}
}

// buildTime validates components and assembles the instant. Empty second
// means :00; a non-empty meridiem switches to 12-hour interpretation.
func buildTime(yearS, monthS, dayS, hourS, minS, secS, meridiem string, loc *time.Location) (time.Time, bool) {
	year := atoi(yearS)
	if len(yearS) == 2 {
		year += 2000
	}
	month := atoi(monthS)
	day := atoi(dayS)
	hour := atoi(hourS)
	min := atoi(minS)
	sec := 0
	if secS != "" {
		sec = atoi(secS)
	}

	if meridiem != "" {
		if hour < 1 || hour > 12 {
			return time.Time{}, false
		}
		hour %= 12
		if strings.EqualFold(meridiem, "PM") {
			hour += 12
		}
	} else if hour > 23 {
		return time.Time{}, false
	}

	if month < 1 || month > 12 || min > 59 || sec > 59 {
		return time.Time{}, false
	}
	if day < 1 || day > daysInMonth(year, month) {
		return time.Time{}, false
	}

	return time.Date(year, time.Month(month), day, hour, min, sec, 0, loc), true
}

func daysInMonth(year, month int) int {
	switch month {
	case 1, 3, 5, 7, 8, 10, 12:
		return 31
	case 4, 6, 9, 11:
		return 30
	}
	if year%4 == 0 && (year%100 != 0 || year%400 == 0) {
		return 29
	}
	return 28
}

// atoi on digit-only regexp captures; out-of-range values are caught by the
// component checks, not here.
func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
