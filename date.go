package aisafety

import (
	"regexp"
	"strings"
	"time"
)

// DateParser parses dates in one named layout.
type DateParser struct {
	Name   string
	Layout string
}

// Parse parses s with the parser's layout. Surrounding whitespace is
// ignored and internal whitespace runs are collapsed.
func (p DateParser) Parse(s string) (time.Time, error) {
	s = strings.Join(strings.Fields(s), " ")
	t, err := time.Parse(p.Layout, s)
	if err != nil {
		return time.Time{}, Errorf(EINVALID, "date %q is not %s", s, p.Name)
	}
	return t, nil
}

// Date formats seen on publisher pages.
var (
	ISODate        = DateParser{Name: "iso-8601 date", Layout: "2006-01-02"}
	RFC3339Date    = DateParser{Name: "rfc-3339 timestamp", Layout: time.RFC3339}
	ShortMonthDate = DateParser{Name: "short month date", Layout: "Jan 2, 2006"}
	LongMonthDate  = DateParser{Name: "long month date", Layout: "January 2, 2006"}
)

// DefaultDateParsers returns the parsers ParseDate tries, in priority order.
func DefaultDateParsers() []DateParser {
	return []DateParser{ISODate, RFC3339Date, ShortMonthDate, LongMonthDate}
}

// ParseDate tries each parser in order and returns the first success.
// With no parsers, DefaultDateParsers is used. Returns EINVALID when
// no parser accepts s.
func ParseDate(s string, parsers ...DateParser) (time.Time, error) {
	if len(parsers) == 0 {
		parsers = DefaultDateParsers()
	}
	if strings.TrimSpace(s) == "" {
		return time.Time{}, Errorf(EINVALID, "empty date")
	}
	for _, p := range parsers {
		if t, err := p.Parse(s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, Errorf(EINVALID, "unrecognized date %q", s)
}

var embeddedDateRe = regexp.MustCompile(`(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)\s+\d{1,2},\s+\d{4}`)

// FindDate returns the first "Mon D, YYYY" date embedded in text.
// Returns ENOTFOUND when text holds no such pattern and EINVALID when
// the match is not a real calendar date.
func FindDate(text string) (time.Time, error) {
	match := embeddedDateRe.FindString(text)
	if match == "" {
		return time.Time{}, Errorf(ENOTFOUND, "no date found")
	}
	return ShortMonthDate.Parse(match)
}
