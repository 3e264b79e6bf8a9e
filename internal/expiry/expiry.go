// Package expiry turns the free-form expiry strings typed into the admin
// screens into instants.
//
// Parsers are tried in order and the first success wins:
//
//	RFC 3339 with offset        2026-02-20T09:17:00.000Z
//	datetime-local              2026-02-20T09:17, 2026-02-20T09:17:05 (zone of the parser)
//	date-time with a space      2026-02-20 09:17[:05]                   (zone of the parser)
//	date only                   2026-02-20                              (UTC midnight)
//	day/month/year              20/02/2026[ 09:17]                      (zone of the parser)
package expiry

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ErrInvalid is returned when no parser accepts a non-empty input.
var ErrInvalid = errors.New("invalid expiry timestamp")

type attempt func(s string, loc *time.Location) (time.Time, bool)

type Parser struct {
	loc      *time.Location
	attempts []attempt
}

// NewParser returns a parser that reads zone-less inputs in loc.
// A nil loc means time.Local.
func NewParser(loc *time.Location) *Parser {
	if loc == nil {
		loc = time.Local
	}
	return &Parser{
		loc: loc,
		attempts: []attempt{
			layoutAttempt(time.RFC3339Nano, false),
			layoutAttempt("2006-01-02T15:04Z07:00", false),
			layoutAttempt("2006-01-02T15:04:05.999999999Z0700", false),
			layoutAttempt("2006-01-02T15:04Z0700", false),
			layoutAttempt("2006-01-02T15:04:05.999999999", true),
			layoutAttempt("2006-01-02T15:04", true),
			layoutAttempt("2006-01-02 15:04:05.999999999", true),
			layoutAttempt("2006-01-02 15:04", true),
			layoutAttempt("2006-01-02", false),
			dayMonthYear,
		},
	}
}

// Parse returns nil for an empty or blank input, meaning "never expires".
// The returned instant is always in UTC.
func (p *Parser) Parse(raw string) (*time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil, nil
	}
	for _, try := range p.attempts {
		if t, ok := try(s, p.loc); ok {
			u := t.UTC()
			return &u, nil
		}
	}
	return nil, ErrInvalid
}

// ParseOptional is Parse for request fields that may be absent.
func (p *Parser) ParseOptional(raw *string) (*time.Time, error) {
	if raw == nil {
		return nil, nil
	}
	return p.Parse(*raw)
}

func layoutAttempt(layout string, local bool) attempt {
	return func(s string, loc *time.Location) (time.Time, bool) {
		var (
			t   time.Time
			err error
		)
		if local {
			t, err = time.ParseInLocation(layout, s, loc)
		} else {
			t, err = time.Parse(layout, s)
		}
		return t, err == nil
	}
}

var dmyPattern = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})(?:\s+(\d{1,2}):(\d{2}))?$`)

func dayMonthYear(s string, loc *time.Location) (time.Time, bool) {
	m := dmyPattern.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, false
	}
	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])
	hour, minute := 0, 0
	if m[4] != "" {
		hour, _ = strconv.Atoi(m[4])
		minute, _ = strconv.Atoi(m[5])
	}
	if month < 1 || month > 12 || hour > 23 || minute > 59 {
		return time.Time{}, false
	}

	t := time.Date(year, time.Month(month), day, hour, minute, 0, 0, loc)
	// time.Date rolls 31/02 over into March; treat that as a typo instead
	if t.Day() != day || int(t.Month()) != month {
		return time.Time{}, false
	}
	return t, true
}
