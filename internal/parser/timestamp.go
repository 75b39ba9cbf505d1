package parser

import (
	"regexp"
	"strings"
	"time"

	"github.com/markusmobius/go-dateparser"
)

// periodRegex matches period expressions like "this week", "last month".
var periodRegex = regexp.MustCompile(`(?i)^(this|current|last|previous)\s+(hour|day|week|month|year)$`)

// ParseTimestamp parses a natural language timestamp such as "2 hours ago",
// "yesterday" or "this week" relative to the current time.
func ParseTimestamp(input string) (time.Time, error) {
	return ParseTimestampAt(input, time.Now())
}

// ParseTimestampAt parses input relative to now.
func ParseTimestampAt(input string, now time.Time) (time.Time, error) {
	input = strings.TrimSpace(input)
	switch strings.ToLower(input) {
	case "", "now":
		return now, nil
	case "today":
		return startOfDay(now), nil
	}

	if match := periodRegex.FindStringSubmatch(input); match != nil {
		return periodStart(now, strings.ToLower(match[1]), strings.ToLower(match[2])), nil
	}

	cfg := &dateparser.Configuration{CurrentTime: now}
	result, err := dateparser.Parse(cfg, input)
	if err != nil || result.Time.IsZero() {
		return time.Time{}, NewTimestampError(input)
	}
	return result.Time, nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// periodStart returns the start of the current or previous period.
func periodStart(now time.Time, modifier, period string) time.Time {
	previous := modifier == "last" || modifier == "previous"
	day := startOfDay(now)

	switch period {
	case "hour":
		t := time.Date(now.Year(), now.Month(), now.Day(), now.Hour(), 0, 0, 0, now.Location())
		if previous {
			t = t.Add(-time.Hour)
		}
		return t
	case "day":
		if previous {
			return day.AddDate(0, 0, -1)
		}
		return day
	case "week":
		// Weeks start on Monday.
		offset := (int(now.Weekday()) + 6) % 7
		t := day.AddDate(0, 0, -offset)
		if previous {
			t = t.AddDate(0, 0, -7)
		}
		return t
	case "month":
		t := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		if previous {
			t = t.AddDate(0, -1, 0)
		}
		return t
	default:
		t := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
		if previous {
			t = t.AddDate(-1, 0, 0)
		}
		return t
	}
}
