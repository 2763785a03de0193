package util

import (
	"log"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var numberRe = regexp.MustCompile(`(\d+)`)

// ParseDate normalizes the free-text date forms job boards emit into a
// calendar date. Relative expressions ("3 days ago", "2 weeks ago") are
// resolved against now; months are approximated as 30 days. ISO-like
// timestamps and plain YYYY-MM-DD are accepted as-is. Anything else
// falls back to now with a logged warning; a record with a fuzzy date
// beats no record.
func ParseDate(raw string, now time.Time) time.Time {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.TrimSpace(strings.ReplaceAll(s, "posted", ""))
	s = strings.TrimSpace(strings.TrimPrefix(s, "on "))

	if s == "" {
		return now
	}

	switch {
	case strings.Contains(s, "just now"),
		strings.Contains(s, "today"),
		strings.Contains(s, "hour"),
		strings.Contains(s, "minute"):
		return now
	case strings.Contains(s, "yesterday"):
		return now.AddDate(0, 0, -1)
	case strings.Contains(s, "day"):
		if n, ok := leadingNumber(s); ok {
			return now.AddDate(0, 0, -n)
		}
	case strings.Contains(s, "week"):
		if n, ok := leadingNumber(s); ok {
			return now.AddDate(0, 0, -7*n)
		}
	case strings.Contains(s, "month"):
		if n, ok := leadingNumber(s); ok {
			// months approximated as 30 days
			return now.AddDate(0, 0, -30*n)
		}
	}

	if t, ok := parseAbsolute(s); ok {
		return t
	}

	log.Printf("[dates] could not parse %q, defaulting to today", raw)
	return now
}

func parseAbsolute(s string) (time.Time, bool) {
	s = strings.ToUpper(s) // RFC3339 wants T/Z uppercase

	for _, layout := range []string{
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05",
		"2006-01-02",
	} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func leadingNumber(s string) (int, bool) {
	m := numberRe.FindString(s)
	if m == "" {
		return 0, false
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return n, true
}
