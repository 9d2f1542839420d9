package model

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	dps "github.com/markusmobius/go-dateparser"
	"github.com/tj/go-naturaldate"
)

// recordedLayouts are the absolute date formats tried before the natural
// language parsers.
var recordedLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05 -0700",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// signedOffset matches "+1 week" and "-3 days".
var signedOffset = regexp.MustCompile(`^([+-])\s*(\d+)\s*([a-z]+)$`)

// ParseRecorded parses a human friendly date used in place of the insert time.
// It accepts absolute dates in most common layouts, the words now, today,
// yesterday and tomorrow, signed Go durations ("-2h30m"), signed offsets
// ("+1 week") and relative phrases ("2 days ago", "last monday").
// Times without a zone are taken as UTC.
func ParseRecorded(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range recordedLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}

	lower := strings.ToLower(s)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch lower {
	case "now":
		return now, nil
	case "today":
		return today, nil
	case "yesterday":
		return today.AddDate(0, 0, -1), nil
	case "tomorrow":
		return today.AddDate(0, 0, 1), nil
	}

	if lower[0] == '-' || lower[0] == '+' {
		if d, err := time.ParseDuration(lower); err == nil {
			return now.Add(d), nil
		}
		if m := signedOffset.FindStringSubmatch(lower); m != nil {
			if m[1] == "-" {
				lower = m[2] + " " + m[3] + " ago"
			} else {
				lower = "in " + m[2] + " " + m[3]
			}
		}
	}

	if strings.HasPrefix(lower, "last ") || strings.HasPrefix(lower, "next ") || strings.HasPrefix(lower, "this ") {
		if t, err := naturaldate.Parse(lower, now, naturaldate.WithDirection(naturaldate.Past)); err == nil {
			return t, nil
		}
	}

	dt, err := dps.Parse(&dps.Configuration{CurrentTime: now, DefaultTimezone: time.UTC}, lower)
	if err != nil || dt.Time.IsZero() {
		return time.Time{}, fmt.Errorf("unrecognised date %q", s)
	}
	return dt.Time, nil
}
