// Package datefmt parses the loose date strings accepted by entry queries.
package datefmt

import (
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Order matters: 05/12/2023 is read month-first, like the clients that send it.
var dateLayouts = []string{
	"2006/1/2",
	"1/2/2006",
	"2-1-2006",
	"2/1/2006",
	"2006-1-2",
	"2006.1.2",
	"2.1.2006",
}

const clockLayout = " 15:04:05"

// ErrUnparseable is returned when no known layout matches.
var ErrUnparseable = errors.New("unable to parse date")

// ParseDate parses a date without a time of day. The result is midnight UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}

	return time.Time{}, errors.Wrapf(ErrUnparseable, "%q", s)
}

// ParseDateTime parses a date followed by HH:MM:SS.
func ParseDateTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout+clockLayout, s, time.UTC); err == nil {
			return t, nil
		}
	}

	return time.Time{}, errors.Wrapf(ErrUnparseable, "%q", s)
}

// Parse accepts a date with or without a time of day, and RFC 3339.
func Parse(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, strings.TrimSpace(s)); err == nil {
		return t.UTC(), nil
	}
	if t, err := ParseDateTime(s); err == nil {
		return t, nil
	}

	return ParseDate(s)
}

// EndOfDay returns the last second of the given calendar date.
func EndOfDay(s string) (time.Time, error) {
	t, err := ParseDate(s)
	if err != nil {
		return time.Time{}, err
	}

	return t.Add(24*time.Hour - time.Second), nil
}
