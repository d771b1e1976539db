package models

import (
	"strings"
	"time"
)

// Entity is any backend resource addressed by a backend-assigned id.
type Entity interface {
	EntityID() string
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTimestamp reads the timestamp shapes the backend emits. Unparseable or
// empty values yield the zero time, which sorts as the oldest.
func ParseTimestamp(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Time{}
}

// StringOr returns *s, or fallback when s is nil or blank.
func StringOr(s *string, fallback string) string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return fallback
	}
	return *s
}
