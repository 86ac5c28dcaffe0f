package utils

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Now returns the current UTC time truncated to microseconds, the precision
// Postgres keeps for timestamptz. Every store stamps entities with it.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// dateLayouts accepted for calendar dates coming from clients.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseDate parses a date or date-time string into UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC().Truncate(time.Microsecond), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

// UniqueInt64s returns the distinct values in ascending order.
func UniqueInt64s(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
