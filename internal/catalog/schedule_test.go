package catalog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNextOccurrence(t *testing.T) {
	// Wednesday 2026-01-07 10:00 UTC
	now := time.Date(2026, 1, 7, 10, 0, 0, 0, time.UTC)

	cases := []struct {
		name    string
		weekday time.Weekday
		hour    int
		minute  int
		want    time.Time
	}{
		{
			name:    "later this week",
			weekday: time.Saturday, hour: 6, minute: 0,
			want: time.Date(2026, 1, 10, 6, 0, 0, 0, time.UTC),
		},
		{
			name:    "earlier weekday rolls to next week",
			weekday: time.Monday, hour: 6, minute: 0,
			want: time.Date(2026, 1, 12, 6, 0, 0, 0, time.UTC),
		},
		{
			name:    "same day later time",
			weekday: time.Wednesday, hour: 23, minute: 30,
			want: time.Date(2026, 1, 7, 23, 30, 0, 0, time.UTC),
		},
		{
			name:    "same day earlier time rolls a full week",
			weekday: time.Wednesday, hour: 6, minute: 0,
			want: time.Date(2026, 1, 14, 6, 0, 0, 0, time.UTC),
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := nextOccurrence(now, tc.weekday, tc.hour, tc.minute)
			assert.Equal(t, tc.want, got)
			assert.True(t, got.After(now))
		})
	}
}
