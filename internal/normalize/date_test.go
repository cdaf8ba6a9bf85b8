package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2024-01-15", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)},
		{"2024-01-15 14:30:45", time.Date(2024, 1, 15, 14, 30, 45, 0, time.UTC)},
		{"2024-01-15 14:30", time.Date(2024, 1, 15, 14, 30, 0, 0, time.UTC)},
		{"2024-01-15T14:30:00", time.Date(2024, 1, 15, 14, 30, 0, 0, time.UTC)},
		{"2024-01-15T14:30:00Z", time.Date(2024, 1, 15, 14, 30, 0, 0, time.UTC)},
		{"2024-01-15T14:30:00+0200", time.Date(2024, 1, 15, 12, 30, 0, 0, time.UTC)},
		{"2024-01-15T14:30:00-05:00", time.Date(2024, 1, 15, 19, 30, 0, 0, time.UTC)},
		{"2024/01/15 08:00:00", time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC)},
		{"2024/01/15", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)},
		{"January 15, 2024", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)},
		{"March 5, 2023", time.Date(2023, 3, 5, 0, 0, 0, 0, time.UTC)},
		{"Feb 29, 2024", time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)},
		{"2024-1-5", time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)},
		{"2024-01-5", time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)},
		{"2024/1/5", time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)},
		{"2024-1-15 9:05:00", time.Date(2024, 1, 15, 9, 5, 0, 0, time.UTC)},
		{"2024-3-7 9:05", time.Date(2024, 3, 7, 9, 5, 0, 0, time.UTC)},
		{"2024-3-7T09:05:00+01:00", time.Date(2024, 3, 7, 8, 5, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseDate(tt.in)
			require.True(t, ok)
			assert.True(t, tt.want.Equal(got), "got %s want %s", got, tt.want)
			assert.Equal(t, time.UTC, got.Location())
		})
	}
}

func TestParseDateRejects(t *testing.T) {
	for _, in := range []string{"", "yesterday", "15/01/2024", "2024-13-01", "2024-02-30", "Jan 2024"} {
		_, ok := ParseDate(in)
		assert.False(t, ok, in)
	}
}

func TestDateOrFallsBack(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.FixedZone("X", 3600))

	assert.Equal(t, now.UTC(), DateOr("not a date", now))
	assert.Equal(t, now.UTC(), DateOr("", now))
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), DateOr("2024-01-15", now))
	assert.Equal(t, time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), DateOr("2024-1-5", now))
}
