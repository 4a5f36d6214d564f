package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSurroundingHalfHour(t *testing.T) {
	day := func(hour, minute, sec int) time.Time {
		return time.Date(2025, time.March, 14, hour, minute, sec, 12345, time.UTC)
	}

	tests := []struct {
		name      string
		in        time.Time
		wantLower time.Time
		wantUpper time.Time
	}{
		{
			name:      "early minutes snap to the hour",
			in:        day(12, 10, 0),
			wantLower: day(12, 0, 0).Truncate(time.Minute),
			wantUpper: day(13, 0, 0).Truncate(time.Minute),
		},
		{
			name:      "late minutes share the same window",
			in:        day(12, 40, 0),
			wantLower: day(12, 0, 0).Truncate(time.Minute),
			wantUpper: day(13, 0, 0).Truncate(time.Minute),
		},
		{
			name:      "minute 35 snaps to the half hour",
			in:        day(12, 35, 0),
			wantLower: day(12, 30, 0).Truncate(time.Minute),
			wantUpper: day(13, 30, 0).Truncate(time.Minute),
		},
		{
			name:      "exact half hour stays put",
			in:        day(9, 30, 0),
			wantLower: day(9, 30, 0).Truncate(time.Minute),
			wantUpper: day(10, 30, 0).Truncate(time.Minute),
		},
		{
			name:      "seconds are truncated",
			in:        day(23, 29, 59),
			wantLower: day(23, 0, 0).Truncate(time.Minute),
			wantUpper: day(0, 0, 0).Truncate(time.Minute).Add(24 * time.Hour),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lower, upper := SurroundingHalfHour(tt.in)
			assert.True(t, lower.Equal(tt.wantLower), "lower = %v, want %v", lower, tt.wantLower)
			assert.True(t, upper.Equal(tt.wantUpper), "upper = %v, want %v", upper, tt.wantUpper)
		})
	}
}

func TestSurroundingHalfHourProperties(t *testing.T) {
	// The window is exactly one hour, anchored at :00 or :30, and always
	// contains the input instant.
	for hour := 0; hour < 24; hour += 5 {
		for minute := 0; minute < 60; minute += 7 {
			in := time.Date(2025, time.July, 1, hour, minute, 33, 0, time.UTC)
			lower, upper := SurroundingHalfHour(in)

			assert.Equal(t, time.Hour, upper.Sub(lower))
			assert.Contains(t, []int{0, 30}, lower.Minute())
			assert.False(t, in.Before(lower), "t before lower for %v", in)
			assert.True(t, in.Before(upper), "t not before upper for %v", in)
		}
	}
}
