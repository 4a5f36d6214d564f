package booking

import (
	"testing"

	"rezerva/internal/domain/reservations"

	"github.com/stretchr/testify/assert"
)

func TestCanAdmit(t *testing.T) {
	window := []reservations.Reservation{
		{ID: 1, NumberOfGuests: 40},
		{ID: 2, NumberOfGuests: 35},
	}

	tests := []struct {
		name      string
		max       int
		window    []reservations.Reservation
		requested int
		exclude   int64
		want      bool
	}{
		{"empty window admits up to capacity", 100, nil, 100, 0, true},
		{"empty window rejects over capacity", 100, nil, 101, 0, false},
		{"fits next to existing bookings", 100, window, 25, 0, true},
		{"exactly fills the venue", 100, window, 25, 0, true},
		{"one guest too many", 100, window, 26, 0, false},
		{"full venue rejects a single guest", 100, []reservations.Reservation{{ID: 9, NumberOfGuests: 100}}, 1, 0, false},
		{"excluding own prior contribution frees capacity", 100, window, 65, 1, true},
		{"exclusion of unknown id changes nothing", 100, window, 26, 99, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CanAdmit(tt.max, tt.window, tt.requested, tt.exclude)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBookedGuests(t *testing.T) {
	assert.Equal(t, 0, BookedGuests(nil))
	assert.Equal(t, 75, BookedGuests([]reservations.Reservation{
		{NumberOfGuests: 40},
		{NumberOfGuests: 35},
	}))
}
