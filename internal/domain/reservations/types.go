package reservations

import (
	"errors"
	"time"
)

var ErrReservationNotFound = errors.New("reservation not found")

// Reservation is a time-boxed claim on part of a venue's capacity. The venue
// and user references are immutable after creation; only the datetime and the
// guest count can change through an update.
type Reservation struct {
	ID               int64     `json:"id"`
	UserID           int64     `json:"user_id"`
	VenueID          int64     `json:"venue_id"`
	Date             time.Time `json:"date"`
	NumberOfGuests   int       `json:"number_of_guests"`
	ConfirmationCode string    `json:"confirmation_code,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// TrendingRow is the (venue id, reservation count) projection backing the
// trending listing; rows arrive ordered by count descending.
type TrendingRow struct {
	VenueID int64 `json:"venue_id"`
	Count   int64 `json:"reservation_count"`
}
