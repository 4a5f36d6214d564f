package venueratings

import "time"

// VenueRating is append-only: re-rating a venue inserts a new row, it never
// overwrites an earlier one.
type VenueRating struct {
	ID        int64     `json:"id"`
	VenueID   int64     `json:"venue_id"`
	UserID    int64     `json:"user_id"`
	Rating    float64   `json:"rating"` // 1.0-5.0
	Comment   *string   `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`

	// Joined fields
	UserName string `json:"user_name,omitempty"`
}
