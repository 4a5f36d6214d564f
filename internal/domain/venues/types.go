package venues

import (
	"errors"
	"time"
)

var ErrVenueNotFound = errors.New("venue not found")

// Venue represents a venue in the database. AvailableCapacity and
// AverageRating are cached aggregates: the booking engine refreshes
// AvailableCapacity whenever the current-window reservation set changes, and
// the rating aggregator refreshes AverageRating on every new rating.
type Venue struct {
	ID                int64     `json:"id"`
	OwnerID           int64     `json:"owner_id"`
	Name              string    `json:"name"`
	Location          string    `json:"location"` // free-text city/area
	Description       *string   `json:"description,omitempty"`
	WorkingHours      string    `json:"working_hours"` // e.g. "08:00-23:00"
	MaximumCapacity   int       `json:"maximum_capacity"`
	AvailableCapacity int       `json:"available_capacity"`
	AverageRating     float64   `json:"average_rating"`
	VenueTypeID       int64     `json:"venue_type_id"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// Filter holds the optional predicates for the paged venue listing.
type Filter struct {
	Name         *string // case-insensitive substring on name
	VenueTypeIDs []int64
	Page         int
	Limit        int
}
