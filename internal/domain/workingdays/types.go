package workingdays

import "time"

// WorkingDay marks one weekday on which a venue accepts reservations.
type WorkingDay struct {
	ID      int64        `json:"id"`
	VenueID int64        `json:"venue_id"`
	Day     time.Weekday `json:"day"`
}
