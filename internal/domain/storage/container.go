package storage

import (
	"rezerva/internal/domain/pushtokens"
	"rezerva/internal/domain/reservations"
	"rezerva/internal/domain/users"
	"rezerva/internal/domain/venueratings"
	"rezerva/internal/domain/venues"
	"rezerva/internal/domain/workingdays"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Container bundles the per-entity repositories behind their narrow
// interfaces so the engines can be wired against fakes in tests.
type Container struct {
	Users        users.Store
	Venues       venues.Store
	Reservations reservations.Store
	VenueRatings venueratings.Store
	WorkingDays  workingdays.Store
	PushTokens   pushtokens.Store
}

func NewContainer(db *pgxpool.Pool) *Container {
	return &Container{
		Users:        users.NewRepository(db),
		Venues:       venues.NewRepository(db),
		Reservations: reservations.NewRepository(db),
		VenueRatings: venueratings.NewRepository(db),
		WorkingDays:  workingdays.NewRepository(db),
		PushTokens:   pushtokens.NewRepository(db),
	}
}
