package discovery

import (
	"context"
	"testing"
	"time"

	"rezerva/internal/domain/reservations"
	"rezerva/internal/domain/storage/storagetest"
	"rezerva/internal/domain/venueratings"
	"rezerva/internal/domain/venues"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeGeo struct {
	city   string
	nearby []string
}

func (f *fakeGeo) ResolveCity(_ context.Context, _, _ float64) (string, error) {
	return f.city, nil
}

func (f *fakeGeo) NearbyCities(_ context.Context, _, _ float64) ([]string, error) {
	return f.nearby, nil
}

var now = time.Date(2025, time.June, 10, 12, 5, 0, 0, time.UTC)

func newTestEngine(store *storagetest.Container, geoClient *fakeGeo) *Engine {
	engine := NewEngine(store.Container, geoClient, zap.NewNop().Sugar())
	engine.now = func() time.Time { return now }
	return engine
}

func addVenue(store *storagetest.Container, name, location string, maxCapacity int) *venues.Venue {
	venue := &venues.Venue{OwnerID: 1, Name: name, Location: location, MaximumCapacity: maxCapacity}
	_ = store.Venues.Create(context.Background(), venue)
	return venue
}

func ptrF64(v float64) *float64 { return &v }

func TestFilteredAttachesWorkingDaysAndRatingCounts(t *testing.T) {
	store := storagetest.NewContainer()
	engine := newTestEngine(store, &fakeGeo{})
	v := addVenue(store, "Lanterna", "Zagreb", 50)
	require.NoError(t, store.WorkingDays.SaveAll(context.Background(), v.ID, []time.Weekday{time.Monday, time.Friday}))
	store.VenueRatings.Rows = []venueratings.VenueRating{
		{ID: 1, VenueID: v.ID, UserID: 1, Rating: 4.5},
		{ID: 2, VenueID: v.ID, UserID: 2, Rating: 5.0},
	}

	listings, err := engine.Filtered(context.Background(), venues.Filter{Page: 1, Limit: 10})

	require.NoError(t, err)
	require.Len(t, listings, 1)
	assert.Equal(t, []time.Weekday{time.Monday, time.Friday}, listings[0].WorkingDays)
	assert.Equal(t, int64(2), listings[0].RatingsCount)
}

func TestNearbyWithoutCoordinatesFallsBackToZagreb(t *testing.T) {
	store := storagetest.NewContainer()
	engine := newTestEngine(store, &fakeGeo{})
	addVenue(store, "Lanterna", "Zagreb", 50)
	addVenue(store, "Riva", "Split", 50)

	found, err := engine.Nearby(context.Background(), nil, nil)

	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Zagreb", found[0].Location)
}

func TestNearbyEmptyNearbyListUsesCurrentCityOnly(t *testing.T) {
	store := storagetest.NewContainer()
	engine := newTestEngine(store, &fakeGeo{city: "Split"})
	addVenue(store, "Lanterna", "Zagreb", 50)
	addVenue(store, "Riva", "Split", 50)

	found, err := engine.Nearby(context.Background(), ptrF64(43.5), ptrF64(16.4))

	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Split", found[0].Location)
}

func TestNearbyOrdersCurrentCityFirst(t *testing.T) {
	store := storagetest.NewContainer()
	engine := newTestEngine(store, &fakeGeo{city: "Split", nearby: []string{"Trogir", "Solin"}})
	addVenue(store, "Kamerlengo", "Trogir", 50) // id 1
	addVenue(store, "Riva", "Split", 50)        // id 2
	addVenue(store, "Salona", "Solin", 50)      // id 3

	found, err := engine.Nearby(context.Background(), ptrF64(43.5), ptrF64(16.4))

	require.NoError(t, err)
	require.Len(t, found, 3)
	assert.Equal(t, "Split", found[0].Location)
}

func TestSuggestedExcludesLowRatedAndFullVenues(t *testing.T) {
	store := storagetest.NewContainer()
	engine := newTestEngine(store, &fakeGeo{})

	store.Venues.Suggested = []venues.Venue{
		{ID: 1, Name: "Lanterna", AverageRating: 4.6, MaximumCapacity: 50},
		{ID: 2, Name: "Riva", AverageRating: 4.0, MaximumCapacity: 50},  // exactly 4.0 is excluded
		{ID: 3, Name: "Opera", AverageRating: 4.8, MaximumCapacity: 10}, // currently full
	}
	store.Reservations.Add(reservations.Reservation{VenueID: 3, Date: now, NumberOfGuests: 10})

	out, err := engine.Suggested(context.Background())

	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, int64(1), out[0].ID)
}

func TestSuggestedOrderIsIDDescending(t *testing.T) {
	store := storagetest.NewContainer()
	engine := newTestEngine(store, &fakeGeo{})

	store.Venues.Suggested = []venues.Venue{
		{ID: 1, AverageRating: 4.9, MaximumCapacity: 50},
		{ID: 3, AverageRating: 4.2, MaximumCapacity: 50},
		{ID: 2, AverageRating: 4.6, MaximumCapacity: 50},
	}

	out, err := engine.Suggested(context.Background())

	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Equal(t, []int64{3, 2, 1}, []int64{out[0].ID, out[1].ID, out[2].ID})
}

func TestSuggestedReportsCurrentWindowCapacity(t *testing.T) {
	store := storagetest.NewContainer()
	engine := newTestEngine(store, &fakeGeo{})

	store.Venues.Suggested = []venues.Venue{
		{ID: 1, AverageRating: 4.9, MaximumCapacity: 50, AvailableCapacity: 50},
	}
	store.Reservations.Add(reservations.Reservation{VenueID: 1, Date: now.Add(10 * time.Minute), NumberOfGuests: 20})

	out, err := engine.Suggested(context.Background())

	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, 30, out[0].AvailableCapacity)
}

func TestTrendingPreservesProjectionOrder(t *testing.T) {
	store := storagetest.NewContainer()
	engine := newTestEngine(store, &fakeGeo{})
	addVenue(store, "Lanterna", "Zagreb", 50) // id 1
	addVenue(store, "Riva", "Split", 50)      // id 2
	addVenue(store, "Opera", "Zagreb", 50)    // id 3

	// Projection order differs from the batch fetch's id order.
	store.Reservations.Trending = []reservations.TrendingRow{
		{VenueID: 2, Count: 12},
		{VenueID: 3, Count: 7},
		{VenueID: 1, Count: 3},
	}

	out, err := engine.Trending(context.Background(), 1, 10)

	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Equal(t, []int64{2, 3, 1}, []int64{out[0].ID, out[1].ID, out[2].ID})
}

func TestTrendingDropsUnresolvableIDs(t *testing.T) {
	store := storagetest.NewContainer()
	engine := newTestEngine(store, &fakeGeo{})
	addVenue(store, "Lanterna", "Zagreb", 50) // id 1

	store.Reservations.Trending = []reservations.TrendingRow{
		{VenueID: 77, Count: 40}, // deleted venue
		{VenueID: 1, Count: 3},
	}

	out, err := engine.Trending(context.Background(), 1, 10)

	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, int64(1), out[0].ID)
}

func TestUtilisationRate(t *testing.T) {
	store := storagetest.NewContainer()
	engine := newTestEngine(store, &fakeGeo{})
	v1 := addVenue(store, "Lanterna", "Zagreb", 60)
	v2 := addVenue(store, "Riva", "Split", 40)

	store.Reservations.Add(reservations.Reservation{VenueID: v1.ID, Date: now, NumberOfGuests: 30})
	store.Reservations.Add(reservations.Reservation{VenueID: v2.ID, Date: now.Add(20 * time.Minute), NumberOfGuests: 20})
	// Outside the current window, must not count.
	store.Reservations.Add(reservations.Reservation{VenueID: v1.ID, Date: now.Add(3 * time.Hour), NumberOfGuests: 60})

	rate, err := engine.UtilisationRate(context.Background(), 1)

	require.NoError(t, err)
	assert.InDelta(t, 50.0, rate, 1e-9)
}

func TestUtilisationRateWithoutVenuesIsZero(t *testing.T) {
	store := storagetest.NewContainer()
	engine := newTestEngine(store, &fakeGeo{})

	rate, err := engine.UtilisationRate(context.Background(), 1)

	require.NoError(t, err)
	assert.Zero(t, rate)
}

func TestUtilisationRateWithZeroCapacityIsZero(t *testing.T) {
	store := storagetest.NewContainer()
	engine := newTestEngine(store, &fakeGeo{})
	addVenue(store, "Pop-up", "Zagreb", 0)

	rate, err := engine.UtilisationRate(context.Background(), 1)

	require.NoError(t, err)
	assert.Zero(t, rate)
}

func TestOverallRating(t *testing.T) {
	store := storagetest.NewContainer()
	engine := newTestEngine(store, &fakeGeo{})
	v1 := addVenue(store, "Lanterna", "Zagreb", 60)
	v2 := addVenue(store, "Riva", "Split", 40)
	v1.AverageRating = 4.0
	v2.AverageRating = 5.0

	overall, err := engine.OverallRating(context.Background(), 1)

	require.NoError(t, err)
	assert.InDelta(t, 4.5, overall, 1e-9)
}

func TestOverallRatingWithoutVenuesIsZero(t *testing.T) {
	store := storagetest.NewContainer()
	engine := newTestEngine(store, &fakeGeo{})

	overall, err := engine.OverallRating(context.Background(), 1)

	require.NoError(t, err)
	assert.Zero(t, overall)
}
