package discovery

import (
	"context"
	"sort"
	"time"

	"rezerva/internal/booking"
	"rezerva/internal/domain/storage"
	"rezerva/internal/domain/venues"
	"rezerva/internal/geo"

	"go.uber.org/zap"
)

// FallbackCity is listed when a nearby request arrives without coordinates.
const FallbackCity = "Zagreb"

// Suggested venues must score strictly above this cached average rating.
const suggestedMinRating = 4.0

// VenueListing is a venue plus the working days and rating count attached by
// the batched lookups on the filtered listing.
type VenueListing struct {
	venues.Venue
	WorkingDays  []time.Weekday `json:"working_days"`
	RatingsCount int64          `json:"ratings_count"`
}

// Engine implements the venue listing modes and the owner dashboard
// statistics. It holds no state between requests.
type Engine struct {
	store  *storage.Container
	geo    geo.Client
	logger *zap.SugaredLogger

	now func() time.Time
}

func NewEngine(store *storage.Container, geoClient geo.Client, logger *zap.SugaredLogger) *Engine {
	return &Engine{
		store:  store,
		geo:    geoClient,
		logger: logger,
		now:    time.Now,
	}
}

// Filtered runs the paged, filtered listing. The predicates and pagination
// pass through unchanged to the storage layer; working days are attached with
// one batched query keyed by the page's venue ids.
func (e *Engine) Filtered(ctx context.Context, filter venues.Filter) ([]VenueListing, error) {
	page, err := e.store.Venues.Search(ctx, filter)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(page))
	for _, v := range page {
		ids = append(ids, v.ID)
	}
	daysByVenue, err := e.store.WorkingDays.GetByVenueIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	ratingCounts, err := e.store.VenueRatings.CountByVenueIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]VenueListing, 0, len(page))
	for _, v := range page {
		listing := VenueListing{Venue: v, RatingsCount: ratingCounts[v.ID]}
		for _, wd := range daysByVenue[v.ID] {
			listing.WorkingDays = append(listing.WorkingDays, wd.Day)
		}
		out = append(out, listing)
	}
	return out, nil
}

// Nearby lists venues around the given coordinates. Without coordinates it
// falls back to a fixed city. With them, the geolocation collaborator is
// called once for the current city and once for the bounded nearby list;
// venues in the current city sort ahead of the rest.
func (e *Engine) Nearby(ctx context.Context, lat, lon *float64) ([]venues.Venue, error) {
	if lat == nil || lon == nil {
		return e.store.Venues.GetByLocations(ctx, []string{FallbackCity})
	}

	currentCity, err := e.geo.ResolveCity(ctx, *lat, *lon)
	if err != nil {
		return nil, err
	}

	nearby, err := e.geo.NearbyCities(ctx, *lat, *lon)
	if err != nil {
		return nil, err
	}
	if len(nearby) == 0 {
		return e.store.Venues.GetByLocations(ctx, []string{currentCity})
	}

	cities := make([]string, 0, len(nearby)+1)
	cities = append(cities, currentCity)
	for _, city := range nearby {
		if city != currentCity {
			cities = append(cities, city)
		}
	}

	found, err := e.store.Venues.GetByLocations(ctx, cities)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(found, func(i, j int) bool {
		return found[i].Location == currentCity && found[j].Location != currentCity
	})
	return found, nil
}

// Suggested lists highly rated venues with room left right now. The source
// query pre-selects candidates; this engine drops anything rated 4.0 or
// below or currently full, then orders by id, rating and available capacity,
// all descending.
func (e *Engine) Suggested(ctx context.Context) ([]venues.Venue, error) {
	candidates, err := e.store.Venues.GetSuggested(ctx)
	if err != nil {
		return nil, err
	}

	available, err := e.currentAvailability(ctx, candidates)
	if err != nil {
		return nil, err
	}

	out := make([]venues.Venue, 0, len(candidates))
	for _, v := range candidates {
		if v.AverageRating <= suggestedMinRating {
			continue
		}
		if available[v.ID] <= 0 {
			continue
		}
		v.AvailableCapacity = available[v.ID]
		out = append(out, v)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].ID != out[j].ID {
			return out[i].ID > out[j].ID
		}
		if out[i].AverageRating != out[j].AverageRating {
			return out[i].AverageRating > out[j].AverageRating
		}
		return out[i].AvailableCapacity > out[j].AvailableCapacity
	})
	return out, nil
}

// Trending returns venues ordered by recent reservation volume. The
// (venue id, count) projection dictates the order; the batched venue fetch is
// re-sorted to match it, and ids that no longer resolve are dropped.
func (e *Engine) Trending(ctx context.Context, page, limit int) ([]venues.Venue, error) {
	projection, err := e.store.Reservations.TrendingCounts(ctx, page, limit)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(projection))
	for _, row := range projection {
		ids = append(ids, row.VenueID)
	}
	batch, err := e.store.Venues.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[int64]venues.Venue, len(batch))
	for _, v := range batch {
		byID[v.ID] = v
	}

	out := make([]venues.Venue, 0, len(projection))
	for _, row := range projection {
		if v, ok := byID[row.VenueID]; ok {
			out = append(out, v)
		}
	}
	return out, nil
}

// UtilisationRate is the percentage of an owner's aggregate capacity booked
// in the current half-hour window. Owners without venues or without capacity
// get 0.0.
func (e *Engine) UtilisationRate(ctx context.Context, ownerID int64) (float64, error) {
	owned, err := e.store.Venues.GetByOwner(ctx, ownerID)
	if err != nil {
		return 0, err
	}
	if len(owned) == 0 {
		return 0.0, nil
	}

	totalCapacity := 0
	ids := make([]int64, 0, len(owned))
	for _, v := range owned {
		totalCapacity += v.MaximumCapacity
		ids = append(ids, v.ID)
	}
	if totalCapacity == 0 {
		return 0.0, nil
	}

	lower, upper := booking.SurroundingHalfHour(e.now())
	windowReservations, err := e.store.Reservations.GetInWindowForVenues(ctx, ids, lower, upper)
	if err != nil {
		return 0, err
	}

	booked := booking.BookedGuests(windowReservations)
	return 100 * float64(booked) / float64(totalCapacity), nil
}

// OverallRating is the arithmetic mean of the cached average ratings across
// an owner's venues, 0.0 when there are none.
func (e *Engine) OverallRating(ctx context.Context, ownerID int64) (float64, error) {
	owned, err := e.store.Venues.GetByOwner(ctx, ownerID)
	if err != nil {
		return 0, err
	}
	if len(owned) == 0 {
		return 0.0, nil
	}

	sum := 0.0
	for _, v := range owned {
		sum += v.AverageRating
	}
	return sum / float64(len(owned)), nil
}

// currentAvailability computes each candidate's remaining capacity for the
// current window, the same way the booking engine accounts for admission.
func (e *Engine) currentAvailability(ctx context.Context, candidates []venues.Venue) (map[int64]int, error) {
	available := make(map[int64]int, len(candidates))
	if len(candidates) == 0 {
		return available, nil
	}

	ids := make([]int64, 0, len(candidates))
	for _, v := range candidates {
		ids = append(ids, v.ID)
	}

	lower, upper := booking.SurroundingHalfHour(e.now())
	windowReservations, err := e.store.Reservations.GetInWindowForVenues(ctx, ids, lower, upper)
	if err != nil {
		return nil, err
	}

	bookedByVenue := make(map[int64]int, len(candidates))
	for _, res := range windowReservations {
		bookedByVenue[res.VenueID] += res.NumberOfGuests
	}
	for _, v := range candidates {
		remaining := v.MaximumCapacity - bookedByVenue[v.ID]
		if remaining < 0 {
			remaining = 0
		}
		available[v.ID] = remaining
	}
	return available, nil
}
