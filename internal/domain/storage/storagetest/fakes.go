// Package storagetest provides in-memory repository fakes for engine tests.
package storagetest

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"rezerva/internal/domain/pushtokens"
	"rezerva/internal/domain/reservations"
	"rezerva/internal/domain/storage"
	"rezerva/internal/domain/users"
	"rezerva/internal/domain/venueratings"
	"rezerva/internal/domain/venues"
	"rezerva/internal/domain/workingdays"
)

// Container builds a storage.Container backed entirely by in-memory fakes.
type Container struct {
	*storage.Container

	Users        *FakeUsers
	Venues       *FakeVenues
	Reservations *FakeReservations
	VenueRatings *FakeVenueRatings
	WorkingDays  *FakeWorkingDays
	PushTokens   *FakePushTokens
}

func NewContainer() *Container {
	fu := &FakeUsers{ByID: map[int64]*users.User{}}
	fv := &FakeVenues{ByID: map[int64]*venues.Venue{}}
	fr := &FakeReservations{ByID: map[int64]*reservations.Reservation{}}
	fvr := &FakeVenueRatings{}
	fwd := &FakeWorkingDays{ByVenue: map[int64][]workingdays.WorkingDay{}}
	fpt := &FakePushTokens{ByUser: map[int64][]string{}}

	return &Container{
		Container: &storage.Container{
			Users:        fu,
			Venues:       fv,
			Reservations: fr,
			VenueRatings: fvr,
			WorkingDays:  fwd,
			PushTokens:   fpt,
		},
		Users:        fu,
		Venues:       fv,
		Reservations: fr,
		VenueRatings: fvr,
		WorkingDays:  fwd,
		PushTokens:   fpt,
	}
}

// FakeUsers implements users.Store.
type FakeUsers struct {
	ByID map[int64]*users.User
}

func (f *FakeUsers) Create(_ context.Context, user *users.User) error {
	user.ID = int64(len(f.ByID) + 1)
	f.ByID[user.ID] = user
	return nil
}

func (f *FakeUsers) GetByID(_ context.Context, userID int64) (*users.User, error) {
	if u, ok := f.ByID[userID]; ok {
		return u, nil
	}
	return nil, users.ErrUserNotFound
}

func (f *FakeUsers) GetByEmail(_ context.Context, email string) (*users.User, error) {
	for _, u := range f.ByID {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, users.ErrUserNotFound
}

func (f *FakeUsers) Activate(_ context.Context, _ string) error { return nil }

func (f *FakeUsers) Delete(_ context.Context, userID int64) error {
	if _, ok := f.ByID[userID]; !ok {
		return users.ErrUserNotFound
	}
	delete(f.ByID, userID)
	return nil
}

func (f *FakeUsers) SetRefreshToken(_ context.Context, userID int64, token string) error {
	if u, ok := f.ByID[userID]; ok {
		u.RefreshToken = token
		return nil
	}
	return users.ErrUserNotFound
}

func (f *FakeUsers) GetRefreshToken(_ context.Context, userID int64) (string, error) {
	if u, ok := f.ByID[userID]; ok {
		return u.RefreshToken, nil
	}
	return "", users.ErrUserNotFound
}

func (f *FakeUsers) DeleteRefreshToken(_ context.Context, userID int64) error {
	if u, ok := f.ByID[userID]; ok {
		u.RefreshToken = ""
		return nil
	}
	return users.ErrUserNotFound
}

// FakeVenues implements venues.Store.
type FakeVenues struct {
	ByID map[int64]*venues.Venue

	Suggested []venues.Venue

	UpdateAvailableCapacityErr error
	UpdateAverageRatingErr     error
	AverageUpdates             map[int64]float64
}

func (f *FakeVenues) Create(_ context.Context, venue *venues.Venue) error {
	venue.ID = int64(len(f.ByID) + 1)
	f.ByID[venue.ID] = venue
	return nil
}

func (f *FakeVenues) Update(_ context.Context, venueID int64, _ map[string]interface{}) error {
	if _, ok := f.ByID[venueID]; !ok {
		return venues.ErrVenueNotFound
	}
	return nil
}

func (f *FakeVenues) Delete(_ context.Context, venueID int64) error {
	if _, ok := f.ByID[venueID]; !ok {
		return venues.ErrVenueNotFound
	}
	delete(f.ByID, venueID)
	return nil
}

func (f *FakeVenues) GetByID(_ context.Context, venueID int64) (*venues.Venue, error) {
	if v, ok := f.ByID[venueID]; ok {
		return v, nil
	}
	return nil, venues.ErrVenueNotFound
}

func (f *FakeVenues) GetByOwner(_ context.Context, ownerID int64) ([]venues.Venue, error) {
	var out []venues.Venue
	for _, v := range f.ByID {
		if v.OwnerID == ownerID {
			out = append(out, *v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *FakeVenues) GetByIDs(_ context.Context, venueIDs []int64) ([]venues.Venue, error) {
	var out []venues.Venue
	for _, id := range venueIDs {
		if v, ok := f.ByID[id]; ok {
			out = append(out, *v)
		}
	}
	// Deliberately not projection order: callers must re-sort.
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *FakeVenues) Search(_ context.Context, filter venues.Filter) ([]venues.Venue, error) {
	var out []venues.Venue
	for _, v := range f.ByID {
		out = append(out, *v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *FakeVenues) GetByLocations(_ context.Context, locations []string) ([]venues.Venue, error) {
	allowed := make(map[string]bool, len(locations))
	for _, loc := range locations {
		allowed[loc] = true
	}
	var out []venues.Venue
	for _, v := range f.ByID {
		if allowed[v.Location] {
			out = append(out, *v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *FakeVenues) GetSuggested(_ context.Context) ([]venues.Venue, error) {
	return f.Suggested, nil
}

func (f *FakeVenues) ExistsByOwnerAndName(_ context.Context, ownerID int64, name string) (bool, error) {
	for _, v := range f.ByID {
		if v.OwnerID == ownerID && v.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (f *FakeVenues) UpdateAverageRating(_ context.Context, venueID int64, average float64) error {
	if f.UpdateAverageRatingErr != nil {
		return f.UpdateAverageRatingErr
	}
	if f.AverageUpdates == nil {
		f.AverageUpdates = map[int64]float64{}
	}
	f.AverageUpdates[venueID] = average
	if v, ok := f.ByID[venueID]; ok {
		v.AverageRating = average
	}
	return nil
}

func (f *FakeVenues) UpdateAvailableCapacity(_ context.Context, venueID int64, available int) error {
	if f.UpdateAvailableCapacityErr != nil {
		return f.UpdateAvailableCapacityErr
	}
	if v, ok := f.ByID[venueID]; ok {
		v.AvailableCapacity = available
	}
	return nil
}

// FakeReservations implements reservations.Store.
type FakeReservations struct {
	ByID map[int64]*reservations.Reservation

	CreateErr error
	UpdateErr error
	DeleteErr error

	Trending []reservations.TrendingRow

	nextID int64
}

func (f *FakeReservations) Create(_ context.Context, res *reservations.Reservation) error {
	if f.CreateErr != nil {
		return f.CreateErr
	}
	f.nextID++
	res.ID = f.nextID
	res.CreatedAt = time.Now()
	f.ByID[res.ID] = res
	return nil
}

func (f *FakeReservations) Update(_ context.Context, res *reservations.Reservation) error {
	if f.UpdateErr != nil {
		return f.UpdateErr
	}
	if _, ok := f.ByID[res.ID]; !ok {
		return reservations.ErrReservationNotFound
	}
	f.ByID[res.ID] = res
	return nil
}

func (f *FakeReservations) Delete(_ context.Context, reservationID int64) error {
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	if _, ok := f.ByID[reservationID]; !ok {
		return reservations.ErrReservationNotFound
	}
	delete(f.ByID, reservationID)
	return nil
}

func (f *FakeReservations) GetByID(_ context.Context, reservationID int64) (*reservations.Reservation, error) {
	if res, ok := f.ByID[reservationID]; ok {
		copied := *res
		return &copied, nil
	}
	return nil, reservations.ErrReservationNotFound
}

func (f *FakeReservations) GetByUser(_ context.Context, userID int64) ([]reservations.Reservation, error) {
	var out []reservations.Reservation
	for _, res := range f.ByID {
		if res.UserID == userID {
			out = append(out, *res)
		}
	}
	return out, nil
}

func (f *FakeReservations) GetByVenue(_ context.Context, venueID int64) ([]reservations.Reservation, error) {
	var out []reservations.Reservation
	for _, res := range f.ByID {
		if res.VenueID == venueID {
			out = append(out, *res)
		}
	}
	return out, nil
}

func (f *FakeReservations) GetInWindow(_ context.Context, venueID int64, lower, upper time.Time) ([]reservations.Reservation, error) {
	var out []reservations.Reservation
	for _, res := range f.ByID {
		if res.VenueID == venueID && !res.Date.Before(lower) && res.Date.Before(upper) {
			out = append(out, *res)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *FakeReservations) GetInWindowForVenues(_ context.Context, venueIDs []int64, lower, upper time.Time) ([]reservations.Reservation, error) {
	allowed := make(map[int64]bool, len(venueIDs))
	for _, id := range venueIDs {
		allowed[id] = true
	}
	var out []reservations.Reservation
	for _, res := range f.ByID {
		if allowed[res.VenueID] && !res.Date.Before(lower) && res.Date.Before(upper) {
			out = append(out, *res)
		}
	}
	return out, nil
}

func (f *FakeReservations) TrendingCounts(_ context.Context, _, _ int) ([]reservations.TrendingRow, error) {
	return f.Trending, nil
}

// Add seeds a reservation directly, bypassing the engine.
func (f *FakeReservations) Add(res reservations.Reservation) {
	if res.ID == 0 {
		f.nextID++
		res.ID = f.nextID
	} else if res.ID > f.nextID {
		f.nextID = res.ID
	}
	f.ByID[res.ID] = &res
}

// FakeVenueRatings implements venueratings.Store.
type FakeVenueRatings struct {
	Rows []venueratings.VenueRating

	CreateErr error
}

func (f *FakeVenueRatings) Create(_ context.Context, rating *venueratings.VenueRating) error {
	if f.CreateErr != nil {
		return f.CreateErr
	}
	rating.ID = int64(len(f.Rows) + 1)
	rating.CreatedAt = time.Now()
	f.Rows = append(f.Rows, *rating)
	return nil
}

func (f *FakeVenueRatings) GetByVenue(_ context.Context, venueID int64) ([]venueratings.VenueRating, error) {
	var out []venueratings.VenueRating
	for _, vr := range f.Rows {
		if vr.VenueID == venueID {
			out = append(out, vr)
		}
	}
	return out, nil
}

func (f *FakeVenueRatings) CountByVenueIDs(_ context.Context, venueIDs []int64) (map[int64]int64, error) {
	counts := make(map[int64]int64, len(venueIDs))
	for _, vr := range f.Rows {
		counts[vr.VenueID]++
	}
	return counts, nil
}

// FakeWorkingDays implements workingdays.Store.
type FakeWorkingDays struct {
	ByVenue map[int64][]workingdays.WorkingDay
}

func (f *FakeWorkingDays) GetByVenue(_ context.Context, venueID int64) ([]workingdays.WorkingDay, error) {
	return f.ByVenue[venueID], nil
}

func (f *FakeWorkingDays) GetByVenueIDs(_ context.Context, venueIDs []int64) (map[int64][]workingdays.WorkingDay, error) {
	out := make(map[int64][]workingdays.WorkingDay, len(venueIDs))
	for _, id := range venueIDs {
		if days, ok := f.ByVenue[id]; ok {
			out[id] = days
		}
	}
	return out, nil
}

func (f *FakeWorkingDays) SaveAll(_ context.Context, venueID int64, days []time.Weekday) error {
	rows := make([]workingdays.WorkingDay, 0, len(days))
	for i, day := range days {
		rows = append(rows, workingdays.WorkingDay{ID: int64(i + 1), VenueID: venueID, Day: day})
	}
	f.ByVenue[venueID] = rows
	return nil
}

// FakePushTokens implements pushtokens.Store.
type FakePushTokens struct {
	ByUser map[int64][]string
}

var _ pushtokens.Store = (*FakePushTokens)(nil)

func (f *FakePushTokens) Register(_ context.Context, userID int64, token string, _ json.RawMessage) error {
	for _, t := range f.ByUser[userID] {
		if t == token {
			return nil
		}
	}
	f.ByUser[userID] = append(f.ByUser[userID], token)
	return nil
}

func (f *FakePushTokens) Remove(_ context.Context, userID int64, token string) error {
	kept := f.ByUser[userID][:0]
	for _, t := range f.ByUser[userID] {
		if t != token {
			kept = append(kept, t)
		}
	}
	f.ByUser[userID] = kept
	return nil
}

func (f *FakePushTokens) GetTokensByUserIDs(_ context.Context, userIDs []int64) (map[int64][]string, error) {
	out := make(map[int64][]string, len(userIDs))
	for _, id := range userIDs {
		if tokens, ok := f.ByUser[id]; ok {
			out[id] = tokens
		}
	}
	return out, nil
}
