package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"rezerva/internal/domain/reservations"
	"rezerva/internal/domain/storage/storagetest"
	"rezerva/internal/domain/users"
	"rezerva/internal/domain/venues"
	"rezerva/internal/domain/workingdays"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestEngine(t *testing.T, store *storagetest.Container) *Engine {
	t.Helper()
	engine, err := NewEngine(store.Container, testLogger(), "test-salt")
	require.NoError(t, err)
	return engine
}

func seedVenue(store *storagetest.Container, maxCapacity int) *venues.Venue {
	venue := &venues.Venue{
		OwnerID:         99,
		Name:            "Lanterna",
		Location:        "Zagreb",
		WorkingHours:    "08:00-23:00",
		MaximumCapacity: maxCapacity,
	}
	_ = store.Venues.Create(context.Background(), venue)
	return venue
}

func seedUser(store *storagetest.Container, email string) *users.User {
	user := &users.User{FirstName: "Iva", Email: email, Role: users.RoleCustomer}
	_ = store.Users.Create(context.Background(), user)
	return user
}

func testLogger() *zap.SugaredLogger { return zap.NewNop().Sugar() }

func ptrI64(v int64) *int64 { return &v }

func ptrStr(v string) *string { return &v }

func ptrInt(v int) *int { return &v }

func ptrTime(v time.Time) *time.Time { return &v }

// A Tuesday well inside the default working hours.
var slot = time.Date(2025, time.June, 10, 12, 5, 0, 0, time.UTC)

func TestCreateAdmitsWithinCapacity(t *testing.T) {
	store := storagetest.NewContainer()
	engine := newTestEngine(t, store)
	user := seedUser(store, "iva@example.com")
	venue := seedVenue(store, 100)

	result, err := engine.Create(context.Background(), CreateRequest{
		UserID:         ptrI64(user.ID),
		VenueID:        venue.ID,
		Date:           slot,
		NumberOfGuests: 4,
	})

	require.NoError(t, err)
	assert.True(t, result.Success)
	require.NotNil(t, result.Reservation)
	assert.Equal(t, 4, result.Reservation.NumberOfGuests)
	assert.NotEmpty(t, result.Reservation.ConfirmationCode)
	assert.Len(t, store.Reservations.ByID, 1)
}

func TestCreateResolvesUserByEmail(t *testing.T) {
	store := storagetest.NewContainer()
	engine := newTestEngine(t, store)
	user := seedUser(store, "iva@example.com")
	venue := seedVenue(store, 10)

	result, err := engine.Create(context.Background(), CreateRequest{
		UserEmail:      ptrStr("iva@example.com"),
		VenueID:        venue.ID,
		Date:           slot,
		NumberOfGuests: 2,
	})

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, user.ID, result.Reservation.UserID)
}

func TestCreateUnknownUserIsDeclineWithZeroWrites(t *testing.T) {
	store := storagetest.NewContainer()
	engine := newTestEngine(t, store)
	venue := seedVenue(store, 100)

	result, err := engine.Create(context.Background(), CreateRequest{
		UserID:         ptrI64(42),
		VenueID:        venue.ID,
		Date:           slot,
		NumberOfGuests: 2,
	})

	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, MsgUserNotFound, result.Message)
	assert.Empty(t, store.Reservations.ByID)
}

func TestCreateBothIdentifiersIsDecline(t *testing.T) {
	store := storagetest.NewContainer()
	engine := newTestEngine(t, store)
	user := seedUser(store, "iva@example.com")
	venue := seedVenue(store, 100)

	result, err := engine.Create(context.Background(), CreateRequest{
		UserID:         ptrI64(user.ID),
		UserEmail:      ptrStr(user.Email),
		VenueID:        venue.ID,
		Date:           slot,
		NumberOfGuests: 2,
	})

	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, MsgUserNotFound, result.Message)
}

func TestCreateUnknownVenueIsTypedError(t *testing.T) {
	store := storagetest.NewContainer()
	engine := newTestEngine(t, store)
	user := seedUser(store, "iva@example.com")

	_, err := engine.Create(context.Background(), CreateRequest{
		UserID:         ptrI64(user.ID),
		VenueID:        404,
		Date:           slot,
		NumberOfGuests: 2,
	})

	assert.ErrorIs(t, err, venues.ErrVenueNotFound)
}

func TestCreateFullyBookedWindow(t *testing.T) {
	store := storagetest.NewContainer()
	engine := newTestEngine(t, store)
	user := seedUser(store, "iva@example.com")
	venue := seedVenue(store, 100)

	// 100 guests already occupy [12:00, 13:00).
	store.Reservations.Add(reservations.Reservation{
		UserID:         user.ID,
		VenueID:        venue.ID,
		Date:           time.Date(2025, time.June, 10, 12, 20, 0, 0, time.UTC),
		NumberOfGuests: 100,
	})

	result, err := engine.Create(context.Background(), CreateRequest{
		UserID:         ptrI64(user.ID),
		VenueID:        venue.ID,
		Date:           slot, // 12:05, same window
		NumberOfGuests: 1,
	})

	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, MsgFullyBooked, result.Message)
	assert.Len(t, store.Reservations.ByID, 1)
}

func TestCreateAdjacentWindowIsIndependent(t *testing.T) {
	store := storagetest.NewContainer()
	engine := newTestEngine(t, store)
	user := seedUser(store, "iva@example.com")
	venue := seedVenue(store, 100)

	store.Reservations.Add(reservations.Reservation{
		UserID:         user.ID,
		VenueID:        venue.ID,
		Date:           time.Date(2025, time.June, 10, 12, 20, 0, 0, time.UTC),
		NumberOfGuests: 100,
	})

	// 13:05 lands in [13:00, 14:00), which is empty.
	result, err := engine.Create(context.Background(), CreateRequest{
		UserID:         ptrI64(user.ID),
		VenueID:        venue.ID,
		Date:           time.Date(2025, time.June, 10, 13, 5, 0, 0, time.UTC),
		NumberOfGuests: 100,
	})

	require.NoError(t, err)
	assert.True(t, result.Success)
}

func TestCreateClosedDay(t *testing.T) {
	store := storagetest.NewContainer()
	engine := newTestEngine(t, store)
	user := seedUser(store, "iva@example.com")
	venue := seedVenue(store, 100)

	// Open Mondays only; the slot is a Tuesday.
	store.WorkingDays.ByVenue[venue.ID] = []workingdays.WorkingDay{
		{ID: 1, VenueID: venue.ID, Day: time.Monday},
	}

	result, err := engine.Create(context.Background(), CreateRequest{
		UserID:         ptrI64(user.ID),
		VenueID:        venue.ID,
		Date:           slot,
		NumberOfGuests: 2,
	})

	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, MsgClosedDay, result.Message)
	assert.Empty(t, store.Reservations.ByID)
}

func TestCreateClosedHours(t *testing.T) {
	store := storagetest.NewContainer()
	engine := newTestEngine(t, store)
	user := seedUser(store, "iva@example.com")
	venue := seedVenue(store, 100)
	venue.WorkingHours = "14:00-20:00"

	result, err := engine.Create(context.Background(), CreateRequest{
		UserID:         ptrI64(user.ID),
		VenueID:        venue.ID,
		Date:           slot, // 12:05
		NumberOfGuests: 2,
	})

	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, MsgClosedHours, result.Message)
}

func TestCreatePersistenceFailureDegradesToDecline(t *testing.T) {
	store := storagetest.NewContainer()
	engine := newTestEngine(t, store)
	user := seedUser(store, "iva@example.com")
	venue := seedVenue(store, 100)
	store.Reservations.CreateErr = errors.New("connection reset")

	result, err := engine.Create(context.Background(), CreateRequest{
		UserID:         ptrI64(user.ID),
		VenueID:        venue.ID,
		Date:           slot,
		NumberOfGuests: 2,
	})

	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, MsgTryAgainLater, result.Message)
}

func TestCreateRefreshesAvailableCapacity(t *testing.T) {
	store := storagetest.NewContainer()
	engine := newTestEngine(t, store)
	engine.now = func() time.Time { return slot }
	user := seedUser(store, "iva@example.com")
	venue := seedVenue(store, 100)

	result, err := engine.Create(context.Background(), CreateRequest{
		UserID:         ptrI64(user.ID),
		VenueID:        venue.ID,
		Date:           slot,
		NumberOfGuests: 30,
	})

	require.NoError(t, err)
	require.True(t, result.Success)
	assert.Equal(t, 70, store.Venues.ByID[venue.ID].AvailableCapacity)
}

func TestUpdateUnknownReservationIsTypedError(t *testing.T) {
	store := storagetest.NewContainer()
	engine := newTestEngine(t, store)

	_, err := engine.Update(context.Background(), UpdateRequest{ReservationID: 7})

	assert.ErrorIs(t, err, reservations.ErrReservationNotFound)
}

func TestUpdateWithoutFieldsIsNotValid(t *testing.T) {
	store := storagetest.NewContainer()
	engine := newTestEngine(t, store)
	store.Reservations.Add(reservations.Reservation{ID: 1, VenueID: 1, Date: slot, NumberOfGuests: 4})

	result, err := engine.Update(context.Background(), UpdateRequest{ReservationID: 1})

	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, MsgRequestNotValid, result.Message)
}

func TestUpdateNonPositiveGuestsIsNotValid(t *testing.T) {
	store := storagetest.NewContainer()
	engine := newTestEngine(t, store)
	store.Reservations.Add(reservations.Reservation{ID: 1, VenueID: 1, Date: slot, NumberOfGuests: 4})

	result, err := engine.Update(context.Background(), UpdateRequest{
		ReservationID:  1,
		NumberOfGuests: ptrInt(0),
	})

	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, MsgRequestNotValid, result.Message)
}

func TestUpdateNoModifications(t *testing.T) {
	store := storagetest.NewContainer()
	engine := newTestEngine(t, store)
	store.Reservations.Add(reservations.Reservation{ID: 1, VenueID: 1, Date: slot, NumberOfGuests: 4})

	result, err := engine.Update(context.Background(), UpdateRequest{
		ReservationID:  1,
		Date:           ptrTime(slot),
		NumberOfGuests: ptrInt(4),
	})

	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, MsgNoModifications, result.Message)
	assert.Equal(t, 4, store.Reservations.ByID[1].NumberOfGuests)
}

func TestUpdateAppliesOnlyProvidedFields(t *testing.T) {
	store := storagetest.NewContainer()
	engine := newTestEngine(t, store)
	seedVenue(store, 100)
	store.Reservations.Add(reservations.Reservation{ID: 1, VenueID: 1, Date: slot, NumberOfGuests: 4})

	result, err := engine.Update(context.Background(), UpdateRequest{
		ReservationID:  1,
		NumberOfGuests: ptrInt(6),
	})

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 6, store.Reservations.ByID[1].NumberOfGuests)
	assert.True(t, store.Reservations.ByID[1].Date.Equal(slot))
}

func TestUpdatePersistenceFailureDegradesToDecline(t *testing.T) {
	store := storagetest.NewContainer()
	engine := newTestEngine(t, store)
	store.Reservations.Add(reservations.Reservation{ID: 1, VenueID: 1, Date: slot, NumberOfGuests: 4})
	store.Reservations.UpdateErr = errors.New("connection reset")

	result, err := engine.Update(context.Background(), UpdateRequest{
		ReservationID:  1,
		NumberOfGuests: ptrInt(6),
	})

	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, MsgTryAgainLater, result.Message)
}

func TestDelete(t *testing.T) {
	store := storagetest.NewContainer()
	engine := newTestEngine(t, store)
	seedVenue(store, 100)
	store.Reservations.Add(reservations.Reservation{ID: 1, VenueID: 1, Date: slot, NumberOfGuests: 4})

	result, err := engine.Delete(context.Background(), 1)

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, MsgCanceled, result.Message)
	assert.Empty(t, store.Reservations.ByID)
}

func TestDeleteUnknownReservationIsTypedError(t *testing.T) {
	store := storagetest.NewContainer()
	engine := newTestEngine(t, store)

	_, err := engine.Delete(context.Background(), 12)

	assert.ErrorIs(t, err, reservations.ErrReservationNotFound)
}

func TestParseWorkingHours(t *testing.T) {
	opens, closes, err := parseWorkingHours("08:30-23:00")
	require.NoError(t, err)
	assert.Equal(t, 8*60+30, opens)
	assert.Equal(t, 23*60, closes)

	// Midnight close means open until end of day.
	_, closes, err = parseWorkingHours("10:00-00:00")
	require.NoError(t, err)
	assert.Equal(t, 24*60, closes)

	_, _, err = parseWorkingHours("all day")
	assert.Error(t, err)
}
