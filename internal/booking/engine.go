package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"rezerva/internal/domain/reservations"
	"rezerva/internal/domain/storage"
	"rezerva/internal/domain/users"
	"rezerva/internal/domain/venues"
	"rezerva/internal/metrics"

	"go.uber.org/zap"
)

// Messages returned with business-rule declines. Callers branch on
// Result.Success, not on these strings; they exist for the client.
const (
	MsgUserNotFound    = "User not found. A reservation requires a registered user."
	MsgFullyBooked     = "The venue is fully booked for the selected time. Please pick another slot."
	MsgClosedDay       = "The venue is closed on the selected day."
	MsgClosedHours     = "The venue is closed at the selected time."
	MsgTryAgainLater   = "Could not save your reservation. Please try again later."
	MsgRequestNotValid = "The update request is not valid."
	MsgNoModifications = "No modifications were made to the reservation."
	MsgCanceled        = "Reservation successfully canceled."
)

// Result is the outcome of a booking operation. Declines (full capacity,
// closed venue, no-op update) are expected, frequent outcomes and come back
// as Success=false rather than as errors.
type Result struct {
	Success     bool                      `json:"success"`
	Message     string                    `json:"message"`
	Reservation *reservations.Reservation `json:"reservation,omitempty"`
}

func declined(message string) Result {
	return Result{Success: false, Message: message}
}

// CreateRequest identifies the user by id or by email, exactly one of them.
type CreateRequest struct {
	UserID         *int64
	UserEmail      *string
	VenueID        int64
	Date           time.Time
	NumberOfGuests int
}

// UpdateRequest carries the mutable reservation fields; nil means "leave as is".
type UpdateRequest struct {
	ReservationID  int64
	Date           *time.Time
	NumberOfGuests *int
}

// Engine orchestrates reservation create/update/delete against the capacity
// and operating-hours rules. It holds no state between requests; concurrency
// across simultaneous bookings is serialized by the storage layer.
type Engine struct {
	store  *storage.Container
	logger *zap.SugaredLogger
	codes  *codeGenerator

	now func() time.Time
}

func NewEngine(store *storage.Container, logger *zap.SugaredLogger, codeSalt string) (*Engine, error) {
	codes, err := newCodeGenerator(codeSalt)
	if err != nil {
		return nil, err
	}
	return &Engine{
		store:  store,
		logger: logger,
		codes:  codes,
		now:    time.Now,
	}, nil
}

// Create admits a new reservation or declines it. Structural faults on the
// venue surface as venues.ErrVenueNotFound; an unresolvable user is an
// expected outcome and comes back as a decline with zero writes.
func (e *Engine) Create(ctx context.Context, req CreateRequest) (Result, error) {
	if req.NumberOfGuests <= 0 {
		return declined(MsgRequestNotValid), nil
	}

	user, err := e.resolveUser(ctx, req)
	if err != nil {
		return Result{}, err
	}
	if user == nil {
		return declined(MsgUserNotFound), nil
	}

	venue, err := e.store.Venues.GetByID(ctx, req.VenueID)
	if err != nil {
		return Result{}, err // includes venues.ErrVenueNotFound
	}

	if result, ok, err := e.checkOperatingTime(ctx, venue, req.Date); err != nil {
		return Result{}, err
	} else if !ok {
		return result, nil
	}

	lower, upper := SurroundingHalfHour(req.Date)
	windowReservations, err := e.store.Reservations.GetInWindow(ctx, venue.ID, lower, upper)
	if err != nil {
		return Result{}, err
	}

	if !CanAdmit(venue.MaximumCapacity, windowReservations, req.NumberOfGuests, 0) {
		metrics.ReservationsDeclined.WithLabelValues("fully_booked").Inc()
		return declined(MsgFullyBooked), nil
	}

	code, err := e.codes.Code(venue.ID, user.ID, req.Date)
	if err != nil {
		return Result{}, err
	}

	reservation := &reservations.Reservation{
		UserID:           user.ID,
		VenueID:          venue.ID,
		Date:             req.Date,
		NumberOfGuests:   req.NumberOfGuests,
		ConfirmationCode: code,
	}
	if err := e.store.Reservations.Create(ctx, reservation); err != nil {
		e.logger.Errorw("reservation insert failed", "venue_id", venue.ID, "error", err)
		return declined(MsgTryAgainLater), nil
	}

	metrics.ReservationsAdmitted.Inc()
	e.refreshAvailableCapacity(ctx, venue)

	return Result{
		Success:     true,
		Message:     "Reservation created.",
		Reservation: reservation,
	}, nil
}

// Update changes the date and/or guest count of an existing reservation.
// A missing reservation is a structural fault (reservations.ErrReservationNotFound),
// not a decline. The capacity check is intentionally not re-run against the
// new window; the admission happened at create time.
func (e *Engine) Update(ctx context.Context, req UpdateRequest) (Result, error) {
	reservation, err := e.store.Reservations.GetByID(ctx, req.ReservationID)
	if err != nil {
		return Result{}, err
	}

	if req.Date == nil && req.NumberOfGuests == nil {
		return declined(MsgRequestNotValid), nil
	}
	if req.NumberOfGuests != nil && *req.NumberOfGuests <= 0 {
		return declined(MsgRequestNotValid), nil
	}

	changed := false
	if req.Date != nil && !req.Date.Equal(reservation.Date) {
		reservation.Date = *req.Date
		changed = true
	}
	if req.NumberOfGuests != nil && *req.NumberOfGuests != reservation.NumberOfGuests {
		reservation.NumberOfGuests = *req.NumberOfGuests
		changed = true
	}
	if !changed {
		return declined(MsgNoModifications), nil
	}

	if err := e.store.Reservations.Update(ctx, reservation); err != nil {
		e.logger.Errorw("reservation update failed", "reservation_id", reservation.ID, "error", err)
		return declined(MsgTryAgainLater), nil
	}

	if venue, err := e.store.Venues.GetByID(ctx, reservation.VenueID); err == nil {
		e.refreshAvailableCapacity(ctx, venue)
	}

	return Result{
		Success:     true,
		Message:     "Reservation updated.",
		Reservation: reservation,
	}, nil
}

// Delete cancels a reservation by id.
func (e *Engine) Delete(ctx context.Context, reservationID int64) (Result, error) {
	reservation, err := e.store.Reservations.GetByID(ctx, reservationID)
	if err != nil {
		return Result{}, err
	}

	if err := e.store.Reservations.Delete(ctx, reservation.ID); err != nil {
		if errors.Is(err, reservations.ErrReservationNotFound) {
			return Result{}, err
		}
		e.logger.Errorw("reservation delete failed", "reservation_id", reservation.ID, "error", err)
		return declined(MsgTryAgainLater), nil
	}

	if venue, err := e.store.Venues.GetByID(ctx, reservation.VenueID); err == nil {
		e.refreshAvailableCapacity(ctx, venue)
	}

	return Result{Success: true, Message: MsgCanceled}, nil
}

// resolveUser turns the id-or-email request variant into a concrete user.
// nil with a nil error means the user could not be resolved; supplying both
// identifiers (or neither) is treated the same way.
func (e *Engine) resolveUser(ctx context.Context, req CreateRequest) (*users.User, error) {
	var (
		user *users.User
		err  error
	)
	switch {
	case req.UserID != nil && req.UserEmail == nil:
		user, err = e.store.Users.GetByID(ctx, *req.UserID)
	case req.UserEmail != nil && req.UserID == nil:
		user, err = e.store.Users.GetByEmail(ctx, *req.UserEmail)
	default:
		return nil, nil
	}
	if err != nil {
		if errors.Is(err, users.ErrUserNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

// checkOperatingTime validates the requested datetime against the venue's
// working days and working-hours range. ok=false comes with the decline.
func (e *Engine) checkOperatingTime(ctx context.Context, venue *venues.Venue, date time.Time) (Result, bool, error) {
	days, err := e.store.WorkingDays.GetByVenue(ctx, venue.ID)
	if err != nil {
		return Result{}, false, err
	}
	// No configured days means the venue never restricted them.
	if len(days) > 0 {
		open := false
		for _, wd := range days {
			if wd.Day == date.Weekday() {
				open = true
				break
			}
		}
		if !open {
			return declined(MsgClosedDay), false, nil
		}
	}

	opens, closes, err := parseWorkingHours(venue.WorkingHours)
	if err != nil {
		// A malformed hours string should not block bookings.
		e.logger.Warnw("unparsable working hours", "venue_id", venue.ID, "working_hours", venue.WorkingHours)
		return Result{}, true, nil
	}
	minute := date.Hour()*60 + date.Minute()
	if minute < opens || minute >= closes {
		return declined(MsgClosedHours), false, nil
	}

	return Result{}, true, nil
}

// refreshAvailableCapacity recomputes the venue's cached available capacity
// for the current half-hour window. The snapshot is derived data; a failed
// refresh is logged and does not fail the operation that triggered it.
func (e *Engine) refreshAvailableCapacity(ctx context.Context, venue *venues.Venue) {
	lower, upper := SurroundingHalfHour(e.now())
	windowReservations, err := e.store.Reservations.GetInWindow(ctx, venue.ID, lower, upper)
	if err != nil {
		e.logger.Warnw("available capacity refresh failed", "venue_id", venue.ID, "error", err)
		return
	}

	available := venue.MaximumCapacity - BookedGuests(windowReservations)
	if available < 0 {
		available = 0
	}
	if err := e.store.Venues.UpdateAvailableCapacity(ctx, venue.ID, available); err != nil {
		e.logger.Warnw("available capacity refresh failed", "venue_id", venue.ID, "error", err)
	}
}

// parseWorkingHours parses an "HH:MM-HH:MM" range into minutes of day.
func parseWorkingHours(hours string) (opens, closes int, err error) {
	parts := strings.SplitN(strings.TrimSpace(hours), "-", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid working hours %q", hours)
	}
	from, err := time.Parse("15:04", strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, err
	}
	to, err := time.Parse("15:04", strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, err
	}
	opens = from.Hour()*60 + from.Minute()
	closes = to.Hour()*60 + to.Minute()
	if closes == 0 {
		closes = 24 * 60
	}
	return opens, closes, nil
}
