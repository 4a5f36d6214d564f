package main

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"rezerva/internal/booking"
	"rezerva/internal/domain/reservations"
	"rezerva/internal/domain/venues"
	"rezerva/internal/mailer"
	"rezerva/internal/notifications"

	"github.com/go-chi/chi/v5"
)

type CreateReservationPayload struct {
	UserID         *int64  `json:"user_id"`
	UserEmail      *string `json:"user_email" validate:"omitempty,email"`
	VenueID        int64   `json:"venue_id" validate:"required"`
	Date           string  `json:"date" validate:"required"`
	NumberOfGuests int     `json:"number_of_guests" validate:"required"`
}

// createReservationHandler godoc
//
//	@Summary		Create a reservation
//	@Description	Books a one-hour slot at a venue; business declines come back with success=false
//	@Tags			reservations
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		CreateReservationPayload	true	"Reservation details"
//	@Success		201		{object}	booking.Result
//	@Failure		400		{object}	ErrorBadRequestResponse
//	@Failure		404		{object}	error	"Venue not found"
//	@Failure		500		{object}	ErrorInternalServerResponse
//	@Security		ApiKeyAuth
//	@Router			/reservations [post]
func (app *application) createReservationHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	var payload CreateReservationPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	date, err := time.Parse(time.RFC3339, payload.Date)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	req := booking.CreateRequest{
		UserID:         payload.UserID,
		UserEmail:      payload.UserEmail,
		VenueID:        payload.VenueID,
		Date:           date,
		NumberOfGuests: payload.NumberOfGuests,
	}
	// default to the authenticated user when the payload names nobody
	if req.UserID == nil && req.UserEmail == nil {
		req.UserID = &user.ID
	}

	ctx := r.Context()

	result, err := app.bookings.Create(ctx, req)
	if err != nil {
		if errors.Is(err, venues.ErrVenueNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	if !result.Success {
		if err := app.jsonResponse(w, http.StatusOK, result); err != nil {
			app.internalServerError(w, r, err)
		}
		return
	}

	app.notifyReservationCreated(result.Reservation)

	if err := app.jsonResponse(w, http.StatusCreated, result); err != nil {
		app.internalServerError(w, r, err)
	}
}

// notifyReservationCreated emails the guest their confirmation code and pings
// the venue owner's devices. Both are best effort; the reservation stands
// even if they fail.
func (app *application) notifyReservationCreated(res *reservations.Reservation) {
	if res == nil {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		venue, err := app.store.Venues.GetByID(ctx, res.VenueID)
		if err != nil {
			app.logger.Warnw("could not load venue for notifications", "venue_id", res.VenueID, "error", err)
			return
		}

		guest, err := app.store.Users.GetByID(ctx, res.UserID)
		if err != nil {
			app.logger.Warnw("could not load guest for notifications", "user_id", res.UserID, "error", err)
			return
		}

		vars := struct {
			Username         string
			VenueName        string
			Date             string
			Guests           int
			ConfirmationCode string
		}{
			Username:         guest.FirstName,
			VenueName:        venue.Name,
			Date:             res.Date.Format("Mon, 02 Jan 2006 15:04"),
			Guests:           res.NumberOfGuests,
			ConfirmationCode: res.ConfirmationCode,
		}
		if _, err := app.mailer.Send(mailer.ReservationConfirmationTemplate, guest.FirstName, guest.Email, vars); err != nil {
			app.logger.Errorw("error sending confirmation email", "error", err)
		}

		if err := notifications.SendReservationNotification(ctx, app.push, app.store, venue.OwnerID, notifications.ReservationCreated, venue.Name); err != nil {
			app.logger.Warnw("push notification failed", "owner_id", venue.OwnerID, "error", err)
		}
	}()
}

type UpdateReservationPayload struct {
	Date           *string `json:"date"`
	NumberOfGuests *int    `json:"number_of_guests"`
}

// updateReservationHandler godoc
//
//	@Summary		Update a reservation
//	@Description	Changes the date and/or guest count of an existing reservation
//	@Tags			reservations
//	@Accept			json
//	@Produce		json
//	@Param			reservationID	path		int							true	"Reservation ID"
//	@Param			payload			body		UpdateReservationPayload	true	"Fields to update"
//	@Success		200				{object}	booking.Result
//	@Failure		400				{object}	ErrorBadRequestResponse
//	@Failure		404				{object}	error	"Reservation not found"
//	@Failure		500				{object}	ErrorInternalServerResponse
//	@Security		ApiKeyAuth
//	@Router			/reservations/{reservationID} [patch]
func (app *application) updateReservationHandler(w http.ResponseWriter, r *http.Request) {
	reservationID, err := strconv.ParseInt(chi.URLParam(r, "reservationID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var payload UpdateReservationPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	req := booking.UpdateRequest{
		ReservationID:  reservationID,
		NumberOfGuests: payload.NumberOfGuests,
	}
	if payload.Date != nil {
		date, err := time.Parse(time.RFC3339, *payload.Date)
		if err != nil {
			app.badRequestResponse(w, r, err)
			return
		}
		req.Date = &date
	}

	result, err := app.bookings.Update(r.Context(), req)
	if err != nil {
		if errors.Is(err, reservations.ErrReservationNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, result); err != nil {
		app.internalServerError(w, r, err)
	}
}

// deleteReservationHandler godoc
//
//	@Summary		Cancel a reservation
//	@Description	Cancels an existing reservation and frees its capacity
//	@Tags			reservations
//	@Produce		json
//	@Param			reservationID	path		int	true	"Reservation ID"
//	@Success		200				{object}	booking.Result
//	@Failure		404				{object}	error	"Reservation not found"
//	@Failure		500				{object}	ErrorInternalServerResponse
//	@Security		ApiKeyAuth
//	@Router			/reservations/{reservationID} [delete]
func (app *application) deleteReservationHandler(w http.ResponseWriter, r *http.Request) {
	reservationID, err := strconv.ParseInt(chi.URLParam(r, "reservationID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	result, err := app.bookings.Delete(r.Context(), reservationID)
	if err != nil {
		if errors.Is(err, reservations.ErrReservationNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, result); err != nil {
		app.internalServerError(w, r, err)
	}
}

// getMyReservationsHandler godoc
//
//	@Summary		List my reservations
//	@Description	Returns the authenticated user's reservations
//	@Tags			reservations
//	@Produce		json
//	@Success		200	{array}	reservations.Reservation
//	@Failure		500	{object}	ErrorInternalServerResponse
//	@Security		ApiKeyAuth
//	@Router			/reservations [get]
func (app *application) getMyReservationsHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	list, err := app.store.Reservations.GetByUser(r.Context(), user.ID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, list); err != nil {
		app.internalServerError(w, r, err)
	}
}

// getVenueReservationsHandler godoc
//
//	@Summary		List reservations for a venue
//	@Description	Returns all reservations of a venue owned by the caller
//	@Tags			venues
//	@Produce		json
//	@Param			venueID	path	int	true	"Venue ID"
//	@Success		200		{array}	reservations.Reservation
//	@Failure		400		{object}	ErrorBadRequestResponse
//	@Failure		500		{object}	ErrorInternalServerResponse
//	@Security		ApiKeyAuth
//	@Router			/venues/{venueID}/reservations [get]
func (app *application) getVenueReservationsHandler(w http.ResponseWriter, r *http.Request) {
	venueID, err := strconv.ParseInt(chi.URLParam(r, "venueID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	list, err := app.store.Reservations.GetByVenue(r.Context(), venueID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, list); err != nil {
		app.internalServerError(w, r, err)
	}
}
