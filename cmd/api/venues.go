package main

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"rezerva/internal/domain/venues"

	"github.com/go-chi/chi/v5"
)

type CreateVenuePayload struct {
	Name            string   `json:"name" validate:"required,max=100"`
	Location        string   `json:"location" validate:"required,max=100"`
	Description     *string  `json:"description" validate:"omitempty,max=500"`
	WorkingHours    string   `json:"working_hours" validate:"required"`
	MaximumCapacity int      `json:"maximum_capacity" validate:"required,gt=0"`
	VenueTypeID     int64    `json:"venue_type_id" validate:"required"`
	WorkingDays     []string `json:"working_days" validate:"omitempty,dive,oneof=Sunday Monday Tuesday Wednesday Thursday Friday Saturday"`
}

// createVenueHandler godoc
//
//	@Summary		Create a venue
//	@Description	Creates a venue owned by the authenticated user
//	@Tags			venues
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		CreateVenuePayload	true	"Venue details"
//	@Success		201		{object}	venues.Venue
//	@Failure		400		{object}	ErrorBadRequestResponse
//	@Failure		409		{object}	error	"Venue with same name already exists"
//	@Failure		500		{object}	ErrorInternalServerResponse
//	@Security		ApiKeyAuth
//	@Router			/venues [post]
func (app *application) createVenueHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	var payload CreateVenuePayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	ctx := r.Context()

	exists, err := app.store.Venues.ExistsByOwnerAndName(ctx, user.ID, payload.Name)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	if exists {
		app.conflictResponse(w, r, fmt.Errorf("you already have a venue named %q", payload.Name))
		return
	}

	venue := &venues.Venue{
		OwnerID:         user.ID,
		Name:            payload.Name,
		Location:        payload.Location,
		Description:     payload.Description,
		WorkingHours:    payload.WorkingHours,
		MaximumCapacity: payload.MaximumCapacity,
		// a venue starts fully open
		AvailableCapacity: payload.MaximumCapacity,
		VenueTypeID:       payload.VenueTypeID,
	}

	if err := app.store.Venues.Create(ctx, venue); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if len(payload.WorkingDays) > 0 {
		days, err := parseWeekdays(payload.WorkingDays)
		if err != nil {
			app.badRequestResponse(w, r, err)
			return
		}
		if err := app.store.WorkingDays.SaveAll(ctx, venue.ID, days); err != nil {
			app.internalServerError(w, r, err)
			return
		}
	}

	if err := app.jsonResponse(w, http.StatusCreated, venue); err != nil {
		app.internalServerError(w, r, err)
	}
}

type UpdateVenuePayload struct {
	Name            *string `json:"name" validate:"omitempty,max=100"`
	Location        *string `json:"location" validate:"omitempty,max=100"`
	Description     *string `json:"description" validate:"omitempty,max=500"`
	WorkingHours    *string `json:"working_hours"`
	MaximumCapacity *int    `json:"maximum_capacity" validate:"omitempty,gt=0"`
	VenueTypeID     *int64  `json:"venue_type_id"`
}

// updateVenueHandler godoc
//
//	@Summary		Update venue information
//	@Description	Applies a partial update to a venue owned by the caller
//	@Tags			venues
//	@Accept			json
//	@Produce		json
//	@Param			venueID	path		int					true	"Venue ID"
//	@Param			payload	body		UpdateVenuePayload	true	"Fields to update"
//	@Success		200		{object}	map[string]string
//	@Failure		400		{object}	ErrorBadRequestResponse
//	@Failure		404		{object}	error
//	@Failure		500		{object}	ErrorInternalServerResponse
//	@Security		ApiKeyAuth
//	@Router			/venues/{venueID} [patch]
func (app *application) updateVenueHandler(w http.ResponseWriter, r *http.Request) {
	venueID, err := strconv.ParseInt(chi.URLParam(r, "venueID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var payload UpdateVenuePayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	updateData := map[string]interface{}{}
	if payload.Name != nil {
		updateData["name"] = *payload.Name
	}
	if payload.Location != nil {
		updateData["location"] = *payload.Location
	}
	if payload.Description != nil {
		updateData["description"] = *payload.Description
	}
	if payload.WorkingHours != nil {
		updateData["working_hours"] = *payload.WorkingHours
	}
	if payload.MaximumCapacity != nil {
		updateData["maximum_capacity"] = *payload.MaximumCapacity
	}
	if payload.VenueTypeID != nil {
		updateData["venue_type_id"] = *payload.VenueTypeID
	}

	if len(updateData) == 0 {
		app.badRequestResponse(w, r, fmt.Errorf("no fields to update"))
		return
	}

	if err := app.store.Venues.Update(r.Context(), venueID, updateData); err != nil {
		switch err {
		case venues.ErrVenueNotFound:
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, map[string]string{"message": "venue updated"}); err != nil {
		app.internalServerError(w, r, err)
	}
}

// deleteVenueHandler godoc
//
//	@Summary		Delete a venue
//	@Description	Removes a venue owned by the caller
//	@Tags			venues
//	@Produce		json
//	@Param			venueID	path		int		true	"Venue ID"
//	@Success		204		{string}	string	"No Content"
//	@Failure		404		{object}	error
//	@Failure		500		{object}	ErrorInternalServerResponse
//	@Security		ApiKeyAuth
//	@Router			/venues/{venueID} [delete]
func (app *application) deleteVenueHandler(w http.ResponseWriter, r *http.Request) {
	venueID, err := strconv.ParseInt(chi.URLParam(r, "venueID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := app.store.Venues.Delete(r.Context(), venueID); err != nil {
		switch err {
		case venues.ErrVenueNotFound:
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type SetWorkingDaysPayload struct {
	Days []string `json:"days" validate:"required,dive,oneof=Sunday Monday Tuesday Wednesday Thursday Friday Saturday"`
}

// setWorkingDaysHandler godoc
//
//	@Summary		Set venue working days
//	@Description	Replaces the set of weekdays on which the venue accepts reservations
//	@Tags			venues
//	@Accept			json
//	@Produce		json
//	@Param			venueID	path		int						true	"Venue ID"
//	@Param			payload	body		SetWorkingDaysPayload	true	"Weekday names"
//	@Success		204		{string}	string					"No Content"
//	@Failure		400		{object}	ErrorBadRequestResponse
//	@Failure		500		{object}	ErrorInternalServerResponse
//	@Security		ApiKeyAuth
//	@Router			/venues/{venueID}/working-days [put]
func (app *application) setWorkingDaysHandler(w http.ResponseWriter, r *http.Request) {
	venueID, err := strconv.ParseInt(chi.URLParam(r, "venueID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var payload SetWorkingDaysPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	days, err := parseWeekdays(payload.Days)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := app.store.WorkingDays.SaveAll(r.Context(), venueID, days); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

var weekdayNames = map[string]time.Weekday{
	"Sunday":    time.Sunday,
	"Monday":    time.Monday,
	"Tuesday":   time.Tuesday,
	"Wednesday": time.Wednesday,
	"Thursday":  time.Thursday,
	"Friday":    time.Friday,
	"Saturday":  time.Saturday,
}

func parseWeekdays(names []string) ([]time.Weekday, error) {
	days := make([]time.Weekday, 0, len(names))
	for _, name := range names {
		day, ok := weekdayNames[name]
		if !ok {
			return nil, fmt.Errorf("unknown weekday %q", name)
		}
		days = append(days, day)
	}
	return days, nil
}
