package main

import (
	"errors"
	"net/http"
	"strconv"

	"rezerva/internal/domain/venues"

	"github.com/go-chi/chi/v5"
)

type CreateRatingPayload struct {
	Rating  float64 `json:"rating" validate:"required"`
	Comment *string `json:"comment" validate:"omitempty,max=500"`
}

// createVenueRatingHandler godoc
//
//	@Summary		Rate a venue
//	@Description	Records a 1.0-5.0 rating and refreshes the venue's average
//	@Tags			venues
//	@Accept			json
//	@Produce		json
//	@Param			venueID	path		int					true	"Venue ID"
//	@Param			payload	body		CreateRatingPayload	true	"Rating"
//	@Success		201		{object}	rating.Result
//	@Failure		400		{object}	ErrorBadRequestResponse
//	@Failure		404		{object}	error	"Venue not found"
//	@Failure		500		{object}	ErrorInternalServerResponse
//	@Security		ApiKeyAuth
//	@Router			/venues/{venueID}/ratings [post]
func (app *application) createVenueRatingHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	venueID, err := strconv.ParseInt(chi.URLParam(r, "venueID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var payload CreateRatingPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	result, err := app.ratings.AddRating(r.Context(), venueID, user.ID, payload.Rating, payload.Comment)
	if err != nil {
		if errors.Is(err, venues.ErrVenueNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	status := http.StatusCreated
	if !result.Success {
		status = http.StatusOK
	}

	if err := app.jsonResponse(w, status, result); err != nil {
		app.internalServerError(w, r, err)
	}
}

// getVenueRatingsHandler godoc
//
//	@Summary		List venue ratings
//	@Description	Returns the rating history of a venue with rater names
//	@Tags			venues
//	@Produce		json
//	@Param			venueID	path	int	true	"Venue ID"
//	@Success		200		{array}	venueratings.VenueRating
//	@Failure		400		{object}	ErrorBadRequestResponse
//	@Failure		500		{object}	ErrorInternalServerResponse
//	@Router			/venues/{venueID}/ratings [get]
func (app *application) getVenueRatingsHandler(w http.ResponseWriter, r *http.Request) {
	venueID, err := strconv.ParseInt(chi.URLParam(r, "venueID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	list, err := app.store.VenueRatings.GetByVenue(r.Context(), venueID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, list); err != nil {
		app.internalServerError(w, r, err)
	}
}
