package main

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"rezerva/internal/domain/venues"
	"rezerva/internal/params"
)

// listVenuesHandler godoc
//
//	@Summary		List venues
//	@Description	Returns a paged venue listing filtered by name and venue types
//	@Tags			discovery
//	@Produce		json
//	@Param			name		query	string	false	"Case-insensitive substring on venue name"
//	@Param			venue_types	query	string	false	"Comma-separated venue type ids"
//	@Param			page		query	int		false	"Page number"
//	@Param			limit		query	int		false	"Page size (max 30)"
//	@Success		200			{array}	discovery.VenueListing
//	@Failure		400			{object}	ErrorBadRequestResponse
//	@Failure		500			{object}	ErrorInternalServerResponse
//	@Router			/venues [get]
func (app *application) listVenuesHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	p := params.ParsePagination(q)

	filter := venues.Filter{
		Page:  p.Page,
		Limit: p.Limit,
	}

	if name := strings.TrimSpace(q.Get("name")); name != "" {
		filter.Name = &name
	}

	if typesParam := strings.TrimSpace(q.Get("venue_types")); typesParam != "" {
		for _, raw := range strings.Split(typesParam, ",") {
			id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
			if err != nil {
				app.badRequestResponse(w, r, fmt.Errorf("invalid venue type id %q", raw))
				return
			}
			filter.VenueTypeIDs = append(filter.VenueTypeIDs, id)
		}
	}

	listings, err := app.discovery.Filtered(r.Context(), filter)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, listings); err != nil {
		app.internalServerError(w, r, err)
	}
}

// nearbyVenuesHandler godoc
//
//	@Summary		List nearby venues
//	@Description	Resolves the caller's coordinates to a city and lists venues there and in surrounding cities, current city first
//	@Tags			discovery
//	@Produce		json
//	@Param			lat	query	number	false	"Latitude"
//	@Param			lon	query	number	false	"Longitude"
//	@Success		200	{array}	venues.Venue
//	@Failure		400	{object}	ErrorBadRequestResponse
//	@Failure		500	{object}	ErrorInternalServerResponse
//	@Router			/venues/nearby [get]
func (app *application) nearbyVenuesHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var lat, lon *float64
	if latStr := q.Get("lat"); latStr != "" {
		v, err := strconv.ParseFloat(latStr, 64)
		if err != nil {
			app.badRequestResponse(w, r, fmt.Errorf("invalid lat: %w", err))
			return
		}
		lat = &v
	}
	if lonStr := q.Get("lon"); lonStr != "" {
		v, err := strconv.ParseFloat(lonStr, 64)
		if err != nil {
			app.badRequestResponse(w, r, fmt.Errorf("invalid lon: %w", err))
			return
		}
		lon = &v
	}

	list, err := app.discovery.Nearby(r.Context(), lat, lon)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, list); err != nil {
		app.internalServerError(w, r, err)
	}
}

// suggestedVenuesHandler godoc
//
//	@Summary		List suggested venues
//	@Description	Returns well-rated venues with free capacity in the current one-hour window
//	@Tags			discovery
//	@Produce		json
//	@Success		200	{array}	venues.Venue
//	@Failure		500	{object}	ErrorInternalServerResponse
//	@Router			/venues/suggested [get]
func (app *application) suggestedVenuesHandler(w http.ResponseWriter, r *http.Request) {
	list, err := app.discovery.Suggested(r.Context())
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, list); err != nil {
		app.internalServerError(w, r, err)
	}
}

// trendingVenuesHandler godoc
//
//	@Summary		List trending venues
//	@Description	Returns venues ordered by reservation count, most booked first
//	@Tags			discovery
//	@Produce		json
//	@Param			page	query	int	false	"Page number"
//	@Param			limit	query	int	false	"Page size (max 30)"
//	@Success		200		{array}	venues.Venue
//	@Failure		500		{object}	ErrorInternalServerResponse
//	@Router			/venues/trending [get]
func (app *application) trendingVenuesHandler(w http.ResponseWriter, r *http.Request) {
	p := params.ParsePagination(r.URL.Query())

	list, err := app.discovery.Trending(r.Context(), p.Page, p.Limit)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, list); err != nil {
		app.internalServerError(w, r, err)
	}
}
