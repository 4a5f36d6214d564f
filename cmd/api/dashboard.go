package main

import (
	"net/http"
)

// utilisationRateHandler godoc
//
//	@Summary		Owner utilisation rate
//	@Description	Returns the percentage of the owner's total capacity currently reserved
//	@Tags			dashboard
//	@Produce		json
//	@Success		200	{object}	map[string]float64
//	@Failure		500	{object}	ErrorInternalServerResponse
//	@Security		ApiKeyAuth
//	@Router			/dashboard/utilisation [get]
func (app *application) utilisationRateHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	rate, err := app.discovery.UtilisationRate(r.Context(), user.ID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, map[string]float64{"utilisation_rate": rate}); err != nil {
		app.internalServerError(w, r, err)
	}
}

// overallRatingHandler godoc
//
//	@Summary		Owner overall rating
//	@Description	Returns the mean average rating across all of the owner's venues
//	@Tags			dashboard
//	@Produce		json
//	@Success		200	{object}	map[string]float64
//	@Failure		500	{object}	ErrorInternalServerResponse
//	@Security		ApiKeyAuth
//	@Router			/dashboard/rating [get]
func (app *application) overallRatingHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	overall, err := app.discovery.OverallRating(r.Context(), user.ID)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, map[string]float64{"overall_rating": overall}); err != nil {
		app.internalServerError(w, r, err)
	}
}
