package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ReservationsAdmitted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "rezerva",
		Name:      "reservations_admitted_total",
		Help:      "Reservations that passed the capacity check and were persisted.",
	})

	ReservationsDeclined = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "rezerva",
		Name:      "reservations_declined_total",
		Help:      "Reservation requests declined by a business rule.",
	}, []string{"reason"})

	RatingsRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "rezerva",
		Name:      "ratings_recorded_total",
		Help:      "Venue ratings accepted and persisted.",
	})

	GeoLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "rezerva",
		Name:      "geo_lookups_total",
		Help:      "Geolocation collaborator calls by outcome.",
	}, []string{"outcome"})
)
