package rating

import (
	"context"

	"rezerva/internal/domain/storage"
	"rezerva/internal/domain/venueratings"
	"rezerva/internal/metrics"

	"go.uber.org/zap"
)

const (
	MinRating = 1.0
	MaxRating = 5.0

	MsgRatingOutOfRange    = "Rating must be between 1.0 and 5.0."
	MsgRatingSaveFailed    = "Could not save the rating. Please try again later."
	MsgAverageUpdateFailed = "Rating saved, but the venue average could not be refreshed."
)

// Result mirrors the booking engine's soft-failure convention: out-of-range
// ratings and write failures come back as Success=false, never as errors.
type Result struct {
	Success bool                      `json:"success"`
	Message string                    `json:"message"`
	Rating  *venueratings.VenueRating `json:"rating,omitempty"`
}

// Aggregator keeps each venue's cached average rating in sync with its
// append-only rating history.
type Aggregator struct {
	store  *storage.Container
	logger *zap.SugaredLogger
}

func NewAggregator(store *storage.Container, logger *zap.SugaredLogger) *Aggregator {
	return &Aggregator{store: store, logger: logger}
}

// RecomputeAverage folds a new rating into the full history. The average is
// recomputed from scratch on every insert, which keeps it exact at the cost
// of an O(n) read per write.
func RecomputeAverage(existing []float64, newRating float64) float64 {
	sum := newRating
	for _, r := range existing {
		sum += r
	}
	return sum / float64(len(existing)+1)
}

// AddRating validates the rating, persists the rating row and then the
// venue's refreshed average. The two writes are independent: a failed average
// update is reported but leaves the rating row durable.
func (a *Aggregator) AddRating(ctx context.Context, venueID, userID int64, ratingValue float64, comment *string) (Result, error) {
	if ratingValue < MinRating || ratingValue > MaxRating {
		return Result{Success: false, Message: MsgRatingOutOfRange}, nil
	}

	venue, err := a.store.Venues.GetByID(ctx, venueID)
	if err != nil {
		return Result{}, err // includes venues.ErrVenueNotFound
	}

	history, err := a.store.VenueRatings.GetByVenue(ctx, venue.ID)
	if err != nil {
		return Result{}, err
	}
	existing := make([]float64, 0, len(history))
	for _, vr := range history {
		existing = append(existing, vr.Rating)
	}

	row := &venueratings.VenueRating{
		VenueID: venue.ID,
		UserID:  userID,
		Rating:  ratingValue,
		Comment: comment,
	}
	if err := a.store.VenueRatings.Create(ctx, row); err != nil {
		a.logger.Errorw("rating insert failed", "venue_id", venue.ID, "error", err)
		return Result{Success: false, Message: MsgRatingSaveFailed}, nil
	}

	average := RecomputeAverage(existing, ratingValue)
	if err := a.store.Venues.UpdateAverageRating(ctx, venue.ID, average); err != nil {
		// The rating row stays durable; there is no compensating rollback.
		a.logger.Errorw("venue average update failed", "venue_id", venue.ID, "error", err)
		return Result{Success: false, Message: MsgAverageUpdateFailed, Rating: row}, nil
	}

	metrics.RatingsRecorded.Inc()
	return Result{Success: true, Message: "Rating recorded.", Rating: row}, nil
}
