package rating

import (
	"context"
	"errors"
	"testing"

	"rezerva/internal/domain/storage/storagetest"
	"rezerva/internal/domain/venueratings"
	"rezerva/internal/domain/venues"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestAggregator(store *storagetest.Container) *Aggregator {
	return NewAggregator(store.Container, zap.NewNop().Sugar())
}

func seedVenue(store *storagetest.Container) *venues.Venue {
	venue := &venues.Venue{OwnerID: 9, Name: "Lanterna", Location: "Zagreb", MaximumCapacity: 50}
	_ = store.Venues.Create(context.Background(), venue)
	return venue
}

func TestRecomputeAverage(t *testing.T) {
	assert.InDelta(t, 5.0, RecomputeAverage(nil, 5.0), 1e-9)
	assert.InDelta(t, 4.5, RecomputeAverage([]float64{4.0}, 5.0), 1e-9)
	assert.InDelta(t, (3.0+4.0+5.0)/3, RecomputeAverage([]float64{3.0, 4.0}, 5.0), 1e-9)
}

func TestAddRatingOutOfRangeTouchesNothing(t *testing.T) {
	store := storagetest.NewContainer()
	agg := newTestAggregator(store)
	seedVenue(store)

	for _, bad := range []float64{0.9, 5.1, -1, 12} {
		result, err := agg.AddRating(context.Background(), 1, 1, bad, nil)
		require.NoError(t, err)
		assert.False(t, result.Success)
		assert.Equal(t, MsgRatingOutOfRange, result.Message)
	}
	assert.Empty(t, store.VenueRatings.Rows)
	assert.Empty(t, store.Venues.AverageUpdates)
}

func TestAddRatingBoundsAreInclusive(t *testing.T) {
	store := storagetest.NewContainer()
	agg := newTestAggregator(store)
	venue := seedVenue(store)

	for _, ok := range []float64{1.0, 5.0} {
		result, err := agg.AddRating(context.Background(), venue.ID, 1, ok, nil)
		require.NoError(t, err)
		assert.True(t, result.Success)
	}
	assert.Len(t, store.VenueRatings.Rows, 2)
}

func TestAddRatingRefreshesVenueAverage(t *testing.T) {
	store := storagetest.NewContainer()
	agg := newTestAggregator(store)
	venue := seedVenue(store)

	store.VenueRatings.Rows = []venueratings.VenueRating{
		{ID: 1, VenueID: venue.ID, UserID: 2, Rating: 4.0},
	}

	result, err := agg.AddRating(context.Background(), venue.ID, 3, 5.0, nil)

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.InDelta(t, 4.5, store.Venues.AverageUpdates[venue.ID], 1e-9)
}

func TestAddRatingUnknownVenueIsTypedError(t *testing.T) {
	store := storagetest.NewContainer()
	agg := newTestAggregator(store)

	_, err := agg.AddRating(context.Background(), 404, 1, 4.0, nil)

	assert.ErrorIs(t, err, venues.ErrVenueNotFound)
}

func TestAddRatingInsertFailure(t *testing.T) {
	store := storagetest.NewContainer()
	agg := newTestAggregator(store)
	venue := seedVenue(store)
	store.VenueRatings.CreateErr = errors.New("connection reset")

	result, err := agg.AddRating(context.Background(), venue.ID, 1, 4.0, nil)

	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, MsgRatingSaveFailed, result.Message)
	assert.Empty(t, store.Venues.AverageUpdates)
}

func TestAddRatingAverageUpdateFailureKeepsRatingRow(t *testing.T) {
	store := storagetest.NewContainer()
	agg := newTestAggregator(store)
	venue := seedVenue(store)
	store.Venues.UpdateAverageRatingErr = errors.New("connection reset")

	result, err := agg.AddRating(context.Background(), venue.ID, 1, 4.0, nil)

	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, MsgAverageUpdateFailed, result.Message)
	// No compensating rollback: the rating row stays durable.
	assert.Len(t, store.VenueRatings.Rows, 1)
}

func TestAddRatingIsAppendOnly(t *testing.T) {
	store := storagetest.NewContainer()
	agg := newTestAggregator(store)
	venue := seedVenue(store)

	// The same user rating twice inserts two rows.
	_, err := agg.AddRating(context.Background(), venue.ID, 1, 2.0, nil)
	require.NoError(t, err)
	_, err = agg.AddRating(context.Background(), venue.ID, 1, 4.0, nil)
	require.NoError(t, err)

	assert.Len(t, store.VenueRatings.Rows, 2)
	assert.InDelta(t, 3.0, store.Venues.AverageUpdates[venue.ID], 1e-9)
}
