package venueratings

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

var QueryTimeoutDuration = time.Second * 5

type Store interface {
	Create(ctx context.Context, rating *VenueRating) error
	GetByVenue(ctx context.Context, venueID int64) ([]VenueRating, error)
	CountByVenueIDs(ctx context.Context, venueIDs []int64) (map[int64]int64, error)
}

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Store {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, rating *VenueRating) error {
	query := `
		INSERT INTO venue_ratings (venue_id, user_id, rating, comment)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	return r.db.QueryRow(ctx, query,
		rating.VenueID,
		rating.UserID,
		rating.Rating,
		rating.Comment,
	).Scan(&rating.ID, &rating.CreatedAt)
}

func (r *Repository) GetByVenue(ctx context.Context, venueID int64) ([]VenueRating, error) {
	query := `
		SELECT vr.id, vr.venue_id, vr.user_id, vr.rating, vr.comment, vr.created_at, u.first_name
		FROM venue_ratings vr
		JOIN users u ON u.id = vr.user_id
		WHERE vr.venue_id = $1
		ORDER BY vr.created_at DESC
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := r.db.Query(ctx, query, venueID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ratings []VenueRating
	for rows.Next() {
		var vr VenueRating
		if err := rows.Scan(
			&vr.ID,
			&vr.VenueID,
			&vr.UserID,
			&vr.Rating,
			&vr.Comment,
			&vr.CreatedAt,
			&vr.UserName,
		); err != nil {
			return nil, err
		}
		ratings = append(ratings, vr)
	}
	return ratings, rows.Err()
}

func (r *Repository) CountByVenueIDs(ctx context.Context, venueIDs []int64) (map[int64]int64, error) {
	counts := make(map[int64]int64, len(venueIDs))
	if len(venueIDs) == 0 {
		return counts, nil
	}

	query := `
		SELECT venue_id, COUNT(*)
		FROM venue_ratings
		WHERE venue_id = ANY($1)
		GROUP BY venue_id
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := r.db.Query(ctx, query, venueIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var venueID, count int64
		if err := rows.Scan(&venueID, &count); err != nil {
			return nil, err
		}
		counts[venueID] = count
	}
	return counts, rows.Err()
}
