package reservations

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var QueryTimeoutDuration = time.Second * 5

type Store interface {
	Create(ctx context.Context, reservation *Reservation) error
	Update(ctx context.Context, reservation *Reservation) error
	Delete(ctx context.Context, reservationID int64) error
	GetByID(ctx context.Context, reservationID int64) (*Reservation, error)
	GetByUser(ctx context.Context, userID int64) ([]Reservation, error)
	GetByVenue(ctx context.Context, venueID int64) ([]Reservation, error)
	GetInWindow(ctx context.Context, venueID int64, lower, upper time.Time) ([]Reservation, error)
	GetInWindowForVenues(ctx context.Context, venueIDs []int64, lower, upper time.Time) ([]Reservation, error)
	TrendingCounts(ctx context.Context, page, limit int) ([]TrendingRow, error)
}

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Store {
	return &Repository{db: db}
}

func (r *Repository) collect(ctx context.Context, query string, args ...any) ([]Reservation, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Reservation
	for rows.Next() {
		var res Reservation
		if err := rows.Scan(
			&res.ID,
			&res.UserID,
			&res.VenueID,
			&res.Date,
			&res.NumberOfGuests,
			&res.ConfirmationCode,
			&res.CreatedAt,
			&res.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

const reservationColumns = `id, user_id, venue_id, date, number_of_guests, confirmation_code, created_at, updated_at`

func (r *Repository) Create(ctx context.Context, reservation *Reservation) error {
	query := `
		INSERT INTO reservations (user_id, venue_id, date, number_of_guests, confirmation_code)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	return r.db.QueryRow(ctx, query,
		reservation.UserID,
		reservation.VenueID,
		reservation.Date,
		reservation.NumberOfGuests,
		reservation.ConfirmationCode,
	).Scan(&reservation.ID, &reservation.CreatedAt, &reservation.UpdatedAt)
}

// Update persists a changed date and/or guest count. Venue and user
// references never change after creation.
func (r *Repository) Update(ctx context.Context, reservation *Reservation) error {
	query := `
		UPDATE reservations
		SET date = $1, number_of_guests = $2, updated_at = NOW()
		WHERE id = $3
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	res, err := r.db.Exec(ctx, query, reservation.Date, reservation.NumberOfGuests, reservation.ID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return ErrReservationNotFound
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, reservationID int64) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	res, err := r.db.Exec(ctx, `DELETE FROM reservations WHERE id = $1`, reservationID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return ErrReservationNotFound
	}
	return nil
}

func (r *Repository) GetByID(ctx context.Context, reservationID int64) (*Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var res Reservation
	err := r.db.QueryRow(ctx, query, reservationID).Scan(
		&res.ID,
		&res.UserID,
		&res.VenueID,
		&res.Date,
		&res.NumberOfGuests,
		&res.ConfirmationCode,
		&res.CreatedAt,
		&res.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	return &res, nil
}

func (r *Repository) GetByUser(ctx context.Context, userID int64) ([]Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE user_id = $1 ORDER BY date DESC`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	return r.collect(ctx, query, userID)
}

func (r *Repository) GetByVenue(ctx context.Context, venueID int64) ([]Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE venue_id = $1 ORDER BY date DESC`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	return r.collect(ctx, query, venueID)
}

// GetInWindow returns the reservations whose own half-hour window overlaps
// [lower, upper): with the fixed one-hour grid that is exactly the rows whose
// date falls inside the window.
func (r *Repository) GetInWindow(ctx context.Context, venueID int64, lower, upper time.Time) ([]Reservation, error) {
	query := `
		SELECT ` + reservationColumns + `
		FROM reservations
		WHERE venue_id = $1 AND date >= $2 AND date < $3
		ORDER BY date
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	return r.collect(ctx, query, venueID, lower, upper)
}

func (r *Repository) GetInWindowForVenues(ctx context.Context, venueIDs []int64, lower, upper time.Time) ([]Reservation, error) {
	if len(venueIDs) == 0 {
		return nil, nil
	}

	query := `
		SELECT ` + reservationColumns + `
		FROM reservations
		WHERE venue_id = ANY($1) AND date >= $2 AND date < $3
		ORDER BY date
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	return r.collect(ctx, query, venueIDs, lower, upper)
}

// TrendingCounts is the projection behind the trending listing: venue ids with
// their reservation counts, busiest first, over a paged window.
func (r *Repository) TrendingCounts(ctx context.Context, page, limit int) ([]TrendingRow, error) {
	if limit <= 0 {
		limit = 15
	}
	if page < 1 {
		page = 1
	}

	query := `
		SELECT venue_id, COUNT(*) AS reservation_count
		FROM reservations
		GROUP BY venue_id
		ORDER BY reservation_count DESC, venue_id DESC
		LIMIT $1 OFFSET $2
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := r.db.Query(ctx, query, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TrendingRow
	for rows.Next() {
		var tr TrendingRow
		if err := rows.Scan(&tr.VenueID, &tr.Count); err != nil {
			return nil, err
		}
		out = append(out, tr)
	}
	return out, rows.Err()
}
