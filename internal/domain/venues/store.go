package venues

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var QueryTimeoutDuration = time.Second * 5

// Venues surfaced by the "suggested" source query need at least this many
// ratings before the ranking engine even looks at them.
const suggestedMinRatings = 3

type Store interface {
	Create(ctx context.Context, venue *Venue) error
	Update(ctx context.Context, venueID int64, updateData map[string]interface{}) error
	Delete(ctx context.Context, venueID int64) error
	GetByID(ctx context.Context, venueID int64) (*Venue, error)
	GetByOwner(ctx context.Context, ownerID int64) ([]Venue, error)
	GetByIDs(ctx context.Context, venueIDs []int64) ([]Venue, error)
	Search(ctx context.Context, filter Filter) ([]Venue, error)
	GetByLocations(ctx context.Context, locations []string) ([]Venue, error)
	GetSuggested(ctx context.Context) ([]Venue, error)
	ExistsByOwnerAndName(ctx context.Context, ownerID int64, name string) (bool, error)
	UpdateAverageRating(ctx context.Context, venueID int64, average float64) error
	UpdateAvailableCapacity(ctx context.Context, venueID int64, available int) error
}

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Store {
	return &Repository{db: db}
}

const venueColumns = `id, owner_id, name, location, description, working_hours,
	maximum_capacity, available_capacity, average_rating, venue_type_id, created_at, updated_at`

func scanVenue(row pgx.Row, v *Venue) error {
	return row.Scan(
		&v.ID,
		&v.OwnerID,
		&v.Name,
		&v.Location,
		&v.Description,
		&v.WorkingHours,
		&v.MaximumCapacity,
		&v.AvailableCapacity,
		&v.AverageRating,
		&v.VenueTypeID,
		&v.CreatedAt,
		&v.UpdatedAt,
	)
}

func (r *Repository) collect(ctx context.Context, query string, args ...any) ([]Venue, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Venue
	for rows.Next() {
		var v Venue
		if err := scanVenue(rows, &v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *Repository) Create(ctx context.Context, venue *Venue) error {
	query := `
		INSERT INTO venues
			(owner_id, name, location, description, working_hours, maximum_capacity, available_capacity, venue_type_id)
		VALUES ($1, $2, $3, $4, $5, $6, $6, $7)
		RETURNING id, created_at, updated_at
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	return r.db.QueryRow(ctx, query,
		venue.OwnerID,
		venue.Name,
		venue.Location,
		venue.Description,
		venue.WorkingHours,
		venue.MaximumCapacity,
		venue.VenueTypeID,
	).Scan(&venue.ID, &venue.CreatedAt, &venue.UpdatedAt)
}

// Update applies only the supplied columns; unknown keys are rejected.
func (r *Repository) Update(ctx context.Context, venueID int64, updateData map[string]interface{}) error {
	builder := sq.Update("venues").PlaceholderFormat(sq.Dollar)

	for key, value := range updateData {
		switch key {
		case "name", "location", "description", "working_hours", "maximum_capacity", "venue_type_id":
			builder = builder.Set(key, value)
		default:
			return fmt.Errorf("unsupported field: %s", key)
		}
	}

	builder = builder.Set("updated_at", sq.Expr("NOW()")).Where(sq.Eq{"id": venueID})

	query, args, err := builder.ToSql()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	res, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return ErrVenueNotFound
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, venueID int64) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	res, err := r.db.Exec(ctx, `DELETE FROM venues WHERE id = $1`, venueID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return ErrVenueNotFound
	}
	return nil
}

func (r *Repository) GetByID(ctx context.Context, venueID int64) (*Venue, error) {
	query := `SELECT ` + venueColumns + ` FROM venues WHERE id = $1`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var v Venue
	if err := scanVenue(r.db.QueryRow(ctx, query, venueID), &v); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrVenueNotFound
		}
		return nil, err
	}
	return &v, nil
}

func (r *Repository) GetByOwner(ctx context.Context, ownerID int64) ([]Venue, error) {
	query := `SELECT ` + venueColumns + ` FROM venues WHERE owner_id = $1 ORDER BY id`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	return r.collect(ctx, query, ownerID)
}

func (r *Repository) GetByIDs(ctx context.Context, venueIDs []int64) ([]Venue, error) {
	if len(venueIDs) == 0 {
		return nil, nil
	}

	query := `SELECT ` + venueColumns + ` FROM venues WHERE id = ANY($1)`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	return r.collect(ctx, query, venueIDs)
}

// Search runs the paged, filtered listing. Predicates are optional and
// combined with AND; the query is built dynamically with squirrel.
func (r *Repository) Search(ctx context.Context, filter Filter) ([]Venue, error) {
	builder := sq.Select(venueColumns).
		From("venues").
		PlaceholderFormat(sq.Dollar).
		OrderBy("id")

	if filter.Name != nil && *filter.Name != "" {
		builder = builder.Where(sq.ILike{"name": "%" + *filter.Name + "%"})
	}
	if len(filter.VenueTypeIDs) > 0 {
		builder = builder.Where(sq.Eq{"venue_type_id": filter.VenueTypeIDs})
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 15
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	builder = builder.Limit(uint64(limit)).Offset(uint64((page - 1) * limit))

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	return r.collect(ctx, query, args...)
}

func (r *Repository) GetByLocations(ctx context.Context, locations []string) ([]Venue, error) {
	if len(locations) == 0 {
		return nil, nil
	}

	query := `SELECT ` + venueColumns + ` FROM venues WHERE location = ANY($1) ORDER BY id`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	return r.collect(ctx, query, locations)
}

// GetSuggested is the source query for the suggested listing: venues with an
// established rating history. The ranking rules live in the discovery engine.
func (r *Repository) GetSuggested(ctx context.Context) ([]Venue, error) {
	query := `
		SELECT ` + venueColumns + `
		FROM venues
		WHERE id IN (
			SELECT venue_id FROM venue_ratings GROUP BY venue_id HAVING COUNT(*) >= $1
		)
	`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	return r.collect(ctx, query, suggestedMinRatings)
}

func (r *Repository) ExistsByOwnerAndName(ctx context.Context, ownerID int64, name string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var id int64
	err := r.db.QueryRow(ctx, `SELECT id FROM venues WHERE owner_id = $1 AND name = $2`, ownerID, name).Scan(&id)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	return false, err
}

func (r *Repository) UpdateAverageRating(ctx context.Context, venueID int64, average float64) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	res, err := r.db.Exec(ctx,
		`UPDATE venues SET average_rating = $1, updated_at = NOW() WHERE id = $2`,
		average, venueID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return ErrVenueNotFound
	}
	return nil
}

func (r *Repository) UpdateAvailableCapacity(ctx context.Context, venueID int64, available int) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	res, err := r.db.Exec(ctx,
		`UPDATE venues SET available_capacity = $1, updated_at = NOW() WHERE id = $2`,
		available, venueID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return ErrVenueNotFound
	}
	return nil
}
