package workingdays

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var QueryTimeoutDuration = time.Second * 5

type Store interface {
	GetByVenue(ctx context.Context, venueID int64) ([]WorkingDay, error)
	GetByVenueIDs(ctx context.Context, venueIDs []int64) (map[int64][]WorkingDay, error)
	SaveAll(ctx context.Context, venueID int64, days []time.Weekday) error
}

type Repository struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) Store {
	return &Repository{db: db}
}

func (r *Repository) GetByVenue(ctx context.Context, venueID int64) ([]WorkingDay, error) {
	query := `SELECT id, venue_id, day FROM working_days WHERE venue_id = $1 ORDER BY day`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := r.db.Query(ctx, query, venueID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanWorkingDays(rows)
}

// GetByVenueIDs loads the working days for a whole page of venues in one
// query, keyed by venue id.
func (r *Repository) GetByVenueIDs(ctx context.Context, venueIDs []int64) (map[int64][]WorkingDay, error) {
	byVenue := make(map[int64][]WorkingDay, len(venueIDs))
	if len(venueIDs) == 0 {
		return byVenue, nil
	}

	query := `SELECT id, venue_id, day FROM working_days WHERE venue_id = ANY($1) ORDER BY venue_id, day`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := r.db.Query(ctx, query, venueIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	days, err := scanWorkingDays(rows)
	if err != nil {
		return nil, err
	}
	for _, wd := range days {
		byVenue[wd.VenueID] = append(byVenue[wd.VenueID], wd)
	}
	return byVenue, nil
}

// SaveAll replaces a venue's working-day set in one transaction.
func (r *Repository) SaveAll(ctx context.Context, venueID int64, days []time.Weekday) error {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM working_days WHERE venue_id = $1`, venueID); err != nil {
		return err
	}

	batch := &pgx.Batch{}
	for _, day := range days {
		batch.Queue(`INSERT INTO working_days (venue_id, day) VALUES ($1, $2)`, venueID, int(day))
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func scanWorkingDays(rows pgx.Rows) ([]WorkingDay, error) {
	var out []WorkingDay
	for rows.Next() {
		var wd WorkingDay
		var day int
		if err := rows.Scan(&wd.ID, &wd.VenueID, &day); err != nil {
			return nil, err
		}
		wd.Day = time.Weekday(day)
		out = append(out, wd)
	}
	return out, rows.Err()
}
