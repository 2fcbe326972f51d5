package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"carshare/internal/apperrors"
	"carshare/internal/booking"
	"carshare/internal/db"
)

type RentalRepository interface {
	// Create checks the candidate range against every non-deleted rental on
	// the vehicle and inserts it, as one atomic unit. Overlap fails with
	// ErrConflict.
	Create(ctx context.Context, rental *db.Rental) error
	GetByID(ctx context.Context, id int) (*db.Rental, error)
	// Update re-runs the overlap check excluding the rental itself, and
	// verifies nested rides still fit the new window.
	Update(ctx context.Context, rental *db.Rental) error
	// Delete cascade-deletes the rental's rides and their participants.
	Delete(ctx context.Context, id int) error
	ListAll(ctx context.Context) ([]db.Rental, error)
	ListByRenter(ctx context.Context, renterID int) ([]db.Rental, error)
	ListByVehicleOwner(ctx context.Context, ownerID int) ([]db.Rental, error)
}

type rentalRepository struct {
	db *sql.DB
}

func NewRentalRepository(database *sql.DB) RentalRepository {
	return &rentalRepository{db: database}
}

const rentalColumns = `id, code, vehicle_id, renter_id, start_time, end_time, total_price, status, created_at, updated_at`

func scanRental(row interface{ Scan(...interface{}) error }, r *db.Rental) error {
	return row.Scan(
		&r.ID, &r.Code, &r.VehicleID, &r.RenterID, &r.StartTime, &r.EndTime,
		&r.TotalPrice, &r.Status, &r.CreatedAt, &r.UpdatedAt,
	)
}

// bookedRanges loads the [start, end) windows of every pending or active
// rental on the vehicle, skipping excludeID when non-zero. Must run inside the
// transaction holding the vehicle lock.
func bookedRanges(ctx context.Context, tx *sql.Tx, vehicleID, excludeID int) ([]booking.TimeRange, error) {
	rows, err := tx.QueryContext(ctx, `
		SELECT start_time, end_time FROM rentals
		WHERE vehicle_id = $1 AND status IN ($2, $3) AND id <> $4`,
		vehicleID, db.StatusPending, db.StatusActive, excludeID,
	)
	if err != nil {
		return nil, fmt.Errorf("error querying booked ranges: %w", err)
	}
	defer rows.Close()

	var ranges []booking.TimeRange
	for rows.Next() {
		var tr booking.TimeRange
		if err := rows.Scan(&tr.Start, &tr.End); err != nil {
			return nil, fmt.Errorf("error scanning booked range: %w", err)
		}
		ranges = append(ranges, tr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating booked ranges: %w", err)
	}
	return ranges, nil
}

func (r *rentalRepository) Create(ctx context.Context, rental *db.Rental) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting create transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, lockQuery, lockClassVehicle, rental.VehicleID); err != nil {
		return fmt.Errorf("error taking vehicle lock: %w", err)
	}

	existing, err := bookedRanges(ctx, tx, rental.VehicleID, 0)
	if err != nil {
		return err
	}
	candidate := booking.TimeRange{Start: rental.StartTime, End: rental.EndTime}
	if booking.ConflictsAny(existing, candidate) {
		return apperrors.ErrConflict
	}

	query := `
		INSERT INTO rentals (code, vehicle_id, renter_id, start_time, end_time, total_price, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING id, created_at, updated_at`
	err = tx.QueryRowContext(ctx, query,
		rental.Code, rental.VehicleID, rental.RenterID, rental.StartTime,
		rental.EndTime, rental.TotalPrice, rental.Status,
	).Scan(&rental.ID, &rental.CreatedAt, &rental.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error inserting rental: %w", err)
	}
	return tx.Commit()
}

func (r *rentalRepository) GetByID(ctx context.Context, id int) (*db.Rental, error) {
	var rental db.Rental
	query := `SELECT ` + rentalColumns + ` FROM rentals WHERE id = $1`
	err := scanRental(r.db.QueryRowContext(ctx, query, id), &rental)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("error querying rental: %w", err)
	}
	return &rental, nil
}

func (r *rentalRepository) Update(ctx context.Context, rental *db.Rental) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting update transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, lockQuery, lockClassVehicle, rental.VehicleID); err != nil {
		return fmt.Errorf("error taking vehicle lock: %w", err)
	}

	existing, err := bookedRanges(ctx, tx, rental.VehicleID, rental.ID)
	if err != nil {
		return err
	}
	candidate := booking.TimeRange{Start: rental.StartTime, End: rental.EndTime}
	if booking.ConflictsAny(existing, candidate) {
		return apperrors.ErrConflict
	}

	// A shrunken window may not strand rides already offered inside it.
	rideRows, err := tx.QueryContext(ctx, `
		SELECT start_time, end_time FROM rides
		WHERE rental_id = $1 AND status IN ($2, $3)`,
		rental.ID, db.StatusPending, db.StatusActive,
	)
	if err != nil {
		return fmt.Errorf("error querying nested rides: %w", err)
	}
	defer rideRows.Close()
	for rideRows.Next() {
		var tr booking.TimeRange
		if err := rideRows.Scan(&tr.Start, &tr.End); err != nil {
			return fmt.Errorf("error scanning nested ride range: %w", err)
		}
		if !candidate.Contains(tr) {
			return fmt.Errorf("nested ride would fall outside new window: %w", apperrors.ErrOutOfBounds)
		}
	}
	if err := rideRows.Err(); err != nil {
		return fmt.Errorf("error after iterating nested rides: %w", err)
	}

	query := `
		UPDATE rentals
		SET start_time = $1, end_time = $2, total_price = $3, status = $4, updated_at = NOW()
		WHERE id = $5`
	result, err := tx.ExecContext(ctx, query,
		rental.StartTime, rental.EndTime, rental.TotalPrice, rental.Status, rental.ID,
	)
	if err != nil {
		return fmt.Errorf("error updating rental: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return apperrors.ErrNotFound
	}
	return tx.Commit()
}

func (r *rentalRepository) Delete(ctx context.Context, id int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting delete transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM ride_participants
		WHERE ride_id IN (SELECT id FROM rides WHERE rental_id = $1)`, id); err != nil {
		return fmt.Errorf("error cascading participants: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM rides WHERE rental_id = $1`, id); err != nil {
		return fmt.Errorf("error cascading rides: %w", err)
	}
	result, err := tx.ExecContext(ctx, `DELETE FROM rentals WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting rental: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return apperrors.ErrNotFound
	}
	return tx.Commit()
}

func (r *rentalRepository) ListAll(ctx context.Context) ([]db.Rental, error) {
	return r.list(ctx, `SELECT `+rentalColumns+` FROM rentals ORDER BY start_time`)
}

func (r *rentalRepository) ListByRenter(ctx context.Context, renterID int) ([]db.Rental, error) {
	return r.list(ctx, `SELECT `+rentalColumns+` FROM rentals WHERE renter_id = $1 ORDER BY start_time`, renterID)
}

func (r *rentalRepository) ListByVehicleOwner(ctx context.Context, ownerID int) ([]db.Rental, error) {
	return r.list(ctx, `
		SELECT r.id, r.code, r.vehicle_id, r.renter_id, r.start_time, r.end_time, r.total_price, r.status, r.created_at, r.updated_at
		FROM rentals r
		JOIN vehicles v ON r.vehicle_id = v.id
		WHERE v.owner_id = $1
		ORDER BY r.start_time`, ownerID)
}

func (r *rentalRepository) list(ctx context.Context, query string, args ...interface{}) ([]db.Rental, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying rentals: %w", err)
	}
	defer rows.Close()

	var rentals []db.Rental
	for rows.Next() {
		var rental db.Rental
		if err := scanRental(rows, &rental); err != nil {
			return nil, fmt.Errorf("error scanning rental: %w", err)
		}
		rentals = append(rentals, rental)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating rentals: %w", err)
	}
	return rentals, nil
}
