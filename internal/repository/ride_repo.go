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

type RideRepository interface {
	// Create verifies the ride window lies inside its parent rental and
	// inserts it, as one atomic unit under the rental's vehicle lock.
	// A containment check outside that lock could race a concurrent
	// rental shrink.
	Create(ctx context.Context, ride *db.Ride) error
	GetByID(ctx context.Context, id int) (*db.Ride, error)
	// Update re-runs the containment check under the vehicle lock,
	// enforces that the seat total never drops below the number of
	// participants already joined, and verifies the new window keeps
	// every participant's ride memberships pairwise disjoint.
	Update(ctx context.Context, ride *db.Ride) error
	// Delete cascade-deletes the ride's participants.
	Delete(ctx context.Context, id int) error
	// Join inserts a participant and decrements available_seats as one
	// atomic unit. Fails with ErrNoSeats on an exhausted pool and
	// ErrTimeConflict when the passenger already rides in an overlapping
	// window.
	Join(ctx context.Context, rideID, passengerID, passengersCount int) (*db.Ride, error)
	ListAll(ctx context.Context) ([]db.Ride, error)
	ListByRenter(ctx context.Context, renterID int) ([]db.Ride, error)
	ListAvailable(ctx context.Context) ([]db.Ride, error)
	Participants(ctx context.Context, rideID int) ([]db.RideParticipant, error)
}

type rideRepository struct {
	db *sql.DB
}

func NewRideRepository(database *sql.DB) RideRepository {
	return &rideRepository{db: database}
}

const rideColumns = `id, code, rental_id, renter_id, start_time, end_time, start_location, end_location, total_seats, available_seats, status, created_at, updated_at`

func scanRide(row interface{ Scan(...interface{}) error }, ride *db.Ride) error {
	return row.Scan(
		&ride.ID, &ride.Code, &ride.RentalID, &ride.RenterID, &ride.StartTime,
		&ride.EndTime, &ride.StartLocation, &ride.EndLocation, &ride.TotalSeats,
		&ride.AvailableSeats, &ride.Status, &ride.CreatedAt, &ride.UpdatedAt,
	)
}

// lockRentalVehicle takes the advisory lock on the rental's vehicle, the same
// lock the rental create/update paths hold. vehicle_id never changes after
// insert, so reading it before locking is safe.
func lockRentalVehicle(ctx context.Context, tx *sql.Tx, rentalID int) error {
	var vehicleID int
	err := tx.QueryRowContext(ctx, `SELECT vehicle_id FROM rentals WHERE id = $1`, rentalID).Scan(&vehicleID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("error querying rental vehicle: %w", err)
	}
	if _, err := tx.ExecContext(ctx, lockQuery, lockClassVehicle, vehicleID); err != nil {
		return fmt.Errorf("error taking vehicle lock: %w", err)
	}
	return nil
}

// rentalWindow reads the rental's [start, end) under the vehicle lock.
func rentalWindow(ctx context.Context, tx *sql.Tx, rentalID int) (booking.TimeRange, error) {
	var tr booking.TimeRange
	err := tx.QueryRowContext(ctx,
		`SELECT start_time, end_time FROM rentals WHERE id = $1`, rentalID,
	).Scan(&tr.Start, &tr.End)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return tr, apperrors.ErrNotFound
		}
		return tr, fmt.Errorf("error querying rental window: %w", err)
	}
	return tr, nil
}

func (r *rideRepository) Create(ctx context.Context, ride *db.Ride) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting create transaction: %w", err)
	}
	defer tx.Rollback()

	if err := lockRentalVehicle(ctx, tx, ride.RentalID); err != nil {
		return err
	}
	window, err := rentalWindow(ctx, tx, ride.RentalID)
	if err != nil {
		return err
	}
	if !window.Contains(booking.TimeRange{Start: ride.StartTime, End: ride.EndTime}) {
		return apperrors.ErrOutOfBounds
	}

	query := `
		INSERT INTO rides (code, rental_id, renter_id, start_time, end_time, start_location, end_location, total_seats, available_seats, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
		RETURNING id, created_at, updated_at`
	err = tx.QueryRowContext(ctx, query,
		ride.Code, ride.RentalID, ride.RenterID, ride.StartTime, ride.EndTime,
		ride.StartLocation, ride.EndLocation, ride.TotalSeats, ride.AvailableSeats, ride.Status,
	).Scan(&ride.ID, &ride.CreatedAt, &ride.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error inserting ride: %w", err)
	}
	return tx.Commit()
}

func (r *rideRepository) GetByID(ctx context.Context, id int) (*db.Ride, error) {
	var ride db.Ride
	query := `SELECT ` + rideColumns + ` FROM rides WHERE id = $1`
	err := scanRide(r.db.QueryRowContext(ctx, query, id), &ride)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("error querying ride: %w", err)
	}
	return &ride, nil
}

func (r *rideRepository) Update(ctx context.Context, ride *db.Ride) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting update transaction: %w", err)
	}
	defer tx.Rollback()

	if err := lockRentalVehicle(ctx, tx, ride.RentalID); err != nil {
		return err
	}
	window, err := rentalWindow(ctx, tx, ride.RentalID)
	if err != nil {
		return err
	}
	candidate := booking.TimeRange{Start: ride.StartTime, End: ride.EndTime}
	if !window.Contains(candidate) {
		return apperrors.ErrOutOfBounds
	}

	// Each join occupies one seat regardless of its head count, so the
	// participant count is the joined total.
	var joined int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM ride_participants WHERE ride_id = $1`,
		ride.ID,
	).Scan(&joined)
	if err != nil {
		return fmt.Errorf("error counting participants: %w", err)
	}
	if ride.TotalSeats < joined {
		return fmt.Errorf("%d participants already joined: %w", joined, apperrors.ErrConflict)
	}
	ride.AvailableSeats = ride.TotalSeats - joined

	// Moving the window may collide with the participants' other rides.
	if err := checkParticipantSchedules(ctx, tx, ride.ID, candidate); err != nil {
		return err
	}

	query := `
		UPDATE rides
		SET start_time = $1, end_time = $2, start_location = $3, end_location = $4,
		    total_seats = $5, available_seats = $6, status = $7, updated_at = NOW()
		WHERE id = $8`
	result, err := tx.ExecContext(ctx, query,
		ride.StartTime, ride.EndTime, ride.StartLocation, ride.EndLocation,
		ride.TotalSeats, ride.AvailableSeats, ride.Status, ride.ID,
	)
	if err != nil {
		return fmt.Errorf("error updating ride: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return apperrors.ErrNotFound
	}
	return tx.Commit()
}

func (r *rideRepository) Delete(ctx context.Context, id int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting delete transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM ride_participants WHERE ride_id = $1`, id); err != nil {
		return fmt.Errorf("error cascading participants: %w", err)
	}
	result, err := tx.ExecContext(ctx, `DELETE FROM rides WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting ride: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return apperrors.ErrNotFound
	}
	return tx.Commit()
}

func (r *rideRepository) Join(ctx context.Context, rideID, passengerID, passengersCount int) (*db.Ride, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("error starting join transaction: %w", err)
	}
	defer tx.Rollback()

	// Serialize joins per passenger so two of their own requests cannot
	// both pass the overlap check.
	if _, err := tx.ExecContext(ctx, lockQuery, lockClassPassenger, passengerID); err != nil {
		return nil, fmt.Errorf("error taking passenger lock: %w", err)
	}

	var ride db.Ride
	err = scanRide(tx.QueryRowContext(ctx, `SELECT `+rideColumns+` FROM rides WHERE id = $1`, rideID), &ride)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("error querying ride: %w", err)
	}

	joined, err := passengerRideRanges(ctx, tx, passengerID, 0)
	if err != nil {
		return nil, err
	}
	candidate := booking.TimeRange{Start: ride.StartTime, End: ride.EndTime}
	if booking.ConflictsAny(joined, candidate) {
		return nil, apperrors.ErrTimeConflict
	}

	// Compare-and-decrement: the WHERE clause is the seat check, so two
	// racing joins on the last seat resolve to one winner.
	result, err := tx.ExecContext(ctx, `
		UPDATE rides SET available_seats = available_seats - 1, updated_at = NOW()
		WHERE id = $1 AND available_seats > 0`, rideID)
	if err != nil {
		return nil, fmt.Errorf("error decrementing seats: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return nil, apperrors.ErrNoSeats
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO ride_participants (ride_id, passenger_id, passengers_count, created_at)
		VALUES ($1, $2, $3, NOW())`, rideID, passengerID, passengersCount); err != nil {
		return nil, fmt.Errorf("error inserting participant: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("error committing join: %w", err)
	}
	ride.AvailableSeats--
	return &ride, nil
}

// checkParticipantSchedules verifies that moving the ride to candidate keeps
// every participant's memberships pairwise disjoint. Takes the passenger locks
// in id order, the same locks Join holds.
func checkParticipantSchedules(ctx context.Context, tx *sql.Tx, rideID int, candidate booking.TimeRange) error {
	rows, err := tx.QueryContext(ctx,
		`SELECT passenger_id FROM ride_participants WHERE ride_id = $1 ORDER BY passenger_id`,
		rideID,
	)
	if err != nil {
		return fmt.Errorf("error querying participants: %w", err)
	}
	defer rows.Close()

	var passengerIDs []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return fmt.Errorf("error scanning participant: %w", err)
		}
		passengerIDs = append(passengerIDs, id)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("error after iterating participants: %w", err)
	}

	for _, passengerID := range passengerIDs {
		if _, err := tx.ExecContext(ctx, lockQuery, lockClassPassenger, passengerID); err != nil {
			return fmt.Errorf("error taking passenger lock: %w", err)
		}
		others, err := passengerRideRanges(ctx, tx, passengerID, rideID)
		if err != nil {
			return err
		}
		if booking.ConflictsAny(others, candidate) {
			return apperrors.ErrTimeConflict
		}
	}
	return nil
}

// passengerRideRanges loads the windows of every non-deleted ride the
// passenger already participates in, skipping excludeRideID when non-zero.
// Must run inside the transaction holding the passenger lock.
func passengerRideRanges(ctx context.Context, tx *sql.Tx, passengerID, excludeRideID int) ([]booking.TimeRange, error) {
	rows, err := tx.QueryContext(ctx, `
		SELECT r.start_time, r.end_time
		FROM rides r
		JOIN ride_participants rp ON rp.ride_id = r.id
		WHERE rp.passenger_id = $1 AND r.status IN ($2, $3) AND r.id <> $4`,
		passengerID, db.StatusPending, db.StatusActive, excludeRideID,
	)
	if err != nil {
		return nil, fmt.Errorf("error querying passenger rides: %w", err)
	}
	defer rows.Close()

	var ranges []booking.TimeRange
	for rows.Next() {
		var tr booking.TimeRange
		if err := rows.Scan(&tr.Start, &tr.End); err != nil {
			return nil, fmt.Errorf("error scanning passenger ride range: %w", err)
		}
		ranges = append(ranges, tr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating passenger rides: %w", err)
	}
	return ranges, nil
}

func (r *rideRepository) ListAll(ctx context.Context) ([]db.Ride, error) {
	return r.list(ctx, `SELECT `+rideColumns+` FROM rides ORDER BY start_time`)
}

func (r *rideRepository) ListByRenter(ctx context.Context, renterID int) ([]db.Ride, error) {
	return r.list(ctx, `SELECT `+rideColumns+` FROM rides WHERE renter_id = $1 ORDER BY start_time`, renterID)
}

func (r *rideRepository) ListAvailable(ctx context.Context) ([]db.Ride, error) {
	return r.list(ctx, `
		SELECT `+rideColumns+` FROM rides
		WHERE available_seats > 0 AND status IN ($1, $2)
		ORDER BY start_time`, db.StatusPending, db.StatusActive)
}

func (r *rideRepository) Participants(ctx context.Context, rideID int) ([]db.RideParticipant, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, ride_id, passenger_id, passengers_count, created_at
		FROM ride_participants WHERE ride_id = $1 ORDER BY id`, rideID)
	if err != nil {
		return nil, fmt.Errorf("error querying participants: %w", err)
	}
	defer rows.Close()

	var participants []db.RideParticipant
	for rows.Next() {
		var p db.RideParticipant
		if err := rows.Scan(&p.ID, &p.RideID, &p.PassengerID, &p.PassengersCount, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning participant: %w", err)
		}
		participants = append(participants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating participants: %w", err)
	}
	return participants, nil
}

func (r *rideRepository) list(ctx context.Context, query string, args ...interface{}) ([]db.Ride, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying rides: %w", err)
	}
	defer rows.Close()

	var rides []db.Ride
	for rows.Next() {
		var ride db.Ride
		if err := scanRide(rows, &ride); err != nil {
			return nil, fmt.Errorf("error scanning ride: %w", err)
		}
		rides = append(rides, ride)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating rides: %w", err)
	}
	return rides, nil
}
