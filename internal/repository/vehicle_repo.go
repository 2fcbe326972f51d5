package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"carshare/internal/apperrors"
	"carshare/internal/db"
)

type VehicleRepository interface {
	Create(ctx context.Context, vehicle *db.Vehicle) error
	GetByID(ctx context.Context, id int) (*db.Vehicle, error)
	Update(ctx context.Context, vehicle *db.Vehicle) error
	// Delete removes the vehicle unless non-deleted rentals still reference
	// it, in which case it fails with ErrConflict.
	Delete(ctx context.Context, id int) error
	ListByOwner(ctx context.Context, ownerID int) ([]db.Vehicle, error)
	ListAvailable(ctx context.Context) ([]db.Vehicle, error)
	ListAll(ctx context.Context) ([]db.Vehicle, error)
}

type vehicleRepository struct {
	db *sql.DB
}

func NewVehicleRepository(database *sql.DB) VehicleRepository {
	return &vehicleRepository{db: database}
}

const vehicleColumns = `id, owner_id, brand, model, license_plate, seats, luggage, available, created_at, updated_at`

func scanVehicle(row interface{ Scan(...interface{}) error }, v *db.Vehicle) error {
	return row.Scan(
		&v.ID, &v.OwnerID, &v.Brand, &v.Model, &v.LicensePlate,
		&v.Seats, &v.Luggage, &v.Available, &v.CreatedAt, &v.UpdatedAt,
	)
}

func (r *vehicleRepository) Create(ctx context.Context, vehicle *db.Vehicle) error {
	query := `
		INSERT INTO vehicles (owner_id, brand, model, license_plate, seats, luggage, available, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING id, created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query,
		vehicle.OwnerID, vehicle.Brand, vehicle.Model, vehicle.LicensePlate,
		vehicle.Seats, vehicle.Luggage, vehicle.Available,
	).Scan(&vehicle.ID, &vehicle.CreatedAt, &vehicle.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error inserting vehicle: %w", err)
	}
	return nil
}

func (r *vehicleRepository) GetByID(ctx context.Context, id int) (*db.Vehicle, error) {
	var v db.Vehicle
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE id = $1`
	err := scanVehicle(r.db.QueryRowContext(ctx, query, id), &v)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("error querying vehicle: %w", err)
	}
	return &v, nil
}

func (r *vehicleRepository) Update(ctx context.Context, vehicle *db.Vehicle) error {
	query := `
		UPDATE vehicles
		SET brand = $1, model = $2, license_plate = $3, seats = $4, luggage = $5, available = $6, updated_at = NOW()
		WHERE id = $7`
	result, err := r.db.ExecContext(ctx, query,
		vehicle.Brand, vehicle.Model, vehicle.LicensePlate,
		vehicle.Seats, vehicle.Luggage, vehicle.Available, vehicle.ID,
	)
	if err != nil {
		return fmt.Errorf("error updating vehicle: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *vehicleRepository) Delete(ctx context.Context, id int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting delete transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, lockQuery, lockClassVehicle, id); err != nil {
		return fmt.Errorf("error taking vehicle lock: %w", err)
	}

	var active int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM rentals WHERE vehicle_id = $1 AND status IN ($2, $3)`,
		id, db.StatusPending, db.StatusActive,
	).Scan(&active)
	if err != nil {
		return fmt.Errorf("error counting rentals for vehicle: %w", err)
	}
	if active > 0 {
		return fmt.Errorf("vehicle has %d booked rentals: %w", active, apperrors.ErrConflict)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM vehicles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting vehicle: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return apperrors.ErrNotFound
	}
	return tx.Commit()
}

func (r *vehicleRepository) ListByOwner(ctx context.Context, ownerID int) ([]db.Vehicle, error) {
	return r.list(ctx, `SELECT `+vehicleColumns+` FROM vehicles WHERE owner_id = $1 ORDER BY id`, ownerID)
}

func (r *vehicleRepository) ListAvailable(ctx context.Context) ([]db.Vehicle, error) {
	return r.list(ctx, `SELECT `+vehicleColumns+` FROM vehicles WHERE available = TRUE ORDER BY id`)
}

func (r *vehicleRepository) ListAll(ctx context.Context) ([]db.Vehicle, error) {
	return r.list(ctx, `SELECT `+vehicleColumns+` FROM vehicles ORDER BY id`)
}

func (r *vehicleRepository) list(ctx context.Context, query string, args ...interface{}) ([]db.Vehicle, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying vehicles: %w", err)
	}
	defer rows.Close()

	var vehicles []db.Vehicle
	for rows.Next() {
		var v db.Vehicle
		if err := scanVehicle(rows, &v); err != nil {
			return nil, fmt.Errorf("error scanning vehicle: %w", err)
		}
		vehicles = append(vehicles, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating vehicles: %w", err)
	}
	return vehicles, nil
}
