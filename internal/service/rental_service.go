package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"carshare/internal/apperrors"
	"carshare/internal/booking"
	"carshare/internal/db"
	"carshare/internal/entities"
	"carshare/internal/repository"
)

// RentalService is the ledger of vehicle bookings. Every mutation goes
// through the access policy and the interval conflict check before any row
// changes.
type RentalService struct {
	rentals  repository.RentalRepository
	vehicles repository.VehicleRepository
}

func NewRentalService(rentals repository.RentalRepository, vehicles repository.VehicleRepository) *RentalService {
	return &RentalService{rentals: rentals, vehicles: vehicles}
}

func (s *RentalService) Create(ctx context.Context, actor booking.Actor, req entities.RentalRequest) (*db.Rental, error) {
	if !booking.Allowed(actor.Role, booking.OpRentalCreate, true) {
		return nil, apperrors.ErrForbidden
	}
	if _, err := booking.NewTimeRange(req.StartTime, req.EndTime); err != nil {
		return nil, err
	}

	vehicle, err := s.vehicles.GetByID(ctx, req.VehicleID)
	if err != nil {
		return nil, err
	}
	if !vehicle.Available {
		return nil, fmt.Errorf("vehicle %d is disabled by its owner: %w", vehicle.ID, apperrors.ErrConflict)
	}

	rental := &db.Rental{
		Code:       uuid.NewString(),
		VehicleID:  req.VehicleID,
		RenterID:   actor.ID,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		TotalPrice: req.TotalPrice,
		Status:     db.StatusActive,
	}
	if err := s.rentals.Create(ctx, rental); err != nil {
		return nil, err
	}
	zap.S().Infow("rental created", "rental_id", rental.ID, "vehicle_id", rental.VehicleID, "renter_id", rental.RenterID)
	return rental, nil
}

func (s *RentalService) Get(ctx context.Context, actor booking.Actor, rentalID int) (*db.Rental, error) {
	rental, err := s.rentals.GetByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	if actor.Role == booking.RoleAdmin || rental.RenterID == actor.ID {
		return rental, nil
	}
	if actor.Role == booking.RoleOwner {
		vehicle, err := s.vehicles.GetByID(ctx, rental.VehicleID)
		if err == nil && vehicle.OwnerID == actor.ID {
			return rental, nil
		}
	}
	return nil, apperrors.ErrForbidden
}

func (s *RentalService) Update(ctx context.Context, actor booking.Actor, rentalID int, req entities.RentalRequest) (*db.Rental, error) {
	rental, err := s.rentals.GetByID(ctx, rentalID)
	if err != nil {
		return nil, err
	}
	if !booking.Allowed(actor.Role, booking.OpRentalUpdate, rental.RenterID == actor.ID) {
		return nil, apperrors.ErrForbidden
	}
	if _, err := booking.NewTimeRange(req.StartTime, req.EndTime); err != nil {
		return nil, err
	}

	rental.StartTime = req.StartTime
	rental.EndTime = req.EndTime
	rental.TotalPrice = req.TotalPrice
	if err := s.rentals.Update(ctx, rental); err != nil {
		return nil, err
	}
	return rental, nil
}

// Delete removes the rental together with its rides and their participants:
// the nested rides belong to the same renter, so the whole subtree goes.
func (s *RentalService) Delete(ctx context.Context, actor booking.Actor, rentalID int) error {
	rental, err := s.rentals.GetByID(ctx, rentalID)
	if err != nil {
		return err
	}
	if !booking.Allowed(actor.Role, booking.OpRentalDelete, rental.RenterID == actor.ID) {
		return apperrors.ErrForbidden
	}
	if err := s.rentals.Delete(ctx, rentalID); err != nil {
		return err
	}
	zap.S().Infow("rental deleted", "rental_id", rentalID, "actor_id", actor.ID)
	return nil
}

// ListFor scopes rentals by role: admins see all, owners the bookings on
// their vehicles, renters their own.
func (s *RentalService) ListFor(ctx context.Context, actor booking.Actor) ([]db.Rental, error) {
	if !booking.Allowed(actor.Role, booking.OpRentalList, true) {
		return nil, apperrors.ErrForbidden
	}
	switch actor.Role {
	case booking.RoleAdmin:
		return s.rentals.ListAll(ctx)
	case booking.RoleOwner:
		return s.rentals.ListByVehicleOwner(ctx, actor.ID)
	default:
		return s.rentals.ListByRenter(ctx, actor.ID)
	}
}
