package service

import (
	"context"
	"fmt"

	"carshare/internal/apperrors"
	"carshare/internal/booking"
	"carshare/internal/db"
	"carshare/internal/entities"
	"carshare/internal/repository"
)

type VehicleService struct {
	vehicles repository.VehicleRepository
}

func NewVehicleService(vehicles repository.VehicleRepository) *VehicleService {
	return &VehicleService{vehicles: vehicles}
}

func (s *VehicleService) Create(ctx context.Context, actor booking.Actor, req entities.VehicleRequest) (*db.Vehicle, error) {
	if !booking.Allowed(actor.Role, booking.OpVehicleCreate, true) {
		return nil, apperrors.ErrForbidden
	}
	if req.Brand == "" || req.Model == "" || req.LicensePlate == "" || req.Seats < 1 {
		return nil, fmt.Errorf("brand, model, license plate and seats are required: %w", apperrors.ErrInvalidInput)
	}

	vehicle := &db.Vehicle{
		OwnerID:      actor.ID,
		Brand:        req.Brand,
		Model:        req.Model,
		LicensePlate: req.LicensePlate,
		Seats:        req.Seats,
		Luggage:      req.Luggage,
		Available:    req.Available,
	}
	if err := s.vehicles.Create(ctx, vehicle); err != nil {
		return nil, err
	}
	return vehicle, nil
}

func (s *VehicleService) Get(ctx context.Context, actor booking.Actor, vehicleID int) (*db.Vehicle, error) {
	vehicle, err := s.vehicles.GetByID(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	switch {
	case actor.Role == booking.RoleAdmin:
	case vehicle.OwnerID == actor.ID:
	case actor.Role == booking.RoleRenter && vehicle.Available:
	default:
		return nil, apperrors.ErrForbidden
	}
	return vehicle, nil
}

func (s *VehicleService) Update(ctx context.Context, actor booking.Actor, vehicleID int, req entities.VehicleRequest) (*db.Vehicle, error) {
	vehicle, err := s.vehicles.GetByID(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	if !booking.Allowed(actor.Role, booking.OpVehicleUpdate, vehicle.OwnerID == actor.ID) {
		return nil, apperrors.ErrForbidden
	}

	vehicle.Brand = req.Brand
	vehicle.Model = req.Model
	vehicle.LicensePlate = req.LicensePlate
	vehicle.Seats = req.Seats
	vehicle.Luggage = req.Luggage
	vehicle.Available = req.Available
	if err := s.vehicles.Update(ctx, vehicle); err != nil {
		return nil, err
	}
	return vehicle, nil
}

func (s *VehicleService) Delete(ctx context.Context, actor booking.Actor, vehicleID int) error {
	vehicle, err := s.vehicles.GetByID(ctx, vehicleID)
	if err != nil {
		return err
	}
	if !booking.Allowed(actor.Role, booking.OpVehicleDelete, vehicle.OwnerID == actor.ID) {
		return apperrors.ErrForbidden
	}
	return s.vehicles.Delete(ctx, vehicleID)
}

// ListFor scopes the vehicle listing by role: admins see everything, owners
// their fleet, renters whatever is open for booking.
func (s *VehicleService) ListFor(ctx context.Context, actor booking.Actor) ([]db.Vehicle, error) {
	if !booking.Allowed(actor.Role, booking.OpVehicleList, true) {
		return nil, apperrors.ErrForbidden
	}
	switch actor.Role {
	case booking.RoleAdmin:
		return s.vehicles.ListAll(ctx)
	case booking.RoleOwner:
		return s.vehicles.ListByOwner(ctx, actor.ID)
	default:
		return s.vehicles.ListAvailable(ctx)
	}
}
