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

// RideService allocates seats on shared trips nested inside rentals.
type RideService struct {
	rides   repository.RideRepository
	rentals repository.RentalRepository
}

func NewRideService(rides repository.RideRepository, rentals repository.RentalRepository) *RideService {
	return &RideService{rides: rides, rentals: rentals}
}

func (s *RideService) Create(ctx context.Context, actor booking.Actor, req entities.RideRequest) (*db.Ride, error) {
	if !booking.Allowed(actor.Role, booking.OpRideCreate, true) {
		return nil, apperrors.ErrForbidden
	}
	if _, err := booking.NewTimeRange(req.StartTime, req.EndTime); err != nil {
		return nil, err
	}
	if req.Seats < 1 {
		return nil, fmt.Errorf("a ride needs at least one seat: %w", apperrors.ErrInvalidInput)
	}
	if req.StartLocation == "" || req.EndLocation == "" {
		return nil, fmt.Errorf("start and end locations are required: %w", apperrors.ErrInvalidInput)
	}

	rental, err := s.rentals.GetByID(ctx, req.RentalID)
	if err != nil {
		return nil, err
	}
	// A ride is always offered by the renter holding the rental; nobody
	// offers seats in someone else's booking. Containment in the rental
	// window is enforced by the repository under the vehicle lock.
	if rental.RenterID != actor.ID {
		return nil, apperrors.ErrForbidden
	}

	ride := &db.Ride{
		Code:           uuid.NewString(),
		RentalID:       rental.ID,
		RenterID:       actor.ID,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		StartLocation:  req.StartLocation,
		EndLocation:    req.EndLocation,
		TotalSeats:     req.Seats,
		AvailableSeats: req.Seats,
		Status:         db.StatusActive,
	}
	if err := s.rides.Create(ctx, ride); err != nil {
		return nil, err
	}
	zap.S().Infow("ride created", "ride_id", ride.ID, "rental_id", ride.RentalID, "seats", ride.TotalSeats)
	return ride, nil
}

func (s *RideService) Get(ctx context.Context, actor booking.Actor, rideID int) (*db.Ride, error) {
	ride, err := s.rides.GetByID(ctx, rideID)
	if err != nil {
		return nil, err
	}
	switch {
	case actor.Role == booking.RoleAdmin:
	case actor.Role == booking.RolePassenger:
	case actor.Role == booking.RoleRenter && ride.RenterID == actor.ID:
	default:
		return nil, apperrors.ErrForbidden
	}
	return ride, nil
}

// Join seats the passenger on the ride. The repository runs the seat
// decrement and the passenger-overlap check atomically; this layer only
// gates the role and normalizes the head count.
func (s *RideService) Join(ctx context.Context, actor booking.Actor, rideID, passengersCount int) (*db.Ride, error) {
	if !booking.Allowed(actor.Role, booking.OpRideJoin, true) {
		return nil, apperrors.ErrForbidden
	}
	if passengersCount < 1 {
		passengersCount = 1
	}
	ride, err := s.rides.Join(ctx, rideID, actor.ID, passengersCount)
	if err != nil {
		return nil, err
	}
	zap.S().Infow("ride joined", "ride_id", rideID, "passenger_id", actor.ID, "seats_left", ride.AvailableSeats)
	return ride, nil
}

func (s *RideService) Update(ctx context.Context, actor booking.Actor, rideID int, req entities.RideRequest) (*db.Ride, error) {
	ride, err := s.rides.GetByID(ctx, rideID)
	if err != nil {
		return nil, err
	}
	if !booking.Allowed(actor.Role, booking.OpRideUpdate, ride.RenterID == actor.ID) {
		return nil, apperrors.ErrForbidden
	}
	if _, err := booking.NewTimeRange(req.StartTime, req.EndTime); err != nil {
		return nil, err
	}
	if req.Seats < 1 {
		return nil, fmt.Errorf("a ride needs at least one seat: %w", apperrors.ErrInvalidInput)
	}

	ride.StartTime = req.StartTime
	ride.EndTime = req.EndTime
	if req.StartLocation != "" {
		ride.StartLocation = req.StartLocation
	}
	if req.EndLocation != "" {
		ride.EndLocation = req.EndLocation
	}
	ride.TotalSeats = req.Seats
	if err := s.rides.Update(ctx, ride); err != nil {
		return nil, err
	}
	return ride, nil
}

func (s *RideService) Delete(ctx context.Context, actor booking.Actor, rideID int) error {
	ride, err := s.rides.GetByID(ctx, rideID)
	if err != nil {
		return err
	}
	if !booking.Allowed(actor.Role, booking.OpRideDelete, ride.RenterID == actor.ID) {
		return apperrors.ErrForbidden
	}
	return s.rides.Delete(ctx, rideID)
}

// ListFor scopes rides by role: admins see all, renters their own offers,
// passengers whatever still has open seats.
func (s *RideService) ListFor(ctx context.Context, actor booking.Actor) ([]db.Ride, error) {
	if !booking.Allowed(actor.Role, booking.OpRideList, true) {
		return nil, apperrors.ErrForbidden
	}
	switch actor.Role {
	case booking.RoleAdmin:
		return s.rides.ListAll(ctx)
	case booking.RoleRenter:
		return s.rides.ListByRenter(ctx, actor.ID)
	default:
		return s.rides.ListAvailable(ctx)
	}
}
