package service

import (
	"context"
	"fmt"
	"sync"

	"carshare/internal/apperrors"
	"carshare/internal/booking"
	"carshare/internal/db"
)

// memStore is an in-memory stand-in for the Postgres repositories. It honors
// the same contracts: conflict checks and seat decrements happen under one
// lock, exactly like the advisory-lock transactions in the real thing.
type memStore struct {
	mu           sync.Mutex
	seq          int
	users        map[int]*db.User
	vehicles     map[int]*db.Vehicle
	rentals      map[int]*db.Rental
	rides        map[int]*db.Ride
	participants map[int]*db.RideParticipant
}

func newMemStore() *memStore {
	return &memStore{
		users:        map[int]*db.User{},
		vehicles:     map[int]*db.Vehicle{},
		rentals:      map[int]*db.Rental{},
		rides:        map[int]*db.Ride{},
		participants: map[int]*db.RideParticipant{},
	}
}

func (m *memStore) nextID() int {
	m.seq++
	return m.seq
}

func booked(status string) bool {
	return status == db.StatusPending || status == db.StatusActive
}

// --- users ---

type memUserRepo struct{ s *memStore }

func (r *memUserRepo) Create(_ context.Context, user *db.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	user.ID = r.s.nextID()
	cp := *user
	r.s.users[user.ID] = &cp
	return nil
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*db.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *memUserRepo) GetByID(_ context.Context, id int) (*db.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) Update(_ context.Context, user *db.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[user.ID]; !ok {
		return apperrors.ErrNotFound
	}
	cp := *user
	r.s.users[user.ID] = &cp
	return nil
}

func (r *memUserRepo) Delete(_ context.Context, id int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(r.s.users, id)
	return nil
}

// --- vehicles ---

type memVehicleRepo struct{ s *memStore }

func (r *memVehicleRepo) Create(_ context.Context, vehicle *db.Vehicle) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	vehicle.ID = r.s.nextID()
	cp := *vehicle
	r.s.vehicles[vehicle.ID] = &cp
	return nil
}

func (r *memVehicleRepo) GetByID(_ context.Context, id int) (*db.Vehicle, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	v, ok := r.s.vehicles[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *v
	return &cp, nil
}

func (r *memVehicleRepo) Update(_ context.Context, vehicle *db.Vehicle) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.vehicles[vehicle.ID]; !ok {
		return apperrors.ErrNotFound
	}
	cp := *vehicle
	r.s.vehicles[vehicle.ID] = &cp
	return nil
}

func (r *memVehicleRepo) Delete(_ context.Context, id int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.vehicles[id]; !ok {
		return apperrors.ErrNotFound
	}
	for _, rental := range r.s.rentals {
		if rental.VehicleID == id && booked(rental.Status) {
			return fmt.Errorf("vehicle has booked rentals: %w", apperrors.ErrConflict)
		}
	}
	delete(r.s.vehicles, id)
	return nil
}

func (r *memVehicleRepo) ListByOwner(_ context.Context, ownerID int) ([]db.Vehicle, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []db.Vehicle
	for _, v := range r.s.vehicles {
		if v.OwnerID == ownerID {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (r *memVehicleRepo) ListAvailable(_ context.Context) ([]db.Vehicle, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []db.Vehicle
	for _, v := range r.s.vehicles {
		if v.Available {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (r *memVehicleRepo) ListAll(_ context.Context) ([]db.Vehicle, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []db.Vehicle
	for _, v := range r.s.vehicles {
		out = append(out, *v)
	}
	return out, nil
}

// --- rentals ---

type memRentalRepo struct{ s *memStore }

func (r *memRentalRepo) Create(_ context.Context, rental *db.Rental) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	candidate := booking.TimeRange{Start: rental.StartTime, End: rental.EndTime}
	for _, other := range r.s.rentals {
		if other.VehicleID == rental.VehicleID && booked(other.Status) &&
			booking.Overlaps(booking.TimeRange{Start: other.StartTime, End: other.EndTime}, candidate) {
			return apperrors.ErrConflict
		}
	}
	rental.ID = r.s.nextID()
	cp := *rental
	r.s.rentals[rental.ID] = &cp
	return nil
}

func (r *memRentalRepo) GetByID(_ context.Context, id int) (*db.Rental, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rental, ok := r.s.rentals[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *rental
	return &cp, nil
}

func (r *memRentalRepo) Update(_ context.Context, rental *db.Rental) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.rentals[rental.ID]; !ok {
		return apperrors.ErrNotFound
	}
	candidate := booking.TimeRange{Start: rental.StartTime, End: rental.EndTime}
	for _, other := range r.s.rentals {
		if other.ID != rental.ID && other.VehicleID == rental.VehicleID && booked(other.Status) &&
			booking.Overlaps(booking.TimeRange{Start: other.StartTime, End: other.EndTime}, candidate) {
			return apperrors.ErrConflict
		}
	}
	for _, ride := range r.s.rides {
		if ride.RentalID == rental.ID && booked(ride.Status) &&
			!candidate.Contains(booking.TimeRange{Start: ride.StartTime, End: ride.EndTime}) {
			return apperrors.ErrOutOfBounds
		}
	}
	cp := *rental
	r.s.rentals[rental.ID] = &cp
	return nil
}

func (r *memRentalRepo) Delete(_ context.Context, id int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.rentals[id]; !ok {
		return apperrors.ErrNotFound
	}
	for rideID, ride := range r.s.rides {
		if ride.RentalID != id {
			continue
		}
		for pid, p := range r.s.participants {
			if p.RideID == rideID {
				delete(r.s.participants, pid)
			}
		}
		delete(r.s.rides, rideID)
	}
	delete(r.s.rentals, id)
	return nil
}

func (r *memRentalRepo) ListAll(_ context.Context) ([]db.Rental, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []db.Rental
	for _, rental := range r.s.rentals {
		out = append(out, *rental)
	}
	return out, nil
}

func (r *memRentalRepo) ListByRenter(_ context.Context, renterID int) ([]db.Rental, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []db.Rental
	for _, rental := range r.s.rentals {
		if rental.RenterID == renterID {
			out = append(out, *rental)
		}
	}
	return out, nil
}

func (r *memRentalRepo) ListByVehicleOwner(_ context.Context, ownerID int) ([]db.Rental, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []db.Rental
	for _, rental := range r.s.rentals {
		if v, ok := r.s.vehicles[rental.VehicleID]; ok && v.OwnerID == ownerID {
			out = append(out, *rental)
		}
	}
	return out, nil
}

// --- rides ---

type memRideRepo struct{ s *memStore }

func (r *memRideRepo) Create(_ context.Context, ride *db.Ride) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rental, ok := r.s.rentals[ride.RentalID]
	if !ok {
		return apperrors.ErrNotFound
	}
	window := booking.TimeRange{Start: rental.StartTime, End: rental.EndTime}
	if !window.Contains(booking.TimeRange{Start: ride.StartTime, End: ride.EndTime}) {
		return apperrors.ErrOutOfBounds
	}
	ride.ID = r.s.nextID()
	cp := *ride
	r.s.rides[ride.ID] = &cp
	return nil
}

func (r *memRideRepo) GetByID(_ context.Context, id int) (*db.Ride, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ride, ok := r.s.rides[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *ride
	return &cp, nil
}

func (r *memRideRepo) Update(_ context.Context, ride *db.Ride) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.rides[ride.ID]; !ok {
		return apperrors.ErrNotFound
	}
	rental, ok := r.s.rentals[ride.RentalID]
	if !ok {
		return apperrors.ErrNotFound
	}
	candidate := booking.TimeRange{Start: ride.StartTime, End: ride.EndTime}
	window := booking.TimeRange{Start: rental.StartTime, End: rental.EndTime}
	if !window.Contains(candidate) {
		return apperrors.ErrOutOfBounds
	}
	// One seat per join, whatever the head count says.
	joined := 0
	for _, p := range r.s.participants {
		if p.RideID == ride.ID {
			joined++
		}
	}
	if ride.TotalSeats < joined {
		return fmt.Errorf("%d participants already joined: %w", joined, apperrors.ErrConflict)
	}
	ride.AvailableSeats = ride.TotalSeats - joined
	// The moved window must keep every participant's memberships disjoint.
	for _, p := range r.s.participants {
		if p.RideID != ride.ID {
			continue
		}
		for _, q := range r.s.participants {
			if q.PassengerID != p.PassengerID || q.RideID == ride.ID {
				continue
			}
			other, ok := r.s.rides[q.RideID]
			if !ok || !booked(other.Status) {
				continue
			}
			if booking.Overlaps(booking.TimeRange{Start: other.StartTime, End: other.EndTime}, candidate) {
				return apperrors.ErrTimeConflict
			}
		}
	}
	cp := *ride
	r.s.rides[ride.ID] = &cp
	return nil
}

func (r *memRideRepo) Delete(_ context.Context, id int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.rides[id]; !ok {
		return apperrors.ErrNotFound
	}
	for pid, p := range r.s.participants {
		if p.RideID == id {
			delete(r.s.participants, pid)
		}
	}
	delete(r.s.rides, id)
	return nil
}

func (r *memRideRepo) Join(_ context.Context, rideID, passengerID, passengersCount int) (*db.Ride, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	ride, ok := r.s.rides[rideID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	candidate := booking.TimeRange{Start: ride.StartTime, End: ride.EndTime}
	for _, p := range r.s.participants {
		if p.PassengerID != passengerID {
			continue
		}
		other, ok := r.s.rides[p.RideID]
		if !ok || !booked(other.Status) {
			continue
		}
		if booking.Overlaps(booking.TimeRange{Start: other.StartTime, End: other.EndTime}, candidate) {
			return nil, apperrors.ErrTimeConflict
		}
	}
	if ride.AvailableSeats <= 0 {
		return nil, apperrors.ErrNoSeats
	}
	ride.AvailableSeats--
	id := r.s.nextID()
	r.s.participants[id] = &db.RideParticipant{
		ID:              id,
		RideID:          rideID,
		PassengerID:     passengerID,
		PassengersCount: passengersCount,
	}
	cp := *ride
	return &cp, nil
}

func (r *memRideRepo) ListAll(_ context.Context) ([]db.Ride, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []db.Ride
	for _, ride := range r.s.rides {
		out = append(out, *ride)
	}
	return out, nil
}

func (r *memRideRepo) ListByRenter(_ context.Context, renterID int) ([]db.Ride, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []db.Ride
	for _, ride := range r.s.rides {
		if ride.RenterID == renterID {
			out = append(out, *ride)
		}
	}
	return out, nil
}

func (r *memRideRepo) ListAvailable(_ context.Context) ([]db.Ride, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []db.Ride
	for _, ride := range r.s.rides {
		if ride.AvailableSeats > 0 && booked(ride.Status) {
			out = append(out, *ride)
		}
	}
	return out, nil
}

func (r *memRideRepo) Participants(_ context.Context, rideID int) ([]db.RideParticipant, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []db.RideParticipant
	for _, p := range r.s.participants {
		if p.RideID == rideID {
			out = append(out, *p)
		}
	}
	return out, nil
}

// --- reviews ---

type memReviewRepo struct {
	s       *memStore
	reviews map[int]*db.Review
}

func newMemReviewRepo(s *memStore) *memReviewRepo {
	return &memReviewRepo{s: s, reviews: map[int]*db.Review{}}
}

func (r *memReviewRepo) Create(_ context.Context, review *db.Review) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	review.ID = r.s.nextID()
	cp := *review
	r.reviews[review.ID] = &cp
	return nil
}

func (r *memReviewRepo) GetByID(_ context.Context, id int) (*db.Review, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	review, ok := r.reviews[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *review
	return &cp, nil
}

func (r *memReviewRepo) Update(_ context.Context, review *db.Review) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.reviews[review.ID]; !ok {
		return apperrors.ErrNotFound
	}
	cp := *review
	r.reviews[review.ID] = &cp
	return nil
}

func (r *memReviewRepo) Delete(_ context.Context, id int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.reviews[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(r.reviews, id)
	return nil
}

func (r *memReviewRepo) ListByTarget(_ context.Context, reviewType string, targetID int) ([]db.Review, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []db.Review
	for _, review := range r.reviews {
		if review.Type != reviewType {
			continue
		}
		switch reviewType {
		case db.ReviewTypeVehicle:
			if review.VehicleID != nil && *review.VehicleID == targetID {
				out = append(out, *review)
			}
		case db.ReviewTypeRide:
			if review.RideID != nil && *review.RideID == targetID {
				out = append(out, *review)
			}
		case db.ReviewTypeRenter:
			if review.RenterID != nil && *review.RenterID == targetID {
				out = append(out, *review)
			}
		}
	}
	return out, nil
}
