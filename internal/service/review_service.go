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

type ReviewService struct {
	reviews  repository.ReviewRepository
	vehicles repository.VehicleRepository
	rides    repository.RideRepository
	users    repository.UserRepository
}

func NewReviewService(
	reviews repository.ReviewRepository,
	vehicles repository.VehicleRepository,
	rides repository.RideRepository,
	users repository.UserRepository,
) *ReviewService {
	return &ReviewService{reviews: reviews, vehicles: vehicles, rides: rides, users: users}
}

func (s *ReviewService) Create(ctx context.Context, actor booking.Actor, req entities.ReviewRequest) (*db.Review, error) {
	if !booking.Allowed(actor.Role, booking.OpReviewCreate, true) {
		return nil, apperrors.ErrForbidden
	}
	category, err := booking.Categorize(req.Rating)
	if err != nil {
		return nil, fmt.Errorf("rating must be between %d and %d: %w", booking.RatingMin, booking.RatingMax, err)
	}

	review := &db.Review{
		Type:           req.Type,
		AuthorID:       actor.ID,
		Rating:         req.Rating,
		RatingCategory: string(category),
		Comment:        req.Comment,
	}

	// The target is a tagged union: exactly one reference set, and authors
	// may not review what they own.
	targetID := req.TargetID
	switch req.Type {
	case db.ReviewTypeVehicle:
		vehicle, err := s.vehicles.GetByID(ctx, targetID)
		if err != nil {
			return nil, err
		}
		if vehicle.OwnerID == actor.ID {
			return nil, fmt.Errorf("cannot review own vehicle: %w", apperrors.ErrForbidden)
		}
		review.VehicleID = &targetID
	case db.ReviewTypeRide:
		ride, err := s.rides.GetByID(ctx, targetID)
		if err != nil {
			return nil, err
		}
		if ride.RenterID == actor.ID {
			return nil, fmt.Errorf("cannot review own ride: %w", apperrors.ErrForbidden)
		}
		review.RideID = &targetID
	case db.ReviewTypeRenter:
		if targetID == actor.ID {
			return nil, fmt.Errorf("cannot review yourself: %w", apperrors.ErrForbidden)
		}
		if _, err := s.users.GetByID(ctx, targetID); err != nil {
			return nil, err
		}
		review.RenterID = &targetID
	default:
		return nil, fmt.Errorf("unknown review type %q: %w", req.Type, apperrors.ErrInvalidInput)
	}

	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

// Update recomputes the category whenever the rating changes, even on a
// partial update touching nothing else.
func (s *ReviewService) Update(ctx context.Context, actor booking.Actor, reviewID int, req entities.ReviewUpdateRequest) (*db.Review, error) {
	review, err := s.reviews.GetByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if !booking.Allowed(actor.Role, booking.OpReviewUpdate, review.AuthorID == actor.ID) {
		return nil, apperrors.ErrForbidden
	}

	if req.Rating != nil {
		category, err := booking.Categorize(*req.Rating)
		if err != nil {
			return nil, fmt.Errorf("rating must be between %d and %d: %w", booking.RatingMin, booking.RatingMax, err)
		}
		review.Rating = *req.Rating
		review.RatingCategory = string(category)
	}
	if req.Comment != nil {
		review.Comment = *req.Comment
	}
	if err := s.reviews.Update(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

func (s *ReviewService) Delete(ctx context.Context, actor booking.Actor, reviewID int) error {
	review, err := s.reviews.GetByID(ctx, reviewID)
	if err != nil {
		return err
	}
	if !booking.Allowed(actor.Role, booking.OpReviewDelete, review.AuthorID == actor.ID) {
		return apperrors.ErrForbidden
	}
	return s.reviews.Delete(ctx, reviewID)
}

func (s *ReviewService) ListByTarget(ctx context.Context, reviewType string, targetID int) ([]db.Review, error) {
	return s.reviews.ListByTarget(ctx, reviewType, targetID)
}
