package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"carshare/internal/apperrors"
	"carshare/internal/db"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *db.Review) error
	GetByID(ctx context.Context, id int) (*db.Review, error)
	// Update writes rating and category together so the stored category can
	// never drift from the rating.
	Update(ctx context.Context, review *db.Review) error
	Delete(ctx context.Context, id int) error
	ListByTarget(ctx context.Context, reviewType string, targetID int) ([]db.Review, error)
}

type reviewRepository struct {
	db *sql.DB
}

func NewReviewRepository(database *sql.DB) ReviewRepository {
	return &reviewRepository{db: database}
}

const reviewColumns = `id, type, author_id, vehicle_id, ride_id, renter_id, rating, rating_category, comment, created_at, updated_at`

func scanReview(row interface{ Scan(...interface{}) error }, review *db.Review) error {
	var comment sql.NullString
	err := row.Scan(
		&review.ID, &review.Type, &review.AuthorID, &review.VehicleID,
		&review.RideID, &review.RenterID, &review.Rating, &review.RatingCategory,
		&comment, &review.CreatedAt, &review.UpdatedAt,
	)
	review.Comment = comment.String
	return err
}

func (r *reviewRepository) Create(ctx context.Context, review *db.Review) error {
	query := `
		INSERT INTO reviews (type, author_id, vehicle_id, ride_id, renter_id, rating, rating_category, comment, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		RETURNING id, created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query,
		review.Type, review.AuthorID, review.VehicleID, review.RideID,
		review.RenterID, review.Rating, review.RatingCategory, review.Comment,
	).Scan(&review.ID, &review.CreatedAt, &review.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error inserting review: %w", err)
	}
	return nil
}

func (r *reviewRepository) GetByID(ctx context.Context, id int) (*db.Review, error) {
	var review db.Review
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE id = $1`
	err := scanReview(r.db.QueryRowContext(ctx, query, id), &review)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("error querying review: %w", err)
	}
	return &review, nil
}

func (r *reviewRepository) Update(ctx context.Context, review *db.Review) error {
	query := `
		UPDATE reviews
		SET rating = $1, rating_category = $2, comment = $3, updated_at = NOW()
		WHERE id = $4`
	result, err := r.db.ExecContext(ctx, query,
		review.Rating, review.RatingCategory, review.Comment, review.ID,
	)
	if err != nil {
		return fmt.Errorf("error updating review: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *reviewRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting review: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *reviewRepository) ListByTarget(ctx context.Context, reviewType string, targetID int) ([]db.Review, error) {
	var column string
	switch reviewType {
	case db.ReviewTypeVehicle:
		column = "vehicle_id"
	case db.ReviewTypeRide:
		column = "ride_id"
	case db.ReviewTypeRenter:
		column = "renter_id"
	default:
		return nil, apperrors.ErrInvalidInput
	}

	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE type = $1 AND ` + column + ` = $2 ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, reviewType, targetID)
	if err != nil {
		return nil, fmt.Errorf("error querying reviews: %w", err)
	}
	defer rows.Close()

	var reviews []db.Review
	for rows.Next() {
		var review db.Review
		if err := scanReview(rows, &review); err != nil {
			return nil, fmt.Errorf("error scanning review: %w", err)
		}
		reviews = append(reviews, review)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating reviews: %w", err)
	}
	return reviews, nil
}
