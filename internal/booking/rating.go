package booking

import "carshare/internal/apperrors"

// Category is the coarse label derived from a numeric review rating.
type Category string

const (
	CategoryExcellent Category = "excellent"
	CategoryVeryGood  Category = "very_good"
	CategoryGood      Category = "good"
	CategoryFair      Category = "fair"
	CategoryPoor      Category = "poor"
)

const (
	RatingMin = 0
	RatingMax = 10
)

// Categorize maps a 0-10 rating to its category. Every write of a rating,
// create or update, must store the category returned here alongside it.
func Categorize(rating int) (Category, error) {
	if rating < RatingMin || rating > RatingMax {
		return "", apperrors.ErrInvalidInput
	}
	switch {
	case rating >= 9:
		return CategoryExcellent, nil
	case rating >= 7:
		return CategoryVeryGood, nil
	case rating >= 5:
		return CategoryGood, nil
	case rating >= 3:
		return CategoryFair, nil
	default:
		return CategoryPoor, nil
	}
}
