package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"carshare/internal/apperrors"
)

func TestCategorizeThresholds(t *testing.T) {
	tests := []struct {
		rating int
		want   Category
	}{
		{10, CategoryExcellent},
		{9, CategoryExcellent},
		{8, CategoryVeryGood},
		{7, CategoryVeryGood},
		{6, CategoryGood},
		{5, CategoryGood},
		{4, CategoryFair},
		{3, CategoryFair},
		{2, CategoryPoor},
		{1, CategoryPoor},
		{0, CategoryPoor},
	}
	for _, tt := range tests {
		got, err := Categorize(tt.rating)
		assert.NoError(t, err)
		assert.Equal(t, tt.want, got, "rating %d", tt.rating)
	}
}

func TestCategorizeOutOfRange(t *testing.T) {
	_, err := Categorize(-1)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	_, err = Categorize(11)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestCategorizeIdempotent(t *testing.T) {
	for rating := RatingMin; rating <= RatingMax; rating++ {
		first, err := Categorize(rating)
		assert.NoError(t, err)
		second, err := Categorize(rating)
		assert.NoError(t, err)
		assert.Equal(t, first, second)
	}
}
