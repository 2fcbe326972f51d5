package booking

import (
	"time"

	"carshare/internal/apperrors"
)

// TimeRange is a half-open interval [Start, End): End itself is excluded,
// so a booking ending at 18:00 does not collide with one starting at 18:00.
type TimeRange struct {
	Start time.Time
	End   time.Time
}

func NewTimeRange(start, end time.Time) (TimeRange, error) {
	tr := TimeRange{Start: start, End: end}
	if err := tr.Validate(); err != nil {
		return TimeRange{}, err
	}
	return tr, nil
}

func (tr TimeRange) Validate() error {
	if !tr.Start.Before(tr.End) {
		return apperrors.ErrMalformedRange
	}
	return nil
}

// Overlaps reports whether a and b share any instant. Symmetric.
func Overlaps(a, b TimeRange) bool {
	return a.Start.Before(b.End) && b.Start.Before(a.End)
}

// ConflictsAny reports whether candidate overlaps any of the existing ranges.
func ConflictsAny(existing []TimeRange, candidate TimeRange) bool {
	for _, tr := range existing {
		if Overlaps(tr, candidate) {
			return true
		}
	}
	return false
}

// Contains reports whether inner lies fully inside tr.
// Matching endpoints count as inside.
func (tr TimeRange) Contains(inner TimeRange) bool {
	return !inner.Start.Before(tr.Start) && !inner.End.After(tr.End)
}
