// Package rules holds the scheduling and consistency rules for leagues, matches and
// scorecards, together with the error kinds every layer of the service reports.
//
// Every check here runs before a mutation is committed, so a failure never leaves a
// partial write behind.
package rules

import "errors"

// Error kinds. Callers wrap these with fmt.Errorf("%w: detail", ErrX) and inspect them
// with errors.Is, so the HTTP layer can map a kind to a status code without parsing text.
var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidRosterSize = errors.New("team count must be between 2 and 30")
	ErrOddRosterSize     = errors.New("must have an even number of teams")
	ErrInvalidWeekNumber = errors.New("week number must be at least 1")
	ErrDuplicateWeek     = errors.New("matches already exist for week")
	ErrValidation        = errors.New("validation failed")
	ErrConflict          = errors.New("conflict")
	ErrPersistence       = errors.New("persistence failure")
)

// kinds is every domain error in the order IsDomain checks them.
var kinds = []error{
	ErrNotFound,
	ErrInvalidRosterSize,
	ErrOddRosterSize,
	ErrInvalidWeekNumber,
	ErrDuplicateWeek,
	ErrValidation,
	ErrConflict,
	ErrPersistence,
}

// IsDomain reports whether err already carries one of the kinds above.
func IsDomain(err error) bool {
	for _, k := range kinds {
		if errors.Is(err, k) {
			return true
		}
	}
	return false
}
