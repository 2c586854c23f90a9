// internal/domain/matching/errors.go
package matching

import (
	"errors"
	"fmt"
)

var (
	// ErrTooFewMembers is the reason for rosters with fewer than two members.
	ErrTooFewMembers = errors.New("at least two members are required")
	// ErrDuplicateMember is the reason for rosters listing a member twice.
	ErrDuplicateMember = errors.New("roster contains a duplicate member")
)

// InvalidInputError reports a roster that cannot be matched. The caller must
// fix the roster; retrying the same input fails the same way.
type InvalidInputError struct {
	Reason    error
	Size      int
	Duplicate any
}

func (e *InvalidInputError) Error() string {
	if errors.Is(e.Reason, ErrDuplicateMember) {
		return fmt.Sprintf("matching: invalid roster: %v (%v)", e.Reason, e.Duplicate)
	}
	return fmt.Sprintf("matching: invalid roster of %d: %v", e.Size, e.Reason)
}

func (e *InvalidInputError) Unwrap() error { return e.Reason }

// InternalConsistencyError means the pairing pass ran out of candidates for
// a giver. It indicates a defect in the matcher, never bad data.
type InternalConsistencyError struct {
	Giver     any
	Remaining int
}

func (e *InternalConsistencyError) Error() string {
	return fmt.Sprintf("matching: no receiver available for giver %v (%d candidates left)", e.Giver, e.Remaining)
}

// IsInvalidInput reports whether err is (or wraps) an *InvalidInputError.
func IsInvalidInput(err error) bool {
	var ie *InvalidInputError
	return errors.As(err, &ie)
}
