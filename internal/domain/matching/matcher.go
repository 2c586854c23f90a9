// internal/domain/matching/matcher.go
package matching

import (
	"github.com/samber/lo"
)

// Matcher assigns every member of a roster a gift recipient other than
// themselves.
//
// The procedure is fixed and observable (tests pin exact outputs for a given
// shuffle):
//  1. Shuffle a copy of the roster.
//  2. If the shuffled copy ends with the same member as the roster, rotate it
//     left by one.
//  3. Walk the roster in order; each giver takes the first remaining
//     shuffled member that is not themselves, and that member is removed.
//
// The result is always a derangement but is not uniform over all
// derangements for rosters of four or more.
//
// A Matcher holds no per-call state and may be shared across goroutines as
// long as its Shuffler is safe for concurrent use (the default one is).
type Matcher[T comparable] struct {
	shuffler Shuffler[T]
}

// Option configures a Matcher.
type Option[T comparable] func(*Matcher[T])

// WithShuffler replaces the random source. Tests use this to pin the
// permutation produced in step 1.
func WithShuffler[T comparable](s Shuffler[T]) Option[T] {
	return func(m *Matcher[T]) {
		if s != nil {
			m.shuffler = s
		}
	}
}

// New returns a Matcher that shuffles with math/rand/v2 unless overridden.
func New[T comparable](opts ...Option[T]) *Matcher[T] {
	m := &Matcher[T]{shuffler: RandomShuffler[T]()}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Match returns a giver → receiver mapping over members.
//
// It fails with *InvalidInputError when members has fewer than two entries
// or contains a duplicate, and with *InternalConsistencyError if a giver is
// left without a candidate (not reachable for valid input).
func (m *Matcher[T]) Match(members []T) (map[T]T, error) {
	if err := validateRoster(members); err != nil {
		return nil, err
	}

	shuffled := make([]T, len(members))
	copy(shuffled, members)
	m.shuffler.Shuffle(shuffled)

	last := len(members) - 1
	if shuffled[last] == members[last] {
		shuffled = append(shuffled[1:], shuffled[0])
	}

	// pool is the working copy receivers are taken from; removing by index
	// keeps the remaining candidates in shuffled order.
	pool := shuffled
	pairs := make(map[T]T, len(members))
	for _, giver := range members {
		idx := -1
		for i, candidate := range pool {
			if candidate != giver {
				idx = i
				break
			}
		}
		if idx < 0 {
			return nil, &InternalConsistencyError{Giver: giver, Remaining: len(pool)}
		}
		pairs[giver] = pool[idx]
		pool = append(pool[:idx], pool[idx+1:]...)
	}

	return pairs, nil
}

func validateRoster[T comparable](members []T) error {
	if len(members) < 2 {
		return &InvalidInputError{Reason: ErrTooFewMembers, Size: len(members)}
	}
	if dups := lo.FindDuplicates(members); len(dups) > 0 {
		return &InvalidInputError{Reason: ErrDuplicateMember, Size: len(members), Duplicate: dups[0]}
	}
	return nil
}
