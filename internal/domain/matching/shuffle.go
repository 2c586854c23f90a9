// internal/domain/matching/shuffle.go
package matching

import (
	"math/rand/v2"
)

// Shuffler permutes a slice in place.
type Shuffler[T comparable] interface {
	Shuffle(s []T)
}

// ShuffleFunc adapts a plain function to Shuffler.
type ShuffleFunc[T comparable] func(s []T)

// Shuffle calls f(s).
func (f ShuffleFunc[T]) Shuffle(s []T) { f(s) }

// RandomShuffler returns a uniform Fisher-Yates shuffler backed by the
// math/rand/v2 global source, which is safe for concurrent use.
func RandomShuffler[T comparable]() Shuffler[T] {
	return ShuffleFunc[T](func(s []T) {
		rand.Shuffle(len(s), func(i, j int) { s[i], s[j] = s[j], s[i] })
	})
}

// FixedShuffler returns a shuffler that always rearranges its input into
// order. It panics when the lengths differ, which in a test means the
// fixture is wrong.
func FixedShuffler[T comparable](order ...T) Shuffler[T] {
	return ShuffleFunc[T](func(s []T) {
		if len(s) != len(order) {
			panic("matching: fixed shuffle length mismatch")
		}
		copy(s, order)
	})
}
