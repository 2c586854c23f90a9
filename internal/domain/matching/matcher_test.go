package matching_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/dalemusser/secretsanta/internal/domain/matching"
	"github.com/stretchr/testify/require"
)

func TestMatch_FixedShuffle(t *testing.T) {
	tests := []struct {
		name     string
		members  []string
		shuffled []string
		want     map[string]string
	}{
		{
			name:     "2 members, same order",
			members:  []string{"A", "B"},
			shuffled: []string{"A", "B"},
			want:     map[string]string{"A": "B", "B": "A"},
		},
		{
			name:     "3 members, first member is the same",
			members:  []string{"A", "B", "C"},
			shuffled: []string{"A", "C", "B"},
			want:     map[string]string{"A": "C", "B": "A", "C": "B"},
		},
		{
			name:     "4 members, first member is the same",
			members:  []string{"A", "B", "C", "D"},
			shuffled: []string{"A", "D", "C", "B"},
			want:     map[string]string{"A": "D", "B": "A", "C": "B", "D": "C"},
		},
		{
			name:     "3 members, last member is the same",
			members:  []string{"A", "B", "C"},
			shuffled: []string{"B", "A", "C"},
			want:     map[string]string{"A": "C", "B": "A", "C": "B"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := matching.New(matching.WithShuffler(matching.FixedShuffler(tt.shuffled...)))

			got, err := m.Match(tt.members)

			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestMatch_DoesNotModifyRoster(t *testing.T) {
	members := []string{"A", "B", "C", "D"}
	m := matching.New(matching.WithShuffler(matching.FixedShuffler("D", "C", "B", "A")))

	_, err := m.Match(members)

	require.NoError(t, err)
	require.Equal(t, []string{"A", "B", "C", "D"}, members)
}

func TestMatch_TooFewMembers(t *testing.T) {
	for _, members := range [][]string{nil, {}, {"A"}} {
		t.Run(fmt.Sprintf("size_%d", len(members)), func(t *testing.T) {
			got, err := matching.New[string]().Match(members)

			require.Nil(t, got)
			var ie *matching.InvalidInputError
			require.ErrorAs(t, err, &ie)
			require.ErrorIs(t, err, matching.ErrTooFewMembers)
			require.Equal(t, len(members), ie.Size)
		})
	}
}

func TestMatch_DuplicateMember(t *testing.T) {
	got, err := matching.New[string]().Match([]string{"A", "B", "A"})

	require.Nil(t, got)
	require.True(t, matching.IsInvalidInput(err))
	require.ErrorIs(t, err, matching.ErrDuplicateMember)

	var ie *matching.InvalidInputError
	require.ErrorAs(t, err, &ie)
	require.Equal(t, "A", ie.Duplicate)
}

func TestMatch_ShufflerIsNotCalledForInvalidInput(t *testing.T) {
	called := false
	m := matching.New(matching.WithShuffler[string](matching.ShuffleFunc[string](func([]string) {
		called = true
	})))

	_, err := m.Match([]string{"A"})

	require.Error(t, err)
	require.False(t, called)
}

func TestMatch_IsDerangement(t *testing.T) {
	m := matching.New[int]()

	for n := 2; n <= 25; n++ {
		members := make([]int, n)
		for i := range members {
			members[i] = (i + 1) * 10
		}

		for round := 0; round < 200; round++ {
			got, err := m.Match(members)
			require.NoError(t, err)
			require.Len(t, got, n)

			receivers := make(map[int]bool, n)
			for _, giver := range members {
				receiver, ok := got[giver]
				require.True(t, ok, "giver %d has no receiver", giver)
				require.NotEqual(t, giver, receiver, "giver %d matched to self", giver)
				require.False(t, receivers[receiver], "receiver %d used twice", receiver)
				receivers[receiver] = true
			}
			for _, member := range members {
				require.True(t, receivers[member], "member %d never receives", member)
			}
		}
	}
}

// Every permutation of a small roster must pair cleanly; this covers the
// rotation branch for all shuffles that end on the last member.
func TestMatch_AllShufflesOfFour(t *testing.T) {
	members := []string{"A", "B", "C", "D"}

	for _, perm := range permutations(members) {
		t.Run(fmt.Sprint(perm), func(t *testing.T) {
			m := matching.New(matching.WithShuffler(matching.FixedShuffler(perm...)))

			got, err := m.Match(members)

			require.NoError(t, err)
			require.Len(t, got, len(members))
			for giver, receiver := range got {
				require.NotEqual(t, giver, receiver)
			}
		})
	}
}

func TestMatch_Reproducible(t *testing.T) {
	members := []string{"A", "B", "C", "D", "E"}
	shuffle := matching.FixedShuffler("C", "E", "A", "D", "B")

	first, err := matching.New(matching.WithShuffler(shuffle)).Match(members)
	require.NoError(t, err)
	second, err := matching.New(matching.WithShuffler(shuffle)).Match(members)
	require.NoError(t, err)

	require.Equal(t, first, second)
}

func TestInternalConsistencyError_Message(t *testing.T) {
	err := error(&matching.InternalConsistencyError{Giver: "A", Remaining: 1})

	var ice *matching.InternalConsistencyError
	require.True(t, errors.As(err, &ice))
	require.Contains(t, err.Error(), "giver A")
	require.False(t, matching.IsInvalidInput(err))
}

func permutations(in []string) [][]string {
	if len(in) <= 1 {
		return [][]string{append([]string(nil), in...)}
	}
	var out [][]string
	for i := range in {
		rest := make([]string, 0, len(in)-1)
		rest = append(rest, in[:i]...)
		rest = append(rest, in[i+1:]...)
		for _, p := range permutations(rest) {
			out = append(out, append([]string{in[i]}, p...))
		}
	}
	return out
}
