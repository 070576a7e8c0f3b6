package model

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func groupsOf(services, periods int) []string {
	groups := make([]string, 0, services*periods)
	for s := 0; s < services; s++ {
		for p := 0; p < periods; p++ {
			groups = append(groups, fmt.Sprintf("SRV-%03d", s+1))
		}
	}
	return groups
}

func TestGroupShuffleSplit(t *testing.T) {
	groups := groupsOf(10, 3)

	split, err := GroupShuffleSplit(groups, DefaultTestSize, DefaultSeed)
	require.NoError(t, err)

	assert.Len(t, split.TestGroups, 3, "ceil(0.25 * 10)")
	assert.Len(t, split.Test, 9)
	assert.Len(t, split.Train, 21)

	train := make(map[string]struct{})
	for _, i := range split.Train {
		train[groups[i]] = struct{}{}
	}
	for _, i := range split.Test {
		_, leaked := train[groups[i]]
		assert.False(t, leaked, "group %s on both sides", groups[i])
	}

	again, err := GroupShuffleSplit(groups, DefaultTestSize, DefaultSeed)
	require.NoError(t, err)
	assert.Equal(t, split, again)
}

func TestGroupShuffleSplitIgnoresRowOrder(t *testing.T) {
	groups := groupsOf(8, 2)
	reversed := make([]string, len(groups))
	for i, g := range groups {
		reversed[len(groups)-1-i] = g
	}

	a, err := GroupShuffleSplit(groups, DefaultTestSize, DefaultSeed)
	require.NoError(t, err)
	b, err := GroupShuffleSplit(reversed, DefaultTestSize, DefaultSeed)
	require.NoError(t, err)

	assert.Equal(t, a.TestGroups, b.TestGroups)
}

func TestGroupShuffleSplitErrors(t *testing.T) {
	_, err := GroupShuffleSplit(groupsOf(1, 5), DefaultTestSize, DefaultSeed)
	assert.ErrorIs(t, err, ErrNotEnoughGroups)

	_, err = GroupShuffleSplit(groupsOf(4, 1), 0, DefaultSeed)
	assert.Error(t, err)

	split, err := GroupShuffleSplit(groupsOf(2, 1), DefaultTestSize, DefaultSeed)
	require.NoError(t, err)
	assert.Len(t, split.Test, 1)
	assert.Len(t, split.Train, 1)
}
