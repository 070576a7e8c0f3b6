package model

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"
)

// Split defaults.
const (
	DefaultTestSize = 0.25
	DefaultSeed     = 42
)

// ErrNotEnoughGroups is returned when the groups cannot fill both sides of a split.
var ErrNotEnoughGroups = errors.New("not enough groups to split")

// GroupSplit holds row indices of each side of a group split.
type GroupSplit struct {
	Train      []int
	Test       []int
	TestGroups []string
}

// GroupShuffleSplit holds out ceil(testSize * groups) whole groups. Groups are
// sorted before shuffling so the split depends only on the seed and the
// set of groups.
func GroupShuffleSplit(groups []string, testSize float64, seed int64) (GroupSplit, error) {
	if testSize <= 0 || testSize >= 1 {
		return GroupSplit{}, fmt.Errorf("test size must be in (0, 1), got %v", testSize)
	}

	uniq := make(map[string]struct{})
	for _, g := range groups {
		uniq[g] = struct{}{}
	}
	sorted := make([]string, 0, len(uniq))
	for g := range uniq {
		sorted = append(sorted, g)
	}
	sort.Strings(sorted)

	nTest := int(math.Ceil(testSize * float64(len(sorted))))
	if len(sorted) < 2 || nTest >= len(sorted) {
		return GroupSplit{}, fmt.Errorf("%w: %d groups", ErrNotEnoughGroups, len(sorted))
	}

	rng := rand.New(rand.NewSource(seed))
	perm := rng.Perm(len(sorted))

	held := make(map[string]struct{}, nTest)
	split := GroupSplit{TestGroups: make([]string, 0, nTest)}
	for _, i := range perm[:nTest] {
		held[sorted[i]] = struct{}{}
		split.TestGroups = append(split.TestGroups, sorted[i])
	}
	sort.Strings(split.TestGroups)

	for i, g := range groups {
		if _, ok := held[g]; ok {
			split.Test = append(split.Test, i)
		} else {
			split.Train = append(split.Train, i)
		}
	}
	return split, nil
}
