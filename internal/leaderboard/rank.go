// Package leaderboard orders cars for display.
package leaderboard

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/bcdxn/lapboard/internal/domain"
)

// ErrUnknownCriterion is returned when a criterion name is not recognised.
var ErrUnknownCriterion = errors.New("unknown ranking criterion")

// ParseCriterion validates a criterion name.
func ParseCriterion(s string) (domain.Criterion, error) {
	for _, c := range domain.Criteria {
		if string(c) == s {
			return c, nil
		}
	}
	return "", errors.Wrapf(ErrUnknownCriterion, "%q (expected track, laps or bestlap)", s)
}

// Rank returns the cars ordered by the criterion. The sort is stable so cars that tie keep the
// order they were given in; callers pass the previous display order to keep ties from jumping
// around between frames. The input slice is not modified.
func Rank(cars []domain.Car, criterion domain.Criterion) []domain.Car {
	ranked := make([]domain.Car, len(cars))
	copy(ranked, cars)

	var less func(a, b domain.Car) bool
	switch criterion {
	case domain.CriterionLaps:
		less = func(a, b domain.Car) bool { return a.Timing.Laps > b.Timing.Laps }
	case domain.CriterionBestLap:
		less = fasterBestLap
	default:
		less = func(a, b domain.Car) bool { return a.Track < b.Track }
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return less(ranked[i], ranked[j])
	})
	return ranked
}

// Tracks returns the track numbers of the cars in the given order.
func Tracks(cars []domain.Car) []int {
	tracks := make([]int, len(cars))
	for i, car := range cars {
		tracks[i] = car.Track
	}
	return tracks
}

// fasterBestLap orders by ascending best lap, with cars that have no completed lap last.
func fasterBestLap(a, b domain.Car) bool {
	aBest, aOK := a.Timing.Best()
	bBest, bOK := b.Timing.Best()
	switch {
	case aOK && bOK:
		return aBest < bBest
	case aOK:
		return true
	}
	return false
}
