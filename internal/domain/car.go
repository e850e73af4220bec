package domain

import "time"

// NewCar returns a car in its never-started state for the given 1-based track number.
func NewCar(track int, name string) Car {
	return Car{
		Track: track,
		Name:  name,
	}
}

// Car domain model represents a configured driver together with the live timing data recorded
// for it by the lap engine.
type Car struct {
	Track  int    // Track is the 1-based lane number, assigned in driver-list order and never reassigned
	Name   string // Name is the human readable driver name shown on the leaderboard
	Timing CarTiming
}

// CarTiming holds the timing state of a single car. The zero value is the never-started state.
type CarTiming struct {
	LastCrossing time.Time     // LastCrossing is the receipt time of the latest crossing; zero until the car starts
	Laps         int           // Laps is the number of completed laps
	LastLap      time.Duration // LastLap is the duration of the most recently completed lap
	BestLap      time.Duration // BestLap is the fastest completed lap; only meaningful when HasBestLap is set
	HasBestLap   bool          // HasBestLap is false until the first lap completes
}

// Started reports whether the car has crossed the detection point since the last reset.
func (t CarTiming) Started() bool {
	return !t.LastCrossing.IsZero()
}

// Best returns the best lap and whether one has been recorded.
func (t CarTiming) Best() (time.Duration, bool) {
	return t.BestLap, t.HasBestLap
}

// Split returns the time elapsed since the last crossing, or false when the car has not started.
func (t CarTiming) Split(now time.Time) (time.Duration, bool) {
	if !t.Started() {
		return 0, false
	}
	return now.Sub(t.LastCrossing), true
}
