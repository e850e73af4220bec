// Package laps turns raw detector bytes into per-car lap timing.
package laps

import (
	"log/slog"
	"time"

	"github.com/bcdxn/lapboard/internal/domain"
)

// DefaultResetDigit is the detector digit that clears every car's timing instead of marking a
// crossing.
const DefaultResetDigit = 7

const (
	ActionNone  Action = iota // the byte was noise, out of range, or absent
	ActionStart               // a car crossed for the first time since the last reset
	ActionLap                 // a car completed a lap
	ActionReset               // every car was reset
)

// Action describes what processing a single byte did to the table.
type Action int

func (a Action) String() string {
	switch a {
	case ActionStart:
		return "start"
	case ActionLap:
		return "lap"
	case ActionReset:
		return "reset"
	}
	return "none"
}

// New returns a timing table with one never-started car per name. Track numbers are assigned
// 1..N in the order the names are given.
func New(names []string, opts ...TableOption) *Table {
	t := &Table{
		cars:       make([]domain.Car, len(names)),
		resetDigit: DefaultResetDigit,
		logger:     slog.Default(),
	}
	for i, name := range names {
		t.cars[i] = domain.NewCar(i+1, name)
	}
	// apply given options
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Table is the timing state of every configured car. It has a single writer: callers must not
// invoke Process or Reset from more than one goroutine.
type Table struct {
	cars       []domain.Car
	resetDigit int
	logger     *slog.Logger
}

/* Table Optional Functional Parameters
------------------------------------------------------------------------------------------------- */

type TableOption = func(t *Table)

// WithLogger configures the logger used to trace processed bytes.
func WithLogger(l *slog.Logger) TableOption {
	return func(t *Table) { t.logger = l }
}

// WithResetDigit configures the digit reserved as the global reset signal. Zero disables the
// reserved digit so every digit addresses a car.
func WithResetDigit(d int) TableOption {
	return func(t *Table) { t.resetDigit = d }
}

/* Table API
------------------------------------------------------------------------------------------------- */

// Process applies one received byte observed at now. Bytes that are not digits and digits that
// do not address a configured car are ignored.
func (t *Table) Process(raw byte, now time.Time) Action {
	if raw < '0' || raw > '9' {
		t.logger.Debug("ignoring non-digit byte", "byte", raw)
		return ActionNone
	}
	digit := int(raw - '0')
	// the reserved digit wins over the bounds check, so with seven or more cars the car on
	// track 7 can never be credited
	if t.resetDigit != 0 && digit == t.resetDigit {
		t.Reset()
		return ActionReset
	}
	if digit < 1 || digit > len(t.cars) {
		t.logger.Debug("ignoring crossing for unknown car", "car", digit, "cars", len(t.cars))
		return ActionNone
	}

	car := &t.cars[digit-1]
	action := cross(&car.Timing, now)
	t.logger.Debug("crossing",
		"car", car.Track,
		"name", car.Name,
		"action", action.String(),
		"laps", car.Timing.Laps,
		"last", car.Timing.LastLap,
	)
	return action
}

// Reset clears the timing of every car back to the never-started state. Cars keep their track
// numbers and names.
func (t *Table) Reset() {
	for i := range t.cars {
		t.cars[i].Timing = domain.CarTiming{}
	}
	t.logger.Info("timing reset", "cars", len(t.cars))
}

// Len returns the number of configured cars.
func (t *Table) Len() int {
	return len(t.cars)
}

// Car returns a copy of the car on the given 1-based track.
func (t *Table) Car(track int) (domain.Car, bool) {
	if track < 1 || track > len(t.cars) {
		return domain.Car{}, false
	}
	return t.cars[track-1], true
}

// Cars returns a snapshot of every car in track order.
func (t *Table) Cars() []domain.Car {
	cars := make([]domain.Car, len(t.cars))
	copy(cars, t.cars)
	return cars
}

/* Private Helper Functions
------------------------------------------------------------------------------------------------- */

// cross records a crossing at now. The first crossing only starts the clock; every later one
// closes a lap measured from the previous crossing.
func cross(timing *domain.CarTiming, now time.Time) Action {
	action := ActionStart
	if timing.Started() {
		elapsed := now.Sub(timing.LastCrossing)
		timing.LastLap = elapsed
		if !timing.HasBestLap || elapsed < timing.BestLap {
			timing.BestLap = elapsed
			timing.HasBestLap = true
		}
		timing.Laps++
		action = ActionLap
	}
	timing.LastCrossing = now
	return action
}
