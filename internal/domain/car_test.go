package domain

import (
	"testing"
	"time"
)

func TestCarTiming(t *testing.T) {
	start := time.Date(2024, time.May, 4, 14, 0, 0, 0, time.UTC)
	car := NewCar(3, "Carol")

	if car.Timing.Started() {
		t.Errorf("expected a new car not to be started")
	}
	if _, ok := car.Timing.Split(start); ok {
		t.Errorf("expected no split before the first crossing")
	}

	car.Timing.LastCrossing = start
	split, ok := car.Timing.Split(start.Add(2500 * time.Millisecond))
	if !ok || split != 2500*time.Millisecond {
		t.Errorf("expected split %v but found %v (ok: %t)", 2500*time.Millisecond, split, ok)
	}

	car.Timing.HasBestLap = true
	if best, ok := car.Timing.Best(); !ok || best != 0 {
		t.Errorf("expected a defined zero best lap but found %v (ok: %t)", best, ok)
	}
}

func TestCriterionNext(t *testing.T) {
	expected := map[Criterion]Criterion{
		CriterionTrack:   CriterionLaps,
		CriterionLaps:    CriterionBestLap,
		CriterionBestLap: CriterionTrack,
		Criterion("???"): CriterionTrack,
	}
	for c, next := range expected {
		if c.Next() != next {
			t.Errorf("expected '%s' to be followed by '%s' but found '%s'", c, next, c.Next())
		}
	}
}

func TestParseVariant(t *testing.T) {
	for _, v := range []string{"ranked", "plain"} {
		if _, err := ParseVariant(v); err != nil {
			t.Errorf("expected '%s' to parse but found %v", v, err)
		}
	}
	if _, err := ParseVariant("fancy"); err == nil {
		t.Errorf("expected an error for an unknown variant")
	}
}
