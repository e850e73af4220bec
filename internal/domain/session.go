package domain

import "github.com/pkg/errors"

const (
	CriterionTrack   Criterion = "track"
	CriterionLaps    Criterion = "laps"
	CriterionBestLap Criterion = "bestlap"
)

const (
	VariantRanked Variant = "ranked"
	VariantPlain  Variant = "plain"
)

// Criterion is the ordering used for the leaderboard.
type Criterion string

// Criteria lists every criterion in the order the leaderboard cycles through them.
var Criteria = []Criterion{CriterionTrack, CriterionLaps, CriterionBestLap}

// Next returns the criterion following c when cycling through the sort modes.
func (c Criterion) Next() Criterion {
	for i, candidate := range Criteria {
		if candidate == c {
			return Criteria[(i+1)%len(Criteria)]
		}
	}
	return CriterionTrack
}

// Variant selects the leaderboard layout. The ranked variant shows position and track columns and
// supports re-sorting; the plain variant is the single-track layout listing cars in track order.
type Variant string

// ParseVariant validates a variant name.
func ParseVariant(s string) (Variant, error) {
	switch v := Variant(s); v {
	case VariantRanked, VariantPlain:
		return v, nil
	}
	return "", errors.Errorf("unknown variant %q (expected %s or %s)", s, VariantRanked, VariantPlain)
}
