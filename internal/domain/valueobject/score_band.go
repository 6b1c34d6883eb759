package valueobject

import "fmt"

// ScoreBand is an immutable value object classifying a demo score.
type ScoreBand struct {
	value string
}

var (
	ScoreBandExcellent = ScoreBand{value: "Excellent"}
	ScoreBandGood      = ScoreBand{value: "Good"}
	ScoreBandFair      = ScoreBand{value: "Fair"}
	ScoreBandBuilding  = ScoreBand{value: "Building"}
)

// Band floors, inclusive.
const (
	ExcellentFloor = 760
	GoodFloor      = 700
	FairFloor      = 640
)

// ScoreBandFromScore derives the band for a score in the 300-850 range.
func ScoreBandFromScore(score int) ScoreBand {
	switch {
	case score >= ExcellentFloor:
		return ScoreBandExcellent
	case score >= GoodFloor:
		return ScoreBandGood
	case score >= FairFloor:
		return ScoreBandFair
	default:
		return ScoreBandBuilding
	}
}

// ScoreBandFromString reconstructs a ScoreBand from its string representation.
func ScoreBandFromString(s string) (ScoreBand, error) {
	switch s {
	case "Excellent":
		return ScoreBandExcellent, nil
	case "Good":
		return ScoreBandGood, nil
	case "Fair":
		return ScoreBandFair, nil
	case "Building":
		return ScoreBandBuilding, nil
	default:
		return ScoreBand{}, fmt.Errorf("invalid score band: %q", s)
	}
}

// String returns the string representation.
func (b ScoreBand) String() string {
	return b.value
}

// IsZero returns true if the ScoreBand has not been set.
func (b ScoreBand) IsZero() bool {
	return b.value == ""
}

// Equal checks equality with another ScoreBand.
func (b ScoreBand) Equal(other ScoreBand) bool {
	return b.value == other.value
}

// MarshalText implements encoding.TextMarshaler.
func (b ScoreBand) MarshalText() ([]byte, error) {
	return []byte(b.value), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (b *ScoreBand) UnmarshalText(text []byte) error {
	parsed, err := ScoreBandFromString(string(text))
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}
