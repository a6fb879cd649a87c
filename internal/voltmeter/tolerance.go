package voltmeter

import (
	"errors"
	"fmt"
	"math"
)

var ErrInvalidTolerance = errors.New("voltmeter: invalid tolerance")

// Tolerance decides when a sampled potential counts as lying on a pinned
// level. Near zero a relative test degenerates, so values with magnitude
// below NearZero are shifted by Offset and compared absolutely.
type Tolerance struct {
	NearZero float64 `yaml:"near_zero"`
	Absolute float64 `yaml:"abs_tolerance"`
	Relative float64 `yaml:"rel_tolerance"`
	Offset   float64 `yaml:"zero_offset"`
}

func DefaultTolerance() Tolerance {
	return Tolerance{
		NearZero: 10,
		Absolute: 0.1,
		Relative: 0.01,
		Offset:   10,
	}
}

func (t Tolerance) Validate() error {
	for _, v := range []float64{t.NearZero, t.Absolute, t.Relative, t.Offset} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return fmt.Errorf("%w: %+v", ErrInvalidTolerance, t)
		}
	}
	return nil
}

// Matches reports whether v lies on level.
func (t Tolerance) Matches(v, level float64) bool {
	if math.Abs(v) < t.NearZero {
		return math.Abs((v+t.Offset)-(level+t.Offset)) <= t.Absolute
	}
	return math.Abs(v-level) <= t.Relative*(math.Abs(v)+math.Abs(level))/2
}
