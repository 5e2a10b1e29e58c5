package noise

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"noise-bench/internal/core"
)

// DegeneratePolicy decides what normalize-and-quantize emits when every
// perturbed sample has the same value
type DegeneratePolicy int

const (
	// DegenerateZero emits an all-zero image
	DegenerateZero DegeneratePolicy = iota
	// DegenerateMidGray emits an all-128 image
	DegenerateMidGray
	// DegenerateFail returns core.ErrDegenerateImage
	DegenerateFail
)

func (p DegeneratePolicy) String() string {
	switch p {
	case DegenerateZero:
		return "zero"
	case DegenerateMidGray:
		return "mid-gray"
	case DegenerateFail:
		return "fail"
	}
	return fmt.Sprintf("DegeneratePolicy(%d)", int(p))
}

// NormalizeQuantize rescales values by their global min and max into
// [0,255] and truncates into dst. The output always spans the full
// 8-bit range unless the input is constant, in which case policy applies.
func NormalizeQuantize(values []float64, dst []uint8, policy DegeneratePolicy) error {
	if len(values) != len(dst) {
		return fmt.Errorf("%w: %d values for %d samples", core.ErrInvalidParameter, len(values), len(dst))
	}
	if len(values) == 0 {
		return nil
	}

	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: non-finite sample %v at %d", core.ErrInvalidParameter, v, i)
		}
	}

	lo, hi := floats.Min(values), floats.Max(values)
	if hi == lo {
		return fillDegenerate(dst, policy)
	}

	span := hi - lo
	if math.IsInf(span, 0) {
		return fmt.Errorf("%w: sample range [%v, %v] overflows", core.ErrInvalidParameter, lo, hi)
	}
	for i, v := range values {
		q := (v - lo) / span * 255
		// guard against 255.00000001 after rounding at the top end
		if q > 255 {
			q = 255
		}
		dst[i] = uint8(q)
	}
	return nil
}

func fillDegenerate(dst []uint8, policy DegeneratePolicy) error {
	var v uint8
	switch policy {
	case DegenerateZero:
		v = 0
	case DegenerateMidGray:
		v = 128
	case DegenerateFail:
		return core.ErrDegenerateImage
	default:
		return fmt.Errorf("%w: unknown degenerate policy %v", core.ErrInvalidParameter, policy)
	}
	for i := range dst {
		dst[i] = v
	}
	return nil
}
