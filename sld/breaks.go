package sld

import (
	"fmt"
	"strconv"
)

// ClassBreak is one bin of a binned classification: (Lower, Upper], except
// that the first bin also admits values exactly equal to Lower so that the
// dataset minimum falls into exactly one bin.
type ClassBreak struct {
	Lower         float64
	Upper         float64
	Label         string
	IncludesLower bool
}

// Contains reports whether v falls inside the bin.
func (b ClassBreak) Contains(v float64) bool {
	if b.IncludesLower {
		return v >= b.Lower && v <= b.Upper
	}
	return v > b.Lower && v <= b.Upper
}

// Stops computes n evenly spaced point values spanning [min, max]. These are
// color stops for a continuous ramp, not bins: stops[0] == min,
// stops[n-1] == max, spacing (max-min)/(n-1). With n == 1 the single stop
// is min.
func Stops(min, max float64, n int) ([]float64, error) {
	if err := checkRange(min, max, n); err != nil {
		return nil, err
	}
	if n == 1 {
		return []float64{min}, nil
	}
	step := (max - min) / float64(n-1)
	out := make([]float64, n)
	for i := range out {
		out[i] = min + step*float64(i)
	}
	out[n-1] = max // avoid floating point drift on the top stop
	return out, nil
}

// Bins partitions [min, max] into n intervals of uniform width (max-min)/n.
// Bins are lower-open and upper-closed; the first bin additionally includes
// min itself (see ClassBreak). The last bin's upper bound is exactly max.
func Bins(min, max float64, n int) ([]ClassBreak, error) {
	if err := checkRange(min, max, n); err != nil {
		return nil, err
	}
	width := (max - min) / float64(n)
	out := make([]ClassBreak, n)
	for i := range out {
		lower := min + width*float64(i)
		upper := min + width*float64(i+1)
		if i == n-1 {
			upper = max
		}
		out[i] = ClassBreak{
			Lower:         lower,
			Upper:         upper,
			Label:         FormatNumber(lower) + " - " + FormatNumber(upper),
			IncludesLower: i == 0,
		}
	}
	return out, nil
}

func checkRange(min, max float64, n int) error {
	if n < 1 {
		return fmt.Errorf("%w: class count %d, must be at least 1", ErrConfig, n)
	}
	if max < min {
		return fmt.Errorf("%w: max %v is less than min %v", ErrConfig, max, min)
	}
	return nil
}

// FormatNumber renders a numeric literal with stable decimal notation.
// Scientific notation would be ambiguous to downstream SLD parsers.
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
