package explore

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Bin is one bucket of an equal-width histogram over [Lo, Hi).
// The final bin includes its upper edge.
type Bin struct {
	Lo    float64
	Hi    float64
	Count int
}

// Histogram buckets values into bins equal-width buckets. NaN values are
// dropped first. An empty input yields no bins; an input where every value
// is identical yields a single bin covering that value.
func Histogram(values []float64, bins int) []Bin {
	if bins < 1 {
		bins = 1
	}

	vals := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			vals = append(vals, v)
		}
	}
	if len(vals) == 0 {
		return nil
	}

	lo := floats.Min(vals)
	hi := floats.Max(vals)
	if lo == hi {
		return []Bin{{Lo: lo, Hi: hi, Count: len(vals)}}
	}

	sort.Float64s(vals)

	dividers := make([]float64, bins+1)
	floats.Span(dividers, lo, hi)
	// stat.Histogram requires max(vals) < last divider; nudge the edge so
	// the maximum lands in the final bin.
	dividers[bins] = math.Nextafter(hi, math.Inf(1))

	counts := stat.Histogram(nil, dividers, vals, nil)

	out := make([]Bin, bins)
	for i := range out {
		out[i] = Bin{Lo: dividers[i], Hi: dividers[i+1], Count: int(counts[i])}
	}
	out[bins-1].Hi = hi
	return out
}
