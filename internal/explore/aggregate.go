package explore

import (
	"math"
	"math/rand/v2"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/fawnlabs/weather-dashboard/internal/domain"
)

// Summary holds the headline metrics for a filtered view. Means are NaN and
// sums are 0 over an empty view; Count lets callers tell "empty" apart from
// a valid zero.
type Summary struct {
	Count          int
	AvgTemperature float64
	TotalRainfall  float64
	AvgHumidity    float64
	AvgWind        float64

	// AvgComfort is NaN when the dataset variant has no Comfort_Index
	// column; HasComfort distinguishes that from an empty view.
	AvgComfort float64
	HasComfort bool

	StationCount int
}

// Summarize computes the headline metrics over rows. NaN cells are skipped,
// matching how the report tooling treats unmeasured values.
func Summarize(rows []domain.Observation) Summary {
	s := Summary{
		Count:          len(rows),
		AvgTemperature: mean(FieldValues(rows, domain.FieldTemperature)),
		TotalRainfall:  sum(FieldValues(rows, domain.FieldRainfall)),
		AvgHumidity:    mean(FieldValues(rows, domain.FieldHumidity)),
		AvgWind:        mean(FieldValues(rows, domain.FieldWindAvg)),
		AvgComfort:     math.NaN(),
	}

	stations := make(map[string]struct{})
	for i := range rows {
		if rows[i].Station != "" {
			stations[rows[i].Station] = struct{}{}
		}
		if rows[i].ComfortIndex != nil {
			s.HasComfort = true
		}
	}
	s.StationCount = len(stations)

	if s.HasComfort {
		s.AvgComfort = mean(FieldValues(rows, domain.FieldComfort))
	}
	return s
}

// StationStats are per-station temperature statistics, rounded to two
// decimal places. StdDev is the sample standard deviation and is NaN for
// single-observation stations.
type StationStats struct {
	Station string
	Count   int
	Mean    float64
	Min     float64
	Max     float64
	StdDev  float64
}

// StationBreakdown groups rows by station and ranks the groups by mean
// temperature, highest first. Ties keep the order stations first appear in
// the input.
func StationBreakdown(rows []domain.Observation) []StationStats {
	order, groups := groupBy(rows, func(o *domain.Observation) string { return o.Station })

	out := make([]StationStats, 0, len(order))
	for _, station := range order {
		vals := FieldValues(groups[station], domain.FieldTemperature)
		out = append(out, StationStats{
			Station: station,
			Count:   len(groups[station]),
			Mean:    round2(mean(vals)),
			Min:     round2(minOf(vals)),
			Max:     round2(maxOf(vals)),
			StdDev:  round2(stddev(vals)),
		})
	}

	// NaN compares false both ways, so order it explicitly after real means.
	sort.SliceStable(out, func(i, j int) bool {
		mi, mj := out[i].Mean, out[j].Mean
		if math.IsNaN(mi) {
			return false
		}
		if math.IsNaN(mj) {
			return true
		}
		return mi > mj
	})
	return out
}

// SeasonStats is a five-number temperature summary for one season, the
// shape a box plot renders directly.
type SeasonStats struct {
	Season string
	Count  int
	Min    float64
	Q1     float64
	Median float64
	Q3     float64
	Max    float64
}

// SeasonBreakdown groups rows by season in first-encounter order. Rows with
// no season label are skipped.
func SeasonBreakdown(rows []domain.Observation) []SeasonStats {
	order, groups := groupBy(rows, func(o *domain.Observation) string { return o.Season })

	out := make([]SeasonStats, 0, len(order))
	for _, season := range order {
		vals := FieldValues(groups[season], domain.FieldTemperature)
		st := SeasonStats{
			Season: season,
			Count:  len(groups[season]),
			Min:    math.NaN(),
			Q1:     math.NaN(),
			Median: math.NaN(),
			Q3:     math.NaN(),
			Max:    math.NaN(),
		}
		if len(vals) > 0 {
			sort.Float64s(vals)
			st.Min = vals[0]
			st.Max = vals[len(vals)-1]
			st.Q1 = stat.Quantile(0.25, stat.LinInterp, vals, nil)
			st.Median = stat.Quantile(0.5, stat.LinInterp, vals, nil)
			st.Q3 = stat.Quantile(0.75, stat.LinInterp, vals, nil)
		}
		out = append(out, st)
	}
	return out
}

// RainSummary describes precipitation over a filtered view. A rain day is
// any observation with strictly positive rainfall.
type RainSummary struct {
	RainDays int
	Fraction float64
	Rows     []domain.Observation
}

// SummarizeRain counts rain days and returns the rain-day subset for
// downstream histogramming. Fraction is 0 over an empty view.
func SummarizeRain(rows []domain.Observation) RainSummary {
	var rainy []domain.Observation
	for i := range rows {
		if rows[i].RainTotal > 0 {
			rainy = append(rainy, rows[i])
		}
	}

	s := RainSummary{RainDays: len(rainy), Rows: rainy}
	if len(rows) > 0 {
		s.Fraction = float64(len(rainy)) / float64(len(rows))
	}
	return s
}

// WindSummary holds the wind panel metrics: mean sustained speed and the
// strongest recorded gust.
type WindSummary struct {
	AvgWind float64
	MaxGust float64
}

// SummarizeWind computes wind metrics, NaN over an empty view.
func SummarizeWind(rows []domain.Observation) WindSummary {
	return WindSummary{
		AvgWind: mean(FieldValues(rows, domain.FieldWindAvg)),
		MaxGust: maxOf(FieldValues(rows, domain.FieldWindMax)),
	}
}

// Sample draws min(n, len(rows)) rows without replacement. Ordering is
// unspecified; the result feeds scatter plots, not computation.
func Sample(rows []domain.Observation, n int) []domain.Observation {
	if n <= 0 {
		return nil
	}
	if n >= len(rows) {
		out := make([]domain.Observation, len(rows))
		copy(out, rows)
		return out
	}

	out := make([]domain.Observation, 0, n)
	for _, idx := range rand.Perm(len(rows))[:n] {
		out = append(out, rows[idx])
	}
	return out
}

// TimePoint is one point of a time-series chart.
type TimePoint struct {
	Time  time.Time
	Value float64
}

// TimeSeries extracts (timestamp, field) points sorted by time ascending.
// Rows without a timestamp, without the field, or with a NaN value are
// skipped.
func TimeSeries(rows []domain.Observation, f domain.Field) []TimePoint {
	var out []TimePoint
	for i := range rows {
		o := &rows[i]
		if !o.HasTimestamp() {
			continue
		}
		v, ok := f.Value(o)
		if !ok || math.IsNaN(v) {
			continue
		}
		out = append(out, TimePoint{Time: o.Timestamp, Value: v})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Time.Before(out[j].Time) })
	return out
}

// FieldValues extracts the non-NaN values of a field. Rows lacking an
// optional column contribute nothing.
func FieldValues(rows []domain.Observation, f domain.Field) []float64 {
	var out []float64
	for i := range rows {
		v, ok := f.Value(&rows[i])
		if !ok || math.IsNaN(v) {
			continue
		}
		out = append(out, v)
	}
	return out
}

// groupBy buckets rows by key in first-encounter order, dropping empty keys.
func groupBy(rows []domain.Observation, key func(*domain.Observation) string) ([]string, map[string][]domain.Observation) {
	var order []string
	groups := make(map[string][]domain.Observation)
	for i := range rows {
		k := key(&rows[i])
		if k == "" {
			continue
		}
		if _, seen := groups[k]; !seen {
			order = append(order, k)
		}
		groups[k] = append(groups[k], rows[i])
	}
	return order, groups
}

func mean(vals []float64) float64 {
	if len(vals) == 0 {
		return math.NaN()
	}
	return stat.Mean(vals, nil)
}

func stddev(vals []float64) float64 {
	if len(vals) < 2 {
		return math.NaN()
	}
	return stat.StdDev(vals, nil)
}

func sum(vals []float64) float64 {
	var s float64
	for _, v := range vals {
		s += v
	}
	return s
}

func minOf(vals []float64) float64 {
	if len(vals) == 0 {
		return math.NaN()
	}
	m := vals[0]
	for _, v := range vals[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

func maxOf(vals []float64) float64 {
	if len(vals) == 0 {
		return math.NaN()
	}
	m := vals[0]
	for _, v := range vals[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

func round2(v float64) float64 {
	if math.IsNaN(v) {
		return v
	}
	return math.Round(v*100) / 100
}
