// Package explore implements the filter-and-aggregate engine behind the
// dashboard: boolean-predicate filtering over the loaded observations and
// the descriptive statistics that feed metrics, breakdowns, and charts.
package explore

import (
	"errors"
	"time"

	"github.com/fawnlabs/weather-dashboard/internal/domain"
)

// Criteria selects a subset of observations. Zero values mean "no filter":
// an empty Station or Season matches everything, nil bounds leave that side
// open. Each criterion is an independent predicate and the result is their
// intersection, so application order never matters.
type Criteria struct {
	Station string
	Season  string

	// Inclusive bounds on the date portion of the timestamp. A date filter
	// is active when either side is set; rows without a parseable timestamp
	// are excluded while it is active.
	StartDate *time.Time
	EndDate   *time.Time

	// Inclusive bounds on average temperature. Rows with NaN temperature
	// are excluded while a temperature filter is active.
	TempMin *float64
	TempMax *float64
}

// Validate rejects inverted bounds. Filtering itself assumes well-formed
// criteria; this is for the API boundary to call before Apply.
func (c Criteria) Validate() error {
	if c.StartDate != nil && c.EndDate != nil && dateOnly(*c.StartDate).After(dateOnly(*c.EndDate)) {
		return errors.New("start date is after end date")
	}
	if c.TempMin != nil && c.TempMax != nil && *c.TempMin > *c.TempMax {
		return errors.New("temperature minimum exceeds maximum")
	}
	return nil
}

func (c Criteria) dateActive() bool {
	return c.StartDate != nil || c.EndDate != nil
}

func (c Criteria) tempActive() bool {
	return c.TempMin != nil || c.TempMax != nil
}

// Apply returns the rows matching every active criterion, preserving input
// order. With no active criteria the input slice is returned as-is.
func Apply(rows []domain.Observation, c Criteria) []domain.Observation {
	if c.Station == "" && c.Season == "" && !c.dateActive() && !c.tempActive() {
		return rows
	}

	out := make([]domain.Observation, 0, len(rows))
	for i := range rows {
		if matches(&rows[i], c) {
			out = append(out, rows[i])
		}
	}
	return out
}

func matches(o *domain.Observation, c Criteria) bool {
	if c.Station != "" && o.Station != c.Station {
		return false
	}
	if c.Season != "" && o.Season != c.Season {
		return false
	}
	if c.dateActive() {
		if !o.HasTimestamp() {
			return false
		}
		d := o.Date()
		if c.StartDate != nil && d.Before(dateOnly(*c.StartDate)) {
			return false
		}
		if c.EndDate != nil && d.After(dateOnly(*c.EndDate)) {
			return false
		}
	}
	if c.TempMin != nil && !(o.TempAvg >= *c.TempMin) {
		return false
	}
	if c.TempMax != nil && !(o.TempAvg <= *c.TempMax) {
		return false
	}
	return true
}

func dateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
