package domain

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// Column names as they appear in FAWN report headers. The humidity column
// really does contain a double space before "(pct)".
const (
	ColStation  = "FAWN Station"
	ColPeriod   = "Period"
	ColSeason   = "Season"
	ColTempAvg  = "2m T avg (F)"
	ColRainTot  = "2m Rain tot (in)"
	ColHumidity = "RelHum avg 2m  (pct)"
	ColWindAvg  = "10m Wind avg (mph)"
	ColWindMax  = "10m Wind max (mph)"
	ColComfort  = "Comfort_Index"
	ColSeverity = "Weather_Severity"
)

// periodLayouts are the timestamp formats accepted for the Period column,
// tried in order. FAWN exports use the first two; the rest cover variants
// seen in hand-edited report files.
var periodLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"1/2/2006",
	"1/2/2006 15:04",
	time.RFC3339,
}

// Observation is one row of a FAWN weather report.
//
// Timestamp is the zero time when the Period cell was missing or
// unparseable; the row is still retained. TempAvg, RainTotal, HumidityAvg,
// WindAvg, and WindMax are NaN when the cell was empty or not a number.
// ComfortIndex and WeatherSeverity are nil when the dataset variant lacks
// those columns; when the column exists a blank cell parses to NaN like the
// other numeric fields.
//
// Cells holds the original CSV cells in header order so a filtered view can
// be exported byte-for-byte, including columns this service does not model.
// Rendering adapters build their own response types; Observation itself is
// never serialized because NaN has no JSON encoding.
type Observation struct {
	Station     string
	Timestamp   time.Time
	Season      string
	TempAvg     float64
	RainTotal   float64
	HumidityAvg float64
	WindAvg     float64
	WindMax     float64

	ComfortIndex    *float64
	WeatherSeverity *float64

	Cells []string
}

// ParseTimestamp parses a Period cell. The zero time and false are returned
// when the cell is empty or matches no known layout; parsing never fails
// with an error so that malformed rows stay in the dataset.
func ParseTimestamp(cell string) (time.Time, bool) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return time.Time{}, false
	}
	for _, layout := range periodLayouts {
		if t, err := time.Parse(layout, cell); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseFloat parses a numeric cell, returning NaN for empty or malformed
// values. Mirrors the upstream report generator, which leaves unmeasured
// values blank rather than writing a sentinel.
func ParseFloat(cell string) float64 {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// Date reports the date portion of the observation timestamp in UTC.
func (o *Observation) Date() time.Time {
	t := o.Timestamp.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// HasTimestamp reports whether the Period cell parsed.
func (o *Observation) HasTimestamp() bool {
	return !o.Timestamp.IsZero()
}
