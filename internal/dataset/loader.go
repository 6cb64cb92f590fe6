package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/fawnlabs/weather-dashboard/internal/domain"
)

// ErrDataUnavailable marks a missing or unreadable source file. The
// dashboard has no degraded mode: callers treat this as fatal.
var ErrDataUnavailable = errors.New("weather data unavailable")

// Dataset is a fully loaded FAWN report. It is immutable after Load; every
// consumer works on new slices derived from Rows.
type Dataset struct {
	Path   string
	Header []string
	Rows   []domain.Observation

	// Presence flags for columns that only some report variants carry.
	HasSeason   bool
	HasComfort  bool
	HasSeverity bool

	// CoercedTimestamps counts rows whose Period cell was present but did
	// not parse and was coerced to missing.
	CoercedTimestamps int

	LoadedAt time.Time
}

// Loader reads FAWN report CSVs into Datasets.
type Loader struct {
	logger *slog.Logger
	strict bool
}

// NewLoader creates a Loader. With strict set, a Period cell that is present
// but unparseable fails the whole load instead of being coerced to missing.
func NewLoader(logger *slog.Logger, strict bool) *Loader {
	return &Loader{logger: logger, strict: strict}
}

// Load reads the CSV at path. A missing or unreadable file returns an error
// wrapping ErrDataUnavailable. Rows are kept in file order; malformed
// numeric cells become NaN and malformed timestamps become the zero time
// (unless the loader is strict).
func (l *Loader) Load(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataUnavailable, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // tolerate ragged rows, missing cells read as blank
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrDataUnavailable, path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s has no header row", ErrDataUnavailable, path)
	}

	header := rows[0]
	colIdx := make(map[string]int, len(header))
	for i, h := range header {
		colIdx[strings.TrimSpace(h)] = i
	}

	ds := &Dataset{
		Path:        path,
		Header:      header,
		HasSeason:   has(colIdx, domain.ColSeason),
		HasComfort:  has(colIdx, domain.ColComfort),
		HasSeverity: has(colIdx, domain.ColSeverity),
		LoadedAt:    domain.Now(),
	}

	ds.Rows = make([]domain.Observation, 0, len(rows)-1)
	for n, row := range rows[1:] {
		obs, coerced, err := l.parseRow(row, colIdx, n+2)
		if err != nil {
			return nil, err
		}
		if coerced {
			ds.CoercedTimestamps++
		}
		ds.Rows = append(ds.Rows, obs)
	}

	l.logger.Info("dataset loaded",
		"path", path,
		"rows", len(ds.Rows),
		"coerced_timestamps", ds.CoercedTimestamps,
		"has_season", ds.HasSeason,
		"has_comfort", ds.HasComfort,
		"has_severity", ds.HasSeverity,
	)

	return ds, nil
}

// parseRow converts one CSV row. coerced is true when a non-empty Period
// cell failed to parse.
func (l *Loader) parseRow(row []string, colIdx map[string]int, line int) (domain.Observation, bool, error) {
	obs := domain.Observation{
		Station:     get(row, colIdx, domain.ColStation),
		Season:      get(row, colIdx, domain.ColSeason),
		TempAvg:     domain.ParseFloat(get(row, colIdx, domain.ColTempAvg)),
		RainTotal:   domain.ParseFloat(get(row, colIdx, domain.ColRainTot)),
		HumidityAvg: domain.ParseFloat(get(row, colIdx, domain.ColHumidity)),
		WindAvg:     domain.ParseFloat(get(row, colIdx, domain.ColWindAvg)),
		WindMax:     domain.ParseFloat(get(row, colIdx, domain.ColWindMax)),
		Cells:       row,
	}

	if has(colIdx, domain.ColComfort) {
		v := domain.ParseFloat(get(row, colIdx, domain.ColComfort))
		obs.ComfortIndex = &v
	}
	if has(colIdx, domain.ColSeverity) {
		v := domain.ParseFloat(get(row, colIdx, domain.ColSeverity))
		obs.WeatherSeverity = &v
	}

	coerced := false
	cell := get(row, colIdx, domain.ColPeriod)
	if ts, ok := domain.ParseTimestamp(cell); ok {
		obs.Timestamp = ts
	} else if cell != "" {
		if l.strict {
			return domain.Observation{}, false, fmt.Errorf("line %d: unparseable %s cell %q", line, domain.ColPeriod, cell)
		}
		coerced = true
	}

	return obs, coerced, nil
}

// Stations returns the distinct station names, sorted.
func (d *Dataset) Stations() []string {
	return distinct(d.Rows, func(o *domain.Observation) string { return o.Station })
}

// Seasons returns the distinct season labels, sorted. Empty when the report
// variant has no Season column.
func (d *Dataset) Seasons() []string {
	if !d.HasSeason {
		return nil
	}
	return distinct(d.Rows, func(o *domain.Observation) string { return o.Season })
}

// DateBounds reports the earliest and latest observation dates. ok is false
// when no row has a parseable timestamp.
func (d *Dataset) DateBounds() (minDate, maxDate time.Time, ok bool) {
	for i := range d.Rows {
		o := &d.Rows[i]
		if !o.HasTimestamp() {
			continue
		}
		date := o.Date()
		if !ok || date.Before(minDate) {
			minDate = date
		}
		if !ok || date.After(maxDate) {
			maxDate = date
		}
		ok = true
	}
	return minDate, maxDate, ok
}

// TemperatureBounds reports the minimum and maximum average temperature,
// skipping NaN cells. ok is false when no row has a temperature.
func (d *Dataset) TemperatureBounds() (minTemp, maxTemp float64, ok bool) {
	for i := range d.Rows {
		v := d.Rows[i].TempAvg
		if math.IsNaN(v) {
			continue
		}
		if !ok || v < minTemp {
			minTemp = v
		}
		if !ok || v > maxTemp {
			maxTemp = v
		}
		ok = true
	}
	return minTemp, maxTemp, ok
}

func distinct(rows []domain.Observation, key func(*domain.Observation) string) []string {
	seen := make(map[string]struct{})
	var out []string
	for i := range rows {
		k := key(&rows[i])
		if k == "" {
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

func has(idx map[string]int, col string) bool {
	_, ok := idx[col]
	return ok
}

func get(row []string, idx map[string]int, col string) string {
	i, ok := idx[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
