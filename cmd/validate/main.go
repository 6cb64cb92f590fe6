// Command validate runs integrity checks against a FAWN report CSV before it
// is deployed behind the dashboard: required columns, timestamp parse rate,
// physical value ranges, and station coverage. Exit code 1 means at least one
// phase failed.
//
// Usage:
//
//	go run ./cmd/validate -csv data/FAWN_Newreport_features.csv
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"math"
	"os"

	"github.com/fawnlabs/weather-dashboard/internal/dataset"
	"github.com/fawnlabs/weather-dashboard/internal/domain"
)

// phase tracks pass/fail for one validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	csvPath := flag.String("csv", "", "path to FAWN report CSV")
	maxCoerced := flag.Float64("max-coerced", 0.05, "maximum tolerated fraction of unparseable Period cells")
	flag.Parse()

	if *csvPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*csvPath, *maxCoerced); code != 0 {
		os.Exit(code)
	}
}

func run(csvPath string, maxCoerced float64) int {
	fmt.Println("=== FAWN Report Validation ===")
	fmt.Println()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	loader := dataset.NewLoader(logger, false)

	ds, err := loader.Load(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load CSV: %v\n", err)
		return 1
	}

	phases := []*phase{
		validateSchema(ds),
		validateTimestamps(ds, maxCoerced),
		validateRanges(ds),
		validateCoverage(ds),
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-42s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Rows: %d, stations: %d, coerced timestamps: %d\n",
		len(ds.Rows), len(ds.Stations()), ds.CoercedTimestamps)
	fmt.Printf("Optional columns: Season=%v, Comfort_Index=%v, Weather_Severity=%v\n",
		ds.HasSeason, ds.HasComfort, ds.HasSeverity)

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			if i == 20 {
				fmt.Printf("  ... and %d more\n", len(p.errors)-20)
				break
			}
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

// ── Phase 1: Schema ──
// Verifies the required columns exist and no row is empty.

func validateSchema(ds *dataset.Dataset) *phase {
	p := &phase{name: "Phase 1: Schema (required columns)"}

	required := []string{
		domain.ColStation, domain.ColPeriod, domain.ColTempAvg,
		domain.ColRainTot, domain.ColHumidity, domain.ColWindAvg, domain.ColWindMax,
	}
	have := map[string]bool{}
	for _, h := range ds.Header {
		have[h] = true
	}
	for _, col := range required {
		if !have[col] {
			p.errorf("missing required column %q", col)
		}
	}

	if len(ds.Rows) == 0 {
		p.errorf("no data rows")
	}
	for i := range ds.Rows {
		if ds.Rows[i].Station == "" {
			p.errorf("row %d: empty station name", i+2)
		}
	}
	return p
}

// ── Phase 2: Timestamps ──
// The dashboard tolerates unparseable Period cells but a high coerced
// fraction usually means a new export format upstream.

func validateTimestamps(ds *dataset.Dataset, maxCoerced float64) *phase {
	p := &phase{name: "Phase 2: Timestamps (parse rate)"}

	if len(ds.Rows) == 0 {
		return p
	}
	frac := float64(ds.CoercedTimestamps) / float64(len(ds.Rows))
	if frac > maxCoerced {
		p.errorf("%d of %d Period cells unparseable (%.1f%% > %.1f%% tolerated)",
			ds.CoercedTimestamps, len(ds.Rows), frac*100, maxCoerced*100)
	}

	if minDate, maxDate, ok := ds.DateBounds(); ok {
		if maxDate.Before(minDate) {
			p.errorf("date bounds inverted: %s > %s", minDate, maxDate)
		}
	} else {
		p.errorf("no row has a parseable timestamp")
	}
	return p
}

// ── Phase 3: Value ranges ──
// Physical sanity checks; NaN cells are allowed and skipped.

func validateRanges(ds *dataset.Dataset) *phase {
	p := &phase{name: "Phase 3: Value ranges (physical sanity)"}

	for i := range ds.Rows {
		o := &ds.Rows[i]
		line := i + 2

		if !math.IsNaN(o.TempAvg) && (o.TempAvg < -40 || o.TempAvg > 130) {
			p.errorf("row %d: temperature %.2f F out of range [-40, 130]", line, o.TempAvg)
		}
		if !math.IsNaN(o.RainTotal) && o.RainTotal < 0 {
			p.errorf("row %d: negative rainfall %.2f in", line, o.RainTotal)
		}
		if !math.IsNaN(o.HumidityAvg) && (o.HumidityAvg < 0 || o.HumidityAvg > 100) {
			p.errorf("row %d: humidity %.2f%% out of range [0, 100]", line, o.HumidityAvg)
		}
		if !math.IsNaN(o.WindAvg) && o.WindAvg < 0 {
			p.errorf("row %d: negative wind average %.2f mph", line, o.WindAvg)
		}
		if !math.IsNaN(o.WindAvg) && !math.IsNaN(o.WindMax) && o.WindMax < o.WindAvg {
			p.errorf("row %d: wind max %.2f below wind average %.2f", line, o.WindMax, o.WindAvg)
		}
	}
	return p
}

// ── Phase 4: Coverage ──
// Each station should contribute enough rows for per-station statistics
// (the std-dev panel needs at least two).

func validateCoverage(ds *dataset.Dataset) *phase {
	p := &phase{name: "Phase 4: Coverage (rows per station)"}

	counts := map[string]int{}
	for i := range ds.Rows {
		counts[ds.Rows[i].Station]++
	}
	for _, station := range ds.Stations() {
		if counts[station] < 2 {
			p.errorf("station %q has only %d row(s)", station, counts[station])
		}
	}
	return p
}
