package http_test

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpadapter "github.com/fawnlabs/weather-dashboard/internal/adapter/http"
	"github.com/fawnlabs/weather-dashboard/internal/config"
	"github.com/fawnlabs/weather-dashboard/internal/dataset"
	"github.com/fawnlabs/weather-dashboard/internal/domain"
	"github.com/fawnlabs/weather-dashboard/internal/observability"
)

const fixtureCSV = `FAWN Station,Period,Season,2m T avg (F),2m Rain tot (in),RelHum avg 2m  (pct),10m Wind avg (mph),10m Wind max (mph),Comfort_Index,Weather_Severity
Alachua,2024-01-10,Winter,52.0,0.00,60.0,6.0,14.0,70.0,5.0
Alachua,2024-06-10,Summer,82.0,0.30,85.0,4.0,11.0,65.0,12.0
Bronson,2024-06-11,Summer,79.5,0.00,82.0,5.0,12.0,68.0,8.0
Citra,2024-09-20,Fall,74.0,1.20,88.0,3.0,9.0,72.0,20.0
Citra,bad-period,Fall,71.0,,80.0,4.5,10.0,75.0,3.0
`

func writeFixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "report.csv")
	require.NoError(t, os.WriteFile(path, []byte(fixtureCSV), 0o600))
	return path
}

func newTestServer(t *testing.T, dataPath string) *httpadapter.Server {
	t.Helper()
	cfg := &config.Config{
		DataPath:             dataPath,
		HTTPAddr:             ":0",
		ShutdownTimeout:      time.Second,
		MaxSamplePoints:      1000,
		DefaultHistogramBins: 10,
		MaxHistogramBins:     20,
		ExportPrefix:         "fawn_filtered",
	}
	logger := slog.New(slog.DiscardHandler)
	store := dataset.NewStore(dataset.NewLoader(logger, false))
	return httpadapter.NewServer(cfg, store, store, observability.NewMetricsForTesting(), logger)
}

func get(t *testing.T, srv *httpadapter.Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	srv.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t, writeFixture(t))
	rec := get(t, srv, "/healthz")

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string]string](t, rec)
	assert.Equal(t, "healthy", body["status"])
}

func TestReadyz(t *testing.T) {
	t.Run("503 before first load", func(t *testing.T) {
		srv := newTestServer(t, writeFixture(t))
		rec := get(t, srv, "/readyz")

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		body := decode[map[string]string](t, rec)
		assert.Equal(t, "not ready", body["status"])
	})

	t.Run("200 once loaded", func(t *testing.T) {
		srv := newTestServer(t, writeFixture(t))
		get(t, srv, "/api/v1/summary") // trigger the load

		rec := get(t, srv, "/readyz")
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t, writeFixture(t))
	rec := get(t, srv, "/metrics")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestFilters(t *testing.T) {
	srv := newTestServer(t, writeFixture(t))
	rec := get(t, srv, "/api/v1/filters")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode[struct {
		Stations []string `json:"stations"`
		Seasons  []string `json:"seasons"`
		DateMin  *string  `json:"date_min"`
		DateMax  *string  `json:"date_max"`
		TempMin  *float64 `json:"temp_min"`
		TempMax  *float64 `json:"temp_max"`
	}](t, rec)

	assert.Equal(t, []string{"Alachua", "Bronson", "Citra"}, body.Stations)
	assert.Equal(t, []string{"Fall", "Summer", "Winter"}, body.Seasons)
	require.NotNil(t, body.DateMin)
	assert.Equal(t, "2024-01-10", *body.DateMin)
	require.NotNil(t, body.DateMax)
	assert.Equal(t, "2024-09-20", *body.DateMax)
	require.NotNil(t, body.TempMin)
	assert.Equal(t, 52.0, *body.TempMin)
	require.NotNil(t, body.TempMax)
	assert.Equal(t, 82.0, *body.TempMax)
}

type summaryBody struct {
	TotalRows      int      `json:"total_rows"`
	Count          int      `json:"count"`
	AvgTemperature *float64 `json:"avg_temperature"`
	TotalRainfall  float64  `json:"total_rainfall"`
	StationCount   int      `json:"station_count"`
	AvgComfort     *float64 `json:"avg_comfort"`
}

func TestSummary(t *testing.T) {
	srv := newTestServer(t, writeFixture(t))

	t.Run("unfiltered", func(t *testing.T) {
		rec := get(t, srv, "/api/v1/summary")
		require.Equal(t, http.StatusOK, rec.Code)

		body := decode[summaryBody](t, rec)
		assert.Equal(t, 5, body.TotalRows)
		assert.Equal(t, 5, body.Count)
		assert.Equal(t, 3, body.StationCount)
		assert.InDelta(t, 1.5, body.TotalRainfall, 1e-9)
		require.NotNil(t, body.AvgTemperature)
		assert.InDelta(t, 71.7, *body.AvgTemperature, 1e-9)
		require.NotNil(t, body.AvgComfort)
		assert.InDelta(t, 70.0, *body.AvgComfort, 1e-9)
	})

	t.Run("station and temperature band", func(t *testing.T) {
		rec := get(t, srv, "/api/v1/summary?station=Alachua&temp_min=70&temp_max=90")
		require.Equal(t, http.StatusOK, rec.Code)

		body := decode[summaryBody](t, rec)
		assert.Equal(t, 5, body.TotalRows)
		assert.Equal(t, 1, body.Count)
		require.NotNil(t, body.AvgTemperature)
		assert.Equal(t, 82.0, *body.AvgTemperature)
	})

	t.Run("empty view renders null means", func(t *testing.T) {
		rec := get(t, srv, "/api/v1/summary?station=Homestead")
		require.Equal(t, http.StatusOK, rec.Code)

		body := decode[summaryBody](t, rec)
		assert.Zero(t, body.Count)
		assert.Nil(t, body.AvgTemperature)
		assert.Zero(t, body.TotalRainfall)
	})

	t.Run("date range", func(t *testing.T) {
		rec := get(t, srv, "/api/v1/summary?start=2024-06-01&end=2024-06-30")
		require.Equal(t, http.StatusOK, rec.Code)

		body := decode[summaryBody](t, rec)
		assert.Equal(t, 2, body.Count)
	})
}

func TestBadFilterParams(t *testing.T) {
	srv := newTestServer(t, writeFixture(t))

	tests := []struct {
		name string
		url  string
	}{
		{"malformed start date", "/api/v1/summary?start=June-1"},
		{"malformed end date", "/api/v1/summary?end=2024-13-99"},
		{"malformed temp_min", "/api/v1/summary?temp_min=warm"},
		{"inverted dates", "/api/v1/summary?start=2024-07-01&end=2024-06-01"},
		{"inverted temperatures", "/api/v1/summary?temp_min=90&temp_max=50"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, srv, tt.url)
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			body := decode[map[string]string](t, rec)
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestStationBreakdown(t *testing.T) {
	srv := newTestServer(t, writeFixture(t))
	rec := get(t, srv, "/api/v1/breakdown/stations")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode[[]struct {
		Station string   `json:"station"`
		Count   int      `json:"count"`
		Mean    *float64 `json:"mean"`
		StdDev  *float64 `json:"std_dev"`
	}](t, rec)

	require.Len(t, body, 3)
	// Ranked by mean temperature, highest first.
	assert.Equal(t, "Bronson", body[0].Station)
	assert.Equal(t, "Citra", body[1].Station)
	assert.Equal(t, "Alachua", body[2].Station)

	// Single-row station renders a null std dev.
	assert.Equal(t, 1, body[0].Count)
	assert.Nil(t, body[0].StdDev)
	require.NotNil(t, body[2].Mean)
	assert.Equal(t, 67.0, *body[2].Mean)
}

func TestSeasonBreakdown(t *testing.T) {
	srv := newTestServer(t, writeFixture(t))
	rec := get(t, srv, "/api/v1/breakdown/seasons")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode[[]struct {
		Season string   `json:"season"`
		Count  int      `json:"count"`
		Median *float64 `json:"median"`
	}](t, rec)

	require.Len(t, body, 3)
	assert.Equal(t, "Winter", body[0].Season)
	assert.Equal(t, "Summer", body[1].Season)
	assert.Equal(t, "Fall", body[2].Season)
	assert.Equal(t, 2, body[2].Count)
}

func TestRain(t *testing.T) {
	srv := newTestServer(t, writeFixture(t))
	rec := get(t, srv, "/api/v1/rain")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode[struct {
		RainDays int     `json:"rain_days"`
		Fraction float64 `json:"rain_fraction"`
	}](t, rec)

	assert.Equal(t, 2, body.RainDays)
	assert.InDelta(t, 0.4, body.Fraction, 1e-9)
}

func TestWind(t *testing.T) {
	srv := newTestServer(t, writeFixture(t))
	rec := get(t, srv, "/api/v1/wind")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode[struct {
		AvgWind *float64 `json:"avg_wind"`
		MaxGust *float64 `json:"max_gust"`
	}](t, rec)

	require.NotNil(t, body.MaxGust)
	assert.Equal(t, 14.0, *body.MaxGust)
	require.NotNil(t, body.AvgWind)
	assert.InDelta(t, 4.5, *body.AvgWind, 1e-9)
}

func TestHistogram(t *testing.T) {
	srv := newTestServer(t, writeFixture(t))

	t.Run("default field and bins", func(t *testing.T) {
		rec := get(t, srv, "/api/v1/histogram")
		require.Equal(t, http.StatusOK, rec.Code)

		body := decode[struct {
			Field     string `json:"field"`
			Bins      int    `json:"bins"`
			Histogram []struct {
				Count int `json:"count"`
			} `json:"histogram"`
		}](t, rec)

		assert.Equal(t, "temperature", body.Field)
		assert.Equal(t, 10, body.Bins)

		total := 0
		for _, b := range body.Histogram {
			total += b.Count
		}
		assert.Equal(t, 5, total)
	})

	t.Run("explicit field and bins", func(t *testing.T) {
		rec := get(t, srv, "/api/v1/histogram?field=humidity&bins=4")
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("unknown field", func(t *testing.T) {
		rec := get(t, srv, "/api/v1/histogram?field=pressure")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("invalid bins", func(t *testing.T) {
		rec := get(t, srv, "/api/v1/histogram?bins=zero")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("bins clamped to ceiling", func(t *testing.T) {
		rec := get(t, srv, "/api/v1/histogram?bins=1000000000")
		require.Equal(t, http.StatusOK, rec.Code)

		body := decode[struct {
			Bins      int `json:"bins"`
			Histogram []struct {
				Count int `json:"count"`
			} `json:"histogram"`
		}](t, rec)

		assert.Equal(t, 20, body.Bins)
		assert.LessOrEqual(t, len(body.Histogram), 20)
	})

	t.Run("optional field on base variant", func(t *testing.T) {
		base := "FAWN Station,Period,2m T avg (F),2m Rain tot (in),RelHum avg 2m  (pct),10m Wind avg (mph),10m Wind max (mph)\n" +
			"Citra,2024-01-15,55.0,0.0,60.0,6.0,14.0\n"
		path := filepath.Join(t.TempDir(), "base.csv")
		require.NoError(t, os.WriteFile(path, []byte(base), 0o600))

		srv := newTestServer(t, path)
		rec := get(t, srv, "/api/v1/histogram?field=comfort_index")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestTimeSeries(t *testing.T) {
	srv := newTestServer(t, writeFixture(t))
	rec := get(t, srv, "/api/v1/timeseries?field=temperature")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode[struct {
		Field  string `json:"field"`
		Points []struct {
			Time  time.Time `json:"t"`
			Value float64   `json:"v"`
		} `json:"points"`
	}](t, rec)

	// The bad-period row is excluded; points are time ascending.
	require.Len(t, body.Points, 4)
	assert.Equal(t, 52.0, body.Points[0].Value)
	for i := 1; i < len(body.Points); i++ {
		assert.True(t, body.Points[i-1].Time.Before(body.Points[i].Time))
	}
}

func TestScatter(t *testing.T) {
	srv := newTestServer(t, writeFixture(t))

	t.Run("default axes", func(t *testing.T) {
		rec := get(t, srv, "/api/v1/scatter")
		require.Equal(t, http.StatusOK, rec.Code)

		body := decode[struct {
			XField string `json:"x_field"`
			YField string `json:"y_field"`
			Points []struct {
				X    float64  `json:"x"`
				Y    float64  `json:"y"`
				Rain *float64 `json:"rain"`
			} `json:"points"`
		}](t, rec)

		assert.Equal(t, "temperature", body.XField)
		assert.Equal(t, "humidity", body.YField)
		assert.Len(t, body.Points, 5)
	})

	t.Run("sample bounded by n", func(t *testing.T) {
		rec := get(t, srv, "/api/v1/scatter?n=2")
		require.Equal(t, http.StatusOK, rec.Code)

		body := decode[struct {
			Points []json.RawMessage `json:"points"`
		}](t, rec)
		assert.LessOrEqual(t, len(body.Points), 2)
	})

	t.Run("unknown axis", func(t *testing.T) {
		rec := get(t, srv, "/api/v1/scatter?x=pressure")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("invalid n", func(t *testing.T) {
		rec := get(t, srv, "/api/v1/scatter?n=-3")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestObservations(t *testing.T) {
	srv := newTestServer(t, writeFixture(t))

	t.Run("head of filtered view", func(t *testing.T) {
		rec := get(t, srv, "/api/v1/observations?station=Citra&limit=1")
		require.Equal(t, http.StatusOK, rec.Code)

		body := decode[struct {
			Total    int        `json:"total"`
			Returned int        `json:"returned"`
			Header   []string   `json:"header"`
			Rows     [][]string `json:"rows"`
		}](t, rec)

		assert.Equal(t, 2, body.Total)
		assert.Equal(t, 1, body.Returned)
		assert.Equal(t, "FAWN Station", body.Header[0])
		require.Len(t, body.Rows, 1)
		assert.Equal(t, "Citra", body.Rows[0][0])
	})

	t.Run("invalid limit", func(t *testing.T) {
		rec := get(t, srv, "/api/v1/observations?limit=lots")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestExport(t *testing.T) {
	domain.SetClock(clockwork.NewFakeClockAt(
		time.Date(2026, time.August, 27, 12, 0, 0, 0, time.UTC),
	))
	defer domain.SetClock(nil)

	srv := newTestServer(t, writeFixture(t))
	rec := get(t, srv, "/api/v1/export?station=Alachua")
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="fawn_filtered_20260827.csv"`,
		rec.Header().Get("Content-Disposition"))

	want := "FAWN Station,Period,Season,2m T avg (F),2m Rain tot (in),RelHum avg 2m  (pct),10m Wind avg (mph),10m Wind max (mph),Comfort_Index,Weather_Severity\n" +
		"Alachua,2024-01-10,Winter,52.0,0.00,60.0,6.0,14.0,70.0,5.0\n" +
		"Alachua,2024-06-10,Summer,82.0,0.30,85.0,4.0,11.0,65.0,12.0\n"
	assert.Equal(t, want, rec.Body.String())
}

func TestDatasetUnavailable(t *testing.T) {
	srv := newTestServer(t, filepath.Join(t.TempDir(), "missing.csv"))

	for _, path := range []string{"/api/v1/summary", "/api/v1/filters", "/api/v1/export"} {
		rec := get(t, srv, path)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code, fmt.Sprintf("path %s", path))
	}
}
