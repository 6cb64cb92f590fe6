package http

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/render"

	"github.com/fawnlabs/weather-dashboard/internal/dataset"
	"github.com/fawnlabs/weather-dashboard/internal/domain"
	"github.com/fawnlabs/weather-dashboard/internal/explore"
)

const dateLayout = "2006-01-02"

// parseCriteria reads the shared filter query parameters. Malformed bounds
// are rejected here; the engine itself assumes well-formed criteria.
func parseCriteria(r *http.Request) (explore.Criteria, string) {
	q := r.URL.Query()
	c := explore.Criteria{
		Station: q.Get("station"),
		Season:  q.Get("season"),
	}

	if v := q.Get("start"); v != "" {
		t, err := time.Parse(dateLayout, v)
		if err != nil {
			return c, "invalid start date, want YYYY-MM-DD"
		}
		c.StartDate = &t
	}
	if v := q.Get("end"); v != "" {
		t, err := time.Parse(dateLayout, v)
		if err != nil {
			return c, "invalid end date, want YYYY-MM-DD"
		}
		c.EndDate = &t
	}
	if v := q.Get("temp_min"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return c, "invalid temp_min"
		}
		c.TempMin = &f
	}
	if v := q.Get("temp_max"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return c, "invalid temp_max"
		}
		c.TempMax = &f
	}

	if err := c.Validate(); err != nil {
		return c, err.Error()
	}
	return c, ""
}

// query runs the shared load-filter pass for an endpoint. It writes the
// error response itself and returns ok=false when the request cannot
// proceed.
func (s *Server) query(w http.ResponseWriter, r *http.Request, endpoint string) (*dataset.Dataset, []domain.Observation, bool) {
	start := time.Now()

	ds, err := s.store.Get(s.cfg.DataPath)
	if err != nil {
		s.logger.Error("dataset load failed", "error", err)
		unavailable(w, r, "weather data unavailable")
		return nil, nil, false
	}

	crit, msg := parseCriteria(r)
	if msg != "" {
		badRequest(w, r, msg)
		return nil, nil, false
	}

	rows := explore.Apply(ds.Rows, crit)

	s.metrics.QueriesTotal.WithLabelValues(endpoint).Inc()
	s.metrics.QueryDuration.Observe(time.Since(start).Seconds())
	s.metrics.FilteredRows.Observe(float64(len(rows)))

	return ds, rows, true
}

// nullable maps NaN (which has no JSON encoding) to null at the API
// boundary; the engine keeps NaN internally per its empty-view contract.
func nullable(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

type filtersResponse struct {
	Stations []string `json:"stations"`
	Seasons  []string `json:"seasons,omitempty"`
	DateMin  *string  `json:"date_min"`
	DateMax  *string  `json:"date_max"`
	TempMin  *float64 `json:"temp_min"`
	TempMax  *float64 `json:"temp_max"`
}

// handleFilters reports the filter widget bounds for the full dataset.
func (s *Server) handleFilters(w http.ResponseWriter, r *http.Request) {
	ds, err := s.store.Get(s.cfg.DataPath)
	if err != nil {
		s.logger.Error("dataset load failed", "error", err)
		unavailable(w, r, "weather data unavailable")
		return
	}

	resp := filtersResponse{
		Stations: ds.Stations(),
		Seasons:  ds.Seasons(),
	}
	if minDate, maxDate, ok := ds.DateBounds(); ok {
		lo, hi := minDate.Format(dateLayout), maxDate.Format(dateLayout)
		resp.DateMin, resp.DateMax = &lo, &hi
	}
	if minTemp, maxTemp, ok := ds.TemperatureBounds(); ok {
		resp.TempMin, resp.TempMax = &minTemp, &maxTemp
	}
	render.JSON(w, r, resp)
}

type summaryResponse struct {
	TotalRows      int      `json:"total_rows"`
	Count          int      `json:"count"`
	AvgTemperature *float64 `json:"avg_temperature"`
	TotalRainfall  float64  `json:"total_rainfall"`
	AvgHumidity    *float64 `json:"avg_humidity"`
	AvgWind        *float64 `json:"avg_wind"`
	AvgComfort     *float64 `json:"avg_comfort,omitempty"`
	StationCount   int      `json:"station_count"`
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	ds, rows, ok := s.query(w, r, "summary")
	if !ok {
		return
	}

	sum := explore.Summarize(rows)
	resp := summaryResponse{
		TotalRows:      len(ds.Rows),
		Count:          sum.Count,
		AvgTemperature: nullable(sum.AvgTemperature),
		TotalRainfall:  sum.TotalRainfall,
		AvgHumidity:    nullable(sum.AvgHumidity),
		AvgWind:        nullable(sum.AvgWind),
		StationCount:   sum.StationCount,
	}
	if sum.HasComfort {
		resp.AvgComfort = nullable(sum.AvgComfort)
	}
	render.JSON(w, r, resp)
}

type stationStatsResponse struct {
	Station string   `json:"station"`
	Count   int      `json:"count"`
	Mean    *float64 `json:"mean"`
	Min     *float64 `json:"min"`
	Max     *float64 `json:"max"`
	StdDev  *float64 `json:"std_dev"`
}

func (s *Server) handleStationBreakdown(w http.ResponseWriter, r *http.Request) {
	_, rows, ok := s.query(w, r, "breakdown_stations")
	if !ok {
		return
	}

	breakdown := explore.StationBreakdown(rows)
	resp := make([]stationStatsResponse, 0, len(breakdown))
	for _, st := range breakdown {
		resp = append(resp, stationStatsResponse{
			Station: st.Station,
			Count:   st.Count,
			Mean:    nullable(st.Mean),
			Min:     nullable(st.Min),
			Max:     nullable(st.Max),
			StdDev:  nullable(st.StdDev),
		})
	}
	render.JSON(w, r, resp)
}

type seasonStatsResponse struct {
	Season string   `json:"season"`
	Count  int      `json:"count"`
	Min    *float64 `json:"min"`
	Q1     *float64 `json:"q1"`
	Median *float64 `json:"median"`
	Q3     *float64 `json:"q3"`
	Max    *float64 `json:"max"`
}

func (s *Server) handleSeasonBreakdown(w http.ResponseWriter, r *http.Request) {
	ds, rows, ok := s.query(w, r, "breakdown_seasons")
	if !ok {
		return
	}
	if !ds.HasSeason {
		notFound(w, r, "dataset has no Season column")
		return
	}

	breakdown := explore.SeasonBreakdown(rows)
	resp := make([]seasonStatsResponse, 0, len(breakdown))
	for _, st := range breakdown {
		resp = append(resp, seasonStatsResponse{
			Season: st.Season,
			Count:  st.Count,
			Min:    nullable(st.Min),
			Q1:     nullable(st.Q1),
			Median: nullable(st.Median),
			Q3:     nullable(st.Q3),
			Max:    nullable(st.Max),
		})
	}
	render.JSON(w, r, resp)
}

type binResponse struct {
	Lo    float64 `json:"lo"`
	Hi    float64 `json:"hi"`
	Count int     `json:"count"`
}

func toBins(bins []explore.Bin) []binResponse {
	out := make([]binResponse, 0, len(bins))
	for _, b := range bins {
		out = append(out, binResponse{Lo: b.Lo, Hi: b.Hi, Count: b.Count})
	}
	return out
}

type rainResponse struct {
	RainDays  int           `json:"rain_days"`
	Fraction  float64       `json:"rain_fraction"`
	Histogram []binResponse `json:"histogram"`
}

func (s *Server) handleRain(w http.ResponseWriter, r *http.Request) {
	_, rows, ok := s.query(w, r, "rain")
	if !ok {
		return
	}

	rain := explore.SummarizeRain(rows)
	// 30 bins over rain days only, matching the precipitation panel.
	hist := explore.Histogram(explore.FieldValues(rain.Rows, domain.FieldRainfall), 30)
	render.JSON(w, r, rainResponse{
		RainDays:  rain.RainDays,
		Fraction:  rain.Fraction,
		Histogram: toBins(hist),
	})
}

type windResponse struct {
	AvgWind   *float64      `json:"avg_wind"`
	MaxGust   *float64      `json:"max_gust"`
	Histogram []binResponse `json:"histogram"`
}

func (s *Server) handleWind(w http.ResponseWriter, r *http.Request) {
	_, rows, ok := s.query(w, r, "wind")
	if !ok {
		return
	}

	wind := explore.SummarizeWind(rows)
	hist := explore.Histogram(explore.FieldValues(rows, domain.FieldWindAvg), 30)
	render.JSON(w, r, windResponse{
		AvgWind:   nullable(wind.AvgWind),
		MaxGust:   nullable(wind.MaxGust),
		Histogram: toBins(hist),
	})
}

// fieldParam validates the field query parameter against the dataset
// variant. Returns ok=false after writing the error response.
func (s *Server) fieldParam(w http.ResponseWriter, r *http.Request, ds *dataset.Dataset) (domain.Field, bool) {
	f := domain.Field(r.URL.Query().Get("field"))
	if f == "" {
		f = domain.FieldTemperature
	}
	if !f.Valid() {
		badRequest(w, r, "unknown field "+strconv.Quote(string(f)))
		return f, false
	}
	if f == domain.FieldComfort && !ds.HasComfort {
		notFound(w, r, "dataset has no Comfort_Index column")
		return f, false
	}
	if f == domain.FieldSeverity && !ds.HasSeverity {
		notFound(w, r, "dataset has no Weather_Severity column")
		return f, false
	}
	return f, true
}

type histogramResponse struct {
	Field     string        `json:"field"`
	Bins      int           `json:"bins"`
	Histogram []binResponse `json:"histogram"`
}

func (s *Server) handleHistogram(w http.ResponseWriter, r *http.Request) {
	ds, rows, ok := s.query(w, r, "histogram")
	if !ok {
		return
	}
	field, ok := s.fieldParam(w, r, ds)
	if !ok {
		return
	}

	bins := s.cfg.DefaultHistogramBins
	if v := r.URL.Query().Get("bins"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			badRequest(w, r, "bins must be a positive integer")
			return
		}
		// Bin slices are allocated per request; clamp like scatter's n.
		bins = min(n, s.cfg.MaxHistogramBins)
	}

	hist := explore.Histogram(explore.FieldValues(rows, field), bins)
	render.JSON(w, r, histogramResponse{
		Field:     string(field),
		Bins:      bins,
		Histogram: toBins(hist),
	})
}

type timePointResponse struct {
	Time  time.Time `json:"t"`
	Value float64   `json:"v"`
}

type timeSeriesResponse struct {
	Field  string              `json:"field"`
	Points []timePointResponse `json:"points"`
}

func (s *Server) handleTimeSeries(w http.ResponseWriter, r *http.Request) {
	ds, rows, ok := s.query(w, r, "timeseries")
	if !ok {
		return
	}
	field, ok := s.fieldParam(w, r, ds)
	if !ok {
		return
	}

	series := explore.TimeSeries(rows, field)
	points := make([]timePointResponse, 0, len(series))
	for _, p := range series {
		points = append(points, timePointResponse{Time: p.Time, Value: p.Value})
	}
	render.JSON(w, r, timeSeriesResponse{Field: string(field), Points: points})
}

type scatterPointResponse struct {
	X    float64  `json:"x"`
	Y    float64  `json:"y"`
	Rain *float64 `json:"rain,omitempty"`
}

type scatterResponse struct {
	XField string                 `json:"x_field"`
	YField string                 `json:"y_field"`
	Points []scatterPointResponse `json:"points"`
}

// handleScatter returns a bounded random sample of (x, y) pairs, with
// rainfall carried along for color scales.
func (s *Server) handleScatter(w http.ResponseWriter, r *http.Request) {
	ds, rows, ok := s.query(w, r, "scatter")
	if !ok {
		return
	}

	q := r.URL.Query()
	xf := domain.Field(q.Get("x"))
	if xf == "" {
		xf = domain.FieldTemperature
	}
	yf := domain.Field(q.Get("y"))
	if yf == "" {
		yf = domain.FieldHumidity
	}
	for _, f := range []domain.Field{xf, yf} {
		if !f.Valid() {
			badRequest(w, r, "unknown field "+strconv.Quote(string(f)))
			return
		}
		if (f == domain.FieldComfort && !ds.HasComfort) || (f == domain.FieldSeverity && !ds.HasSeverity) {
			notFound(w, r, "dataset has no "+string(f)+" column")
			return
		}
	}

	n := s.cfg.MaxSamplePoints
	if v := q.Get("n"); v != "" {
		req, err := strconv.Atoi(v)
		if err != nil || req < 1 {
			badRequest(w, r, "n must be a positive integer")
			return
		}
		n = min(req, s.cfg.MaxSamplePoints)
	}

	sampled := explore.Sample(rows, n)
	points := make([]scatterPointResponse, 0, len(sampled))
	for i := range sampled {
		o := &sampled[i]
		x, okX := xf.Value(o)
		y, okY := yf.Value(o)
		if !okX || !okY || math.IsNaN(x) || math.IsNaN(y) {
			continue
		}
		points = append(points, scatterPointResponse{X: x, Y: y, Rain: nullable(o.RainTotal)})
	}
	render.JSON(w, r, scatterResponse{XField: string(xf), YField: string(yf), Points: points})
}

type observationsResponse struct {
	Total    int        `json:"total"`
	Returned int        `json:"returned"`
	Header   []string   `json:"header"`
	Rows     [][]string `json:"rows"`
}

// handleObservations returns the head of the filtered view as raw cells for
// the data-explorer table.
func (s *Server) handleObservations(w http.ResponseWriter, r *http.Request) {
	ds, rows, ok := s.query(w, r, "observations")
	if !ok {
		return
	}

	limit := 100
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			badRequest(w, r, "limit must be a positive integer")
			return
		}
		limit = n
	}

	head := rows
	if len(head) > limit {
		head = head[:limit]
	}
	cells := make([][]string, 0, len(head))
	for i := range head {
		cells = append(cells, head[i].Cells)
	}
	render.JSON(w, r, observationsResponse{
		Total:    len(rows),
		Returned: len(cells),
		Header:   ds.Header,
		Rows:     cells,
	})
}

// handleExport streams the filtered view as a CSV download named with the
// current date.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	ds, rows, ok := s.query(w, r, "export")
	if !ok {
		return
	}

	filename := dataset.ExportFilename(s.cfg.ExportPrefix)
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)

	if err := dataset.Export(w, ds.Header, rows); err != nil {
		s.logger.Error("csv export failed", "error", err)
		return
	}
	s.metrics.ExportsTotal.Inc()
}
