package explore

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fawnlabs/weather-dashboard/internal/domain"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ptr[T any](v T) *T { return &v }

func obs(station string, ts time.Time, season string, temp float64) domain.Observation {
	return domain.Observation{
		Station:     station,
		Timestamp:   ts,
		Season:      season,
		TempAvg:     temp,
		RainTotal:   0,
		HumidityAvg: 70,
		WindAvg:     5,
		WindMax:     10,
	}
}

func testRows() []domain.Observation {
	return []domain.Observation{
		obs("Alachua", date(2024, 1, 10), "Winter", 52.0),
		obs("Alachua", date(2024, 6, 10), "Summer", 82.0),
		obs("Bronson", date(2024, 6, 11), "Summer", 79.5),
		obs("Citra", date(2024, 9, 20), "Fall", 74.0),
		obs("Citra", time.Time{}, "Fall", 71.0), // unparseable Period
	}
}

func TestCriteriaValidate(t *testing.T) {
	t.Run("empty criteria", func(t *testing.T) {
		assert.NoError(t, Criteria{}.Validate())
	})

	t.Run("ordered bounds", func(t *testing.T) {
		c := Criteria{
			StartDate: ptr(date(2024, 1, 1)),
			EndDate:   ptr(date(2024, 12, 31)),
			TempMin:   ptr(50.0),
			TempMax:   ptr(90.0),
		}
		assert.NoError(t, c.Validate())
	})

	t.Run("equal bounds are valid", func(t *testing.T) {
		d := date(2024, 6, 10)
		c := Criteria{StartDate: &d, EndDate: &d, TempMin: ptr(80.0), TempMax: ptr(80.0)}
		assert.NoError(t, c.Validate())
	})

	t.Run("inverted dates", func(t *testing.T) {
		c := Criteria{StartDate: ptr(date(2024, 7, 1)), EndDate: ptr(date(2024, 6, 1))}
		require.Error(t, c.Validate())
	})

	t.Run("inverted temperatures", func(t *testing.T) {
		c := Criteria{TempMin: ptr(90.0), TempMax: ptr(50.0)}
		require.Error(t, c.Validate())
	})
}

func TestApply(t *testing.T) {
	rows := testRows()

	t.Run("no active criteria returns input unchanged", func(t *testing.T) {
		got := Apply(rows, Criteria{})
		assert.Len(t, got, len(rows))
		// Same backing slice, not a copy.
		assert.Equal(t, &rows[0], &got[0])
	})

	t.Run("station filter", func(t *testing.T) {
		got := Apply(rows, Criteria{Station: "Citra"})
		require.Len(t, got, 2)
		for _, o := range got {
			assert.Equal(t, "Citra", o.Station)
		}
	})

	t.Run("season filter", func(t *testing.T) {
		got := Apply(rows, Criteria{Season: "Summer"})
		assert.Len(t, got, 2)
	})

	t.Run("date range is inclusive", func(t *testing.T) {
		got := Apply(rows, Criteria{
			StartDate: ptr(date(2024, 6, 10)),
			EndDate:   ptr(date(2024, 6, 11)),
		})
		require.Len(t, got, 2)
		assert.Equal(t, "Alachua", got[0].Station)
		assert.Equal(t, "Bronson", got[1].Station)
	})

	t.Run("date filter drops rows without timestamps", func(t *testing.T) {
		got := Apply(rows, Criteria{StartDate: ptr(date(2020, 1, 1))})
		assert.Len(t, got, 4)
	})

	t.Run("temperature band", func(t *testing.T) {
		got := Apply(rows, Criteria{TempMin: ptr(70.0), TempMax: ptr(90.0)})
		assert.Len(t, got, 4)

		sum := Summarize(Apply(rows, Criteria{Station: "Alachua", TempMin: ptr(70.0), TempMax: ptr(90.0)}))
		assert.Equal(t, 1, sum.Count)
		assert.Equal(t, 82.0, sum.AvgTemperature)
	})

	t.Run("temperature filter drops NaN rows", func(t *testing.T) {
		withNaN := append(testRows(), obs("Alachua", date(2024, 6, 12), "Summer", math.NaN()))
		got := Apply(withNaN, Criteria{TempMin: ptr(0.0)})
		for _, o := range got {
			assert.False(t, math.IsNaN(o.TempAvg))
		}
	})

	t.Run("criteria intersect", func(t *testing.T) {
		got := Apply(rows, Criteria{
			Station:   "Alachua",
			StartDate: ptr(date(2024, 3, 1)),
			TempMin:   ptr(60.0),
		})
		require.Len(t, got, 1)
		assert.Equal(t, date(2024, 6, 10), got[0].Timestamp)
	})

	t.Run("input order preserved", func(t *testing.T) {
		got := Apply(rows, Criteria{Season: "Summer"})
		require.Len(t, got, 2)
		assert.True(t, got[0].Timestamp.Before(got[1].Timestamp))
	})

	t.Run("station filter feeds the mean", func(t *testing.T) {
		rows := []domain.Observation{
			obs("A", date(2024, 1, 1), "", 70),
			obs("B", date(2024, 1, 2), "", 80),
			obs("A", date(2024, 1, 3), "", 90),
		}
		got := Apply(rows, Criteria{Station: "A"})
		require.Len(t, got, 2)
		assert.Equal(t, 80.0, Summarize(got).AvgTemperature)
	})

	t.Run("no match yields empty view", func(t *testing.T) {
		got := Apply(rows, Criteria{Station: "Homestead"})
		assert.Empty(t, got)
	})
}
