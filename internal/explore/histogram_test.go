package explore

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistogram(t *testing.T) {
	t.Run("equal-width bins", func(t *testing.T) {
		out := Histogram([]float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 10}, 5)

		require.Len(t, out, 5)
		assert.Equal(t, 0.0, out[0].Lo)
		assert.Equal(t, 10.0, out[4].Hi)

		total := 0
		for _, b := range out {
			total += b.Count
		}
		assert.Equal(t, 10, total)
	})

	t.Run("maximum lands in final bin", func(t *testing.T) {
		out := Histogram([]float64{0, 5, 10}, 2)

		require.Len(t, out, 2)
		// 5 and 10 both land in the upper half-open bin.
		assert.Equal(t, 1, out[0].Count)
		assert.Equal(t, 2, out[1].Count)
		assert.Equal(t, 10.0, out[1].Hi)
	})

	t.Run("NaN values dropped", func(t *testing.T) {
		out := Histogram([]float64{1, math.NaN(), 2, math.NaN()}, 2)

		total := 0
		for _, b := range out {
			total += b.Count
		}
		assert.Equal(t, 2, total)
	})

	t.Run("empty input yields no bins", func(t *testing.T) {
		assert.Nil(t, Histogram(nil, 10))
		assert.Nil(t, Histogram([]float64{math.NaN()}, 10))
	})

	t.Run("identical values collapse to one bin", func(t *testing.T) {
		out := Histogram([]float64{3, 3, 3}, 10)

		require.Len(t, out, 1)
		assert.Equal(t, 3.0, out[0].Lo)
		assert.Equal(t, 3.0, out[0].Hi)
		assert.Equal(t, 3, out[0].Count)
	})

	t.Run("bin count floor is one", func(t *testing.T) {
		out := Histogram([]float64{1, 2}, 0)
		require.Len(t, out, 1)
		assert.Equal(t, 2, out[0].Count)
	})

	t.Run("bins are contiguous", func(t *testing.T) {
		out := Histogram([]float64{0, 1, 2, 3, 4, 5}, 4)
		require.Len(t, out, 4)
		for i := 1; i < len(out); i++ {
			assert.Equal(t, out[i-1].Hi, out[i].Lo)
		}
	})
}
