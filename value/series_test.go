package value

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arvihall/spine/sptime"
)

func d(n int) time.Time { return time.Date(2000, 1, n, 0, 0, 0, 0, time.UTC) }

func TestTimeSeriesStandardInstantLookup(t *testing.T) {
	ts, err := NewTimeSeries([]time.Time{d(1), d(2), d(3)}, []float64{10, math.NaN(), 20}, false, false)
	require.NoError(t, err)

	v, err := ts.Evaluate(Args{HasT: true, T: AtInstant(d(1).Add(12 * time.Hour))})
	require.NoError(t, err)
	assert.Equal(t, 10.0, v)

	v, err = ts.Evaluate(Args{HasT: true, T: AtInstant(d(2))})
	require.NoError(t, err)
	assert.True(t, math.IsNaN(v.(float64)))

	v, err = ts.Evaluate(Args{HasT: true, T: AtInstant(d(1).Add(-time.Hour))})
	require.NoError(t, err)
	assert.Nil(t, v, "before the first index has no match")
}

func TestTimeSeriesSliceMeanSkipsNaN(t *testing.T) {
	ts, err := NewTimeSeries([]time.Time{d(1), d(2), d(3)}, []float64{10, math.NaN(), 20}, false, false)
	require.NoError(t, err)

	slice := sptime.New(d(1), d(4))
	v, err := ts.Evaluate(Args{HasT: true, T: AtSlice(slice)})
	require.NoError(t, err)
	assert.Equal(t, 15.0, v)
}

func TestTimeSeriesSliceOutOfRangeIsNothing(t *testing.T) {
	ts, err := NewTimeSeries([]time.Time{d(1), d(2), d(3)}, []float64{10, math.NaN(), 20}, false, false)
	require.NoError(t, err)

	slice := sptime.New(time.Date(1999, 12, 1, 0, 0, 0, 0, time.UTC), time.Date(1999, 12, 31, 0, 0, 0, 0, time.UTC))
	v, err := ts.Evaluate(Args{HasT: true, T: AtSlice(slice)})
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestTimeSeriesArrayKeywordUnsupported(t *testing.T) {
	ts, err := NewTimeSeries([]time.Time{d(1)}, []float64{1}, false, false)
	require.NoError(t, err)
	v, err := ts.Evaluate(Args{HasI: true, I: 1})
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestTimeSeriesIgnoreYearDisablesAfterLastCutoff(t *testing.T) {
	ts, err := NewTimeSeries([]time.Time{d(1), d(2)}, []float64{1, 2}, true, false)
	require.NoError(t, err)

	future := time.Date(2037, 1, 2, 12, 0, 0, 0, time.UTC)
	v, err := ts.Evaluate(Args{HasT: true, T: AtInstant(future)})
	require.NoError(t, err)
	assert.Equal(t, 2.0, v, "ignore_year realigns the query onto the index's own year before lookup")
}

func TestRepeatingSeriesInvariantUnderWholePeriodShift(t *testing.T) {
	ts, err := NewTimeSeries([]time.Time{d(1), d(1).Add(12 * time.Hour)}, []float64{1, 3}, false, true)
	require.NoError(t, err)

	base := d(1).Add(3 * time.Hour)
	shifted := base.Add(2 * ts.span)

	v1, err := ts.Evaluate(Args{HasT: true, T: AtInstant(base)})
	require.NoError(t, err)
	v2, err := ts.Evaluate(Args{HasT: true, T: AtInstant(shifted)})
	require.NoError(t, err)
	assert.Equal(t, v1, v2)
}

func TestRepeatingSeriesSliceSamePeriodMatchesDirectSlice(t *testing.T) {
	ts, err := NewTimeSeries([]time.Time{d(1), d(1).Add(12 * time.Hour)}, []float64{1, 3}, false, true)
	require.NoError(t, err)

	base := d(1)
	direct := sptime.New(base, base.Add(12*time.Hour))
	shiftedSlice := sptime.New(base.Add(2*ts.span), base.Add(2*ts.span+12*time.Hour))

	v1, err := ts.Evaluate(Args{HasT: true, T: AtSlice(direct)})
	require.NoError(t, err)
	v2, err := ts.Evaluate(Args{HasT: true, T: AtSlice(shiftedSlice)})
	require.NoError(t, err)
	assert.Equal(t, v1, v2)
	assert.Equal(t, 2.0, v1)
}

func TestRepeatingSeriesWeightedMeanAcrossMultiplePeriods(t *testing.T) {
	base := d(1)
	ts, err := NewTimeSeries(
		[]time.Time{base, base.Add(8 * time.Hour), base.Add(16 * time.Hour)},
		[]float64{1, 2, 3},
		false, true,
	)
	require.NoError(t, err)
	require.Equal(t, 16*time.Hour, ts.span)
	require.Equal(t, 6.0, ts.valsum)
	require.Equal(t, 3, ts.length)

	slice := sptime.New(base.Add(4*time.Hour), base.Add(36*time.Hour))
	v, err := ts.Evaluate(Args{HasT: true, T: AtSlice(slice)})
	require.NoError(t, err)
	assert.InDelta(t, 13.0/7.0, v.(float64), 1e-9)
}

func TestTimeSeriesFreshnessRegistersObserver(t *testing.T) {
	ts, err := NewTimeSeries([]time.Time{d(1), d(2), d(3)}, []float64{10, 15, 20}, false, false)
	require.NoError(t, err)

	slice := sptime.New(d(1), d(1).Add(6*time.Hour))
	fired := false
	_, err = ts.Evaluate(Args{HasT: true, T: AtSlice(slice), OnStale: func() { fired = true }})
	require.NoError(t, err)
	assert.Equal(t, 1, slice.PendingObserverCount())

	slice.Roll(18*time.Hour, true)
	assert.True(t, fired, "the next index transition at day 2 should have fired after rolling past it")
}
