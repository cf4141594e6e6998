package value

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arvihall/spine/sptime"
)

func businessHours(val float64) PatternEntry {
	return PatternEntry{
		Periods: sptime.PeriodCollection{Intersections: []sptime.Intersection{
			{Intervals: []sptime.Interval{{Field: sptime.FieldHour, Lower: 9, Upper: 17}}},
		}},
		Value: val,
	}
}

func offHours(val float64) PatternEntry {
	return PatternEntry{
		Periods: sptime.PeriodCollection{Intersections: []sptime.Intersection{
			{Intervals: []sptime.Interval{{Field: sptime.FieldHour, Lower: 1, Upper: 8}}},
		}},
		Value: val,
	}
}

func TestTimePatternNoKeywordReturnsEntries(t *testing.T) {
	tp := NewTimePattern([]PatternEntry{businessHours(100)})
	v, err := tp.Evaluate(Args{})
	require.NoError(t, err)
	assert.Equal(t, tp.Entries, v)
}

func TestTimePatternInstantMeanOfMatchingEntries(t *testing.T) {
	tp := NewTimePattern([]PatternEntry{businessHours(100), offHours(20)})

	noon := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	v, err := tp.Evaluate(Args{HasT: true, T: AtInstant(noon)})
	require.NoError(t, err)
	assert.Equal(t, 100.0, v)

	evening := time.Date(2024, 3, 1, 20, 30, 0, 0, time.UTC)
	v, err = tp.Evaluate(Args{HasT: true, T: AtInstant(evening)})
	require.NoError(t, err)
	assert.Nil(t, v, "neither interval contains hour 21 (20:00-21:00) under 1-based hour fields")
}

func TestTimePatternSliceOverlapMeanSkipsNaN(t *testing.T) {
	tp := NewTimePattern([]PatternEntry{businessHours(100), offHours(math.NaN())})

	full := sptime.New(
		time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC),
	)
	v, err := tp.Evaluate(Args{HasT: true, T: AtSlice(full)})
	require.NoError(t, err)
	assert.Equal(t, 100.0, v, "the off-hours entry overlaps but is NaN and should be skipped")
}

func TestTimePatternArrayKeywordUnsupported(t *testing.T) {
	tp := NewTimePattern([]PatternEntry{businessHours(100)})
	v, err := tp.Evaluate(Args{HasI: true, I: 1})
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestTimePatternFreshnessRegistersAtNextBoundary(t *testing.T) {
	tp := NewTimePattern([]PatternEntry{businessHours(100)})
	slice := sptime.New(
		time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
	)
	fired := false
	_, err := tp.Evaluate(Args{HasT: true, T: AtSlice(slice), OnStale: func() { fired = true }})
	require.NoError(t, err)
	assert.Equal(t, 1, slice.PendingObserverCount())

	slice.Roll(15*time.Hour, true)
	assert.True(t, fired, "precision is Hour, so the boundary at the next hour must have fired")
}
