package sptime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPeriodCollectionMatchesInstant(t *testing.T) {
	// June, any year: {M: [6,6]}
	june := PeriodCollection{Intersections: []Intersection{
		{Intervals: []Interval{{Field: FieldMonth, Lower: 6, Upper: 6}}},
	}}

	assert.True(t, june.Matches(time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)))
	assert.False(t, june.Matches(time.Date(2024, 7, 15, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, PrecisionMonth, june.Precision())
}

func TestPeriodCollectionUnionOfIntersections(t *testing.T) {
	// {M: [12,12]} union {M: [1,1]} - December or January
	winterEdges := PeriodCollection{Intersections: []Intersection{
		{Intervals: []Interval{{Field: FieldMonth, Lower: 12, Upper: 12}}},
		{Intervals: []Interval{{Field: FieldMonth, Lower: 1, Upper: 1}}},
	}}

	assert.True(t, winterEdges.Matches(time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, winterEdges.Matches(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.False(t, winterEdges.Matches(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)))
}

func TestOverlapHourlyPattern(t *testing.T) {
	// Business hours 09:00-18:00: h in [10,18] (1-based, so h=10 is 09:00-10:00)
	business := PeriodCollection{Intersections: []Intersection{
		{Intervals: []Interval{{Field: FieldHour, Lower: 10, Upper: 18}}},
	}}

	morning := New(
		time.Date(2024, 3, 1, 7, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 1, 8, 30, 0, 0, time.UTC),
	)
	assert.False(t, Overlap(morning, business))

	spanningOpen := New(
		time.Date(2024, 3, 1, 8, 30, 0, 0, time.UTC),
		time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC),
	)
	assert.True(t, Overlap(spanningOpen, business))

	fullDay := New(
		time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC),
	)
	assert.True(t, Overlap(fullDay, business))
}

func TestOverlapLongSliceCoversFullCycle(t *testing.T) {
	// A multi-year slice necessarily touches every month.
	march := PeriodCollection{Intersections: []Intersection{
		{Intervals: []Interval{{Field: FieldMonth, Lower: 3, Upper: 3}}},
	}}
	decade := New(
		time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2010, 1, 1, 0, 0, 0, 0, time.UTC),
	)
	assert.True(t, Overlap(decade, march))
}
