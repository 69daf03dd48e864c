package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonthlyBucketsAlwaysTwelveZeroFilled(t *testing.T) {
	now := time.Date(2026, time.August, 15, 10, 0, 0, 0, time.UTC)

	buckets := MonthlyBuckets(now, nil)
	require.Len(t, buckets, 12)
	assert.Equal(t, MonthBucket{Year: 2025, Month: 9}, buckets[0])
	assert.Equal(t, MonthBucket{Year: 2026, Month: 8}, buckets[11])
	for _, b := range buckets {
		assert.Zero(t, b.Count)
	}
}

func TestMonthlyBucketsPlacesCounts(t *testing.T) {
	now := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	raw := map[[2]int]int{
		{2025, 4}:  3, // oldest month in range
		{2025, 12}: 7,
		{2026, 3}:  2, // current month
		{2024, 3}:  99, // outside the window, ignored
	}

	buckets := MonthlyBuckets(now, raw)
	require.Len(t, buckets, 12)
	assert.Equal(t, MonthBucket{Year: 2025, Month: 4, Count: 3}, buckets[0])
	assert.Equal(t, MonthBucket{Year: 2025, Month: 12, Count: 7}, buckets[8])
	assert.Equal(t, MonthBucket{Year: 2026, Month: 3, Count: 2}, buckets[11])

	total := 0
	for _, b := range buckets {
		total += b.Count
	}
	assert.Equal(t, 12, total)
}

func TestMonthlyBucketsCrossesYearBoundaryConsecutively(t *testing.T) {
	now := time.Date(2026, time.January, 31, 23, 0, 0, 0, time.UTC)

	buckets := MonthlyBuckets(now, nil)
	require.Len(t, buckets, 12)
	assert.Equal(t, 2025, buckets[0].Year)
	assert.Equal(t, 2, buckets[0].Month)
	for i := 1; i < len(buckets); i++ {
		prev, cur := buckets[i-1], buckets[i]
		expectedMonth := prev.Month%12 + 1
		assert.Equal(t, expectedMonth, cur.Month)
		if expectedMonth == 1 {
			assert.Equal(t, prev.Year+1, cur.Year)
		} else {
			assert.Equal(t, prev.Year, cur.Year)
		}
	}
}
