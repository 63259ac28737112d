package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDailyBucketsGapFills(t *testing.T) {
	start := day(2026, time.March, 1)
	end := day(2026, time.March, 7)

	records := []DayRecord{
		{Date: day(2026, time.March, 2), Opens: 10, Clicks: 2},
		{Date: day(2026, time.March, 5), Opens: 5, Bounces: 1, Unsubscribes: 3},
	}

	buckets := DailyBuckets(start, end, records)
	require.Len(t, buckets, 7)

	assert.Equal(t, "2026-03-01", buckets[0].Date)
	assert.Equal(t, "2026-03-07", buckets[6].Date)

	// Days without a record are present with zero counters.
	assert.Equal(t, DayBucket{Date: "2026-03-01"}, buckets[0])
	assert.Equal(t, DayBucket{Date: "2026-03-02", Opens: 10, Clicks: 2}, buckets[1])
	assert.Equal(t, DayBucket{Date: "2026-03-05", Opens: 5, Bounces: 1, Unsubscribes: 3}, buckets[4])
}

func TestDailyBucketsAscendingAndContiguous(t *testing.T) {
	start := day(2026, time.January, 28)
	end := day(2026, time.February, 3)

	buckets := DailyBuckets(start, end, nil)
	require.Len(t, buckets, 7)

	prev, err := time.Parse("2006-01-02", buckets[0].Date)
	require.NoError(t, err)
	for _, b := range buckets[1:] {
		cur, err := time.Parse("2006-01-02", b.Date)
		require.NoError(t, err)
		assert.Equal(t, prev.AddDate(0, 0, 1), cur)
		prev = cur
	}
}

func TestDailyBucketsSingleDayWindow(t *testing.T) {
	d := day(2026, time.June, 15)
	buckets := DailyBuckets(d, d, []DayRecord{{Date: d, Opens: 4}})
	require.Len(t, buckets, 1)
	assert.Equal(t, DayBucket{Date: "2026-06-15", Opens: 4}, buckets[0])
}

func TestDailyBucketsInvertedWindow(t *testing.T) {
	buckets := DailyBuckets(day(2026, time.June, 15), day(2026, time.June, 10), nil)
	assert.Empty(t, buckets)
}

func TestDailyBucketsSumsSameDayRecords(t *testing.T) {
	d := day(2026, time.April, 10)
	records := []DayRecord{
		{Date: d, Opens: 3, Clicks: 1},
		{Date: d.Add(9 * time.Hour), Opens: 2, Unsubscribes: 1},
	}

	buckets := DailyBuckets(d, d, records)
	require.Len(t, buckets, 1)
	assert.Equal(t, 5, buckets[0].Opens)
	assert.Equal(t, 1, buckets[0].Clicks)
	assert.Equal(t, 1, buckets[0].Unsubscribes)
}

func TestDailyBucketsExcludesOutOfWindowRecords(t *testing.T) {
	start := day(2026, time.May, 10)
	end := day(2026, time.May, 12)
	records := []DayRecord{
		{Date: day(2026, time.May, 9), Opens: 100},
		{Date: day(2026, time.May, 13), Opens: 100},
		{Date: day(2026, time.May, 11), Opens: 7},
	}

	buckets := DailyBuckets(start, end, records)
	require.Len(t, buckets, 3)

	total := 0
	for _, b := range buckets {
		total += b.Opens
	}
	assert.Equal(t, 7, total)
}

func TestMonthlyBucketsRollup(t *testing.T) {
	now := day(2026, time.June, 20)

	may := day(2026, time.May, 5)
	march := day(2026, time.March, 14)
	lastYear := day(2025, time.June, 1)

	campaigns := []CampaignRollup{
		{SentAt: &may, Recipients: 200, OpenRate: 25, ClickRate: 5, Unsubscribes: 4},
		{SentAt: &march, Recipients: 100, OpenRate: 50, ClickRate: 10, Unsubscribes: 1},
		{SentAt: nil, Recipients: 300, OpenRate: 90, ClickRate: 40},
		{SentAt: &lastYear, Recipients: 500, OpenRate: 80, ClickRate: 20},
	}

	buckets := MonthlyBuckets(6, now, campaigns, nil)
	require.Len(t, buckets, 6)

	// Oldest first: Jan..Jun.
	names := make([]string, 0, len(buckets))
	for _, b := range buckets {
		names = append(names, b.Name)
	}
	assert.Equal(t, []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun"}, names)

	// March: floor(50*100/100)=50 opens, floor(10*100/100)=10 clicks.
	assert.Equal(t, MonthBucket{Name: "Mar", Opens: 50, Clicks: 10, Unsubscribes: 1}, buckets[2])
	// May: floor(25*200/100)=50 opens, floor(5*200/100)=10 clicks.
	assert.Equal(t, MonthBucket{Name: "May", Opens: 50, Clicks: 10, Unsubscribes: 4}, buckets[4])
	// Unsent campaign and the one outside the window contribute nothing.
	assert.Equal(t, MonthBucket{Name: "Jun"}, buckets[5])
	assert.Equal(t, MonthBucket{Name: "Jan"}, buckets[0])
}

func TestMonthlyBucketsIncludeFilter(t *testing.T) {
	now := day(2026, time.June, 20)
	may := day(2026, time.May, 5)

	campaigns := []CampaignRollup{
		{SentAt: &may, Recipients: 200, OpenRate: 25},
		{SentAt: &may, Recipients: 100, OpenRate: 50},
	}

	buckets := MonthlyBuckets(2, now, campaigns, func(c CampaignRollup) bool {
		return c.Recipients >= 150
	})
	require.Len(t, buckets, 2)
	assert.Equal(t, 50, buckets[0].Opens)
}
