package stats

import "time"

const dayFormat = "2006-01-02"

// DayRecord is a dated set of engagement counters, typically one row of
// fine-grained daily analytics for a campaign.
type DayRecord struct {
	Date         time.Time
	Opens        int
	Clicks       int
	Bounces      int
	Unsubscribes int
}

// DayBucket is one calendar-day slot in a gap-filled daily series.
type DayBucket struct {
	Date         string `json:"date"`
	Opens        int    `json:"opens"`
	Clicks       int    `json:"clicks"`
	Bounces      int    `json:"bounces"`
	Unsubscribes int    `json:"unsubscribes"`
}

// MonthBucket is one calendar-month slot in the overview rollup.
type MonthBucket struct {
	Name         string `json:"name"`
	Opens        int    `json:"opens"`
	Clicks       int    `json:"clicks"`
	Unsubscribes int    `json:"unsubscribes"`
}

// CampaignRollup is the slice of a campaign the monthly rollup needs.
// Opens and clicks are reconstructed from the stored rates because raw
// counts are not denormalized onto campaigns.
type CampaignRollup struct {
	SentAt       *time.Time
	Recipients   int
	OpenRate     float64
	ClickRate    float64
	Unsubscribes int
}

// truncateDay drops time-of-day so same-day comparison is by calendar date
// only, regardless of the wall clock on either side.
func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DailyBuckets produces one bucket per calendar day over [start, end],
// inclusive of both endpoints and ascending by date. Days without a record
// get all-zero counters; multiple records on the same day are summed.
// Records dated outside the window are excluded, not clamped.
func DailyBuckets(start, end time.Time, records []DayRecord) []DayBucket {
	start = truncateDay(start)
	end = truncateDay(end)
	if end.Before(start) {
		return []DayBucket{}
	}

	byDay := make(map[string]DayRecord, len(records))
	for _, r := range records {
		day := truncateDay(r.Date)
		if day.Before(start) || day.After(end) {
			continue
		}
		key := day.Format(dayFormat)
		merged := byDay[key]
		merged.Opens += r.Opens
		merged.Clicks += r.Clicks
		merged.Bounces += r.Bounces
		merged.Unsubscribes += r.Unsubscribes
		byDay[key] = merged
	}

	var buckets []DayBucket
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		key := d.Format(dayFormat)
		r := byDay[key]
		buckets = append(buckets, DayBucket{
			Date:         key,
			Opens:        r.Opens,
			Clicks:       r.Clicks,
			Bounces:      r.Bounces,
			Unsubscribes: r.Unsubscribes,
		})
	}
	return buckets
}

// MonthlyBuckets produces exactly monthsBack buckets ending at the calendar
// month of now, oldest first. A campaign is attributed to the bucket of its
// send month; campaigns that were never sent are excluded. The optional
// include predicate filters campaigns before bucketing.
func MonthlyBuckets(monthsBack int, now time.Time, campaigns []CampaignRollup, include func(CampaignRollup) bool) []MonthBucket {
	var buckets []MonthBucket
	for i := monthsBack - 1; i >= 0; i-- {
		monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -i, 0)
		nextMonth := monthStart.AddDate(0, 1, 0)

		bucket := MonthBucket{Name: monthStart.Format("Jan")}
		for _, c := range campaigns {
			if c.SentAt == nil {
				continue
			}
			if include != nil && !include(c) {
				continue
			}
			if c.SentAt.Before(monthStart) || !c.SentAt.Before(nextMonth) {
				continue
			}
			bucket.Opens += DerivedCount(c.OpenRate, c.Recipients)
			bucket.Clicks += DerivedCount(c.ClickRate, c.Recipients)
			bucket.Unsubscribes += c.Unsubscribes
		}
		buckets = append(buckets, bucket)
	}
	return buckets
}
