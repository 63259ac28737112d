package stats

import (
	"math"
	"time"

	"mailpulse/apperr"
)

// CampaignFacts is the denormalized campaign slice the overview consumes.
type CampaignFacts struct {
	ID           uint
	Name         string
	Subject      string
	Status       string
	Recipients   int
	OpenRate     float64
	ClickRate    float64
	Unsubscribes int
	SentAt       *time.Time
}

// ContactFacts is the contact slice the overview consumes.
type ContactFacts struct {
	Status string
}

// OverviewStats is the account-wide summary block.
//
// TotalOpens and TotalClicks are reconstructed from each sent campaign's
// stored rate and frozen recipient count (DerivedCount), so they can drift
// from the per-campaign endpoint, which sums raw analytics counters. Callers
// wanting an exact count should read the per-campaign stats.
type OverviewStats struct {
	TotalContacts      int     `json:"totalContacts"`
	SubscribedContacts int     `json:"subscribedContacts"`
	TotalCampaigns     int     `json:"totalCampaigns"`
	SentCampaigns      int     `json:"sentCampaigns"`
	TotalOpens         int     `json:"totalOpens"`
	TotalClicks        int     `json:"totalClicks"`
	TotalUnsubscribes  int     `json:"totalUnsubscribes"`
	AvgOpenRate        float64 `json:"avgOpenRate"`
	AvgClickRate       float64 `json:"avgClickRate"`
}

// CampaignPerformance is one sent campaign's row in the overview listing.
type CampaignPerformance struct {
	ID        uint    `json:"id"`
	Name      string  `json:"name"`
	OpenRate  float64 `json:"openRate"`
	ClickRate float64 `json:"clickRate"`
	Sent      int     `json:"sent"`
}

// DetailStats holds cumulative totals and rates for a single campaign over
// a reporting window. Rates use the campaign's frozen recipient count as
// denominator.
type DetailStats struct {
	TotalOpens        int
	TotalClicks       int
	TotalBounces      int
	TotalUnsubscribes int
	OpenRate          float64
	ClickRate         float64
	BounceRate        float64
	UnsubscribeRate   float64
}

const (
	StatusSubscribed = "subscribed"
	StatusSent       = "sent"
)

// Overview computes the account-wide stats block. The average rates are the
// unweighted mean across sent campaigns; sent campaigns with zero recipients
// still count toward the denominator.
func Overview(campaigns []CampaignFacts, contacts []ContactFacts) (OverviewStats, error) {
	var out OverviewStats
	out.TotalContacts = len(contacts)
	for _, c := range contacts {
		if c.Status == StatusSubscribed {
			out.SubscribedContacts++
		}
	}

	out.TotalCampaigns = len(campaigns)
	var openRateSum, clickRateSum float64
	for _, c := range campaigns {
		if c.Recipients < 0 {
			return OverviewStats{}, apperr.Computation("campaign %d has negative recipient count %d", c.ID, c.Recipients)
		}
		out.TotalUnsubscribes += c.Unsubscribes
		if c.Status != StatusSent {
			continue
		}
		out.SentCampaigns++
		out.TotalOpens += DerivedCount(c.OpenRate, c.Recipients)
		out.TotalClicks += DerivedCount(c.ClickRate, c.Recipients)
		openRateSum += c.OpenRate
		clickRateSum += c.ClickRate
	}

	if out.SentCampaigns > 0 {
		out.AvgOpenRate = roundRate(openRateSum / float64(out.SentCampaigns))
		out.AvgClickRate = roundRate(clickRateSum / float64(out.SentCampaigns))
	}
	return out, nil
}

// SentPerformance lists per-campaign performance rows for sent campaigns,
// preserving input order.
func SentPerformance(campaigns []CampaignFacts) []CampaignPerformance {
	rows := []CampaignPerformance{}
	for _, c := range campaigns {
		if c.Status != StatusSent {
			continue
		}
		rows = append(rows, CampaignPerformance{
			ID:        c.ID,
			Name:      c.Name,
			OpenRate:  c.OpenRate,
			ClickRate: c.ClickRate,
			Sent:      c.Recipients,
		})
	}
	return rows
}

// CampaignDetail sums raw daily counters over [start, end] and derives rates
// against the frozen recipient count. It returns the cumulative stats and
// the gap-filled daily series.
func CampaignDetail(recipients int, start, end time.Time, records []DayRecord) (DetailStats, []DayBucket, error) {
	if recipients < 0 {
		return DetailStats{}, nil, apperr.Computation("negative recipient count %d", recipients)
	}

	start = truncateDay(start)
	end = truncateDay(end)

	var out DetailStats
	for _, r := range records {
		day := truncateDay(r.Date)
		if day.Before(start) || day.After(end) {
			continue
		}
		out.TotalOpens += r.Opens
		out.TotalClicks += r.Clicks
		out.TotalBounces += r.Bounces
		out.TotalUnsubscribes += r.Unsubscribes
	}

	out.OpenRate = Rate(out.TotalOpens, recipients)
	out.ClickRate = Rate(out.TotalClicks, recipients)
	out.BounceRate = Rate(out.TotalBounces, recipients)
	out.UnsubscribeRate = Rate(out.TotalUnsubscribes, recipients)

	return out, DailyBuckets(start, end, records), nil
}

func roundRate(v float64) float64 {
	return math.Round(v*100) / 100
}
