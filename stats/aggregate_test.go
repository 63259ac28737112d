package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mailpulse/apperr"
)

func TestOverviewCounts(t *testing.T) {
	sentAt := day(2026, time.May, 1)

	campaigns := []CampaignFacts{
		{ID: 1, Status: StatusSent, Recipients: 200, OpenRate: 25, ClickRate: 5, Unsubscribes: 4, SentAt: &sentAt},
		{ID: 2, Status: StatusSent, Recipients: 100, OpenRate: 50, ClickRate: 10, Unsubscribes: 1, SentAt: &sentAt},
		{ID: 3, Status: "draft", Recipients: 0, Unsubscribes: 2},
	}
	contacts := []ContactFacts{
		{Status: StatusSubscribed},
		{Status: StatusSubscribed},
		{Status: "unsubscribed"},
		{Status: "bounced"},
	}

	out, err := Overview(campaigns, contacts)
	require.NoError(t, err)

	assert.Equal(t, 4, out.TotalContacts)
	assert.Equal(t, 2, out.SubscribedContacts)
	assert.Equal(t, 3, out.TotalCampaigns)
	assert.Equal(t, 2, out.SentCampaigns)
	// 25% of 200 + 50% of 100.
	assert.Equal(t, 100, out.TotalOpens)
	// 5% of 200 + 10% of 100.
	assert.Equal(t, 20, out.TotalClicks)
	// Unsubscribes count drafts too.
	assert.Equal(t, 7, out.TotalUnsubscribes)
	// Unweighted mean over sent campaigns only.
	assert.Equal(t, 37.5, out.AvgOpenRate)
	assert.Equal(t, 7.5, out.AvgClickRate)
}

func TestOverviewZeroRecipientSentCampaignDilutesAverage(t *testing.T) {
	campaigns := []CampaignFacts{
		{ID: 1, Status: StatusSent, Recipients: 100, OpenRate: 60},
		{ID: 2, Status: StatusSent, Recipients: 0, OpenRate: 0},
	}

	out, err := Overview(campaigns, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, out.SentCampaigns)
	assert.Equal(t, 30.0, out.AvgOpenRate)
}

func TestOverviewEmpty(t *testing.T) {
	out, err := Overview(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, OverviewStats{}, out)
}

func TestOverviewNegativeRecipients(t *testing.T) {
	campaigns := []CampaignFacts{{ID: 9, Status: StatusSent, Recipients: -1}}

	_, err := Overview(campaigns, nil)
	require.Error(t, err)
	var compErr *apperr.ComputationError
	assert.ErrorAs(t, err, &compErr)
}

func TestSentPerformance(t *testing.T) {
	campaigns := []CampaignFacts{
		{ID: 1, Name: "Launch", Status: StatusSent, Recipients: 200, OpenRate: 25, ClickRate: 5},
		{ID: 2, Name: "Draft", Status: "draft", Recipients: 0},
		{ID: 3, Name: "Follow-up", Status: StatusSent, Recipients: 80, OpenRate: 40, ClickRate: 12},
	}

	rows := SentPerformance(campaigns)
	require.Len(t, rows, 2)
	assert.Equal(t, CampaignPerformance{ID: 1, Name: "Launch", OpenRate: 25, ClickRate: 5, Sent: 200}, rows[0])
	assert.Equal(t, CampaignPerformance{ID: 3, Name: "Follow-up", OpenRate: 40, ClickRate: 12, Sent: 80}, rows[1])
}

func TestCampaignDetail(t *testing.T) {
	start := day(2026, time.March, 1)
	end := day(2026, time.March, 7)

	records := []DayRecord{
		{Date: day(2026, time.March, 2), Opens: 30, Clicks: 6},
		{Date: day(2026, time.March, 4), Opens: 20, Clicks: 4, Bounces: 2},
		{Date: day(2026, time.February, 20), Opens: 999},
	}

	detail, series, err := CampaignDetail(200, start, end, records)
	require.NoError(t, err)

	assert.Equal(t, 50, detail.TotalOpens)
	assert.Equal(t, 10, detail.TotalClicks)
	assert.Equal(t, 2, detail.TotalBounces)
	assert.Equal(t, 25.0, detail.OpenRate)
	assert.Equal(t, 5.0, detail.ClickRate)
	assert.Equal(t, 1.0, detail.BounceRate)
	assert.Equal(t, 0.0, detail.UnsubscribeRate)

	require.Len(t, series, 7)
	assert.Equal(t, "2026-03-01", series[0].Date)
	assert.Equal(t, 30, series[1].Opens)
}

func TestCampaignDetailZeroRecipients(t *testing.T) {
	start := day(2026, time.March, 1)
	end := day(2026, time.March, 3)

	detail, series, err := CampaignDetail(0, start, end, []DayRecord{
		{Date: day(2026, time.March, 2), Opens: 10},
	})
	require.NoError(t, err)
	assert.Equal(t, 10, detail.TotalOpens)
	assert.Equal(t, 0.0, detail.OpenRate)
	require.Len(t, series, 3)
}

func TestCampaignDetailNegativeRecipients(t *testing.T) {
	_, _, err := CampaignDetail(-1, day(2026, time.March, 1), day(2026, time.March, 2), nil)
	require.Error(t, err)
	var compErr *apperr.ComputationError
	assert.ErrorAs(t, err, &compErr)
}
