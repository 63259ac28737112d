package stats

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mailpulse/apperr"
)

type fakeStore struct {
	campaigns []CampaignFacts
	contacts  []ContactFacts
	owned     *CampaignFacts
	records   []DayRecord

	gotStart time.Time
	gotEnd   time.Time
}

func (f *fakeStore) CampaignFactsByUser(ctx context.Context, userID uint) ([]CampaignFacts, error) {
	return f.campaigns, nil
}

func (f *fakeStore) ContactFactsByUser(ctx context.Context, userID uint) ([]ContactFacts, error) {
	return f.contacts, nil
}

func (f *fakeStore) CampaignFactsOwned(ctx context.Context, campaignID, userID uint) (*CampaignFacts, error) {
	return f.owned, nil
}

func (f *fakeStore) DayRecords(ctx context.Context, campaignID uint, start, end time.Time) ([]DayRecord, error) {
	f.gotStart = start
	f.gotEnd = end
	return f.records, nil
}

func newTestService(store Store, now time.Time) *Service {
	return &Service{store: store, now: func() time.Time { return now }}
}

func TestServiceOverview(t *testing.T) {
	sentAt := day(2026, time.May, 5)
	store := &fakeStore{
		campaigns: []CampaignFacts{
			{ID: 1, Name: "Launch", Status: StatusSent, Recipients: 200, OpenRate: 25, ClickRate: 5, Unsubscribes: 4, SentAt: &sentAt},
			{ID: 2, Name: "Draft", Status: "draft"},
		},
		contacts: []ContactFacts{{Status: StatusSubscribed}, {Status: "bounced"}},
	}
	svc := newTestService(store, day(2026, time.June, 20))

	report, err := svc.Overview(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, 2, report.Overview.TotalContacts)
	assert.Equal(t, 1, report.Overview.SubscribedContacts)
	assert.Equal(t, 1, report.Overview.SentCampaigns)
	assert.Equal(t, 50, report.Overview.TotalOpens)

	require.Len(t, report.MonthlyPerformance, 6)
	assert.Equal(t, "Jan", report.MonthlyPerformance[0].Name)
	assert.Equal(t, "Jun", report.MonthlyPerformance[5].Name)
	assert.Equal(t, 50, report.MonthlyPerformance[4].Opens)

	require.Len(t, report.CampaignPerformance, 1)
	assert.Equal(t, "Launch", report.CampaignPerformance[0].Name)
}

func TestServiceCampaignAnalyticsWindow(t *testing.T) {
	sentAt := day(2026, time.June, 10)
	now := time.Date(2026, time.June, 20, 14, 30, 0, 0, time.UTC)
	store := &fakeStore{
		owned: &CampaignFacts{
			ID: 7, Name: "Launch", Subject: "Hello", Status: StatusSent,
			Recipients: 200, SentAt: &sentAt,
		},
		records: []DayRecord{
			{Date: day(2026, time.June, 15), Opens: 50, Clicks: 10},
		},
	}
	svc := newTestService(store, now)

	report, err := svc.CampaignAnalytics(context.Background(), 1, 7, 7)
	require.NoError(t, err)

	// A 7-day window ending today spans exactly 7 calendar days.
	assert.Equal(t, day(2026, time.June, 14), store.gotStart)
	assert.Equal(t, day(2026, time.June, 20), store.gotEnd)
	require.Len(t, report.DailyPerformance, 7)
	assert.Equal(t, "2026-06-14", report.DailyPerformance[0].Date)
	assert.Equal(t, "2026-06-20", report.DailyPerformance[6].Date)

	assert.Equal(t, 50, report.Stats.TotalOpens)
	assert.Equal(t, "25.00", report.Stats.OpenRate)
	assert.Equal(t, "5.00", report.Stats.ClickRate)
	assert.Equal(t, "0.00", report.Stats.BounceRate)

	assert.Equal(t, uint(7), report.Campaign.ID)
	assert.Equal(t, 200, report.Campaign.Recipients)
}

func TestServiceCampaignAnalyticsDefaultWindow(t *testing.T) {
	now := day(2026, time.June, 30)
	store := &fakeStore{owned: &CampaignFacts{ID: 7, Recipients: 10}}
	svc := newTestService(store, now)

	report, err := svc.CampaignAnalytics(context.Background(), 1, 7, 0)
	require.NoError(t, err)
	assert.Len(t, report.DailyPerformance, 30)
}

func TestServiceCampaignAnalyticsNotFound(t *testing.T) {
	svc := newTestService(&fakeStore{}, day(2026, time.June, 20))

	_, err := svc.CampaignAnalytics(context.Background(), 1, 99, 7)
	require.Error(t, err)
	assert.True(t, apperr.IsNotFound(err))
}
