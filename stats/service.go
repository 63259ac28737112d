package stats

import (
	"context"
	"time"

	"mailpulse/apperr"
)

const (
	defaultWindowDays = 30
	rollupMonths      = 6
)

// Store is the data-access surface the aggregation service reads from.
type Store interface {
	CampaignFactsByUser(ctx context.Context, userID uint) ([]CampaignFacts, error)
	ContactFactsByUser(ctx context.Context, userID uint) ([]ContactFacts, error)
	CampaignFactsOwned(ctx context.Context, campaignID, userID uint) (*CampaignFacts, error)
	DayRecords(ctx context.Context, campaignID uint, start, end time.Time) ([]DayRecord, error)
}

// OverviewReport is the full payload of the overview endpoint.
type OverviewReport struct {
	Overview            OverviewStats         `json:"overview"`
	MonthlyPerformance  []MonthBucket         `json:"monthlyPerformance"`
	CampaignPerformance []CampaignPerformance `json:"campaignPerformance"`
}

// CampaignHeader identifies the campaign a detail report belongs to.
type CampaignHeader struct {
	ID         uint       `json:"id"`
	Name       string     `json:"name"`
	Subject    string     `json:"subject"`
	Status     string     `json:"status"`
	Recipients int        `json:"recipients"`
	SentAt     *time.Time `json:"sentAt"`
}

// DetailStatsPayload is DetailStats with display-formatted rates.
type DetailStatsPayload struct {
	TotalOpens        int    `json:"totalOpens"`
	TotalClicks       int    `json:"totalClicks"`
	TotalBounces      int    `json:"totalBounces"`
	TotalUnsubscribes int    `json:"totalUnsubscribes"`
	OpenRate          string `json:"openRate"`
	ClickRate         string `json:"clickRate"`
	BounceRate        string `json:"bounceRate"`
	UnsubscribeRate   string `json:"unsubscribeRate"`
}

// CampaignReport is the full payload of the per-campaign analytics endpoint.
type CampaignReport struct {
	Campaign         CampaignHeader     `json:"campaign"`
	Stats            DetailStatsPayload `json:"stats"`
	DailyPerformance []DayBucket        `json:"dailyPerformance"`
}

// Service turns stored counters into response-ready views. It holds no
// state between calls beyond the injected store.
type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// Overview builds the account-wide stats, the 6-month rollup and the
// per-campaign performance list.
func (s *Service) Overview(ctx context.Context, userID uint) (*OverviewReport, error) {
	campaigns, err := s.store.CampaignFactsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	contacts, err := s.store.ContactFactsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	overview, err := Overview(campaigns, contacts)
	if err != nil {
		return nil, err
	}

	rollups := make([]CampaignRollup, 0, len(campaigns))
	for _, c := range campaigns {
		rollups = append(rollups, CampaignRollup{
			SentAt:       c.SentAt,
			Recipients:   c.Recipients,
			OpenRate:     c.OpenRate,
			ClickRate:    c.ClickRate,
			Unsubscribes: c.Unsubscribes,
		})
	}

	return &OverviewReport{
		Overview:            overview,
		MonthlyPerformance:  MonthlyBuckets(rollupMonths, s.now(), rollups, nil),
		CampaignPerformance: SentPerformance(campaigns),
	}, nil
}

// CampaignAnalytics builds the cumulative stats and daily series for one
// campaign over the trailing window of `days` calendar days (ending today).
func (s *Service) CampaignAnalytics(ctx context.Context, userID, campaignID uint, days int) (*CampaignReport, error) {
	if days <= 0 {
		days = defaultWindowDays
	}

	campaign, err := s.store.CampaignFactsOwned(ctx, campaignID, userID)
	if err != nil {
		return nil, err
	}
	if campaign == nil {
		return nil, apperr.NotFound("campaign")
	}

	end := truncateDay(s.now())
	start := end.AddDate(0, 0, -(days - 1))

	records, err := s.store.DayRecords(ctx, campaignID, start, end)
	if err != nil {
		return nil, err
	}

	detail, series, err := CampaignDetail(campaign.Recipients, start, end, records)
	if err != nil {
		return nil, err
	}

	return &CampaignReport{
		Campaign: CampaignHeader{
			ID:         campaign.ID,
			Name:       campaign.Name,
			Subject:    campaign.Subject,
			Status:     campaign.Status,
			Recipients: campaign.Recipients,
			SentAt:     campaign.SentAt,
		},
		Stats: DetailStatsPayload{
			TotalOpens:        detail.TotalOpens,
			TotalClicks:       detail.TotalClicks,
			TotalBounces:      detail.TotalBounces,
			TotalUnsubscribes: detail.TotalUnsubscribes,
			OpenRate:          FormatRate(detail.OpenRate),
			ClickRate:         FormatRate(detail.ClickRate),
			BounceRate:        FormatRate(detail.BounceRate),
			UnsubscribeRate:   FormatRate(detail.UnsubscribeRate),
		},
		DailyPerformance: series,
	}, nil
}
