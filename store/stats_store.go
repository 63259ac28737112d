package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"mailpulse/apperr"
	"mailpulse/models"
	"mailpulse/stats"
)

// StatsStore feeds the aggregation service with denormalized facts instead
// of full entities.
type StatsStore struct {
	db *gorm.DB
}

func NewStatsStore(db *gorm.DB) *StatsStore {
	return &StatsStore{db: db}
}

func (s *StatsStore) CampaignFactsByUser(ctx context.Context, userID uint) ([]stats.CampaignFacts, error) {
	var campaigns []models.Campaign
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&campaigns).Error
	if err != nil {
		return nil, err
	}

	facts := make([]stats.CampaignFacts, 0, len(campaigns))
	for i := range campaigns {
		facts = append(facts, campaignFacts(&campaigns[i]))
	}
	return facts, nil
}

func (s *StatsStore) ContactFactsByUser(ctx context.Context, userID uint) ([]stats.ContactFacts, error) {
	var statuses []string
	err := s.db.WithContext(ctx).Model(&models.Contact{}).
		Where("user_id = ?", userID).
		Pluck("status", &statuses).Error
	if err != nil {
		return nil, err
	}

	facts := make([]stats.ContactFacts, 0, len(statuses))
	for _, status := range statuses {
		facts = append(facts, stats.ContactFacts{Status: status})
	}
	return facts, nil
}

func (s *StatsStore) CampaignFactsOwned(ctx context.Context, campaignID, userID uint) (*stats.CampaignFacts, error) {
	var campaign models.Campaign
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", campaignID, userID).
		First(&campaign).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("campaign")
	}
	if err != nil {
		return nil, err
	}
	facts := campaignFacts(&campaign)
	return &facts, nil
}

func (s *StatsStore) DayRecords(ctx context.Context, campaignID uint, start, end time.Time) ([]stats.DayRecord, error) {
	var records []models.AnalyticsRecord
	err := s.db.WithContext(ctx).
		Where("campaign_id = ? AND date >= ? AND date < ?", campaignID, start, end.AddDate(0, 0, 1)).
		Order("date ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	out := make([]stats.DayRecord, 0, len(records))
	for _, r := range records {
		out = append(out, stats.DayRecord{
			Date:         r.Date,
			Opens:        r.Opens,
			Clicks:       r.Clicks,
			Bounces:      r.Bounces,
			Unsubscribes: r.Unsubscribes,
		})
	}
	return out, nil
}

func campaignFacts(c *models.Campaign) stats.CampaignFacts {
	return stats.CampaignFacts{
		ID:           c.ID,
		Name:         c.Name,
		Subject:      c.Subject,
		Status:       c.Status,
		Recipients:   c.Recipients,
		OpenRate:     c.OpenRate,
		ClickRate:    c.ClickRate,
		Unsubscribes: c.Unsubscribes,
		SentAt:       c.SentAt,
	}
}
