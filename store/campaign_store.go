package store

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"mailpulse/apperr"
	"mailpulse/models"
)

// CampaignStore is the GORM-backed campaign store.
type CampaignStore struct {
	db *gorm.DB
}

func NewCampaignStore(db *gorm.DB) *CampaignStore {
	return &CampaignStore{db: db}
}

func (s *CampaignStore) FindOwned(ctx context.Context, campaignID, userID uint) (*models.Campaign, error) {
	var campaign models.Campaign
	err := s.db.WithContext(ctx).
		Preload("Contacts").
		Preload("Sequences").
		Where("id = ? AND user_id = ?", campaignID, userID).
		First(&campaign).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("campaign")
	}
	if err != nil {
		return nil, err
	}
	return &campaign, nil
}

func (s *CampaignStore) SubscribedRecipientCount(ctx context.Context, campaignID uint) (int, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Contact{}).
		Joins("JOIN campaign_contacts ON campaign_contacts.contact_id = contacts.id").
		Where("campaign_contacts.campaign_id = ? AND campaign_contacts.deleted_at IS NULL", campaignID).
		Where("contacts.status = ?", models.ContactSubscribed).
		Count(&count).Error
	return int(count), err
}

func (s *CampaignStore) MarkScheduled(ctx context.Context, campaignID uint, at time.Time) (bool, error) {
	res := s.db.WithContext(ctx).Model(&models.Campaign{}).
		Where("id = ? AND status = ?", campaignID, models.CampaignDraft).
		Updates(map[string]interface{}{
			"status":       models.CampaignScheduled,
			"scheduled_at": at,
		})
	return res.RowsAffected > 0, res.Error
}

// MarkSent performs the send transition and the analytics seed in a single
// transaction. The status write is a compare-and-swap on draft, so of two
// racing senders only one commits a seed record.
func (s *CampaignStore) MarkSent(ctx context.Context, campaignID uint, sentAt time.Time, recipients int, seed *models.AnalyticsRecord) (bool, error) {
	sent := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Campaign{}).
			Where("id = ? AND status = ?", campaignID, models.CampaignDraft).
			Updates(map[string]interface{}{
				"status":     models.CampaignSent,
				"recipients": recipients,
				"sent_at":    sentAt,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		if err := tx.Create(seed).Error; err != nil {
			return err
		}
		sent = true
		return nil
	})
	return sent, err
}

func (s *CampaignStore) Create(ctx context.Context, campaign *models.Campaign) error {
	return s.db.WithContext(ctx).Create(campaign).Error
}
