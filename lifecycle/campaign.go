package lifecycle

import (
	"context"
	"time"

	"mailpulse/apperr"
	"mailpulse/models"
)

// CampaignStore is the data-access surface the campaign state machine
// drives. FindOwned must preload contact and sequence memberships.
type CampaignStore interface {
	FindOwned(ctx context.Context, campaignID, userID uint) (*models.Campaign, error)
	SubscribedRecipientCount(ctx context.Context, campaignID uint) (int, error)

	// MarkScheduled sets status=scheduled and the target timestamp, guarded
	// by status still being draft at write time. Returns false when the
	// guard missed.
	MarkScheduled(ctx context.Context, campaignID uint, at time.Time) (bool, error)

	// MarkSent sets status=sent, freezes the recipient count, stamps sentAt
	// and creates the seed analytics record — all in one transaction, with
	// the status write guarded by status still being draft. Returns false
	// when the guard missed and nothing was written.
	MarkSent(ctx context.Context, campaignID uint, sentAt time.Time, recipients int, seed *models.AnalyticsRecord) (bool, error)

	Create(ctx context.Context, campaign *models.Campaign) error
}

// CampaignService enforces the draft -> scheduled and draft -> sent
// transitions. sent is terminal.
type CampaignService struct {
	store CampaignStore
	now   func() time.Time
}

func NewCampaignService(store CampaignStore) *CampaignService {
	return &CampaignService{store: store, now: time.Now}
}

// Schedule records send intent for a draft campaign. Execution of the send
// at the target time is an external dispatcher's concern; the status itself
// is inert.
func (s *CampaignService) Schedule(ctx context.Context, userID, campaignID uint, when time.Time) (*models.Campaign, error) {
	campaign, err := s.store.FindOwned(ctx, campaignID, userID)
	if err != nil {
		return nil, err
	}
	if campaign.Status != models.CampaignDraft {
		return nil, &apperr.InvalidStateError{Entity: "campaign", Action: "scheduled", Status: campaign.Status}
	}
	if when.IsZero() {
		return nil, apperr.Validation("scheduled date is required")
	}
	if !when.After(s.now()) {
		return nil, apperr.Validation("scheduled date must be in the future")
	}

	ok, err := s.store.MarkScheduled(ctx, campaign.ID, when)
	if err != nil {
		return nil, err
	}
	if !ok {
		// Lost a race with a concurrent transition.
		return nil, &apperr.InvalidStateError{Entity: "campaign", Action: "scheduled", Status: campaign.Status}
	}

	campaign.Status = models.CampaignScheduled
	campaign.ScheduledAt = &when
	return campaign, nil
}

// Send transitions a draft campaign to sent. The recipient count is captured
// at this moment (subscribed contacts linked to the campaign) and becomes
// the frozen denominator for all rate math; exactly one analytics record is
// seeded with emailsSent = recipients and every other counter zero.
func (s *CampaignService) Send(ctx context.Context, userID, campaignID uint) (*models.Campaign, error) {
	campaign, err := s.store.FindOwned(ctx, campaignID, userID)
	if err != nil {
		return nil, err
	}
	if campaign.Status != models.CampaignDraft {
		return nil, &apperr.InvalidStateError{Entity: "campaign", Action: "sent", Status: campaign.Status}
	}

	recipients, err := s.store.SubscribedRecipientCount(ctx, campaign.ID)
	if err != nil {
		return nil, err
	}
	if recipients < 0 {
		return nil, apperr.Computation("negative recipient count %d for campaign %d", recipients, campaign.ID)
	}

	sentAt := s.now()
	seed := &models.AnalyticsRecord{
		CampaignID: &campaign.ID,
		EmailsSent: recipients,
		Date:       sentAt,
	}

	ok, err := s.store.MarkSent(ctx, campaign.ID, sentAt, recipients, seed)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &apperr.InvalidStateError{Entity: "campaign", Action: "sent", Status: campaign.Status}
	}

	campaign.Status = models.CampaignSent
	campaign.Recipients = recipients
	campaign.SentAt = &sentAt
	return campaign, nil
}

// Duplicate creates a brand-new draft from an existing campaign. Contact and
// sequence memberships are copied by reference; recipients and analytics are
// not carried over. Works from any status — duplication is not a transition.
func (s *CampaignService) Duplicate(ctx context.Context, userID, campaignID uint) (*models.Campaign, error) {
	original, err := s.store.FindOwned(ctx, campaignID, userID)
	if err != nil {
		return nil, err
	}

	dup := &models.Campaign{
		UserID:  userID,
		Name:    original.Name + " (Copy)",
		Subject: original.Subject,
		Content: original.Content,
		Status:  models.CampaignDraft,
	}
	for _, m := range original.Contacts {
		dup.Contacts = append(dup.Contacts, models.CampaignContact{ContactID: m.ContactID})
	}
	for _, m := range original.Sequences {
		dup.Sequences = append(dup.Sequences, models.CampaignSequence{SequenceID: m.SequenceID})
	}

	if err := s.store.Create(ctx, dup); err != nil {
		return nil, err
	}
	return dup, nil
}
