package models

import (
	"time"

	"gorm.io/gorm"
)

// Campaign statuses. Transitions only advance: draft -> scheduled and
// draft -> sent. There is no way out of sent.
const (
	CampaignDraft     = "draft"
	CampaignScheduled = "scheduled"
	CampaignSent      = "sent"
)

// Campaign is a single one-time email send to a recipient set.
type Campaign struct {
	gorm.Model
	UserID uint `gorm:"not null;index" json:"user_id"`

	Name    string `gorm:"not null" json:"name"`
	Subject string `gorm:"not null" json:"subject"`
	Content string `gorm:"type:text" json:"content"`
	Status  string `gorm:"default:'draft'" json:"status"`

	// Recipients is frozen at send time and is the denominator for all
	// rate math on this campaign. Never recomputed retroactively.
	Recipients int `gorm:"default:0" json:"recipients"`

	// Denormalized engagement stats, refreshed when analytics records are
	// appended.
	OpenRate     float64 `gorm:"default:0" json:"open_rate"`
	ClickRate    float64 `gorm:"default:0" json:"click_rate"`
	Unsubscribes int     `gorm:"default:0" json:"unsubscribes"`

	ScheduledAt *time.Time `json:"scheduled_at"`
	SentAt      *time.Time `json:"sent_at"`

	// Relations
	Contacts  []CampaignContact  `gorm:"foreignKey:CampaignID;constraint:OnDelete:CASCADE" json:"contacts,omitempty"`
	Sequences []CampaignSequence `gorm:"foreignKey:CampaignID;constraint:OnDelete:CASCADE" json:"sequences,omitempty"`
	Analytics []AnalyticsRecord  `gorm:"foreignKey:CampaignID;constraint:OnDelete:CASCADE" json:"analytics,omitempty"`
}

// CampaignContact joins campaigns to contacts. Membership is non-exclusive.
type CampaignContact struct {
	gorm.Model
	CampaignID uint `gorm:"not null;index" json:"campaign_id"`
	ContactID  uint `gorm:"not null;index" json:"contact_id"`
}

// CampaignSequence joins campaigns to sequences.
type CampaignSequence struct {
	gorm.Model
	CampaignID uint `gorm:"not null;index" json:"campaign_id"`
	SequenceID uint `gorm:"not null;index" json:"sequence_id"`
}
