package models

import (
	"time"

	"gorm.io/gorm"
)

// AnalyticsRecord is a persisted counter snapshot for exactly one campaign
// or one sequence (never both). The coarse counters (emails_*, replies) are
// written by send events; the fine-grained daily counters (opens, clicks,
// bounces, unsubscribes) feed campaign trend charts. Records are append-only
// after creation.
type AnalyticsRecord struct {
	gorm.Model
	CampaignID *uint `gorm:"index" json:"campaign_id,omitempty"`
	SequenceID *uint `gorm:"index" json:"sequence_id,omitempty"`

	// Coarse form, seeded once per send event.
	EmailsSent    int `gorm:"default:0" json:"emails_sent"`
	EmailsOpened  int `gorm:"default:0" json:"emails_opened"`
	EmailsClicked int `gorm:"default:0" json:"emails_clicked"`
	Replies       int `gorm:"default:0" json:"replies"`

	// Fine-grained daily form, one row per day of activity.
	Opens        int `gorm:"default:0" json:"opens"`
	Clicks       int `gorm:"default:0" json:"clicks"`
	Bounces      int `gorm:"default:0" json:"bounces"`
	Unsubscribes int `gorm:"default:0" json:"unsubscribes"`

	// Date is the day the counters belong to, truncated to day granularity.
	Date time.Time `gorm:"not null;index" json:"date"`
}
