package models

import "gorm.io/gorm"

// Sequence statuses. draft -> active, then active <-> paused indefinitely.
// A sequence never reaches a terminal state; draft is re-entered only by
// duplication.
const (
	SequenceDraft  = "draft"
	SequenceActive = "active"
	SequencePaused = "paused"
)

// Sequence is a multi-step automated drip of emails.
type Sequence struct {
	gorm.Model
	UserID uint `gorm:"not null;index" json:"user_id"`

	Name        string `gorm:"not null" json:"name"`
	Description string `json:"description"`
	Status      string `gorm:"default:'draft'" json:"status"`

	// Denormalized progress stats.
	Subscribers int     `gorm:"default:0" json:"subscribers"`
	Completed   int     `gorm:"default:0" json:"completed"`
	AvgOpenRate float64 `gorm:"default:0" json:"avg_open_rate"`

	// Relations
	Steps     []SequenceStep     `gorm:"foreignKey:SequenceID;constraint:OnDelete:CASCADE" json:"steps,omitempty"`
	Campaigns []CampaignSequence `gorm:"foreignKey:SequenceID;constraint:OnDelete:CASCADE" json:"-"`
	Analytics []AnalyticsRecord  `gorm:"foreignKey:SequenceID;constraint:OnDelete:CASCADE" json:"analytics,omitempty"`
}

// SequenceStep is one step of a sequence. StepOrder is the sole source of
// truth for sequencing; updates replace the whole step list and reassign it
// from array position.
type SequenceStep struct {
	gorm.Model
	SequenceID uint `gorm:"not null;index" json:"sequence_id"`

	StepType  string `gorm:"not null" json:"type"`
	Subject   string `json:"subject"`
	Content   string `gorm:"type:text" json:"content"`
	DelayDays int    `gorm:"default:0" json:"delay"`
	StepOrder int    `gorm:"not null" json:"order"`
}
