package models

import (
	"time"

	"gorm.io/gorm"
)

// Contact statuses.
const (
	ContactSubscribed   = "subscribed"
	ContactUnsubscribed = "unsubscribed"
	ContactBounced      = "bounced"
)

// Contact represents a single recipient. Email is unique per owning user;
// uniqueness is enforced at the application layer so imports can report
// duplicates per item instead of failing the batch.
type Contact struct {
	gorm.Model
	UserID uint `gorm:"not null;index:idx_contacts_user_email" json:"user_id"`

	Name   string `gorm:"not null" json:"name"`
	Email  string `gorm:"not null;index:idx_contacts_user_email" json:"email"`
	Status string `gorm:"default:'subscribed'" json:"status"`

	JoinedAt       time.Time  `json:"joined_at"`
	LastActivityAt *time.Time `json:"last_activity_at"`

	// Relations
	Tags      []ContactTag      `gorm:"foreignKey:ContactID;constraint:OnDelete:CASCADE" json:"tags,omitempty"`
	Campaigns []CampaignContact `gorm:"foreignKey:ContactID;constraint:OnDelete:CASCADE" json:"-"`
}

// ContactTag is one tag on a contact. The set of rows for a contact forms a
// set: adding an already-present tag is a no-op.
type ContactTag struct {
	gorm.Model
	ContactID uint   `gorm:"not null;index" json:"contact_id"`
	Tag       string `gorm:"not null;index" json:"tag"`
}

// TagNames flattens the tag rows into their string values, preserving
// insertion order.
func (c *Contact) TagNames() []string {
	names := make([]string, 0, len(c.Tags))
	for _, t := range c.Tags {
		names = append(names, t.Tag)
	}
	return names
}
