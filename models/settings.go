package models

import (
	"strings"

	"gorm.io/gorm"
)

// ProfileSettings holds the account holder's identity fields.
type ProfileSettings struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Company   string `json:"company"`
}

// SenderSettings holds the default envelope fields for outgoing mail.
type SenderSettings struct {
	FromName  string `json:"fromName"`
	FromEmail string `json:"fromEmail"`
	ReplyTo   string `json:"replyTo"`
	Signature string `json:"signature"`
}

// SMTPSettings holds the user's relay configuration. The server never sends
// through it; it is only stored and connectivity-checked.
type SMTPSettings struct {
	Host       string `json:"host"`
	Port       string `json:"port"`
	Encryption string `json:"encryption"` // none, ssl, tls
	Username   string `json:"username"`
	Password   string `json:"password"`
}

// NotificationSettings toggles account emails.
type NotificationSettings struct {
	EmailNotifications bool `json:"emailNotifications"`
	CampaignAlerts     bool `json:"campaignAlerts"`
	WeeklyReports      bool `json:"weeklyReports"`
}

// ComplianceSettings holds the footer fields required on marketing mail.
type ComplianceSettings struct {
	CompanyAddress  string `json:"companyAddress"`
	UnsubscribeText string `json:"unsubscribeText"`
	PrivacyPolicy   string `json:"privacyPolicy"`
}

// AppearanceSettings holds dashboard display preferences.
type AppearanceSettings struct {
	Theme    string `json:"theme"` // light, dark, system
	Language string `json:"language"`
	Timezone string `json:"timezone"`
}

// UserSettings is the per-user settings document, one JSON column per
// section so each section updates atomically through its own typed payload.
type UserSettings struct {
	gorm.Model
	UserID uint `gorm:"not null;uniqueIndex" json:"user_id"`

	Profile       ProfileSettings      `gorm:"type:jsonb;serializer:json" json:"profile"`
	Sender        SenderSettings       `gorm:"type:jsonb;serializer:json" json:"sender"`
	SMTP          SMTPSettings         `gorm:"type:jsonb;serializer:json" json:"smtp"`
	Notifications NotificationSettings `gorm:"type:jsonb;serializer:json" json:"notifications"`
	Compliance    ComplianceSettings   `gorm:"type:jsonb;serializer:json" json:"compliance"`
	Appearance    AppearanceSettings   `gorm:"type:jsonb;serializer:json" json:"appearance"`
}

// DefaultSettings builds the settings document created on first read.
func DefaultSettings(user *User) *UserSettings {
	fromName := strings.TrimSpace(user.FirstName + " " + user.LastName)
	if fromName == "" {
		fromName = "User"
	}
	return &UserSettings{
		UserID: user.ID,
		Profile: ProfileSettings{
			FirstName: user.FirstName,
			LastName:  user.LastName,
			Email:     user.Email,
			Company:   user.Company,
		},
		Sender: SenderSettings{
			FromName:  fromName,
			FromEmail: user.Email,
			ReplyTo:   user.Email,
			Signature: "Best regards,\n" + user.FirstName + " " + user.LastName,
		},
		SMTP: SMTPSettings{
			Port:       "587",
			Encryption: "tls",
		},
		Notifications: NotificationSettings{
			EmailNotifications: true,
			CampaignAlerts:     true,
			WeeklyReports:      false,
		},
		Compliance: ComplianceSettings{
			UnsubscribeText: "You can unsubscribe from these emails at any time.",
		},
		Appearance: AppearanceSettings{
			Theme:    "light",
			Language: "en",
			Timezone: "utc",
		},
	}
}
