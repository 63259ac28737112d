package controller

import (
	"crypto/tls"
	"encoding/json"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gopkg.in/gomail.v2"
	"gorm.io/gorm"

	"mailpulse/apperr"
	"mailpulse/models"
	"mailpulse/utils"
)

type SettingsController struct {
	DB     *gorm.DB
	Logger *log.Logger
}

func NewSettingsController(db *gorm.DB, logger *log.Logger) *SettingsController {
	return &SettingsController{DB: db, Logger: logger}
}

// loadOrCreate returns the user's settings document, creating the defaults
// on first read
func (sc *SettingsController) loadOrCreate(user *models.User) (*models.UserSettings, error) {
	var settings models.UserSettings
	err := sc.DB.Where("user_id = ?", user.ID).First(&settings).Error
	if err == nil {
		return &settings, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	defaults := models.DefaultSettings(user)
	if err := sc.DB.Create(defaults).Error; err != nil {
		return nil, err
	}
	return defaults, nil
}

// GetSettings returns the full settings document
func (sc *SettingsController) GetSettings(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	settings, err := sc.loadOrCreate(user)
	if err != nil {
		sc.Logger.Printf("Failed to load settings for user %d: %v", user.ID, err)
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load settings", err)
	}

	return c.JSON(utils.SuccessResponse(settings))
}

type updateSettingsRequest struct {
	Section string          `json:"section" validate:"required,oneof=profile sender smtp notifications compliance appearance"`
	Data    json.RawMessage `json:"data" validate:"required"`
}

// UpdateSettings replaces one settings section with the typed payload for
// that section. Unknown sections and malformed payloads are rejected.
func (sc *SettingsController) UpdateSettings(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var req updateSettingsRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	settings, err := sc.loadOrCreate(user)
	if err != nil {
		sc.Logger.Printf("Failed to load settings for user %d: %v", user.ID, err)
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load settings", err)
	}

	switch req.Section {
	case "profile":
		var payload models.ProfileSettings
		if err := json.Unmarshal(req.Data, &payload); err != nil {
			return utils.AppError(c, apperr.Validation("Invalid profile payload"))
		}
		settings.Profile = payload
	case "sender":
		var payload models.SenderSettings
		if err := json.Unmarshal(req.Data, &payload); err != nil {
			return utils.AppError(c, apperr.Validation("Invalid sender payload"))
		}
		settings.Sender = payload
	case "smtp":
		var payload models.SMTPSettings
		if err := json.Unmarshal(req.Data, &payload); err != nil {
			return utils.AppError(c, apperr.Validation("Invalid smtp payload"))
		}
		settings.SMTP = payload
	case "notifications":
		var payload models.NotificationSettings
		if err := json.Unmarshal(req.Data, &payload); err != nil {
			return utils.AppError(c, apperr.Validation("Invalid notifications payload"))
		}
		settings.Notifications = payload
	case "compliance":
		var payload models.ComplianceSettings
		if err := json.Unmarshal(req.Data, &payload); err != nil {
			return utils.AppError(c, apperr.Validation("Invalid compliance payload"))
		}
		settings.Compliance = payload
	case "appearance":
		var payload models.AppearanceSettings
		if err := json.Unmarshal(req.Data, &payload); err != nil {
			return utils.AppError(c, apperr.Validation("Invalid appearance payload"))
		}
		settings.Appearance = payload
	default:
		return utils.AppError(c, apperr.Validation("Unknown settings section"))
	}

	if err := sc.DB.Save(settings).Error; err != nil {
		sc.Logger.Printf("Failed to save settings for user %d: %v", user.ID, err)
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to save settings", err)
	}

	return c.JSON(fiber.Map{
		"message":  "Settings updated successfully",
		"settings": settings,
	})
}

// TestSMTP dials the stored relay and reports reachability. No mail is sent.
func (sc *SettingsController) TestSMTP(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	settings, err := sc.loadOrCreate(user)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to load settings", err)
	}

	smtp := settings.SMTP
	if smtp.Host == "" {
		return utils.AppError(c, apperr.Validation("SMTP host is not configured"))
	}

	port, err := strconv.Atoi(smtp.Port)
	if err != nil || port < 1 || port > 65535 {
		return utils.AppError(c, apperr.Validation("SMTP port is invalid"))
	}

	dialer := gomail.NewDialer(smtp.Host, port, smtp.Username, smtp.Password)
	switch smtp.Encryption {
	case "ssl":
		dialer.SSL = true
	case "none":
		dialer.TLSConfig = &tls.Config{InsecureSkipVerify: true}
	}

	conn, err := dialer.Dial()
	if err != nil {
		sc.Logger.Printf("SMTP test failed for user %d against %s:%d: %v", user.ID, smtp.Host, port, err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"message": "SMTP connection failed",
			"error":   err.Error(),
		})
	}
	conn.Close()

	return c.JSON(fiber.Map{
		"success": true,
		"message": "SMTP connection successful",
	})
}
