package controller

import (
	"log"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"mailpulse/models"
	"mailpulse/stats"
	"mailpulse/store"
	"mailpulse/utils"
)

type AnalyticsController struct {
	DB     *gorm.DB
	Logger *log.Logger
	Stats  *stats.Service
}

func NewAnalyticsController(db *gorm.DB, logger *log.Logger) *AnalyticsController {
	return &AnalyticsController{
		DB:     db,
		Logger: logger,
		Stats:  stats.NewService(store.NewStatsStore(db)),
	}
}

// GetOverview returns account-wide stats, the 6-month rollup and the
// per-campaign performance list
func (ac *AnalyticsController) GetOverview(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	report, err := ac.Stats.Overview(c.Context(), user.ID)
	if err != nil {
		ac.Logger.Printf("Overview failed for user %d: %v", user.ID, err)
		return utils.AppError(c, err)
	}

	return c.JSON(report)
}

// GetCampaignAnalytics returns cumulative stats and the daily series for one
// campaign. The window defaults to the trailing 30 days and is overridable
// with ?days=N.
func (ac *AnalyticsController) GetCampaignAnalytics(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	campaignID := utils.ParseUint(c.Params("id"))

	days, _ := strconv.Atoi(c.Query("days", "30"))

	report, err := ac.Stats.CampaignAnalytics(c.Context(), user.ID, campaignID, days)
	if err != nil {
		ac.Logger.Printf("Campaign analytics failed for campaign %d: %v", campaignID, err)
		return utils.AppError(c, err)
	}

	return c.JSON(report)
}

type analyticsRecordInput struct {
	CampaignID   *uint      `json:"campaign_id"`
	SequenceID   *uint      `json:"sequence_id"`
	Opens        int        `json:"opens" validate:"min=0"`
	Clicks       int        `json:"clicks" validate:"min=0"`
	Bounces      int        `json:"bounces" validate:"min=0"`
	Unsubscribes int        `json:"unsubscribes" validate:"min=0"`
	Replies      int        `json:"replies" validate:"min=0"`
	Date         *time.Time `json:"date"`
}

// CreateRecord appends a daily counter record to a campaign or sequence and
// refreshes the owning campaign's denormalized rates from the summed raw
// counters.
func (ac *AnalyticsController) CreateRecord(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var input analyticsRecordInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}
	if (input.CampaignID == nil) == (input.SequenceID == nil) {
		return utils.ErrorResponse(c, fiber.StatusBadRequest,
			"Exactly one of campaign_id or sequence_id is required", nil)
	}

	date := time.Now()
	if input.Date != nil {
		date = *input.Date
	}
	date = time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())

	tx := ac.DB.Begin()

	record := models.AnalyticsRecord{
		Opens:        input.Opens,
		Clicks:       input.Clicks,
		Bounces:      input.Bounces,
		Unsubscribes: input.Unsubscribes,
		Replies:      input.Replies,
		Date:         date,
	}

	if input.CampaignID != nil {
		var campaign models.Campaign
		if err := tx.Where("id = ? AND user_id = ?", *input.CampaignID, user.ID).First(&campaign).Error; err != nil {
			tx.Rollback()
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Campaign not found", nil)
		}
		record.CampaignID = &campaign.ID

		if err := tx.Create(&record).Error; err != nil {
			tx.Rollback()
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create record", err)
		}

		// Refresh denormalized rates from the full raw history so the
		// overview and the detail view stay close.
		var totals struct {
			Opens        int
			Clicks       int
			Unsubscribes int
		}
		if err := tx.Model(&models.AnalyticsRecord{}).
			Select("COALESCE(SUM(opens),0) AS opens, COALESCE(SUM(clicks),0) AS clicks, COALESCE(SUM(unsubscribes),0) AS unsubscribes").
			Where("campaign_id = ?", campaign.ID).
			Scan(&totals).Error; err != nil {
			tx.Rollback()
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to refresh campaign stats", err)
		}

		if err := tx.Model(&campaign).Updates(map[string]interface{}{
			"open_rate":    stats.Rate(totals.Opens, campaign.Recipients),
			"click_rate":   stats.Rate(totals.Clicks, campaign.Recipients),
			"unsubscribes": totals.Unsubscribes,
		}).Error; err != nil {
			tx.Rollback()
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to refresh campaign stats", err)
		}
	} else {
		var sequence models.Sequence
		if err := tx.Where("id = ? AND user_id = ?", *input.SequenceID, user.ID).First(&sequence).Error; err != nil {
			tx.Rollback()
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Sequence not found", nil)
		}
		record.SequenceID = &sequence.ID

		if err := tx.Create(&record).Error; err != nil {
			tx.Rollback()
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create record", err)
		}
	}

	if err := tx.Commit().Error; err != nil {
		ac.Logger.Printf("Transaction commit failed: %v", err)
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to complete record creation", err)
	}

	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(record))
}

// ListRecords returns analytics records for the user's campaigns and
// sequences, newest first, optionally filtered by campaign_id or sequence_id
func (ac *AnalyticsController) ListRecords(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	query := ac.DB.Model(&models.AnalyticsRecord{}).
		Joins("LEFT JOIN campaigns ON campaigns.id = analytics_records.campaign_id").
		Joins("LEFT JOIN sequences ON sequences.id = analytics_records.sequence_id").
		Where("campaigns.user_id = ? OR sequences.user_id = ?", user.ID, user.ID)

	if raw := c.Query("campaign_id"); raw != "" {
		query = query.Where("analytics_records.campaign_id = ?", utils.ParseUint(raw))
	}
	if raw := c.Query("sequence_id"); raw != "" {
		query = query.Where("analytics_records.sequence_id = ?", utils.ParseUint(raw))
	}

	var records []models.AnalyticsRecord
	if err := query.Order("analytics_records.date DESC").Find(&records).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch records", err)
	}

	return c.JSON(utils.SuccessResponse(records))
}
