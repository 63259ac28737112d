package controller

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"mailpulse/lifecycle"
	"mailpulse/models"
	"mailpulse/store"
	"mailpulse/utils"
)

type CampaignController struct {
	DB        *gorm.DB
	Logger    *log.Logger
	Lifecycle *lifecycle.CampaignService
}

func NewCampaignController(db *gorm.DB, logger *log.Logger) *CampaignController {
	return &CampaignController{
		DB:        db,
		Logger:    logger,
		Lifecycle: lifecycle.NewCampaignService(store.NewCampaignStore(db)),
	}
}

type campaignInput struct {
	Name        string `json:"name" validate:"required"`
	Subject     string `json:"subject" validate:"required"`
	Content     string `json:"content"`
	ContactIDs  []uint `json:"contact_ids"`
	SequenceIDs []uint `json:"sequence_ids"`
}

// CreateCampaign creates a new draft campaign with optional memberships
func (cc *CampaignController) CreateCampaign(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var input campaignInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	campaign := models.Campaign{
		UserID:  user.ID,
		Name:    input.Name,
		Subject: input.Subject,
		Content: input.Content,
		Status:  models.CampaignDraft,
	}
	for _, id := range input.ContactIDs {
		campaign.Contacts = append(campaign.Contacts, models.CampaignContact{ContactID: id})
	}
	for _, id := range input.SequenceIDs {
		campaign.Sequences = append(campaign.Sequences, models.CampaignSequence{SequenceID: id})
	}

	if err := cc.DB.Create(&campaign).Error; err != nil {
		cc.Logger.Printf("Failed to create campaign: %v", err)
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create campaign", err)
	}

	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(campaign))
}

// GetCampaigns lists campaigns newest first with an optional status filter
func (cc *CampaignController) GetCampaigns(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	status := c.Query("status")

	query := cc.DB.Where("user_id = ?", user.ID)
	switch status {
	case models.CampaignDraft, models.CampaignScheduled, models.CampaignSent:
		query = query.Where("status = ?", status)
	}

	var campaigns []models.Campaign
	if err := query.Preload("Contacts").
		Preload("Sequences").
		Preload("Analytics").
		Order("created_at DESC").
		Find(&campaigns).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch campaigns", err)
	}

	return c.JSON(utils.SuccessResponse(campaigns))
}

// GetCampaign returns one owned campaign with its associations
func (cc *CampaignController) GetCampaign(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	campaignID := c.Params("id")

	var campaign models.Campaign
	if err := cc.DB.Preload("Contacts").
		Preload("Sequences").
		Preload("Analytics").
		Where("id = ? AND user_id = ?", campaignID, user.ID).
		First(&campaign).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Campaign not found", nil)
	}

	return c.JSON(utils.SuccessResponse(campaign))
}

// UpdateCampaign edits a draft campaign; non-drafts are frozen
func (cc *CampaignController) UpdateCampaign(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	campaignID := c.Params("id")

	var input struct {
		Name        *string `json:"name"`
		Subject     *string `json:"subject"`
		Content     *string `json:"content"`
		ContactIDs  *[]uint `json:"contact_ids"`
		SequenceIDs *[]uint `json:"sequence_ids"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	tx := cc.DB.Begin()

	var campaign models.Campaign
	if err := tx.Where("id = ? AND user_id = ?", campaignID, user.ID).First(&campaign).Error; err != nil {
		tx.Rollback()
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Campaign not found", nil)
	}

	if campaign.Status != models.CampaignDraft {
		tx.Rollback()
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Only draft campaigns can be edited", nil)
	}

	if input.Name != nil {
		campaign.Name = *input.Name
	}
	if input.Subject != nil {
		campaign.Subject = *input.Subject
	}
	if input.Content != nil {
		campaign.Content = *input.Content
	}

	if input.ContactIDs != nil {
		if err := tx.Unscoped().Where("campaign_id = ?", campaign.ID).Delete(&models.CampaignContact{}).Error; err != nil {
			tx.Rollback()
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update contacts", err)
		}
		for _, id := range *input.ContactIDs {
			m := models.CampaignContact{CampaignID: campaign.ID, ContactID: id}
			if err := tx.Create(&m).Error; err != nil {
				tx.Rollback()
				return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update contacts", err)
			}
		}
	}
	if input.SequenceIDs != nil {
		if err := tx.Unscoped().Where("campaign_id = ?", campaign.ID).Delete(&models.CampaignSequence{}).Error; err != nil {
			tx.Rollback()
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update sequences", err)
		}
		for _, id := range *input.SequenceIDs {
			m := models.CampaignSequence{CampaignID: campaign.ID, SequenceID: id}
			if err := tx.Create(&m).Error; err != nil {
				tx.Rollback()
				return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update sequences", err)
			}
		}
	}

	if err := tx.Save(&campaign).Error; err != nil {
		tx.Rollback()
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update campaign", err)
	}

	if err := tx.Commit().Error; err != nil {
		cc.Logger.Printf("Transaction commit failed: %v", err)
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to complete update", err)
	}

	return c.JSON(utils.SuccessResponse(campaign))
}

// DeleteCampaign removes a campaign; memberships and analytics cascade
func (cc *CampaignController) DeleteCampaign(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	campaignID := c.Params("id")

	res := cc.DB.Where("id = ? AND user_id = ?", campaignID, user.ID).Delete(&models.Campaign{})
	if res.Error != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete campaign", res.Error)
	}
	if res.RowsAffected == 0 {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Campaign not found", nil)
	}

	return c.JSON(fiber.Map{
		"message": "Campaign deleted successfully",
	})
}
