package controller

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"mailpulse/models"
	"mailpulse/utils"
)

type scheduleRequest struct {
	ScheduledAt time.Time `json:"scheduled_at" validate:"required"`
}

// SendCampaign transitions a draft campaign to sent, freezing the recipient
// count and seeding its analytics record
func (cc *CampaignController) SendCampaign(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	campaignID := utils.ParseUint(c.Params("id"))

	campaign, err := cc.Lifecycle.Send(c.Context(), user.ID, campaignID)
	if err != nil {
		cc.Logger.Printf("Send failed for campaign %d: %v", campaignID, err)
		return utils.AppError(c, err)
	}

	return c.JSON(fiber.Map{
		"message":  "Campaign sent successfully",
		"campaign": campaign,
	})
}

// ScheduleCampaign records send intent for a draft campaign. The actual
// dispatch at the target time belongs to an external dispatcher.
func (cc *CampaignController) ScheduleCampaign(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	campaignID := utils.ParseUint(c.Params("id"))

	var req scheduleRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if req.ScheduledAt.IsZero() {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Scheduled date is required", nil)
	}

	campaign, err := cc.Lifecycle.Schedule(c.Context(), user.ID, campaignID, req.ScheduledAt)
	if err != nil {
		cc.Logger.Printf("Schedule failed for campaign %d: %v", campaignID, err)
		return utils.AppError(c, err)
	}

	return c.JSON(fiber.Map{
		"message":  "Campaign scheduled successfully",
		"campaign": campaign,
	})
}

// DuplicateCampaign creates a fresh draft copy with memberships carried over
func (cc *CampaignController) DuplicateCampaign(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	campaignID := utils.ParseUint(c.Params("id"))

	campaign, err := cc.Lifecycle.Duplicate(c.Context(), user.ID, campaignID)
	if err != nil {
		cc.Logger.Printf("Duplicate failed for campaign %d: %v", campaignID, err)
		return utils.AppError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  "Campaign duplicated successfully",
		"campaign": campaign,
	})
}
