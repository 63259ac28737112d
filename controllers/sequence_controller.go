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

type SequenceController struct {
	DB        *gorm.DB
	Logger    *log.Logger
	Lifecycle *lifecycle.SequenceService
}

func NewSequenceController(db *gorm.DB, logger *log.Logger) *SequenceController {
	return &SequenceController{
		DB:        db,
		Logger:    logger,
		Lifecycle: lifecycle.NewSequenceService(store.NewSequenceStore(db)),
	}
}

type sequenceStepInput struct {
	StepType  string `json:"step_type" validate:"required,oneof=email delay"`
	Subject   string `json:"subject"`
	Content   string `json:"content"`
	DelayDays int    `json:"delay_days" validate:"min=0"`
}

type sequenceInput struct {
	Name        string              `json:"name" validate:"required"`
	Description string              `json:"description"`
	Steps       []sequenceStepInput `json:"steps" validate:"dive"`
}

// CreateSequence creates a draft sequence. Step order follows the position
// in the request array.
func (sc *SequenceController) CreateSequence(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var input sequenceInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	sequence := models.Sequence{
		UserID:      user.ID,
		Name:        input.Name,
		Description: input.Description,
		Status:      models.SequenceDraft,
	}
	for i, step := range input.Steps {
		sequence.Steps = append(sequence.Steps, models.SequenceStep{
			StepType:  step.StepType,
			Subject:   step.Subject,
			Content:   step.Content,
			DelayDays: step.DelayDays,
			StepOrder: i,
		})
	}

	if err := sc.DB.Create(&sequence).Error; err != nil {
		sc.Logger.Printf("Failed to create sequence: %v", err)
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create sequence", err)
	}

	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(sequence))
}

// GetSequences lists sequences newest first with an optional status filter
func (sc *SequenceController) GetSequences(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	status := c.Query("status")

	query := sc.DB.Where("user_id = ?", user.ID)
	switch status {
	case models.SequenceDraft, models.SequenceActive, models.SequencePaused:
		query = query.Where("status = ?", status)
	}

	var sequences []models.Sequence
	if err := query.Preload("Steps", func(db *gorm.DB) *gorm.DB {
		return db.Order("step_order ASC")
	}).Order("created_at DESC").Find(&sequences).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch sequences", err)
	}

	return c.JSON(utils.SuccessResponse(sequences))
}

// GetSequence returns one owned sequence with ordered steps
func (sc *SequenceController) GetSequence(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	sequenceID := c.Params("id")

	var sequence models.Sequence
	if err := sc.DB.Preload("Steps", func(db *gorm.DB) *gorm.DB {
		return db.Order("step_order ASC")
	}).Where("id = ? AND user_id = ?", sequenceID, user.ID).
		First(&sequence).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Sequence not found", nil)
	}

	return c.JSON(utils.SuccessResponse(sequence))
}

// UpdateSequence applies partial updates. When steps are supplied the whole
// step list is replaced and renumbered from the array order.
func (sc *SequenceController) UpdateSequence(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	sequenceID := c.Params("id")

	var input struct {
		Name        *string              `json:"name"`
		Description *string              `json:"description"`
		Steps       *[]sequenceStepInput `json:"steps" validate:"omitempty,dive"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	tx := sc.DB.Begin()

	var sequence models.Sequence
	if err := tx.Where("id = ? AND user_id = ?", sequenceID, user.ID).First(&sequence).Error; err != nil {
		tx.Rollback()
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Sequence not found", nil)
	}

	if input.Name != nil {
		sequence.Name = *input.Name
	}
	if input.Description != nil {
		sequence.Description = *input.Description
	}

	if input.Steps != nil {
		if err := tx.Unscoped().Where("sequence_id = ?", sequence.ID).Delete(&models.SequenceStep{}).Error; err != nil {
			tx.Rollback()
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update steps", err)
		}
		sequence.Steps = nil
		for i, step := range *input.Steps {
			row := models.SequenceStep{
				SequenceID: sequence.ID,
				StepType:   step.StepType,
				Subject:    step.Subject,
				Content:    step.Content,
				DelayDays:  step.DelayDays,
				StepOrder:  i,
			}
			if err := tx.Create(&row).Error; err != nil {
				tx.Rollback()
				return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update steps", err)
			}
			sequence.Steps = append(sequence.Steps, row)
		}
	}

	if err := tx.Save(&sequence).Error; err != nil {
		tx.Rollback()
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update sequence", err)
	}

	if err := tx.Commit().Error; err != nil {
		sc.Logger.Printf("Transaction commit failed: %v", err)
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to complete update", err)
	}

	return c.JSON(utils.SuccessResponse(sequence))
}

// DeleteSequence removes a sequence; its steps cascade
func (sc *SequenceController) DeleteSequence(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	sequenceID := c.Params("id")

	res := sc.DB.Where("id = ? AND user_id = ?", sequenceID, user.ID).Delete(&models.Sequence{})
	if res.Error != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete sequence", res.Error)
	}
	if res.RowsAffected == 0 {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Sequence not found", nil)
	}

	return c.JSON(fiber.Map{
		"message": "Sequence deleted successfully",
	})
}

// ActivateSequence moves a draft or paused sequence to active
func (sc *SequenceController) ActivateSequence(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	sequenceID := utils.ParseUint(c.Params("id"))

	sequence, err := sc.Lifecycle.Activate(c.Context(), user.ID, sequenceID)
	if err != nil {
		sc.Logger.Printf("Activate failed for sequence %d: %v", sequenceID, err)
		return utils.AppError(c, err)
	}

	return c.JSON(fiber.Map{
		"message":  "Sequence activated successfully",
		"sequence": sequence,
	})
}

// PauseSequence moves an active sequence to paused
func (sc *SequenceController) PauseSequence(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	sequenceID := utils.ParseUint(c.Params("id"))

	sequence, err := sc.Lifecycle.Pause(c.Context(), user.ID, sequenceID)
	if err != nil {
		sc.Logger.Printf("Pause failed for sequence %d: %v", sequenceID, err)
		return utils.AppError(c, err)
	}

	return c.JSON(fiber.Map{
		"message":  "Sequence paused successfully",
		"sequence": sequence,
	})
}

// DuplicateSequence creates a fresh draft copy with the steps carried over
func (sc *SequenceController) DuplicateSequence(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	sequenceID := utils.ParseUint(c.Params("id"))

	sequence, err := sc.Lifecycle.Duplicate(c.Context(), user.ID, sequenceID)
	if err != nil {
		sc.Logger.Printf("Duplicate failed for sequence %d: %v", sequenceID, err)
		return utils.AppError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  "Sequence duplicated successfully",
		"sequence": sequence,
	})
}
