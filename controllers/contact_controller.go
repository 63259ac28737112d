package controller

import (
	"log"
	"math"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"mailpulse/bulkops"
	"mailpulse/models"
	"mailpulse/store"
	"mailpulse/utils"
)

type ContactController struct {
	DB     *gorm.DB
	Logger *log.Logger
	Bulk   *bulkops.Service
}

func NewContactController(db *gorm.DB, logger *log.Logger) *ContactController {
	return &ContactController{
		DB:     db,
		Logger: logger,
		Bulk:   bulkops.NewService(store.NewContactStore(db)),
	}
}

type contactInput struct {
	Name   string   `json:"name" validate:"required"`
	Email  string   `json:"email" validate:"required,email"`
	Status string   `json:"status" validate:"omitempty,oneof=subscribed unsubscribed bounced"`
	Tags   []string `json:"tags"`
}

// CreateContact creates a new contact, rejecting duplicate emails per owner
func (cc *ContactController) CreateContact(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var input contactInput
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	var existing models.Contact
	if err := cc.DB.Where("user_id = ? AND email = ?", user.ID, input.Email).First(&existing).Error; err == nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Contact with this email already exists", nil)
	}

	status := input.Status
	if status == "" {
		status = models.ContactSubscribed
	}

	contact := models.Contact{
		UserID:   user.ID,
		Name:     input.Name,
		Email:    input.Email,
		Status:   status,
		JoinedAt: time.Now(),
	}
	for _, tag := range input.Tags {
		contact.Tags = append(contact.Tags, models.ContactTag{Tag: tag})
	}

	if err := cc.DB.Create(&contact).Error; err != nil {
		cc.Logger.Printf("Failed to create contact: %v", err)
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to create contact", err)
	}

	return c.Status(fiber.StatusCreated).JSON(utils.SuccessResponse(contact))
}

// GetContacts returns a paginated list with search and status filters
func (cc *ContactController) GetContacts(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}
	offset := (page - 1) * limit

	search := c.Query("search")
	status := c.Query("status")

	query := cc.DB.Model(&models.Contact{}).Where("user_id = ?", user.ID)
	if search != "" {
		like := "%" + search + "%"
		query = query.Where("name ILIKE ? OR email ILIKE ?", like, like)
	}
	switch status {
	case models.ContactSubscribed, models.ContactUnsubscribed, models.ContactBounced:
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to count contacts", err)
	}

	var contacts []models.Contact
	if err := query.Preload("Tags").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&contacts).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to fetch contacts", err)
	}

	return c.JSON(utils.PaginatedResponse{
		Data:  contacts,
		Total: total,
		Page:  page,
		Limit: limit,
		Pages: int(math.Ceil(float64(total) / float64(limit))),
	})
}

// GetContact returns a single owned contact
func (cc *ContactController) GetContact(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	contactID := c.Params("id")

	var contact models.Contact
	if err := cc.DB.Preload("Tags").
		Where("id = ? AND user_id = ?", contactID, user.ID).
		First(&contact).Error; err != nil {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Contact not found", nil)
	}

	return c.JSON(utils.SuccessResponse(contact))
}

// UpdateContact applies partial updates; email changes re-check uniqueness
func (cc *ContactController) UpdateContact(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	contactID := c.Params("id")

	var input struct {
		Name   *string   `json:"name"`
		Email  *string   `json:"email" validate:"omitempty,email"`
		Status *string   `json:"status" validate:"omitempty,oneof=subscribed unsubscribed bounced"`
		Tags   *[]string `json:"tags"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(input); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	tx := cc.DB.Begin()

	var contact models.Contact
	if err := tx.Preload("Tags").
		Where("id = ? AND user_id = ?", contactID, user.ID).
		First(&contact).Error; err != nil {
		tx.Rollback()
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Contact not found", nil)
	}

	if input.Email != nil && *input.Email != contact.Email {
		var dup models.Contact
		if err := tx.Where("user_id = ? AND email = ? AND id <> ?", user.ID, *input.Email, contact.ID).
			First(&dup).Error; err == nil {
			tx.Rollback()
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Contact with this email already exists", nil)
		}
		contact.Email = *input.Email
	}
	if input.Name != nil {
		contact.Name = *input.Name
	}
	if input.Status != nil {
		contact.Status = *input.Status
		contact.LastActivityAt = utils.Pointer(time.Now())
	}

	if input.Tags != nil {
		if err := tx.Unscoped().Where("contact_id = ?", contact.ID).Delete(&models.ContactTag{}).Error; err != nil {
			tx.Rollback()
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update tags", err)
		}
		contact.Tags = nil
		for _, tag := range *input.Tags {
			row := models.ContactTag{ContactID: contact.ID, Tag: tag}
			if err := tx.Create(&row).Error; err != nil {
				tx.Rollback()
				return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update tags", err)
			}
			contact.Tags = append(contact.Tags, row)
		}
	}

	if err := tx.Save(&contact).Error; err != nil {
		tx.Rollback()
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to update contact", err)
	}

	if err := tx.Commit().Error; err != nil {
		cc.Logger.Printf("Transaction commit failed: %v", err)
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to complete update", err)
	}

	return c.JSON(utils.SuccessResponse(contact))
}

// DeleteContact deletes a single owned contact
func (cc *ContactController) DeleteContact(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)
	contactID := c.Params("id")

	res := cc.DB.Where("id = ? AND user_id = ?", contactID, user.ID).Delete(&models.Contact{})
	if res.Error != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to delete contact", res.Error)
	}
	if res.RowsAffected == 0 {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Contact not found", nil)
	}

	return c.JSON(fiber.Map{
		"message": "Contact deleted successfully",
	})
}
