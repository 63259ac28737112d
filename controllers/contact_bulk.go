package controller

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"mailpulse/bulkops"
	"mailpulse/models"
	"mailpulse/utils"
)

type bulkDeleteRequest struct {
	ContactIDs []uint `json:"contact_ids" validate:"required,min=1"`
}

type bulkAddTagsRequest struct {
	ContactIDs []uint   `json:"contact_ids" validate:"required,min=1"`
	Tags       []string `json:"tags" validate:"required,min=1"`
}

type bulkImportRequest struct {
	Contacts []bulkops.ImportItem `json:"contacts" validate:"required,min=1"`
}

// BulkDeleteContacts deletes every matching owned contact from the id list
func (cc *ContactController) BulkDeleteContacts(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var req bulkDeleteRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	deleted, err := cc.Bulk.BulkDelete(c.Context(), user.ID, req.ContactIDs)
	if err != nil {
		cc.Logger.Printf("Bulk delete failed: %v", err)
		return utils.AppError(c, err)
	}

	return c.JSON(fiber.Map{
		"message":       fmt.Sprintf("%d contacts deleted successfully", deleted),
		"deleted_count": deleted,
	})
}

// BulkAddTags unions the given tags into every matching owned contact
func (cc *ContactController) BulkAddTags(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var req bulkAddTagsRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	updated, err := cc.Bulk.BulkAddTags(c.Context(), user.ID, req.ContactIDs, req.Tags)
	if err != nil {
		cc.Logger.Printf("Bulk tag update failed: %v", err)
		return utils.AppError(c, err)
	}

	return c.JSON(fiber.Map{
		"message":       fmt.Sprintf("Tags added to %d contacts successfully", updated),
		"updated_count": updated,
	})
}

// BulkImportContacts imports contacts sequentially, skipping duplicate emails
func (cc *ContactController) BulkImportContacts(c *fiber.Ctx) error {
	user := c.Locals("user").(*models.User)

	var req bulkImportRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}
	if err := utils.ValidateStruct(req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", err)
	}

	report, err := cc.Bulk.BulkImport(c.Context(), user.ID, req.Contacts)
	if err != nil {
		cc.Logger.Printf("Bulk import failed: %v", err)
		return utils.AppError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Import completed. %d contacts imported, %d skipped.",
			len(report.Imported), len(report.Skipped)),
		"batch_id":          report.BatchID,
		"imported_count":    len(report.Imported),
		"skipped_count":     len(report.Skipped),
		"imported_contacts": report.Imported,
		"skipped_contacts":  report.Skipped,
	})
}
