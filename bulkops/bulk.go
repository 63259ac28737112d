package bulkops

import (
	"context"
	"time"

	"github.com/badoux/checkmail"
	"github.com/google/uuid"

	"mailpulse/apperr"
	"mailpulse/models"
)

// ContactStore is the data-access surface for batch contact mutations.
// Every method is owner-scoped: ids that belong to another user simply do
// not match.
type ContactStore interface {
	DeleteOwned(ctx context.Context, userID uint, ids []uint) (int64, error)
	FindOwned(ctx context.Context, userID uint, ids []uint) ([]models.Contact, error)
	ReplaceTags(ctx context.Context, contactID uint, tags []string) error
	FindByEmail(ctx context.Context, userID uint, email string) (*models.Contact, error)
	Create(ctx context.Context, contact *models.Contact) error
}

// ImportItem is one row of a bulk import request.
type ImportItem struct {
	Name  string   `json:"name" validate:"required"`
	Email string   `json:"email" validate:"required,email"`
	Tags  []string `json:"tags"`
}

// SkippedItem reports why an import row was not created.
type SkippedItem struct {
	Email  string `json:"email"`
	Reason string `json:"reason"`
}

// ImportReport summarizes a bulk import batch.
type ImportReport struct {
	BatchID  string           `json:"batch_id"`
	Imported []models.Contact `json:"imported_contacts"`
	Skipped  []SkippedItem    `json:"skipped_contacts"`
}

const reasonDuplicateEmail = "Email already exists"

// Service orchestrates multi-item contact mutations. It holds no state
// between calls.
type Service struct {
	store ContactStore
}

func NewService(store ContactStore) *Service {
	return &Service{store: store}
}

// BulkDelete removes all matching owned contacts and returns the number
// actually deleted, which may be fewer than len(ids).
func (s *Service) BulkDelete(ctx context.Context, userID uint, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, apperr.Validation("at least one contact ID is required")
	}
	return s.store.DeleteOwned(ctx, userID, ids)
}

// BulkAddTags unions the given tags into each matching owned contact's tag
// set. Tags are case-sensitive and not normalized. Every matched contact
// counts as updated even when the union changed nothing; zero matches is a
// not-found failure.
func (s *Service) BulkAddTags(ctx context.Context, userID uint, ids []uint, tags []string) (int, error) {
	if len(ids) == 0 {
		return 0, apperr.Validation("at least one contact ID is required")
	}
	if len(tags) == 0 {
		return 0, apperr.Validation("at least one tag is required")
	}

	contacts, err := s.store.FindOwned(ctx, userID, ids)
	if err != nil {
		return 0, err
	}
	if len(contacts) == 0 {
		return 0, apperr.NotFound("contacts")
	}

	for _, contact := range contacts {
		merged := unionTags(contact.TagNames(), tags)
		if err := s.store.ReplaceTags(ctx, contact.ID, merged); err != nil {
			return 0, err
		}
	}
	return len(contacts), nil
}

// BulkImport creates contacts from items in input order. An item is skipped
// when a contact with its email already exists for the owner — including
// contacts created earlier in the same batch, so the first occurrence of a
// repeated email wins. Items must not be processed in parallel: each item's
// duplicate check depends on the previous items' writes.
func (s *Service) BulkImport(ctx context.Context, userID uint, items []ImportItem) (*ImportReport, error) {
	if len(items) == 0 {
		return nil, apperr.Validation("at least one contact is required")
	}
	for i, item := range items {
		if item.Name == "" {
			return nil, apperr.Validation("contact %d: name is required", i+1)
		}
		if err := checkmail.ValidateFormat(item.Email); err != nil {
			return nil, apperr.Validation("contact %d: invalid email address", i+1)
		}
	}

	report := &ImportReport{
		BatchID:  uuid.NewString(),
		Imported: []models.Contact{},
		Skipped:  []SkippedItem{},
	}

	for _, item := range items {
		existing, err := s.store.FindByEmail(ctx, userID, item.Email)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			report.Skipped = append(report.Skipped, SkippedItem{Email: item.Email, Reason: reasonDuplicateEmail})
			continue
		}

		contact := models.Contact{
			UserID:   userID,
			Name:     item.Name,
			Email:    item.Email,
			Status:   models.ContactSubscribed,
			JoinedAt: time.Now(),
		}
		for _, tag := range item.Tags {
			contact.Tags = append(contact.Tags, models.ContactTag{Tag: tag})
		}
		if err := s.store.Create(ctx, &contact); err != nil {
			return nil, err
		}
		report.Imported = append(report.Imported, contact)
	}
	return report, nil
}

// unionTags appends the tags from extra that are not already present,
// preserving existing insertion order.
func unionTags(existing, extra []string) []string {
	seen := make(map[string]struct{}, len(existing))
	merged := make([]string, 0, len(existing)+len(extra))
	for _, t := range existing {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		merged = append(merged, t)
	}
	for _, t := range extra {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		merged = append(merged, t)
	}
	return merged
}
