package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"mailpulse/models"
)

// ContactStore is the GORM-backed contact store for batch mutations.
type ContactStore struct {
	db *gorm.DB
}

func NewContactStore(db *gorm.DB) *ContactStore {
	return &ContactStore{db: db}
}

func (s *ContactStore) DeleteOwned(ctx context.Context, userID uint, ids []uint) (int64, error) {
	res := s.db.WithContext(ctx).
		Where("user_id = ? AND id IN ?", userID, ids).
		Delete(&models.Contact{})
	return res.RowsAffected, res.Error
}

func (s *ContactStore) FindOwned(ctx context.Context, userID uint, ids []uint) ([]models.Contact, error) {
	var contacts []models.Contact
	err := s.db.WithContext(ctx).
		Preload("Tags").
		Where("user_id = ? AND id IN ?", userID, ids).
		Find(&contacts).Error
	return contacts, err
}

// ReplaceTags swaps a contact's tag rows for the given set in one
// transaction. Tags are removed for real, not soft-deleted, so replaced
// sets do not accumulate dead rows.
func (s *ContactStore) ReplaceTags(ctx context.Context, contactID uint, tags []string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("contact_id = ?", contactID).Delete(&models.ContactTag{}).Error; err != nil {
			return err
		}
		for _, tag := range tags {
			row := models.ContactTag{ContactID: contactID, Tag: tag}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *ContactStore) FindByEmail(ctx context.Context, userID uint, email string) (*models.Contact, error) {
	var contact models.Contact
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND email = ?", userID, email).
		First(&contact).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &contact, nil
}

func (s *ContactStore) Create(ctx context.Context, contact *models.Contact) error {
	return s.db.WithContext(ctx).Create(contact).Error
}
