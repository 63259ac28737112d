package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"mailpulse/apperr"
	"mailpulse/models"
)

// SequenceStore is the GORM-backed sequence store.
type SequenceStore struct {
	db *gorm.DB
}

func NewSequenceStore(db *gorm.DB) *SequenceStore {
	return &SequenceStore{db: db}
}

func (s *SequenceStore) FindOwned(ctx context.Context, sequenceID, userID uint) (*models.Sequence, error) {
	var sequence models.Sequence
	err := s.db.WithContext(ctx).
		Preload("Steps", func(db *gorm.DB) *gorm.DB {
			return db.Order("step_order ASC")
		}).
		Where("id = ? AND user_id = ?", sequenceID, userID).
		First(&sequence).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("sequence")
	}
	if err != nil {
		return nil, err
	}
	return &sequence, nil
}

func (s *SequenceStore) SetStatus(ctx context.Context, sequenceID uint, to string, allowedFrom ...string) (bool, error) {
	res := s.db.WithContext(ctx).Model(&models.Sequence{}).
		Where("id = ? AND status IN ?", sequenceID, allowedFrom).
		Update("status", to)
	return res.RowsAffected > 0, res.Error
}

func (s *SequenceStore) Create(ctx context.Context, sequence *models.Sequence) error {
	return s.db.WithContext(ctx).Create(sequence).Error
}
