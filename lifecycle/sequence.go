package lifecycle

import (
	"context"

	"mailpulse/apperr"
	"mailpulse/models"
)

// SequenceStore is the data-access surface the sequence state machine
// drives. FindOwned must preload steps in order.
type SequenceStore interface {
	FindOwned(ctx context.Context, sequenceID, userID uint) (*models.Sequence, error)

	// SetStatus updates status guarded by the current status still being one
	// of allowedFrom at write time. Returns false when the guard missed.
	SetStatus(ctx context.Context, sequenceID uint, to string, allowedFrom ...string) (bool, error)

	Create(ctx context.Context, sequence *models.Sequence) error
}

// SequenceService enforces draft -> active and active <-> paused. There is
// no terminal state.
type SequenceService struct {
	store SequenceStore
}

func NewSequenceService(store SequenceStore) *SequenceService {
	return &SequenceService{store: store}
}

// Activate moves a draft or paused sequence to active.
func (s *SequenceService) Activate(ctx context.Context, userID, sequenceID uint) (*models.Sequence, error) {
	sequence, err := s.store.FindOwned(ctx, sequenceID, userID)
	if err != nil {
		return nil, err
	}
	if sequence.Status == models.SequenceActive {
		return nil, &apperr.AlreadyActiveError{}
	}

	ok, err := s.store.SetStatus(ctx, sequence.ID, models.SequenceActive, models.SequenceDraft, models.SequencePaused)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &apperr.AlreadyActiveError{}
	}

	sequence.Status = models.SequenceActive
	return sequence, nil
}

// Pause moves an active sequence to paused.
func (s *SequenceService) Pause(ctx context.Context, userID, sequenceID uint) (*models.Sequence, error) {
	sequence, err := s.store.FindOwned(ctx, sequenceID, userID)
	if err != nil {
		return nil, err
	}
	if sequence.Status != models.SequenceActive {
		return nil, &apperr.NotActiveError{}
	}

	ok, err := s.store.SetStatus(ctx, sequence.ID, models.SequencePaused, models.SequenceActive)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &apperr.NotActiveError{}
	}

	sequence.Status = models.SequencePaused
	return sequence, nil
}

// Duplicate creates a new draft sequence copying name (suffixed), description
// and the step list verbatim. Subscriber, completion and open-rate stats
// start at zero.
func (s *SequenceService) Duplicate(ctx context.Context, userID, sequenceID uint) (*models.Sequence, error) {
	original, err := s.store.FindOwned(ctx, sequenceID, userID)
	if err != nil {
		return nil, err
	}

	dup := &models.Sequence{
		UserID:      userID,
		Name:        original.Name + " (Copy)",
		Description: original.Description,
		Status:      models.SequenceDraft,
	}
	for _, step := range original.Steps {
		dup.Steps = append(dup.Steps, models.SequenceStep{
			StepType:  step.StepType,
			Subject:   step.Subject,
			Content:   step.Content,
			DelayDays: step.DelayDays,
			StepOrder: step.StepOrder,
		})
	}

	if err := s.store.Create(ctx, dup); err != nil {
		return nil, err
	}
	return dup, nil
}
