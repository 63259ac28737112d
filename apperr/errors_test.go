package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInvalidStateErrorMessage(t *testing.T) {
	err := &InvalidStateError{Entity: "campaign", Action: "sent", Status: "scheduled"}
	assert.Equal(t, "campaign can only be sent from draft status (current: scheduled)", err.Error())
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(NotFound("campaign")))
	assert.True(t, IsNotFound(fmt.Errorf("wrapped: %w", NotFound("contact"))))
	assert.False(t, IsNotFound(errors.New("plain")))
	assert.False(t, IsNotFound(Validation("bad input")))
}

func TestIsClientError(t *testing.T) {
	assert.True(t, IsClientError(&InvalidStateError{Entity: "campaign", Action: "sent", Status: "sent"}))
	assert.True(t, IsClientError(&AlreadyActiveError{}))
	assert.True(t, IsClientError(&NotActiveError{}))
	assert.True(t, IsClientError(Validation("bad")))
	assert.False(t, IsClientError(NotFound("campaign")))
	assert.False(t, IsClientError(Computation("broken invariant")))
	assert.False(t, IsClientError(errors.New("db down")))
}
