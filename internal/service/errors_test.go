package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindValidation, KindOf(NewValidationError("bad input")))
	assert.Equal(t, KindNotFound, KindOf(NewNotFoundError("missing")))
	assert.Equal(t, KindSync, KindOf(NewSyncError(errors.New("boom"), "upsert failed")))

	// plain errors default to internal
	assert.Equal(t, KindSync, KindOf(errors.New("anything")))
}

func TestKindOfUnwrapsChains(t *testing.T) {
	inner := NewNotFoundError("sync log missing")
	wrapped := fmt.Errorf("retry: %w", inner)

	assert.Equal(t, KindNotFound, KindOf(wrapped))
}

func TestSyncErrorPreservesCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewSyncError(cause, "upsert batch failed")

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "upsert batch failed")
	assert.Contains(t, err.Error(), "connection reset")
}
