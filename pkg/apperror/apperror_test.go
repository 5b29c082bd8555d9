package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindMatching(t *testing.T) {
	base := errors.New("connection refused")
	err := fmt.Errorf("finalize: %w", Wrap(KindStorageFailure, base, "record order"))

	assert.Equal(t, KindStorageFailure, KindOf(err))
	assert.True(t, errors.Is(err, New(KindStorageFailure, "")))
	assert.False(t, errors.Is(err, New(KindAmountMismatch, "")))
	assert.ErrorIs(t, err, base)
	assert.Equal(t, Kind(""), KindOf(base))
}

func TestAs(t *testing.T) {
	e := New(KindAlreadyProcessed, "payment already fulfilled")
	e.OrderID = "o1"

	got, ok := As(fmt.Errorf("wrapped: %w", e))

	assert.True(t, ok)
	assert.Equal(t, "o1", got.OrderID)
	assert.Equal(t, "ALREADY_PROCESSED: payment already fulfilled", e.Error())
}
