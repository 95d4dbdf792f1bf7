package usecase

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_KindMatching(t *testing.T) {
	err := fmt.Errorf("handler: %w", upstream("insert order", errBoom))

	assert.ErrorIs(t, err, ErrUpstream)
	assert.ErrorIs(t, err, errBoom)
	assert.False(t, errors.Is(err, ErrValidation))
	assert.Equal(t, "handler: insert order: boom", err.Error())
}

func TestUpstream_KeepsExistingKind(t *testing.T) {
	inner := validationf("bad %s", "input")

	err := upstream("outer", inner)

	require.ErrorIs(t, err, ErrValidation)
	assert.False(t, errors.Is(err, ErrUpstream))
}

func TestStoreErr(t *testing.T) {
	require.ErrorIs(t, storeErr("get", "product", ErrRecordNotFound), ErrNotFound)
	require.ErrorIs(t, storeErr("get", "product", errBoom), ErrUpstream)
	assert.Equal(t, "product not found", storeErr("get", "product", ErrRecordNotFound).Error())
}

func TestOrderIDOf(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", &Error{Kind: ErrPartialOrder, OrderID: "o-9"})

	assert.Equal(t, "o-9", OrderIDOf(err))
	assert.Empty(t, OrderIDOf(errBoom))
}
