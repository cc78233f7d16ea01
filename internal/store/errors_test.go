package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotFoundErrorsUnwrap(t *testing.T) {
	for _, err := range []error{ErrUserNotFound, ErrTaskNotFound, ErrSettingsNotFound} {
		assert.ErrorIs(t, err, ErrNotFound)
		assert.True(t, IsNotFoundError(err))
		assert.False(t, IsDuplicateError(err))
	}
}

func TestDuplicateErrorsUnwrap(t *testing.T) {
	for _, err := range []error{ErrEmailExists, ErrNicknameExists, ErrSettingsExist} {
		assert.ErrorIs(t, err, ErrDuplicate)
		assert.True(t, IsDuplicateError(err))
		assert.False(t, IsNotFoundError(err))
	}
}

func TestWrappedErrorsStayDetectable(t *testing.T) {
	wrapped := fmt.Errorf("creating account: %w", ErrEmailExists)
	assert.True(t, IsDuplicateError(wrapped))
	assert.ErrorIs(t, wrapped, ErrEmailExists)
}

func TestUnrelatedErrorsAreNeither(t *testing.T) {
	err := errors.New("connection refused")
	assert.False(t, IsNotFoundError(err))
	assert.False(t, IsDuplicateError(err))
}
