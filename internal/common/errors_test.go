package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSentinels_AreDistinct(t *testing.T) {
	all := []error{
		ErrNotFound, ErrInternal, ErrValidation, ErrDuplicateEmail,
		ErrInvalidCredentials, ErrTokenInvalid, ErrTokenExpired, ErrMissingSigningKey,
	}
	for i, a := range all {
		for j, b := range all {
			if i != j {
				assert.False(t, errors.Is(a, b), "%v must not match %v", a, b)
			}
		}
	}
}

func TestSentinels_SurviveWrapping(t *testing.T) {
	err := fmt.Errorf("%w: email is required", ErrValidation)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "validation error: email is required", err.Error())
}

func TestValidationError_MatchesSentinel(t *testing.T) {
	var err error = NewValidationError("All fields required")
	assert.ErrorIs(t, err, ErrValidation)

	var ve *ValidationError
	if assert.ErrorAs(t, fmt.Errorf("register: %w", err), &ve) {
		assert.Equal(t, "All fields required", ve.Message)
	}
	assert.Equal(t, "validation error: All fields required", err.Error())
}
