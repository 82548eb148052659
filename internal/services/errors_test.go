package services

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil", nil, KindInternal},
		{"plain error", errors.New("boom"), KindInternal},
		{"unauthenticated", ErrUnauthenticated, KindUnauthenticated},
		{"wrapped validation", fmt.Errorf("create: %w", ErrInsufficientBalance), KindValidation},
		{"joined not found", errors.Join(errors.New("ctx"), ErrReceiverNotFound), KindNotFound},
		{"conflict", ErrDuplicateReference, KindConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestErrorSentinels(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", ErrMissingReceiver)
	assert.ErrorIs(t, wrapped, ErrMissingReceiver)
	assert.NotErrorIs(t, wrapped, ErrReceiverNotFound)
	assert.Equal(t, "receiver id is required for internal transfers", ErrMissingReceiver.Error())
	assert.Equal(t, "not_found", KindNotFound.String())
	assert.Equal(t, "internal", Kind(99).String())
}
