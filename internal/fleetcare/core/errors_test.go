package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		name            string
		err             error
		notFound        bool
		validation      bool
		unsupportedType bool
	}{
		{"not found", &NotFoundError{Kind: "bill", ID: "9"}, true, false, false},
		{"wrapped not found", fmt.Errorf("renew: %w", &NotFoundError{Kind: "contract", ID: "9"}), true, false, false},
		{"validation", &ValidationError{Field: "plate", Reason: "required"}, false, true, false},
		{"wrapped validation", fmt.Errorf("submit: %w", &ValidationError{Field: "email"}), false, true, false},
		{"media", &UnsupportedMediaError{Name: "a.exe", Type: "application/x-msdownload"}, false, false, true},
		{"credentials", ErrInvalidCredentials, false, false, false},
		{"plain", errors.New("boom"), false, false, false},
		{"nil", nil, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.notFound, IsNotFound(tt.err))
			assert.Equal(t, tt.validation, IsValidation(tt.err))
			assert.Equal(t, tt.unsupportedType, IsUnsupportedMedia(tt.err))
		})
	}
}

func TestDispatchErrorUnwraps(t *testing.T) {
	cause := errors.New("broker down")
	err := &DispatchError{Kind: "quote.approved", SubjectID: "q1", Err: cause}
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "quote.approved")
}
