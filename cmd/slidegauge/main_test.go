package main

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckFailureError(t *testing.T) {
	err := &CheckFailureError{
		Message: "deck average 62.5 is below the threshold",
	}

	assert.Equal(t, "deck average 62.5 is below the threshold", err.Error())
}

func TestErrorTypeDetection(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantFailure bool
	}{
		{
			name:        "CheckFailureError",
			err:         &CheckFailureError{Message: "deck below threshold"},
			wantFailure: true,
		},
		{
			name:        "regular error",
			err:         errors.New("config error"),
			wantFailure: false,
		},
		{
			name:        "wrapped CheckFailureError",
			err:         errors.Join(&CheckFailureError{Message: "selftest failed"}, errors.New("additional context")),
			wantFailure: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var checkErr *CheckFailureError
			isFailure := errors.As(tt.err, &checkErr)

			assert.Equal(t, tt.wantFailure, isFailure)
		})
	}
}
