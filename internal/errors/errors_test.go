package errors

import (
	"errors"
	"testing"
)

func TestSentinelErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		target   error
		expected bool
	}{
		{
			name:     "ErrNotFound is recognized",
			err:      ErrNotFound,
			target:   ErrNotFound,
			expected: true,
		},
		{
			name:     "Wrapped ErrNotFound is recognized",
			err:      errors.Join(ErrNotFound, errors.New("additional context")),
			target:   ErrNotFound,
			expected: true,
		},
		{
			name:     "Different error is not ErrNotFound",
			err:      ErrRateLimitExceeded,
			target:   ErrNotFound,
			expected: false,
		},
		{
			name:     "ErrMissingCredential is recognized",
			err:      ErrMissingCredential,
			target:   ErrMissingCredential,
			expected: true,
		},
		{
			name:     "ErrCourseNotFound is recognized",
			err:      ErrCourseNotFound,
			target:   ErrCourseNotFound,
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := errors.Is(tt.err, tt.target)
			if result != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, result)
			}
		})
	}
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("canvas_url", "invalid format")

	if err.Field != "canvas_url" {
		t.Errorf("expected field 'canvas_url', got '%s'", err.Field)
	}

	if err.Message != "invalid format" {
		t.Errorf("expected message 'invalid format', got '%s'", err.Message)
	}

	expected := "validation failed on canvas_url: invalid format"
	if err.Error() != expected {
		t.Errorf("expected error '%s', got '%s'", expected, err.Error())
	}
}

func TestAPIError(t *testing.T) {
	baseErr := errors.New("connection timeout")
	err := NewAPIError("/courses", 500, baseErr)

	if err.Endpoint != "/courses" {
		t.Errorf("expected endpoint '/courses', got '%s'", err.Endpoint)
	}

	if err.StatusCode != 500 {
		t.Errorf("expected status code 500, got %d", err.StatusCode)
	}

	if !errors.Is(err, baseErr) {
		t.Error("expected error to wrap base error")
	}

	errMsg := err.Error()
	if errMsg == "" {
		t.Error("expected non-empty error message")
	}

	// Test without status code
	err2 := NewAPIError("/courses", 0, baseErr)
	errMsg2 := err2.Error()
	if errMsg2 == "" {
		t.Error("expected non-empty error message")
	}
}

func TestAPIError_WrapsSentinel(t *testing.T) {
	err := NewAPIError("/courses/42/assignments", 401, ErrInvalidCredential)

	if !errors.Is(err, ErrInvalidCredential) {
		t.Error("expected 401 error to unwrap to ErrInvalidCredential")
	}
}
