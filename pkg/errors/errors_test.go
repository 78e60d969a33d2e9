package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainError_Error(t *testing.T) {
	t.Run("message_only", func(t *testing.T) {
		err := NewProcessError("failed to start process", nil)
		assert.Equal(t, "failed to start process", err.Error())
	})

	t.Run("message_with_cause", func(t *testing.T) {
		cause := errors.New("no such file or directory")
		err := NewIOError("failed to read configuration file", cause)
		assert.Equal(t, "failed to read configuration file: no such file or directory", err.Error())
	})

	t.Run("message_with_context", func(t *testing.T) {
		err := NewProcessError("failed to terminate process", nil).
			WithContext("service", "web").
			WithContext("pid", 12345)
		assert.Equal(t, "failed to terminate process (service: web, pid: 12345)", err.Error())
	})

	t.Run("message_cause_and_context", func(t *testing.T) {
		cause := errors.New("operation not permitted")
		err := NewPermissionError("cannot signal process group", cause).WithContext("pgid", 42)
		assert.Equal(t, "cannot signal process group: operation not permitted (pgid: 42)", err.Error())
	})
}

func TestDomainError_Unwrap(t *testing.T) {
	cause := errors.New("underlying")
	err := NewInternalError("wrapper", cause)

	assert.Equal(t, cause, errors.Unwrap(err))
	assert.True(t, errors.Is(err, cause))
}

func TestCategoryCheckers(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		checker func(error) bool
	}{
		{"validation", NewValidationError("v", nil), IsValidationError},
		{"io", NewIOError("i", nil), IsIOError},
		{"process", NewProcessError("p", nil), IsProcessError},
		{"not_found", NewNotFoundError("n", nil), IsNotFoundError},
		{"permission", NewPermissionError("d", nil), IsPermissionError},
		{"timeout", NewTimeoutError("t", nil), IsTimeoutError},
		{"internal", NewInternalError("x", nil), IsInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.checker(tt.err))
			assert.False(t, tt.checker(errors.New("plain error")))
			assert.False(t, tt.checker(nil))
		})
	}
}

func TestCategoryCheckers_Wrapped(t *testing.T) {
	inner := NewNotFoundError("process group not found", nil).WithContext("pgid", 7)
	wrapped := fmt.Errorf("recovery failed: %w", inner)

	assert.True(t, IsNotFoundError(wrapped))
	assert.False(t, IsPermissionError(wrapped))
}

func TestErrorCollection(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		collection := NewErrorCollection()

		assert.False(t, collection.HasErrors())
		assert.NoError(t, collection.ToError())
		assert.Equal(t, "", collection.Error())
	})

	t.Run("nil_errors_ignored", func(t *testing.T) {
		collection := NewErrorCollection()
		collection.Add(nil)

		assert.False(t, collection.HasErrors())
		assert.NoError(t, collection.ToError())
	})

	t.Run("aggregates_messages", func(t *testing.T) {
		collection := NewErrorCollection()
		collection.Add(errors.New("first"))
		collection.Add(errors.New("second"))

		require.True(t, collection.HasErrors())
		err := collection.ToError()
		require.Error(t, err)
		assert.Equal(t, "first; second", err.Error())
	})
}
