package zaplog

import (
	"testing"

	"github.com/michaelmohamed/pm5/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name        string
		level       string
		expectError bool
	}{
		{"debug", "debug", false},
		{"info", "info", false},
		{"warn", "warn", false},
		{"error", "error", false},
		{"empty_defaults_to_info", "", false},
		{"unknown_level", "loud", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := NewLogger(tt.level)

			if tt.expectError {
				assert.Error(t, err)
				assert.True(t, errors.IsValidationError(err))
				assert.Nil(t, logger)
			} else {
				require.NoError(t, err)
				require.NotNil(t, logger)

				assert.NotPanics(t, func() {
					logger.Debugf("debug %d", 1)
					logger.Infof("info %s", "x")
					logger.Warnf("warn")
					logger.Errorf("error %v", "y")
					logger.LogLevelf(0, "a")
					logger.LogLevelf(1, "b")
					logger.LogLevelf(2, "c")
					logger.LogLevelf(3, "d")
					logger.LogLevelf(99, "e")
				})
			}
		})
	}
}
