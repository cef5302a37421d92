package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExitCodeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ExitCode
	}{
		{"nil", nil, ExitSuccess},
		{"plain", fmt.Errorf("boom"), ExitError},
		{"auth", NewAuthError(nil, "not logged in"), ExitAuthError},
		{"wrapped validation", Wrap(NewValidationError(nil, "bad file"), "upload"), ExitValidationError},
		{"network", NewNetworkError(fmt.Errorf("refused"), "server down"), ExitNetworkError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCodeOf(tt.err))
		})
	}
}

func TestFormatError(t *testing.T) {
	err := NewNetworkError(fmt.Errorf("dial tcp: refused"), "Cannot reach the test agent server")

	assert.Equal(t, "Cannot reach the test agent server", FormatError(err, false))
	assert.Contains(t, FormatError(err, true), "Technical details:\n  dial tcp: refused")
	assert.Equal(t, "Cannot reach the test agent server: dial tcp: refused", err.Error())
	assert.Equal(t, "plain", FormatError(fmt.Errorf("plain"), true))
}

func TestWithStackTrace(t *testing.T) {
	err := NewError(nil, "failed").WithStackTrace()
	assert.Contains(t, err.StackTrace, "TestWithStackTrace")
	assert.Contains(t, FormatError(err, true), "Stack trace:")
}
