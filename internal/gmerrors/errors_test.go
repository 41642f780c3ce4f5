package gmerrors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorString(t *testing.T) {
	err := New(QACheckFail, "check_tail", "max_vel_ratio_exceeded")
	assert.Equal(t, "qa_check_fail[check_tail]: max_vel_ratio_exceeded", err.Error())
}

func TestWrapUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := Wrap(ProcessingError, "ridder_fchp", cause)
	require.NotNil(t, err)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, ProcessingError, err.Kind)
}

func TestWrapNil(t *testing.T) {
	assert.Nil(t, Wrap(DataError, "cut", nil))
}

func TestConfigConstructor(t *testing.T) {
	err := Config("unknown step %q", "frobnicate")
	assert.Equal(t, ConfigError, err.Kind)
	assert.Contains(t, err.Error(), "frobnicate")
}
