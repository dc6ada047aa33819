package aisafety_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/diogo-cruz/aisafety"
	"github.com/stretchr/testify/assert"
)

func TestErrorf(t *testing.T) {
	t.Parallel()

	err := aisafety.Errorf(aisafety.EUNSUPPORTED, "unsupported publisher %q", "unknown.example")

	assert.Equal(t, aisafety.EUNSUPPORTED, aisafety.ErrorCode(err))
	assert.Equal(t, "unsupported publisher \"unknown.example\"", aisafety.ErrorMessage(err))
}

func TestErrorCode_Wrapped(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("loading config: %w", aisafety.Errorf(aisafety.EINVALID, "bad timeout"))

	assert.Equal(t, aisafety.EINVALID, aisafety.ErrorCode(err))
	assert.Equal(t, "bad timeout", aisafety.ErrorMessage(err))
}

func TestErrorCode_NonApplicationError(t *testing.T) {
	t.Parallel()

	err := errors.New("boom")

	assert.Equal(t, aisafety.EINTERNAL, aisafety.ErrorCode(err))
	assert.Equal(t, "Internal error.", aisafety.ErrorMessage(err))
}

func TestErrorCode_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, aisafety.ErrorCode(nil))
}

func TestErrorMessage_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, aisafety.ErrorMessage(nil))
}
