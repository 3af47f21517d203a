package utils

import (
	"errors"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppErrorMessage(t *testing.T) {
	err := NewAppError(ErrCodeValidation, "Exercise cannot be empty")
	assert.Equal(t, "VALIDATION_ERROR: Exercise cannot be empty", err.Error())
	assert.NotEmpty(t, err.File)
	assert.Positive(t, err.Line)

	withDetails := NewAppError(ErrCodeStorage, "Failed to read", "disk full")
	assert.Equal(t, "STORAGE_ERROR: Failed to read (disk full)", withDetails.Error())
}

func TestWrapAppErrorUnwraps(t *testing.T) {
	err := WrapAppError(ErrCodeStorage, "Failed to open data file", fs.ErrPermission)

	require.ErrorIs(t, err, fs.ErrPermission)
	assert.Equal(t, fs.ErrPermission.Error(), err.Details)
	assert.True(t, HasCode(err, ErrCodeStorage))
	assert.False(t, HasCode(err, ErrCodeValidation))
	assert.False(t, HasCode(errors.New("plain"), ErrCodeStorage))
}
