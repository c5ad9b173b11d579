package errors

import (
	"database/sql"
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCloneKeepsCodeAndOverridesMessage(t *testing.T) {
	clone := Clone(ErrNotOwned, "scheduled class 7 belongs to another teacher")

	assert.Equal(t, ErrNotOwned.Code, clone.Code)
	assert.Equal(t, http.StatusBadRequest, clone.Status)
	assert.Equal(t, "scheduled class 7 belongs to another teacher", clone.Message)
	assert.Equal(t, "scheduled class does not belong to the requesting teacher", ErrNotOwned.Message)

	assert.Equal(t, ErrGenerationInProgress.Message, Clone(ErrGenerationInProgress, "").Message)
	assert.Nil(t, Clone(nil, "ignored"))
}

func TestIsMatchesByCodeThroughWrapping(t *testing.T) {
	err := fmt.Errorf("generate: %w", Clone(ErrGenerationInProgress, "busy"))

	assert.True(t, Is(err, ErrGenerationInProgress))
	assert.False(t, Is(err, ErrConflict))
	assert.False(t, Is(nil, ErrConflict))
	assert.False(t, Is(sql.ErrNoRows, ErrNotFound))
}

func TestWrapExposesCause(t *testing.T) {
	err := Wrap(sql.ErrConnDone, ErrStorageFailure.Code, ErrStorageFailure.Status, "failed to commit placement")

	assert.True(t, stdErrors.Is(err, sql.ErrConnDone))
	assert.Contains(t, err.Error(), "failed to commit placement")
	assert.Contains(t, err.Error(), sql.ErrConnDone.Error())
}

func TestFromError(t *testing.T) {
	assert.Nil(t, FromError(nil))

	typed := Clone(ErrAlreadyResolved, "")
	assert.Same(t, typed, FromError(fmt.Errorf("resolve: %w", typed)))

	generic := FromError(stdErrors.New("boom"))
	assert.Equal(t, ErrInternal.Code, generic.Code)
	assert.Equal(t, http.StatusInternalServerError, generic.Status)
}
