package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStorePassesMessageThrough(t *testing.T) {
	err := Store(fmt.Errorf("googleapi: Error 403: The caller does not have permission"))
	assert.Equal(t, ErrStore.Code, err.Code)
	assert.Equal(t, http.StatusInternalServerError, err.Status)
	assert.Equal(t, "googleapi: Error 403: The caller does not have permission", err.Message)
	assert.Equal(t, err.Message, err.Error())
}

func TestStoreKeepsTypedErrors(t *testing.T) {
	cfgErr := Clone(ErrConfiguration, "SHEET_ID not configured")
	assert.Same(t, cfgErr, Store(cfgErr))
}

func TestIsMatchesByCode(t *testing.T) {
	wrapped := fmt.Errorf("provision: %w", Clone(ErrNoSheets, ""))
	assert.True(t, stderrors.Is(wrapped, ErrNoSheets))
	assert.False(t, stderrors.Is(wrapped, ErrConfiguration))
	assert.True(t, HasCode(wrapped, ErrNoSheets))
}

func TestFromErrorDefaultsToInternal(t *testing.T) {
	err := FromError(stderrors.New("boom"))
	assert.Equal(t, ErrInternal.Code, err.Code)
	assert.Equal(t, "boom", err.Message)
	assert.Nil(t, FromError(nil))
}
