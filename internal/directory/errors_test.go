package directory

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookupFailedError(t *testing.T) {
	t.Parallel()

	cause := errors.New("timeout")
	err := NewLookupFailedError(OpSearchByName, "Zug", cause)

	assert.Equal(t, `station lookup failed: searchByName "Zug": timeout`, err.Error())
	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrLookupFailed)
	assert.ErrorIs(t, fmt.Errorf("refreshing: %w", err), ErrLookupFailed)

	withStatus := &LookupFailedError{Op: OpSearchByLocation, Query: "1,2", StatusCode: 502}
	assert.Equal(t, `station lookup failed: searchByLocation "1,2": status 502`, withStatus.Error())
	assert.False(t, errors.Is(errors.New("other"), ErrLookupFailed))
}
