package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorIsMatchesByCode(t *testing.T) {
	sentinel := New(KindConflict, "already_owned", "theme already purchased")
	wrapped := fmt.Errorf("purchase: %w", sentinel.Wrap(errors.New("unique violation")))

	assert.True(t, errors.Is(wrapped, sentinel))
	assert.False(t, errors.Is(wrapped, New(KindConflict, "already_unlocked", "")))
	assert.Equal(t, KindConflict, KindOf(wrapped))
}

func TestKindOfForeignError(t *testing.T) {
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))

	e, ok := As(Internal(errors.New("db down")))
	assert.True(t, ok)
	assert.Equal(t, "internal error", e.Message)
}
