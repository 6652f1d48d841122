package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError(t *testing.T) {
	t.Run("Error formatting", func(t *testing.T) {
		err := NewIntegrityError("duplicate merge key", nil)
		assert.Equal(t, "[INTEGRITY] duplicate merge key", err.Error())

		cause := fmt.Errorf("row 17")
		wrapped := NewParsingError("bad record", cause)
		assert.Equal(t, "[PARSING] bad record: row 17", wrapped.Error())
	})

	t.Run("Unwrap", func(t *testing.T) {
		cause := fmt.Errorf("underlying")
		err := NewConfigError("bad variant", cause)
		assert.Equal(t, cause, err.Unwrap())
	})

	t.Run("WithContext", func(t *testing.T) {
		err := NewValidationError("unknown education code", nil).
			WithContext("unit_id", int64(42)).
			WithContext("code", 9)
		require.NotNil(t, err.Context)
		assert.Equal(t, int64(42), err.Context["unit_id"])
		assert.Equal(t, 9, err.Context["code"])
	})

	t.Run("IsType through wrapping", func(t *testing.T) {
		err := NewEmptyPopulationError("no units in group")
		wrapped := fmt.Errorf("compute median: %w", err)
		assert.True(t, IsType(wrapped, ErrTypeEmptyPopulation))
		assert.False(t, IsType(wrapped, ErrTypeIntegrity))
		assert.False(t, IsType(fmt.Errorf("plain"), ErrTypeIntegrity))
	})
}
