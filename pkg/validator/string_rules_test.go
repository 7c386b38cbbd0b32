package validator_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/formguard/pkg/validator"
)

func TestExists(t *testing.T) {
	v := validator.Exists()
	assert.Equal(t, "exists", v.Name())
	assert.NoError(t, v.Validate(context.Background(), "username", ""))
	assert.NoError(t, v.Validate(context.Background(), "username", "bob"))
}

func TestLength(t *testing.T) {
	ctx := context.Background()

	t.Run("within bounds", func(t *testing.T) {
		v := validator.Length(validator.Min(6), validator.Max(30))
		assert.NoError(t, v.Validate(ctx, "username", "sixsix"))
		assert.NoError(t, v.Validate(ctx, "username", "exactly-thirty-characters-long"))
	})

	t.Run("too short", func(t *testing.T) {
		v := validator.Length(validator.Min(6))
		err := v.Validate(ctx, "username", "bob")
		require.Error(t, err)

		var verr *validator.ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, "length", verr.Rule)
		assert.Equal(t, "value too short (3 < 6)", verr.Message)
	})

	t.Run("too long", func(t *testing.T) {
		v := validator.Length(validator.Max(3))
		err := v.Validate(ctx, "username", "four")

		var verr *validator.ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, "value too long (4 > 3)", verr.Message)
	})

	t.Run("counts runes not bytes", func(t *testing.T) {
		v := validator.Length(validator.Max(5))
		assert.NoError(t, v.Validate(ctx, "name", "héllo"))
		assert.NoError(t, v.Validate(ctx, "name", "日本語"))
	})

	t.Run("no bounds accepts everything", func(t *testing.T) {
		assert.NoError(t, validator.Length().Validate(ctx, "name", ""))
	})

	t.Run("invalid bounds", func(t *testing.T) {
		_, err := validator.NewLength(validator.Min(10), validator.Max(5))
		assert.ErrorIs(t, err, validator.ErrInvalidRule)

		_, err = validator.NewLength(validator.Min(-1))
		assert.ErrorIs(t, err, validator.ErrInvalidRule)

		assert.Panics(t, func() { validator.Length(validator.Max(-2)) })
	})

	t.Run("populate", func(t *testing.T) {
		assert.Equal(t, map[string]any{"min": 6, "max": nil}, validator.Length(validator.Min(6)).Populate(ctx, "f"))
		assert.Equal(t, map[string]any{"min": 1, "max": 2}, validator.Length(validator.Min(1), validator.Max(2)).Populate(ctx, "f"))
	})
}
