package validator_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/formguard/pkg/validator"
)

func TestRegex(t *testing.T) {
	ctx := context.Background()

	t.Run("matching values pass", func(t *testing.T) {
		v := validator.Regex(`^[a-z][a-z0-9]{0,29}$`)
		for _, value := range []string{"bob", "daaaaaaaave", "test12345", strings.Repeat("a", 30)} {
			assert.NoError(t, v.Validate(ctx, "username", value), "value %q", value)
		}
	})

	t.Run("non-matching values fail with pattern mismatch", func(t *testing.T) {
		v := validator.Regex(`^[a-z][a-z0-9]{0,29}$`)
		for _, value := range []string{"_", "", strings.Repeat("a", 31), "A", `\`} {
			err := v.Validate(ctx, "username", value)
			require.Error(t, err, "value %q", value)

			var mismatch *validator.PatternMismatchError
			require.True(t, errors.As(err, &mismatch))
			assert.Equal(t, "username", mismatch.Field)
			assert.Equal(t, value, mismatch.Value)
			assert.Equal(t, `^[a-z][a-z0-9]{0,29}$`, mismatch.Pattern)
			assert.ErrorIs(t, err, validator.ErrForm)
		}
	})

	t.Run("match is anchored at the start only", func(t *testing.T) {
		v := validator.Regex("hi")
		assert.NoError(t, v.Validate(ctx, "new", "hi"))
		assert.NoError(t, v.Validate(ctx, "new", "hi there"))
		assert.Error(t, v.Validate(ctx, "new", "oh hi"))
		assert.Error(t, v.Validate(ctx, "new", "bye"))
	})

	t.Run("alternation stays inside the anchor", func(t *testing.T) {
		v := validator.Regex("a|b")
		assert.NoError(t, v.Validate(ctx, "f", "b"))
		assert.Error(t, v.Validate(ctx, "f", "cb"))
	})

	t.Run("invalid pattern fails at construction", func(t *testing.T) {
		_, err := validator.CompileRegex("([a-z")
		require.Error(t, err)
		assert.ErrorIs(t, err, validator.ErrInvalidPattern)

		assert.Panics(t, func() { validator.Regex("([a-z") })
	})

	t.Run("populates the original pattern", func(t *testing.T) {
		v := validator.Regex(`[0-9]{1,4}`)
		assert.Equal(t, "regex", v.Name())
		assert.Equal(t, `[0-9]{1,4}`, v.Pattern())
		assert.Equal(t, map[string]any{"pattern": `[0-9]{1,4}`}, v.Populate(ctx, "count"))
	})
}
