package validator_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/formguard/pkg/validator"
)

func TestDate(t *testing.T) {
	ctx := context.Background()

	t.Run("iso", func(t *testing.T) {
		v := validator.ISODate()
		assert.NoError(t, v.Validate(ctx, "date", "2020-04-10"))

		err := v.Validate(ctx, "date", "04/10/2020")
		var verr *validator.ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, "date", verr.Rule)
		assert.Equal(t, "invalid value for ISO date format", verr.Message)
		assert.Equal(t, map[string]any{"layout": nil, "iso": true}, v.Populate(ctx, "date"))
	})

	t.Run("layout", func(t *testing.T) {
		v := validator.Date("01/02/2006")
		assert.NoError(t, v.Validate(ctx, "date", "04/10/2020"))
		assert.Error(t, v.Validate(ctx, "date", "2020-04-10"))
		assert.Equal(t, map[string]any{"layout": "01/02/2006", "iso": false}, v.Populate(ctx, "date"))
	})

	t.Run("empty layout panics", func(t *testing.T) {
		assert.Panics(t, func() { validator.Date("") })
	})
}

func TestTime(t *testing.T) {
	ctx := context.Background()

	t.Run("iso", func(t *testing.T) {
		v := validator.ISOTime()
		for _, value := range []string{"19:51", "19:51:07", "19:51:07.125"} {
			assert.NoError(t, v.Validate(ctx, "time", value), value)
		}
		assert.Error(t, v.Validate(ctx, "time", "7:51 PM"))
	})

	t.Run("layout", func(t *testing.T) {
		v := validator.Time("3:04 PM")
		assert.NoError(t, v.Validate(ctx, "time", "7:51 PM"))
		assert.Error(t, v.Validate(ctx, "time", "19:51"))
	})
}

func TestNewTemporal(t *testing.T) {
	v, err := validator.NewTemporal("date", "")
	require.NoError(t, err)
	assert.Equal(t, "date", v.Name())

	v, err = validator.NewTemporal("time", "15:04")
	require.NoError(t, err)
	assert.Equal(t, "time", v.Name())

	_, err = validator.NewTemporal("datetime", "")
	assert.ErrorIs(t, err, validator.ErrInvalidRule)
}
