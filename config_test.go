package formguard_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/formguard"
	"github.com/dmitrymomot/formguard/pkg/config"
	"github.com/dmitrymomot/formguard/pkg/validator"
)

func TestConfig(t *testing.T) {
	t.Parallel()

	t.Run("env defaults match DefaultConfig", func(t *testing.T) {
		cfg, err := config.Parse[formguard.Config](config.WithEnvironment(map[string]string{}))
		require.NoError(t, err)
		assert.Equal(t, formguard.DefaultConfig(), cfg)
	})

	t.Run("env overrides", func(t *testing.T) {
		cfg, err := config.Parse[formguard.Config](config.WithEnvironment(map[string]string{
			"FORM_METHODS":       "put,patch",
			"FORM_JSON_FALLBACK": "false",
			"FORM_MAX_MEMORY":    "1024",
		}))
		require.NoError(t, err)

		g, err := formguard.NewFromConfig(cfg, formguard.WithValidator("name", validator.Exists()))
		require.NoError(t, err)
		assert.Equal(t, []string{http.MethodPut, http.MethodPatch}, g.Methods().Methods())

		_, err = g.Evaluate(putJSON(`{"name": "x"}`))
		assert.Equal(t, validator.KindMissingField, validator.KindOf(err))
	})

	t.Run("invalid max memory", func(t *testing.T) {
		cfg := formguard.DefaultConfig()
		cfg.MaxMemory = 0
		_, err := formguard.NewFromConfig(cfg)
		assert.ErrorIs(t, err, formguard.ErrInvalidConfig)
		assert.Panics(t, func() { formguard.MustNewFromConfig(cfg) })
	})
}
