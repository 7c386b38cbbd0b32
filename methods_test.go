package formguard_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/formguard"
)

func TestMethodSet(t *testing.T) {
	t.Parallel()

	t.Run("defaults to POST", func(t *testing.T) {
		s := formguard.NewMethodSet()
		assert.Equal(t, []string{http.MethodPost}, s.Methods())
		assert.True(t, s.Matches(http.MethodPost))
		assert.False(t, s.Matches(http.MethodGet))
	})

	t.Run("zero value behaves as default", func(t *testing.T) {
		var s formguard.MethodSet
		assert.True(t, s.Matches("post"))
		assert.Equal(t, "POST", s.String())
	})

	t.Run("normalizes tokens", func(t *testing.T) {
		s := formguard.NewMethodSet(" put", "PUT", "", "delete", "Purge")
		assert.Equal(t, []string{"PUT", "DELETE", "PURGE"}, s.Methods())
		assert.Equal(t, "PUT,DELETE,PURGE", s.String())
	})

	t.Run("blank only falls back to default", func(t *testing.T) {
		s := formguard.NewMethodSet(" ", "")
		assert.Equal(t, []string{http.MethodPost}, s.Methods())
	})

	t.Run("match is case-insensitive", func(t *testing.T) {
		s := formguard.NewMethodSet("PATCH")
		assert.True(t, s.Matches("patch"))
		assert.True(t, s.Matches("Patch"))
		assert.False(t, s.Matches("POST"))
	})

	t.Run("methods returns a copy", func(t *testing.T) {
		s := formguard.NewMethodSet("PUT")
		m := s.Methods()
		m[0] = "GET"
		assert.Equal(t, []string{"PUT"}, s.Methods())
	})
}
