package validator_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/formguard/pkg/validator"
)

func TestEmail(t *testing.T) {
	ctx := context.Background()

	t.Run("without domain", func(t *testing.T) {
		v := validator.Email()
		assert.NoError(t, v.Validate(ctx, "email", "test@example.com"))

		for _, value := range []string{"@example.com", "test@", "test@test@example.com", "plain", ""} {
			err := v.Validate(ctx, "email", value)
			assert.Error(t, err, "value %q", value)
			assert.Equal(t, validator.KindInvalidValue, validator.KindOf(err))
		}
		assert.Equal(t, map[string]any{"domain": nil}, v.Populate(ctx, "email"))
	})

	t.Run("with domain", func(t *testing.T) {
		v := validator.Email(validator.WithDomain("example.com"))
		assert.NoError(t, v.Validate(ctx, "email", "test@example.com"))

		for _, value := range []string{"test@a.example.com", "test@aexample.com"} {
			assert.Error(t, v.Validate(ctx, "email", value), "value %q", value)
		}
		assert.Equal(t, map[string]any{"domain": "example.com"}, v.Populate(ctx, "email"))
	})
}

func TestIPAddress(t *testing.T) {
	ctx := context.Background()

	t.Run("ipv4 by default", func(t *testing.T) {
		v := validator.IPAddress()
		for _, ip := range []string{"127.127.127.127", "1.1.1.1"} {
			assert.NoError(t, v.Validate(ctx, "addr", ip), ip)
		}
		for _, ip := range []string{"256.0.0.0", "1.1.1", "1.1.1.1.1", "127.127.127.", "2001:db8::1"} {
			assert.Error(t, v.Validate(ctx, "addr", ip), ip)
		}
		assert.Equal(t, map[string]any{"type": []string{"ipv4"}}, v.Populate(ctx, "addr"))
	})

	t.Run("ipv6", func(t *testing.T) {
		v := validator.IPAddress(validator.IPv6)
		valid := []string{
			"2001:db8:0:0:1:0:0:1", "2001:0db8:0:0:1:0:0:1",
			"2001:db8::1:0:0:1", "2001:db8::0:1:0:0:1",
			"2001:0db8::1:0:0:1", "2001:db8:0:0:1::1",
			"2001:db8:0000:0:1::1", "2001:DB8:0:0:1::1",
		}
		for _, ip := range valid {
			assert.NoError(t, v.Validate(ctx, "addr", ip), ip)
		}
		for _, ip := range []string{"2001:db8::1::1", "2001:db8:a:b:c:d:e:a:b", "::g", "1.1.1.1", "fe80::1%eth0"} {
			assert.Error(t, v.Validate(ctx, "addr", ip), ip)
		}
	})

	t.Run("both families", func(t *testing.T) {
		v := validator.IPAddress(validator.IPv4, validator.IPv6)
		assert.NoError(t, v.Validate(ctx, "addr", "10.0.0.1"))
		assert.NoError(t, v.Validate(ctx, "addr", "::1"))
		assert.Error(t, v.Validate(ctx, "addr", "localhost"))
	})

	t.Run("unknown family", func(t *testing.T) {
		_, err := validator.NewIPAddress("ipx")
		assert.ErrorIs(t, err, validator.ErrInvalidRule)
	})
}
