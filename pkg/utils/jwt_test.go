package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestToken(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		token, exp, err := GenerateToken(testSecret, "ops@example.com", RoleAdmin, time.Hour)
		require.NoError(t, err)
		assert.True(t, exp.After(time.Now()))

		claims, err := ParseToken(testSecret, token)
		require.NoError(t, err)
		assert.Equal(t, "ops@example.com", claims.Subject)
		assert.Equal(t, RoleAdmin, claims.Role)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token, _, err := GenerateToken(testSecret, "ops@example.com", RoleAdmin, time.Hour)
		require.NoError(t, err)

		_, err = ParseToken("another-secret-another-secret-xx", token)
		assert.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		token, _, err := GenerateToken(testSecret, "ops@example.com", RoleAdmin, -time.Minute)
		require.NoError(t, err)

		_, err = ParseToken(testSecret, token)
		assert.Error(t, err)
	})
}

func TestGetPageOffset(t *testing.T) {
	p := Pagination{Page: 0, Limit: 0}
	offset, limit := p.GetPageOffset()
	assert.Equal(t, 0, offset)
	assert.Equal(t, DefaultPageLimit, limit)
	assert.Equal(t, 1, p.Page)

	p = Pagination{Page: 3, Limit: 500}
	offset, limit = p.GetPageOffset()
	assert.Equal(t, 200, offset)
	assert.Equal(t, MaxPageLimit, limit)

	res := NewPageResult([]int{1}, 201, p)
	assert.Equal(t, 3, res.Page)
	assert.Equal(t, MaxPageLimit, res.Limit)
}
