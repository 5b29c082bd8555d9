package service

import (
	"testing"
	"time"

	"github.com/luxestudio-live/coupon-bazaar/pkg/apperror"
	"github.com/luxestudio-live/coupon-bazaar/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "0123456789abcdef0123456789abcdef"

func TestLogin(t *testing.T) {
	svc := NewAdminService("Ops@Example.com", "s3cret", secret, time.Hour)

	t.Run("valid credentials issue an admin token", func(t *testing.T) {
		session, err := svc.Login(" ops@example.com ", "s3cret")

		require.NoError(t, err)
		claims, err := utils.ParseToken(secret, session.Token)
		require.NoError(t, err)
		assert.Equal(t, utils.RoleAdmin, claims.Role)
		assert.Equal(t, "ops@example.com", claims.Subject)
		assert.WithinDuration(t, time.Now().Add(time.Hour), session.ExpireAt, time.Minute)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login("ops@example.com", "s3cret!")

		assert.Equal(t, apperror.KindUnauthorized, apperror.KindOf(err))
	})

	t.Run("unconfigured account rejects everything", func(t *testing.T) {
		empty := NewAdminService("", "", secret, time.Hour)

		_, err := empty.Login("", "")

		assert.Equal(t, apperror.KindUnauthorized, apperror.KindOf(err))
	})
}
