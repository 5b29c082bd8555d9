package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/luxestudio-live/coupon-bazaar/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func init() {
	gin.SetMode(gin.TestMode)
}

func perform(r *gin.Engine, method, path string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthAndAdmin(t *testing.T) {
	r := gin.New()
	r.GET("/admin/ping", AuthMiddleware(testSecret), AdminMiddleware(), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("subject"))
	})

	t.Run("missing header", func(t *testing.T) {
		w := perform(r, "GET", "/admin/ping", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("bad format", func(t *testing.T) {
		w := perform(r, "GET", "/admin/ping", map[string]string{"Authorization": "Token abc"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("empty bearer", func(t *testing.T) {
		w := perform(r, "GET", "/admin/ping", map[string]string{"Authorization": "Bearer "})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("non admin role", func(t *testing.T) {
		token, _, err := utils.GenerateToken(testSecret, "someone", "viewer", time.Hour)
		require.NoError(t, err)
		w := perform(r, "GET", "/admin/ping", map[string]string{"Authorization": "Bearer " + token})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("admin passes", func(t *testing.T) {
		token, _, err := utils.GenerateToken(testSecret, "ops@example.com", utils.RoleAdmin, time.Hour)
		require.NoError(t, err)
		w := perform(r, "GET", "/admin/ping", map[string]string{"Authorization": "Bearer " + token})
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "ops@example.com", w.Body.String())
	})
}

func TestMaintenanceMiddleware(t *testing.T) {
	build := func(enabled bool) *gin.Engine {
		r := gin.New()
		r.Use(MaintenanceMiddleware(enabled))
		ok := func(c *gin.Context) { c.Status(http.StatusOK) }
		r.GET("/offers", ok)
		r.GET("/admin/offers", ok)
		return r
	}

	t.Run("disabled", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, perform(build(false), "GET", "/offers", nil).Code)
	})

	t.Run("enabled blocks storefront", func(t *testing.T) {
		assert.Equal(t, http.StatusServiceUnavailable, perform(build(true), "GET", "/offers", nil).Code)
	})

	t.Run("enabled keeps admin", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, perform(build(true), "GET", "/admin/offers", nil).Code)
	})
}

func TestRateLimitMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(RateLimitMiddleware(NewIPRateLimiter(0.001, 2)))
	r.GET("/offers", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, perform(r, "GET", "/offers", nil).Code)
	assert.Equal(t, http.StatusOK, perform(r, "GET", "/offers", nil).Code)
	assert.Equal(t, http.StatusTooManyRequests, perform(r, "GET", "/offers", nil).Code)
}

func TestIPRateLimiterCleanup(t *testing.T) {
	l := NewIPRateLimiter(1, 1)
	l.ttl = -time.Second
	l.GetLimiter("10.0.0.1")
	l.GetLimiter("10.0.0.2")

	assert.Equal(t, 2, l.Cleanup())
}

func TestTraceMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(TraceMiddleware())
	r.GET("/x", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("traceID")) })

	w := perform(r, "GET", "/x", map[string]string{"X-Trace-ID": "trace-1"})
	assert.Equal(t, "trace-1", w.Body.String())
	assert.Equal(t, "trace-1", w.Header().Get("X-Trace-ID"))

	w = perform(r, "GET", "/x", nil)
	assert.NotEmpty(t, w.Header().Get("X-Trace-ID"))

	long := strings.Repeat("a", maxTraceIDLen+1)
	w = perform(r, "GET", "/x", map[string]string{"X-Trace-ID": long})
	assert.NotEqual(t, long, w.Header().Get(TraceHeader))
	assert.Len(t, w.Header().Get(TraceHeader), 36)
}
