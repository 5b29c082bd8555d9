package middleware

import (
	"net/http"
	"strings"

	"github.com/luxestudio-live/coupon-bazaar/pkg/response"

	"github.com/gin-gonic/gin"
)

// 维护期间仍放行的路径前缀
var maintenanceBypass = []string{"/admin", "/health", "/metrics", "/swagger"}

// MaintenanceMiddleware 维护模式开关在启动时读取一次，只拦截非后台流量
func MaintenanceMiddleware(enabled bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !enabled {
			c.Next()
			return
		}
		path := c.Request.URL.Path
		for _, prefix := range maintenanceBypass {
			if strings.HasPrefix(path, prefix) {
				c.Next()
				return
			}
		}
		response.Error(c, http.StatusServiceUnavailable, response.ErrMaintenance, "Store is under maintenance")
		c.Abort()
	}
}
