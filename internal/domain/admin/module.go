package admin

import (
	"time"

	"github.com/luxestudio-live/coupon-bazaar/internal/domain/admin/handler"
	"github.com/luxestudio-live/coupon-bazaar/internal/domain/admin/service"
	"github.com/luxestudio-live/coupon-bazaar/internal/pkg/config"
	"github.com/luxestudio-live/coupon-bazaar/internal/pkg/middleware"
	"github.com/luxestudio-live/coupon-bazaar/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

// AdminModule 后台登录
type AdminModule struct{}

func init() {
	registry.Register(&AdminModule{})
}

func (m *AdminModule) Name() string {
	return "admin"
}

func (m *AdminModule) Priority() int {
	return 5
}

func (m *AdminModule) Init(ctx *registry.ModuleContext) error {
	cfg := config.GlobalConfig
	ttl := time.Duration(cfg.JWT.Expire) * time.Hour

	aService := service.NewAdminService(cfg.Admin.Email, cfg.Admin.Password, cfg.JWT.Secret, ttl)
	aHandler := handler.NewAdminHandler(aService)

	setupRoutes(ctx.Router, aHandler, cfg.JWT.Secret)
	return nil
}

func setupRoutes(r *gin.Engine, h *handler.AdminHandler, secret string) {
	r.POST("/admin/login", h.Login)

	admin := r.Group("/admin")
	admin.Use(middleware.AuthMiddleware(secret), middleware.AdminMiddleware())
	{
		admin.GET("/me", h.Me)
	}
}
