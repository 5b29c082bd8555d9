package inventory

import (
	"github.com/luxestudio-live/coupon-bazaar/internal/domain/inventory/handler"
	"github.com/luxestudio-live/coupon-bazaar/internal/domain/inventory/repository"
	"github.com/luxestudio-live/coupon-bazaar/internal/domain/inventory/service"
	"github.com/luxestudio-live/coupon-bazaar/internal/pkg/config"
	"github.com/luxestudio-live/coupon-bazaar/internal/pkg/middleware"
	"github.com/luxestudio-live/coupon-bazaar/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

// ServiceName 在 ModuleContext 中登记的名称
const ServiceName = "inventory.service"

// InventoryModule 券码库存模块
type InventoryModule struct{}

func init() {
	registry.Register(&InventoryModule{})
}

func (m *InventoryModule) Name() string {
	return "inventory"
}

func (m *InventoryModule) Priority() int {
	return 10
}

func (m *InventoryModule) Init(ctx *registry.ModuleContext) error {
	// 1. 依赖注入
	cRepo := repository.NewCodeRepository(ctx.DB, ctx.SQLX)
	iService := service.NewInventoryService(cRepo, ctx.Metrics)
	iHandler := handler.NewInventoryHandler(iService)

	ctx.Provide(ServiceName, iService)

	// 2. 路由注册
	setupRoutes(ctx.Router, iHandler)

	return nil
}

func setupRoutes(r *gin.Engine, h *handler.InventoryHandler) {
	admin := r.Group("/admin")
	admin.Use(middleware.AuthMiddleware(config.GlobalConfig.JWT.Secret), middleware.AdminMiddleware())
	{
		admin.POST("/offers/:id/codes", h.AddCodes)
		admin.GET("/offers/:id/codes", h.ListCodes)
		admin.POST("/codes/:id/consume", h.MarkConsumed)
		admin.POST("/codes/normalize", h.NormalizeLegacy)
		admin.GET("/inventory", h.Inventory)
		admin.GET("/usage-history", h.UsageHistory)
	}
}
