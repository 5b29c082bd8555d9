package brand

import (
	"github.com/luxestudio-live/coupon-bazaar/internal/domain/brand/handler"
	"github.com/luxestudio-live/coupon-bazaar/internal/domain/brand/repository"
	"github.com/luxestudio-live/coupon-bazaar/internal/domain/brand/service"
	"github.com/luxestudio-live/coupon-bazaar/internal/pkg/config"
	"github.com/luxestudio-live/coupon-bazaar/internal/pkg/middleware"
	"github.com/luxestudio-live/coupon-bazaar/internal/pkg/registry"
	"github.com/luxestudio-live/coupon-bazaar/internal/pkg/uploader"
	"github.com/luxestudio-live/coupon-bazaar/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ServiceName 在 ModuleContext 中登记的名称
const ServiceName = "brand.service"

// BrandModule 品牌模块，商品创建前需要先有品牌
type BrandModule struct{}

func init() {
	registry.Register(&BrandModule{})
}

func (m *BrandModule) Name() string {
	return "brand"
}

func (m *BrandModule) Priority() int {
	return 8
}

func (m *BrandModule) Init(ctx *registry.ModuleContext) error {
	// 1. 依赖注入
	var up uploader.Uploader
	if oss, err := uploader.NewAliyunOSSUploader(config.GlobalConfig.OSS); err != nil {
		logger.Log.Warn("brand logo upload disabled", zap.Error(err))
	} else {
		up = oss
	}

	bRepo := repository.NewBrandRepository(ctx.DB, ctx.SQLX)
	bService := service.NewBrandService(bRepo, up)
	bHandler := handler.NewBrandHandler(bService)

	ctx.Provide(ServiceName, bService)

	// 2. 路由注册
	setupRoutes(ctx.Router, bHandler)

	return nil
}

func setupRoutes(r *gin.Engine, h *handler.BrandHandler) {
	g := r.Group("/brands")
	{
		g.GET("", h.ListBrands)
		g.GET("/:id", h.GetBrand)
	}

	admin := r.Group("/admin/brands")
	admin.Use(middleware.AuthMiddleware(config.GlobalConfig.JWT.Secret), middleware.AdminMiddleware())
	{
		admin.POST("", h.CreateBrand)
		admin.PUT("/:id", h.UpdateBrand)
		admin.DELETE("/:id", h.DeleteBrand)
		admin.POST("/:id/logo", h.UploadLogo)
	}
}
