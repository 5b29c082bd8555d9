package offer

import (
	"github.com/luxestudio-live/coupon-bazaar/internal/domain/brand"
	"github.com/luxestudio-live/coupon-bazaar/internal/domain/offer/handler"
	"github.com/luxestudio-live/coupon-bazaar/internal/domain/offer/repository"
	"github.com/luxestudio-live/coupon-bazaar/internal/domain/offer/service"
	"github.com/luxestudio-live/coupon-bazaar/internal/pkg/config"
	"github.com/luxestudio-live/coupon-bazaar/internal/pkg/middleware"
	"github.com/luxestudio-live/coupon-bazaar/internal/pkg/registry"
	"github.com/luxestudio-live/coupon-bazaar/internal/pkg/uploader"
	"github.com/luxestudio-live/coupon-bazaar/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ServiceName 在 ModuleContext 中登记的名称
const ServiceName = "offer.service"

// OfferModule 商品目录模块
type OfferModule struct{}

func init() {
	registry.Register(&OfferModule{})
}

func (m *OfferModule) Name() string {
	return "offer"
}

func (m *OfferModule) Priority() int {
	// 在 brand 之后
	return 10
}

func (m *OfferModule) Init(ctx *registry.ModuleContext) error {
	// 1. 依赖注入
	var up uploader.Uploader
	if oss, err := uploader.NewAliyunOSSUploader(config.GlobalConfig.OSS); err != nil {
		logger.Log.Warn("offer image upload disabled", zap.Error(err))
	} else {
		up = oss
	}

	var brands service.BrandResolver
	if svc, ok := ctx.Lookup(brand.ServiceName); ok {
		brands, _ = svc.(service.BrandResolver)
	}

	oRepo := repository.NewOfferRepository(ctx.DB)
	oService := service.NewOfferService(oRepo, up, brands)
	oHandler := handler.NewOfferHandler(oService)

	ctx.Provide(ServiceName, oService)

	// 2. 路由注册
	setupRoutes(ctx.Router, oHandler)

	return nil
}

func setupRoutes(r *gin.Engine, h *handler.OfferHandler) {
	g := r.Group("/offers")
	{
		g.GET("", h.ListOffers)
		g.GET("/:id", h.GetOffer)
	}

	admin := r.Group("/admin/offers")
	admin.Use(middleware.AuthMiddleware(config.GlobalConfig.JWT.Secret), middleware.AdminMiddleware())
	{
		admin.GET("", h.AdminListOffers)
		admin.POST("", h.CreateOffer)
		admin.PUT("/:id", h.UpdateOffer)
		admin.DELETE("/:id", h.DeleteOffer)
		admin.PATCH("/:id/visibility", h.SetVisibility)
		admin.POST("/:id/image", h.UploadImage)
	}
}
