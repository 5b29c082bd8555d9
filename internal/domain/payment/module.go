package payment

import (
	"fmt"

	"github.com/luxestudio-live/coupon-bazaar/internal/domain/offer"
	"github.com/luxestudio-live/coupon-bazaar/internal/domain/payment/gateway"
	"github.com/luxestudio-live/coupon-bazaar/internal/domain/payment/handler"
	"github.com/luxestudio-live/coupon-bazaar/internal/domain/payment/repository"
	"github.com/luxestudio-live/coupon-bazaar/internal/domain/payment/service"
	"github.com/luxestudio-live/coupon-bazaar/internal/pkg/config"
	"github.com/luxestudio-live/coupon-bazaar/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

const (
	// GatewayName 在 ModuleContext 中登记的支付网关
	GatewayName = "payment.gateway"
	// ServiceName 在 ModuleContext 中登记的支付服务
	ServiceName = "payment.service"
)

// PaymentModule 支付模块
type PaymentModule struct{}

func init() {
	registry.Register(&PaymentModule{})
}

func (m *PaymentModule) Name() string {
	return "payment"
}

func (m *PaymentModule) Priority() int {
	// 依赖商品模块的定价服务
	return 20
}

func (m *PaymentModule) Init(ctx *registry.ModuleContext) error {
	svc, ok := ctx.Lookup(offer.ServiceName)
	if !ok {
		return fmt.Errorf("payment module requires %s", offer.ServiceName)
	}
	prices, ok := svc.(service.PriceValidator)
	if !ok {
		return fmt.Errorf("%s does not implement PriceValidator", offer.ServiceName)
	}

	// 1. 依赖注入
	cfg := config.GlobalConfig.Gateway
	gw := gateway.WithMetrics(gateway.NewRazorpay(cfg), ctx.Metrics)
	pRepo := repository.NewPendingRepository(ctx.Redis)
	pService := service.NewPaymentService(gw, prices, pRepo, cfg.PendingTTL)
	pHandler := handler.NewPaymentHandler(pService)

	ctx.Provide(GatewayName, gw)
	ctx.Provide(ServiceName, pService)

	// 2. 路由注册
	setupRoutes(ctx.Router, pHandler)

	return nil
}

func setupRoutes(r *gin.Engine, h *handler.PaymentHandler) {
	g := r.Group("/payments")
	{
		g.POST("/intents", h.CreateIntent)
		g.GET("/:paymentId", h.PaymentDetails)
	}
}
