package order

import (
	"fmt"

	"github.com/luxestudio-live/coupon-bazaar/internal/domain/inventory"
	"github.com/luxestudio-live/coupon-bazaar/internal/domain/offer"
	"github.com/luxestudio-live/coupon-bazaar/internal/domain/order/handler"
	"github.com/luxestudio-live/coupon-bazaar/internal/domain/order/repository"
	"github.com/luxestudio-live/coupon-bazaar/internal/domain/order/service"
	"github.com/luxestudio-live/coupon-bazaar/internal/domain/payment"
	"github.com/luxestudio-live/coupon-bazaar/internal/domain/payment/gateway"
	"github.com/luxestudio-live/coupon-bazaar/internal/pkg/config"
	"github.com/luxestudio-live/coupon-bazaar/internal/pkg/middleware"
	"github.com/luxestudio-live/coupon-bazaar/internal/pkg/registry"

	"github.com/gin-gonic/gin"
)

// OrderModule 订单与下单流程
type OrderModule struct{}

func init() {
	registry.Register(&OrderModule{})
}

func (m *OrderModule) Name() string {
	return "order"
}

func (m *OrderModule) Priority() int {
	// 依赖 offer、inventory、payment
	return 30
}

func (m *OrderModule) Init(ctx *registry.ModuleContext) error {
	prices, err := lookup[service.PriceValidator](ctx, offer.ServiceName)
	if err != nil {
		return err
	}
	allocator, err := lookup[service.Allocator](ctx, inventory.ServiceName)
	if err != nil {
		return err
	}
	pending, err := lookup[service.PendingStore](ctx, payment.ServiceName)
	if err != nil {
		return err
	}
	gw, err := lookup[gateway.Gateway](ctx, payment.GatewayName)
	if err != nil {
		return err
	}

	var alerts service.AlertSink
	if ctx.Alerts != nil {
		alerts = ctx.Alerts
	}
	var lock service.PaymentLock
	if ctx.Redis != nil {
		lock = repository.NewFinalizeLock(ctx.Redis)
	}

	// 1. 依赖注入
	cfg := config.GlobalConfig.Purchase
	oRepo := repository.NewOrderRepository(ctx.DB)
	pService := service.NewPurchaseService(oRepo, gw, prices, allocator, pending, lock, alerts, ctx.Metrics,
		service.Timeouts{Finalize: cfg.FinalizeTimeout, IO: cfg.IOTimeout})
	oHandler := handler.NewOrderHandler(pService)

	// 2. 路由注册
	setupRoutes(ctx.Router, oHandler)

	return nil
}

func lookup[T any](ctx *registry.ModuleContext, name string) (T, error) {
	var zero T
	svc, ok := ctx.Lookup(name)
	if !ok {
		return zero, fmt.Errorf("order module requires %s", name)
	}
	typed, ok := svc.(T)
	if !ok {
		return zero, fmt.Errorf("%s has unexpected type %T", name, svc)
	}
	return typed, nil
}

func setupRoutes(r *gin.Engine, h *handler.OrderHandler) {
	g := r.Group("/orders")
	{
		g.POST("/finalize", h.Finalize)
		g.GET("/:id", h.GetOrder)
	}

	admin := r.Group("/admin")
	admin.Use(middleware.AuthMiddleware(config.GlobalConfig.JWT.Secret), middleware.AdminMiddleware())
	{
		admin.GET("/orders", h.ListOrders)
	}
}
