package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/luxestudio-live/coupon-bazaar/docs"
	_ "github.com/luxestudio-live/coupon-bazaar/internal/domain/admin"
	_ "github.com/luxestudio-live/coupon-bazaar/internal/domain/brand"
	_ "github.com/luxestudio-live/coupon-bazaar/internal/domain/inventory"
	_ "github.com/luxestudio-live/coupon-bazaar/internal/domain/offer"
	_ "github.com/luxestudio-live/coupon-bazaar/internal/domain/order"
	_ "github.com/luxestudio-live/coupon-bazaar/internal/domain/payment"
	"github.com/luxestudio-live/coupon-bazaar/internal/pkg/config"
	"github.com/luxestudio-live/coupon-bazaar/internal/pkg/middleware"
	"github.com/luxestudio-live/coupon-bazaar/internal/pkg/push"
	"github.com/luxestudio-live/coupon-bazaar/internal/pkg/registry"
	"github.com/luxestudio-live/coupon-bazaar/internal/pkg/worker"
	"github.com/luxestudio-live/coupon-bazaar/pkg/database"
	"github.com/luxestudio-live/coupon-bazaar/pkg/logger"
	"github.com/luxestudio-live/coupon-bazaar/pkg/metrics"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"gorm.io/gorm"
)

// @title Coupon Bazaar API
// @version 1.0
// @description 券码商城后端：商品目录、支付、下单发码、后台管理
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	config.LoadConfig()
	cfg := config.GlobalConfig

	level := "info"
	if cfg.App.Debug {
		level = "debug"
	}
	if err := logger.InitLogger(level, cfg.App.Debug); err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	// 1. 存储
	db, err := database.InitDatabase(cfg.Database, cfg.App.Debug)
	if err != nil {
		logger.Log.Fatal("database unavailable", zap.Error(err))
	}
	sx, err := database.NewSQLX(db)
	if err != nil {
		logger.Log.Fatal("sqlx init failed", zap.Error(err))
	}
	rdb, err := database.InitRedis(cfg.Redis)
	if err != nil {
		logger.Log.Fatal("redis unavailable", zap.Error(err))
	}
	defer rdb.Close()

	// 2. 指标与告警
	collector := metrics.GetGlobalCollector()
	stopStats := watchDBStats(db, collector)
	defer stopStats()

	alerts := worker.NewAlertPool(operatorNotifier(cfg.Push), 2, 256)
	alerts.Metrics = collector
	alerts.Start()
	defer alerts.Stop()

	// 3. 路由
	gin.SetMode(cfg.Server.Mode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.LoggerMiddleware())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Trace-ID"},
		ExposeHeaders:    []string{"X-Trace-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	limiter := middleware.NewIPRateLimiter(rate.Limit(cfg.RateLimit.QPS), cfg.RateLimit.Burst)
	stopCleanup := cleanupLimiter(limiter)
	defer stopCleanup()
	r.Use(middleware.RateLimitMiddleware(limiter))
	r.Use(middleware.MaintenanceMiddleware(cfg.App.MaintenanceMode))
	r.Use(middleware.MetricsMiddleware(collector))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	ctx := &registry.ModuleContext{
		DB:      db,
		SQLX:    sx,
		Redis:   rdb,
		Router:  r,
		Alerts:  alerts,
		Metrics: collector,
	}
	if err := registry.InitModules(ctx); err != nil {
		logger.Log.Fatal("module init failed", zap.Error(err))
	}

	// 4. 启动与优雅退出
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Log.Info("server starting", zap.String("port", cfg.Server.Port), zap.String("env", cfg.App.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("shutting down server")

	// 留足时间让进行中的下单完成
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("server forced to shutdown", zap.Error(err))
	}

	logger.Log.Info("server exited")
}

// operatorNotifier 推送未配置时告警只写日志
func operatorNotifier(cfg config.PushConfig) worker.Notifier {
	if cfg.OperatorAccount == "" {
		logger.Log.Warn("operator push disabled: no operator account")
		return nil
	}
	p, err := push.NewAliyunPushService(cfg)
	if err != nil {
		logger.Log.Warn("operator push disabled", zap.Error(err))
		return nil
	}
	return push.NewOperatorNotifier(p, cfg.OperatorAccount)
}

// watchDBStats 定期同步连接池状态到指标
func watchDBStats(db *gorm.DB, collector *metrics.MetricsCollector) func() {
	sqlDB, err := db.DB()
	if err != nil {
		logger.Log.Warn("db stats disabled", zap.Error(err))
		return func() {}
	}

	ticker := time.NewTicker(15 * time.Second)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-ticker.C:
				collector.UpdateDBStats(sqlDB.Stats())
			case <-done:
				return
			}
		}
	}()

	return func() {
		ticker.Stop()
		close(done)
	}
}

// cleanupLimiter 定期清理不活跃 IP 的限流器
func cleanupLimiter(limiter *middleware.IPRateLimiter) func() {
	ticker := time.NewTicker(time.Minute)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-ticker.C:
				if n := limiter.Cleanup(); n > 0 {
					logger.Log.Debug("rate limiter cleanup", zap.Int("removed", n))
				}
			case <-done:
				return
			}
		}
	}()

	return func() {
		ticker.Stop()
		close(done)
	}
}
