package metrics

import (
	"database/sql"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsCollector 指标收集器
type MetricsCollector struct {
	// HTTP 指标
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// 数据库连接池
	dbConnectionsInUse prometheus.Gauge
	dbConnectionsIdle  prometheus.Gauge

	// 券码分配
	codesClaimedTotal  *prometheus.CounterVec
	shortClaimsTotal   *prometheus.CounterVec
	allocationDuration prometheus.Histogram

	// 下单流程
	finalizeTotal    *prometheus.CounterVec
	finalizeDuration prometheus.Histogram

	// 支付网关
	gatewayCallsTotal   *prometheus.CounterVec
	gatewayCallDuration *prometheus.HistogramVec

	// 告警
	alertsTotal *prometheus.CounterVec
}

// NewMetricsCollector 创建指标收集器
func NewMetricsCollector(reg prometheus.Registerer) *MetricsCollector {
	factory := promauto.With(reg)
	return &MetricsCollector{
		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),

		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),

		dbConnectionsInUse: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "db_connections_in_use",
				Help: "Number of database connections in use",
			},
		),

		dbConnectionsIdle: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "db_connections_idle",
				Help: "Number of idle database connections",
			},
		),

		codesClaimedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coupon_codes_claimed_total",
				Help: "Coupon codes marked used by the allocator",
			},
			[]string{"offer_id"},
		),

		shortClaimsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "coupon_short_claims_total",
				Help: "Allocations that returned fewer codes than requested",
			},
			[]string{"offer_id"},
		),

		allocationDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "coupon_allocation_duration_seconds",
				Help:    "Duration of a single atomic claim statement",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0},
			},
		),

		finalizeTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "purchase_finalize_total",
				Help: "Finalize-purchase outcomes by result kind",
			},
			[]string{"result"},
		),

		finalizeDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "purchase_finalize_duration_seconds",
				Help:    "End to end finalize-purchase duration",
				Buckets: prometheus.DefBuckets,
			},
		),

		gatewayCallsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gateway_calls_total",
				Help: "Payment gateway calls",
			},
			[]string{"operation", "status"},
		),

		gatewayCallDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gateway_call_duration_seconds",
				Help:    "Payment gateway call duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),

		alertsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "operator_alerts_total",
				Help: "Operator alerts by kind and delivery status",
			},
			[]string{"kind", "status"},
		),
	}
}

// RecordHTTPRequest 记录 HTTP 请求指标
func (m *MetricsCollector) RecordHTTPRequest(method, endpoint string, status int, duration time.Duration) {
	m.httpRequestsTotal.WithLabelValues(method, endpoint, getStatusCategory(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordAllocation 记录一次认领
func (m *MetricsCollector) RecordAllocation(offerID string, requested, claimed int, duration time.Duration) {
	m.codesClaimedTotal.WithLabelValues(offerID).Add(float64(claimed))
	if claimed < requested {
		m.shortClaimsTotal.WithLabelValues(offerID).Inc()
	}
	m.allocationDuration.Observe(duration.Seconds())
}

// RecordFinalize 记录下单结果，result 为 "success" 或错误类型
func (m *MetricsCollector) RecordFinalize(result string, duration time.Duration) {
	m.finalizeTotal.WithLabelValues(result).Inc()
	m.finalizeDuration.Observe(duration.Seconds())
}

// RecordGatewayCall 记录网关调用
func (m *MetricsCollector) RecordGatewayCall(operation string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.gatewayCallsTotal.WithLabelValues(operation, status).Inc()
	m.gatewayCallDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordAlert 记录告警投递
func (m *MetricsCollector) RecordAlert(kind string, delivered bool) {
	status := "delivered"
	if !delivered {
		status = "dropped"
	}
	m.alertsTotal.WithLabelValues(kind, status).Inc()
}

// UpdateDBStats 同步连接池状态
func (m *MetricsCollector) UpdateDBStats(stats sql.DBStats) {
	m.dbConnectionsInUse.Set(float64(stats.InUse))
	m.dbConnectionsIdle.Set(float64(stats.Idle))
}

// getStatusCategory 获取状态分类
func getStatusCategory(status int) string {
	switch {
	case status >= 200 && status < 300:
		return "2xx"
	case status >= 300 && status < 400:
		return "3xx"
	case status >= 400 && status < 500:
		return "4xx"
	case status >= 500:
		return "5xx"
	default:
		return "unknown"
	}
}

var (
	globalCollector *MetricsCollector
	once            sync.Once
)

// GetGlobalCollector 获取全局指标收集器 (注册到默认 Registry)
func GetGlobalCollector() *MetricsCollector {
	once.Do(func() {
		globalCollector = NewMetricsCollector(prometheus.DefaultRegisterer)
	})
	return globalCollector
}
