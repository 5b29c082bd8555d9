package gateway

import (
	"context"
	"time"

	"github.com/luxestudio-live/coupon-bazaar/pkg/metrics"

	"github.com/shopspring/decimal"
)

// instrumented 为每次远程调用记录耗时和结果
type instrumented struct {
	Gateway
	metrics *metrics.MetricsCollector
}

// WithMetrics collector 为 nil 时原样返回
func WithMetrics(g Gateway, collector *metrics.MetricsCollector) Gateway {
	if collector == nil {
		return g
	}
	return &instrumented{Gateway: g, metrics: collector}
}

func (i *instrumented) CreateIntent(ctx context.Context, amount decimal.Decimal, receipt string, notes map[string]string) (*Intent, error) {
	start := time.Now()
	intent, err := i.Gateway.CreateIntent(ctx, amount, receipt, notes)
	i.metrics.RecordGatewayCall("create_intent", time.Since(start), err)
	return intent, err
}

func (i *instrumented) FetchPayment(ctx context.Context, paymentID string) (*Payment, error) {
	start := time.Now()
	p, err := i.Gateway.FetchPayment(ctx, paymentID)
	i.metrics.RecordGatewayCall("fetch_payment", time.Since(start), err)
	return p, err
}

func (i *instrumented) FetchPaymentAmount(ctx context.Context, paymentID string) (decimal.Decimal, error) {
	start := time.Now()
	amount, err := i.Gateway.FetchPaymentAmount(ctx, paymentID)
	i.metrics.RecordGatewayCall("fetch_amount", time.Since(start), err)
	return amount, err
}

func (i *instrumented) FetchCustomerInfo(ctx context.Context, paymentID string) (CustomerInfo, error) {
	start := time.Now()
	info, err := i.Gateway.FetchCustomerInfo(ctx, paymentID)
	i.metrics.RecordGatewayCall("fetch_customer", time.Since(start), err)
	return info, err
}
