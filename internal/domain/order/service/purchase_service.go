package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	offerModel "github.com/luxestudio-live/coupon-bazaar/internal/domain/offer/model"
	"github.com/luxestudio-live/coupon-bazaar/internal/domain/order/model"
	"github.com/luxestudio-live/coupon-bazaar/internal/domain/order/repository"
	"github.com/luxestudio-live/coupon-bazaar/internal/domain/payment/gateway"
	paymentModel "github.com/luxestudio-live/coupon-bazaar/internal/domain/payment/model"
	"github.com/luxestudio-live/coupon-bazaar/internal/pkg/worker"
	"github.com/luxestudio-live/coupon-bazaar/pkg/apperror"
	"github.com/luxestudio-live/coupon-bazaar/pkg/logger"
	"github.com/luxestudio-live/coupon-bazaar/pkg/metrics"
	"github.com/luxestudio-live/coupon-bazaar/pkg/money"
	"github.com/luxestudio-live/coupon-bazaar/pkg/utils"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// 告警类型
const (
	AlertAmountMismatch    = "AMOUNT_MISMATCH"
	AlertInsufficientStock = "INSUFFICIENT_STOCK"
	AlertOrphanedCodes     = "ORPHANED_CODES"
)

// 下单状态，仅用于日志
const (
	stateReceived         = "received_confirmation"
	stateSignatureOK      = "signature_verified"
	stateDuplicateChecked = "duplicate_checked"
	stateAmountValidated  = "amount_validated"
	stateCodesAllocated   = "codes_allocated"
	stateOrderRecorded    = "order_recorded"
	stateRejected         = "rejected"
)

// PriceValidator 目录价快照
type PriceValidator interface {
	Snapshot(ctx context.Context, lines []offerModel.LineRequest) ([]offerModel.PricedLine, decimal.Decimal, error)
}

// Allocator 原子认领券码
type Allocator interface {
	Allocate(ctx context.Context, offerID string, quantity int, claimant string) ([]string, error)
	Claimed(ctx context.Context, offerID, claimant string) ([]string, error)
}

// PaymentLock 同一支付号的确认串行执行
type PaymentLock interface {
	Acquire(ctx context.Context, paymentID string, ttl time.Duration) (release func(), err error)
}

// PendingStore 支付前保存的待支付记录
type PendingStore interface {
	LookupPending(ctx context.Context, intentID string) (*paymentModel.PendingIntent, error)
	ForgetPending(ctx context.Context, intentID string)
}

// AlertSink 运营告警入队
type AlertSink interface {
	AddTask(task worker.Alert)
}

// FinalizeRequest 前端支付完成后提交的确认
type FinalizeRequest struct {
	GatewayOrderID   string                   `json:"gatewayOrderId" binding:"required"`
	GatewayPaymentID string                   `json:"gatewayPaymentId" binding:"required"`
	Signature        string                   `json:"signature" binding:"required"`
	LineItems        []offerModel.LineRequest `json:"lineItems" binding:"omitempty,dive"`
}

// Timeouts 整体超时与单步 I/O 超时
type Timeouts struct {
	Finalize time.Duration
	IO       time.Duration
}

type PurchaseService interface {
	// Finalize 确认支付并发放券码。ALREADY_PROCESSED 时同时返回已存在订单的结果
	Finalize(ctx context.Context, req FinalizeRequest) (*model.Result, error)
	GetOrder(ctx context.Context, id string) (*model.Order, error)
	ListOrders(ctx context.Context, p utils.Pagination) (*utils.PageResult, error)
}

type purchaseService struct {
	repo      repository.OrderRepository
	gateway   gateway.Gateway
	prices    PriceValidator
	allocator Allocator
	pending   PendingStore
	lock      PaymentLock
	alerts    AlertSink
	metrics   *metrics.MetricsCollector
	timeouts  Timeouts
}

// NewPurchaseService lock、alerts 和 collector 可为 nil
func NewPurchaseService(
	repo repository.OrderRepository,
	g gateway.Gateway,
	prices PriceValidator,
	allocator Allocator,
	pending PendingStore,
	lock PaymentLock,
	alerts AlertSink,
	collector *metrics.MetricsCollector,
	timeouts Timeouts,
) PurchaseService {
	if timeouts.IO <= 0 {
		timeouts.IO = 10 * time.Second
	}
	if timeouts.Finalize < timeouts.IO {
		timeouts.Finalize = 6 * timeouts.IO
	}
	return &purchaseService{
		repo:      repo,
		gateway:   g,
		prices:    prices,
		allocator: allocator,
		pending:   pending,
		lock:      lock,
		alerts:    alerts,
		metrics:   collector,
		timeouts:  timeouts,
	}
}

func (s *purchaseService) Finalize(ctx context.Context, req FinalizeRequest) (*model.Result, error) {
	start := time.Now()

	// 客户端断开不能中断已开始的下单，只受整体超时约束
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeouts.Finalize)
	defer cancel()

	res, err := s.finalize(ctx, req)

	outcome := "success"
	if err != nil {
		outcome = string(apperror.KindOf(err))
		if outcome == "" {
			outcome = "error"
		}
		logState(req.GatewayPaymentID, stateRejected, zap.String("reason", outcome), zap.Error(err))
	}
	if s.metrics != nil {
		s.metrics.RecordFinalize(outcome, time.Since(start))
	}
	return res, err
}

func (s *purchaseService) finalize(ctx context.Context, req FinalizeRequest) (*model.Result, error) {
	paymentID := req.GatewayPaymentID
	logState(paymentID, stateReceived, zap.String("gateway_order_id", req.GatewayOrderID))

	// 1. 签名
	ok := s.gateway.VerifyConfirmation(gateway.Confirmation{
		OrderID:   req.GatewayOrderID,
		PaymentID: paymentID,
		Signature: req.Signature,
	})
	if !ok {
		return nil, apperror.New(apperror.KindInvalidSignature, "payment signature verification failed")
	}
	logState(paymentID, stateSignatureOK)

	release, err := s.acquire(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	defer release()

	// 2. 去重，必须在任何认领之前
	if existing, err := s.existingOrder(ctx, paymentID); err != nil || existing != nil {
		return existing, err
	}
	logState(paymentID, stateDuplicateChecked)

	// 3. 金额校验
	lines, err := s.resolveLines(ctx, req)
	if err != nil {
		return nil, err
	}
	priced, expected, err := s.snapshot(ctx, lines)
	if err != nil {
		return nil, err
	}
	charged, err := s.chargedAmount(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if !money.Equal(expected, charged) {
		logger.Log.Warn("payment amount mismatch",
			zap.String("payment_id", paymentID),
			zap.String("expected", expected.StringFixed(2)),
			zap.String("charged", charged.StringFixed(2)))
		s.alert(worker.Alert{
			Kind:      AlertAmountMismatch,
			PaymentID: paymentID,
			Title:     "Payment amount mismatch",
			Body:      "Charged " + charged.StringFixed(2) + ", expected " + expected.StringFixed(2),
			Fields: map[string]string{
				"gateway_order_id": req.GatewayOrderID,
				"expected":         expected.StringFixed(2),
				"charged":          charged.StringFixed(2),
			},
		})
		return nil, apperror.Newf(apperror.KindAmountMismatch,
			"charged %s does not match expected %s", charged.StringFixed(2), expected.StringFixed(2))
	}
	logState(paymentID, stateAmountValidated, zap.String("amount", expected.StringFixed(2)))

	// 4. 逐行认领。短缺时已认领的券码不退回，同一支付号重试时优先复用
	allocated, err := s.allocate(ctx, paymentID, priced)
	if err != nil {
		return nil, err
	}
	logState(paymentID, stateCodesAllocated, zap.Int("lines", len(allocated)))

	// 5. 落库
	return s.record(ctx, req, expected, allocated)
}

// acquire 锁服务不可用时不阻断下单，订单表的唯一约束仍然保证只有一单
func (s *purchaseService) acquire(ctx context.Context, paymentID string) (func(), error) {
	noop := func() {}
	if s.lock == nil {
		return noop, nil
	}

	release, err := s.lock.Acquire(ctx, paymentID, s.timeouts.Finalize)
	if errors.Is(err, repository.ErrLockBusy) {
		return nil, apperror.Newf(apperror.KindStorageFailure, "another confirmation of payment %s is still in progress", paymentID)
	}
	if err != nil {
		logger.Log.Warn("finalize lock unavailable", zap.String("payment_id", paymentID), zap.Error(err))
		return noop, nil
	}
	return release, nil
}

// existingOrder 已有订单时返回 (结果, ALREADY_PROCESSED)
func (s *purchaseService) existingOrder(ctx context.Context, paymentID string) (*model.Result, error) {
	ioCtx, cancel := context.WithTimeout(ctx, s.timeouts.IO)
	defer cancel()

	order, err := s.repo.GetByPaymentID(ioCtx, paymentID)
	if errors.Is(err, repository.ErrOrderNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperror.Wrap(apperror.KindStorageFailure, err, "check existing order")
	}
	return order.ToResult(), alreadyProcessed(order)
}

func alreadyProcessed(order *model.Order) error {
	e := apperror.Newf(apperror.KindAlreadyProcessed, "payment %s already fulfilled by order %s", order.PaymentID, order.ID)
	e.OrderID = order.ID
	return e
}

// resolveLines 优先使用服务端保存的待支付记录，客户端提交的行只作兜底
func (s *purchaseService) resolveLines(ctx context.Context, req FinalizeRequest) ([]offerModel.LineRequest, error) {
	ioCtx, cancel := context.WithTimeout(ctx, s.timeouts.IO)
	defer cancel()

	pending, err := s.pending.LookupPending(ioCtx, req.GatewayOrderID)
	if err != nil {
		// 记录丢失不致命，回退到客户端提交的行，金额仍会与网关核对
		logger.Log.Warn("pending intent lookup failed",
			zap.String("gateway_order_id", req.GatewayOrderID),
			zap.Error(err))
	}
	if pending != nil && len(pending.Lines) > 0 {
		return pending.LineRequests(), nil
	}

	if len(req.LineItems) == 0 {
		return nil, apperror.New(apperror.KindInvalidRequest, "lineItems is required when no pending intent exists")
	}
	return req.LineItems, nil
}

func (s *purchaseService) snapshot(ctx context.Context, lines []offerModel.LineRequest) ([]offerModel.PricedLine, decimal.Decimal, error) {
	ioCtx, cancel := context.WithTimeout(ctx, s.timeouts.IO)
	defer cancel()
	return s.prices.Snapshot(ioCtx, lines)
}

func (s *purchaseService) chargedAmount(ctx context.Context, paymentID string) (decimal.Decimal, error) {
	ioCtx, cancel := context.WithTimeout(ctx, s.timeouts.IO)
	defer cancel()
	return s.gateway.FetchPaymentAmount(ioCtx, paymentID)
}

// allocate 先取回此支付号以前认领过的券码，只为差额认领新券码
func (s *purchaseService) allocate(ctx context.Context, paymentID string, priced []offerModel.PricedLine) ([]model.AllocatedLine, error) {
	allocated := make([]model.AllocatedLine, 0, len(priced))
	held := make(map[string][]string, len(priced))

	for _, line := range priced {
		if _, ok := held[line.OfferID]; !ok {
			prior, err := s.claimed(ctx, line.OfferID, paymentID)
			if err != nil {
				if len(allocated) > 0 {
					s.alertOrphans(paymentID, "allocation failed mid-order", allocated)
				}
				return nil, err
			}
			held[line.OfferID] = prior
		}

		reused := held[line.OfferID]
		if len(reused) > line.Quantity {
			reused = reused[:line.Quantity]
		}
		held[line.OfferID] = held[line.OfferID][len(reused):]
		codes := append([]string(nil), reused...)
		if len(reused) > 0 {
			logger.Log.Info("reusing codes from an earlier attempt",
				zap.String("payment_id", paymentID),
				zap.String("offer_id", line.OfferID),
				zap.Int("reused", len(reused)))
		}

		if need := line.Quantity - len(codes); need > 0 {
			ioCtx, cancel := context.WithTimeout(ctx, s.timeouts.IO)
			fresh, err := s.allocator.Allocate(ioCtx, line.OfferID, need, paymentID)
			cancel()
			if err != nil {
				if len(allocated) > 0 || len(codes) > 0 {
					s.alertOrphans(paymentID, "allocation failed mid-order", append(allocated, model.AllocatedLine{OfferID: line.OfferID, Codes: codes}))
				}
				return nil, err
			}
			codes = append(codes, fresh...)
		}

		allocated = append(allocated, model.AllocatedLine{
			OfferID:     line.OfferID,
			Brand:       line.Brand,
			Discount:    line.Discount,
			Quantity:    line.Quantity,
			Price:       line.UnitPrice,
			Description: line.Description,
			Codes:       codes,
		})

		if len(codes) < line.Quantity {
			logger.Log.Warn("insufficient stock during finalize",
				zap.String("payment_id", paymentID),
				zap.String("offer_id", line.OfferID),
				zap.Int("requested", line.Quantity),
				zap.Int("claimed", len(codes)))
			s.alert(worker.Alert{
				Kind:      AlertInsufficientStock,
				PaymentID: paymentID,
				Title:     "Insufficient stock after payment",
				Body:      "Offer " + line.OfferID + " short by " + strconv.Itoa(line.Quantity-len(codes)),
				Fields:    orphanFields(allocated),
			})
			return nil, apperror.Newf(apperror.KindInsufficientStock,
				"offer %s: requested %d, only %d available", line.OfferID, line.Quantity, len(codes))
		}
	}
	return allocated, nil
}

func (s *purchaseService) claimed(ctx context.Context, offerID, paymentID string) ([]string, error) {
	ioCtx, cancel := context.WithTimeout(ctx, s.timeouts.IO)
	defer cancel()
	return s.allocator.Claimed(ioCtx, offerID, paymentID)
}

func (s *purchaseService) record(ctx context.Context, req FinalizeRequest, total decimal.Decimal, allocated []model.AllocatedLine) (*model.Result, error) {
	paymentID := req.GatewayPaymentID

	infoCtx, cancel := context.WithTimeout(ctx, s.timeouts.IO)
	info, err := s.gateway.FetchCustomerInfo(infoCtx, paymentID)
	cancel()
	if err != nil {
		logger.Log.Warn("customer info unavailable", zap.String("payment_id", paymentID), zap.Error(err))
		info = gateway.CustomerInfo{}
	}

	order := &model.Order{
		PaymentID:       paymentID,
		GatewayOrderID:  req.GatewayOrderID,
		TotalAmount:     total,
		Codes:           model.GroupCodes(allocated),
		CustomerEmail:   info.Email,
		CustomerContact: info.Contact,
		CustomerName:    info.Name,
	}
	for _, l := range allocated {
		order.Items = append(order.Items, model.LineItem{
			OfferID:     l.OfferID,
			Brand:       l.Brand,
			Discount:    l.Discount,
			Description: l.Description,
			Price:       l.Price,
			Quantity:    l.Quantity,
		})
	}

	ioCtx, cancel := context.WithTimeout(ctx, s.timeouts.IO)
	err = s.repo.Create(ioCtx, order)
	cancel()

	if errors.Is(err, repository.ErrDuplicatePayment) {
		// 锁不可用或已过期时才会发生：并发确认输掉了唯一约束，本次认领的券码没有订单归属
		s.alertOrphans(paymentID, "concurrent finalize lost the order insert", allocated)
		existing, loadErr := s.existingOrder(ctx, paymentID)
		if loadErr != nil {
			return existing, loadErr
		}
		return nil, apperror.Wrap(apperror.KindStorageFailure, err, "order disappeared after duplicate insert")
	}
	if err != nil {
		s.alertOrphans(paymentID, "order write failed", allocated)
		return nil, apperror.Wrap(apperror.KindStorageFailure, err, "record order")
	}
	logState(paymentID, stateOrderRecorded, zap.String("order_id", order.ID))

	if req.GatewayOrderID != "" {
		s.pending.ForgetPending(ctx, req.GatewayOrderID)
	}

	return &model.Result{OrderID: order.ID, PaymentID: paymentID, AllocatedLines: allocated}, nil
}

func (s *purchaseService) alertOrphans(paymentID, reason string, allocated []model.AllocatedLine) {
	logger.Log.Error("claimed codes left without an order",
		zap.String("payment_id", paymentID),
		zap.String("reason", reason),
		zap.Any("codes", orphanFields(allocated)))
	s.alert(worker.Alert{
		Kind:      AlertOrphanedCodes,
		PaymentID: paymentID,
		Title:     "Claimed codes need remediation",
		Body:      reason,
		Fields:    orphanFields(allocated),
	})
}

// orphanFields offerId -> 逗号分隔的券码
func orphanFields(allocated []model.AllocatedLine) map[string]string {
	fields := make(map[string]string, len(allocated))
	for _, l := range allocated {
		if len(l.Codes) == 0 {
			continue
		}
		if prev, ok := fields[l.OfferID]; ok {
			fields[l.OfferID] = prev + "," + strings.Join(l.Codes, ",")
			continue
		}
		fields[l.OfferID] = strings.Join(l.Codes, ",")
	}
	return fields
}

func (s *purchaseService) alert(a worker.Alert) {
	if s.alerts == nil {
		return
	}
	s.alerts.AddTask(a)
}

func logState(paymentID, state string, fields ...zap.Field) {
	logger.Log.Info("finalize state",
		append([]zap.Field{zap.String("payment_id", paymentID), zap.String("state", state)}, fields...)...)
}

func (s *purchaseService) GetOrder(ctx context.Context, id string) (*model.Order, error) {
	order, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrOrderNotFound) {
		return nil, apperror.Newf(apperror.KindNotFound, "order %s not found", id)
	}
	if err != nil {
		return nil, apperror.Wrap(apperror.KindStorageFailure, err, "load order")
	}
	return order, nil
}

func (s *purchaseService) ListOrders(ctx context.Context, p utils.Pagination) (*utils.PageResult, error) {
	offset, limit := p.GetPageOffset()
	orders, total, err := s.repo.List(ctx, offset, limit)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindStorageFailure, err, "list orders")
	}
	return utils.NewPageResult(orders, total, p), nil
}
