package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	offerModel "github.com/luxestudio-live/coupon-bazaar/internal/domain/offer/model"
	"github.com/luxestudio-live/coupon-bazaar/internal/domain/payment/gateway"
	"github.com/luxestudio-live/coupon-bazaar/internal/domain/payment/model"
	"github.com/luxestudio-live/coupon-bazaar/internal/domain/payment/repository"
	"github.com/luxestudio-live/coupon-bazaar/pkg/apperror"
	"github.com/luxestudio-live/coupon-bazaar/pkg/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// 网关 notes 单个值的长度上限
const maxNoteLen = 256

// PriceValidator 按目录价定价
type PriceValidator interface {
	Snapshot(ctx context.Context, lines []offerModel.LineRequest) ([]offerModel.PricedLine, decimal.Decimal, error)
}

type PaymentService interface {
	// CreateIntent 金额只来自目录价，客户端传来的金额一律忽略
	CreateIntent(ctx context.Context, lines []offerModel.LineRequest) (*gateway.Intent, error)
	// LookupPending 不存在时返回 (nil, nil)
	LookupPending(ctx context.Context, intentID string) (*model.PendingIntent, error)
	ForgetPending(ctx context.Context, intentID string)
	PaymentDetails(ctx context.Context, paymentID string) (*gateway.Payment, error)
}

type paymentService struct {
	gateway    gateway.Gateway
	prices     PriceValidator
	pending    repository.PendingRepository
	pendingTTL time.Duration
}

func NewPaymentService(g gateway.Gateway, prices PriceValidator, pending repository.PendingRepository, pendingTTL time.Duration) PaymentService {
	return &paymentService{
		gateway:    g,
		prices:     prices,
		pending:    pending,
		pendingTTL: pendingTTL,
	}
}

func (s *paymentService) CreateIntent(ctx context.Context, lines []offerModel.LineRequest) (*gateway.Intent, error) {
	priced, total, err := s.prices.Snapshot(ctx, lines)
	if err != nil {
		return nil, err
	}

	receipt := "rcpt_" + strings.ReplaceAll(uuid.New().String(), "-", "")[:20]
	intent, err := s.gateway.CreateIntent(ctx, total, receipt, intentNotes(priced))
	if err != nil {
		return nil, err
	}

	record := &model.PendingIntent{
		IntentID:  intent.ID,
		Amount:    total,
		Currency:  intent.Currency,
		Lines:     priced,
		CreatedAt: time.Now(),
	}
	if err := s.pending.Save(ctx, record, s.pendingTTL); err != nil {
		return nil, apperror.Wrap(apperror.KindStorageFailure, err, "save pending intent")
	}

	logger.Log.Info("payment intent created",
		zap.String("intent_id", intent.ID),
		zap.String("amount", total.StringFixed(2)),
		zap.Int("lines", len(priced)))

	return intent, nil
}

func intentNotes(lines []offerModel.PricedLine) map[string]string {
	parts := make([]string, 0, len(lines))
	for _, l := range lines {
		parts = append(parts, l.OfferID+"x"+strconv.Itoa(l.Quantity))
	}
	offers := strings.Join(parts, ",")
	if len(offers) > maxNoteLen {
		offers = offers[:maxNoteLen]
	}
	return map[string]string{
		"item_count": strconv.Itoa(len(lines)),
		"offers":     offers,
	}
}

func (s *paymentService) LookupPending(ctx context.Context, intentID string) (*model.PendingIntent, error) {
	p, err := s.pending.Get(ctx, intentID)
	if errors.Is(err, repository.ErrPendingNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperror.Wrap(apperror.KindStorageFailure, err, "load pending intent")
	}
	return p, nil
}

// ForgetPending 订单落库后清理，失败只记日志，记录会按 TTL 过期
func (s *paymentService) ForgetPending(ctx context.Context, intentID string) {
	if err := s.pending.Delete(ctx, intentID); err != nil {
		logger.Log.Warn("failed to delete pending intent", zap.String("intent_id", intentID), zap.Error(err))
	}
}

func (s *paymentService) PaymentDetails(ctx context.Context, paymentID string) (*gateway.Payment, error) {
	if !strings.HasPrefix(paymentID, gateway.PaymentIDPrefix) {
		return nil, apperror.Newf(apperror.KindInvalidRequest, "invalid payment id %q", paymentID)
	}
	return s.gateway.FetchPayment(ctx, paymentID)
}
