package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/luxestudio-live/coupon-bazaar/internal/domain/inventory/model"
	"github.com/luxestudio-live/coupon-bazaar/internal/domain/inventory/repository"
	"github.com/luxestudio-live/coupon-bazaar/pkg/apperror"
	"github.com/luxestudio-live/coupon-bazaar/pkg/logger"
	"github.com/luxestudio-live/coupon-bazaar/pkg/metrics"
	"github.com/luxestudio-live/coupon-bazaar/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AdminClaimant 后台手工标记时写入 used_by 的值
const AdminClaimant = "admin"

// InventoryService 券码库存与分配
type InventoryService interface {
	// Allocate 原子认领至多 quantity 个券码。库存不足时返回的数量更少，不视为错误
	Allocate(ctx context.Context, offerID string, quantity int, claimant string) ([]string, error)
	// Claimed 认领者在该商品下已持有的券码，用于重试时找回上次认领的结果
	Claimed(ctx context.Context, offerID, claimant string) ([]string, error)
	AddCodes(ctx context.Context, offerID string, raw []string) (*model.AddResult, error)
	MarkConsumed(ctx context.Context, codeID string) (*model.Code, error)
	ListCodes(ctx context.Context, offerID string) (*model.CodeListing, error)
	Inventory(ctx context.Context) ([]model.OfferStock, error)
	UsageHistory(ctx context.Context, p utils.Pagination) (*utils.PageResult, error)
	NormalizeLegacy(ctx context.Context) (int64, error)
}

type inventoryService struct {
	repo    repository.CodeRepository
	metrics *metrics.MetricsCollector
}

// NewInventoryService collector 可为 nil
func NewInventoryService(repo repository.CodeRepository, collector *metrics.MetricsCollector) InventoryService {
	return &inventoryService{repo: repo, metrics: collector}
}

// GuestClaimant 没有支付号时使用的认领者标识
func GuestClaimant() string {
	return "guest_" + uuid.New().String()
}

func (s *inventoryService) Allocate(ctx context.Context, offerID string, quantity int, claimant string) ([]string, error) {
	if quantity < 1 {
		return nil, apperror.Newf(apperror.KindInvalidRequest, "quantity must be at least 1, got %d", quantity)
	}
	if claimant == "" {
		claimant = GuestClaimant()
	}

	start := time.Now()
	claimed, err := s.repo.Claim(ctx, offerID, quantity, claimant)
	if err != nil {
		logger.Log.Error("code claim failed",
			zap.String("offer_id", offerID),
			zap.Int("quantity", quantity),
			zap.String("claimant", claimant),
			zap.Error(err))
		return nil, apperror.Wrap(apperror.KindStorageFailure, err, "allocate codes")
	}

	if s.metrics != nil {
		s.metrics.RecordAllocation(offerID, quantity, len(claimed), time.Since(start))
	}

	codes := make([]string, 0, len(claimed))
	for _, c := range claimed {
		codes = append(codes, c.Code)
	}
	return codes, nil
}

func (s *inventoryService) Claimed(ctx context.Context, offerID, claimant string) ([]string, error) {
	if claimant == "" {
		return nil, nil
	}
	held, err := s.repo.ClaimedBy(ctx, offerID, claimant)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindStorageFailure, err, "load claimed codes")
	}
	codes := make([]string, 0, len(held))
	for _, c := range held {
		codes = append(codes, c.Code)
	}
	return codes, nil
}

// NormalizeCodes 去掉首尾空白和空行，并在本批内去重，保持原顺序
func NormalizeCodes(raw []string) []string {
	seen := make(map[string]bool, len(raw))
	out := make([]string, 0, len(raw))
	for _, c := range raw {
		c = strings.TrimSpace(c)
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}

func (s *inventoryService) AddCodes(ctx context.Context, offerID string, raw []string) (*model.AddResult, error) {
	codes := NormalizeCodes(raw)
	if len(codes) == 0 {
		return nil, apperror.New(apperror.KindInvalidRequest, "no codes to add")
	}

	inserted, err := s.repo.BulkCreate(ctx, offerID, codes)
	if errors.Is(err, repository.ErrOfferMissing) {
		return nil, apperror.Newf(apperror.KindOfferNotFound, "offer %s not found", offerID)
	}
	if err != nil {
		return nil, apperror.Wrap(apperror.KindStorageFailure, err, "add codes")
	}

	logger.Log.Info("codes added",
		zap.String("offer_id", offerID),
		zap.Int("submitted", len(raw)),
		zap.Int64("inserted", inserted))

	return &model.AddResult{
		Submitted:  len(raw),
		Accepted:   len(codes),
		Inserted:   inserted,
		Duplicates: int64(len(codes)) - inserted,
	}, nil
}

func (s *inventoryService) MarkConsumed(ctx context.Context, codeID string) (*model.Code, error) {
	code, err := s.repo.MarkConsumed(ctx, codeID, AdminClaimant)
	switch {
	case errors.Is(err, repository.ErrCodeNotFound):
		return nil, apperror.Newf(apperror.KindNotFound, "code %s not found", codeID)
	case errors.Is(err, repository.ErrCodeAlreadyUsed):
		return nil, apperror.Newf(apperror.KindInvalidRequest, "code %s is already used", codeID)
	case err != nil:
		return nil, apperror.Wrap(apperror.KindStorageFailure, err, "mark consumed")
	}
	return code, nil
}

func (s *inventoryService) ListCodes(ctx context.Context, offerID string) (*model.CodeListing, error) {
	codes, err := s.repo.ListByOffer(ctx, offerID)
	if errors.Is(err, repository.ErrOfferMissing) {
		return nil, apperror.Newf(apperror.KindOfferNotFound, "offer %s not found", offerID)
	}
	if err != nil {
		return nil, apperror.Wrap(apperror.KindStorageFailure, err, "list codes")
	}
	stock, err := s.repo.Breakdown(ctx, offerID)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindStorageFailure, err, "code breakdown")
	}
	return &model.CodeListing{Stock: stock, Codes: codes}, nil
}

func (s *inventoryService) Inventory(ctx context.Context) ([]model.OfferStock, error) {
	rows, err := s.repo.InventoryReport(ctx)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindStorageFailure, err, "inventory report")
	}
	return rows, nil
}

func (s *inventoryService) UsageHistory(ctx context.Context, p utils.Pagination) (*utils.PageResult, error) {
	offset, limit := p.GetPageOffset()
	rows, total, err := s.repo.UsageHistory(ctx, limit, offset)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindStorageFailure, err, "usage history")
	}
	return utils.NewPageResult(rows, total, p), nil
}

func (s *inventoryService) NormalizeLegacy(ctx context.Context) (int64, error) {
	n, err := s.repo.NormalizeLegacy(ctx)
	if err != nil {
		return 0, apperror.Wrap(apperror.KindStorageFailure, err, "normalize legacy flag")
	}
	logger.Log.Info("legacy used flag normalized", zap.Int64("rows", n))
	return n, nil
}
