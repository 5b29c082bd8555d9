package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/luxestudio-live/coupon-bazaar/internal/domain/inventory/model"
	"github.com/luxestudio-live/coupon-bazaar/pkg/database"

	"github.com/jmoiron/sqlx"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrCodeNotFound    = errors.New("code not found")
	ErrCodeAlreadyUsed = errors.New("code already used")
	ErrOfferMissing    = errors.New("offer does not exist")
)

type CodeRepository interface {
	BulkCreate(ctx context.Context, offerID string, codes []string) (int64, error)
	Claim(ctx context.Context, offerID string, n int, claimant string) ([]model.Code, error)
	ClaimedBy(ctx context.Context, offerID, claimant string) ([]model.Code, error)
	MarkConsumed(ctx context.Context, codeID, by string) (*model.Code, error)
	ListByOffer(ctx context.Context, offerID string) ([]model.Code, error)
	Breakdown(ctx context.Context, offerID string) (model.OfferStock, error)
	InventoryReport(ctx context.Context) ([]model.OfferStock, error)
	UsageHistory(ctx context.Context, limit, offset int) ([]model.UsageEntry, int64, error)
	NormalizeLegacy(ctx context.Context) (int64, error)
}

type codeRepository struct {
	db *gorm.DB
	sx *sqlx.DB
}

func NewCodeRepository(db *gorm.DB, sx *sqlx.DB) CodeRepository {
	return &codeRepository{db: db, sx: sx}
}

// BulkCreate 批量插入，(offer_id, code) 已存在的跳过，返回实际插入条数
func (r *codeRepository) BulkCreate(ctx context.Context, offerID string, codes []string) (int64, error) {
	if len(codes) == 0 {
		return 0, nil
	}

	rows := make([]model.Code, 0, len(codes))
	for _, c := range codes {
		rows = append(rows, model.Code{OfferID: offerID, Code: c})
	}

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "offer_id"}, {Name: "code"}},
			DoNothing: true,
		}).
		CreateInBatches(&rows, 500)
	if result.Error != nil {
		switch database.PgCode(result.Error) {
		case database.PgForeignKeyViolation, database.PgInvalidTextRepresentation:
			return 0, ErrOfferMissing
		}
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// claimSQL 选取与标记在同一条语句内完成。SKIP LOCKED 让并发认领者各自拿到不同的行，
// 外层 used = false 条件保证即使行被并发改写也不会重复发放
const claimSQL = `UPDATE coupon_codes SET used = true, used_by = ?, used_at = now()
WHERE id IN (
	SELECT id FROM coupon_codes
	WHERE offer_id = ? AND used = false AND legacy_used = false
	LIMIT ?
	FOR UPDATE SKIP LOCKED
) AND used = false
RETURNING *`

// Claim 原子认领至多 n 个未用券码，库存不足时返回的数量少于 n
func (r *codeRepository) Claim(ctx context.Context, offerID string, n int, claimant string) ([]model.Code, error) {
	var codes []model.Code
	if err := r.db.WithContext(ctx).Raw(claimSQL, claimant, offerID, n).Scan(&codes).Error; err != nil {
		return nil, fmt.Errorf("claim codes: %w", err)
	}
	return codes, nil
}

// ClaimedBy 某认领者在该商品下已持有的券码，按认领先后排列
func (r *codeRepository) ClaimedBy(ctx context.Context, offerID, claimant string) ([]model.Code, error) {
	var codes []model.Code
	err := r.db.WithContext(ctx).
		Where("offer_id = ? AND used_by = ?", offerID, claimant).
		Order("used_at ASC, code ASC").
		Find(&codes).Error
	return codes, err
}

// MarkConsumed 后台将一个未用券码标记为已用
func (r *codeRepository) MarkConsumed(ctx context.Context, codeID, by string) (*model.Code, error) {
	var codes []model.Code
	err := r.db.WithContext(ctx).Raw(
		`UPDATE coupon_codes SET used = true, used_by = ?, used_at = now()
		 WHERE id = ? AND used = false AND legacy_used = false
		 RETURNING *`, by, codeID).
		Scan(&codes).Error
	if database.IsMalformedID(err) {
		return nil, ErrCodeNotFound
	}
	if err != nil {
		return nil, err
	}
	if len(codes) == 1 {
		return &codes[0], nil
	}

	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Code{}).Where("id = ?", codeID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrCodeNotFound
	}
	return nil, ErrCodeAlreadyUsed
}

func (r *codeRepository) ListByOffer(ctx context.Context, offerID string) ([]model.Code, error) {
	var codes []model.Code
	err := r.db.WithContext(ctx).
		Where("offer_id = ?", offerID).
		Order("used ASC, created_at ASC").
		Find(&codes).Error
	if database.IsMalformedID(err) {
		return nil, ErrOfferMissing
	}
	return codes, err
}

func (r *codeRepository) Breakdown(ctx context.Context, offerID string) (model.OfferStock, error) {
	stock := model.OfferStock{OfferID: offerID}
	err := r.db.WithContext(ctx).Raw(
		`SELECT COUNT(*) AS total,
		        COUNT(*) FILTER (WHERE used OR legacy_used) AS used,
		        COUNT(*) FILTER (WHERE NOT used AND NOT legacy_used) AS unused
		 FROM coupon_codes WHERE offer_id = ?`, offerID).
		Row().Scan(&stock.Total, &stock.Used, &stock.Unused)
	return stock, err
}

const inventoryReportSQL = `SELECT o.id AS offer_id, o.brand, o.discount,
	COUNT(c.id) AS total,
	COUNT(c.id) FILTER (WHERE c.used OR c.legacy_used) AS used,
	COUNT(c.id) FILTER (WHERE NOT c.used AND NOT c.legacy_used) AS unused
FROM offers o
LEFT JOIN coupon_codes c ON c.offer_id = o.id
GROUP BY o.id, o.brand, o.discount
ORDER BY o.brand, o.discount`

// InventoryReport 各商品库存汇总
func (r *codeRepository) InventoryReport(ctx context.Context) ([]model.OfferStock, error) {
	var rows []model.OfferStock
	if err := r.sx.SelectContext(ctx, &rows, inventoryReportSQL); err != nil {
		return nil, fmt.Errorf("inventory report: %w", err)
	}
	return rows, nil
}

const usageHistorySQL = `SELECT c.code, c.offer_id, o.brand, o.discount, c.used_by, c.used_at
FROM coupon_codes c
JOIN offers o ON o.id = c.offer_id
WHERE c.used OR c.legacy_used
ORDER BY c.used_at DESC NULLS LAST
LIMIT $1 OFFSET $2`

// UsageHistory 已用券码记录，按使用时间倒序
func (r *codeRepository) UsageHistory(ctx context.Context, limit, offset int) ([]model.UsageEntry, int64, error) {
	var total int64
	if err := r.sx.GetContext(ctx, &total, `SELECT COUNT(*) FROM coupon_codes WHERE used OR legacy_used`); err != nil {
		return nil, 0, fmt.Errorf("count usage: %w", err)
	}

	var rows []model.UsageEntry
	if err := r.sx.SelectContext(ctx, &rows, usageHistorySQL, limit, offset); err != nil {
		return nil, 0, fmt.Errorf("usage history: %w", err)
	}
	return rows, total, nil
}

// NormalizeLegacy 把旧标记并入 used，返回改写的行数
func (r *codeRepository) NormalizeLegacy(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).Exec(
		`UPDATE coupon_codes SET used = true, used_at = COALESCE(used_at, now())
		 WHERE legacy_used = true AND used = false`)
	return result.RowsAffected, result.Error
}
