package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/luxestudio-live/coupon-bazaar/internal/domain/offer/model"
	"github.com/luxestudio-live/coupon-bazaar/pkg/database"

	"gorm.io/gorm"
)

var ErrOfferNotFound = errors.New("offer not found")

type OfferRepository interface {
	Create(ctx context.Context, offer *model.Offer) error
	GetByID(ctx context.Context, id string) (*model.Offer, error)
	GetByIDs(ctx context.Context, ids []string) ([]model.Offer, error)
	List(ctx context.Context, includeHidden bool) ([]model.Offer, error)
	ListByBrand(ctx context.Context, brandID string, includeHidden bool) ([]model.Offer, error)
	Update(ctx context.Context, offer *model.Offer) error
	SetHidden(ctx context.Context, id string, hidden bool) error
	Delete(ctx context.Context, id string) error
	AvailableCounts(ctx context.Context, offerIDs []string) (map[string]int64, error)
}

type offerRepository struct {
	db *gorm.DB
}

func NewOfferRepository(db *gorm.DB) OfferRepository {
	return &offerRepository{db: db}
}

func (r *offerRepository) Create(ctx context.Context, offer *model.Offer) error {
	return r.db.WithContext(ctx).Create(offer).Error
}

func (r *offerRepository) GetByID(ctx context.Context, id string) (*model.Offer, error) {
	var offer model.Offer
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&offer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) || database.IsMalformedID(err) {
		return nil, ErrOfferNotFound
	}
	if err != nil {
		return nil, err
	}
	return &offer, nil
}

func (r *offerRepository) GetByIDs(ctx context.Context, ids []string) ([]model.Offer, error) {
	var offers []model.Offer
	if len(ids) == 0 {
		return offers, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&offers).Error
	if database.IsMalformedID(err) {
		// 任一 id 格式不合法整条查询失败，调用方按商品不存在处理
		return nil, ErrOfferNotFound
	}
	return offers, err
}

func (r *offerRepository) List(ctx context.Context, includeHidden bool) ([]model.Offer, error) {
	var offers []model.Offer
	q := r.db.WithContext(ctx).Order("created_at DESC")
	if !includeHidden {
		q = q.Where("hidden = ?", false)
	}
	err := q.Find(&offers).Error
	return offers, err
}

func (r *offerRepository) ListByBrand(ctx context.Context, brandID string, includeHidden bool) ([]model.Offer, error) {
	var offers []model.Offer
	q := r.db.WithContext(ctx).Where("brand_id = ?", brandID).Order("created_at DESC")
	if !includeHidden {
		q = q.Where("hidden = ?", false)
	}
	err := q.Find(&offers).Error
	if database.IsMalformedID(err) {
		return []model.Offer{}, nil
	}
	return offers, err
}

func (r *offerRepository) Update(ctx context.Context, offer *model.Offer) error {
	result := r.db.WithContext(ctx).Model(&model.Offer{}).
		Where("id = ?", offer.ID).
		Updates(map[string]interface{}{
			"brand_id":    offer.BrandID,
			"brand":       offer.Brand,
			"discount":    offer.Discount,
			"price":       offer.Price,
			"description": offer.Description,
			"image_url":   offer.ImageURL,
		})
	if database.IsMalformedID(result.Error) {
		return ErrOfferNotFound
	}
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrOfferNotFound
	}
	return nil
}

func (r *offerRepository) SetHidden(ctx context.Context, id string, hidden bool) error {
	result := r.db.WithContext(ctx).Model(&model.Offer{}).
		Where("id = ?", id).
		Update("hidden", hidden)
	if database.IsMalformedID(result.Error) {
		return ErrOfferNotFound
	}
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrOfferNotFound
	}
	return nil
}

// Delete 商品连同券码一起删除
func (r *offerRepository) Delete(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM coupon_codes WHERE offer_id = ?", id).Error; err != nil {
			return fmt.Errorf("delete codes: %w", err)
		}
		result := tx.Exec("DELETE FROM offers WHERE id = ?", id)
		if result.Error != nil {
			return fmt.Errorf("delete offer: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrOfferNotFound
		}
		return nil
	})
	if database.IsMalformedID(err) {
		return ErrOfferNotFound
	}
	return err
}

type countRow struct {
	OfferID   string
	Available int64
}

// AvailableCounts 一次分组查询取得各商品的可用券码数，两个已用标记都为 false 才算可用
func (r *offerRepository) AvailableCounts(ctx context.Context, offerIDs []string) (map[string]int64, error) {
	counts := make(map[string]int64, len(offerIDs))
	if len(offerIDs) == 0 {
		return counts, nil
	}

	var rows []countRow
	err := r.db.WithContext(ctx).Raw(
		`SELECT offer_id, COUNT(*) AS available FROM coupon_codes
		 WHERE offer_id IN ? AND used = false AND legacy_used = false
		 GROUP BY offer_id`, offerIDs).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		counts[row.OfferID] = row.Available
	}
	return counts, nil
}
