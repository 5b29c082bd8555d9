package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/luxestudio-live/coupon-bazaar/internal/domain/brand/model"
	"github.com/luxestudio-live/coupon-bazaar/pkg/database"

	"github.com/jmoiron/sqlx"
	"gorm.io/gorm"
)

var (
	ErrBrandNotFound  = errors.New("brand not found")
	ErrDuplicateBrand = errors.New("brand name already exists")
)

type BrandRepository interface {
	Create(ctx context.Context, brand *model.Brand) error
	GetByID(ctx context.Context, id string) (*model.Brand, error)
	Update(ctx context.Context, brand *model.Brand) error
	Delete(ctx context.Context, id string) error
	Summaries(ctx context.Context) ([]model.BrandSummary, error)
}

type brandRepository struct {
	db *gorm.DB
	sx *sqlx.DB
}

func NewBrandRepository(db *gorm.DB, sx *sqlx.DB) BrandRepository {
	return &brandRepository{db: db, sx: sx}
}

func (r *brandRepository) Create(ctx context.Context, brand *model.Brand) error {
	err := r.db.WithContext(ctx).Create(brand).Error
	if database.PgCode(err) == database.PgUniqueViolation {
		return ErrDuplicateBrand
	}
	return err
}

func (r *brandRepository) GetByID(ctx context.Context, id string) (*model.Brand, error) {
	var brand model.Brand
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&brand).Error
	if errors.Is(err, gorm.ErrRecordNotFound) || database.IsMalformedID(err) {
		return nil, ErrBrandNotFound
	}
	if err != nil {
		return nil, err
	}
	return &brand, nil
}

// Update 改名时同步商品上冗余的品牌名
func (r *brandRepository) Update(ctx context.Context, brand *model.Brand) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.Brand{}).
			Where("id = ?", brand.ID).
			Updates(map[string]interface{}{
				"name":        brand.Name,
				"logo_url":    brand.LogoURL,
				"description": brand.Description,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrBrandNotFound
		}
		if err := tx.Exec("UPDATE offers SET brand = ? WHERE brand_id = ?", brand.Name, brand.ID).Error; err != nil {
			return fmt.Errorf("sync offer brand: %w", err)
		}
		return nil
	})
	switch {
	case database.PgCode(err) == database.PgUniqueViolation:
		return ErrDuplicateBrand
	case database.IsMalformedID(err):
		return ErrBrandNotFound
	}
	return err
}

// Delete 商品保留，brand_id 由外键置空
func (r *brandRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Exec("DELETE FROM brands WHERE id = ?", id)
	if database.IsMalformedID(result.Error) {
		return ErrBrandNotFound
	}
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrBrandNotFound
	}
	return nil
}

const brandSummarySQL = `SELECT b.id, b.name, b.logo_url, b.description, b.created_at,
	COUNT(DISTINCT o.id) AS offer_count,
	COUNT(c.id) FILTER (WHERE NOT c.used AND NOT c.legacy_used) AS available_codes
FROM brands b
LEFT JOIN offers o ON o.brand_id = b.id
LEFT JOIN coupon_codes c ON c.offer_id = o.id
GROUP BY b.id
ORDER BY b.name`

// Summaries 按名称排序的品牌列表，带商品数和可用券码数
func (r *brandRepository) Summaries(ctx context.Context) ([]model.BrandSummary, error) {
	var rows []model.BrandSummary
	if err := r.sx.SelectContext(ctx, &rows, brandSummarySQL); err != nil {
		return nil, fmt.Errorf("brand summaries: %w", err)
	}
	return rows, nil
}
