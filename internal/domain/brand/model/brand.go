package model

import (
	"time"

	baseModel "github.com/luxestudio-live/coupon-bazaar/pkg/model"
)

// Brand 品牌。商品通过 brand_id 归属品牌，并冗余一份品牌名用于展示和订单快照
type Brand struct {
	baseModel.BaseModel
	Name        string    `gorm:"type:varchar(100);not null;uniqueIndex:idx_brands_name" json:"name"`
	LogoURL     string    `gorm:"type:varchar(512)" json:"logoUrl"`
	Description string    `gorm:"type:text" json:"description"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (Brand) TableName() string {
	return "brands"
}

// BrandSummary 品牌及其商品数、可用券码数
type BrandSummary struct {
	ID             string    `db:"id" json:"id"`
	Name           string    `db:"name" json:"name"`
	LogoURL        string    `db:"logo_url" json:"logoUrl"`
	Description    string    `db:"description" json:"description"`
	CreatedAt      time.Time `db:"created_at" json:"createdAt"`
	OfferCount     int64     `db:"offer_count" json:"offerCount"`
	AvailableCodes int64     `db:"available_codes" json:"availableCodes"`
}
