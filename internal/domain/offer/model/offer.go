package model

import (
	"time"

	baseModel "github.com/luxestudio-live/coupon-bazaar/pkg/model"

	"github.com/shopspring/decimal"
)

// Offer 商品 (一类券码)，价格以服务端为准
// Brand 是品牌名的冗余副本，BrandID 为空的是品牌目录建立前录入的旧商品
type Offer struct {
	baseModel.BaseModel
	BrandID     *string         `gorm:"type:uuid;index:idx_offers_brand_id" json:"brandId,omitempty"`
	Brand       string          `gorm:"type:varchar(100);not null" json:"brand"`
	Discount    string          `gorm:"type:varchar(100);not null" json:"discount"`
	Price       decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	Description string          `gorm:"type:text" json:"description"`
	ImageURL    string          `gorm:"type:varchar(512)" json:"imageUrl"`
	Hidden      bool            `gorm:"not null" json:"hidden"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

func (Offer) TableName() string {
	return "offers"
}

// OfferWithStock 带实时库存的商品
type OfferWithStock struct {
	Offer
	Stock int64 `json:"stock"`
}

// LineRequest 客户端提交的购买行，只认 offerId 和数量
type LineRequest struct {
	OfferID  string `json:"offerId" binding:"required"`
	Quantity int    `json:"quantity" binding:"required,min=1"`
}

// PricedLine 按目录价定价后的购买行，下单时作为快照写入订单
type PricedLine struct {
	OfferID     string          `json:"offerId"`
	Brand       string          `json:"brand"`
	Discount    string          `json:"discount"`
	Description string          `json:"description"`
	UnitPrice   decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
}

// Subtotal 行小计
func (l PricedLine) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}
