package model

import (
	"time"

	baseModel "github.com/luxestudio-live/coupon-bazaar/pkg/model"
)

// Code 单个券码。used 只会从 false 变为 true
// legacy_used 是旧库遗留的已用标记，迁移完成前两者任一为 true 都视为已用
type Code struct {
	baseModel.BaseModel
	OfferID    string     `gorm:"type:uuid;not null;index:idx_codes_offer_used,priority:1;uniqueIndex:idx_codes_offer_code,priority:1" json:"offerId"`
	Code       string     `gorm:"type:varchar(128);not null;uniqueIndex:idx_codes_offer_code,priority:2" json:"code"`
	Used       bool       `gorm:"not null;index:idx_codes_offer_used,priority:2" json:"used"`
	LegacyUsed bool       `gorm:"not null" json:"legacyUsed"`
	UsedBy     *string    `gorm:"type:varchar(128);index:idx_codes_used_by" json:"usedBy,omitempty"`
	UsedAt     *time.Time `json:"usedAt,omitempty"`
}

func (Code) TableName() string {
	return "coupon_codes"
}

// IsUsed 任一标记为 true 即已用
func (c Code) IsUsed() bool {
	return c.Used || c.LegacyUsed
}

// OfferStock 单个商品的库存统计
type OfferStock struct {
	OfferID  string `db:"offer_id" json:"offerId"`
	Brand    string `db:"brand" json:"brand,omitempty"`
	Discount string `db:"discount" json:"discount,omitempty"`
	Total    int64  `db:"total" json:"total"`
	Used     int64  `db:"used" json:"used"`
	Unused   int64  `db:"unused" json:"unused"`
}

// UsageEntry 券码使用记录
type UsageEntry struct {
	Code     string     `db:"code" json:"code"`
	OfferID  string     `db:"offer_id" json:"offerId"`
	Brand    string     `db:"brand" json:"brand"`
	Discount string     `db:"discount" json:"discount"`
	UsedBy   *string    `db:"used_by" json:"usedBy"`
	UsedAt   *time.Time `db:"used_at" json:"usedAt"`
}

// CodeListing 某商品的券码及已用/未用统计
type CodeListing struct {
	Stock OfferStock `json:"stock"`
	Codes []Code     `json:"codes"`
}

// AddResult 批量导入结果
type AddResult struct {
	Submitted  int   `json:"submitted"`
	Accepted   int   `json:"accepted"`
	Inserted   int64 `json:"inserted"`
	Duplicates int64 `json:"duplicates"`
}
