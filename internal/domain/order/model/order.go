package model

import (
	baseModel "github.com/luxestudio-live/coupon-bazaar/pkg/model"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// LineItem 下单时的商品快照
type LineItem struct {
	OfferID     string          `json:"offerId"`
	Brand       string          `json:"brand"`
	Discount    string          `json:"discount"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
}

// CodeGroup 按品牌+折扣归组的券码
type CodeGroup struct {
	Brand    string   `json:"brand"`
	Discount string   `json:"discount"`
	Codes    []string `json:"codes"`
}

// Order 已完成的购买，写入后不再修改。payment_id 唯一，是去重键
type Order struct {
	baseModel.BaseModel
	PaymentID       string                         `gorm:"type:varchar(64);not null;uniqueIndex" json:"paymentId"`
	GatewayOrderID  string                         `gorm:"type:varchar(64)" json:"gatewayOrderId,omitempty"`
	TotalAmount     decimal.Decimal                `gorm:"type:numeric(12,2);not null" json:"totalAmount"`
	Items           datatypes.JSONSlice[LineItem]  `gorm:"type:jsonb;not null" json:"items"`
	Codes           datatypes.JSONSlice[CodeGroup] `gorm:"type:jsonb;not null" json:"codes"`
	CustomerEmail   string                         `gorm:"type:varchar(255)" json:"customerEmail,omitempty"`
	CustomerContact string                         `gorm:"type:varchar(64)" json:"customerContact,omitempty"`
	CustomerName    string                         `gorm:"type:varchar(255)" json:"customerName,omitempty"`
}

func (Order) TableName() string {
	return "orders"
}

// AllocatedLine 返回给客户端的每行结果
type AllocatedLine struct {
	OfferID     string          `json:"offerId"`
	Brand       string          `json:"brand"`
	Discount    string          `json:"discount"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Codes       []string        `json:"codes"`
}

// Result 下单结果
type Result struct {
	OrderID        string          `json:"orderId"`
	PaymentID      string          `json:"paymentId"`
	AllocatedLines []AllocatedLine `json:"allocatedLines"`
}

// GroupCodes 按品牌+折扣归组，保持首次出现的顺序
func GroupCodes(lines []AllocatedLine) []CodeGroup {
	index := make(map[string]int)
	groups := make([]CodeGroup, 0, len(lines))
	for _, l := range lines {
		key := l.Brand + "\x00" + l.Discount
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, CodeGroup{Brand: l.Brand, Discount: l.Discount})
		}
		groups[i].Codes = append(groups[i].Codes, l.Codes...)
	}
	return groups
}

// ToResult 从订单记录还原每行的券码
func (o *Order) ToResult() *Result {
	remaining := make(map[string][]string, len(o.Codes))
	for _, g := range o.Codes {
		key := g.Brand + "\x00" + g.Discount
		remaining[key] = append(remaining[key], g.Codes...)
	}

	lines := make([]AllocatedLine, 0, len(o.Items))
	for _, item := range o.Items {
		key := item.Brand + "\x00" + item.Discount
		pool := remaining[key]
		n := item.Quantity
		if n > len(pool) {
			n = len(pool)
		}
		lines = append(lines, AllocatedLine{
			OfferID:     item.OfferID,
			Brand:       item.Brand,
			Discount:    item.Discount,
			Quantity:    item.Quantity,
			Price:       item.Price,
			Description: item.Description,
			Codes:       pool[:n],
		})
		remaining[key] = pool[n:]
	}

	return &Result{OrderID: o.ID, PaymentID: o.PaymentID, AllocatedLines: lines}
}
