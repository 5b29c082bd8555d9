package model

import (
	"time"

	offerModel "github.com/luxestudio-live/coupon-bazaar/internal/domain/offer/model"

	"github.com/shopspring/decimal"
)

// PendingIntent 创建支付时按目录价定好的购物行，支付回来后按网关订单号取回
type PendingIntent struct {
	IntentID  string                  `json:"intentId"`
	Amount    decimal.Decimal         `json:"amount"`
	Currency  string                  `json:"currency"`
	Lines     []offerModel.PricedLine `json:"lines"`
	CreatedAt time.Time               `json:"createdAt"`
}

// LineRequests 还原成只含 offerId 和数量的请求行
func (p *PendingIntent) LineRequests() []offerModel.LineRequest {
	out := make([]offerModel.LineRequest, 0, len(p.Lines))
	for _, l := range p.Lines {
		out = append(out, offerModel.LineRequest{OfferID: l.OfferID, Quantity: l.Quantity})
	}
	return out
}
