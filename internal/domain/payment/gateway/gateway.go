package gateway

import (
	"context"

	"github.com/shopspring/decimal"
)

// Intent 网关侧创建的待支付订单
type Intent struct {
	ID        string          `json:"intentId"`
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency"`
	ClientKey string          `json:"clientAuthToken"` // 前端拉起收银台所需的公开 key
}

// Confirmation 前端支付完成后回传的签名三元组
type Confirmation struct {
	OrderID   string
	PaymentID string
	Signature string
}

// CustomerInfo 尽力获取，缺失字段留空
type CustomerInfo struct {
	Email   string `json:"email,omitempty"`
	Contact string `json:"contact,omitempty"`
	Name    string `json:"name,omitempty"`
}

// Payment 网关上的支付详情
type Payment struct {
	ID        string          `json:"id"`
	OrderID   string          `json:"orderId"`
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency"`
	Status    string          `json:"status"`
	Method    string          `json:"method"`
	Email     string          `json:"email,omitempty"`
	Contact   string          `json:"contact,omitempty"`
	Name      string          `json:"name,omitempty"`
	Bank      string          `json:"bank,omitempty"`
	Wallet    string          `json:"wallet,omitempty"`
	VPA       string          `json:"vpa,omitempty"`
	CreatedAt int64           `json:"createdAt"`
}

// Gateway 支付网关适配器
type Gateway interface {
	// CreateIntent 金额由调用方按目录价算好，网关只负责下单
	CreateIntent(ctx context.Context, amount decimal.Decimal, receipt string, notes map[string]string) (*Intent, error)
	// VerifyConfirmation 签名必须与 HMAC-SHA256(orderId|paymentId) 完全一致
	VerifyConfirmation(c Confirmation) bool
	// FetchPaymentAmount 网关实际收取的金额
	FetchPaymentAmount(ctx context.Context, paymentID string) (decimal.Decimal, error)
	FetchCustomerInfo(ctx context.Context, paymentID string) (CustomerInfo, error)
	FetchPayment(ctx context.Context, paymentID string) (*Payment, error)
	Currency() string
}
