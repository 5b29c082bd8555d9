package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/luxestudio-live/coupon-bazaar/internal/pkg/config"
	"github.com/luxestudio-live/coupon-bazaar/pkg/apperror"
	"github.com/luxestudio-live/coupon-bazaar/pkg/money"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
)

// PaymentIDPrefix 网关支付号前缀
const PaymentIDPrefix = "pay_"

type razorpayOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Status   string `json:"status"`
}

type razorpayPayment struct {
	ID        string          `json:"id"`
	OrderID   string          `json:"order_id"`
	Amount    int64           `json:"amount"`
	Currency  string          `json:"currency"`
	Status    string          `json:"status"`
	Method    string          `json:"method"`
	Email     string          `json:"email"`
	Contact   string          `json:"contact"`
	Notes     json.RawMessage `json:"notes"`
	Bank      string          `json:"bank"`
	Wallet    string          `json:"wallet"`
	VPA       string          `json:"vpa"`
	CreatedAt int64           `json:"created_at"`
}

type razorpayError struct {
	Error struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error"`
}

// Razorpay 基于 REST API 的网关实现
type Razorpay struct {
	client    *resty.Client
	keyID     string
	keySecret string
	currency  string
}

func NewRazorpay(cfg config.GatewayConfig) *Razorpay {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetBasicAuth(cfg.KeyID, cfg.KeySecret).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")

	return &Razorpay{
		client:    client,
		keyID:     cfg.KeyID,
		keySecret: cfg.KeySecret,
		currency:  cfg.Currency,
	}
}

func (r *Razorpay) configured() bool {
	return r.keyID != "" && r.keySecret != ""
}

func (r *Razorpay) Currency() string {
	return r.currency
}

func (r *Razorpay) CreateIntent(ctx context.Context, amount decimal.Decimal, receipt string, notes map[string]string) (*Intent, error) {
	if !r.configured() {
		return nil, apperror.New(apperror.KindGatewayUnavailable, "payment gateway is not configured")
	}
	if !amount.IsPositive() {
		return nil, apperror.New(apperror.KindInvalidRequest, "amount must be positive")
	}

	body := map[string]interface{}{
		"amount":   money.ToMinor(amount),
		"currency": r.currency,
		"receipt":  receipt,
		"notes":    notes,
	}

	var order razorpayOrder
	var apiErr razorpayError
	resp, err := r.client.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&order).
		SetError(&apiErr).
		Post("/v1/orders")
	if err != nil {
		return nil, apperror.Wrap(apperror.KindGatewayUnavailable, err, "create gateway order")
	}
	if resp.IsError() {
		return nil, apperror.Newf(apperror.KindGatewayUnavailable, "create gateway order: status %d: %s %s",
			resp.StatusCode(), apiErr.Error.Code, apiErr.Error.Description)
	}

	return &Intent{
		ID:        order.ID,
		Amount:    money.FromMinor(order.Amount),
		Currency:  order.Currency,
		ClientKey: r.keyID,
	}, nil
}

func (r *Razorpay) VerifyConfirmation(c Confirmation) bool {
	return VerifySignature(r.keySecret, c)
}

func (r *Razorpay) FetchPayment(ctx context.Context, paymentID string) (*Payment, error) {
	if !strings.HasPrefix(paymentID, PaymentIDPrefix) {
		return nil, apperror.Newf(apperror.KindInvalidRequest, "invalid payment id %q", paymentID)
	}
	if !r.configured() {
		return nil, apperror.New(apperror.KindGatewayUnavailable, "payment gateway is not configured")
	}

	var p razorpayPayment
	var apiErr razorpayError
	resp, err := r.client.R().
		SetContext(ctx).
		SetPathParam("id", paymentID).
		SetResult(&p).
		SetError(&apiErr).
		Get("/v1/payments/{id}")
	if err != nil {
		return nil, apperror.Wrap(apperror.KindGatewayUnavailable, err, "fetch payment")
	}
	switch {
	case resp.StatusCode() == http.StatusNotFound:
		return nil, apperror.Newf(apperror.KindNotFound, "payment %s not found", paymentID)
	case resp.IsError():
		return nil, apperror.Newf(apperror.KindGatewayUnavailable, "fetch payment: status %d: %s",
			resp.StatusCode(), apiErr.Error.Description)
	}

	return &Payment{
		ID:        p.ID,
		OrderID:   p.OrderID,
		Amount:    money.FromMinor(p.Amount),
		Currency:  p.Currency,
		Status:    p.Status,
		Method:    p.Method,
		Email:     p.Email,
		Contact:   p.Contact,
		Name:      noteValue(p.Notes, "name"),
		Bank:      p.Bank,
		Wallet:    p.Wallet,
		VPA:       p.VPA,
		CreatedAt: p.CreatedAt,
	}, nil
}

func (r *Razorpay) FetchPaymentAmount(ctx context.Context, paymentID string) (decimal.Decimal, error) {
	p, err := r.FetchPayment(ctx, paymentID)
	if err != nil {
		return decimal.Zero, err
	}
	if p.Currency != "" && r.currency != "" && p.Currency != r.currency {
		return decimal.Zero, apperror.Newf(apperror.KindAmountMismatch, "payment currency %s, expected %s", p.Currency, r.currency)
	}
	return p.Amount, nil
}

func (r *Razorpay) FetchCustomerInfo(ctx context.Context, paymentID string) (CustomerInfo, error) {
	p, err := r.FetchPayment(ctx, paymentID)
	if err != nil {
		return CustomerInfo{}, fmt.Errorf("fetch customer info: %w", err)
	}
	return CustomerInfo{Email: p.Email, Contact: p.Contact, Name: p.Name}, nil
}

// noteValue notes 为空时网关返回 []，不是对象
func noteValue(raw json.RawMessage, key string) string {
	var notes map[string]interface{}
	if len(raw) == 0 || json.Unmarshal(raw, &notes) != nil {
		return ""
	}
	if v, ok := notes[key].(string); ok {
		return v
	}
	return ""
}
