package handler

import (
	"net/http"

	offerModel "github.com/luxestudio-live/coupon-bazaar/internal/domain/offer/model"
	"github.com/luxestudio-live/coupon-bazaar/internal/domain/payment/service"
	"github.com/luxestudio-live/coupon-bazaar/pkg/response"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	service service.PaymentService
}

func NewPaymentHandler(s service.PaymentService) *PaymentHandler {
	return &PaymentHandler{service: s}
}

// CreateIntentInput 客户端即便传了 amount 也不会被读取
type CreateIntentInput struct {
	LineItems []offerModel.LineRequest `json:"lineItems" binding:"required,min=1,dive"`
}

// CreateIntent 创建支付
// @Summary 创建支付 (金额由服务端按目录价计算)
// @Tags Payment
// @Accept json
// @Produce json
// @Param input body CreateIntentInput true "Line items"
// @Success 200 {object} response.Response{data=gateway.Intent}
// @Router /payments/intents [post]
func (h *PaymentHandler) CreateIntent(c *gin.Context) {
	var input CreateIntentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	intent, err := h.service.CreateIntent(c.Request.Context(), input.LineItems)
	if err != nil {
		response.AppError(c, err, nil)
		return
	}
	response.Success(c, intent)
}

// PaymentDetails 支付详情
// @Summary 查询网关支付详情
// @Tags Payment
// @Produce json
// @Param paymentId path string true "Payment ID (pay_...)"
// @Success 200 {object} response.Response{data=gateway.Payment}
// @Router /payments/{paymentId} [get]
func (h *PaymentHandler) PaymentDetails(c *gin.Context) {
	p, err := h.service.PaymentDetails(c.Request.Context(), c.Param("paymentId"))
	if err != nil {
		response.AppError(c, err, nil)
		return
	}
	response.Success(c, p)
}
