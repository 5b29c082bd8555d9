package handler

import (
	"net/http"

	"github.com/luxestudio-live/coupon-bazaar/internal/domain/order/service"
	"github.com/luxestudio-live/coupon-bazaar/pkg/response"
	"github.com/luxestudio-live/coupon-bazaar/pkg/utils"

	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	service service.PurchaseService
}

func NewOrderHandler(s service.PurchaseService) *OrderHandler {
	return &OrderHandler{service: s}
}

// Finalize 确认支付并发放券码
// @Summary 确认支付并发放券码
// @Description 重复提交同一支付返回 409 ALREADY_PROCESSED，data 为已存在订单的结果
// @Tags Order
// @Accept json
// @Produce json
// @Param input body service.FinalizeRequest true "Gateway confirmation"
// @Success 200 {object} response.Response{data=model.Result}
// @Failure 409 {object} response.Response{data=model.Result}
// @Router /orders/finalize [post]
func (h *OrderHandler) Finalize(c *gin.Context) {
	var req service.FinalizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	res, err := h.service.Finalize(c.Request.Context(), req)
	if err != nil {
		// ALREADY_PROCESSED 时 res 是已存在的订单
		response.AppError(c, err, res)
		return
	}
	response.Success(c, res)
}

// GetOrder 订单详情 (成功页)
// @Summary 订单详情
// @Tags Order
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} response.Response{data=model.Result}
// @Router /orders/{id} [get]
func (h *OrderHandler) GetOrder(c *gin.Context) {
	order, err := h.service.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.AppError(c, err, nil)
		return
	}
	response.Success(c, order.ToResult())
}

// ListOrders 后台交易列表
// @Summary 交易列表
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page"
// @Param limit query int false "Limit"
// @Success 200 {object} response.Response{data=utils.PageResult}
// @Router /admin/orders [get]
func (h *OrderHandler) ListOrders(c *gin.Context) {
	var p utils.Pagination
	if err := c.ShouldBindQuery(&p); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	page, err := h.service.ListOrders(c.Request.Context(), p)
	if err != nil {
		response.AppError(c, err, nil)
		return
	}
	response.Success(c, page)
}
