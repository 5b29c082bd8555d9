package handler

import (
	"net/http"
	"strings"

	"github.com/luxestudio-live/coupon-bazaar/internal/domain/inventory/service"
	"github.com/luxestudio-live/coupon-bazaar/pkg/response"
	"github.com/luxestudio-live/coupon-bazaar/pkg/utils"

	"github.com/gin-gonic/gin"
)

type InventoryHandler struct {
	service service.InventoryService
}

func NewInventoryHandler(service service.InventoryService) *InventoryHandler {
	return &InventoryHandler{service: service}
}

// AddCodesInput 可以传数组，也可以传多行文本 (每行一个)
type AddCodesInput struct {
	Codes []string `json:"codes"`
	Text  string   `json:"text"`
}

// AddCodes 批量导入券码
// @Summary 批量导入券码
// @Tags Admin
// @Security Bearer
// @Accept json
// @Produce json
// @Param id path string true "Offer ID"
// @Param input body AddCodesInput true "Codes"
// @Success 200 {object} response.Response{data=model.AddResult}
// @Router /admin/offers/{id}/codes [post]
func (h *InventoryHandler) AddCodes(c *gin.Context) {
	var input AddCodesInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	raw := input.Codes
	if input.Text != "" {
		raw = append(raw, strings.Split(input.Text, "\n")...)
	}

	res, err := h.service.AddCodes(c.Request.Context(), c.Param("id"), raw)
	if err != nil {
		response.AppError(c, err, nil)
		return
	}
	response.Success(c, res)
}

// ListCodes 某商品的券码及统计
// @Summary 商品券码列表
// @Tags Admin
// @Security Bearer
// @Produce json
// @Param id path string true "Offer ID"
// @Success 200 {object} response.Response{data=model.CodeListing}
// @Router /admin/offers/{id}/codes [get]
func (h *InventoryHandler) ListCodes(c *gin.Context) {
	listing, err := h.service.ListCodes(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.AppError(c, err, nil)
		return
	}
	response.Success(c, listing)
}

// MarkConsumed 将未用券码标记为已用
// @Summary 手工核销券码
// @Tags Admin
// @Security Bearer
// @Produce json
// @Param id path string true "Code ID"
// @Success 200 {object} response.Response{data=model.Code}
// @Router /admin/codes/{id}/consume [post]
func (h *InventoryHandler) MarkConsumed(c *gin.Context) {
	code, err := h.service.MarkConsumed(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.AppError(c, err, nil)
		return
	}
	response.Success(c, code)
}

// Inventory 库存汇总
// @Summary 库存汇总
// @Tags Admin
// @Security Bearer
// @Produce json
// @Success 200 {object} response.Response{data=[]model.OfferStock}
// @Router /admin/inventory [get]
func (h *InventoryHandler) Inventory(c *gin.Context) {
	rows, err := h.service.Inventory(c.Request.Context())
	if err != nil {
		response.AppError(c, err, nil)
		return
	}
	response.Success(c, rows)
}

// UsageHistory 使用记录
// @Summary 券码使用记录
// @Tags Admin
// @Security Bearer
// @Produce json
// @Param page query int false "Page"
// @Param limit query int false "Limit"
// @Success 200 {object} response.Response{data=utils.PageResult}
// @Router /admin/usage-history [get]
func (h *InventoryHandler) UsageHistory(c *gin.Context) {
	var p utils.Pagination
	if err := c.ShouldBindQuery(&p); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	page, err := h.service.UsageHistory(c.Request.Context(), p)
	if err != nil {
		response.AppError(c, err, nil)
		return
	}
	response.Success(c, page)
}

// NormalizeLegacy 合并旧的已用标记
// @Summary 合并旧已用标记
// @Tags Admin
// @Security Bearer
// @Produce json
// @Success 200 {object} response.Response
// @Router /admin/codes/normalize [post]
func (h *InventoryHandler) NormalizeLegacy(c *gin.Context) {
	n, err := h.service.NormalizeLegacy(c.Request.Context())
	if err != nil {
		response.AppError(c, err, nil)
		return
	}
	response.Success(c, gin.H{"normalized": n})
}
