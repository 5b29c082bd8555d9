package handler

import (
	"net/http"

	"github.com/luxestudio-live/coupon-bazaar/internal/domain/offer/model"
	"github.com/luxestudio-live/coupon-bazaar/internal/domain/offer/service"
	"github.com/luxestudio-live/coupon-bazaar/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type OfferHandler struct {
	service service.OfferService
}

func NewOfferHandler(service service.OfferService) *OfferHandler {
	return &OfferHandler{service: service}
}

type OfferInput struct {
	BrandID     string          `json:"brandId"`
	Brand       string          `json:"brand" binding:"required_without=BrandID"`
	Discount    string          `json:"discount" binding:"required"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	ImageURL    string          `json:"imageUrl"`
}

func (in OfferInput) toService() service.OfferInput {
	return service.OfferInput{
		BrandID:     in.BrandID,
		Brand:       in.Brand,
		Discount:    in.Discount,
		Price:       in.Price,
		Description: in.Description,
		ImageURL:    in.ImageURL,
	}
}

type VisibilityInput struct {
	Hidden *bool `json:"hidden" binding:"required"`
}

// ListOffers 商品列表，可按品牌过滤
// @Summary 可见商品及实时库存
// @Tags Offer
// @Produce json
// @Param brandId query string false "Brand ID"
// @Success 200 {object} response.Response{data=[]model.OfferWithStock}
// @Router /offers [get]
func (h *OfferHandler) ListOffers(c *gin.Context) {
	var (
		offers []model.OfferWithStock
		err    error
	)
	if brandID := c.Query("brandId"); brandID != "" {
		offers, err = h.service.ListByBrand(c.Request.Context(), brandID)
	} else {
		offers, err = h.service.ListVisible(c.Request.Context())
	}
	if err != nil {
		response.AppError(c, err, nil)
		return
	}
	response.Success(c, offers)
}

// GetOffer 商品详情
// @Summary 商品详情
// @Tags Offer
// @Produce json
// @Param id path string true "Offer ID"
// @Success 200 {object} response.Response{data=model.OfferWithStock}
// @Router /offers/{id} [get]
func (h *OfferHandler) GetOffer(c *gin.Context) {
	offer, err := h.service.GetOffer(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.AppError(c, err, nil)
		return
	}
	if offer.Hidden {
		response.Error(c, http.StatusNotFound, response.ErrOfferNotFound, "offer not found")
		return
	}
	response.Success(c, offer)
}

// AdminListOffers 后台商品列表 (含隐藏)
// @Summary 后台商品列表
// @Tags Admin
// @Security Bearer
// @Produce json
// @Success 200 {object} response.Response{data=[]model.OfferWithStock}
// @Router /admin/offers [get]
func (h *OfferHandler) AdminListOffers(c *gin.Context) {
	offers, err := h.service.ListAll(c.Request.Context())
	if err != nil {
		response.AppError(c, err, nil)
		return
	}
	response.Success(c, offers)
}

// CreateOffer 创建商品
// @Summary 创建商品
// @Tags Admin
// @Security Bearer
// @Accept json
// @Produce json
// @Param input body OfferInput true "Offer"
// @Success 200 {object} response.Response{data=model.Offer}
// @Router /admin/offers [post]
func (h *OfferHandler) CreateOffer(c *gin.Context) {
	var input OfferInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	offer, err := h.service.CreateOffer(c.Request.Context(), input.toService())
	if err != nil {
		response.AppError(c, err, nil)
		return
	}
	response.Success(c, offer)
}

// UpdateOffer 修改商品
// @Summary 修改商品
// @Tags Admin
// @Security Bearer
// @Accept json
// @Produce json
// @Param id path string true "Offer ID"
// @Param input body OfferInput true "Offer"
// @Success 200 {object} response.Response{data=model.Offer}
// @Router /admin/offers/{id} [put]
func (h *OfferHandler) UpdateOffer(c *gin.Context) {
	var input OfferInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	offer, err := h.service.UpdateOffer(c.Request.Context(), c.Param("id"), input.toService())
	if err != nil {
		response.AppError(c, err, nil)
		return
	}
	response.Success(c, offer)
}

// DeleteOffer 删除商品及其全部券码
// @Summary 删除商品
// @Tags Admin
// @Security Bearer
// @Param id path string true "Offer ID"
// @Success 200 {object} response.Response
// @Router /admin/offers/{id} [delete]
func (h *OfferHandler) DeleteOffer(c *gin.Context) {
	if err := h.service.DeleteOffer(c.Request.Context(), c.Param("id")); err != nil {
		response.AppError(c, err, nil)
		return
	}
	response.Success(c, "Offer deleted")
}

// SetVisibility 上下架
// @Summary 隐藏/显示商品
// @Tags Admin
// @Security Bearer
// @Accept json
// @Param id path string true "Offer ID"
// @Param input body VisibilityInput true "Visibility"
// @Success 200 {object} response.Response
// @Router /admin/offers/{id}/visibility [patch]
func (h *OfferHandler) SetVisibility(c *gin.Context) {
	var input VisibilityInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	if err := h.service.SetHidden(c.Request.Context(), c.Param("id"), *input.Hidden); err != nil {
		response.AppError(c, err, nil)
		return
	}
	response.Success(c, gin.H{"hidden": *input.Hidden})
}

// UploadImage 上传商品图片到 OSS
// @Summary 上传商品图片
// @Tags Admin
// @Security Bearer
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Offer ID"
// @Param image formData file true "Image"
// @Success 200 {object} response.Response{data=string} "URL"
// @Router /admin/offers/{id}/image [post]
func (h *OfferHandler) UploadImage(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "image file is required")
		return
	}

	url, err := h.service.UploadImage(c.Request.Context(), c.Param("id"), file)
	if err != nil {
		response.AppError(c, err, nil)
		return
	}
	response.Success(c, url)
}
