package handler

import (
	"net/http"

	"github.com/luxestudio-live/coupon-bazaar/internal/domain/brand/service"
	"github.com/luxestudio-live/coupon-bazaar/pkg/response"

	"github.com/gin-gonic/gin"
)

type BrandHandler struct {
	service service.BrandService
}

func NewBrandHandler(service service.BrandService) *BrandHandler {
	return &BrandHandler{service: service}
}

type BrandInput struct {
	Name        string `json:"name" binding:"required,max=100"`
	LogoURL     string `json:"logoUrl" binding:"omitempty,url"`
	Description string `json:"description"`
}

func (in BrandInput) toService() service.BrandInput {
	return service.BrandInput{Name: in.Name, LogoURL: in.LogoURL, Description: in.Description}
}

// ListBrands 品牌列表
// @Summary 品牌列表及商品数
// @Tags Brand
// @Produce json
// @Success 200 {object} response.Response{data=[]model.BrandSummary}
// @Router /brands [get]
func (h *BrandHandler) ListBrands(c *gin.Context) {
	brands, err := h.service.ListBrands(c.Request.Context())
	if err != nil {
		response.AppError(c, err, nil)
		return
	}
	response.Success(c, brands)
}

// GetBrand 品牌详情
// @Summary 品牌详情
// @Tags Brand
// @Produce json
// @Param id path string true "Brand ID"
// @Success 200 {object} response.Response{data=model.Brand}
// @Router /brands/{id} [get]
func (h *BrandHandler) GetBrand(c *gin.Context) {
	brand, err := h.service.GetBrand(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.AppError(c, err, nil)
		return
	}
	response.Success(c, brand)
}

// CreateBrand 创建品牌
// @Summary 创建品牌
// @Tags Admin
// @Security Bearer
// @Accept json
// @Produce json
// @Param input body BrandInput true "Brand"
// @Success 200 {object} response.Response{data=model.Brand}
// @Router /admin/brands [post]
func (h *BrandHandler) CreateBrand(c *gin.Context) {
	var input BrandInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	brand, err := h.service.CreateBrand(c.Request.Context(), input.toService())
	if err != nil {
		response.AppError(c, err, nil)
		return
	}
	response.Success(c, brand)
}

// UpdateBrand 修改品牌，改名会同步到所属商品
// @Summary 修改品牌
// @Tags Admin
// @Security Bearer
// @Accept json
// @Produce json
// @Param id path string true "Brand ID"
// @Param input body BrandInput true "Brand"
// @Success 200 {object} response.Response{data=model.Brand}
// @Router /admin/brands/{id} [put]
func (h *BrandHandler) UpdateBrand(c *gin.Context) {
	var input BrandInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	brand, err := h.service.UpdateBrand(c.Request.Context(), c.Param("id"), input.toService())
	if err != nil {
		response.AppError(c, err, nil)
		return
	}
	response.Success(c, brand)
}

// DeleteBrand 删除品牌，商品保留
// @Summary 删除品牌
// @Tags Admin
// @Security Bearer
// @Param id path string true "Brand ID"
// @Success 200 {object} response.Response
// @Router /admin/brands/{id} [delete]
func (h *BrandHandler) DeleteBrand(c *gin.Context) {
	if err := h.service.DeleteBrand(c.Request.Context(), c.Param("id")); err != nil {
		response.AppError(c, err, nil)
		return
	}
	response.Success(c, "Brand deleted")
}

// UploadLogo 上传品牌 logo 到 OSS
// @Summary 上传品牌 logo
// @Tags Admin
// @Security Bearer
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Brand ID"
// @Param logo formData file true "Logo"
// @Success 200 {object} response.Response{data=string} "URL"
// @Router /admin/brands/{id}/logo [post]
func (h *BrandHandler) UploadLogo(c *gin.Context) {
	file, err := c.FormFile("logo")
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, "logo file is required")
		return
	}

	url, err := h.service.UploadLogo(c.Request.Context(), c.Param("id"), file)
	if err != nil {
		response.AppError(c, err, nil)
		return
	}
	response.Success(c, url)
}
