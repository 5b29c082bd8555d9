package handler

import (
	"net/http"

	"github.com/luxestudio-live/coupon-bazaar/internal/domain/admin/service"
	"github.com/luxestudio-live/coupon-bazaar/internal/pkg/middleware"
	"github.com/luxestudio-live/coupon-bazaar/pkg/response"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	service service.AdminService
}

func NewAdminHandler(s service.AdminService) *AdminHandler {
	return &AdminHandler{service: s}
}

// LoginInput 登录输入
type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login 后台登录
// @Summary 管理员登录
// @Tags Admin
// @Accept json
// @Produce json
// @Param input body LoginInput true "Credentials"
// @Success 200 {object} response.Response{data=service.Session}
// @Router /admin/login [post]
func (h *AdminHandler) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, http.StatusBadRequest, response.ErrInvalidParam, err.Error())
		return
	}

	session, err := h.service.Login(input.Email, input.Password)
	if err != nil {
		response.AppError(c, err, nil)
		return
	}
	response.Success(c, session)
}

// Me 当前登录的管理员
// @Summary 当前管理员
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Router /admin/me [get]
func (h *AdminHandler) Me(c *gin.Context) {
	response.Success(c, gin.H{
		"email": c.GetString(middleware.CtxSubject),
		"role":  c.GetString(middleware.CtxRole),
	})
}
