package response

import (
	"net/http"

	"github.com/luxestudio-live/coupon-bazaar/pkg/apperror"

	"github.com/gin-gonic/gin"
)

// Response 统一响应结构
type Response struct {
	Code    int         `json:"code"`           // 业务码
	Kind    string      `json:"kind,omitempty"` // 稳定错误类型
	Message string      `json:"message"`        // 提示信息
	Data    interface{} `json:"data"`           // 数据
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    CodeSuccess,
		Message: "success",
		Data:    data,
	})
}

// Error 错误响应
func Error(c *gin.Context, httpCode int, errCode int, msg string) {
	c.JSON(httpCode, Response{
		Code:    errCode,
		Message: msg,
		Data:    nil,
	})
}

// Fail 业务失败响应 (HTTP 200, 业务码非 0)
func Fail(c *gin.Context, errCode int, msg string) {
	c.JSON(http.StatusOK, Response{
		Code:    errCode,
		Message: msg,
		Data:    nil,
	})
}

// AppError 按错误类型映射 HTTP 状态与业务码，data 可携带附加信息 (如已存在的订单)
func AppError(c *gin.Context, err error, data interface{}) {
	e, ok := apperror.As(err)
	if !ok {
		Error(c, http.StatusInternalServerError, ErrServerInternal, err.Error())
		return
	}
	status, code := Mapping(e.Kind)
	c.JSON(status, Response{
		Code:    code,
		Kind:    string(e.Kind),
		Message: e.Detail,
		Data:    data,
	})
}

// Mapping 错误类型 -> (HTTP 状态, 业务码)
func Mapping(kind apperror.Kind) (int, int) {
	switch kind {
	case apperror.KindInvalidRequest:
		return http.StatusBadRequest, ErrInvalidParam
	case apperror.KindNotFound:
		return http.StatusNotFound, ErrOrderNotFound
	case apperror.KindInvalidSignature:
		return http.StatusBadRequest, ErrInvalidSignature
	case apperror.KindAlreadyProcessed:
		return http.StatusConflict, ErrAlreadyProcessed
	case apperror.KindAmountMismatch:
		return http.StatusUnprocessableEntity, ErrAmountMismatch
	case apperror.KindOfferNotFound:
		return http.StatusNotFound, ErrOfferNotFound
	case apperror.KindInsufficientStock:
		return http.StatusConflict, ErrInsufficientStock
	case apperror.KindGatewayUnavailable:
		return http.StatusBadGateway, ErrGatewayUnavailable
	case apperror.KindStorageFailure:
		return http.StatusServiceUnavailable, ErrStorageFailure
	case apperror.KindUnauthorized:
		return http.StatusUnauthorized, ErrAuthFailed
	default:
		return http.StatusInternalServerError, ErrServerInternal
	}
}
