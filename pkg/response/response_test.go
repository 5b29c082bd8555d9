package response

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/luxestudio-live/coupon-bazaar/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestMapping(t *testing.T) {
	tests := []struct {
		kind   apperror.Kind
		status int
		code   int
	}{
		{apperror.KindInvalidSignature, http.StatusBadRequest, ErrInvalidSignature},
		{apperror.KindAlreadyProcessed, http.StatusConflict, ErrAlreadyProcessed},
		{apperror.KindAmountMismatch, http.StatusUnprocessableEntity, ErrAmountMismatch},
		{apperror.KindOfferNotFound, http.StatusNotFound, ErrOfferNotFound},
		{apperror.KindInsufficientStock, http.StatusConflict, ErrInsufficientStock},
		{apperror.KindGatewayUnavailable, http.StatusBadGateway, ErrGatewayUnavailable},
		{apperror.KindStorageFailure, http.StatusServiceUnavailable, ErrStorageFailure},
		{apperror.Kind("SOMETHING_ELSE"), http.StatusInternalServerError, ErrServerInternal},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			status, code := Mapping(tt.kind)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, code)
		})
	}
}

func TestAppError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("structured error keeps kind and data", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		AppError(c, apperror.New(apperror.KindAlreadyProcessed, "done"), gin.H{"orderId": "o1"})

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), `"kind":"ALREADY_PROCESSED"`)
		assert.Contains(t, w.Body.String(), `"orderId":"o1"`)
	})

	t.Run("plain error is internal", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)

		AppError(c, errors.New("boom"), nil)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
