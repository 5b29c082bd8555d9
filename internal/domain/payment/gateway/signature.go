package gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Sign 计算 hex(HMAC-SHA256(secret, orderId|paymentId))
func Sign(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature 常量时间比较，大小写不同也视为不一致
func VerifySignature(secret string, c Confirmation) bool {
	if secret == "" || c.OrderID == "" || c.PaymentID == "" || c.Signature == "" {
		return false
	}
	expected := Sign(secret, c.OrderID, c.PaymentID)
	return hmac.Equal([]byte(expected), []byte(c.Signature))
}
