package security

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// SignPayment returns the hex HMAC-SHA256 the payment gateway attaches to a
// successful checkout: HMAC(gatewayOrderID + "|" + paymentID, secret).
func SignPayment(gatewayOrderID, paymentID, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(gatewayOrderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyPaymentSignature compares the provided signature in constant time.
func VerifyPaymentSignature(gatewayOrderID, paymentID, signature, secret string) bool {
	if secret == "" || strings.TrimSpace(signature) == "" {
		return false
	}
	expected := SignPayment(gatewayOrderID, paymentID, secret)
	return hmac.Equal([]byte(expected), []byte(strings.ToLower(strings.TrimSpace(signature))))
}
