package razorpay

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// Signature computes the hex-encoded HMAC-SHA256 checkout signature over
// "orderID|paymentID" with the key secret, matching what Razorpay sends in
// its payment callback.
func Signature(orderID, paymentID string, secret []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature reports whether provided is the valid checkout signature
// for the order/payment pair. The comparison is constant-time.
func VerifySignature(orderID, paymentID, provided string, secret []byte) bool {
	expected := Signature(orderID, paymentID, secret)
	return hmac.Equal([]byte(expected), []byte(provided))
}
