package razorpay

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// VerifyPaymentSignature checks that a client-submitted signature was
// produced by the gateway for this order/payment pair. The expected value
// is HMAC-SHA256(secret, orderID + "|" + paymentID) as lowercase hex.
//
// The comparison is constant time over the full digest; empty or malformed
// inputs are not special-cased and simply verify false, so a caller cannot
// distinguish "malformed" from "wrong".
func VerifyPaymentSignature(gatewayOrderID, gatewayPaymentID, signature, secret string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(gatewayOrderID + "|" + gatewayPaymentID))
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature))
}
