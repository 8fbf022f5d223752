package razorpay

import (
	"strings"
	"testing"
)

func TestVerifySignature_ValidPair_Succeeds(t *testing.T) {
	t.Parallel()

	secret := []byte("test-key-secret")
	sig := Signature("order_123", "pay_456", secret)

	if !VerifySignature("order_123", "pay_456", sig, secret) {
		t.Error("expected valid signature to verify")
	}
}

func TestVerifySignature_AnyMutation_Fails(t *testing.T) {
	t.Parallel()

	secret := []byte("test-key-secret")
	sig := Signature("order_123", "pay_456", secret)

	// Flip every hex digit one at a time; none may verify.
	for i := 0; i < len(sig); i++ {
		mutated := []byte(sig)
		if mutated[i] == 'a' {
			mutated[i] = 'b'
		} else {
			mutated[i] = 'a'
		}
		if VerifySignature("order_123", "pay_456", string(mutated), secret) {
			t.Errorf("mutated signature at position %d verified", i)
		}
	}
}

func TestVerifySignature_RejectsWrongInputs(t *testing.T) {
	t.Parallel()

	secret := []byte("test-key-secret")
	sig := Signature("order_123", "pay_456", secret)

	testCases := []struct {
		name      string
		orderID   string
		paymentID string
		provided  string
		secret    []byte
	}{
		{"wrong order id", "order_999", "pay_456", sig, secret},
		{"wrong payment id", "order_123", "pay_999", sig, secret},
		{"wrong secret", "order_123", "pay_456", sig, []byte("other-secret")},
		{"empty signature", "order_123", "pay_456", "", secret},
		{"truncated signature", "order_123", "pay_456", sig[:len(sig)-2], secret},
		{"swapped ids", "pay_456", "order_123", sig, secret},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if VerifySignature(tc.orderID, tc.paymentID, tc.provided, tc.secret) {
				t.Error("expected verification to fail")
			}
		})
	}
}

func TestSignature_IsLowercaseHex(t *testing.T) {
	t.Parallel()

	sig := Signature("order_123", "pay_456", []byte("s"))
	if len(sig) != 64 {
		t.Fatalf("expected 64 hex chars, got %d", len(sig))
	}
	if sig != strings.ToLower(sig) {
		t.Error("expected lowercase hex encoding")
	}
}
