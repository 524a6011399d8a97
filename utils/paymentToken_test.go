package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPaymentTokenRoundTrip(t *testing.T) {
	t.Setenv("SYMMETRIC_KEY", "0123456789abcdef0123456789abcdef")

	token, err := GeneratePaymentToken("INV-1001")
	require.NoError(t, err)

	claims, err := ValidatePaymentToken(token)
	require.NoError(t, err)
	require.Equal(t, "INV-1001", claims.InvoiceID)
}

func TestPaymentTokenRejectsTampering(t *testing.T) {
	t.Setenv("SYMMETRIC_KEY", "0123456789abcdef0123456789abcdef")

	token, err := GeneratePaymentToken("INV-1001")
	require.NoError(t, err)

	_, err = ValidatePaymentToken(token[:len(token)-4] + "AAAA")
	require.Error(t, err)
}

func TestGetSymmetricKeyRequires32Bytes(t *testing.T) {
	t.Setenv("SYMMETRIC_KEY", "too-short")
	_, err := GetSymmetricKey()
	require.Error(t, err)
}
