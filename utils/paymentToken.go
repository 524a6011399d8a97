package utils

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/o1egl/paseto"
)

// PaymentTokenExpiry bounds how long a pay-by-link token stays valid.
const PaymentTokenExpiry = 7 * 24 * time.Hour

// PaymentTokenClaims is the payload of a pay-by-link token embedded in
// reminder messages. It lets a patient settle one invoice without an
// account.
type PaymentTokenClaims struct {
	InvoiceID string    `json:"invoiceId"`
	Expiry    time.Time `json:"expiry"`
}

// GetSymmetricKey retrieves the PASETO symmetric key from the environment
// and ensures it has the required 32-byte length.
func GetSymmetricKey() ([]byte, error) {
	key := os.Getenv("SYMMETRIC_KEY")
	if len(key) != 32 {
		return nil, fmt.Errorf("SYMMETRIC_KEY must be 32 bytes long, got %d", len(key))
	}
	return []byte(key), nil
}

// GeneratePaymentToken creates a signed pay-by-link token for an invoice.
func GeneratePaymentToken(invoiceID string) (string, error) {
	key, err := GetSymmetricKey()
	if err != nil {
		return "", err
	}

	claims := PaymentTokenClaims{
		InvoiceID: invoiceID,
		Expiry:    time.Now().Add(PaymentTokenExpiry),
	}

	token, err := paseto.NewV2().Encrypt(key, claims, nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate payment token: %w", err)
	}
	return token, nil
}

// ValidatePaymentToken decrypts a pay-by-link token and returns the invoice
// it authorises payment for.
func ValidatePaymentToken(tokenString string) (*PaymentTokenClaims, error) {
	key, err := GetSymmetricKey()
	if err != nil {
		return nil, err
	}

	var claims PaymentTokenClaims
	var footer string
	if err := paseto.NewV2().Decrypt(tokenString, key, &claims, &footer); err != nil {
		return nil, fmt.Errorf("failed to parse payment token: %w", err)
	}

	if time.Now().After(claims.Expiry) {
		return nil, errors.New("payment token expired")
	}
	return &claims, nil
}
