package auth

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"
)

const (
	// VerifyOTPTTL bounds the lifetime of an account-verification code.
	VerifyOTPTTL = 5 * time.Minute
	// ResetOTPTTL bounds the lifetime of a password-reset code.
	ResetOTPTTL = 15 * time.Minute
)

var otpMax = big.NewInt(900000)

// GenerateOTP returns a 6-digit numeric one-time code in [100000, 999999].
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, otpMax)
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
