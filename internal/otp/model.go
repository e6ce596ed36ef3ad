package otp

import "time"

// Purpose selects which single-purpose OTP table a code lives in.
type Purpose string

const (
	PurposeVerification Purpose = "verification"
	PurposeReset        Purpose = "reset"
)

const (
	VerificationTTL = 30 * time.Minute
	ResetTTL        = 10 * time.Minute
)

func (p Purpose) TTL() time.Duration {
	if p == PurposeReset {
		return ResetTTL
	}
	return VerificationTTL
}

func (p Purpose) table() string {
	if p == PurposeReset {
		return "password_resets"
	}
	return "verification_otps"
}

type Record struct {
	ID        int64
	Email     string
	Code      string
	ExpiresAt time.Time
}
