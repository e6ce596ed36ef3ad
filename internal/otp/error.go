package otp

import "errors"

var (
	ErrInvalidOTP = errors.New("invalid OTP")
	ErrExpiredOTP = errors.New("OTP has expired")
)
