package otp

import (
	"context"
	"crypto/rand"
	"math/big"
	"time"

	"livemart-be/internal/logger"

	"go.uber.org/zap"
)

type Service interface {
	// Issue generates a 6-digit code, invalidating any previous one for the
	// same email and purpose, and returns the new code.
	Issue(ctx context.Context, purpose Purpose, email string) (string, error)
	// Verify consumes the code: a valid code is deleted and can never be
	// used again. Expired codes are removed on the attempt that finds them.
	Verify(ctx context.Context, purpose Purpose, email, code string) error
	// Check validates without consuming; valid codes stay live.
	Check(ctx context.Context, purpose Purpose, email, code string) error
}

type service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) Service {
	return &service{repo: repo, now: time.Now}
}

func generateCode() string {
	const digits = "0123456789"
	code := make([]byte, 6)
	for i := range code {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(digits))))
		if err != nil {
			// crypto/rand failing means the process is in a bad place anyway
			panic(err)
		}
		code[i] = digits[n.Int64()]
	}
	return string(code)
}

func (s *service) Issue(ctx context.Context, purpose Purpose, email string) (string, error) {
	code := generateCode()
	expiresAt := s.now().Add(purpose.TTL())

	if err := s.repo.Replace(ctx, purpose, email, code, expiresAt); err != nil {
		logger.FromCtx(ctx).Error("failed to issue otp",
			zap.String("purpose", string(purpose)),
			zap.String("email", email),
			zap.Error(err),
		)
		return "", err
	}

	return code, nil
}

func (s *service) Verify(ctx context.Context, purpose Purpose, email, code string) error {
	rec, err := s.lookup(ctx, purpose, email, code)
	if err != nil {
		return err
	}

	// Single use: consume on success.
	return s.repo.Delete(ctx, purpose, rec.ID)
}

func (s *service) Check(ctx context.Context, purpose Purpose, email, code string) error {
	_, err := s.lookup(ctx, purpose, email, code)
	return err
}

func (s *service) lookup(ctx context.Context, purpose Purpose, email, code string) (*Record, error) {
	rec, err := s.repo.Find(ctx, purpose, email, code)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ErrInvalidOTP
	}

	if rec.ExpiresAt.Before(s.now()) {
		// Expired rows linger until an attempt touches them.
		if delErr := s.repo.Delete(ctx, purpose, rec.ID); delErr != nil {
			logger.FromCtx(ctx).Warn("failed to remove expired otp", zap.Error(delErr))
		}
		return nil, ErrExpiredOTP
	}

	return rec, nil
}
