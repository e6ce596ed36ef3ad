package account

import (
	"context"
	"fmt"
	"time"

	"livemart-be/internal/auth"
	"livemart-be/internal/logger"
	"livemart-be/internal/mail"
	"livemart-be/internal/otp"

	"go.uber.org/zap"
)

type SignupCustomerParams struct {
	Name            string
	Email           string
	Password        string
	DeliveryAddress *string
	City            *string
	State           *string
	Pincode         *string
	PhoneNumber     *string
	Lat             *float64
	Lon             *float64
}

type SignupBusinessParams struct {
	Name                string
	Email               string
	Password            string
	BusinessName        string
	BusinessDescription *string
	PhoneNumber         *string
	TaxID               *string
	Address             string
	City                string
	State               string
	Pincode             string
	Lat                 *float64
	Lon                 *float64
}

type Service interface {
	SignupCustomer(ctx context.Context, params SignupCustomerParams) (*Customer, error)
	SignupBusiness(ctx context.Context, role Role, params SignupBusinessParams) (*Business, error)
	Login(ctx context.Context, role Role, email, password string) (string, error)

	CustomerByEmail(ctx context.Context, email string) (*Customer, error)
	BusinessByEmail(ctx context.Context, role Role, email string) (*Business, error)
	UpdateCustomerName(ctx context.Context, id int64, name string) error
	UpdateCustomerProfilePic(ctx context.Context, id int64, path string) error
	RetailerLocations(ctx context.Context) ([]*RetailerLocation, error)

	VerifyAccount(ctx context.Context, email, code string, roleHint string) (string, Role, error)
	ResendVerification(ctx context.Context, email string) (bool, error)
	ForgotPassword(ctx context.Context, email string) error
	CheckResetOTP(ctx context.Context, email, code string) error
	ResetPassword(ctx context.Context, email, code, newPassword string) error

	LoginWithGoogle(ctx context.Context, email, name string) (string, Role, error)
}

type service struct {
	repo      Repository
	otpSvc    otp.Service
	mailer    mail.Dispatcher
	jwtSecret string
}

func NewService(repo Repository, otpSvc otp.Service, mailer mail.Dispatcher, jwtSecret string) Service {
	return &service{
		repo:      repo,
		otpSvc:    otpSvc,
		mailer:    mailer,
		jwtSecret: jwtSecret,
	}
}

func (s *service) SignupCustomer(ctx context.Context, params SignupCustomerParams) (*Customer, error) {
	log := logger.FromCtx(ctx).With(zap.String("email", params.Email))

	hashed, err := auth.HashPassword(params.Password)
	if err != nil {
		log.Error("failed to hash password", zap.Error(err))
		return nil, err
	}

	c := &Customer{
		Name:            params.Name,
		Email:           params.Email,
		HashedPassword:  hashed,
		DeliveryAddress: params.DeliveryAddress,
		City:            params.City,
		State:           params.State,
		Pincode:         params.Pincode,
		PhoneNumber:     params.PhoneNumber,
		Lat:             params.Lat,
		Lon:             params.Lon,
	}

	created, err := s.repo.CreateCustomer(ctx, c)
	if err != nil {
		log.Error("failed to create customer", zap.Error(err))
		return nil, err
	}

	s.sendVerificationOTP(ctx, created.Email)

	log.Info("customer signed up", zap.Int64("customer_id", created.ID))
	return created, nil
}

func (s *service) SignupBusiness(ctx context.Context, role Role, params SignupBusinessParams) (*Business, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("role", string(role)),
		zap.String("email", params.Email),
	)

	hashed, err := auth.HashPassword(params.Password)
	if err != nil {
		log.Error("failed to hash password", zap.Error(err))
		return nil, err
	}

	b := &Business{
		Name:                params.Name,
		Email:               params.Email,
		HashedPassword:      hashed,
		BusinessName:        params.BusinessName,
		BusinessDescription: params.BusinessDescription,
		PhoneNumber:         params.PhoneNumber,
		TaxID:               params.TaxID,
		Address:             params.Address,
		City:                params.City,
		State:               params.State,
		Pincode:             params.Pincode,
		Lat:                 params.Lat,
		Lon:                 params.Lon,
	}

	created, err := s.repo.CreateBusiness(ctx, role, b)
	if err != nil {
		log.Error("failed to create business account", zap.Error(err))
		return nil, err
	}

	s.sendVerificationOTP(ctx, created.Email)

	log.Info("business signed up", zap.Int64("account_id", created.ID))
	return created, nil
}

func (s *service) sendVerificationOTP(ctx context.Context, email string) {
	code, err := s.otpSvc.Issue(ctx, otp.PurposeVerification, email)
	if err != nil {
		// Signup already succeeded; the user can request a resend.
		logger.FromCtx(ctx).Error("failed to issue verification otp", zap.Error(err))
		return
	}
	s.mailer.Send(email, mail.VerificationSubject(), mail.VerificationBody(code))
}

func (s *service) Login(ctx context.Context, role Role, email, password string) (string, error) {
	hashed, verified, err := s.credentialsFor(ctx, role, email)
	if err != nil {
		return "", err
	}

	if !auth.CheckPasswordHash(password, hashed) {
		return "", ErrInvalidCredentials
	}
	if !verified {
		return "", ErrNotVerified
	}

	return auth.GenerateToken(s.jwtSecret, email, string(role))
}

func (s *service) credentialsFor(ctx context.Context, role Role, email string) (hashed string, verified bool, err error) {
	if role == RoleCustomer {
		c, err := s.repo.FindCustomerByEmail(ctx, email)
		if err != nil {
			return "", false, err
		}
		if c == nil {
			return "", false, ErrInvalidCredentials
		}
		return c.HashedPassword, c.IsVerified, nil
	}

	b, err := s.repo.FindBusinessByEmail(ctx, role, email)
	if err != nil {
		return "", false, err
	}
	if b == nil {
		return "", false, ErrInvalidCredentials
	}
	return b.HashedPassword, b.IsVerified, nil
}

func (s *service) CustomerByEmail(ctx context.Context, email string) (*Customer, error) {
	c, err := s.repo.FindCustomerByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrNotFound
	}
	return c, nil
}

func (s *service) BusinessByEmail(ctx context.Context, role Role, email string) (*Business, error) {
	b, err := s.repo.FindBusinessByEmail(ctx, role, email)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, ErrNotFound
	}
	return b, nil
}

func (s *service) RetailerLocations(ctx context.Context) ([]*RetailerLocation, error) {
	return s.repo.ListRetailerLocations(ctx)
}

func (s *service) UpdateCustomerName(ctx context.Context, id int64, name string) error {
	return s.repo.UpdateCustomerName(ctx, id, name)
}

func (s *service) UpdateCustomerProfilePic(ctx context.Context, id int64, path string) error {
	return s.repo.UpdateCustomerProfilePic(ctx, id, path)
}

// roleForEmail resolves which role table holds the email, preferring
// customer, then retailer, then wholesaler.
func (s *service) roleForEmail(ctx context.Context, email string) (Role, error) {
	c, err := s.repo.FindCustomerByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if c != nil {
		return RoleCustomer, nil
	}

	for _, role := range []Role{RoleRetailer, RoleWholesaler} {
		b, err := s.repo.FindBusinessByEmail(ctx, role, email)
		if err != nil {
			return "", err
		}
		if b != nil {
			return role, nil
		}
	}

	return "", ErrNotFound
}

func (s *service) VerifyAccount(ctx context.Context, email, code string, roleHint string) (string, Role, error) {
	log := logger.FromCtx(ctx).With(zap.String("email", email))

	if err := s.otpSvc.Verify(ctx, otp.PurposeVerification, email, code); err != nil {
		return "", "", err
	}

	touched, err := s.repo.MarkVerified(ctx, email)
	if err != nil {
		return "", "", err
	}
	if !touched {
		return "", "", ErrNotFound
	}

	role := Role(roleHint)
	switch role {
	case RoleCustomer, RoleRetailer, RoleWholesaler:
	default:
		role, err = s.roleForEmail(ctx, email)
		if err != nil {
			return "", "", err
		}
	}

	token, err := auth.GenerateToken(s.jwtSecret, email, string(role))
	if err != nil {
		return "", "", err
	}

	log.Info("account verified", zap.String("role", string(role)))
	return token, role, nil
}

// ResendVerification reissues the verification OTP. Returns true when the
// account is already verified and nothing was sent.
func (s *service) ResendVerification(ctx context.Context, email string) (bool, error) {
	verified, err := s.isVerified(ctx, email)
	if err != nil {
		return false, err
	}
	if verified {
		return true, nil
	}

	code, err := s.otpSvc.Issue(ctx, otp.PurposeVerification, email)
	if err != nil {
		return false, err
	}
	s.mailer.Send(email, mail.VerificationSubject(), mail.VerificationBody(code))
	return false, nil
}

func (s *service) isVerified(ctx context.Context, email string) (bool, error) {
	c, err := s.repo.FindCustomerByEmail(ctx, email)
	if err != nil {
		return false, err
	}
	if c != nil {
		return c.IsVerified, nil
	}

	for _, role := range []Role{RoleRetailer, RoleWholesaler} {
		b, err := s.repo.FindBusinessByEmail(ctx, role, email)
		if err != nil {
			return false, err
		}
		if b != nil {
			return b.IsVerified, nil
		}
	}

	return false, ErrNotFound
}

func (s *service) ForgotPassword(ctx context.Context, email string) error {
	if _, err := s.roleForEmail(ctx, email); err != nil {
		return err
	}

	code, err := s.otpSvc.Issue(ctx, otp.PurposeReset, email)
	if err != nil {
		return err
	}

	s.mailer.Send(email, mail.PasswordResetSubject(), mail.PasswordResetBody(code))
	return nil
}

func (s *service) CheckResetOTP(ctx context.Context, email, code string) error {
	return s.otpSvc.Check(ctx, otp.PurposeReset, email, code)
}

func (s *service) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	if err := s.otpSvc.Verify(ctx, otp.PurposeReset, email, code); err != nil {
		return err
	}

	hashed, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}

	touched, err := s.repo.UpdatePasswordByEmail(ctx, email, hashed)
	if err != nil {
		return err
	}
	if !touched {
		return ErrNotFound
	}

	logger.FromCtx(ctx).Info("password reset", zap.String("email", email))
	return nil
}

// LoginWithGoogle maps an identity-provider email onto the account tables,
// checking retailer then wholesaler before defaulting to customer, and
// creates a customer when no account exists. Provider-backed accounts are
// trusted, so they are auto-verified.
func (s *service) LoginWithGoogle(ctx context.Context, email, name string) (string, Role, error) {
	log := logger.FromCtx(ctx).With(zap.String("email", email))

	role := RoleCustomer
	for _, r := range []Role{RoleRetailer, RoleWholesaler} {
		b, err := s.repo.FindBusinessByEmail(ctx, r, email)
		if err != nil {
			return "", "", err
		}
		if b != nil {
			role = r
			break
		}
	}

	if role == RoleCustomer {
		c, err := s.repo.FindCustomerByEmail(ctx, email)
		if err != nil {
			return "", "", err
		}
		if c == nil {
			// The account never logs in with a password; a random one
			// keeps the column non-empty.
			randomPass, err := auth.HashPassword(email + time.Now().Format(time.RFC3339Nano))
			if err != nil {
				return "", "", err
			}
			if name == "" {
				name = email
			}
			if _, err := s.repo.CreateCustomer(ctx, &Customer{
				Name:           name,
				Email:          email,
				HashedPassword: randomPass,
			}); err != nil {
				return "", "", fmt.Errorf("failed to create customer from google login: %w", err)
			}
			log.Info("customer created from google login")
		}
	}

	if _, err := s.repo.MarkVerified(ctx, email); err != nil {
		return "", "", err
	}

	token, err := auth.GenerateToken(s.jwtSecret, email, string(role))
	if err != nil {
		return "", "", err
	}

	return token, role, nil
}
