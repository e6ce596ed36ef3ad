package account

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"livemart-be/internal/auth"
	"livemart-be/internal/otp"
)

const testSecret = "testsecret"

// MockRepository is a mock implementation of the Repository interface
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateCustomer(ctx context.Context, c *Customer) (*Customer, error) {
	args := m.Called(ctx, c)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Customer), args.Error(1)
}

func (m *MockRepository) FindCustomerByEmail(ctx context.Context, email string) (*Customer, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Customer), args.Error(1)
}

func (m *MockRepository) FindCustomerByID(ctx context.Context, id int64) (*Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Customer), args.Error(1)
}

func (m *MockRepository) UpdateCustomerName(ctx context.Context, id int64, name string) error {
	args := m.Called(ctx, id, name)
	return args.Error(0)
}

func (m *MockRepository) UpdateCustomerProfilePic(ctx context.Context, id int64, path string) error {
	args := m.Called(ctx, id, path)
	return args.Error(0)
}

func (m *MockRepository) CreateBusiness(ctx context.Context, role Role, b *Business) (*Business, error) {
	args := m.Called(ctx, role, b)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Business), args.Error(1)
}

func (m *MockRepository) FindBusinessByEmail(ctx context.Context, role Role, email string) (*Business, error) {
	args := m.Called(ctx, role, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Business), args.Error(1)
}

func (m *MockRepository) ListRetailerLocations(ctx context.Context) ([]*RetailerLocation, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*RetailerLocation), args.Error(1)
}

func (m *MockRepository) MarkVerified(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) UpdatePasswordByEmail(ctx context.Context, email, hashedPassword string) (bool, error) {
	args := m.Called(ctx, email, hashedPassword)
	return args.Bool(0), args.Error(1)
}

// MockOTPService mocks otp.Service
type MockOTPService struct {
	mock.Mock
}

func (m *MockOTPService) Issue(ctx context.Context, purpose otp.Purpose, email string) (string, error) {
	args := m.Called(ctx, purpose, email)
	return args.String(0), args.Error(1)
}

func (m *MockOTPService) Verify(ctx context.Context, purpose otp.Purpose, email, code string) error {
	args := m.Called(ctx, purpose, email, code)
	return args.Error(0)
}

func (m *MockOTPService) Check(ctx context.Context, purpose otp.Purpose, email, code string) error {
	args := m.Called(ctx, purpose, email, code)
	return args.Error(0)
}

type recordingDispatcher struct {
	mu   sync.Mutex
	sent []string
}

func (d *recordingDispatcher) Send(recipient, subject, htmlBody string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sent = append(d.sent, recipient)
}

func hashed(t *testing.T, password string) string {
	t.Helper()
	h, err := auth.HashPassword(password)
	require.NoError(t, err)
	return h
}

func TestService_Login(t *testing.T) {
	ctx := context.Background()
	email := "asha@example.com"

	t.Run("Success", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := NewService(mockRepo, new(MockOTPService), &recordingDispatcher{}, testSecret)

		mockRepo.On("FindCustomerByEmail", ctx, email).Return(&Customer{
			ID: 1, Email: email, HashedPassword: hashed(t, "password123"), IsVerified: true,
		}, nil)

		token, err := svc.Login(ctx, RoleCustomer, email, "password123")
		require.NoError(t, err)

		claims, err := auth.ParseToken(testSecret, token)
		require.NoError(t, err)
		assert.Equal(t, email, claims.Email())
		assert.Equal(t, "customer", claims.Role)
	})

	t.Run("WrongPassword", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := NewService(mockRepo, new(MockOTPService), &recordingDispatcher{}, testSecret)

		mockRepo.On("FindCustomerByEmail", ctx, email).Return(&Customer{
			Email: email, HashedPassword: hashed(t, "password123"), IsVerified: true,
		}, nil)

		_, err := svc.Login(ctx, RoleCustomer, email, "nope")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("UnknownEmail", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := NewService(mockRepo, new(MockOTPService), &recordingDispatcher{}, testSecret)

		mockRepo.On("FindCustomerByEmail", ctx, email).Return(nil, nil)

		_, err := svc.Login(ctx, RoleCustomer, email, "password123")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("NotVerified", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := NewService(mockRepo, new(MockOTPService), &recordingDispatcher{}, testSecret)

		mockRepo.On("FindCustomerByEmail", ctx, email).Return(&Customer{
			Email: email, HashedPassword: hashed(t, "password123"), IsVerified: false,
		}, nil)

		_, err := svc.Login(ctx, RoleCustomer, email, "password123")
		assert.ErrorIs(t, err, ErrNotVerified)
	})

	t.Run("RetailerUsesBusinessTable", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := NewService(mockRepo, new(MockOTPService), &recordingDispatcher{}, testSecret)

		mockRepo.On("FindBusinessByEmail", ctx, RoleRetailer, email).Return(&Business{
			Email: email, HashedPassword: hashed(t, "password123"), IsVerified: true,
		}, nil)

		token, err := svc.Login(ctx, RoleRetailer, email, "password123")
		require.NoError(t, err)

		claims, err := auth.ParseToken(testSecret, token)
		require.NoError(t, err)
		assert.Equal(t, "retailer", claims.Role)
	})
}

func TestService_SignupCustomer(t *testing.T) {
	ctx := context.Background()
	params := SignupCustomerParams{Name: "Asha", Email: "asha@example.com", Password: "password123"}

	t.Run("SendsVerificationOTP", func(t *testing.T) {
		mockRepo := new(MockRepository)
		mockOTP := new(MockOTPService)
		mailer := &recordingDispatcher{}
		svc := NewService(mockRepo, mockOTP, mailer, testSecret)

		mockRepo.On("CreateCustomer", ctx, mock.AnythingOfType("*account.Customer")).
			Return(&Customer{ID: 1, Email: params.Email}, nil)
		mockOTP.On("Issue", ctx, otp.PurposeVerification, params.Email).Return("123456", nil)

		c, err := svc.SignupCustomer(ctx, params)
		require.NoError(t, err)
		assert.Equal(t, int64(1), c.ID)
		require.Len(t, mailer.sent, 1)
		assert.Equal(t, params.Email, mailer.sent[0])
	})

	t.Run("DuplicateEmail", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := NewService(mockRepo, new(MockOTPService), &recordingDispatcher{}, testSecret)

		mockRepo.On("CreateCustomer", ctx, mock.Anything).Return(nil, ErrEmailExists)

		_, err := svc.SignupCustomer(ctx, params)
		assert.ErrorIs(t, err, ErrEmailExists)
	})

	t.Run("OTPFailureDoesNotFailSignup", func(t *testing.T) {
		mockRepo := new(MockRepository)
		mockOTP := new(MockOTPService)
		mailer := &recordingDispatcher{}
		svc := NewService(mockRepo, mockOTP, mailer, testSecret)

		mockRepo.On("CreateCustomer", ctx, mock.Anything).
			Return(&Customer{ID: 1, Email: params.Email}, nil)
		mockOTP.On("Issue", ctx, otp.PurposeVerification, params.Email).
			Return("", assert.AnError)

		_, err := svc.SignupCustomer(ctx, params)
		assert.NoError(t, err)
		assert.Empty(t, mailer.sent)
	})
}

func TestService_VerifyAccount(t *testing.T) {
	ctx := context.Background()
	email := "asha@example.com"

	t.Run("Success", func(t *testing.T) {
		mockRepo := new(MockRepository)
		mockOTP := new(MockOTPService)
		svc := NewService(mockRepo, mockOTP, &recordingDispatcher{}, testSecret)

		mockOTP.On("Verify", ctx, otp.PurposeVerification, email, "123456").Return(nil)
		mockRepo.On("MarkVerified", ctx, email).Return(true, nil)

		token, role, err := svc.VerifyAccount(ctx, email, "123456", "customer")
		require.NoError(t, err)
		assert.Equal(t, RoleCustomer, role)

		claims, err := auth.ParseToken(testSecret, token)
		require.NoError(t, err)
		assert.Equal(t, "customer", claims.Role)
	})

	t.Run("ResolvesRoleWithoutHint", func(t *testing.T) {
		mockRepo := new(MockRepository)
		mockOTP := new(MockOTPService)
		svc := NewService(mockRepo, mockOTP, &recordingDispatcher{}, testSecret)

		mockOTP.On("Verify", ctx, otp.PurposeVerification, email, "123456").Return(nil)
		mockRepo.On("MarkVerified", ctx, email).Return(true, nil)
		mockRepo.On("FindCustomerByEmail", ctx, email).Return(nil, nil)
		mockRepo.On("FindBusinessByEmail", ctx, RoleRetailer, email).
			Return(&Business{Email: email}, nil)

		_, role, err := svc.VerifyAccount(ctx, email, "123456", "")
		require.NoError(t, err)
		assert.Equal(t, RoleRetailer, role)
	})

	t.Run("BadOTP", func(t *testing.T) {
		mockRepo := new(MockRepository)
		mockOTP := new(MockOTPService)
		svc := NewService(mockRepo, mockOTP, &recordingDispatcher{}, testSecret)

		mockOTP.On("Verify", ctx, otp.PurposeVerification, email, "000000").
			Return(otp.ErrInvalidOTP)

		_, _, err := svc.VerifyAccount(ctx, email, "000000", "customer")
		assert.ErrorIs(t, err, otp.ErrInvalidOTP)
		mockRepo.AssertNotCalled(t, "MarkVerified", mock.Anything, mock.Anything)
	})

	t.Run("UnknownAccount", func(t *testing.T) {
		mockRepo := new(MockRepository)
		mockOTP := new(MockOTPService)
		svc := NewService(mockRepo, mockOTP, &recordingDispatcher{}, testSecret)

		mockOTP.On("Verify", ctx, otp.PurposeVerification, email, "123456").Return(nil)
		mockRepo.On("MarkVerified", ctx, email).Return(false, nil)

		_, _, err := svc.VerifyAccount(ctx, email, "123456", "customer")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestService_ResetPassword(t *testing.T) {
	ctx := context.Background()
	email := "asha@example.com"

	t.Run("Success", func(t *testing.T) {
		mockRepo := new(MockRepository)
		mockOTP := new(MockOTPService)
		svc := NewService(mockRepo, mockOTP, &recordingDispatcher{}, testSecret)

		mockOTP.On("Verify", ctx, otp.PurposeReset, email, "123456").Return(nil)
		mockRepo.On("UpdatePasswordByEmail", ctx, email, mock.AnythingOfType("string")).
			Return(true, nil)

		err := svc.ResetPassword(ctx, email, "123456", "newpassword")
		assert.NoError(t, err)
	})

	t.Run("ExpiredOTP", func(t *testing.T) {
		mockRepo := new(MockRepository)
		mockOTP := new(MockOTPService)
		svc := NewService(mockRepo, mockOTP, &recordingDispatcher{}, testSecret)

		mockOTP.On("Verify", ctx, otp.PurposeReset, email, "123456").
			Return(otp.ErrExpiredOTP)

		err := svc.ResetPassword(ctx, email, "123456", "newpassword")
		assert.ErrorIs(t, err, otp.ErrExpiredOTP)
		mockRepo.AssertNotCalled(t, "UpdatePasswordByEmail", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestService_ForgotPassword(t *testing.T) {
	ctx := context.Background()
	email := "asha@example.com"

	t.Run("SendsResetOTP", func(t *testing.T) {
		mockRepo := new(MockRepository)
		mockOTP := new(MockOTPService)
		mailer := &recordingDispatcher{}
		svc := NewService(mockRepo, mockOTP, mailer, testSecret)

		mockRepo.On("FindCustomerByEmail", ctx, email).
			Return(&Customer{Email: email}, nil)
		mockOTP.On("Issue", ctx, otp.PurposeReset, email).Return("654321", nil)

		err := svc.ForgotPassword(ctx, email)
		require.NoError(t, err)
		assert.Len(t, mailer.sent, 1)
	})

	t.Run("UnknownEmail", func(t *testing.T) {
		mockRepo := new(MockRepository)
		mockOTP := new(MockOTPService)
		svc := NewService(mockRepo, mockOTP, &recordingDispatcher{}, testSecret)

		mockRepo.On("FindCustomerByEmail", ctx, email).Return(nil, nil)
		mockRepo.On("FindBusinessByEmail", ctx, RoleRetailer, email).Return(nil, nil)
		mockRepo.On("FindBusinessByEmail", ctx, RoleWholesaler, email).Return(nil, nil)

		err := svc.ForgotPassword(ctx, email)
		assert.ErrorIs(t, err, ErrNotFound)
		mockOTP.AssertNotCalled(t, "Issue", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestService_LoginWithGoogle(t *testing.T) {
	ctx := context.Background()
	email := "asha@example.com"

	t.Run("ExistingRetailerWins", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := NewService(mockRepo, new(MockOTPService), &recordingDispatcher{}, testSecret)

		mockRepo.On("FindBusinessByEmail", ctx, RoleRetailer, email).
			Return(&Business{Email: email}, nil)
		mockRepo.On("MarkVerified", ctx, email).Return(true, nil)

		_, role, err := svc.LoginWithGoogle(ctx, email, "Asha")
		require.NoError(t, err)
		assert.Equal(t, RoleRetailer, role)
		mockRepo.AssertNotCalled(t, "FindCustomerByEmail", mock.Anything, mock.Anything)
	})

	t.Run("CreatesCustomerWhenUnknown", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := NewService(mockRepo, new(MockOTPService), &recordingDispatcher{}, testSecret)

		mockRepo.On("FindBusinessByEmail", ctx, RoleRetailer, email).Return(nil, nil)
		mockRepo.On("FindBusinessByEmail", ctx, RoleWholesaler, email).Return(nil, nil)
		mockRepo.On("FindCustomerByEmail", ctx, email).Return(nil, nil)
		mockRepo.On("CreateCustomer", ctx, mock.MatchedBy(func(c *Customer) bool {
			return c.Email == email && c.Name == "Asha" && c.HashedPassword != ""
		})).Return(&Customer{ID: 1, Email: email}, nil)
		mockRepo.On("MarkVerified", ctx, email).Return(true, nil)

		token, role, err := svc.LoginWithGoogle(ctx, email, "Asha")
		require.NoError(t, err)
		assert.Equal(t, RoleCustomer, role)

		claims, err := auth.ParseToken(testSecret, token)
		require.NoError(t, err)
		assert.Equal(t, "customer", claims.Role)
	})

	t.Run("ExistingCustomerNotRecreated", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := NewService(mockRepo, new(MockOTPService), &recordingDispatcher{}, testSecret)

		mockRepo.On("FindBusinessByEmail", ctx, RoleRetailer, email).Return(nil, nil)
		mockRepo.On("FindBusinessByEmail", ctx, RoleWholesaler, email).Return(nil, nil)
		mockRepo.On("FindCustomerByEmail", ctx, email).
			Return(&Customer{ID: 1, Email: email}, nil)
		mockRepo.On("MarkVerified", ctx, email).Return(true, nil)

		_, role, err := svc.LoginWithGoogle(ctx, email, "Asha")
		require.NoError(t, err)
		assert.Equal(t, RoleCustomer, role)
		mockRepo.AssertNotCalled(t, "CreateCustomer", mock.Anything, mock.Anything)
	})
}
