package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"livemart-be/internal/account"
	"livemart-be/internal/logger"
	"livemart-be/internal/middleware"
	"livemart-be/internal/otp"
	"livemart-be/internal/transport"
)

func parseRole(r *http.Request) (account.Role, bool) {
	switch chi.URLParam(r, "role") {
	case "customer":
		return account.RoleCustomer, true
	case "retailer":
		return account.RoleRetailer, true
	case "wholesaler":
		return account.RoleWholesaler, true
	}
	return "", false
}

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`

	DeliveryAddress *string  `json:"delivery_address"`
	PhoneNumber     *string  `json:"phone_number"`
	Lat             *float64 `json:"lat"`
	Lon             *float64 `json:"lon"`

	BusinessName        string  `json:"business_name"`
	BusinessDescription *string `json:"business_description"`
	TaxID               *string `json:"tax_id"`
	Address             string  `json:"address"`
	City                string  `json:"city"`
	State               string  `json:"state"`
	Pincode             string  `json:"pincode"`
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	role, ok := parseRole(r)
	if !ok {
		transport.WriteError(w, http.StatusNotFound, "unknown role")
		return
	}

	var req signupRequest
	if err := transport.DecodeJSON(r, &req); err != nil {
		transport.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		transport.WriteError(w, http.StatusBadRequest, "name, email and password are required")
		return
	}

	var err error
	if role == account.RoleCustomer {
		var city, state, pincode *string
		if req.City != "" {
			city = &req.City
		}
		if req.State != "" {
			state = &req.State
		}
		if req.Pincode != "" {
			pincode = &req.Pincode
		}
		_, err = s.accounts.SignupCustomer(r.Context(), account.SignupCustomerParams{
			Name:            req.Name,
			Email:           req.Email,
			Password:        req.Password,
			DeliveryAddress: req.DeliveryAddress,
			City:            city,
			State:           state,
			Pincode:         pincode,
			PhoneNumber:     req.PhoneNumber,
			Lat:             req.Lat,
			Lon:             req.Lon,
		})
	} else {
		if req.BusinessName == "" || req.Address == "" {
			transport.WriteError(w, http.StatusBadRequest, "business_name and address are required")
			return
		}
		_, err = s.accounts.SignupBusiness(r.Context(), role, account.SignupBusinessParams{
			Name:                req.Name,
			Email:               req.Email,
			Password:            req.Password,
			BusinessName:        req.BusinessName,
			BusinessDescription: req.BusinessDescription,
			PhoneNumber:         req.PhoneNumber,
			TaxID:               req.TaxID,
			Address:             req.Address,
			City:                req.City,
			State:               req.State,
			Pincode:             req.Pincode,
			Lat:                 req.Lat,
			Lon:                 req.Lon,
		})
	}

	if errors.Is(err, account.ErrEmailExists) {
		transport.WriteError(w, http.StatusConflict, "email already registered")
		return
	}
	if err != nil {
		logger.FromCtx(r.Context()).Error("signup", zap.Error(err))
		transport.WriteError(w, http.StatusInternalServerError, "could not create account")
		return
	}

	transport.WriteJSON(w, http.StatusCreated, map[string]string{
		"message": "Account created. A verification OTP has been sent to your email.",
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	role, ok := parseRole(r)
	if !ok {
		transport.WriteError(w, http.StatusNotFound, "unknown role")
		return
	}

	var req loginRequest
	if err := transport.DecodeJSON(r, &req); err != nil {
		transport.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, err := s.accounts.Login(r.Context(), role, req.Email, req.Password)
	switch {
	case errors.Is(err, account.ErrInvalidCredentials):
		transport.WriteError(w, http.StatusUnauthorized, "incorrect email or password")
		return
	case errors.Is(err, account.ErrNotVerified):
		transport.WriteError(w, http.StatusForbidden, "account not verified")
		return
	case err != nil:
		logger.FromCtx(r.Context()).Error("login", zap.Error(err))
		transport.WriteError(w, http.StatusInternalServerError, "could not log in")
		return
	}

	transport.WriteJSON(w, http.StatusOK, map[string]string{
		"access_token": token,
		"token_type":   "bearer",
	})
}

type verifyAccountRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
	Role  string `json:"role"`
}

func (s *Server) handleVerifyAccount(w http.ResponseWriter, r *http.Request) {
	var req verifyAccountRequest
	if err := transport.DecodeJSON(r, &req); err != nil {
		transport.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, role, err := s.accounts.VerifyAccount(r.Context(), req.Email, req.OTP, req.Role)
	if err != nil {
		writeOTPError(w, r, err, "could not verify account")
		return
	}

	transport.WriteJSON(w, http.StatusOK, map[string]string{
		"message":      "Account verified successfully",
		"access_token": token,
		"token_type":   "bearer",
		"role":         string(role),
	})
}

type emailRequest struct {
	Email string `json:"email"`
}

func (s *Server) handleResendVerification(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if err := transport.DecodeJSON(r, &req); err != nil {
		transport.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	alreadyVerified, err := s.accounts.ResendVerification(r.Context(), req.Email)
	if errors.Is(err, account.ErrNotFound) {
		transport.WriteError(w, http.StatusNotFound, "account not found")
		return
	}
	if err != nil {
		logger.FromCtx(r.Context()).Error("resend verification", zap.Error(err))
		transport.WriteError(w, http.StatusInternalServerError, "could not resend OTP")
		return
	}
	if alreadyVerified {
		transport.WriteJSON(w, http.StatusOK, map[string]string{"message": "Account is already verified"})
		return
	}
	transport.WriteJSON(w, http.StatusOK, map[string]string{"message": "A new OTP has been sent to your email"})
}

func (s *Server) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if err := transport.DecodeJSON(r, &req); err != nil {
		transport.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.accounts.ForgotPassword(r.Context(), req.Email); err != nil {
		if errors.Is(err, account.ErrNotFound) {
			transport.WriteError(w, http.StatusNotFound, "account not found")
			return
		}
		logger.FromCtx(r.Context()).Error("forgot password", zap.Error(err))
		transport.WriteError(w, http.StatusInternalServerError, "could not send reset OTP")
		return
	}
	transport.WriteJSON(w, http.StatusOK, map[string]string{"message": "A password reset OTP has been sent to your email"})
}

type otpRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

func (s *Server) handleVerifyResetOTP(w http.ResponseWriter, r *http.Request) {
	var req otpRequest
	if err := transport.DecodeJSON(r, &req); err != nil {
		transport.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.accounts.CheckResetOTP(r.Context(), req.Email, req.OTP); err != nil {
		writeOTPError(w, r, err, "could not verify OTP")
		return
	}
	transport.WriteJSON(w, http.StatusOK, map[string]string{"message": "OTP verified"})
}

type resetPasswordRequest struct {
	Email       string `json:"email"`
	OTP         string `json:"otp"`
	NewPassword string `json:"new_password"`
}

func (s *Server) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := transport.DecodeJSON(r, &req); err != nil {
		transport.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.NewPassword == "" {
		transport.WriteError(w, http.StatusBadRequest, "new_password is required")
		return
	}

	if err := s.accounts.ResetPassword(r.Context(), req.Email, req.OTP, req.NewPassword); err != nil {
		writeOTPError(w, r, err, "could not reset password")
		return
	}
	transport.WriteJSON(w, http.StatusOK, map[string]string{"message": "Password reset successfully"})
}

func writeOTPError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	switch {
	case errors.Is(err, otp.ErrExpiredOTP):
		transport.WriteError(w, http.StatusBadRequest, "OTP has expired")
	case errors.Is(err, otp.ErrInvalidOTP):
		transport.WriteError(w, http.StatusBadRequest, "invalid OTP")
	case errors.Is(err, account.ErrNotFound):
		transport.WriteError(w, http.StatusNotFound, "account not found")
	default:
		logger.FromCtx(r.Context()).Error("otp flow", zap.Error(err))
		transport.WriteError(w, http.StatusInternalServerError, fallback)
	}
}

const oauthStateCookie = "oauth_state"

func (s *Server) handleGoogleLogin(w http.ResponseWriter, r *http.Request) {
	state := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/",
		Expires:  time.Now().Add(10 * time.Minute),
		HttpOnly: true,
	})
	http.Redirect(w, r, s.google.AuthURL(state), http.StatusTemporaryRedirect)
}

func (s *Server) handleGoogleCallback(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(oauthStateCookie)
	if err != nil || cookie.Value == "" || cookie.Value != r.URL.Query().Get("state") {
		transport.WriteError(w, http.StatusBadRequest, "invalid oauth state")
		return
	}

	info, err := s.google.Exchange(r.Context(), r.URL.Query().Get("code"))
	if err != nil {
		logger.FromCtx(r.Context()).Error("google exchange", zap.Error(err))
		transport.WriteError(w, http.StatusBadGateway, "could not authenticate with Google")
		return
	}

	token, role, err := s.accounts.LoginWithGoogle(r.Context(), info.Email, info.Name)
	if err != nil {
		logger.FromCtx(r.Context()).Error("google login", zap.Error(err))
		transport.WriteError(w, http.StatusInternalServerError, "could not log in")
		return
	}

	transport.WriteJSON(w, http.StatusOK, map[string]string{
		"access_token": token,
		"token_type":   "bearer",
		"role":         string(role),
	})
}

func (s *Server) handleCustomerMe(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		transport.WriteError(w, http.StatusUnauthorized, "Could not validate credentials")
		return
	}

	c, err := s.accounts.CustomerByEmail(r.Context(), claims.Email())
	if errors.Is(err, account.ErrNotFound) {
		transport.WriteError(w, http.StatusNotFound, "account not found")
		return
	}
	if err != nil {
		logger.FromCtx(r.Context()).Error("load customer", zap.Error(err))
		transport.WriteError(w, http.StatusInternalServerError, "could not load profile")
		return
	}
	transport.WriteJSON(w, http.StatusOK, c)
}

func (s *Server) handleRetailerMe(w http.ResponseWriter, r *http.Request) {
	s.handleBusinessMe(w, r, account.RoleRetailer)
}

func (s *Server) handleWholesalerMe(w http.ResponseWriter, r *http.Request) {
	s.handleBusinessMe(w, r, account.RoleWholesaler)
}

func (s *Server) handleBusinessMe(w http.ResponseWriter, r *http.Request, role account.Role) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		transport.WriteError(w, http.StatusUnauthorized, "Could not validate credentials")
		return
	}

	b, err := s.accounts.BusinessByEmail(r.Context(), role, claims.Email())
	if errors.Is(err, account.ErrNotFound) {
		transport.WriteError(w, http.StatusNotFound, "account not found")
		return
	}
	if err != nil {
		logger.FromCtx(r.Context()).Error("load business", zap.Error(err))
		transport.WriteError(w, http.StatusInternalServerError, "could not load profile")
		return
	}
	transport.WriteJSON(w, http.StatusOK, b)
}

type updateCustomerRequest struct {
	Name *string `json:"name"`
}

func (s *Server) handleUpdateCustomer(w http.ResponseWriter, r *http.Request) {
	c, ok := s.currentCustomer(w, r)
	if !ok {
		return
	}

	var req updateCustomerRequest
	if err := transport.DecodeJSON(r, &req); err != nil {
		transport.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == nil || *req.Name == "" {
		transport.WriteError(w, http.StatusBadRequest, "name is required")
		return
	}

	if err := s.accounts.UpdateCustomerName(r.Context(), c.ID, *req.Name); err != nil {
		logger.FromCtx(r.Context()).Error("update customer", zap.Error(err))
		transport.WriteError(w, http.StatusInternalServerError, "could not update profile")
		return
	}
	c.Name = *req.Name
	transport.WriteJSON(w, http.StatusOK, c)
}

func (s *Server) handleUploadProfilePicture(w http.ResponseWriter, r *http.Request) {
	c, ok := s.currentCustomer(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	url, err := saveUpload(r, "file", s.cfg.ProfilePictureDir, "/profile_pictures")
	if err != nil {
		transport.WriteError(w, http.StatusBadRequest, "could not read uploaded file")
		return
	}
	if url == nil {
		transport.WriteError(w, http.StatusBadRequest, "file is required")
		return
	}

	if err := s.accounts.UpdateCustomerProfilePic(r.Context(), c.ID, *url); err != nil {
		logger.FromCtx(r.Context()).Error("update profile picture", zap.Error(err))
		transport.WriteError(w, http.StatusInternalServerError, "could not update profile picture")
		return
	}
	transport.WriteJSON(w, http.StatusOK, map[string]string{"profile_pic": *url})
}

// currentCustomer resolves the authenticated customer or writes the
// error response itself.
func (s *Server) currentCustomer(w http.ResponseWriter, r *http.Request) (*account.Customer, bool) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		transport.WriteError(w, http.StatusUnauthorized, "Could not validate credentials")
		return nil, false
	}
	c, err := s.accounts.CustomerByEmail(r.Context(), claims.Email())
	if errors.Is(err, account.ErrNotFound) {
		transport.WriteError(w, http.StatusNotFound, "account not found")
		return nil, false
	}
	if err != nil {
		logger.FromCtx(r.Context()).Error("load customer", zap.Error(err))
		transport.WriteError(w, http.StatusInternalServerError, "could not load profile")
		return nil, false
	}
	return c, true
}

func (s *Server) currentBusiness(w http.ResponseWriter, r *http.Request, role account.Role) (*account.Business, bool) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		transport.WriteError(w, http.StatusUnauthorized, "Could not validate credentials")
		return nil, false
	}
	b, err := s.accounts.BusinessByEmail(r.Context(), role, claims.Email())
	if errors.Is(err, account.ErrNotFound) {
		transport.WriteError(w, http.StatusNotFound, "account not found")
		return nil, false
	}
	if err != nil {
		logger.FromCtx(r.Context()).Error("load business", zap.Error(err))
		transport.WriteError(w, http.StatusInternalServerError, "could not load profile")
		return nil, false
	}
	return b, true
}
