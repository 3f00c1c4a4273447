package api

import (
	"context"
	"errors"
	"fmt"

	"github.com/nhle/tasko/internal/model"
)

const (
	currentUserPath   = "/useraccounts/api/user/me/"
	loginPath         = "/useraccounts/api/user/login/"
	logoutPath        = "/useraccounts/api/user/logout/"
	sendOTPPath       = "/useraccounts/api/auth/send-otp/"
	verifyOTPPath     = "/useraccounts/api/auth/verify-otp/"
	resendOTPPath     = "/useraccounts/api/auth/resend-otp/"
	completeSignupURL = "/useraccounts/api/auth/complete-signup/"
	forgotSendPath    = "/useraccounts/api/auth/forgot-password/send-otp/"
	forgotVerifyPath  = "/useraccounts/api/auth/forgot-password/verify-otp/"
	forgotResendPath  = "/useraccounts/api/auth/forgot-password/resend-otp/"
	resetPasswordPath = "/useraccounts/api/auth/reset-password/"
)

// Session is the identity endpoint's answer.
type Session struct {
	Authenticated bool       `json:"authenticated"`
	User          model.User `json:"user"`
}

// AuthResult is the {success, message, error} envelope returned by the
// account endpoints.
type AuthResult struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Error   string      `json:"error"`
	User    *model.User `json:"user,omitempty"`
}

// SignupRequest starts an account registration.
type SignupRequest struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"password"`
}

// CompleteSignupRequest finishes a registration after the OTP is verified.
type CompleteSignupRequest struct {
	Email           string `json:"email"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// CurrentUser asks the server who owns the session. An unauthenticated
// session yields an *AuthError.
func (c *Client) CurrentUser(ctx context.Context) (*Session, error) {
	var s Session
	if err := c.Get(ctx, currentUserPath, &s); err != nil {
		return nil, fmt.Errorf("checking session: %w", err)
	}
	if !s.Authenticated {
		return nil, &AuthError{Status: 401, Message: "not authenticated"}
	}
	return &s, nil
}

// Login opens a session for the given credentials.
func (c *Client) Login(ctx context.Context, email, password string) (*model.User, error) {
	body := map[string]string{"email": email, "password": password}
	res, err := c.account(ctx, loginPath, body)
	if err != nil {
		return nil, fmt.Errorf("logging in: %w", err)
	}
	if res.User == nil {
		return &model.User{Email: email}, nil
	}
	return res.User, nil
}

// Logout ends the session.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.Post(ctx, logoutPath, nil, nil); err != nil {
		return fmt.Errorf("logging out: %w", err)
	}
	return nil
}

// SendOTP starts a signup by mailing a one-time code to req.Email.
func (c *Client) SendOTP(ctx context.Context, req SignupRequest) (*AuthResult, error) {
	return c.account(ctx, sendOTPPath, req)
}

// VerifyOTP checks the signup code.
func (c *Client) VerifyOTP(ctx context.Context, email, otp string) (*AuthResult, error) {
	return c.account(ctx, verifyOTPPath, map[string]string{"email": email, "otp": otp})
}

// ResendOTP mails a fresh signup code.
func (c *Client) ResendOTP(ctx context.Context, email string) (*AuthResult, error) {
	return c.account(ctx, resendOTPPath, map[string]string{"email": email})
}

// CompleteSignup creates the account once the code is verified.
func (c *Client) CompleteSignup(ctx context.Context, req CompleteSignupRequest) (*AuthResult, error) {
	return c.account(ctx, completeSignupURL, req)
}

// ForgotPasswordSendOTP mails a password reset code.
func (c *Client) ForgotPasswordSendOTP(ctx context.Context, email string) (*AuthResult, error) {
	return c.account(ctx, forgotSendPath, map[string]string{"email": email})
}

// ForgotPasswordVerifyOTP checks the password reset code.
func (c *Client) ForgotPasswordVerifyOTP(ctx context.Context, email, otp string) (*AuthResult, error) {
	return c.account(ctx, forgotVerifyPath, map[string]string{"email": email, "otp": otp})
}

// ForgotPasswordResendOTP mails a fresh password reset code.
func (c *Client) ForgotPasswordResendOTP(ctx context.Context, email string) (*AuthResult, error) {
	return c.account(ctx, forgotResendPath, map[string]string{"email": email})
}

// ResetPassword sets a new password after the reset code is verified.
func (c *Client) ResetPassword(ctx context.Context, email, password, confirm string) (*AuthResult, error) {
	body := map[string]string{
		"email":            email,
		"password":         password,
		"confirm_password": confirm,
	}
	return c.account(ctx, resetPasswordPath, body)
}

// account posts to an account endpoint. Those endpoints take their CSRF
// token from the CSRF endpoint rather than relying on an existing cookie.
func (c *Client) account(ctx context.Context, path string, body interface{}) (*AuthResult, error) {
	if _, err := c.FetchCSRFToken(ctx); err != nil {
		return nil, err
	}

	var res AuthResult
	if err := c.Post(ctx, path, body, &res); err != nil {
		return nil, err
	}
	if !res.Success {
		msg := res.Error
		if msg == "" {
			msg = res.Message
		}
		if msg == "" {
			return nil, errors.New("request was not accepted")
		}
		return nil, &FieldErrors{Message: msg, Fields: map[string][]string{}}
	}
	return &res, nil
}
