// Package account drives login, signup, OTP verification and logout against
// the backend and keeps the session's credential store in step.
package account

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"storefront/internal/apiclient"
	"storefront/internal/credentials"
)

const (
	genericMessage = "Something went wrong"
	otpLength      = 6
)

type LoginForm struct {
	Email    string `form:"email" json:"email" binding:"required"`
	Password string `form:"password" json:"password" binding:"required"`
}

type SignupForm struct {
	Name     string `form:"name" json:"name" binding:"required"`
	Email    string `form:"email" json:"email" binding:"required,contains=@"`
	Password string `form:"password" json:"password" binding:"required,min=6"`
	Phone    string `form:"phone" json:"phone" binding:"required,len=10,numeric"`
}

type OTPForm struct {
	Email string `form:"email" json:"email" binding:"required"`
	OTP   string `form:"otp" json:"otp" binding:"required"`
}

// Result is a successful backend answer.
type Result struct {
	Token   string
	Message string
}

type authResponse struct {
	Token   string `json:"token"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Data    *struct {
		Token string `json:"token"`
	} `json:"data"`
}

func (r authResponse) token() string {
	if r.Token != "" {
		return r.Token
	}
	if r.Data != nil {
		return r.Data.Token
	}
	return ""
}

type Service struct {
	client apiclient.Doer
	creds  credentials.Store
}

func NewService(client apiclient.Doer, creds credentials.Store) *Service {
	return &Service{client: client, creds: creds}
}

// Login signs in. An unverified account yields a KindNotVerified error so
// the page can switch to OTP entry.
func (s *Service) Login(ctx context.Context, form LoginForm) (Result, error) {
	form.Email = strings.ToLower(strings.TrimSpace(form.Email))
	return s.submit(ctx, "login", apiclient.EndpointLogin, form, "Login failed")
}

// Signup registers the account; the backend then sends an OTP.
func (s *Service) Signup(ctx context.Context, form SignupForm) (Result, error) {
	form.Name = strings.TrimSpace(form.Name)
	form.Email = strings.TrimSpace(form.Email)
	result, err := s.submit(ctx, "signup", apiclient.EndpointSignup, form, "Signup failed")
	if err == nil && result.Message == "" {
		result.Message = "OTP sent to your phone/email"
	}
	return result, err
}

// VerifyOTP confirms the code sent after signup or an unverified login.
func (s *Service) VerifyOTP(ctx context.Context, form OTPForm) (Result, error) {
	form.OTP = SanitizeOTP(form.OTP)
	if len(form.OTP) != otpLength {
		return Result{}, &Error{Kind: KindInvalidInput, Message: "Enter 6-digit OTP"}
	}
	result, err := s.submit(ctx, "verify otp", apiclient.EndpointVerifyOTP, form, "Invalid OTP")
	if err == nil {
		result.Message = "Account verified!"
	}
	return result, err
}

// Logout ends the backend session. Credentials are only dropped when the
// backend confirms.
func (s *Service) Logout(ctx context.Context) error {
	res, err := s.client.Do(ctx, http.MethodGet, apiclient.EndpointLogout, nil, nil)
	if err != nil {
		log.Println("[ACCOUNT] [ERROR] logout failed:", err)
		return &Error{Kind: KindTransport, Message: genericMessage, Err: err}
	}
	apiclient.Drain(res)
	if !apiclient.OK(res) {
		log.Printf("[ACCOUNT] [ERROR] logout returned status %d", res.StatusCode)
		return &Error{Kind: KindRejected, Message: "Logout failed"}
	}

	if err := s.creds.Delete(ctx); err != nil {
		log.Println("[ACCOUNT] [ERROR] credential delete failed:", err)
		return &Error{Kind: KindUnexpected, Message: genericMessage, Err: err}
	}
	log.Println("[ACCOUNT] [INFO] logged out")
	return nil
}

func (s *Service) submit(ctx context.Context, op, endpoint string, body any, rejectedMessage string) (Result, error) {
	res, err := s.client.Do(ctx, http.MethodPost, endpoint, body, nil)
	if err != nil {
		log.Printf("[ACCOUNT] [ERROR] %s failed: %v", op, err)
		return Result{}, &Error{Kind: KindTransport, Message: genericMessage, Err: err}
	}

	var payload authResponse
	decodeErr := apiclient.DecodeJSON(res, &payload)

	var statusErr *apiclient.StatusError
	if errors.As(decodeErr, &statusErr) {
		_ = json.Unmarshal(statusErr.Body, &payload)
		kind := classify(payload.Code, payload.Message)
		message := payload.Message
		if message == "" {
			message = rejectedMessage
		}
		log.Printf("[ACCOUNT] [ERROR] %s rejected status=%d kind=%s", op, statusErr.StatusCode, kind)
		return Result{}, &Error{Kind: kind, Message: message, Err: decodeErr}
	}
	if decodeErr != nil {
		log.Printf("[ACCOUNT] [ERROR] %s response unreadable: %v", op, decodeErr)
		return Result{}, &Error{Kind: KindUnexpected, Message: genericMessage, Err: decodeErr}
	}

	token := payload.token()
	if token == "" && classify(payload.Code, payload.Message) == KindNotVerified {
		log.Printf("[ACCOUNT] [INFO] %s needs otp verification", op)
		return Result{}, &Error{Kind: KindNotVerified, Message: payload.Message}
	}
	if token != "" {
		if err := s.creds.Save(ctx, token); err != nil {
			log.Printf("[ACCOUNT] [ERROR] %s token not persisted: %v", op, err)
			return Result{}, &Error{Kind: KindUnexpected, Message: genericMessage, Err: err}
		}
	}

	log.Printf("[ACCOUNT] [INFO] %s succeeded", op)
	return Result{Token: token, Message: payload.Message}, nil
}

// SanitizeOTP keeps digits only, at most six of them.
func SanitizeOTP(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r < '0' || r > '9' {
			continue
		}
		b.WriteRune(r)
		if b.Len() == otpLength {
			break
		}
	}
	return b.String()
}
