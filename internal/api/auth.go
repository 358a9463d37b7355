package api

import (
	"context"
	"net/http"

	"storefront/internal/domain/model"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	Token   string      `json:"token"`
	User    *model.User `json:"user,omitempty"`
	Message string      `json:"message,omitempty"`
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	DOB      string `json:"dob,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

type VerifyOTPRequest struct {
	OTP string `json:"otp"`
}

// POST /user/login
func (c *Client) Login(ctx context.Context, in LoginRequest) (AuthResponse, error) {
	var out AuthResponse
	if err := c.doJSON(ctx, http.MethodPost, "/user/login", "", in, &out); err != nil {
		return AuthResponse{}, err
	}
	return out, nil
}

// POST /users
// 登録直後はトークンだけ返る（プロフィールはOTP確認後）
func (c *Client) Register(ctx context.Context, in RegisterRequest) (AuthResponse, error) {
	var out AuthResponse
	if err := c.doJSON(ctx, http.MethodPost, "/users", "", in, &out); err != nil {
		return AuthResponse{}, err
	}
	return out, nil
}

// POST /user/verify-otp
func (c *Client) VerifyOTP(ctx context.Context, token string, in VerifyOTPRequest) (AuthResponse, error) {
	var out AuthResponse
	if err := c.doJSON(ctx, http.MethodPost, "/user/verify-otp", token, in, &out); err != nil {
		return AuthResponse{}, err
	}
	return out, nil
}
