package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"storefront/internal/api"
	"storefront/internal/domain/model"
)

// usecaseがValidatorInterfaceに依存する約束
type AuthValidator interface {
	ValidateLogin(email string, password string) error
	ValidateRegister(in RegisterInput) error
	ValidateOTP(otp string) error
}

// リモートの認証API
type AuthAPI interface {
	Login(ctx context.Context, in api.LoginRequest) (api.AuthResponse, error)
	Register(ctx context.Context, in api.RegisterRequest) (api.AuthResponse, error)
	VerifyOTP(ctx context.Context, token string, in api.VerifyOTPRequest) (api.AuthResponse, error)
}

type LoginInput struct {
	Email    string
	Password string
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	DOB      string
	Phone    string
}

// handlerがJSONにして返す
type AuthResult struct {
	User    *model.User `json:"user,omitempty"`
	Message string      `json:"message"`
	Next    string      `json:"next"`
}

type AuthUsecase struct {
	remote    AuthAPI
	validator AuthValidator
	session   *SessionUsecase
	cart      *CartUsecase
	checkout  *CheckoutUsecase
}

func NewAuthUsecase(remote AuthAPI, validator AuthValidator, session *SessionUsecase, cart *CartUsecase, checkout *CheckoutUsecase) *AuthUsecase {
	return &AuthUsecase{
		remote:    remote,
		validator: validator,
		session:   session,
		cart:      cart,
		checkout:  checkout,
	}
}

// リモートが未登録を表すメッセージ
var notRegisteredMessages = map[string]bool{
	"User not found":      true,
	"User does not exist": true,
}

func (u *AuthUsecase) Login(ctx context.Context, in LoginInput) (AuthResult, error) {
	in.Email = strings.TrimSpace(in.Email)
	if err := u.validator.ValidateLogin(in.Email, in.Password); err != nil {
		return AuthResult{}, validationError(err)
	}

	out, err := u.remote.Login(ctx, api.LoginRequest{Email: in.Email, Password: in.Password})
	if err != nil {
		return AuthResult{}, loginError(err)
	}
	if out.Token == "" || out.User == nil {
		return AuthResult{}, &HTTPError{Status: http.StatusBadGateway, Message: "invalid login response", Err: ErrRemote}
	}

	next, err := u.session.Establish(ctx, model.Session{Token: out.Token, User: *out.User})
	if err != nil {
		return AuthResult{}, err
	}

	return AuthResult{User: out.User, Message: "Login successful!", Next: next}, nil
}

func loginError(err error) error {
	ae, ok := api.AsAPIError(err)
	if !ok {
		return remoteError(err)
	}
	switch {
	case notRegisteredMessages[ae.Message]:
		return &HTTPError{
			Status:  http.StatusNotFound,
			Message: "User not registered. Please sign up first.",
			Next:    DestRegister,
			Err:     fmt.Errorf("%w: %w", ErrNotRegistered, err),
		}
	case ae.Message == "Invalid password":
		return &HTTPError{
			Status:  http.StatusUnauthorized,
			Message: "Invalid password",
			Err:     fmt.Errorf("%w: %w", ErrInvalidCredentials, err),
		}
	}
	return remoteError(err)
}

// Register は登録してtokenだけ保存する。プロフィールはOTP確認後。
func (u *AuthUsecase) Register(ctx context.Context, in RegisterInput) (AuthResult, error) {
	in.Email = strings.TrimSpace(in.Email)
	in.Name = strings.TrimSpace(in.Name)
	if err := u.validator.ValidateRegister(in); err != nil {
		return AuthResult{}, validationError(err)
	}

	out, err := u.remote.Register(ctx, api.RegisterRequest{
		Name:     in.Name,
		Email:    in.Email,
		Password: in.Password,
		DOB:      in.DOB,
		Phone:    in.Phone,
	})
	if err != nil {
		return AuthResult{}, remoteError(err)
	}
	if out.Token == "" {
		return AuthResult{}, &HTTPError{Status: http.StatusBadGateway, Message: "Registration failed", Err: ErrRemote}
	}

	if err := u.session.StorePendingToken(ctx, out.Token); err != nil {
		return AuthResult{}, err
	}

	return AuthResult{Message: "Registration successful! Please verify your email.", Next: DestVerifyOTP}, nil
}

// VerifyOTP は登録時のtokenでOTPを確認する。
// プロフィールが返ればそのままログイン、返らなければログイン画面へ。
func (u *AuthUsecase) VerifyOTP(ctx context.Context, otp string) (AuthResult, error) {
	otp = strings.TrimSpace(otp)
	if err := u.validator.ValidateOTP(otp); err != nil {
		return AuthResult{}, validationError(err)
	}

	token, ok := u.session.PendingToken(ctx)
	if !ok {
		return AuthResult{}, &HTTPError{
			Status:  http.StatusUnauthorized,
			Message: "please register first",
			Next:    DestRegister,
			Err:     ErrLoginRequired,
		}
	}

	out, err := u.remote.VerifyOTP(ctx, token, api.VerifyOTPRequest{OTP: otp})
	if err != nil {
		if errors.Is(err, api.ErrAuthRejected) {
			return AuthResult{}, u.session.RemoteError(ctx, err)
		}
		return AuthResult{}, remoteError(err)
	}

	if out.User == nil {
		return AuthResult{Message: "Email verified. Please login.", Next: DestLogin}, nil
	}
	if out.Token != "" {
		token = out.Token
	}

	next, err := u.session.Establish(ctx, model.Session{Token: token, User: *out.User})
	if err != nil {
		return AuthResult{}, err
	}
	return AuthResult{User: out.User, Message: "Email verified", Next: next}, nil
}

// Logout はセッション・保留中の意図・カート・今すぐ購入の受け渡しを消す。
func (u *AuthUsecase) Logout(ctx context.Context) (AuthResult, error) {
	serr := u.session.Logout(ctx)
	_, cerr := u.cart.Clear(ctx)
	derr := u.checkout.Discard(ctx)
	if err := errors.Join(serr, cerr, derr); err != nil {
		return AuthResult{}, err
	}
	return AuthResult{Message: "Logged out successfully", Next: DestLogin}, nil
}

func (u *AuthUsecase) Me(ctx context.Context) (model.User, error) {
	sess, err := u.session.Require(ctx, "not logged in")
	if err != nil {
		return model.User{}, err
	}
	return sess.User, nil
}
