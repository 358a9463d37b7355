package validator

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"

	"storefront/internal/usecase"
)

var (
	emailPattern   = regexp.MustCompile(`\S+@\S+\.\S+`)
	upperPattern   = regexp.MustCompile(`[A-Z]`)
	lowerPattern   = regexp.MustCompile(`[a-z]`)
	digitPattern   = regexp.MustCompile(`\d`)
	specialPattern = regexp.MustCompile(`[!@#$%^&*(),.?":{}|<>]`)
	otpPattern     = regexp.MustCompile(`^\d{4,8}$`)
)

// 入力エラー（メッセージはそのまま画面に出す）
var (
	ErrEmailRequired      = errors.New("Email is required")
	ErrEmailInvalid       = errors.New("Email is invalid")
	ErrPasswordRequired   = errors.New("Password is required")
	ErrLoginPasswordShort = errors.New("Password must be at least 6 characters")
	ErrNameRequired       = errors.New("Name is required")
	ErrPasswordShort      = errors.New("Password must be at least 8 characters long")
	ErrPasswordNoUpper    = errors.New("Password must contain at least one uppercase letter")
	ErrPasswordNoLower    = errors.New("Password must contain at least one lowercase letter")
	ErrPasswordNoNumber   = errors.New("Password must contain at least one number")
	ErrPasswordNoSpecial  = errors.New("Password must contain at least one special character")
	ErrOTPInvalid         = errors.New("Please enter a valid OTP")
)

type authValidator struct{}

// Usecaseは interface を依存注入
func NewAuthValidator() usecase.AuthValidator {
	return &authValidator{}
}

// ログインの入力を検証
func (v *authValidator) ValidateLogin(email string, password string) error {
	if err := validateEmail(email); err != nil {
		return err
	}

	if password == "" {
		return ErrPasswordRequired
	}
	if utf8.RuneCountInString(password) < 6 {
		return ErrLoginPasswordShort
	}
	return nil
}

// サインアップの入力を検証
func (v *authValidator) ValidateRegister(in usecase.RegisterInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return ErrNameRequired
	}
	if err := validateEmail(in.Email); err != nil {
		return err
	}
	return validateStrongPassword(in.Password)
}

func (v *authValidator) ValidateOTP(otp string) error {
	if !otpPattern.MatchString(otp) {
		return ErrOTPInvalid
	}
	return nil
}

func validateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ErrEmailRequired
	}
	if !emailPattern.MatchString(email) {
		return ErrEmailInvalid
	}
	return nil
}

// 上から順に最初の違反だけ返す
func validateStrongPassword(password string) error {
	switch {
	case utf8.RuneCountInString(password) < 8:
		return ErrPasswordShort
	case !upperPattern.MatchString(password):
		return ErrPasswordNoUpper
	case !lowerPattern.MatchString(password):
		return ErrPasswordNoLower
	case !digitPattern.MatchString(password):
		return ErrPasswordNoNumber
	case !specialPattern.MatchString(password):
		return ErrPasswordNoSpecial
	}
	return nil
}
