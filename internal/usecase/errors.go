package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"storefront/internal/api"
	"storefront/internal/event"
)

var (
	// 400 入力不正
	ErrValidation = errors.New("validation error")
	// 401 ログインが必要
	ErrLoginRequired = errors.New("login required")
	// 401 リモートにトークンを拒否された
	ErrSessionRejected = errors.New("session rejected")
	// 未登録ユーザー
	ErrNotRegistered = errors.New("user not registered")
	// パスワード違い
	ErrInvalidCredentials = errors.New("invalid credentials")
	// リモートAPIの失敗
	ErrRemote = errors.New("remote api error")
	// 保存失敗
	ErrStorage = errors.New("storage error")
)

// 遷移先
const (
	DestHome      = "/"
	DestCart      = "/cart"
	DestCheckout  = "/checkout"
	DestLogin     = "/login"
	DestRegister  = "/register"
	DestVerifyOTP = "/verify-otp"
	DestOrders    = "/orders"
)

// handlerがそのままレスポンスにする
type HTTPError struct {
	Status  int
	Message string
	// 次に表示すべき画面（無ければ空）
	Next string
	Err  error
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%d: %s: %v", e.Status, e.Message, e.Err)
	}
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

func validationError(err error) error {
	return &HTTPError{
		Status:  http.StatusBadRequest,
		Message: err.Error(),
		Err:     fmt.Errorf("%w: %w", ErrValidation, err),
	}
}

func loginRequired(message string) error {
	return &HTTPError{
		Status:  http.StatusUnauthorized,
		Message: message,
		Next:    DestLogin,
		Err:     ErrLoginRequired,
	}
}

func storageError(message string, err error) error {
	return &HTTPError{
		Status:  http.StatusInternalServerError,
		Message: message,
		Err:     fmt.Errorf("%w: %w", ErrStorage, err),
	}
}

// リモートの失敗を変換する。4xxはステータスとメッセージをそのまま、それ以外は502。
// 401はここでは扱わない（SessionUsecase.RemoteError）。
func remoteError(err error) error {
	if ae, ok := api.AsAPIError(err); ok {
		status := ae.Status
		if status < http.StatusBadRequest || status >= http.StatusInternalServerError {
			status = http.StatusBadGateway
		}
		return &HTTPError{Status: status, Message: ae.Message, Err: fmt.Errorf("%w: %w", ErrRemote, err)}
	}
	if errors.Is(err, context.Canceled) {
		return &HTTPError{Status: http.StatusBadGateway, Message: "request canceled", Err: err}
	}
	return &HTTPError{
		Status:  http.StatusBadGateway,
		Message: "store api is unreachable, please try again",
		Err:     fmt.Errorf("%w: %w", ErrRemote, err),
	}
}

// 通知先（*event.Bus）
type Notifier interface {
	Notify(topic event.Topic)
}

type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}
