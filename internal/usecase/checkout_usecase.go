package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"storefront/internal/api"
	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type OrderAPI interface {
	PlaceOrder(ctx context.Context, token string, in api.OrderRequest) (api.OrderResponse, error)
}

type OrderValidator interface {
	ValidateOrder(method model.PaymentMethod, address string) error
}

// 注文の元
type CheckoutSource string

const (
	SourceCart   CheckoutSource = "cart"
	SourceBuyNow CheckoutSource = "buy-now"
)

type CheckoutSummary struct {
	Source CheckoutSource   `json:"source"`
	Items  []model.LineItem `json:"items"`
	Total  decimal.Decimal  `json:"total"`
	Count  int              `json:"count"`
}

type PlaceOrderInput struct {
	PaymentMethod model.PaymentMethod
	Address       string
}

type OrderResult struct {
	Message string `json:"message"`
	Next    string `json:"next"`
}

type CheckoutUsecase struct {
	session   *SessionUsecase
	cart      *CartUsecase
	details   repo.OrderDetailsRepository
	orders    OrderAPI
	validator OrderValidator
	clock     Clock
	logger    *zap.Logger
}

func NewCheckoutUsecase(
	session *SessionUsecase,
	cart *CartUsecase,
	details repo.OrderDetailsRepository,
	orders OrderAPI,
	validator OrderValidator,
	clock Clock,
	logger *zap.Logger,
) *CheckoutUsecase {
	if clock == nil {
		clock = SystemClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CheckoutUsecase{
		session:   session,
		cart:      cart,
		details:   details,
		orders:    orders,
		validator: validator,
		clock:     clock,
		logger:    logger,
	}
}

// Begin はカートの「チェックアウト」ボタン。
// 注文するのはカートなので、残っている今すぐ購入の受け渡しは捨てる。
func (u *CheckoutUsecase) Begin(ctx context.Context) (string, error) {
	if err := u.Discard(ctx); err != nil {
		return "", err
	}
	return u.session.BeginCheckout(ctx)
}

// Discard は今すぐ購入の受け渡しを消す
func (u *CheckoutUsecase) Discard(ctx context.Context) error {
	if err := u.details.Clear(ctx); err != nil {
		return storageError("failed to clear order details", err)
	}
	return nil
}

// BuyNow は商品ページの「今すぐ購入」。受け渡しを保存してからゲートを通す。
func (u *CheckoutUsecase) BuyNow(ctx context.Context, p model.Product, quantity int) (string, error) {
	if quantity < 1 {
		return "", validationError(model.ErrInvalidQuantity)
	}
	if !p.InStock {
		return "", NewHTTPError(http.StatusConflict, "product is out of stock")
	}

	d := model.OrderDetails{
		Items: []model.LineItem{{
			ProductID: p.ID,
			Name:      p.Name,
			Price:     p.Price,
			Quantity:  quantity,
			ImageURL:  p.ImageURL,
			Seller:    p.Seller,
		}},
		CreatedAt: u.clock.Now(),
	}
	if err := u.details.Save(ctx, d); err != nil {
		return "", storageError("failed to save order details", err)
	}
	return u.session.BeginCheckout(ctx)
}

// Summary は注文対象。今すぐ購入の受け渡しがあればカートより優先。
// 受け渡しの期限はチェックアウト意図と同じ。
func (u *CheckoutUsecase) Summary(ctx context.Context) (CheckoutSummary, error) {
	if _, err := u.session.Require(ctx, "Please login first"); err != nil {
		return CheckoutSummary{}, err
	}
	return u.summary(ctx), nil
}

func (u *CheckoutUsecase) summary(ctx context.Context) CheckoutSummary {
	if d, ok := u.details.Load(ctx); ok {
		if !d.Expired(u.clock.Now(), u.session.intentTTL) {
			c := model.Cart{Items: d.Items}
			return CheckoutSummary{Source: SourceBuyNow, Items: d.Items, Total: c.Total(), Count: c.Count()}
		}
		u.logger.Info("dropped stale order details", zap.Time("created_at", d.CreatedAt))
		if err := u.details.Clear(ctx); err != nil {
			u.logger.Warn("clear order details", zap.Error(err))
		}
	}
	c := u.cart.Load(ctx)
	items := c.Items
	if items == nil {
		items = []model.LineItem{}
	}
	return CheckoutSummary{Source: SourceCart, Items: items, Total: c.Total(), Count: c.Count()}
}

// PlaceOrder は注文を送る。成功したら注文元（受け渡し or カート）を空にする。
func (u *CheckoutUsecase) PlaceOrder(ctx context.Context, in PlaceOrderInput) (OrderResult, error) {
	sess, err := u.session.Require(ctx, "Please login first")
	if err != nil {
		return OrderResult{}, err
	}

	in.Address = strings.TrimSpace(in.Address)
	if err := u.validator.ValidateOrder(in.PaymentMethod, in.Address); err != nil {
		return OrderResult{}, validationError(err)
	}

	sum := u.summary(ctx)
	if len(sum.Items) == 0 {
		return OrderResult{}, validationError(errors.New("your cart is empty"))
	}

	out, err := u.orders.PlaceOrder(ctx, sess.Token, api.OrderRequest{
		Items:         model.OrderItemsFrom(sum.Items),
		PaymentMethod: in.PaymentMethod,
		Address:       in.Address,
	})
	if err != nil {
		return OrderResult{}, u.session.RemoteError(ctx, err)
	}

	// 注文は通っているので後片付けの失敗はログだけ
	switch sum.Source {
	case SourceBuyNow:
		if err := u.details.Clear(ctx); err != nil {
			u.logger.Warn("clear order details", zap.Error(err))
		}
	default:
		if _, err := u.cart.Clear(ctx); err != nil {
			u.logger.Warn("clear cart after order", zap.Error(err))
		}
	}

	msg := out.Message
	if msg == "" {
		msg = "Order placed successfully!"
	}
	return OrderResult{Message: msg, Next: DestOrders}, nil
}
