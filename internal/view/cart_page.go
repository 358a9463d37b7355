package view

import (
	"context"
	"sync"

	"storefront/internal/domain/model"
	"storefront/internal/event"
	"storefront/internal/usecase"

	"github.com/shopspring/decimal"
)

type CartPageSnapshot struct {
	Items []model.LineItem `json:"items"`
	Total decimal.Decimal  `json:"total"`
	Count int              `json:"count"`
	Empty bool             `json:"empty"`
}

// カート画面の操作（*usecase.CartUsecase）
type CartActions interface {
	Step(ctx context.Context, productID string, delta int) (model.Cart, error)
	RemoveItem(ctx context.Context, productID string) (model.Cart, error)
	Clear(ctx context.Context) (model.Cart, error)
}

// 「チェックアウト」ボタン（*usecase.CheckoutUsecase）
type CheckoutStarter interface {
	Begin(ctx context.Context) (string, error)
}

type CartPage struct {
	lifecycle
	carts    CartSource
	actions  CartActions
	checkout CheckoutStarter
	bus      Subscriber

	mu   sync.RWMutex
	snap CartPageSnapshot

	OnRender func(CartPageSnapshot)
}

func NewCartPage(carts CartSource, actions CartActions, checkout CheckoutStarter, bus Subscriber) *CartPage {
	return &CartPage{carts: carts, actions: actions, checkout: checkout, bus: bus}
}

func (v *CartPage) Mount(ctx context.Context) {
	v.mount(ctx, v.bus, v.refresh, event.TopicCart)
}

func (v *CartPage) Unmount() {
	v.unmount()
}

func (v *CartPage) Snapshot() CartPageSnapshot {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.snap
}

func (v *CartPage) Increase(ctx context.Context, productID string) error {
	_, err := v.actions.Step(ctx, productID, 1)
	return err
}

// 1のときに減らすとエラー（削除は Remove）
func (v *CartPage) Decrease(ctx context.Context, productID string) error {
	_, err := v.actions.Step(ctx, productID, -1)
	return err
}

func (v *CartPage) Remove(ctx context.Context, productID string) error {
	_, err := v.actions.RemoveItem(ctx, productID)
	return err
}

func (v *CartPage) Clear(ctx context.Context) error {
	_, err := v.actions.Clear(ctx)
	return err
}

// 遷移先を返す（未ログインなら /login）
func (v *CartPage) Checkout(ctx context.Context) (string, error) {
	if v.carts.Load(ctx).IsEmpty() {
		return usecase.DestCart, nil
	}
	return v.checkout.Begin(ctx)
}

func (v *CartPage) refresh() {
	cart := v.carts.Load(v.mountCtx())
	items := cart.Items
	if items == nil {
		items = []model.LineItem{}
	}
	snap := CartPageSnapshot{
		Items: items,
		Total: cart.Total(),
		Count: cart.Count(),
		Empty: cart.IsEmpty(),
	}

	v.mu.Lock()
	v.snap = snap
	v.mu.Unlock()

	if v.OnRender != nil {
		v.OnRender(snap)
	}
}
