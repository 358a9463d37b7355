package view

import (
	"context"
	"sync"

	"storefront/internal/domain/model"
	"storefront/internal/event"
	"storefront/internal/usecase"
)

type ProductPageSnapshot struct {
	Product      model.Product `json:"product"`
	InCart       bool          `json:"inCart"`
	CartQuantity int           `json:"cartQuantity"`
}

type ProductActions interface {
	AddItem(ctx context.Context, p model.Product) (usecase.AddResult, error)
}

type BuyNower interface {
	BuyNow(ctx context.Context, p model.Product, quantity int) (string, error)
}

// ProductPage は1商品の表示。カートに入っている数を追いかける。
type ProductPage struct {
	lifecycle
	product model.Product
	carts   CartSource
	actions ProductActions
	buyer   BuyNower
	bus     Subscriber

	mu   sync.RWMutex
	snap ProductPageSnapshot

	OnRender func(ProductPageSnapshot)
}

func NewProductPage(p model.Product, carts CartSource, actions ProductActions, buyer BuyNower, bus Subscriber) *ProductPage {
	return &ProductPage{product: p, carts: carts, actions: actions, buyer: buyer, bus: bus}
}

func (v *ProductPage) Mount(ctx context.Context) {
	v.mount(ctx, v.bus, v.refresh, event.TopicCart)
}

func (v *ProductPage) Unmount() {
	v.unmount()
}

func (v *ProductPage) Snapshot() ProductPageSnapshot {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.snap
}

// 追加結果のメッセージを返す
func (v *ProductPage) AddToCart(ctx context.Context) (string, error) {
	res, err := v.actions.AddItem(ctx, v.product)
	if err != nil {
		return "", err
	}
	return res.Message, nil
}

func (v *ProductPage) BuyNow(ctx context.Context, quantity int) (string, error) {
	return v.buyer.BuyNow(ctx, v.product, quantity)
}

func (v *ProductPage) refresh() {
	cart := v.carts.Load(v.mountCtx())
	snap := ProductPageSnapshot{Product: v.product}
	if i, ok := cart.Find(v.product.ID); ok {
		snap.InCart = true
		snap.CartQuantity = cart.Items[i].Quantity
	}

	v.mu.Lock()
	v.snap = snap
	v.mu.Unlock()

	if v.OnRender != nil {
		v.OnRender(snap)
	}
}
