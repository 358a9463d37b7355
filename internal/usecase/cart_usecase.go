package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"
	"storefront/internal/event"

	"go.uber.org/zap"
)

// CartUsecase は読む→計算→保存を1クライアント内で直列に行う。
// 成功した変更1回につき cart の通知はちょうど1回。通知はロックを外してから送るので、
// 購読側からカートを変更してもよい。
type CartUsecase struct {
	mu       sync.Mutex
	carts    repo.CartRepository
	notifier Notifier
	logger   *zap.Logger
}

func NewCartUsecase(carts repo.CartRepository, notifier Notifier, logger *zap.Logger) *CartUsecase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CartUsecase{
		carts:    carts,
		notifier: notifier,
		logger:   logger,
	}
}

// 追加の結果
type AddResult struct {
	Cart    model.Cart
	Outcome model.AddOutcome
	Message string
}

// 現在のカート（保存データが壊れていれば空）
func (u *CartUsecase) Load(ctx context.Context) model.Cart {
	return u.carts.Load(ctx)
}

func (u *CartUsecase) AddItem(ctx context.Context, p model.Product) (AddResult, error) {
	if p.ID == "" {
		return AddResult{}, validationError(errors.New("product id is required"))
	}
	if p.Price.IsNegative() {
		return AddResult{}, validationError(errors.New("product price is invalid"))
	}

	var outcome model.AddOutcome
	next, err := u.mutate(ctx, func(cart model.Cart) (model.Cart, error) {
		added, o := model.AddItem(cart, p)
		outcome = o
		return added, nil
	})
	if err != nil {
		return AddResult{}, err
	}
	return AddResult{Cart: next, Outcome: outcome, Message: outcome.Message()}, nil
}

func (u *CartUsecase) SetQuantity(ctx context.Context, productID string, quantity int) (model.Cart, error) {
	return u.mutate(ctx, func(cart model.Cart) (model.Cart, error) {
		next, err := model.SetQuantity(cart, productID, quantity)
		return next, quantityError(err)
	})
}

// Step は今の数量に delta を足す。1から減らすのはエラー（削除は RemoveItem）。
func (u *CartUsecase) Step(ctx context.Context, productID string, delta int) (model.Cart, error) {
	return u.mutate(ctx, func(cart model.Cart) (model.Cart, error) {
		i, ok := cart.Find(productID)
		if !ok {
			return model.Cart{}, quantityError(model.ErrItemNotFound)
		}
		next, err := model.SetQuantity(cart, productID, cart.Items[i].Quantity+delta)
		return next, quantityError(err)
	})
}

// 無い商品でも成功（冪等）
func (u *CartUsecase) RemoveItem(ctx context.Context, productID string) (model.Cart, error) {
	return u.mutate(ctx, func(cart model.Cart) (model.Cart, error) {
		return model.RemoveItem(cart, productID), nil
	})
}

func (u *CartUsecase) Clear(ctx context.Context) (model.Cart, error) {
	return u.mutate(ctx, func(model.Cart) (model.Cart, error) {
		return model.ClearCart(), nil
	})
}

// mutate はロック内で読む→計算→保存し、ロックを外してから通知する。
// 計算か保存に失敗したら通知しない。
func (u *CartUsecase) mutate(ctx context.Context, fn func(model.Cart) (model.Cart, error)) (model.Cart, error) {
	u.mu.Lock()
	next, err := fn(u.carts.Load(ctx))
	if err == nil {
		err = u.save(ctx, next)
	}
	u.mu.Unlock()

	if err != nil {
		return model.Cart{}, err
	}
	u.notifier.Notify(event.TopicCart)
	return next, nil
}

func (u *CartUsecase) save(ctx context.Context, cart model.Cart) error {
	if err := u.carts.Save(ctx, cart); err != nil {
		u.logger.Error("save cart", zap.Error(err))
		return storageError("failed to save cart", err)
	}
	return nil
}

func quantityError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, model.ErrInvalidQuantity):
		return validationError(errors.New("quantity must be at least 1"))
	case errors.Is(err, model.ErrItemNotFound):
		return &HTTPError{Status: http.StatusNotFound, Message: "item not in cart", Err: err}
	default:
		return fmt.Errorf("set quantity: %w", err)
	}
}
