package repository

import (
	"context"
	"encoding/json"
	"errors"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"go.uber.org/zap"
)

// cartItems キーにカート全体をJSON配列で保存する
type CartStore struct {
	kv     repo.KVRepository
	logger *zap.Logger
}

// DI
func NewCartStore(kv repo.KVRepository, logger *zap.Logger) *CartStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CartStore{kv: kv, logger: logger}
}

// 読めない・壊れている場合は空のカートを返す
func (s *CartStore) Load(ctx context.Context) model.Cart {
	raw, err := s.kv.Get(ctx, repo.KeyCartItems)
	if errors.Is(err, repo.ErrNotFound) {
		return model.EmptyCart()
	}
	if err != nil {
		s.logger.Warn("cart read failed, using empty cart", zap.Error(err))
		return model.EmptyCart()
	}

	var items []model.LineItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		s.logger.Warn("cart is corrupted, using empty cart", zap.Error(err))
		return model.EmptyCart()
	}

	return normalize(items, s.logger)
}

// 全体を上書き
func (s *CartStore) Save(ctx context.Context, cart model.Cart) error {
	items := cart.Items
	if items == nil {
		items = []model.LineItem{}
	}

	b, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, repo.KeyCartItems, string(b))
}

// 不正な明細は捨てて、同じ商品は数量をまとめる
func normalize(items []model.LineItem, logger *zap.Logger) model.Cart {
	cart := model.EmptyCart()
	for _, it := range items {
		if !it.Valid() {
			logger.Debug("dropping invalid cart entry", zap.String("product_id", it.ProductID), zap.Int("quantity", it.Quantity))
			continue
		}
		if i, ok := cart.Find(it.ProductID); ok {
			cart.Items[i].Quantity += it.Quantity
			continue
		}
		cart.Items = append(cart.Items, it)
	}
	return cart
}
