package repository

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("not found")

// ローカルストレージのキー
const (
	KeyToken          = "token"
	KeyUserProfile    = "userProfile"
	KeyCartItems      = "cartItems"
	KeyCheckoutIntent = "checkoutIntent"
	KeyOrderDetails   = "orderDetails"
)

// 文字列のKVストア（ブラウザのlocalStorage相当）。
// 無いキーのGetはErrNotFound。
type KVRepository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
}

// クライアントごとに名前空間を切ったKVを返す約束
type KVNamespacer interface {
	Namespace(ns string) KVRepository
}
