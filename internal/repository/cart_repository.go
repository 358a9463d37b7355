package repository

import (
	"context"

	"storefront/internal/domain/model"
)

// 永続化されたカート（唯一の正）
type CartRepository interface {
	// 壊れている・無い場合は空のカート。エラーは返さない。
	Load(ctx context.Context) model.Cart
	// 全体を上書き保存
	Save(ctx context.Context, cart model.Cart) error
}
