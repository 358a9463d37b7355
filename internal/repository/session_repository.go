package repository

import (
	"context"

	"storefront/internal/domain/model"
)

// token / userProfile の保存
type SessionRepository interface {
	// tokenとプロフィールの両方があるときだけok
	Load(ctx context.Context) (model.Session, bool)
	Save(ctx context.Context, s model.Session) error
	// 登録直後など、プロフィール無しでtokenだけ持つ
	SaveToken(ctx context.Context, token string) error
	Token(ctx context.Context) (string, bool)
	Clear(ctx context.Context) error
}

// 保留中のチェックアウト
type CheckoutIntentRepository interface {
	Load(ctx context.Context) (model.CheckoutIntent, bool)
	Save(ctx context.Context, intent model.CheckoutIntent) error
	Clear(ctx context.Context) error
}

// 商品ページ→チェックアウトの受け渡し
type OrderDetailsRepository interface {
	Load(ctx context.Context) (model.OrderDetails, bool)
	Save(ctx context.Context, d model.OrderDetails) error
	Clear(ctx context.Context) error
}
