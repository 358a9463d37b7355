package repository

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"go.uber.org/zap"
)

// token / userProfile キー
type SessionStore struct {
	kv     repo.KVRepository
	logger *zap.Logger
}

func NewSessionStore(kv repo.KVRepository, logger *zap.Logger) *SessionStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionStore{kv: kv, logger: logger}
}

func (s *SessionStore) Token(ctx context.Context) (string, bool) {
	token, err := s.kv.Get(ctx, repo.KeyToken)
	if err != nil {
		if !errors.Is(err, repo.ErrNotFound) {
			s.logger.Warn("token read failed", zap.Error(err))
		}
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func (s *SessionStore) Load(ctx context.Context) (model.Session, bool) {
	token, ok := s.Token(ctx)
	if !ok {
		return model.Session{}, false
	}

	raw, err := s.kv.Get(ctx, repo.KeyUserProfile)
	if err != nil {
		return model.Session{}, false
	}

	var user model.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		s.logger.Warn("user profile is corrupted", zap.Error(err))
		return model.Session{}, false
	}

	return model.Session{Token: token, User: user}, true
}

func (s *SessionStore) Save(ctx context.Context, sess model.Session) error {
	b, err := json.Marshal(sess.User)
	if err != nil {
		return err
	}
	if err := s.kv.Set(ctx, repo.KeyToken, sess.Token); err != nil {
		return err
	}
	return s.kv.Set(ctx, repo.KeyUserProfile, string(b))
}

func (s *SessionStore) SaveToken(ctx context.Context, token string) error {
	return s.kv.Set(ctx, repo.KeyToken, token)
}

func (s *SessionStore) Clear(ctx context.Context) error {
	return errors.Join(
		s.kv.Delete(ctx, repo.KeyToken),
		s.kv.Delete(ctx, repo.KeyUserProfile),
	)
}

// checkoutIntent キー
type CheckoutIntentStore struct {
	kv repo.KVRepository
}

func NewCheckoutIntentStore(kv repo.KVRepository) *CheckoutIntentStore {
	return &CheckoutIntentStore{kv: kv}
}

func (s *CheckoutIntentStore) Load(ctx context.Context) (model.CheckoutIntent, bool) {
	raw, err := s.kv.Get(ctx, repo.KeyCheckoutIntent)
	if err != nil {
		return model.CheckoutIntent{}, false
	}
	var intent model.CheckoutIntent
	if err := json.Unmarshal([]byte(raw), &intent); err != nil {
		// 古い形式（"true"だけ）は作成時刻ゼロとして扱う
		return model.CheckoutIntent{}, true
	}
	return intent, true
}

func (s *CheckoutIntentStore) Save(ctx context.Context, intent model.CheckoutIntent) error {
	b, err := json.Marshal(intent)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, repo.KeyCheckoutIntent, string(b))
}

func (s *CheckoutIntentStore) Clear(ctx context.Context) error {
	return s.kv.Delete(ctx, repo.KeyCheckoutIntent)
}

// orderDetails キー
type OrderDetailsStore struct {
	kv repo.KVRepository
}

func NewOrderDetailsStore(kv repo.KVRepository) *OrderDetailsStore {
	return &OrderDetailsStore{kv: kv}
}

func (s *OrderDetailsStore) Load(ctx context.Context) (model.OrderDetails, bool) {
	raw, err := s.kv.Get(ctx, repo.KeyOrderDetails)
	if err != nil {
		return model.OrderDetails{}, false
	}
	var d model.OrderDetails
	if err := json.Unmarshal([]byte(raw), &d); err != nil || len(d.Items) == 0 {
		return model.OrderDetails{}, false
	}
	return d, true
}

func (s *OrderDetailsStore) Save(ctx context.Context, d model.OrderDetails) error {
	b, err := json.Marshal(d)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, repo.KeyOrderDetails, string(b))
}

func (s *OrderDetailsStore) Clear(ctx context.Context) error {
	return s.kv.Delete(ctx, repo.KeyOrderDetails)
}
