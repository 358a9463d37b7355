package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"storefront/internal/api"
	"storefront/internal/domain/model"
	"storefront/internal/event"
	repo "storefront/internal/repository"

	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"
)

// SessionUsecase はログイン状態と保留中のチェックアウトを扱う。
type SessionUsecase struct {
	sessions  repo.SessionRepository
	intents   repo.CheckoutIntentRepository
	notifier  Notifier
	clock     Clock
	intentTTL time.Duration
	logger    *zap.Logger
}

func NewSessionUsecase(
	sessions repo.SessionRepository,
	intents repo.CheckoutIntentRepository,
	notifier Notifier,
	clock Clock,
	intentTTL time.Duration,
	logger *zap.Logger,
) *SessionUsecase {
	if clock == nil {
		clock = SystemClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionUsecase{
		sessions:  sessions,
		intents:   intents,
		notifier:  notifier,
		clock:     clock,
		intentTTL: intentTTL,
		logger:    logger,
	}
}

// Current はログイン中ならセッションを返す。
// 期限切れのJWTはリモートに拒否されたのと同じ扱いで消す。
func (u *SessionUsecase) Current(ctx context.Context) (model.Session, bool) {
	sess, ok := u.sessions.Load(ctx)
	if !ok {
		return model.Session{}, false
	}
	if tokenExpired(sess.Token, u.clock.Now()) {
		u.logger.Info("stored token has expired")
		if err := u.Reject(ctx); err != nil {
			u.logger.Warn("clear expired session", zap.Error(err))
		}
		return model.Session{}, false
	}
	return sess, true
}

func (u *SessionUsecase) Authenticated(ctx context.Context) bool {
	_, ok := u.Current(ctx)
	return ok
}

// Require はログイン必須の操作の入口
func (u *SessionUsecase) Require(ctx context.Context, message string) (model.Session, error) {
	sess, ok := u.Current(ctx)
	if !ok {
		return model.Session{}, loginRequired(message)
	}
	return sess, nil
}

// BeginCheckout はチェックアウトの入口。
// 未ログインなら意図を保存してログインへ。
func (u *SessionUsecase) BeginCheckout(ctx context.Context) (string, error) {
	if u.Authenticated(ctx) {
		return DestCheckout, nil
	}
	if err := u.intents.Save(ctx, model.CheckoutIntent{CreatedAt: u.clock.Now()}); err != nil {
		return "", storageError("failed to save checkout intent", err)
	}
	return DestLogin, nil
}

// Resume は画面表示のたびに呼ぶ。
// ログイン済みで新しい意図があれば消費して /checkout、古い意図は捨てる。
// 戻り値が空なら遷移なし。
func (u *SessionUsecase) Resume(ctx context.Context) (string, error) {
	if !u.Authenticated(ctx) {
		return "", nil
	}

	intent, ok := u.intents.Load(ctx)
	if !ok {
		return "", nil
	}

	// 1回だけ
	if err := u.intents.Clear(ctx); err != nil {
		return "", storageError("failed to clear checkout intent", err)
	}

	if intent.Expired(u.clock.Now(), u.intentTTL) {
		u.logger.Info("dropped stale checkout intent", zap.Time("created_at", intent.CreatedAt))
		return "", nil
	}
	return DestCheckout, nil
}

// Establish はログイン成功時に呼ぶ。保留中の意図があれば /checkout、無ければホーム。
func (u *SessionUsecase) Establish(ctx context.Context, sess model.Session) (string, error) {
	if sess.Token == "" {
		return "", &HTTPError{Status: http.StatusBadGateway, Message: "login response had no token", Err: ErrRemote}
	}
	if err := u.sessions.Save(ctx, sess); err != nil {
		return "", storageError("failed to save session", err)
	}
	u.notifier.Notify(event.TopicSession)

	next, err := u.Resume(ctx)
	if err != nil {
		return "", err
	}
	if next == "" {
		next = DestHome
	}
	return next, nil
}

// 登録直後のtoken（プロフィールはまだ無い）
func (u *SessionUsecase) StorePendingToken(ctx context.Context, token string) error {
	if err := u.sessions.SaveToken(ctx, token); err != nil {
		return storageError("failed to save token", err)
	}
	u.notifier.Notify(event.TopicSession)
	return nil
}

func (u *SessionUsecase) PendingToken(ctx context.Context) (string, bool) {
	return u.sessions.Token(ctx)
}

// Reject はtokenとプロフィールを消す。意図とカートは残す。
func (u *SessionUsecase) Reject(ctx context.Context) error {
	if err := u.sessions.Clear(ctx); err != nil {
		return storageError("failed to clear session", err)
	}
	u.notifier.Notify(event.TopicSession)
	return nil
}

// Logout はtoken・プロフィール・保留中の意図を消す（カートは AuthUsecase 側）。
func (u *SessionUsecase) Logout(ctx context.Context) error {
	err := errors.Join(u.sessions.Clear(ctx), u.intents.Clear(ctx))
	u.notifier.Notify(event.TopicSession)
	if err != nil {
		return storageError("failed to clear session", err)
	}
	return nil
}

// RemoteError はログイン中の呼び出しの失敗を変換する。
// 401ならセッションを消してログインへ。
func (u *SessionUsecase) RemoteError(ctx context.Context, err error) error {
	if !errors.Is(err, api.ErrAuthRejected) {
		return remoteError(err)
	}
	if cerr := u.Reject(ctx); cerr != nil {
		u.logger.Error("clear rejected session", zap.Error(cerr))
	}
	return &HTTPError{
		Status:  http.StatusUnauthorized,
		Message: "your session has expired, please login again",
		Next:    DestLogin,
		Err:     fmt.Errorf("%w: %w", ErrSessionRejected, err),
	}
}

// JWTならexpを見る。JWTでないtokenは期限が分からないので有効扱い。
func tokenExpired(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	if _, ok := claims["exp"]; !ok {
		return false
	}
	return !claims.VerifyExpiresAt(now.Unix(), true)
}
