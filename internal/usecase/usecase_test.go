package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"storefront/internal/api"
	"storefront/internal/domain/model"
	"storefront/internal/event"
	infra "storefront/internal/infra/repository"

	"github.com/golang-jwt/jwt/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// Mocking remote api
type MockAuthAPI struct {
	mock.Mock
}

func (m *MockAuthAPI) Login(ctx context.Context, in api.LoginRequest) (api.AuthResponse, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(api.AuthResponse), args.Error(1)
}

func (m *MockAuthAPI) Register(ctx context.Context, in api.RegisterRequest) (api.AuthResponse, error) {
	args := m.Called(ctx, in)
	return args.Get(0).(api.AuthResponse), args.Error(1)
}

func (m *MockAuthAPI) VerifyOTP(ctx context.Context, token string, in api.VerifyOTPRequest) (api.AuthResponse, error) {
	args := m.Called(ctx, token, in)
	return args.Get(0).(api.AuthResponse), args.Error(1)
}

type MockCatalogAPI struct {
	mock.Mock
}

func (m *MockCatalogAPI) Products(ctx context.Context) ([]model.Product, error) {
	args := m.Called(ctx)
	products, _ := args.Get(0).([]model.Product)
	return products, args.Error(1)
}

type MockReviewAPI struct {
	mock.Mock
}

func (m *MockReviewAPI) Reviews(ctx context.Context, productID string) ([]model.Review, error) {
	args := m.Called(ctx, productID)
	reviews, _ := args.Get(0).([]model.Review)
	return reviews, args.Error(1)
}

func (m *MockReviewAPI) AddReview(ctx context.Context, token, productID string, in api.AddReviewRequest) error {
	return m.Called(ctx, token, productID, in).Error(0)
}

func (m *MockReviewAPI) MarkReviewHelpful(ctx context.Context, token, productID, reviewID string) error {
	return m.Called(ctx, token, productID, reviewID).Error(0)
}

type MockOrderAPI struct {
	mock.Mock
}

func (m *MockOrderAPI) PlaceOrder(ctx context.Context, token string, in api.OrderRequest) (api.OrderResponse, error) {
	args := m.Called(ctx, token, in)
	return args.Get(0).(api.OrderResponse), args.Error(1)
}

// 何でも通す（またはerrを返す）validator
type stubValidator struct {
	err error
}

func (v stubValidator) ValidateLogin(email, password string) error          { return v.err }
func (v stubValidator) ValidateRegister(in RegisterInput) error             { return v.err }
func (v stubValidator) ValidateOTP(otp string) error                        { return v.err }
func (v stubValidator) ValidateReview(rating int, comment string) error     { return v.err }
func (v stubValidator) ValidateOrder(m model.PaymentMethod, a string) error { return v.err }

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// トピックごとの通知回数
type recorder struct {
	mu     sync.Mutex
	counts map[event.Topic]int
}

func (r *recorder) count(topic event.Topic) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counts[topic]
}

func (r *recorder) reset() {
	r.mu.Lock()
	r.counts = map[event.Topic]int{}
	r.mu.Unlock()
}

const testIntentTTL = 30 * time.Minute

type fixture struct {
	ctx      context.Context
	bus      *event.Bus
	notes    *recorder
	clock    *fakeClock
	sessions *infra.SessionStore
	intents  *infra.CheckoutIntentStore
	details  *infra.OrderDetailsStore
	carts    *infra.CartStore
	session  *SessionUsecase
	cart     *CartUsecase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	kv := infra.NewKVMemoryRepository().Namespace("test")
	bus := event.NewBus()
	notes := &recorder{counts: map[event.Topic]int{}}
	for _, topic := range []event.Topic{event.TopicCart, event.TopicSession} {
		topic := topic
		bus.Subscribe(topic, func() {
			notes.mu.Lock()
			notes.counts[topic]++
			notes.mu.Unlock()
		})
	}

	f := &fixture{
		ctx:      context.Background(),
		bus:      bus,
		notes:    notes,
		clock:    &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)},
		sessions: infra.NewSessionStore(kv, nil),
		intents:  infra.NewCheckoutIntentStore(kv),
		details:  infra.NewOrderDetailsStore(kv),
		carts:    infra.NewCartStore(kv, nil),
	}
	f.session = NewSessionUsecase(f.sessions, f.intents, bus, f.clock, testIntentTTL, nil)
	f.cart = NewCartUsecase(f.carts, bus, nil)
	return f
}

// ログイン済みにする（通知カウントはリセット）
func (f *fixture) login(t *testing.T, token string) {
	t.Helper()
	require.NoError(t, f.sessions.Save(f.ctx, model.Session{Token: token, User: model.User{ID: "u1", Name: "Ann", Email: "ann@example.com"}}))
	f.notes.reset()
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "u1", "exp": exp.Unix()})
	s, err := tok.SignedString([]byte("remote-secret"))
	require.NoError(t, err)
	return s
}

func product(id string, price int64) model.Product {
	return model.Product{
		ID:       id,
		Name:     "name-" + id,
		Category: "lamps",
		Price:    decimal.NewFromInt(price),
		Seller:   "s1",
		InStock:  true,
	}
}
