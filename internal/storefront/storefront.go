// Package storefront wires the usecases for one client (one browser tab or
// one local CLI profile) on top of its own storage namespace and bus.
package storefront

import (
	"sync"
	"time"

	"storefront/internal/api"
	"storefront/internal/domain/model"
	"storefront/internal/event"
	infra "storefront/internal/infra/repository"
	repo "storefront/internal/repository"
	"storefront/internal/usecase"
	"storefront/internal/validator"
	"storefront/internal/view"

	"go.uber.org/zap"
)

// 全クライアントで共有する部品
type Deps struct {
	Remote    *api.Client
	Products  *usecase.ProductUsecase
	Clock     usecase.Clock
	IntentTTL time.Duration
	Logger    *zap.Logger
}

type Storefront struct {
	ClientID string
	Bus      *event.Bus

	Cart     *usecase.CartUsecase
	Session  *usecase.SessionUsecase
	Auth     *usecase.AuthUsecase
	Checkout *usecase.CheckoutUsecase
	Reviews  *usecase.ReviewUsecase
	Products *usecase.ProductUsecase
}

func New(clientID string, kv repo.KVRepository, deps Deps) *Storefront {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("client", clientID))

	bus := event.NewBus()
	session := usecase.NewSessionUsecase(
		infra.NewSessionStore(kv, logger),
		infra.NewCheckoutIntentStore(kv),
		bus,
		deps.Clock,
		deps.IntentTTL,
		logger,
	)
	cart := usecase.NewCartUsecase(infra.NewCartStore(kv, logger), bus, logger)
	checkout := usecase.NewCheckoutUsecase(
		session,
		cart,
		infra.NewOrderDetailsStore(kv),
		deps.Remote,
		validator.NewOrderValidator(),
		deps.Clock,
		logger,
	)

	return &Storefront{
		ClientID: clientID,
		Bus:      bus,
		Cart:     cart,
		Session:  session,
		Auth:     usecase.NewAuthUsecase(deps.Remote, validator.NewAuthValidator(), session, cart, checkout),
		Checkout: checkout,
		Reviews:  usecase.NewReviewUsecase(deps.Remote, validator.NewReviewValidator(), session),
		Products: deps.Products,
	}
}

func (s *Storefront) NavBadge() *view.NavBadge {
	return view.NewNavBadge(s.Cart, s.Session, s.Bus)
}

func (s *Storefront) CartPage() *view.CartPage {
	return view.NewCartPage(s.Cart, s.Cart, s.Checkout, s.Bus)
}

func (s *Storefront) ProductPage(p model.Product) *view.ProductPage {
	return view.NewProductPage(p, s.Cart, s.Cart, s.Checkout, s.Bus)
}

type hubEntry struct {
	sf       *Storefront
	lastSeen time.Time
	// 処理中のリクエスト数
	inflight int
}

// Hub はクライアントIDごとのStorefront
type Hub struct {
	mu      sync.Mutex
	store   repo.KVNamespacer
	deps    Deps
	clients map[string]*hubEntry
}

func NewHub(store repo.KVNamespacer, deps Deps) *Hub {
	if deps.Clock == nil {
		deps.Clock = usecase.SystemClock{}
	}
	return &Hub{
		store:   store,
		deps:    deps,
		clients: make(map[string]*hubEntry),
	}
}

// 無ければ作る
func (h *Hub) Get(clientID string) *Storefront {
	sf, release := h.Acquire(clientID)
	release()
	return sf
}

// Acquire はリクエストの間Storefrontを借りる。release までSweepされない。
// release は何度呼んでもよい。
func (h *Hub) Acquire(clientID string) (*Storefront, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	e, ok := h.clients[clientID]
	if !ok {
		e = &hubEntry{sf: New(clientID, h.store.Namespace(clientID), h.deps)}
		h.clients[clientID] = e
	}
	e.lastSeen = h.deps.Clock.Now()
	e.inflight++

	var once sync.Once
	return e.sf, func() {
		once.Do(func() {
			h.mu.Lock()
			e.inflight--
			e.lastSeen = h.deps.Clock.Now()
			h.mu.Unlock()
		})
	}
}

// Sweep はidle以上使われていないクライアントを捨てる。
// 処理中のリクエストやSSEの購読があるクライアントは残す。データはストアに残るので次のGetで作り直す。
func (h *Hub) Sweep(idle time.Duration) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	now := h.deps.Clock.Now()
	removed := 0
	for id, e := range h.clients {
		if e.inflight > 0 || now.Sub(e.lastSeen) < idle {
			continue
		}
		if e.sf.Bus.Listeners(event.TopicCart)+e.sf.Bus.Listeners(event.TopicSession) > 0 {
			continue
		}
		delete(h.clients, id)
		removed++
	}
	return removed
}

func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}
