package storefront

import (
	"context"
	"sync"
	"testing"
	"time"

	"storefront/internal/domain/model"
	infra "storefront/internal/infra/repository"
	"storefront/internal/usecase"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *stepClock) advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newHub(clock usecase.Clock) *Hub {
	return NewHub(infra.NewKVMemoryRepository(), Deps{Clock: clock, IntentTTL: 30 * time.Minute})
}

func TestHub_GetReturnsSameClient(t *testing.T) {
	hub := newHub(nil)

	a := hub.Get("a")
	assert.Same(t, a, hub.Get("a"))
	assert.NotSame(t, a, hub.Get("b"))
	assert.Equal(t, 2, hub.Len())
}

// Test: クライアントごとにカートが分かれる
func TestHub_ClientsAreIsolated(t *testing.T) {
	hub := newHub(nil)
	ctx := context.Background()
	p := model.Product{ID: "p1", Name: "Lamp", Price: decimal.NewFromInt(10)}

	_, err := hub.Get("a").Cart.AddItem(ctx, p)
	require.NoError(t, err)

	assert.Equal(t, 1, hub.Get("a").Cart.Load(ctx).Count())
	assert.True(t, hub.Get("b").Cart.Load(ctx).IsEmpty())
}

func TestHub_SweepKeepsDataAndSubscribers(t *testing.T) {
	clock := &stepClock{now: time.Now()}
	hub := newHub(clock)
	ctx := context.Background()

	idle := hub.Get("idle")
	_, err := idle.Cart.AddItem(ctx, model.Product{ID: "p1", Price: decimal.NewFromInt(1)})
	require.NoError(t, err)

	watched := hub.Get("watched")
	badge := watched.NavBadge()
	badge.Mount(ctx)
	defer badge.Unmount()

	clock.advance(time.Hour)
	assert.Equal(t, 1, hub.Sweep(30*time.Minute))
	assert.Equal(t, 1, hub.Len())

	// 作り直してもカートは残っている
	again := hub.Get("idle")
	assert.NotSame(t, idle, again)
	assert.Equal(t, 1, again.Cart.Load(ctx).Count())
}

// Test: 処理中のリクエストがあるクライアントはidleを過ぎても捨てない
func TestHub_SweepSkipsInflight(t *testing.T) {
	clock := &stepClock{now: time.Now()}
	hub := newHub(clock)

	busy, release := hub.Acquire("busy")
	clock.advance(time.Hour)
	assert.Equal(t, 0, hub.Sweep(30*time.Minute))
	assert.Same(t, busy, hub.Get("busy"))

	release()
	release()
	clock.advance(time.Hour)
	assert.Equal(t, 1, hub.Sweep(30*time.Minute))
	assert.Equal(t, 0, hub.Len())
}
