package usecase

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"storefront/internal/domain/model"
	"storefront/internal/event"
	infra "storefront/internal/infra/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 保存が失敗するカート
type failingCarts struct{}

func (failingCarts) Load(ctx context.Context) model.Cart             { return model.EmptyCart() }
func (failingCarts) Save(ctx context.Context, cart model.Cart) error { return errors.New("quota exceeded") }

func TestCartUsecase_AddItemPersistsAndNotifiesOnce(t *testing.T) {
	f := newFixture(t)

	res, err := f.cart.AddItem(f.ctx, product("p1", 100))
	require.NoError(t, err)
	assert.Equal(t, model.AddOutcomeAdded, res.Outcome)
	assert.Equal(t, "Added to cart", res.Message)
	assert.Equal(t, 1, f.notes.count(event.TopicCart))

	res, err = f.cart.AddItem(f.ctx, product("p1", 100))
	require.NoError(t, err)
	assert.Equal(t, model.AddOutcomeQuantityUpdated, res.Outcome)
	assert.Equal(t, 2, f.notes.count(event.TopicCart))

	// 保存済みの値が正
	stored := f.carts.Load(f.ctx)
	require.Len(t, stored.Items, 1)
	assert.Equal(t, 2, stored.Items[0].Quantity)
	assert.True(t, stored.Total().Equal(decimal.NewFromInt(200)))
}

func TestCartUsecase_AddItemValidation(t *testing.T) {
	f := newFixture(t)

	_, err := f.cart.AddItem(f.ctx, model.Product{})
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, 0, f.notes.count(event.TopicCart))
	assert.True(t, f.carts.Load(f.ctx).IsEmpty())
}

// Test: 数量0はエラーで、保存も通知もしない
func TestCartUsecase_SetQuantityZeroRejected(t *testing.T) {
	f := newFixture(t)
	_, err := f.cart.AddItem(f.ctx, product("p1", 50))
	require.NoError(t, err)
	f.notes.reset()

	_, err = f.cart.SetQuantity(f.ctx, "p1", 0)
	assert.ErrorIs(t, err, ErrValidation)
	he, ok := AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Status)

	assert.Equal(t, 0, f.notes.count(event.TopicCart))
	assert.Equal(t, 1, f.carts.Load(f.ctx).Items[0].Quantity)
}

func TestCartUsecase_SetQuantityUnknownItem(t *testing.T) {
	f := newFixture(t)

	_, err := f.cart.SetQuantity(f.ctx, "ghost", 2)
	he, ok := AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, he.Status)
	assert.ErrorIs(t, err, model.ErrItemNotFound)
	assert.Equal(t, 0, f.notes.count(event.TopicCart))
}

func TestCartUsecase_SetQuantity(t *testing.T) {
	f := newFixture(t)
	_, _ = f.cart.AddItem(f.ctx, product("p1", 50))
	f.notes.reset()

	cart, err := f.cart.SetQuantity(f.ctx, "p1", 3)
	require.NoError(t, err)
	assert.True(t, cart.Total().Equal(decimal.NewFromInt(150)))
	assert.Equal(t, 1, f.notes.count(event.TopicCart))
}

// Test: 無い商品の削除も成功して通知は1回
func TestCartUsecase_RemoveIsIdempotent(t *testing.T) {
	f := newFixture(t)
	_, _ = f.cart.AddItem(f.ctx, product("p1", 10))
	_, _ = f.cart.AddItem(f.ctx, product("p2", 10))
	f.notes.reset()

	cart, err := f.cart.RemoveItem(f.ctx, "p1")
	require.NoError(t, err)
	assert.Len(t, cart.Items, 1)

	again, err := f.cart.RemoveItem(f.ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, cart.Items, again.Items)
	assert.Equal(t, 2, f.notes.count(event.TopicCart))
}

func TestCartUsecase_Clear(t *testing.T) {
	f := newFixture(t)
	_, _ = f.cart.AddItem(f.ctx, product("p1", 10))

	cart, err := f.cart.Clear(f.ctx)
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())
	assert.True(t, f.carts.Load(f.ctx).Total().IsZero())
}

// Test: 保存に失敗したら通知しない
func TestCartUsecase_SaveFailureDoesNotNotify(t *testing.T) {
	bus := event.NewBus()
	calls := 0
	bus.Subscribe(event.TopicCart, func() { calls++ })
	uc := NewCartUsecase(failingCarts{}, bus, nil)

	_, err := uc.AddItem(context.Background(), product("p1", 10))
	assert.ErrorIs(t, err, ErrStorage)
	assert.Equal(t, 0, calls)
}

// Test: 並行して追加しても数量は失われない
func TestCartUsecase_ConcurrentAdds(t *testing.T) {
	kv := infra.NewKVMemoryRepository().Namespace("c")
	bus := event.NewBus()
	uc := NewCartUsecase(infra.NewCartStore(kv, nil), bus, nil)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = uc.AddItem(context.Background(), product("p1", 1))
		}()
	}
	wg.Wait()

	cart := uc.Load(context.Background())
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 20, cart.Items[0].Quantity)
}

func TestCartUsecase_Step(t *testing.T) {
	f := newFixture(t)
	_, err := f.cart.AddItem(f.ctx, product("p1", 10))
	require.NoError(t, err)
	f.notes.reset()

	cart, err := f.cart.Step(f.ctx, "p1", 1)
	require.NoError(t, err)
	assert.Equal(t, 2, cart.Items[0].Quantity)

	_, err = f.cart.Step(f.ctx, "p1", -1)
	require.NoError(t, err)
	_, err = f.cart.Step(f.ctx, "p1", -1)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.cart.Step(f.ctx, "ghost", 1)
	he, ok := AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, he.Status)

	assert.Equal(t, 2, f.notes.count(event.TopicCart))
	assert.Equal(t, 1, f.carts.Load(f.ctx).Items[0].Quantity)
}

// Test: 並行して増やしても更新は失われない
func TestCartUsecase_ConcurrentSteps(t *testing.T) {
	kv := infra.NewKVMemoryRepository().Namespace("c")
	uc := NewCartUsecase(infra.NewCartStore(kv, nil), event.NewBus(), nil)
	_, err := uc.AddItem(context.Background(), product("p1", 1))
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = uc.Step(context.Background(), "p1", 1)
		}()
	}
	wg.Wait()

	assert.Equal(t, 21, uc.Load(context.Background()).Items[0].Quantity)
}

// Test: 通知を受けた側がカートを変更してもデッドロックしない
func TestCartUsecase_ListenerMayMutate(t *testing.T) {
	kv := infra.NewKVMemoryRepository().Namespace("c")
	bus := event.NewBus()
	uc := NewCartUsecase(infra.NewCartStore(kv, nil), bus, nil)

	cleared := false
	bus.Subscribe(event.TopicCart, func() {
		if cleared {
			return
		}
		cleared = true
		_, err := uc.Clear(context.Background())
		assert.NoError(t, err)
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = uc.AddItem(context.Background(), product("p1", 1))
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("AddItem blocked while a listener mutated the cart")
	}
	assert.True(t, uc.Load(context.Background()).IsEmpty())
}
