// Package view holds the read-only projections of the persisted cart and
// session that the storefront renders: the nav badge, the cart page and a
// product page. Each view re-reads persisted state when the bus signals a
// change and never keeps its own authoritative copy.
package view

import (
	"context"
	"sync"

	"storefront/internal/domain/model"
	"storefront/internal/event"
)

type CartSource interface {
	Load(ctx context.Context) model.Cart
}

type SessionSource interface {
	Current(ctx context.Context) (model.Session, bool)
}

type Subscriber interface {
	Subscribe(topic event.Topic, fn event.Listener) func()
}

// mount/unmountの共通部分
type lifecycle struct {
	mu     sync.Mutex
	ctx    context.Context
	unsubs []func()
}

// 購読してから最初の読み込み
func (l *lifecycle) mount(ctx context.Context, bus Subscriber, refresh func(), topics ...event.Topic) {
	l.mu.Lock()
	if l.unsubs != nil {
		l.mu.Unlock()
		return
	}
	l.ctx = context.WithoutCancel(ctx)
	for _, t := range topics {
		l.unsubs = append(l.unsubs, bus.Subscribe(t, refresh))
	}
	l.mu.Unlock()

	refresh()
}

func (l *lifecycle) unmount() {
	l.mu.Lock()
	unsubs := l.unsubs
	l.unsubs = nil
	l.mu.Unlock()

	for _, u := range unsubs {
		u()
	}
}

func (l *lifecycle) mountCtx() context.Context {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.ctx == nil {
		return context.Background()
	}
	return l.ctx
}

func (l *lifecycle) mounted() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.unsubs != nil
}
