package view

import (
	"context"
	"sync"

	"storefront/internal/event"
)

type NavBadgeSnapshot struct {
	Count    int    `json:"count"`
	LoggedIn bool   `json:"loggedIn"`
	UserName string `json:"userName,omitempty"`
}

// NavBadge はヘッダーのカート件数とログイン表示
type NavBadge struct {
	lifecycle
	carts    CartSource
	sessions SessionSource
	bus      Subscriber

	mu   sync.RWMutex
	snap NavBadgeSnapshot

	// 再描画（任意）
	OnRender func(NavBadgeSnapshot)
}

func NewNavBadge(carts CartSource, sessions SessionSource, bus Subscriber) *NavBadge {
	return &NavBadge{carts: carts, sessions: sessions, bus: bus}
}

func (v *NavBadge) Mount(ctx context.Context) {
	v.mount(ctx, v.bus, v.refresh, event.TopicCart, event.TopicSession)
}

func (v *NavBadge) Unmount() {
	v.unmount()
}

func (v *NavBadge) Snapshot() NavBadgeSnapshot {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.snap
}

func (v *NavBadge) refresh() {
	ctx := v.mountCtx()
	snap := NavBadgeSnapshot{Count: v.carts.Load(ctx).Count()}
	if sess, ok := v.sessions.Current(ctx); ok {
		snap.LoggedIn = true
		snap.UserName = sess.User.Name
	}

	v.mu.Lock()
	v.snap = snap
	v.mu.Unlock()

	if v.OnRender != nil {
		v.OnRender(snap)
	}
}
