// Package event is the in-process change notification bus.
//
// Signals carry no payload: a listener that receives one re-reads the
// persisted state it cares about.
package event

import "sync"

type Topic string

const (
	// 永続化されたカートが変わった
	TopicCart Topic = "cart"
	// token / プロフィールが変わった（ログイン・ログアウト・失効）
	TopicSession Topic = "session"
)

type Listener func()

type subscription struct {
	id uint64
	fn Listener
}

// Busはタブ（クライアント）単位の通知。
type Bus struct {
	mu     sync.Mutex
	nextID uint64
	subs   map[Topic][]subscription
}

func NewBus() *Bus {
	return &Bus{subs: make(map[Topic][]subscription)}
}

// Subscribeは登録を解除する関数を返す。解除は何度呼んでもよい。
func (b *Bus) Subscribe(topic Topic, fn Listener) func() {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subs[topic] = append(b.subs[topic], subscription{id: id, fn: fn})
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { b.remove(topic, id) })
	}
}

func (b *Bus) remove(topic Topic, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.subs[topic]
	for i, s := range subs {
		if s.id == id {
			next := make([]subscription, 0, len(subs)-1)
			next = append(next, subs[:i]...)
			next = append(next, subs[i+1:]...)
			b.subs[topic] = next
			return
		}
	}
}

// Notifyは登録順に同期で呼ぶ。
// 呼び出し時点のリスナー一覧を使うので、リスナー内で解除・登録してもよい。
func (b *Bus) Notify(topic Topic) {
	b.mu.Lock()
	subs := b.subs[topic]
	b.mu.Unlock()

	for _, s := range subs {
		s.fn()
	}
}

// SubscribeChanはgoroutine側で受けるための購読。
// どのトピックでも同じチャネルに1件だけ溜め、遅い受け手には通知をまとめる。
func (b *Bus) SubscribeChan(topics ...Topic) (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)
	signal := func() {
		select {
		case ch <- struct{}{}:
		default:
		}
	}

	unsubs := make([]func(), 0, len(topics))
	for _, topic := range topics {
		unsubs = append(unsubs, b.Subscribe(topic, signal))
	}

	return ch, func() {
		for _, u := range unsubs {
			u()
		}
	}
}

// 登録数（テスト・デバッグ用）
func (b *Bus) Listeners(topic Topic) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs[topic])
}
