// Package watch bridges writes made by other processes to the local SQLite
// profile onto an in-process bus, so views opened in one terminal follow cart
// and login changes made from another.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"storefront/internal/event"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const DefaultDebounce = 100 * time.Millisecond

type Notifier interface {
	Notify(topic event.Topic)
}

// Watcher はSQLiteファイル（本体と-wal）の書き込みを見張る
type Watcher struct {
	fs       *fsnotify.Watcher
	files    map[string]bool
	notifier Notifier
	debounce time.Duration
	logger   *zap.Logger
}

func New(dbPath string, notifier Notifier, debounce time.Duration, logger *zap.Logger) (*Watcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	abs, err := filepath.Abs(dbPath)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", dbPath, err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	// ファイルはWALで作り直されることがあるのでディレクトリを見る
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	return &Watcher{
		fs:       fw,
		files:    map[string]bool{abs: true, abs + "-wal": true},
		notifier: notifier,
		debounce: debounce,
		logger:   logger.Named("watch"),
	}, nil
}

// Run はctxが終わるまでブロックする。終了時にwatcherを閉じる。
func (w *Watcher) Run(ctx context.Context) error {
	defer func() { _ = w.fs.Close() }()

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if !w.relevant(ev) {
				continue
			}
			// 連続した書き込みは1回にまとめる
			if fire == nil {
				timer = time.NewTimer(w.debounce)
				fire = timer.C
			}

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", zap.Error(err))

		case <-fire:
			fire = nil
			timer = nil
			w.logger.Debug("store changed on disk")
			w.notifier.Notify(event.TopicCart)
			w.notifier.Notify(event.TopicSession)
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
		return false
	}
	name, err := filepath.Abs(ev.Name)
	if err != nil {
		return false
	}
	return w.files[name]
}
