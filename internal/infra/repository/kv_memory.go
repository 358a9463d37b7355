package repository

import (
	"context"
	"sync"

	repo "storefront/internal/repository"
)

type memoryData struct {
	mu      sync.RWMutex
	entries map[string]map[string]string
}

// プロセス内だけのKV（テスト・STORE_DRIVER=memory）
type KVMemoryRepository struct {
	data      *memoryData
	namespace string
}

func NewKVMemoryRepository() *KVMemoryRepository {
	return &KVMemoryRepository{
		data: &memoryData{entries: make(map[string]map[string]string)},
	}
}

func (r *KVMemoryRepository) Namespace(ns string) repo.KVRepository {
	return &KVMemoryRepository{data: r.data, namespace: ns}
}

func (r *KVMemoryRepository) Get(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	r.data.mu.RLock()
	defer r.data.mu.RUnlock()

	v, ok := r.data.entries[r.namespace][key]
	if !ok {
		return "", repo.ErrNotFound
	}
	return v, nil
}

func (r *KVMemoryRepository) Set(ctx context.Context, key string, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.data.mu.Lock()
	defer r.data.mu.Unlock()

	ns, ok := r.data.entries[r.namespace]
	if !ok {
		ns = make(map[string]string)
		r.data.entries[r.namespace] = ns
	}
	ns[key] = value
	return nil
}

func (r *KVMemoryRepository) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.data.mu.Lock()
	defer r.data.mu.Unlock()

	delete(r.data.entries[r.namespace], key)
	return nil
}
