package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	repo "storefront/internal/repository"
)

// ローカルプロファイルのSQLiteファイル上のKV
type KVSQLiteRepository struct {
	db        *sql.DB
	namespace string
}

// DI
func NewKVSQLiteRepository(db *sql.DB) *KVSQLiteRepository {
	return &KVSQLiteRepository{db: db}
}

func (r *KVSQLiteRepository) Namespace(ns string) repo.KVRepository {
	return &KVSQLiteRepository{db: r.db, namespace: ns}
}

func (r *KVSQLiteRepository) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx,
		`SELECT value FROM kv_entries WHERE namespace = ? AND key = ?`,
		r.namespace, key,
	).Scan(&value)

	if errors.Is(err, sql.ErrNoRows) {
		return "", repo.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get %s: %w", key, err)
	}
	return value, nil
}

func (r *KVSQLiteRepository) Set(ctx context.Context, key string, value string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO kv_entries (namespace, key, value, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(namespace, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		r.namespace, key, value, time.Now().UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

func (r *KVSQLiteRepository) Delete(ctx context.Context, key string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM kv_entries WHERE namespace = ? AND key = ?`,
		r.namespace, key,
	)
	if err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}
