package repository

import (
	"context"
	"errors"
	"time"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Postgres上のkv_entries（サーバー運用向け）
type KVGormRepository struct {
	db        *gorm.DB
	namespace string
}

// DI
func NewKVGormRepository(db *gorm.DB) *KVGormRepository {
	return &KVGormRepository{db: db}
}

// 同じDBを使って名前空間だけ変える
func (r *KVGormRepository) Namespace(ns string) repo.KVRepository {
	return &KVGormRepository{db: r.db, namespace: ns}
}

func (r *KVGormRepository) Get(ctx context.Context, key string) (string, error) {
	var entry model.KVEntry

	err := r.db.WithContext(ctx).
		Where("namespace = ? AND key = ?", r.namespace, key).
		First(&entry).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", repo.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return entry.Value, nil
}

// 同じキーは上書き
func (r *KVGormRepository) Set(ctx context.Context, key string, value string) error {
	entry := model.KVEntry{
		Namespace: r.namespace,
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now(),
	}

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "namespace"}, {Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&entry).Error
}

// 無いキーの削除はエラーにしない
func (r *KVGormRepository) Delete(ctx context.Context, key string) error {
	return r.db.WithContext(ctx).
		Where("namespace = ? AND key = ?", r.namespace, key).
		Delete(&model.KVEntry{}).Error
}
