package model

import "time"

// クライアントごとのローカルストレージ1件。
// (namespace, key) で一意。
type KVEntry struct {
	Namespace string    `gorm:"primaryKey;type:varchar(64)" json:"namespace"`
	Key       string    `gorm:"primaryKey;type:varchar(64)" json:"key"`
	Value     string    `gorm:"type:text;not null" json:"value"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (KVEntry) TableName() string {
	return "kv_entries"
}
