package model

import "time"

// 未ログインでチェックアウトしようとした記録。
// ログイン後に一度だけ読まれて消える。
type CheckoutIntent struct {
	CreatedAt time.Time `json:"createdAt"`
}

// ttl<=0なら期限なし
func (i CheckoutIntent) Expired(now time.Time, ttl time.Duration) bool {
	if ttl <= 0 {
		return false
	}
	return now.Sub(i.CreatedAt) > ttl
}
