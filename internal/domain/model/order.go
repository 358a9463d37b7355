package model

import "time"

type PaymentMethod string

const (
	PaymentCashOnDelivery PaymentMethod = "Cash On Delivery"
	PaymentOnline         PaymentMethod = "Online Payment"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCashOnDelivery, PaymentOnline:
		return true
	default:
		return false
	}
}

// 注文APIに送る明細
type OrderItem struct {
	Product  string `json:"product"`
	Seller   string `json:"seller"`
	Quantity int    `json:"quantity"`
}

// 商品ページ→チェックアウトへの受け渡し（今すぐ購入）
type OrderDetails struct {
	Items     []LineItem `json:"items"`
	CreatedAt time.Time  `json:"createdAt"`
}

// ttl<=0なら期限なし
func (d OrderDetails) Expired(now time.Time, ttl time.Duration) bool {
	if ttl <= 0 {
		return false
	}
	return now.Sub(d.CreatedAt) > ttl
}

// LineItemから注文明細を作る
func OrderItemsFrom(items []LineItem) []OrderItem {
	out := make([]OrderItem, 0, len(items))
	for _, it := range items {
		out = append(out, OrderItem{
			Product:  it.ProductID,
			Seller:   it.Seller,
			Quantity: it.Quantity,
		})
	}
	return out
}
