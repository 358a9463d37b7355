package model

import "github.com/shopspring/decimal"

// カートの明細
// JSONのキーは保存済みデータ（_id, imageurl）と合わせる。
type LineItem struct {
	ProductID string          `json:"_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	ImageURL  string          `json:"imageurl,omitempty"`
	Seller    string          `json:"seller,omitempty"`
}

func (it LineItem) Subtotal() decimal.Decimal {
	return it.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))
}

// 保存しておけない明細か
func (it LineItem) Valid() bool {
	return it.ProductID != "" && it.Quantity >= 1 && !it.Price.IsNegative()
}
