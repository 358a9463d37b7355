package model

import "github.com/shopspring/decimal"

// 外部APIの商品
type Product struct {
	ID            string          `json:"_id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Category      string          `json:"category"`
	Price         decimal.Decimal `json:"price"`
	OriginalPrice decimal.Decimal `json:"originalPrice"`
	ImageURL      string          `json:"imageurl"`
	InStock       bool            `json:"inStock"`
	Stock         int64           `json:"stock"`
	Seller        string          `json:"seller"`
	IsBestSeller  bool            `json:"isBestSeller"`
}
