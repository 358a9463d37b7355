package model

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	// 数量が1未満
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	// カートに無い商品
	ErrItemNotFound = errors.New("item not in cart")
)

// AddOutcomeは追加結果（新規か数量加算か）
type AddOutcome int

const (
	AddOutcomeAdded AddOutcome = iota + 1
	AddOutcomeQuantityUpdated
)

// ユーザーに見せる文言
func (o AddOutcome) Message() string {
	switch o {
	case AddOutcomeAdded:
		return "Added to cart"
	case AddOutcomeQuantityUpdated:
		return "Item quantity updated in cart"
	default:
		return ""
	}
}

// Cartは商品IDで一意なLineItemの並び。
// 永続化された値が唯一の正で、メモリ上のCartはスナップショット。
type Cart struct {
	Items []LineItem
}

// 空のカート
func EmptyCart() Cart {
	return Cart{Items: []LineItem{}}
}

// 商品IDの位置を返す
func (c Cart) Find(productID string) (int, bool) {
	for i, it := range c.Items {
		if it.ProductID == productID {
			return i, true
		}
	}
	return -1, false
}

// 合計金額（空なら0）
func (c Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range c.Items {
		total = total.Add(it.Subtotal())
	}
	return total
}

// 数量の合計（ナビのバッジ用）
func (c Cart) Count() int {
	n := 0
	for _, it := range c.Items {
		n += it.Quantity
	}
	return n
}

func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

func (c Cart) clone() Cart {
	items := make([]LineItem, len(c.Items))
	copy(items, c.Items)
	return Cart{Items: items}
}

// AddItemは同一商品なら数量+1、無ければ数量1で末尾に追加する。
// 引数のcartは変更しない。
func AddItem(cart Cart, p Product) (Cart, AddOutcome) {
	next := cart.clone()

	if i, ok := next.Find(p.ID); ok {
		next.Items[i].Quantity++
		return next, AddOutcomeQuantityUpdated
	}

	next.Items = append(next.Items, LineItem{
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Quantity:  1,
		ImageURL:  p.ImageURL,
		Seller:    p.Seller,
	})
	return next, AddOutcomeAdded
}

// SetQuantityは数量を置き換える。1未満は削除せずに拒否。
func SetQuantity(cart Cart, productID string, quantity int) (Cart, error) {
	if quantity < 1 {
		return cart, ErrInvalidQuantity
	}

	i, ok := cart.Find(productID)
	if !ok {
		return cart, ErrItemNotFound
	}

	next := cart.clone()
	next.Items[i].Quantity = quantity
	return next, nil
}

// RemoveItemは該当明細を消す。無ければそのまま。
func RemoveItem(cart Cart, productID string) Cart {
	next := Cart{Items: make([]LineItem, 0, len(cart.Items))}
	for _, it := range cart.Items {
		if it.ProductID != productID {
			next.Items = append(next.Items, it)
		}
	}
	return next
}

func ClearCart() Cart {
	return EmptyCart()
}
