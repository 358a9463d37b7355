package usecase

import (
	"context"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"storefront/internal/domain/model"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
)

// リモートの商品一覧
type CatalogAPI interface {
	Products(ctx context.Context) ([]model.Product, error)
}

// 価格帯
type PriceRange string

const (
	PriceAll       PriceRange = "all"
	PriceUnder500  PriceRange = "under500"
	Price500To1000 PriceRange = "500-1000"
	PriceOver1000  PriceRange = "over1000"
)

func (r PriceRange) Valid() bool {
	switch r {
	case "", PriceAll, PriceUnder500, Price500To1000, PriceOver1000:
		return true
	default:
		return false
	}
}

var (
	price500  = decimal.NewFromInt(500)
	price1000 = decimal.NewFromInt(1000)
)

func (r PriceRange) match(p decimal.Decimal) bool {
	switch r {
	case PriceUnder500:
		return p.LessThan(price500)
	case Price500To1000:
		return p.GreaterThanOrEqual(price500) && p.LessThanOrEqual(price1000)
	case PriceOver1000:
		return p.GreaterThan(price1000)
	default:
		return true
	}
}

// 一覧の絞り込み
type ProductQuery struct {
	Search   string
	Category string
	Price    PriceRange
}

type ProductDetail struct {
	Product model.Product   `json:"product"`
	Similar []model.Product `json:"similar"`
}

// 類似商品の最大数
const similarLimit = 4

// ProductUsecase は商品一覧を短時間キャッシュして絞り込む。
type ProductUsecase struct {
	catalog  CatalogAPI
	clock    Clock
	cacheTTL time.Duration

	mu        sync.Mutex
	cached    []model.Product
	fetchedAt time.Time
}

// DI
func NewProductUsecase(catalog CatalogAPI, clock Clock, cacheTTL time.Duration) *ProductUsecase {
	if clock == nil {
		clock = SystemClock{}
	}
	return &ProductUsecase{
		catalog:  catalog,
		clock:    clock,
		cacheTTL: cacheTTL,
	}
}

func (u *ProductUsecase) all(ctx context.Context) ([]model.Product, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	now := u.clock.Now()
	if u.cached != nil && u.cacheTTL > 0 && now.Sub(u.fetchedAt) < u.cacheTTL {
		return u.cached, nil
	}

	products, err := u.catalog.Products(ctx)
	if err != nil {
		return nil, remoteError(err)
	}
	u.cached = products
	u.fetchedAt = now
	return products, nil
}

// List は名前の部分一致（大文字小文字無視）・カテゴリ・価格帯で絞り込む。
func (u *ProductUsecase) List(ctx context.Context, q ProductQuery) ([]model.Product, error) {
	if !q.Price.Valid() {
		return nil, NewHTTPError(http.StatusBadRequest, "invalid price filter")
	}

	products, err := u.all(ctx)
	if err != nil {
		return nil, err
	}

	fold := cases.Fold()
	search := fold.String(strings.TrimSpace(q.Search))

	out := make([]model.Product, 0, len(products))
	for _, p := range products {
		if search != "" && !strings.Contains(fold.String(p.Name), search) {
			continue
		}
		if q.Category != "" && q.Category != "all" && p.Category != q.Category {
			continue
		}
		if !q.Price.match(p.Price) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (u *ProductUsecase) Find(ctx context.Context, id string) (model.Product, error) {
	products, err := u.all(ctx)
	if err != nil {
		return model.Product{}, err
	}
	for _, p := range products {
		if p.ID == id {
			return p, nil
		}
	}
	return model.Product{}, NewHTTPError(http.StatusNotFound, "product not found")
}

// Detail は商品と同じカテゴリの他の商品
func (u *ProductUsecase) Detail(ctx context.Context, id string) (ProductDetail, error) {
	products, err := u.all(ctx)
	if err != nil {
		return ProductDetail{}, err
	}

	var (
		found   bool
		current model.Product
	)
	for _, p := range products {
		if p.ID == id {
			current, found = p, true
			break
		}
	}
	if !found {
		return ProductDetail{}, NewHTTPError(http.StatusNotFound, "product not found")
	}

	similar := make([]model.Product, 0, similarLimit)
	for _, p := range products {
		if len(similar) == similarLimit {
			break
		}
		if p.Category == current.Category && p.ID != current.ID {
			similar = append(similar, p)
		}
	}
	return ProductDetail{Product: current, Similar: similar}, nil
}

// カートに入れられる商品（在庫切れは不可）
func (u *ProductUsecase) ForCart(ctx context.Context, id string) (model.Product, error) {
	p, err := u.Find(ctx, id)
	if err != nil {
		return model.Product{}, err
	}
	if !p.InStock {
		return model.Product{}, NewHTTPError(http.StatusConflict, "product is out of stock")
	}
	return p, nil
}

func (u *ProductUsecase) Categories(ctx context.Context) ([]string, error) {
	products, err := u.all(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	out := make([]string, 0)
	for _, p := range products {
		if p.Category == "" || seen[p.Category] {
			continue
		}
		seen[p.Category] = true
		out = append(out, p.Category)
	}
	sort.Strings(out)
	return out, nil
}
