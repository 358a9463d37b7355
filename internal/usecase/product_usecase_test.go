package usecase

import (
	"context"
	"net/http"
	"testing"
	"time"

	"storefront/internal/api"
	"storefront/internal/domain/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func catalogFixture() []model.Product {
	lamp := product("p1", 300)
	lamp.Name = "Desk Lamp"
	floor := product("p2", 800)
	floor.Name = "Floor LAMP"
	chair := product("p3", 1500)
	chair.Name = "Office Chair"
	chair.Category = "chairs"
	sold := product("p4", 200)
	sold.Name = "Tiny lamp"
	sold.InStock = false
	return []model.Product{lamp, floor, chair, sold}
}

func TestProducts_ListFilters(t *testing.T) {
	catalog := new(MockCatalogAPI)
	catalog.On("Products", mock.Anything).Return(catalogFixture(), nil)
	uc := NewProductUsecase(catalog, nil, time.Minute)
	ctx := context.Background()

	got, err := uc.List(ctx, ProductQuery{Search: "lamp"})
	require.NoError(t, err)
	assert.Equal(t, []string{"p1", "p2", "p4"}, productIDs(got))

	got, err = uc.List(ctx, ProductQuery{Category: "chairs"})
	require.NoError(t, err)
	assert.Equal(t, []string{"p3"}, productIDs(got))

	got, err = uc.List(ctx, ProductQuery{Price: Price500To1000})
	require.NoError(t, err)
	assert.Equal(t, []string{"p2"}, productIDs(got))

	got, err = uc.List(ctx, ProductQuery{Search: "LAMP", Price: PriceUnder500, Category: "all"})
	require.NoError(t, err)
	assert.Equal(t, []string{"p1", "p4"}, productIDs(got))

	_, err = uc.List(ctx, ProductQuery{Price: "cheap"})
	assert.Error(t, err)

	// キャッシュが効いている
	catalog.AssertNumberOfCalls(t, "Products", 1)
}

func TestProducts_CacheExpires(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	catalog := new(MockCatalogAPI)
	catalog.On("Products", mock.Anything).Return(catalogFixture(), nil)
	uc := NewProductUsecase(catalog, clock, time.Minute)

	_, _ = uc.List(context.Background(), ProductQuery{})
	clock.Advance(2 * time.Minute)
	_, _ = uc.List(context.Background(), ProductQuery{})

	catalog.AssertNumberOfCalls(t, "Products", 2)
}

func TestProducts_DetailAndSimilar(t *testing.T) {
	catalog := new(MockCatalogAPI)
	catalog.On("Products", mock.Anything).Return(catalogFixture(), nil)
	uc := NewProductUsecase(catalog, nil, time.Minute)

	d, err := uc.Detail(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "Desk Lamp", d.Product.Name)
	assert.Equal(t, []string{"p2", "p4"}, productIDs(d.Similar))

	_, err = uc.Detail(context.Background(), "missing")
	he, ok := AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, he.Status)
}

func TestProducts_ForCartRejectsOutOfStock(t *testing.T) {
	catalog := new(MockCatalogAPI)
	catalog.On("Products", mock.Anything).Return(catalogFixture(), nil)
	uc := NewProductUsecase(catalog, nil, time.Minute)

	_, err := uc.ForCart(context.Background(), "p4")
	he, ok := AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusConflict, he.Status)

	p, err := uc.ForCart(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "p1", p.ID)
}

func TestProducts_Categories(t *testing.T) {
	catalog := new(MockCatalogAPI)
	catalog.On("Products", mock.Anything).Return(catalogFixture(), nil)

	got, err := NewProductUsecase(catalog, nil, 0).Categories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"chairs", "lamps"}, got)
}

func TestProducts_RemoteFailure(t *testing.T) {
	catalog := new(MockCatalogAPI)
	catalog.On("Products", mock.Anything).Return(nil, api.ErrUnreachable)

	_, err := NewProductUsecase(catalog, nil, time.Minute).List(context.Background(), ProductQuery{})
	he, ok := AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadGateway, he.Status)
}

func productIDs(ps []model.Product) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.ID)
	}
	return out
}
