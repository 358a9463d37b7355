package handler

import (
	"net/http"

	"storefront/internal/domain/model"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// /cartのHTTP
type CartHandler struct {
	hub    ClientResolver
	logger *zap.Logger
}

// DI
func NewCartHandler(hub ClientResolver, logger *zap.Logger) *CartHandler {
	return &CartHandler{hub: hub, logger: orNop(logger)}
}

type AddCartRequest struct {
	ProductID string `json:"productId"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

type CartResponse struct {
	Items []model.LineItem `json:"items"`
	Total decimal.Decimal  `json:"total"`
	Count int              `json:"count"`
}

type AddCartResponse struct {
	Cart    CartResponse `json:"cart"`
	Outcome string       `json:"outcome"`
	Message string       `json:"message"`
}

func toCartResponse(cart model.Cart) CartResponse {
	items := cart.Items
	if items == nil {
		items = []model.LineItem{}
	}
	return CartResponse{Items: items, Total: cart.Total(), Count: cart.Count()}
}

func outcomeName(o model.AddOutcome) string {
	if o == model.AddOutcomeQuantityUpdated {
		return "quantity_updated"
	}
	return "added"
}

// /cart, /cart/items/:id を登録
func (h *CartHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/cart", h.getCart)
	g.DELETE("/cart", h.clearCart)
	g.POST("/cart/items", h.addItem)
	g.PATCH("/cart/items/:id", h.patchItem)
	g.DELETE("/cart/items/:id", h.deleteItem)
}

func (h *CartHandler) getCart(c echo.Context) error {
	sf, release, err := storefrontFor(c, h.hub)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	defer release()
	return c.JSON(http.StatusOK, toCartResponse(sf.Cart.Load(c.Request().Context())))
}

// 商品IDだけ受け取り、価格などはカタログから引く
func (h *CartHandler) addItem(c echo.Context) error {
	sf, release, err := storefrontFor(c, h.hub)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	defer release()

	var req AddCartRequest
	if err := c.Bind(&req); err != nil || req.ProductID == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	ctx := c.Request().Context()
	p, err := sf.Products.ForCart(ctx, req.ProductID)
	if err != nil {
		return writeError(c, h.logger, err)
	}

	res, err := sf.Cart.AddItem(ctx, p)
	if err != nil {
		return writeError(c, h.logger, err)
	}

	return c.JSON(http.StatusOK, AddCartResponse{
		Cart:    toCartResponse(res.Cart),
		Outcome: outcomeName(res.Outcome),
		Message: res.Message,
	})
}

func (h *CartHandler) patchItem(c echo.Context) error {
	sf, release, err := storefrontFor(c, h.hub)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	defer release()

	var req UpdateCartItemRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	cart, err := sf.Cart.SetQuantity(c.Request().Context(), c.Param("id"), req.Quantity)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, toCartResponse(cart))
}

func (h *CartHandler) deleteItem(c echo.Context) error {
	sf, release, err := storefrontFor(c, h.hub)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	defer release()

	cart, err := sf.Cart.RemoveItem(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, toCartResponse(cart))
}

func (h *CartHandler) clearCart(c echo.Context) error {
	sf, release, err := storefrontFor(c, h.hub)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	defer release()

	cart, err := sf.Cart.Clear(c.Request().Context())
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, toCartResponse(cart))
}
