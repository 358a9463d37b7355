package handler

import (
	"net/http"

	"storefront/internal/domain/model"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// /checkout のHTTP
type CheckoutHandler struct {
	hub    ClientResolver
	logger *zap.Logger
}

func NewCheckoutHandler(hub ClientResolver, logger *zap.Logger) *CheckoutHandler {
	return &CheckoutHandler{hub: hub, logger: orNop(logger)}
}

type placeOrderRequest struct {
	PaymentMethod string `json:"paymentMethod"`
	Address       string `json:"address"`
}

type buyNowRequest struct {
	Quantity int `json:"quantity"`
}

func (h *CheckoutHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/checkout/begin", h.begin)
	g.GET("/checkout", h.summary)
	g.POST("/checkout/orders", h.placeOrder)
	g.POST("/products/:id/buy-now", h.buyNow)
}

// 未ログインなら next=/login（意図は保存済み）
func (h *CheckoutHandler) begin(c echo.Context) error {
	sf, release, err := storefrontFor(c, h.hub)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	defer release()

	next, err := sf.Checkout.Begin(c.Request().Context())
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, NextResponse{Next: next})
}

func (h *CheckoutHandler) summary(c echo.Context) error {
	sf, release, err := storefrontFor(c, h.hub)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	defer release()

	out, err := sf.Checkout.Summary(c.Request().Context())
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CheckoutHandler) placeOrder(c echo.Context) error {
	sf, release, err := storefrontFor(c, h.hub)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	defer release()

	var req placeOrderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := sf.Checkout.PlaceOrder(c.Request().Context(), usecase.PlaceOrderInput{
		PaymentMethod: model.PaymentMethod(req.PaymentMethod),
		Address:       req.Address,
	})
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(http.StatusCreated, out)
}

// POST /products/:id/buy-now （quantity省略時は1）
func (h *CheckoutHandler) buyNow(c echo.Context) error {
	sf, release, err := storefrontFor(c, h.hub)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	defer release()

	req := buyNowRequest{Quantity: 1}
	if c.Request().ContentLength > 0 {
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
		}
	}

	ctx := c.Request().Context()
	p, err := sf.Products.Find(ctx, c.Param("id"))
	if err != nil {
		return writeError(c, h.logger, err)
	}

	next, err := sf.Checkout.BuyNow(ctx, p, req.Quantity)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, NextResponse{Next: next})
}
