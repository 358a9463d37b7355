package handler

import (
	"net/http"

	"storefront/internal/domain/model"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// /products と レビューのHTTP
type ProductHandler struct {
	hub    ClientResolver
	logger *zap.Logger
}

// DI
func NewProductHandler(hub ClientResolver, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{hub: hub, logger: orNop(logger)}
}

type ProductListResponse struct {
	Products   []model.Product `json:"products"`
	Categories []string        `json:"categories"`
}

type addReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// 商品のルートを登録
func (h *ProductHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/products", h.list)
	g.GET("/products/:id", h.detail)
	g.GET("/products/:id/reviews", h.reviews)
	g.POST("/products/:id/reviews", h.addReview)
	g.POST("/products/:id/reviews/:rid/helpful", h.helpful)
}

// ?q=&category=&price=
func (h *ProductHandler) list(c echo.Context) error {
	sf, release, err := storefrontFor(c, h.hub)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	defer release()

	ctx := c.Request().Context()
	products, err := sf.Products.List(ctx, usecase.ProductQuery{
		Search:   c.QueryParam("q"),
		Category: c.QueryParam("category"),
		Price:    usecase.PriceRange(c.QueryParam("price")),
	})
	if err != nil {
		return writeError(c, h.logger, err)
	}

	categories, err := sf.Products.Categories(ctx)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, ProductListResponse{Products: products, Categories: categories})
}

func (h *ProductHandler) detail(c echo.Context) error {
	sf, release, err := storefrontFor(c, h.hub)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	defer release()

	out, err := sf.Products.Detail(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ProductHandler) reviews(c echo.Context) error {
	sf, release, err := storefrontFor(c, h.hub)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	defer release()

	out, err := sf.Reviews.List(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ProductHandler) addReview(c echo.Context) error {
	sf, release, err := storefrontFor(c, h.hub)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	defer release()

	var req addReviewRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := sf.Reviews.Add(c.Request().Context(), c.Param("id"), req.Rating, req.Comment)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *ProductHandler) helpful(c echo.Context) error {
	sf, release, err := storefrontFor(c, h.hub)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	defer release()

	out, err := sf.Reviews.MarkHelpful(c.Request().Context(), c.Param("id"), c.Param("rid"))
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(http.StatusOK, out)
}
