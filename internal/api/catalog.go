package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"storefront/internal/domain/model"
)

type productsResponse struct {
	Products []model.Product `json:"products"`
}

type reviewsResponse struct {
	Reviews []model.Review `json:"reviews"`
}

type AddReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

// GET /home_Products
func (c *Client) Products(ctx context.Context) ([]model.Product, error) {
	var out productsResponse
	if err := c.doJSON(ctx, http.MethodGet, "/home_Products", "", nil, &out); err != nil {
		return nil, err
	}
	if out.Products == nil {
		return []model.Product{}, nil
	}
	return out.Products, nil
}

// GET /home_Products/{id}/reviews
func (c *Client) Reviews(ctx context.Context, productID string) ([]model.Review, error) {
	var out reviewsResponse
	path := fmt.Sprintf("/home_Products/%s/reviews", url.PathEscape(productID))
	if err := c.doJSON(ctx, http.MethodGet, path, "", nil, &out); err != nil {
		return nil, err
	}
	if out.Reviews == nil {
		return []model.Review{}, nil
	}
	return out.Reviews, nil
}

// POST /home_Products/{id}/reviews
func (c *Client) AddReview(ctx context.Context, token, productID string, in AddReviewRequest) error {
	path := fmt.Sprintf("/home_Products/%s/reviews", url.PathEscape(productID))
	return c.doJSON(ctx, http.MethodPost, path, token, in, nil)
}

// POST /home_Products/{id}/reviews/{rid}/helpful
func (c *Client) MarkReviewHelpful(ctx context.Context, token, productID, reviewID string) error {
	path := fmt.Sprintf("/home_Products/%s/reviews/%s/helpful", url.PathEscape(productID), url.PathEscape(reviewID))
	return c.doJSON(ctx, http.MethodPost, path, token, nil, nil)
}
