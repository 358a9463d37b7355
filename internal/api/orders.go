package api

import (
	"context"
	"encoding/json"
	"net/http"

	"storefront/internal/domain/model"
)

type OrderRequest struct {
	Items         []model.OrderItem   `json:"items"`
	PaymentMethod model.PaymentMethod `json:"paymentMethod"`
	Address       string              `json:"address"`
}

type OrderResponse struct {
	Message string          `json:"message,omitempty"`
	Order   json.RawMessage `json:"order,omitempty"`
}

// POST /orders
func (c *Client) PlaceOrder(ctx context.Context, token string, in OrderRequest) (OrderResponse, error) {
	var out OrderResponse
	if err := c.doJSON(ctx, http.MethodPost, "/orders", token, in, &out); err != nil {
		return OrderResponse{}, err
	}
	return out, nil
}
