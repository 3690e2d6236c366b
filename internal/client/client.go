// Package client is a typed HTTP client for the storefront API. It
// implements the persistence boundary the cart store drives, surfacing
// server error messages verbatim so callers can display them directly.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"neon-market/internal/model"

	"github.com/google/uuid"
)

// defaultTimeout bounds every call so a hung request resolves to a
// retryable error instead of leaving the caller loading forever.
const defaultTimeout = 15 * time.Second

// Client talks to the storefront API with a bearer session token.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the per-call timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// New creates a client for the API at baseURL authenticating with token.
func New(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// do issues a request and decodes the response into out (when non-nil).
// Non-2xx responses are decoded as error payloads.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reqBody = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// decodeError turns an error response into a Go error carrying the server's
// message verbatim. Insufficient-balance responses keep their required and
// available amounts.
func decodeError(resp *http.Response) error {
	var payload model.ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil || payload.Error == "" {
		return fmt.Errorf("request failed with status %d", resp.StatusCode)
	}

	if payload.Required != nil && payload.Available != nil {
		return &model.InsufficientBalanceError{
			Required:  *payload.Required,
			Available: *payload.Available,
		}
	}

	return &model.DomainError{Code: codeForStatus(resp.StatusCode), Message: payload.Error}
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusUnauthorized:
		return model.ErrCodeUnauthorised
	case http.StatusForbidden:
		return model.ErrCodeForbidden
	case http.StatusNotFound:
		return model.ErrCodeNotFound
	case http.StatusBadRequest:
		return model.ErrCodeValidation
	default:
		return model.ErrCodeInternalError
	}
}

// FetchCart retrieves the user's cart lines.
func (c *Client) FetchCart(ctx context.Context) ([]model.CartItem, error) {
	var resp model.CartResponse
	if err := c.do(ctx, http.MethodGet, "/api/cart", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// AddToCart adds quantity of a product and returns the confirmed line.
func (c *Client) AddToCart(ctx context.Context, productID uuid.UUID, quantity int) (*model.CartItem, error) {
	req := model.AddToCartRequest{ProductID: productID, Quantity: quantity}
	var resp model.CartItemResponse
	if err := c.do(ctx, http.MethodPost, "/api/cart", req, &resp); err != nil {
		return nil, err
	}
	return &resp.Item, nil
}

// UpdateCartItem replaces a line's quantity and returns the confirmed line.
func (c *Client) UpdateCartItem(ctx context.Context, itemID uuid.UUID, quantity int) (*model.CartItem, error) {
	req := model.UpdateCartItemRequest{Quantity: quantity}
	var resp model.CartItemResponse
	if err := c.do(ctx, http.MethodPut, "/api/cart/items/"+itemID.String(), req, &resp); err != nil {
		return nil, err
	}
	return &resp.Item, nil
}

// RemoveCartItem deletes a single line.
func (c *Client) RemoveCartItem(ctx context.Context, itemID uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/api/cart/items/"+itemID.String(), nil, nil)
}

// ClearCart empties the cart.
func (c *Client) ClearCart(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/api/cart", nil, nil)
}

// Purchase executes the purchase transaction and returns the created order.
func (c *Client) Purchase(ctx context.Context) (*model.Order, error) {
	var resp model.OrderResponse
	if err := c.do(ctx, http.MethodPost, "/api/purchase", nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Order, nil
}

// Balance returns the user's current balance from their profile.
func (c *Client) Balance(ctx context.Context) (float64, error) {
	var resp model.ProfileResponse
	if err := c.do(ctx, http.MethodGet, "/api/profile", nil, &resp); err != nil {
		return 0, err
	}
	return resp.User.Balance, nil
}

// Products retrieves a page of the public catalogue.
func (c *Client) Products(ctx context.Context, limit, offset int, search string) (*model.ProductListResponse, error) {
	path := fmt.Sprintf("/api/products?limit=%d&offset=%d", limit, offset)
	if search != "" {
		path += "&search=" + url.QueryEscape(search)
	}
	var resp model.ProductListResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Orders retrieves the user's order history.
func (c *Client) Orders(ctx context.Context) ([]model.Order, error) {
	var resp model.OrderListResponse
	if err := c.do(ctx, http.MethodGet, "/api/orders", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Orders, nil
}

// Order retrieves a single order.
func (c *Client) Order(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	var resp model.OrderResponse
	if err := c.do(ctx, http.MethodGet, "/api/orders/"+id.String(), nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Order, nil
}

// PurchasedProducts retrieves redeemed goods, optionally filtered by order.
func (c *Client) PurchasedProducts(ctx context.Context, orderID *uuid.UUID) ([]model.PurchasedProduct, error) {
	path := "/api/purchased-products"
	if orderID != nil {
		path += "?orderId=" + orderID.String()
	}
	var resp model.PurchasedProductListResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Products, nil
}

// UpdatePurchasedStatus toggles a redemption code's status.
func (c *Client) UpdatePurchasedStatus(ctx context.Context, id uuid.UUID, status string) (*model.PurchasedProduct, error) {
	req := model.UpdatePurchasedStatusRequest{Status: status}
	var resp model.PurchasedProductResponse
	if err := c.do(ctx, http.MethodPut, "/api/purchased-products/"+id.String(), req, &resp); err != nil {
		return nil, err
	}
	return &resp.Product, nil
}

// Logout revokes the session token.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
}
