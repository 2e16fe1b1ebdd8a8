// Package client is a typed HTTP client for the store-manager backend API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"store-manager/internal/middleware"
	"store-manager/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// DefaultTimeout is used when no HTTP client is supplied.
const DefaultTimeout = 10 * time.Second

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 4 << 20

// APIError is returned for any non-2xx backend response.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("backend returned %d %s: %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("backend returned %d: %s", e.Status, e.Message)
}

// StatusOf returns the HTTP status carried by an *APIError in err's chain, or 0.
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// Client calls the backend on behalf of a logged-in user.
type Client struct {
	baseURL string
	http    *http.Client
	logger  zerolog.Logger
}

// New creates a backend client. A nil httpClient gets DefaultTimeout.
func New(baseURL string, httpClient *http.Client, logger zerolog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		logger:  logger.With().Str("component", "backend-client").Logger(),
	}
}

// Register creates a new account.
func (c *Client) Register(ctx context.Context, req model.RegisterRequest) error {
	_, err := c.do(ctx, http.MethodPost, "/auth/register", "", req)
	return err
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	body, err := c.do(ctx, http.MethodPost, "/auth/login", "", model.LoginRequest{
		Username: username,
		Password: password,
	})
	if err != nil {
		return "", err
	}
	token := strings.TrimSpace(string(body))
	if token == "" {
		return "", fmt.Errorf("backend returned an empty token")
	}
	return token, nil
}

// ListProducts returns every product.
func (c *Client) ListProducts(ctx context.Context, token string) ([]model.Product, error) {
	var products []model.Product
	if err := c.doJSON(ctx, http.MethodGet, "/api/products/allProducts", token, nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// AddProduct creates a product.
func (c *Client) AddProduct(ctx context.Context, token string, req model.ProductRequest) (*model.Product, error) {
	var product model.Product
	if err := c.doJSON(ctx, http.MethodPost, "/api/products/addProduct", token, req, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// UpdateProduct overwrites an existing product.
func (c *Client) UpdateProduct(ctx context.Context, token string, id int64, req model.ProductRequest) (*model.Product, error) {
	var product model.Product
	if err := c.doJSON(ctx, http.MethodPut, "/api/products/"+strconv.FormatInt(id, 10), token, req, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// DeleteProduct removes a product.
func (c *Client) DeleteProduct(ctx context.Context, token string, id int64) error {
	_, err := c.do(ctx, http.MethodDelete, "/api/products/"+strconv.FormatInt(id, 10), token, nil)
	return err
}

// ListOrders returns every order. Order dates arrive as dd-MM-yyyy.
func (c *Client) ListOrders(ctx context.Context, token string) ([]model.Order, error) {
	var orders []model.Order
	if err := c.doJSON(ctx, http.MethodGet, "/api/orders/allOrders", token, nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// AddOrder places an order. req.OrderDate is forwarded unchanged (yyyy-MM-dd).
func (c *Client) AddOrder(ctx context.Context, token string, req model.OrderRequest) (*model.Order, error) {
	var order model.Order
	if err := c.doJSON(ctx, http.MethodPost, "/api/orders/addOrder", token, req, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// DeleteOrder removes an order.
func (c *Client) DeleteOrder(ctx context.Context, token string, id int64) error {
	_, err := c.do(ctx, http.MethodDelete, "/api/orders/"+strconv.FormatInt(id, 10), token, nil)
	return err
}

// Statistics returns the number of orders per yyyy-MM-dd date.
func (c *Client) Statistics(ctx context.Context, token string) (model.OrderStatistics, error) {
	stats := model.OrderStatistics{}
	if err := c.doJSON(ctx, http.MethodGet, "/api/orders/statistics", token, nil, &stats); err != nil {
		return nil, err
	}
	return stats, nil
}

func (c *Client) doJSON(ctx context.Context, method, path, token string, in, out interface{}) error {
	body, err := c.do(ctx, method, path, token, in)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response from %s %s: %w", method, path, err)
	}
	return nil
}

// do sends the request and returns the response body of a 2xx response.
func (c *Client) do(ctx context.Context, method, path, token string, in interface{}) ([]byte, error) {
	var reqBody io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	correlationID := uuid.NewString()
	req.Header.Set(middleware.CorrelationIDHeader, correlationID)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error().
			Err(err).
			Str("method", method).
			Str("path", path).
			Str("correlation_id", correlationID).
			Msg("backend request failed")
		return nil, fmt.Errorf("backend request %s %s failed: %w", method, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response from %s %s: %w", method, path, err)
	}

	c.logger.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Str("correlation_id", correlationID).
		Msg("backend request completed")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newAPIError(resp.StatusCode, body)
	}
	return body, nil
}

func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{Status: status}

	var errResp model.ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Message != "" {
		apiErr.Code = errResp.Error
		apiErr.Message = errResp.Message
		return apiErr
	}

	apiErr.Message = strings.TrimSpace(string(body))
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(status)
	}
	return apiErr
}
