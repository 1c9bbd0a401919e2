// Package api implements the HTTP client for the remote catalog service.
//
// Every call is converted into one of two failure kinds at this boundary:
// RemoteError for explicit rejections and TransportError for everything that
// never produced a usable response. Nothing else escapes.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/explooosion/catalog-console/internal/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Client talks to the remote catalog service
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a new API client for the service at baseURL
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// loginRequest is the POST /api/login payload
type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// authResponse covers the login and refresh response shapes
type authResponse struct {
	Token string `json:"token"`
	Role  string `json:"role"`
	Error string `json:"error"`
}

// errorResponse is the generic failure payload
type errorResponse struct {
	Error string `json:"error"`
}

// Login authenticates with the remote service and returns the issued token
// and role. A 2xx response that carries no token is treated as a rejection;
// the server-supplied message is surfaced when present.
func (c *Client) Login(ctx context.Context, username, password string) (string, models.Role, error) {
	var resp authResponse
	status, err := c.do(ctx, http.MethodPost, "/api/login", "", loginRequest{Username: username, Password: password}, &resp)
	if err != nil {
		return "", "", err
	}

	if resp.Token == "" {
		message := resp.Error
		if message == "" {
			message = "login failed"
		}
		return "", "", &RemoteError{StatusCode: status, Message: message}
	}

	return resp.Token, models.Role(resp.Role), nil
}

// Refresh exchanges the current token for a fresh one
func (c *Client) Refresh(ctx context.Context, token string) (string, error) {
	var resp authResponse
	status, err := c.do(ctx, http.MethodPost, "/api/refresh", token, nil, &resp)
	if err != nil {
		return "", err
	}

	if resp.Token == "" {
		message := resp.Error
		if message == "" {
			message = "token refresh failed"
		}
		return "", &RemoteError{StatusCode: status, Message: message}
	}

	return resp.Token, nil
}

// ListProducts fetches the full product list. No authentication required.
func (c *Client) ListProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if _, err := c.do(ctx, http.MethodGet, "/api/products", "", nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// GetProduct fetches a single product by id. No authentication required.
func (c *Client) GetProduct(ctx context.Context, id int) (*models.Product, error) {
	var product models.Product
	if _, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/products/%d", id), "", nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// CreateProduct creates a product with the bearer token
func (c *Client) CreateProduct(ctx context.Context, token string, input models.ProductInput) (*models.Product, error) {
	var product models.Product
	if _, err := c.do(ctx, http.MethodPost, "/api/products", token, input, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// UpdateProduct replaces the product identified by id with the bearer token
func (c *Client) UpdateProduct(ctx context.Context, token string, id int, input models.ProductInput) (*models.Product, error) {
	var product models.Product
	if _, err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/products/%d", id), token, input, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// DeleteProduct removes the product identified by id with the bearer token
func (c *Client) DeleteProduct(ctx context.Context, token string, id int) error {
	_, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/products/%d", id), token, nil, nil)
	return err
}

// do issues one JSON request and decodes the response into out (when out is
// non-nil). It returns the HTTP status on success and a taxonomy error on
// failure.
func (c *Client) do(ctx context.Context, method, path, token string, body, out any) (int, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("X-Request-ID", uuid.New().String())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return 0, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, &TransportError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errResp errorResponse
		// An undecodable error body still yields a RemoteError; the status
		// line alone is enough to know the service rejected us.
		json.Unmarshal(data, &errResp)
		c.logger.Debug("request rejected",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("message", errResp.Error),
		)
		return resp.StatusCode, &RemoteError{StatusCode: resp.StatusCode, Message: errResp.Error}
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return resp.StatusCode, &TransportError{Err: fmt.Errorf("malformed response: %w", err)}
		}
	}

	return resp.StatusCode, nil
}
