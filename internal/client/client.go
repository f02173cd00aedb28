// Package client is a typed Go client for the shopping list REST API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/vyrodovalexey/shoppinglist/internal/model"
)

// DefaultTimeout bounds every request made with the default HTTP client.
const DefaultTimeout = 10 * time.Second

// Client errors. Server-side messages are wrapped around them.
var (
	ErrNotFound         = errors.New("not found")
	ErrBadRequest       = errors.New("bad request")
	ErrUnexpectedStatus = errors.New("unexpected status")
)

// Client talks to a shopping list server.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// New creates a Client for the server at baseURL, e.g. http://localhost:8080.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Health reports whether the server answers its liveness probe.
func (c *Client) Health(ctx context.Context) error {
	_, err := call[json.RawMessage](ctx, c, http.MethodGet, "/health", nil)
	return err
}

// List returns every item in display order.
func (c *Client) List(ctx context.Context) ([]model.ShoppingItem, error) {
	items, err := call[[]model.ShoppingItem](ctx, c, http.MethodGet, "/api/v1/items", nil)
	return listResult(items, err)
}

// Search returns the items whose name or notes contain query.
func (c *Client) Search(ctx context.Context, query string) ([]model.ShoppingItem, error) {
	path := "/api/v1/items?" + url.Values{"q": {query}}.Encode()
	items, err := call[[]model.ShoppingItem](ctx, c, http.MethodGet, path, nil)
	return listResult(items, err)
}

// Get fetches one item.
func (c *Client) Get(ctx context.Context, id string) (model.ShoppingItem, error) {
	return call[model.ShoppingItem](ctx, c, http.MethodGet, itemPath(id), nil)
}

// Add appends a new item.
func (c *Client) Add(ctx context.Context, input model.ItemInput) (model.ShoppingItem, error) {
	return call[model.ShoppingItem](ctx, c, http.MethodPost, "/api/v1/items", input)
}

// Update replaces the name, quantity and notes of an item.
func (c *Client) Update(ctx context.Context, id string, input model.ItemInput) (model.ShoppingItem, error) {
	return call[model.ShoppingItem](ctx, c, http.MethodPut, itemPath(id), input)
}

// Delete removes an item.
func (c *Client) Delete(ctx context.Context, id string) error {
	_, err := call[json.RawMessage](ctx, c, http.MethodDelete, itemPath(id), nil)
	return err
}

// TogglePurchased flips the purchased flag and returns the updated item.
func (c *Client) TogglePurchased(ctx context.Context, id string) (model.ShoppingItem, error) {
	return call[model.ShoppingItem](ctx, c, http.MethodPost, itemPath(id)+"/toggle", nil)
}

// ClearPurchased removes purchased items and reports how many went.
func (c *Client) ClearPurchased(ctx context.Context) (int, error) {
	res, err := call[model.ClearPurchasedResult](ctx, c, http.MethodPost, "/api/v1/items/clear-purchased", nil)
	return res.Removed, err
}

// Reorder arranges the list to match ids and returns it.
func (c *Client) Reorder(ctx context.Context, ids []string) ([]model.ShoppingItem, error) {
	items, err := call[[]model.ShoppingItem](ctx, c, http.MethodPut, "/api/v1/items/order",
		model.ReorderRequest{IDs: ids})
	return listResult(items, err)
}

// call performs one request and unwraps the APIResponse envelope.
func call[T any](ctx context.Context, c *Client, method, path string, body any) (T, error) {
	var zero T

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return zero, fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return zero, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return zero, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return zero, fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return zero, statusError(resp.StatusCode, payload)
	}

	if resp.StatusCode == http.StatusNoContent || len(payload) == 0 {
		return zero, nil
	}

	var envelope model.APIResponse[T]
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return zero, fmt.Errorf("decode response: %w", err)
	}

	return envelope.Data, nil
}

func statusError(status int, payload []byte) error {
	var apiErr model.ErrorResponse
	message := strings.TrimSpace(string(payload))
	if err := json.Unmarshal(payload, &apiErr); err == nil && apiErr.Message != "" {
		message = apiErr.Message
	}

	switch status {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, message)
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %s", ErrBadRequest, message)
	default:
		return fmt.Errorf("%w %d: %s", ErrUnexpectedStatus, status, message)
	}
}

func itemPath(id string) string {
	return "/api/v1/items/" + url.PathEscape(id)
}

// listResult turns a null or missing data field into an empty list.
func listResult(items []model.ShoppingItem, err error) ([]model.ShoppingItem, error) {
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []model.ShoppingItem{}
	}
	return items, nil
}
