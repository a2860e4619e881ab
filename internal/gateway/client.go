// Package gateway is the one place that talks to the remote inventory API.
// Each Client carries its own cookie jar, so the session cookie set at login
// is sent on every later request made through it.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/publicsuffix"

	"inventora/webclient/internal/domain"
)

const maxResponseBytes = 8 << 20

// APIError is a non-2xx answer from the remote API. Message is the text the
// API put in its body, suitable for showing to the user.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("inventory api returned status %d", e.StatusCode)
	}
	return e.Message
}

func (e *APIError) Unwrap() error {
	if e.StatusCode == http.StatusNotFound {
		return domain.ErrNotFound
	}
	return nil
}

// IsUnauthorized reports whether err is a 401 from the remote API.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
}

func New(baseURL string, timeout time.Duration) (*Client, error) {
	parsed, err := url.Parse(strings.TrimRight(strings.TrimSpace(baseURL), "/"))
	if err != nil {
		return nil, fmt.Errorf("parse api base url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("api base url must be http or https, got %q", baseURL)
	}
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: parsed,
		httpClient: &http.Client{
			Timeout: timeout,
			Jar:     jar,
		},
	}, nil
}

func (c *Client) Login(ctx context.Context, req domain.LoginRequest) (domain.UserInfo, error) {
	var resp wireAuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", req, &resp); err != nil {
		return domain.UserInfo{}, err
	}
	if resp.User == nil {
		return domain.UserInfo{}, malformed("login response without user")
	}
	return resp.User.toDomain()
}

// Signup registers an account. The API answers with a message only; the
// caller logs in afterwards.
func (c *Client) Signup(ctx context.Context, req domain.SignupRequest) (string, error) {
	payload := map[string]string{
		"name":     strings.TrimSpace(req.Name),
		"email":    strings.TrimSpace(req.Email),
		"password": req.Password,
	}
	var resp wireAuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/signup", payload, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

func (c *Client) Signout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/auth/signout", nil, nil)
}

func (c *Client) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	var resp []wireCustomer
	if err := c.do(ctx, http.MethodGet, "/customer", nil, &resp); err != nil {
		return nil, err
	}
	out := make([]domain.Customer, 0, len(resp))
	for _, w := range resp {
		customer, err := w.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, customer)
	}
	return out, nil
}

func (c *Client) CreateCustomer(ctx context.Context, customer domain.Customer) error {
	return c.do(ctx, http.MethodPost, "/customer", customerToWire(customer), nil)
}

func (c *Client) UpdateCustomer(ctx context.Context, id string, customer domain.Customer) error {
	return c.do(ctx, http.MethodPatch, "/customer/"+url.PathEscape(id), customerToWire(customer), nil)
}

func (c *Client) DeleteCustomer(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/customer/"+url.PathEscape(id), nil, nil)
}

func (c *Client) ListItems(ctx context.Context) ([]domain.InventoryItem, error) {
	var resp []wireItem
	if err := c.do(ctx, http.MethodGet, "/items", nil, &resp); err != nil {
		return nil, err
	}
	out := make([]domain.InventoryItem, 0, len(resp))
	for _, w := range resp {
		item, err := w.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

func (c *Client) CreateItem(ctx context.Context, item domain.InventoryItem) error {
	return c.do(ctx, http.MethodPost, "/items", itemToWire(item), nil)
}

func (c *Client) UpdateItem(ctx context.Context, id string, item domain.InventoryItem) error {
	return c.do(ctx, http.MethodPatch, "/items/"+url.PathEscape(id), itemToWire(item), nil)
}

func (c *Client) DeleteItem(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/items/"+url.PathEscape(id), nil, nil)
}

func (c *Client) ListSales(ctx context.Context) ([]domain.Sale, error) {
	var resp []wireSale
	if err := c.do(ctx, http.MethodGet, "/sale", nil, &resp); err != nil {
		return nil, err
	}
	out := make([]domain.Sale, 0, len(resp))
	for _, w := range resp {
		sale, err := w.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, sale)
	}
	return out, nil
}

func (c *Client) CreateSale(ctx context.Context, sale domain.NewSale) (domain.SaleReceipt, error) {
	var resp wireSaleCreated
	if err := c.do(ctx, http.MethodPost, "/sale", newSaleToWire(sale), &resp); err != nil {
		return domain.SaleReceipt{}, err
	}
	receipt := domain.SaleReceipt{Message: resp.Message, ReceiptNumber: string(resp.ReceiptNumber)}
	if receipt.ReceiptNumber == "" && resp.Sale != nil {
		receipt.ReceiptNumber = string(resp.Sale.ReceiptNumber)
	}
	return receipt, nil
}

func (c *Client) Dashboard(ctx context.Context) (domain.DashboardSummary, error) {
	var resp wireDashboard
	if err := c.do(ctx, http.MethodGet, "/dashboard", nil, &resp); err != nil {
		return domain.DashboardSummary{}, err
	}
	summary := domain.DashboardSummary{
		TotalItems:     resp.TotalItems,
		TotalCustomers: resp.TotalCustomers,
		TotalSales:     resp.TotalSales,
		NewCustomers:   make([]domain.Customer, 0, len(resp.NewCustomers)),
		NewItems:       make([]domain.InventoryItem, 0, len(resp.NewItems)),
		Earnings:       make([]domain.EarningsPoint, 0, len(resp.Earnings)),
	}
	for _, w := range resp.NewCustomers {
		customer, err := w.toDomain()
		if err != nil {
			return domain.DashboardSummary{}, err
		}
		summary.NewCustomers = append(summary.NewCustomers, customer)
	}
	for _, w := range resp.NewItems {
		item, err := w.toDomain()
		if err != nil {
			return domain.DashboardSummary{}, err
		}
		summary.NewItems = append(summary.NewItems, item)
	}
	for _, e := range resp.Earnings {
		summary.Earnings = append(summary.Earnings, domain.EarningsPoint{Date: e.Date, Total: e.TotalSales})
	}
	return summary, nil
}

func customerToWire(customer domain.Customer) wireCustomerInput {
	return wireCustomerInput{Name: customer.Name, Address: customer.Address, Mobile: customer.Mobile}
}

func (c *Client) do(ctx context.Context, method, path string, in any, out any) error {
	endpoint := c.baseURL.String() + path

	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("call %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("read %s %s: %w", method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{StatusCode: resp.StatusCode, Message: errorMessage(raw)}
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: decode %s %s: %v", ErrMalformedResponse, method, path, err)
	}
	return nil
}

func errorMessage(raw []byte) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		if body.Message != "" {
			return body.Message
		}
		if body.Error != "" {
			return body.Error
		}
	}
	text := strings.TrimSpace(string(raw))
	if len(text) > 200 || strings.HasPrefix(text, "<") {
		return ""
	}
	return text
}
