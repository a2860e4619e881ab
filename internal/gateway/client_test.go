package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inventora/webclient/internal/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client, err := New(srv.URL, 2*time.Second)
	require.NoError(t, err)
	return client
}

func TestNewRejectsNonHTTPBaseURL(t *testing.T) {
	_, err := New("ftp://example.com", time.Second)
	assert.Error(t, err)
}

func TestLoginKeepsSessionCookie(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["email"] != "owner@shop.in" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = io.WriteString(w, `{"message":"Invalid credentials"}`)
			return
		}
		http.SetCookie(w, &http.Cookie{Name: "token", Value: "abc", Path: "/"})
		_, _ = io.WriteString(w, `{"message":"Login successful","user":{"_id":"u1","name":"Owner","email":"owner@shop.in"}}`)
	})
	mux.HandleFunc("/customer", func(w http.ResponseWriter, r *http.Request) {
		if cookie, err := r.Cookie("token"); err != nil || cookie.Value != "abc" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = io.WriteString(w, `{"message":"Unauthorized"}`)
			return
		}
		_, _ = io.WriteString(w, `[{"_id":"c1","name":"Asha","address":"MG Road","mobile":9876543210}]`)
	})
	client := newTestClient(t, mux.ServeHTTP)

	_, err := client.ListCustomers(context.Background())
	require.True(t, IsUnauthorized(err), "expected 401 before login, got %v", err)

	user, err := client.Login(context.Background(), domain.LoginRequest{Email: "owner@shop.in", Password: "password1"})
	require.NoError(t, err)
	assert.Equal(t, domain.UserInfo{ID: "u1", Name: "Owner", Email: "owner@shop.in"}, user)

	customers, err := client.ListCustomers(context.Background())
	require.NoError(t, err)
	require.Len(t, customers, 1)
	assert.Equal(t, "9876543210", customers[0].Mobile)
}

func TestAPIErrorCarriesMessage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error":"Customer already exists"}`)
	})

	err := client.CreateCustomer(context.Background(), domain.Customer{Name: "Asha"})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "Customer already exists", apiErr.Error())
}

func TestNotFoundUnwrapsToDomainError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/items/i%2F9", r.URL.EscapedPath())
		w.WriteHeader(http.StatusNotFound)
	})

	err := client.DeleteItem(context.Background(), "i/9")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListItemsValidatesRecords(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[{"_id":1,"name":"Rice","description":"Basmati","quantity":20,"unit":"kg","price":50},
			{"_id":"2","name":"Oil","description":"Sunflower","quantity":4,"price":"120.25"}]`)
	})

	items, err := client.ListItems(context.Background())
	require.NoError(t, err, spew.Sdump(items))
	require.Len(t, items, 2)
	assert.Equal(t, "1", items[0].ID)
	assert.True(t, items[0].Price.Equal(decimal.NewFromInt(50)))
	assert.Equal(t, domain.UnitKg, items[1].Unit)
	assert.True(t, items[1].Price.Equal(decimal.RequireFromString("120.25")))
}

func TestListItemsRejectsMalformed(t *testing.T) {
	cases := map[string]string{
		"negative quantity": `[{"_id":"1","name":"Rice","quantity":-1,"price":5}]`,
		"missing quantity":  `[{"_id":"1","name":"Rice","price":5}]`,
		"unknown unit":      `[{"_id":"1","name":"Rice","quantity":1,"unit":"box","price":5}]`,
		"missing id":        `[{"name":"Rice","quantity":1,"price":5}]`,
		"not json":          `<html>oops</html>`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, body)
			})
			_, err := client.ListItems(context.Background())
			assert.ErrorIs(t, err, ErrMalformedResponse)
		})
	}
}

func TestListSalesAcceptsPopulatedAndBareCustomer(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[
			{"_id":"s1","receiptNumber":1001,"date":"2025-01-07T00:00:00.000Z","customerId":{"_id":"c1","name":"Asha"},
			 "items":[{"_id":"rice","name":"Rice","quantity":5,"total":250}],"totalAmount":250},
			{"_id":"s2","receiptNumber":"1002","date":"2025-01-08","customerId":"c2","items":[],"totalAmount":"0"}]`)
	})

	sales, err := client.ListSales(context.Background())
	require.NoError(t, err)
	require.Len(t, sales, 2)
	assert.Equal(t, "1001", sales[0].ReceiptNumber)
	assert.Equal(t, domain.CustomerRef{ID: "c1", Name: "Asha"}, sales[0].Customer)
	assert.True(t, sales[0].Date.Equal(time.Date(2025, 1, 7, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, domain.CustomerRef{ID: "c2"}, sales[1].Customer)
}

func TestCreateSaleSendsNumericAmounts(t *testing.T) {
	var got map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/sale", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"message":"Sale added successfully","sale":{"receiptNumber":77}}`)
	})

	receipt, err := client.CreateSale(context.Background(), domain.NewSale{
		Date:       "2025-03-09",
		CustomerID: "c1",
		Items:      []domain.SaleLine{{ItemID: "rice", Name: "Rice", Quantity: 8, Total: decimal.NewFromInt(400)}},
		Total:      decimal.NewFromInt(400),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.SaleReceipt{ReceiptNumber: "77", Message: "Sale added successfully"}, receipt)

	assert.Equal(t, "2025-03-09", got["date"])
	assert.Equal(t, "c1", got["customerId"])
	assert.Equal(t, float64(400), got["totalAmount"])
	lines, ok := got["items"].([]any)
	require.True(t, ok, spew.Sdump(got))
	line := lines[0].(map[string]any)
	assert.Equal(t, "rice", line["_id"])
	assert.Equal(t, float64(8), line["quantity"])
	assert.Equal(t, float64(400), line["total"])
	_, hasPrice := line["price"]
	assert.False(t, hasPrice)
}

func TestDashboard(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"totalItems":3,"totalCustomers":2,"totalSales":5,
			"newCustomers":[{"_id":"c1","name":"Asha"}],
			"newItems":[{"_id":"i1","name":"Rice","quantity":3,"price":50}],
			"earnings":[{"_id":"2025-01-07","totalSales":650.5}]}`)
	})

	summary, err := client.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, summary.TotalSales)
	require.Len(t, summary.Earnings, 1)
	assert.True(t, summary.Earnings[0].Total.Equal(decimal.RequireFromString("650.5")))
}

func TestTransportFailureIsNotAPIError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	client, err := New(srv.URL, time.Second)
	require.NoError(t, err)
	srv.Close()

	_, err = client.ListItems(context.Background())
	require.Error(t, err)
	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
}
